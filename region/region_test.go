package region_test

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/gridpoints/region"
)

func polygonFromBounds(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		orb.Point{minX, minY},
		orb.Point{maxX, minY},
		orb.Point{maxX, maxY},
		orb.Point{minX, maxY},
		orb.Point{minX, minY},
	}}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUnifyEmpty(t *testing.T) {
	_, err := region.Unify(nil)
	if !errors.Is(err, region.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestUnifySingle(t *testing.T) {
	r, err := region.Unify([]orb.Polygon{polygonFromBounds(0, 0, 2, 2)})
	if err != nil {
		t.Fatal(err)
	}
	if r.Components() != 1 {
		t.Fatalf("expected 1 component, got %d", r.Components())
	}
	if !almostEqual(r.Area(), 4) {
		t.Fatalf("expected area 4, got %f", r.Area())
	}

	b := r.Bound()
	if b.Min != (orb.Point{0, 0}) || b.Max != (orb.Point{2, 2}) {
		t.Fatalf("unexpected bound: %v", b)
	}
}

func TestUnifyOverlapping(t *testing.T) {
	r, err := region.Unify([]orb.Polygon{
		polygonFromBounds(0, 0, 2, 2),
		polygonFromBounds(1, 1, 3, 3),
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.Components() != 1 {
		t.Fatalf("expected 1 component, got %d", r.Components())
	}
	if !almostEqual(r.Area(), 7) {
		t.Fatalf("expected area 7, got %f", r.Area())
	}
}

func TestUnifyDisjoint(t *testing.T) {
	r, err := region.Unify([]orb.Polygon{
		polygonFromBounds(0, 0, 1, 1),
		polygonFromBounds(2, 2, 3, 3),
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.Components() != 2 {
		t.Fatalf("expected 2 components, got %d", r.Components())
	}
	if !almostEqual(r.Area(), 2) {
		t.Fatalf("expected area 2, got %f", r.Area())
	}
}

func TestUnifyTouching(t *testing.T) {
	r, err := region.Unify([]orb.Polygon{
		polygonFromBounds(0, 0, 1, 1),
		polygonFromBounds(1, 0, 2, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.Components() != 1 {
		t.Fatalf("expected touching squares to merge, got %d components", r.Components())
	}
	if !almostEqual(r.Area(), 2) {
		t.Fatalf("expected area 2, got %f", r.Area())
	}
}

func TestUnifyOrderIndependentArea(t *testing.T) {
	polys := []orb.Polygon{
		polygonFromBounds(0, 0, 2, 2),
		polygonFromBounds(1, 1, 3, 3),
		polygonFromBounds(5, 5, 6, 6),
	}
	reversed := []orb.Polygon{polys[2], polys[1], polys[0]}

	a, err := region.Unify(polys)
	if err != nil {
		t.Fatal(err)
	}
	b, err := region.Unify(reversed)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(a.Area(), b.Area()) {
		t.Fatalf("area depends on input order: %f vs %f", a.Area(), b.Area())
	}
	if a.Components() != b.Components() {
		t.Fatalf("component count depends on input order: %d vs %d", a.Components(), b.Components())
	}
}

func TestUnifyPolygonWithHole(t *testing.T) {
	poly := polygonFromBounds(0, 0, 4, 4)
	poly = append(poly, polygonFromBounds(1, 1, 3, 3)[0])

	r, err := region.Unify([]orb.Polygon{poly})
	if err != nil {
		t.Fatal(err)
	}
	if r.Components() != 1 {
		t.Fatalf("expected 1 component, got %d", r.Components())
	}
	if !almostEqual(r.Area(), 12) {
		t.Fatalf("expected area 12, got %f", r.Area())
	}
	if r.Contains(orb.Point{2, 2}) {
		t.Fatal("point inside the hole must not be contained")
	}
	if !r.Contains(orb.Point{0.5, 0.5}) {
		t.Fatal("point between outer ring and hole must be contained")
	}
}

func TestContainsCoversBoundary(t *testing.T) {
	r, err := region.Unify([]orb.Polygon{polygonFromBounds(0, 0, 2, 2)})
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []orb.Point{{0, 0}, {0, 1}, {1, 0}, {2, 2}, {1, 1}} {
		if !r.Contains(p) {
			t.Fatalf("expected %v to be contained", p)
		}
	}
	for _, p := range []orb.Point{{3, 3}, {-0.1, 1}, {1, 2.1}} {
		if r.Contains(p) {
			t.Fatalf("expected %v to be outside", p)
		}
	}
}

func TestBoundariesPreserveRingOrder(t *testing.T) {
	// Unclosed input: the unifier closes the ring, the extractor must
	// emit it exactly as stored including the closing vertex.
	r, err := region.Unify([]orb.Polygon{{orb.Ring{
		{0, 0}, {2, 0}, {2, 2}, {0, 2},
	}}})
	if err != nil {
		t.Fatal(err)
	}

	var got []orb.Point
	for p := range r.Boundaries() {
		got = append(got, p)
	}

	want := []orb.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %d boundary points, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("boundary point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if int64(len(got)) != r.BoundaryLen() {
		t.Fatalf("BoundaryLen %d does not match emitted count %d", r.BoundaryLen(), len(got))
	}
}

func FuzzContainsMatchesPlanar(f *testing.F) {
	f.Add(0.0, 0.0, 1.0, 1.0, 0.5, 0.5)
	f.Add(0.0, 0.0, 1.0, 1.0, 1.5, 1.5)
	f.Add(-2.0, -2.0, 2.0, 2.0, 0.0, 2.0)

	f.Fuzz(func(t *testing.T, minX, minY, maxX, maxY, pointX, pointY float64) {
		for _, v := range []float64{minX, minY, maxX, maxY, pointX, pointY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Skip()
			}
		}
		if !(minX < maxX) || !(minY < maxY) {
			t.Skip()
		}
		poly := polygonFromBounds(minX, minY, maxX, maxY)
		point := orb.Point{pointX, pointY}

		r, err := region.Unify([]orb.Polygon{poly})
		if err != nil {
			t.Fatal(err)
		}

		expect := planar.MultiPolygonContains(orb.MultiPolygon{poly}, point)
		if got := r.Contains(point); got != expect {
			t.Fatalf("expected %v, got %v", expect, got)
		}
	})
}
