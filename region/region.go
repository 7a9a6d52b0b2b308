package region

import (
	"errors"
	"iter"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrEmpty is returned by Unify when there are no polygons to merge.
// A region without area has no bounding box to sample.
var ErrEmpty = errors.New("region: no polygons")

// Region is the planar union of a set of polygons: one or more disjoint
// components, each an outer ring plus any holes the union produced.
// A Region is immutable once built.
type Region struct {
	mp orb.MultiPolygon
}

// Unify merges the polygons into a single region. Overlapping and
// edge-adjacent polygons merge into one component, disjoint polygons stay
// separate components.
func Unify(polys []orb.Polygon) (Region, error) {
	if len(polys) == 0 {
		return Region{}, ErrEmpty
	}
	return Region{mp: assemble(unionAll(polys))}, nil
}

// Bound returns the bounding box of the whole region.
func (r Region) Bound() orb.Bound {
	return r.mp.Bound()
}

// Contains reports whether the region covers the point. Points exactly on
// a boundary count as contained.
func (r Region) Contains(p orb.Point) bool {
	return planar.MultiPolygonContains(r.mp, p)
}

// Area returns the total area of the region on the plane, holes excluded.
func (r Region) Area() float64 {
	return planar.Area(r.mp)
}

// Components returns the number of disjoint pieces of the region.
func (r Region) Components() int {
	return len(r.mp)
}

// Boundaries yields the exterior ring vertices of every component, in
// storage order. Closing vertices are kept exactly as stored, nothing is
// deduplicated.
func (r Region) Boundaries() iter.Seq[orb.Point] {
	return func(yield func(orb.Point) bool) {
		for _, poly := range r.mp {
			for _, p := range poly[0] {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// BoundaryLen returns the total number of vertices Boundaries will yield.
func (r Region) BoundaryLen() int64 {
	var n int64
	for _, poly := range r.mp {
		n += int64(len(poly[0]))
	}
	return n
}
