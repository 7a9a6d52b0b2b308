package region

import (
	polyclip "github.com/akavel/polyclip-go"
	"github.com/paulmach/orb"
)

func toClip(p orb.Polygon) polyclip.Polygon {
	var poly polyclip.Polygon
	for _, ring := range p {
		if len(ring) > 0 && !ring.Closed() {
			ring = append(ring, ring[0])
		}
		var ct polyclip.Contour
		for _, pt := range ring {
			ct = append(ct, polyclip.Point{X: pt[0], Y: pt[1]})
		}
		poly = append(poly, ct)
	}
	return poly
}

func fromClipContour(ct polyclip.Contour) orb.Ring {
	ring := make(orb.Ring, 0, len(ct)+1)
	for _, pt := range ct {
		ring = append(ring, orb.Point{pt.X, pt.Y})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// unionAll folds the polygons into one clip polygon and returns its rings,
// outer and hole rings mixed in the clipper's output order.
func unionAll(polys []orb.Polygon) []orb.Ring {
	acc := toClip(polys[0])
	for _, p := range polys[1:] {
		acc = acc.Construct(polyclip.UNION, toClip(p))
	}

	rings := make([]orb.Ring, 0, len(acc))
	for _, ct := range acc {
		rings = append(rings, fromClipContour(ct))
	}
	return rings
}

// assemble groups union output rings into polygons. Nesting depth parity
// decides whether a ring is an exterior or a hole: a ring contained in an
// odd number of other rings is a hole of its immediate parent.
func assemble(rings []orb.Ring) orb.MultiPolygon {
	depth := make([]int, len(rings))
	for i := range rings {
		for j := range rings {
			if i != j && ringInRing(rings[j], rings[i]) {
				depth[i]++
			}
		}
	}

	mp := orb.MultiPolygon{}
	component := make(map[int]int, len(rings))
	for i, r := range rings {
		if depth[i]%2 == 0 {
			component[i] = len(mp)
			mp = append(mp, orb.Polygon{r})
		}
	}
	for i, r := range rings {
		if depth[i]%2 == 0 {
			continue
		}
		for j := range rings {
			if j != i && depth[j] == depth[i]-1 && ringInRing(rings[j], r) {
				k := component[j]
				mp[k] = append(mp[k], r)
				break
			}
		}
	}

	for i := range mp {
		reorient(mp[i])
	}
	return mp
}

// ringInRing reports whether any vertex of r lies strictly inside outer.
// Union output rings never cross, so one interior vertex is enough.
func ringInRing(outer orb.Ring, r orb.Ring) bool {
	for _, p := range r {
		inside := false

		x, y := p[0], p[1]
		i, j := 0, len(outer)-1
		for i < len(outer) {
			xi, yi := outer[i][0], outer[i][1]
			xj, yj := outer[j][0], outer[j][1]

			if ((yi > y) != (yj > y)) &&
				(x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
				inside = !inside
			}

			j = i
			i++
		}

		if inside {
			return true
		}
	}

	return false
}

func reorient(p orb.Polygon) {
	if p[0].Orientation() != orb.CCW {
		p[0].Reverse()
	}

	for i := 1; i < len(p); i++ {
		if p[i].Orientation() != orb.CW {
			p[i].Reverse()
		}
	}
}
