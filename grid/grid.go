package grid

import (
	"errors"
	"iter"
	"math"

	"github.com/paulmach/orb"
	"github.com/royalcat/gridpoints/region"
)

// ErrInvalidSpacing is returned for a non-positive spacing or radius.
var ErrInvalidSpacing = errors.New("grid: spacing must be positive")

// Lattice yields every candidate point of the half-open lattice
// {min + i*spacing | min + i*spacing < max} over both axes of the bound.
// The sweep is x-major: all y values of one column before the next x.
// The sequence is lazy, the lattice is never materialized.
func Lattice(b orb.Bound, spacing float64) (iter.Seq[orb.Point], error) {
	if spacing <= 0 {
		return nil, ErrInvalidSpacing
	}
	nx := axisSteps(b.Min[0], b.Max[0], spacing)
	ny := axisSteps(b.Min[1], b.Max[1], spacing)

	return func(yield func(orb.Point) bool) {
		for i := int64(0); i < nx; i++ {
			x := b.Min[0] + float64(i)*spacing
			for j := int64(0); j < ny; j++ {
				y := b.Min[1] + float64(j)*spacing
				if !yield(orb.Point{x, y}) {
					return
				}
			}
		}
	}, nil
}

// LatticeSize returns the number of candidate points Lattice will yield,
// for progress totals.
func LatticeSize(b orb.Bound, spacing float64) (int64, error) {
	if spacing <= 0 {
		return 0, ErrInvalidSpacing
	}
	return axisSteps(b.Min[0], b.Max[0], spacing) * axisSteps(b.Min[1], b.Max[1], spacing), nil
}

// axisSteps counts the lattice values in [min, max). The ceil estimate is
// corrected so the half-open invariant holds even when (max-min)/spacing
// rounds across an integer.
func axisSteps(min, max, spacing float64) int64 {
	if max <= min {
		return 0
	}
	n := int64(math.Ceil((max - min) / spacing))
	for n > 0 && min+float64(n-1)*spacing >= max {
		n--
	}
	for min+float64(n)*spacing < max {
		n++
	}
	return n
}

// Contained filters candidate points down to those the region covers.
func Contained(r region.Region, points iter.Seq[orb.Point]) iter.Seq[orb.Point] {
	return func(yield func(orb.Point) bool) {
		for p := range points {
			if r.Contains(p) && !yield(p) {
				return
			}
		}
	}
}

// Sample enumerates the half-open lattice over the region's bounding box
// and keeps the points the region covers.
func Sample(r region.Region, spacing float64) (iter.Seq[orb.Point], error) {
	candidates, err := Lattice(r.Bound(), spacing)
	if err != nil {
		return nil, err
	}
	return Contained(r, candidates), nil
}
