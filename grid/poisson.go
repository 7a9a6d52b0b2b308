package grid

import (
	"iter"

	"github.com/fogleman/poissondisc"
	"github.com/paulmach/orb"
	"github.com/royalcat/gridpoints/region"
)

// Poisson returns blue-noise candidate points covering the bound, at least
// radius apart, plus the candidate count for progress totals. Unlike the
// lattice, the candidate set is randomized and not reproducible between
// runs.
func Poisson(b orb.Bound, radius float64) (iter.Seq[orb.Point], int64, error) {
	if radius <= 0 {
		return nil, 0, ErrInvalidSpacing
	}

	points := poissondisc.Sample(b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y(), radius, 10, nil)

	seq := func(yield func(orb.Point) bool) {
		for _, p := range points {
			if !yield(orb.Point{p.X, p.Y}) {
				return
			}
		}
	}
	return seq, int64(len(points)), nil
}

// SamplePoisson is the blue-noise counterpart of Sample.
func SamplePoisson(r region.Region, radius float64) (iter.Seq[orb.Point], error) {
	candidates, _, err := Poisson(r.Bound(), radius)
	if err != nil {
		return nil, err
	}
	return Contained(r, candidates), nil
}
