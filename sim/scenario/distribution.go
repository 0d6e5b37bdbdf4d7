package scenario

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws one real value per call from a fixed distribution.
// Draws come from the caller's stream so that a seeded stream yields a
// reproducible sequence.
type Sampler interface {
	Sample(rng *rand.Rand) float64
}

// ConstantSampler always returns the same value. It stands in for a
// triangle whose min equals its max.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}

// TriangularSampler samples by inverse transform through gonum's triangle quantile.
type TriangularSampler struct {
	dist distuv.Triangle
}

func (s *TriangularSampler) Sample(rng *rand.Rand) float64 {
	return s.dist.Quantile(rng.Float64())
}

// ExponentialSampler samples inter-arrival gaps with the given mean.
type ExponentialSampler struct {
	dist distuv.Exponential
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return s.dist.Quantile(rng.Float64())
}

// NewTriangularSampler builds a sampler for t, degrading to a constant when the
// distribution has no spread.
func NewTriangularSampler(t Triangle) (Sampler, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if t.Min == t.Max {
		return &ConstantSampler{value: t.Min}, nil
	}
	return &TriangularSampler{dist: distuv.NewTriangle(t.Min, t.Max, t.Mode, nil)}, nil
}

// NewExponentialSampler builds an exponential sampler with the given mean.
func NewExponentialSampler(mean float64) (Sampler, error) {
	if mean <= 0 {
		return nil, fmt.Errorf("exponential mean must be positive, got %v", mean)
	}
	return &ExponentialSampler{dist: distuv.Exponential{Rate: 1 / mean}}, nil
}
