package nsga2

import (
	"math"
	"math/rand"
)

// sbxEpsilon is the parent distance below which SBX copies the parents.
const sbxEpsilon = 1e-14

// Bounds is the closed interval every gene must stay in.
type Bounds struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Clamp returns v limited to [b.Min, b.Max].
func (b Bounds) Clamp(v float64) float64 {
	return math.Max(b.Min, math.Min(b.Max, v))
}

// Tournament draws two individuals uniformly at random, with replacement, and
// returns the crowded-comparison winner.
func Tournament(individuals []*Individual, rng *rand.Rand) *Individual {
	a := individuals[rng.Intn(len(individuals))]
	b := individuals[rng.Intn(len(individuals))]
	return Crowded(a, b)
}

// SBX performs simulated binary crossover with distribution index eta.
// For genomes longer than one gene each gene is exchanged only with
// probability 0.5; otherwise children inherit the parents' genes unchanged.
// Parents closer than 1e-14 on a gene are copied too. Children always lie
// within bounds.
func SBX(parent1, parent2 []float64, eta float64, bounds Bounds, rng *rand.Rand) (child1, child2 []float64) {
	child1 = make([]float64, len(parent1))
	child2 = make([]float64, len(parent2))
	for j := range parent1 {
		if len(parent1) != 1 && rng.Float64() > 0.5 {
			child1[j], child2[j] = parent1[j], parent2[j]
			continue
		}
		if math.Abs(parent1[j]-parent2[j]) <= sbxEpsilon {
			child1[j], child2[j] = parent1[j], parent2[j]
			continue
		}
		y1, y2 := math.Min(parent1[j], parent2[j]), math.Max(parent1[j], parent2[j])
		betaBar := sbxSpread(y1, y2, eta, bounds, rng.Float64())
		child1[j] = bounds.Clamp(0.5 * ((y1 + y2) - betaBar*(y2-y1)))
		child2[j] = bounds.Clamp(0.5 * ((y1 + y2) + betaBar*(y2-y1)))
	}
	return child1, child2
}

// sbxSpread computes the bounded spread factor for parents y1 < y2 from the
// uniform draw u.
func sbxSpread(y1, y2, eta float64, bounds Bounds, u float64) float64 {
	beta := 1 + (2/(y2-y1))*math.Min(y1-bounds.Min, bounds.Max-y2)
	alpha := 2 - math.Pow(beta, -(eta+1))
	if u <= 1/alpha {
		return math.Pow(alpha*u, 1/(eta+1))
	}
	return math.Pow(1/(2-alpha*u), 1/(eta+1))
}

// MutationParams controls Mutate.
type MutationParams struct {
	Rate            float64 // probability that the genome is disturbed at all
	GeneProbability float64 // per-gene disturbance probability once triggered
	DisturbPercent  float64 // magnitude as a percentage of the gene value
}

// Mutate returns a mutated copy of genome. With probability p.Rate each gene is,
// with probability p.GeneProbability, moved by ±DisturbPercent% of its value
// (sign chosen uniformly) and clamped to bounds.
func Mutate(genome []float64, p MutationParams, bounds Bounds, rng *rand.Rand) []float64 {
	out := append([]float64(nil), genome...)
	if rng.Float64() >= p.Rate {
		return out
	}
	for i := range out {
		if rng.Float64() >= p.GeneProbability {
			continue
		}
		delta := p.DisturbPercent * out[i] / 100
		if rng.Float64() < 0.5 {
			delta = -delta
		}
		out[i] = bounds.Clamp(out[i] + delta)
	}
	return out
}
