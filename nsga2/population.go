package nsga2

import (
	"math/rand"
	"sort"
)

// Front is a set of mutually non-dominated individuals at one dominance depth.
type Front []*Individual

// Population is an ordered collection of individuals plus its current
// partition into fronts.
type Population struct {
	Individuals []*Individual
	Fronts      []Front
}

// NewRandomPopulation draws n genomes of the given length uniformly from bounds.
func NewRandomPopulation(n, genomeLength int, bounds Bounds, rng *rand.Rand) *Population {
	pop := &Population{Individuals: make([]*Individual, 0, n)}
	for i := 0; i < n; i++ {
		genome := make([]float64, genomeLength)
		for j := range genome {
			genome[j] = bounds.Min + rng.Float64()*(bounds.Max-bounds.Min)
		}
		pop.Individuals = append(pop.Individuals, &Individual{Genome: genome})
	}
	return pop
}

// Len returns the number of individuals.
func (p *Population) Len() int {
	return len(p.Individuals)
}

// Union returns a new population holding p's individuals followed by other's.
func (p *Population) Union(other *Population) *Population {
	all := make([]*Individual, 0, p.Len()+other.Len())
	all = append(all, p.Individuals...)
	all = append(all, other.Individuals...)
	return &Population{Individuals: all}
}

// Sort partitions the population into fronts and assigns crowding distances.
func (p *Population) Sort() {
	p.Fronts = FastNonDominatedSort(p.Individuals)
	for _, f := range p.Fronts {
		AssignCrowdingDistance(f)
	}
}

// FirstFront returns the rank-1 individuals ordered by genome, then by objectives.
func (p *Population) FirstFront() Front {
	var out Front
	for _, ind := range p.Individuals {
		if ind.Rank == 1 {
			out = append(out, ind)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lexLess(out[i].Genome, out[j].Genome)
	})
	return out
}

// Objectives returns the raw objective vectors of the front.
func (f Front) Objectives() [][]float64 {
	out := make([][]float64, len(f))
	for i, ind := range f {
		out[i] = ind.Raw
	}
	return out
}

func lexLess(a, b []float64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
