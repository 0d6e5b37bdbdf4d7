package nsga2

import (
	"fmt"
	"strings"
)

// Individual is one candidate solution.
type Individual struct {
	Genome []float64
	// Solutions holds the objective values the optimizer ranks on. They equal
	// Raw unless per-generation normalization is enabled.
	Solutions []float64
	// Raw holds the objective values exactly as the evaluator returned them.
	Raw []float64

	Rank             int     // 1-based front depth
	CrowdingDistance float64 // +Inf at front boundaries
	DominationCount  int     // individuals dominating this one
	Dominated        []*Individual
}

// NewIndividual creates an unevaluated individual owning a copy of genome.
func NewIndividual(genome []float64) *Individual {
	return &Individual{Genome: append([]float64(nil), genome...)}
}

// Evaluated reports whether objective values have been assigned.
func (ind *Individual) Evaluated() bool {
	return len(ind.Raw) > 0
}

// setObjectives stores an evaluation result.
func (ind *Individual) setObjectives(raw []float64) {
	ind.Raw = append([]float64(nil), raw...)
	ind.Solutions = append([]float64(nil), raw...)
}

// Dominates reports whether ind Pareto-dominates other.
func (ind *Individual) Dominates(other *Individual) bool {
	return Dominates(ind.Solutions, other.Solutions)
}

func (ind *Individual) String() string {
	parts := make([]string, len(ind.Solutions))
	for i, v := range ind.Solutions {
		parts[i] = fmt.Sprintf("%.4g", v)
	}
	return fmt.Sprintf("genome=%v rank=%d (%s)", ind.Genome, ind.Rank, strings.Join(parts, ", "))
}

// Dominates reports whether objective vector a Pareto-dominates b under
// minimization: a is no worse in every objective and strictly better in one.
// Vectors of different length never dominate each other.
func Dominates(a, b []float64) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	strictly := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strictly = true
		}
	}
	return strictly
}
