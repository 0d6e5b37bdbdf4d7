package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes a per-process sample such as turnaround or waiting.
type Distribution struct {
	Mean float64 `json:"mean" yaml:"mean"`
	P50  float64 `json:"p50" yaml:"p50"`
	P95  float64 `json:"p95" yaml:"p95"`
	P99  float64 `json:"p99" yaml:"p99"`
	Max  float64 `json:"max" yaml:"max"`
}

// CalculatePercentile returns the p-th percentile (0-100) of data using linear
// interpolation between closest ranks. data need not be sorted; it is not modified.
// Empty input yields 0.
func CalculatePercentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		return sorted[n-1]
	}
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	return sorted[lowerIdx] + (sorted[upperIdx]-sorted[lowerIdx])*(rank-float64(lowerIdx))
}

// Summarize computes the mean, tail percentiles and maximum of data.
func Summarize(data []float64) Distribution {
	if len(data) == 0 {
		return Distribution{}
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return Distribution{
		Mean: stat.Mean(sorted, nil),
		P50:  percentileSorted(sorted, 50),
		P95:  percentileSorted(sorted, 95),
		P99:  percentileSorted(sorted, 99),
		Max:  sorted[len(sorted)-1],
	}
}
