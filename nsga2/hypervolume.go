package nsga2

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Hypervolume returns the volume of objective space dominated by points and
// bounded by ref (minimization). Points not strictly better than ref in every
// objective contribute nothing. The computation slices along the last
// objective recursively and is exact for any dimension; it is meant for
// Pareto fronts of population size.
func Hypervolume(points [][]float64, ref []float64) float64 {
	kept := make([][]float64, 0, len(points))
	for _, p := range points {
		if len(p) == len(ref) && strictlyBelow(p, ref) {
			kept = append(kept, p)
		}
	}
	return sliceVolume(kept, ref, len(ref))
}

func strictlyBelow(p, ref []float64) bool {
	for i := range p {
		if p[i] >= ref[i] {
			return false
		}
	}
	return true
}

// sliceVolume measures the first d objectives of points.
func sliceVolume(points [][]float64, ref []float64, d int) float64 {
	if len(points) == 0 || d == 0 {
		return 0
	}
	if d == 1 {
		col := make([]float64, len(points))
		for i, p := range points {
			col[i] = p[0]
		}
		return ref[0] - floats.Min(col)
	}
	sorted := make([][]float64, len(points))
	copy(sorted, points)
	k := d - 1
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i][k] < sorted[j][k] })

	var vol float64
	for i := range sorted {
		upper := ref[k]
		if i+1 < len(sorted) {
			upper = sorted[i+1][k]
		}
		depth := upper - sorted[i][k]
		if depth <= 0 {
			continue
		}
		vol += depth * sliceVolume(sorted[:i+1], ref, k)
	}
	return vol
}

// ReferencePoint returns the per-objective maximum of vectors scaled by
// factor. It is used when no fixed reference point is configured.
func ReferencePoint(vectors [][]float64, factor float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	ref := make([]float64, len(vectors[0]))
	col := make([]float64, len(vectors))
	for m := range ref {
		for i, v := range vectors {
			col[i] = v[m]
		}
		ref[m] = floats.Max(col) * factor
		if ref[m] <= 0 {
			ref[m] = factor
		}
	}
	return ref
}
