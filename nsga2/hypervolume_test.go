package nsga2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHypervolume(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		ref    []float64
		want   float64
	}{
		{"empty", nil, []float64{1, 1}, 0},
		{"two-dimensional staircase", [][]float64{{1, 2}, {2, 1}}, []float64{3, 3}, 3},
		{"dominated point adds nothing", [][]float64{{1, 1}, {2, 2}}, []float64{3, 3}, 4},
		{"point beyond reference ignored", [][]float64{{1, 1}, {4, 0}}, []float64{3, 3}, 4},
		{"point on reference boundary ignored", [][]float64{{3, 1}}, []float64{3, 3}, 0},
		{"single three-dimensional box", [][]float64{{1, 1, 1}}, []float64{2, 2, 2}, 1},
		{"overlapping three-dimensional boxes", [][]float64{{1, 1, 2}, {2, 2, 1}}, []float64{3, 3, 3}, 5},
		{"one dimension", [][]float64{{2}, {1}}, []float64{5}, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Hypervolume(tc.points, tc.ref), 1e-12)
		})
	}
}

func TestHypervolume_InputOrderIndependent(t *testing.T) {
	ref := []float64{10, 10, 10}
	a := [][]float64{{1, 5, 3}, {4, 2, 6}, {2, 2, 8}, {7, 1, 1}}
	b := [][]float64{{7, 1, 1}, {2, 2, 8}, {1, 5, 3}, {4, 2, 6}}
	assert.InDelta(t, Hypervolume(a, ref), Hypervolume(b, ref), 1e-9)
}

func TestReferencePoint(t *testing.T) {
	ref := ReferencePoint([][]float64{{1, 4, 0}, {3, 2, 0}}, 1.1)
	assert.InDelta(t, 3.3, ref[0], 1e-12)
	assert.InDelta(t, 4.4, ref[1], 1e-12)
	assert.InDelta(t, 1.1, ref[2], 1e-12, "non-positive maximum falls back to the factor")
	assert.Nil(t, ReferencePoint(nil, 1.1))
}

func TestNormalize_DividesByPopulationMaxima(t *testing.T) {
	a := withObjectives(0, 2, 4, 0)
	b := withObjectives(1, 4, 0, 0)

	maxima := Normalize([]*Individual{a, b})

	assert.Equal(t, []float64{4, 4, 0}, maxima)
	assert.Equal(t, []float64{0.5, 1, 0}, a.Solutions)
	assert.Equal(t, []float64{1, 0, 0}, b.Solutions)
	assert.Equal(t, []float64{2, 4, 0}, a.Raw, "raw objectives are kept")
}
