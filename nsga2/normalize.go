package nsga2

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Normalize rescales every individual's Solutions to Raw divided by the
// per-objective maximum over individuals and returns the maxima used.
// The scale is local to the given population, so it shifts between
// generations. An objective whose maximum is not positive is left unscaled.
func Normalize(individuals []*Individual) []float64 {
	if len(individuals) == 0 {
		return nil
	}
	objectives := len(individuals[0].Raw)
	maxima := make([]float64, objectives)
	col := make([]float64, len(individuals))
	for m := 0; m < objectives; m++ {
		for i, ind := range individuals {
			col[i] = ind.Raw[m]
		}
		maxima[m] = floats.Max(col)
	}
	for m, mx := range maxima {
		if mx <= 0 {
			logrus.Warnf("objective %d has maximum %.4g across the population; left unnormalized", m, mx)
		}
	}
	for _, ind := range individuals {
		ind.Solutions = make([]float64, objectives)
		for m, v := range ind.Raw {
			if maxima[m] > 0 {
				v /= maxima[m]
			}
			ind.Solutions[m] = v
		}
	}
	return maxima
}
