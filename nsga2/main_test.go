package nsga2

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Set DEBUG_TESTS=1 to see per-generation logs.
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

// withObjectives builds an evaluated individual.
func withObjectives(genome float64, objectives ...float64) *Individual {
	ind := NewIndividual([]float64{genome})
	ind.setObjectives(objectives)
	return ind
}
