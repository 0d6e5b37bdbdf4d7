// Package testutil provides shared test infrastructure for the scheduling simulator.
// It holds the golden trace types and assertion helpers used across
// sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden_traces.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one hand-computed deterministic run.
type GoldenTestCase struct {
	Name     string        `json:"name"`
	Scenario string        `json:"scenario"` // scenario text format
	Policy   string        `json:"policy"`
	Quantum  float64       `json:"quantum"`
	Metrics  GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected outcome of a golden test case.
type GoldenMetrics struct {
	// Objective vector
	AvgTurnaround   float64 `json:"avg_turnaround"`
	AvgWaiting      float64 `json:"avg_waiting"`
	ContextSwitches int     `json:"context_switches"`

	Preemptions   int     `json:"preemptions"`
	Completed     int     `json:"completed"`
	Makespan      float64 `json:"makespan"`
	DispatchOrder []int   `json:"dispatch_order"`
}

// LoadGoldenDataset loads the golden traces from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_traces.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
