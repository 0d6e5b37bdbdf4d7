// Package scenario describes the process population a simulation run is driven by.
// A Scenario is loaded once and then shared read-only by every evaluation; all
// per-run randomness is drawn by Generate from a caller-supplied stream.
package scenario

import (
	"fmt"
	"hash/fnv"
	"math"
)

// Model selects how the process population is produced.
type Model string

const (
	// ModelDeterministic replays a fixed list of processes, one CPU burst each.
	ModelDeterministic Model = "deterministic"
	// ModelProbabilistic samples arrivals and bursts from distributions up to a horizon.
	ModelProbabilistic Model = "probabilistic"
)

// Triangle holds the parameters of a triangular distribution.
type Triangle struct {
	Min  float64
	Mode float64
	Max  float64
}

// IsZero reports whether the distribution was never configured.
func (t Triangle) IsZero() bool {
	return t.Min == 0 && t.Mode == 0 && t.Max == 0
}

func (t Triangle) validate() error {
	if !finite(t.Min) || !finite(t.Mode) || !finite(t.Max) {
		return fmt.Errorf("parameters must be finite, got %v %v %v", t.Min, t.Mode, t.Max)
	}
	if t.Min < 0 {
		return fmt.Errorf("min %v must be non-negative", t.Min)
	}
	if t.Min > t.Mode || t.Mode > t.Max {
		return fmt.Errorf("expected min <= mode <= max, got %v %v %v", t.Min, t.Mode, t.Max)
	}
	return nil
}

// ProcessRecord is one line of a deterministic scenario.
type ProcessRecord struct {
	ID       int
	Arrival  float64
	Burst    float64
	Priority int
}

// Scenario is the static description of a workload.
type Scenario struct {
	Name  string
	Model Model

	// Deterministic model.
	Processes []ProcessRecord

	// Probabilistic model.
	Horizon          float64  // S TS
	MeanInterarrival float64  // P CH
	Priority         Triangle // P PR
	Termination      Triangle // P EN, disabled when mode or max is zero
	IOCount          Triangle // P NI
	IODuration       Triangle // P DI
	CPUDuration      Triangle // P DC

	NumCPUs    int
	NumDevices int
}

// TerminationEnabled reports whether processes linger after their last burst.
func (s *Scenario) TerminationEnabled() bool {
	return s.Termination.Mode != 0 && s.Termination.Max != 0
}

// Validate checks the cross-record constraints that a single line cannot.
func (s *Scenario) Validate() error {
	if s.NumCPUs < 1 {
		return &ConfigError{Reason: fmt.Sprintf("at least one CPU is required, got %d", s.NumCPUs)}
	}
	if s.NumDevices < 0 {
		return &ConfigError{Reason: fmt.Sprintf("device count must be non-negative, got %d", s.NumDevices)}
	}
	switch s.Model {
	case ModelDeterministic:
		seen := make(map[int]bool, len(s.Processes))
		for _, p := range s.Processes {
			if seen[p.ID] {
				return &ConfigError{Reason: fmt.Sprintf("duplicate process id %d", p.ID)}
			}
			seen[p.ID] = true
			if !finite(p.Arrival) || p.Arrival < 0 {
				return &ConfigError{Reason: fmt.Sprintf("process %d: arrival %v must be finite and non-negative", p.ID, p.Arrival)}
			}
			if !finite(p.Burst) || !(p.Burst > 0) {
				return &ConfigError{Reason: fmt.Sprintf("process %d: burst %v must be finite and positive", p.ID, p.Burst)}
			}
		}
	case ModelProbabilistic:
		if !finite(s.Horizon) || !(s.Horizon > 0) {
			return &ConfigError{Reason: "probabilistic scenario needs a positive horizon (S TS)"}
		}
		if !finite(s.MeanInterarrival) || !(s.MeanInterarrival > 0) {
			return &ConfigError{Reason: "probabilistic scenario needs a positive mean inter-arrival time (P CH)"}
		}
		if !(s.CPUDuration.Max > 0) {
			return &ConfigError{Reason: "probabilistic scenario needs a CPU burst distribution (P DC)"}
		}
		dists := []struct {
			key string
			t   Triangle
		}{
			{"PR", s.Priority}, {"EN", s.Termination}, {"NI", s.IOCount}, {"DI", s.IODuration}, {"DC", s.CPUDuration},
		}
		for _, d := range dists {
			if err := d.t.validate(); err != nil {
				return &ConfigError{Reason: fmt.Sprintf("P %s: %v", d.key, err)}
			}
		}
	default:
		return &ConfigError{Reason: fmt.Sprintf("unknown scenario model %q", s.Model)}
	}
	return nil
}

// WorstMetrics returns a pessimistic bound for the three objectives
// (turnaround, waiting, context switches) of a deterministic scenario:
// the total work, the largest single burst and the total work again.
// It is used as the hypervolume reference point. The second return value
// is false for probabilistic scenarios, whose work is not known up front.
func (s *Scenario) WorstMetrics() ([]float64, bool) {
	if s.Model != ModelDeterministic || len(s.Processes) == 0 {
		return nil, false
	}
	var total, largest float64
	for _, p := range s.Processes {
		total += p.Burst
		largest = math.Max(largest, p.Burst)
	}
	return []float64{total, largest, total}, true
}

// Fingerprint returns a stable hash of the scenario contents, suitable for cache keys.
func (s *Scenario) Fingerprint() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|", s.Model, s.NumCPUs, s.NumDevices)
	for _, p := range s.Processes {
		fmt.Fprintf(h, "P%d:%v:%v:%d|", p.ID, p.Arrival, p.Burst, p.Priority)
	}
	fmt.Fprintf(h, "TS%v|CH%v|", s.Horizon, s.MeanInterarrival)
	for _, t := range []Triangle{s.Priority, s.Termination, s.IOCount, s.IODuration, s.CPUDuration} {
		fmt.Fprintf(h, "%v:%v:%v|", t.Min, t.Mode, t.Max)
	}
	return h.Sum64()
}

// ConfigError reports a malformed scenario. Line is zero for whole-file problems.
type ConfigError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("scenario line %d %q: %s", e.Line, e.Text, e.Reason)
	}
	return "scenario: " + e.Reason
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
