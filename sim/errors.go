package sim

import "fmt"

// InvariantError reports a defect in engine or policy logic detected during a run.
// The run is aborted; its partial metrics must not be used.
type InvariantError struct {
	Reason string
	PID    int // 0 when no process is involved
	Clock  float64
	Event  EventKind
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("simulation invariant violated at t=%.3f during %s (pid %d): %s",
		e.Clock, e.Event, e.PID, e.Reason)
}

// invariant builds an InvariantError stamped with the current clock and event.
func (sim *Simulator) invariant(pid int, format string, args ...any) error {
	return &InvariantError{
		Reason: fmt.Sprintf(format, args...),
		PID:    pid,
		Clock:  sim.Clock,
		Event:  sim.current,
	}
}
