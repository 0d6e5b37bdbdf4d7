// Defines the Process struct that models one schedulable job in a simulation run.
// Tracks remaining bursts, lifecycle state, and the waiting/execution accounting
// that feeds the objective vector.

package sim

import (
	"fmt"

	"github.com/genetic-quantum/genetic-quantum/sim/scenario"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateReady      ProcessState = "ready"
	StateRunning    ProcessState = "running"
	StateWaitingIO  ProcessState = "waiting_io"
	StateTerminated ProcessState = "terminated"
)

// Process is owned by exactly one Simulator. Burst slices are private copies
// of the generated spec and shrink as the run progresses.
type Process struct {
	ID       int
	Arrival  float64
	Priority int
	Device   int

	CPUBursts        []float64 // remaining CPU bursts, head is current
	IOBursts         []float64 // remaining I/O bursts, head is current
	TerminationDelay float64

	State         ProcessState
	WaitingTime   float64 // time spent in the ready queue
	ExecutionTime float64 // time spent on a CPU
	StartTime     float64 // first dispatch
	EndTime       float64 // termination
	Dispatches    int

	started      bool
	readySince   float64
	sliceStart   float64
	pending      *CPUBurstEndEvent
	cpu          *CPU
	descheduling bool
}

func newProcess(spec scenario.ProcessSpec) *Process {
	return &Process{
		ID:               spec.ID,
		Arrival:          spec.Arrival,
		Priority:         spec.Priority,
		Device:           spec.Device,
		CPUBursts:        append([]float64(nil), spec.CPUBursts...),
		IOBursts:         append([]float64(nil), spec.IOBursts...),
		TerminationDelay: spec.TerminationDelay,
		State:            StateReady,
	}
}

func (p *Process) String() string {
	return fmt.Sprintf("P%d", p.ID)
}

// CurrentCPUBurst returns the remaining length of the head CPU burst.
// ok is false when no CPU burst remains; callers must check before use.
func (p *Process) CurrentCPUBurst() (float64, bool) {
	if len(p.CPUBursts) == 0 {
		return 0, false
	}
	return p.CPUBursts[0], true
}

// CurrentIOBurst returns the length of the head I/O burst.
func (p *Process) CurrentIOBurst() (float64, bool) {
	if len(p.IOBursts) == 0 {
		return 0, false
	}
	return p.IOBursts[0], true
}

// Remaining returns how much of the current CPU burst is left at time now,
// accounting for the slice in progress when the process is running.
func (p *Process) Remaining(now float64) float64 {
	burst, ok := p.CurrentCPUBurst()
	if !ok {
		return 0
	}
	if p.State == StateRunning {
		return burst - (now - p.sliceStart)
	}
	return burst
}

func (p *Process) enterReady(now float64) {
	p.State = StateReady
	p.readySince = now
}
