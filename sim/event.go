package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// EventKind tags the closed set of simulation events.
type EventKind int

const (
	EventDeschedule EventKind = iota
	EventProcessArrival
	EventCPUBurstEnd
	EventIOBurstEnd
	EventProcessTermination
)

var eventKindNames = map[EventKind]string{
	EventDeschedule:         "Deschedule",
	EventProcessArrival:     "ProcessArrival",
	EventCPUBurstEnd:        "CpuBurstEnd",
	EventIOBurstEnd:         "IoBurstEnd",
	EventProcessTermination: "ProcessTermination",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// IsValidEventKind reports whether k belongs to the closed event set.
func IsValidEventKind(k EventKind) bool {
	_, ok := eventKindNames[k]
	return ok
}

// Event defines the interface for all simulation events.
// Each event has a Timestamp, a Kind used for ordering, and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Kind() EventKind
	Execute(*Simulator) error
}

// ProcessArrivalEvent brings a generated process into the system.
type ProcessArrivalEvent struct {
	time float64
	PID  int
}

func (e *ProcessArrivalEvent) Timestamp() float64 { return e.time }
func (e *ProcessArrivalEvent) Kind() EventKind    { return EventProcessArrival }

// Execute admits the process and dispatches it if a CPU is free.
func (e *ProcessArrivalEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< Arrival: pid %d at %.3f", e.PID, e.time)
	return sim.handleArrival(e)
}

// CPUBurstEndEvent marks the end of a dispatched slice. Final is true when the
// slice covered the rest of the current burst.
type CPUBurstEndEvent struct {
	time      float64
	PID       int
	CPU       int
	Slice     float64
	Final     bool
	cancelled bool
}

func (e *CPUBurstEndEvent) Timestamp() float64 { return e.time }
func (e *CPUBurstEndEvent) Kind() EventKind    { return EventCPUBurstEnd }

// Execute retires the slice. The run loop drops events a Deschedule cancelled
// without advancing the clock.
func (e *CPUBurstEndEvent) Execute(sim *Simulator) error {
	return sim.handleCPUBurstEnd(e)
}

// IOBurstEndEvent marks the end of an I/O burst on a device.
type IOBurstEndEvent struct {
	time   float64
	PID    int
	Device int
}

func (e *IOBurstEndEvent) Timestamp() float64 { return e.time }
func (e *IOBurstEndEvent) Kind() EventKind    { return EventIOBurstEnd }

func (e *IOBurstEndEvent) Execute(sim *Simulator) error {
	return sim.handleIOBurstEnd(e)
}

// ProcessTerminationEvent retires a process whose bursts are all done.
type ProcessTerminationEvent struct {
	time float64
	PID  int
}

func (e *ProcessTerminationEvent) Timestamp() float64 { return e.time }
func (e *ProcessTerminationEvent) Kind() EventKind    { return EventProcessTermination }

func (e *ProcessTerminationEvent) Execute(sim *Simulator) error {
	logrus.Debugf(">> Termination: pid %d at %.3f", e.PID, e.time)
	return sim.handleTermination(e)
}

// DescheduleEvent preempts a running process before its pending CpuBurstEnd fires.
// It is serviced ahead of any other event with the same timestamp.
type DescheduleEvent struct {
	time float64
	PID  int
	CPU  int
}

func (e *DescheduleEvent) Timestamp() float64 { return e.time }
func (e *DescheduleEvent) Kind() EventKind    { return EventDeschedule }

func (e *DescheduleEvent) Execute(sim *Simulator) error {
	logrus.Debugf("   Deschedule: pid %d off cpu %d at %.3f", e.PID, e.CPU, e.time)
	return sim.handleDeschedule(e)
}
