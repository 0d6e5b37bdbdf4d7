// sim/simulator.go
package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/genetic-quantum/genetic-quantum/sim/scenario"
	"github.com/genetic-quantum/genetic-quantum/sim/trace"
)

// SimConfig holds the resources and policy of one run.
type SimConfig struct {
	NumCPUs    int
	NumDevices int
	Policy     DispatchPolicy
	// Trace collects dispatch decisions when non-nil.
	Trace *trace.SimulationTrace
}

// Simulator is the core object that holds simulation time, system state, and the event loop.
// A Simulator runs once; create a new one for every evaluation.
type Simulator struct {
	Clock float64
	// FEL has all pending events, ordered by time
	FEL     *FutureEventList
	Ready   *ReadyQueue
	CPUs    []*CPU
	Devices []*Device
	Metrics *Metrics

	policy   DispatchPolicy
	trace    *trace.SimulationTrace
	arrivals map[int]scenario.ProcessSpec // not yet arrived, by pid
	active   map[int]*Process
	finished []*Process
	current  EventKind
	ran      bool
}

// NewSimulator validates the configuration and schedules one arrival per spec.
func NewSimulator(cfg SimConfig, specs []scenario.ProcessSpec) (*Simulator, error) {
	if cfg.NumCPUs < 1 {
		return nil, fmt.Errorf("at least one CPU is required, got %d", cfg.NumCPUs)
	}
	if cfg.NumDevices < 0 {
		return nil, fmt.Errorf("device count must be non-negative, got %d", cfg.NumDevices)
	}
	if cfg.Policy == nil {
		return nil, fmt.Errorf("dispatch policy is required")
	}
	sim := &Simulator{
		FEL:      NewFutureEventList(),
		Ready:    &ReadyQueue{},
		Metrics:  NewMetrics(),
		policy:   cfg.Policy,
		trace:    cfg.Trace,
		arrivals: make(map[int]scenario.ProcessSpec, len(specs)),
		active:   make(map[int]*Process),
	}
	for i := 1; i <= cfg.NumCPUs; i++ {
		sim.CPUs = append(sim.CPUs, &CPU{ID: i})
	}
	for i := 1; i <= cfg.NumDevices; i++ {
		sim.Devices = append(sim.Devices, newDevice(i))
	}
	for _, spec := range specs {
		if _, dup := sim.arrivals[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate process id %d", spec.ID)
		}
		if len(spec.CPUBursts) == 0 {
			return nil, fmt.Errorf("process %d has no CPU burst", spec.ID)
		}
		if !finiteSpec(spec) {
			return nil, fmt.Errorf("process %d has a negative or non-finite arrival, burst or delay", spec.ID)
		}
		if len(spec.IOBursts) != len(spec.CPUBursts)-1 {
			return nil, fmt.Errorf("process %d has %d CPU bursts but %d I/O bursts",
				spec.ID, len(spec.CPUBursts), len(spec.IOBursts))
		}
		if len(spec.IOBursts) > 0 && (spec.Device < 1 || spec.Device > cfg.NumDevices) {
			return nil, fmt.Errorf("process %d uses device %d, have %d", spec.ID, spec.Device, cfg.NumDevices)
		}
		sim.arrivals[spec.ID] = spec
		sim.Schedule(&ProcessArrivalEvent{time: spec.Arrival, PID: spec.ID})
	}
	return sim, nil
}

func finiteSpec(spec scenario.ProcessSpec) bool {
	ok := func(v float64) bool { return v >= 0 && !math.IsInf(v, 1) }
	if !ok(spec.Arrival) || !ok(spec.TerminationDelay) {
		return false
	}
	for _, b := range spec.CPUBursts {
		if !ok(b) {
			return false
		}
	}
	for _, b := range spec.IOBursts {
		if !ok(b) {
			return false
		}
	}
	return true
}

// Schedule adds an event to the future event list.
func (sim *Simulator) Schedule(ev Event) {
	sim.FEL.Schedule(ev)
}

// Run consumes the event list until it is empty. Any invariant violation
// aborts the run and is returned as an *InvariantError.
func (sim *Simulator) Run() error {
	if sim.ran {
		return fmt.Errorf("simulator already ran")
	}
	sim.ran = true
	for sim.FEL.Len() > 0 {
		ev := sim.FEL.PopNext()
		if be, ok := ev.(*CPUBurstEndEvent); ok && be.cancelled {
			logrus.Debugf("   CpuBurstEnd: pid %d on cpu %d cancelled", be.PID, be.CPU)
			continue
		}
		sim.current = ev.Kind()
		if !IsValidEventKind(ev.Kind()) {
			return sim.invariant(0, "unknown event kind %T", ev)
		}
		if ev.Timestamp() < sim.Clock {
			return sim.invariant(0, "event at %.3f precedes clock", ev.Timestamp())
		}
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[t %010.3f] Executing %s", sim.Clock, ev.Kind())
		if err := ev.Execute(sim); err != nil {
			return err
		}
	}
	if len(sim.active) > 0 || len(sim.arrivals) > 0 {
		return sim.invariant(sim.lowestActivePID(),
			"event list exhausted with %d active and %d pending processes", len(sim.active), len(sim.arrivals))
	}
	for _, c := range sim.CPUs {
		c.close(sim.Clock)
		sim.Metrics.CPUBusyTime += c.BusyTime
		sim.Metrics.CPUIdleTime += c.IdleTime
	}
	for _, d := range sim.Devices {
		d.close(sim.Clock)
		sim.Metrics.DeviceBusyTime += d.BusyTime
	}
	sim.Metrics.Makespan = sim.Clock
	logrus.Debugf("[t %010.3f] Simulation ended", sim.Clock)
	return nil
}

// Active returns the number of processes that arrived but have not terminated.
func (sim *Simulator) Active() int {
	return len(sim.active)
}

// Finished returns the terminated processes in termination order.
func (sim *Simulator) Finished() []*Process {
	return sim.finished
}

func (sim *Simulator) lowestActivePID() int {
	pids := make([]int, 0, len(sim.active))
	for pid := range sim.active {
		pids = append(pids, pid)
	}
	if len(pids) == 0 {
		return 0
	}
	sort.Ints(pids)
	return pids[0]
}

func (sim *Simulator) freeCPU() *CPU {
	for _, c := range sim.CPUs {
		if c.Available() {
			return c
		}
	}
	return nil
}

// preemptable lists running processes that may still be descheduled now:
// not already being descheduled and not finishing their slice at this instant.
func (sim *Simulator) preemptable() []*Process {
	var out []*Process
	for _, c := range sim.CPUs {
		p := c.Current
		if p == nil || p.descheduling || p.pending == nil || p.pending.time <= sim.Clock {
			continue
		}
		out = append(out, p)
	}
	return out
}

// dispatch hands the CPU to the ready process chosen by the policy.
func (sim *Simulator) dispatch(cpu *CPU) error {
	if sim.Ready.Len() == 0 {
		return nil
	}
	idx := sim.policy.SelectNext(sim.Ready.Items(), sim.Clock)
	if idx < 0 || idx >= sim.Ready.Len() {
		return sim.invariant(0, "policy %s selected index %d of %d", sim.policy.Name(), idx, sim.Ready.Len())
	}
	p := sim.Ready.RemoveAt(idx)
	burst, ok := p.CurrentCPUBurst()
	if !ok {
		return sim.invariant(p.ID, "dispatch of process with no CPU burst left")
	}
	slice, final := burst, true
	if q := sim.policy.Quantum(); q > 0 && burst > q {
		slice, final = q, false
	}

	p.WaitingTime += sim.Clock - p.readySince
	if !p.started {
		p.started = true
		p.StartTime = sim.Clock
	}
	p.State = StateRunning
	p.sliceStart = sim.Clock
	p.Dispatches++
	cpu.assign(p, sim.Clock)

	ev := &CPUBurstEndEvent{time: sim.Clock + slice, PID: p.ID, CPU: cpu.ID, Slice: slice, Final: final}
	p.pending = ev
	sim.Schedule(ev)
	sim.Metrics.ContextSwitches++
	if sim.trace != nil {
		sim.trace.RecordDispatch(trace.DispatchRecord{
			PID:   p.ID,
			CPU:   cpu.ID,
			Clock: sim.Clock,
			Slice: slice,
			Final: final,
		})
	}
	logrus.Debugf("   dispatch pid %d on cpu %d for %.3f (ready %s)", p.ID, cpu.ID, slice, sim.Ready)
	return nil
}

// deschedule asks for p to be taken off its CPU before its slice ends.
func (sim *Simulator) deschedule(p *Process) {
	p.descheduling = true
	sim.Schedule(&DescheduleEvent{time: sim.Clock, PID: p.ID, CPU: p.cpu.ID})
}

// offerCPU runs after a process became ready: dispatch onto a free CPU, or let a
// preemptive policy displace a running process.
func (sim *Simulator) offerCPU() error {
	if cpu := sim.freeCPU(); cpu != nil {
		return sim.dispatch(cpu)
	}
	if sim.policy.Preemptive() {
		if victim := sim.policy.Recompute(sim.Ready.Items(), sim.preemptable(), sim.Clock); victim != nil {
			sim.deschedule(victim)
		}
	}
	return nil
}

func (sim *Simulator) handleArrival(e *ProcessArrivalEvent) error {
	spec, ok := sim.arrivals[e.PID]
	if !ok {
		return sim.invariant(e.PID, "arrival of unknown process")
	}
	delete(sim.arrivals, e.PID)
	p := newProcess(spec)
	sim.active[p.ID] = p
	sim.Metrics.ProcessesCreated++

	p.enterReady(sim.Clock)
	sim.Ready.Enqueue(p)
	if sim.freeCPU() == nil {
		if victim := sim.policy.TieBreak(p, sim.preemptable()); victim != nil {
			sim.deschedule(victim)
			return nil
		}
	}
	return sim.offerCPU()
}

func (sim *Simulator) handleCPUBurstEnd(e *CPUBurstEndEvent) error {
	p, ok := sim.active[e.PID]
	if !ok {
		return sim.invariant(e.PID, "burst end for inactive process")
	}
	cpu := sim.CPUs[e.CPU-1]
	if cpu.Current != p {
		return sim.invariant(p.ID, "cpu %d is not running the process", cpu.ID)
	}
	if len(p.CPUBursts) == 0 {
		return sim.invariant(p.ID, "burst end with empty CPU burst list")
	}
	p.pending = nil
	p.ExecutionTime += e.Slice
	if e.Final {
		p.CPUBursts = p.CPUBursts[1:]
	} else {
		p.CPUBursts[0] -= e.Slice
	}
	cpu.release(sim.Clock)

	switch {
	case !e.Final:
		// slice expired: back to the tail of the ready queue
		p.enterReady(sim.Clock)
		sim.Ready.Enqueue(p)
	case len(p.CPUBursts) == 0:
		sim.scheduleTermination(p)
	default:
		if err := sim.startIO(p); err != nil {
			return err
		}
	}
	return sim.dispatch(cpu)
}

func (sim *Simulator) startIO(p *Process) error {
	if len(p.IOBursts) == 0 {
		return sim.invariant(p.ID, "process has CPU bursts left but no I/O burst")
	}
	if p.Device < 1 || p.Device > len(sim.Devices) {
		return sim.invariant(p.ID, "process assigned to missing device %d", p.Device)
	}
	dev := sim.Devices[p.Device-1]
	p.State = StateWaitingIO
	if dev.Busy {
		dev.Queue.Enqueue(p)
		return nil
	}
	return sim.startDeviceBurst(dev, p)
}

func (sim *Simulator) startDeviceBurst(dev *Device, p *Process) error {
	burst, ok := p.CurrentIOBurst()
	if !ok {
		return sim.invariant(p.ID, "device %d given a process with no I/O burst", dev.ID)
	}
	dev.assign(p, sim.Clock)
	sim.Schedule(&IOBurstEndEvent{time: sim.Clock + burst, PID: p.ID, Device: dev.ID})
	return nil
}

func (sim *Simulator) handleIOBurstEnd(e *IOBurstEndEvent) error {
	p, ok := sim.active[e.PID]
	if !ok {
		return sim.invariant(e.PID, "I/O end for inactive process")
	}
	dev := sim.Devices[e.Device-1]
	if len(p.IOBursts) == 0 {
		return sim.invariant(p.ID, "I/O end with empty I/O burst list")
	}
	p.IOBursts = p.IOBursts[1:]
	dev.release(sim.Clock)

	if len(p.CPUBursts) == 0 {
		sim.scheduleTermination(p)
	} else {
		p.enterReady(sim.Clock)
		sim.Ready.Enqueue(p)
		if err := sim.offerCPU(); err != nil {
			return err
		}
	}
	if next := dev.Queue.Dequeue(); next != nil {
		return sim.startDeviceBurst(dev, next)
	}
	return nil
}

func (sim *Simulator) scheduleTermination(p *Process) {
	sim.Schedule(&ProcessTerminationEvent{time: sim.Clock + p.TerminationDelay, PID: p.ID})
}

func (sim *Simulator) handleTermination(e *ProcessTerminationEvent) error {
	p, ok := sim.active[e.PID]
	if !ok {
		return sim.invariant(e.PID, "termination of inactive process")
	}
	p.State = StateTerminated
	p.EndTime = sim.Clock
	delete(sim.active, p.ID)
	sim.finished = append(sim.finished, p)
	sim.Metrics.recordCompletion(p)
	if sim.trace != nil {
		sim.trace.RecordTermination(trace.TerminationRecord{
			PID:        p.ID,
			Clock:      sim.Clock,
			Turnaround: p.EndTime - p.Arrival,
			Waiting:    p.WaitingTime,
		})
	}
	return nil
}

func (sim *Simulator) handleDeschedule(e *DescheduleEvent) error {
	p, ok := sim.active[e.PID]
	if !ok || p.State != StateRunning || p.pending == nil {
		return sim.invariant(e.PID, "deschedule of a process that is not running")
	}
	cpu := sim.CPUs[e.CPU-1]
	if cpu.Current != p {
		return sim.invariant(p.ID, "deschedule from cpu %d which runs another process", cpu.ID)
	}
	if len(p.CPUBursts) == 0 {
		return sim.invariant(p.ID, "deschedule with empty CPU burst list")
	}
	ran := sim.Clock - p.sliceStart
	p.pending.cancelled = true
	p.pending = nil
	p.descheduling = false
	p.CPUBursts[0] -= ran
	p.ExecutionTime += ran
	cpu.release(sim.Clock)
	sim.Metrics.Preemptions++

	p.enterReady(sim.Clock)
	sim.Ready.Enqueue(p)
	return sim.dispatch(cpu)
}
