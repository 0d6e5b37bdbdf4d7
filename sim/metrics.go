// Tracks run-wide and per-process performance metrics: turnaround, waiting,
// context switches and resource utilization.

package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about one simulation run for final reporting.
type Metrics struct {
	ProcessesCreated int // arrivals admitted
	Completed        int // terminations, a.k.a. throughput count
	ContextSwitches  int // CPU dispatches
	Preemptions      int // deschedules

	TotalTurnaround float64
	TotalWaiting    float64
	Turnarounds     []float64 // per completed process, in termination order
	Waits           []float64

	Makespan       float64 // clock at the last event
	CPUBusyTime    float64 // summed over CPUs
	CPUIdleTime    float64
	DeviceBusyTime float64
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Turnarounds: make([]float64, 0),
		Waits:       make([]float64, 0),
	}
}

func (m *Metrics) recordCompletion(p *Process) {
	turnaround := p.EndTime - p.Arrival
	m.Completed++
	m.TotalTurnaround += turnaround
	m.TotalWaiting += p.WaitingTime
	m.Turnarounds = append(m.Turnarounds, turnaround)
	m.Waits = append(m.Waits, p.WaitingTime)
}

// AvgTurnaround is the mean completion-minus-arrival over terminated processes.
func (m *Metrics) AvgTurnaround() float64 {
	if len(m.Turnarounds) == 0 {
		return 0
	}
	return stat.Mean(m.Turnarounds, nil)
}

// AvgWaiting is the mean time terminated processes spent in the ready queue.
func (m *Metrics) AvgWaiting() float64 {
	if len(m.Waits) == 0 {
		return 0
	}
	return stat.Mean(m.Waits, nil)
}

// CPUUtilization returns the busy share of total CPU time, in percent.
func (m *Metrics) CPUUtilization() float64 {
	total := m.CPUBusyTime + m.CPUIdleTime
	if total == 0 {
		return 0
	}
	return m.CPUBusyTime / total * 100
}

// Throughput returns completed processes per unit of simulated time.
func (m *Metrics) Throughput() float64 {
	if m.Makespan == 0 {
		return 0
	}
	return float64(m.Completed) / m.Makespan
}

// TurnaroundDistribution summarizes per-process turnaround.
func (m *Metrics) TurnaroundDistribution() Distribution {
	return Summarize(m.Turnarounds)
}

// WaitingDistribution summarizes per-process waiting time.
func (m *Metrics) WaitingDistribution() Distribution {
	return Summarize(m.Waits)
}

// Objectives reduces the run to the optimizer's objective vector.
func (m *Metrics) Objectives() Objectives {
	return Objectives{
		Turnaround:      m.AvgTurnaround(),
		Waiting:         m.AvgWaiting(),
		ContextSwitches: m.ContextSwitches,
	}
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Processes Created    : %d\n", m.ProcessesCreated)
	fmt.Printf("Completed Processes  : %d\n", m.Completed)
	fmt.Printf("Context Switches     : %d\n", m.ContextSwitches)
	fmt.Printf("Preemptions          : %d\n", m.Preemptions)
	if m.Completed > 0 {
		fmt.Printf("Average Turnaround   : %.3f\n", m.AvgTurnaround())
		fmt.Printf("Average Waiting      : %.3f\n", m.AvgWaiting())
		ta, w := m.TurnaroundDistribution(), m.WaitingDistribution()
		fmt.Printf("Turnaround p50/p95/max : %.3f / %.3f / %.3f\n", ta.P50, ta.P95, ta.Max)
		fmt.Printf("Waiting p50/p95/max    : %.3f / %.3f / %.3f\n", w.P50, w.P95, w.Max)
	}
	fmt.Printf("Makespan             : %.3f\n", m.Makespan)
	fmt.Printf("CPU Utilization      : %.2f%%\n", m.CPUUtilization())
	fmt.Printf("Throughput           : %.4f per time unit\n", m.Throughput())
}

// Objectives is the minimization target of one evaluation.
type Objectives struct {
	Turnaround      float64 `json:"avg_turnaround" yaml:"avg_turnaround"`
	Waiting         float64 `json:"avg_waiting" yaml:"avg_waiting"`
	ContextSwitches int     `json:"context_switches" yaml:"context_switches"`
}

// Vector returns the objectives in optimizer order.
func (o Objectives) Vector() []float64 {
	return []float64{o.Turnaround, o.Waiting, float64(o.ContextSwitches)}
}
