// Package sim provides the discrete-event CPU scheduling simulator that serves
// as the fitness function of the quantum optimizer.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - process.go: Process lifecycle (ready → running → waiting_io → terminated)
//   - event.go: Event types that drive the simulation (arrival, burst ends, termination, deschedule)
//   - simulator.go: The event loop, dispatch, preemption and I/O hand-off
//   - evaluate.go: One full run per quantum, reduced to the objective vector
//
// # Architecture
//
// Every Simulator owns its future event list, processes, CPUs and devices. Nothing
// is shared between runs except the read-only scenario.Scenario, so independent
// evaluations may run on separate goroutines.
//
// Sub-packages:
//   - sim/scenario/: scenario model, text-format loader and process generation
//   - sim/evalcache/: memoization of objective vectors (memory, redis)
//   - sim/trace/: dispatch decision trace recording
//
// # Key Interfaces
//
//   - Event: timestamped state transition executed by the Simulator
//   - DispatchPolicy: selects the next ready process and decides preemption
package sim
