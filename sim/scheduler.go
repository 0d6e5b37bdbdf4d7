package sim

import (
	"fmt"
	"sort"
)

// DispatchPolicy decides which ready process a free CPU runs next and whether a
// running process should give up its CPU early.
//
// SelectNext returns an index into ready (never empty when called). Recompute is
// consulted only when Preemptive is true; it returns the running process that
// should be descheduled, or nil. TieBreak is consulted on every arrival that finds
// all CPUs busy and may evict a running process that arrived at the same instant.
type DispatchPolicy interface {
	Name() string
	// Quantum bounds a single dispatch. Zero means run the whole burst.
	Quantum() float64
	SelectNext(ready []*Process, now float64) int
	Preemptive() bool
	Recompute(ready []*Process, running []*Process, now float64) *Process
	TieBreak(arrived *Process, running []*Process) *Process
}

// Policy names accepted by NewDispatchPolicy.
const (
	PolicyRoundRobin = "rr"
	PolicyFCFS       = "fcfs"
	PolicyPriority   = "priority"
	PolicySJF        = "sjf"
	PolicySRT        = "srt"
)

var validPolicies = map[string]bool{
	PolicyRoundRobin: true,
	PolicyFCFS:       true,
	PolicyPriority:   true,
	PolicySJF:        true,
	PolicySRT:        true,
	"":               true, // empty defaults to rr
}

// IsValidPolicy reports whether name is a recognized dispatch policy.
func IsValidPolicy(name string) bool {
	return validPolicies[name]
}

// ValidPolicyNames returns the recognized policy names in sorted order.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(validPolicies))
	for name := range validPolicies {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NewDispatchPolicy creates a DispatchPolicy by name. The quantum applies to
// round-robin only and must be positive there; other policies run bursts to
// completion unless preempted.
func NewDispatchPolicy(name string, quantum float64) (DispatchPolicy, error) {
	switch name {
	case "", PolicyRoundRobin:
		if !(quantum > 0) {
			return nil, fmt.Errorf("round-robin quantum must be positive, got %v", quantum)
		}
		return &RoundRobin{quantum: quantum}, nil
	case PolicyFCFS:
		return &FCFS{}, nil
	case PolicyPriority:
		return &PriorityFirst{}, nil
	case PolicySJF:
		return &ShortestJobFirst{}, nil
	case PolicySRT:
		return &ShortestRemainingTime{}, nil
	default:
		return nil, fmt.Errorf("unknown dispatch policy %q (valid: %v)", name, ValidPolicyNames())
	}
}

// nonPreemptive supplies the no-op preemption hooks.
type nonPreemptive struct{}

func (nonPreemptive) Preemptive() bool                              { return false }
func (nonPreemptive) Recompute(_, _ []*Process, _ float64) *Process { return nil }
func (nonPreemptive) TieBreak(_ *Process, _ []*Process) *Process    { return nil }

// RoundRobin dispatches the head of the ready queue for at most one quantum.
// A process whose slice expires rejoins the tail of the queue.
type RoundRobin struct {
	nonPreemptive
	quantum float64
}

func (r *RoundRobin) Name() string                           { return PolicyRoundRobin }
func (r *RoundRobin) Quantum() float64                       { return r.quantum }
func (r *RoundRobin) SelectNext(_ []*Process, _ float64) int { return 0 }

// FCFS dispatches in queue order and runs every burst to completion.
type FCFS struct {
	nonPreemptive
}

func (f *FCFS) Name() string                           { return PolicyFCFS }
func (f *FCFS) Quantum() float64                       { return 0 }
func (f *FCFS) SelectNext(_ []*Process, _ float64) int { return 0 }

// argBest returns the index of the best process under less, earliest in
// queue order among equals.
func argBest(ready []*Process, less func(a, b *Process) bool) int {
	best := 0
	for i := 1; i < len(ready); i++ {
		if less(ready[i], ready[best]) {
			best = i
		}
	}
	return best
}

// higherPriority orders by priority (descending), then by arrival (ascending).
func higherPriority(a, b *Process) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Arrival < b.Arrival
}

// PriorityFirst dispatches the highest-priority ready process, non-preemptively.
type PriorityFirst struct{}

func (p *PriorityFirst) Name() string     { return PolicyPriority }
func (p *PriorityFirst) Quantum() float64 { return 0 }
func (p *PriorityFirst) Preemptive() bool { return false }
func (p *PriorityFirst) SelectNext(ready []*Process, _ float64) int {
	return argBest(ready, higherPriority)
}
func (p *PriorityFirst) Recompute(_, _ []*Process, _ float64) *Process { return nil }

// TieBreak evicts a same-instant arrival of lower priority.
func (p *PriorityFirst) TieBreak(arrived *Process, running []*Process) *Process {
	return sameInstantLoser(arrived, running, func(a, b *Process) bool {
		return a.Priority > b.Priority
	})
}

// shorterBurst orders by current burst length, then by arrival.
func shorterBurst(now float64) func(a, b *Process) bool {
	return func(a, b *Process) bool {
		ra, rb := a.Remaining(now), b.Remaining(now)
		if ra != rb {
			return ra < rb
		}
		return a.Arrival < b.Arrival
	}
}

// ShortestJobFirst dispatches the ready process with the shortest current burst.
type ShortestJobFirst struct{}

func (s *ShortestJobFirst) Name() string     { return PolicySJF }
func (s *ShortestJobFirst) Quantum() float64 { return 0 }
func (s *ShortestJobFirst) Preemptive() bool { return false }
func (s *ShortestJobFirst) SelectNext(ready []*Process, now float64) int {
	return argBest(ready, shorterBurst(now))
}
func (s *ShortestJobFirst) Recompute(_, _ []*Process, _ float64) *Process { return nil }

// TieBreak evicts a same-instant arrival with a longer burst.
func (s *ShortestJobFirst) TieBreak(arrived *Process, running []*Process) *Process {
	now := arrived.Arrival
	return sameInstantLoser(arrived, running, func(a, b *Process) bool {
		return a.Remaining(now) < b.Remaining(now)
	})
}

// ShortestRemainingTime is preemptive SJF: a ready process whose burst is
// shorter than what a running process has left takes over its CPU.
type ShortestRemainingTime struct {
	ShortestJobFirst
}

func (s *ShortestRemainingTime) Name() string     { return PolicySRT }
func (s *ShortestRemainingTime) Preemptive() bool { return true }

// Recompute pairs the shortest ready burst against the running process with the
// most time left and returns that process if it should be preempted.
func (s *ShortestRemainingTime) Recompute(ready []*Process, running []*Process, now float64) *Process {
	if len(ready) == 0 || len(running) == 0 {
		return nil
	}
	candidate := ready[argBest(ready, shorterBurst(now))]
	longer := shorterBurst(now)
	victim := running[0]
	for _, p := range running[1:] {
		if longer(victim, p) {
			victim = p
		}
	}
	if candidate.Remaining(now) < victim.Remaining(now) {
		return victim
	}
	return nil
}

// sameInstantLoser returns the first running process that arrived together with
// arrived and loses to it under beats.
func sameInstantLoser(arrived *Process, running []*Process, beats func(a, b *Process) bool) *Process {
	for _, p := range running {
		if p.Arrival == arrived.Arrival && beats(arrived, p) {
			return p
		}
	}
	return nil
}
