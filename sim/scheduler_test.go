package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatchPolicy_ValidNames(t *testing.T) {
	tests := []struct {
		name       string
		wantName   string
		quantum    float64
		wantQ      float64
		preemptive bool
	}{
		{"", PolicyRoundRobin, 4, 4, false},
		{"rr", PolicyRoundRobin, 2.5, 2.5, false},
		{"fcfs", PolicyFCFS, 4, 0, false},
		{"priority", PolicyPriority, 4, 0, false},
		{"sjf", PolicySJF, 4, 0, false},
		{"srt", PolicySRT, 4, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.wantName, func(t *testing.T) {
			p, err := NewDispatchPolicy(tc.name, tc.quantum)
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, p.Name())
			assert.Equal(t, tc.wantQ, p.Quantum())
			assert.Equal(t, tc.preemptive, p.Preemptive())
		})
	}
}

func TestNewDispatchPolicy_Invalid(t *testing.T) {
	_, err := NewDispatchPolicy("fuzzy", 4)
	assert.Error(t, err)
	_, err = NewDispatchPolicy("rr", 0)
	assert.Error(t, err, "round-robin needs a positive quantum")
	_, err = NewDispatchPolicy("rr", -1)
	assert.Error(t, err)
	assert.False(t, IsValidPolicy("fuzzy"))
	assert.Equal(t, []string{"fcfs", "priority", "rr", "sjf", "srt"}, ValidPolicyNames())
}

func TestSelectNext_PerPolicy(t *testing.T) {
	// GIVEN a ready queue in arrival order
	ready := []*Process{
		{ID: 1, Arrival: 0, Priority: 1, CPUBursts: []float64{9}, State: StateReady},
		{ID: 2, Arrival: 1, Priority: 3, CPUBursts: []float64{4}, State: StateReady},
		{ID: 3, Arrival: 2, Priority: 3, CPUBursts: []float64{2}, State: StateReady},
	}
	tests := []struct {
		policy string
		want   int
	}{
		{"rr", 1},
		{"fcfs", 1},
		{"priority", 2}, // highest priority, earliest arrival among equals
		{"sjf", 3},
		{"srt", 3},
	}
	for _, tc := range tests {
		t.Run(tc.policy, func(t *testing.T) {
			p, err := NewDispatchPolicy(tc.policy, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ready[p.SelectNext(ready, 10)].ID)
		})
	}
}

func TestShortestRemainingTime_Recompute_PreemptsLongestRunning(t *testing.T) {
	// GIVEN two running processes with 6 and 2 units left at t=10
	srt := &ShortestRemainingTime{}
	running := []*Process{
		{ID: 1, CPUBursts: []float64{8}, State: StateRunning, sliceStart: 8},
		{ID: 2, CPUBursts: []float64{3}, State: StateRunning, sliceStart: 9},
	}

	// WHEN a 3-unit burst is ready
	victim := srt.Recompute([]*Process{{ID: 3, CPUBursts: []float64{3}}}, running, 10)

	// THEN the process with the most work left is preempted
	require.NotNil(t, victim)
	assert.Equal(t, 1, victim.ID)

	// AND a longer ready burst preempts nobody
	assert.Nil(t, srt.Recompute([]*Process{{ID: 4, CPUBursts: []float64{7}}}, running, 10))
}

func TestTieBreak_OnlySameInstantArrivals(t *testing.T) {
	sjf := &ShortestJobFirst{}
	running := []*Process{{ID: 1, Arrival: 0, CPUBursts: []float64{5}, State: StateRunning}}

	assert.Equal(t, 1, sjf.TieBreak(&Process{ID: 2, Arrival: 0, CPUBursts: []float64{3}}, running).ID)
	assert.Nil(t, sjf.TieBreak(&Process{ID: 3, Arrival: 0, CPUBursts: []float64{6}}, running))

	prio := &PriorityFirst{}
	late := []*Process{{ID: 1, Arrival: 1, Priority: 1, CPUBursts: []float64{5}, State: StateRunning}}
	assert.Nil(t, prio.TieBreak(&Process{ID: 2, Arrival: 2, Priority: 9, CPUBursts: []float64{1}}, late))

	rr, err := NewDispatchPolicy("rr", 4)
	require.NoError(t, err)
	assert.Nil(t, rr.TieBreak(&Process{ID: 2, Arrival: 0, CPUBursts: []float64{1}}, running))
}
