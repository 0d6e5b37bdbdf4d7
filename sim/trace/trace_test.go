package trace

import (
	"testing"
)

func TestNewSimulationTrace_LevelNone_ReturnsNil(t *testing.T) {
	// GIVEN tracing disabled
	// WHEN a trace is created
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelNone})

	// THEN no trace is allocated
	if st != nil {
		t.Fatalf("expected nil trace for level none, got %+v", st)
	}
	if order := st.DispatchOrder(); order != nil {
		t.Errorf("expected nil dispatch order from nil trace, got %v", order)
	}
}

func TestSimulationTrace_RecordDispatch_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for dispatches
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDispatch})

	// WHEN a dispatch record is recorded
	st.RecordDispatch(DispatchRecord{PID: 2, CPU: 1, Clock: 4, Slice: 3, Final: true})

	// THEN the trace contains one dispatch record with correct data
	if len(st.Dispatches) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(st.Dispatches))
	}
	if st.Dispatches[0].PID != 2 || st.Dispatches[0].Clock != 4 {
		t.Errorf("unexpected record %+v", st.Dispatches[0])
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDispatch})

	// WHEN multiple records are added
	st.RecordDispatch(DispatchRecord{PID: 1, Clock: 0})
	st.RecordDispatch(DispatchRecord{PID: 3, Clock: 4})
	st.RecordDispatch(DispatchRecord{PID: 1, Clock: 8})
	st.RecordTermination(TerminationRecord{PID: 3, Clock: 9})

	// THEN dispatch order is insertion order
	order := st.DispatchOrder()
	want := []int{1, 3, 1}
	if len(order) != len(want) {
		t.Fatalf("expected %d dispatches, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("dispatch %d: expected pid %d, got %d", i, want[i], order[i])
		}
	}
	if len(st.Terminations) != 1 {
		t.Errorf("expected 1 termination, got %d", len(st.Terminations))
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"none", true},
		{"dispatch", true},
		{"", true},
		{"decisions", false},
		{"verbose", false},
	}
	for _, tc := range tests {
		if got := IsValidTraceLevel(tc.level); got != tc.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tc.level, got, tc.want)
		}
	}
}
