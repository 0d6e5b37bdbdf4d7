package trace

// TraceLevel controls the verbosity of dispatch tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDispatch captures every dispatch and termination.
	TraceLevelDispatch TraceLevel = "dispatch"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:     true,
	TraceLevelDispatch: true,
	"":                 true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a single simulation run.
type SimulationTrace struct {
	Config       TraceConfig
	Dispatches   []DispatchRecord
	Terminations []TerminationRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// Returns nil for TraceLevelNone so callers can skip recording entirely.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	if config.Level == TraceLevelNone || config.Level == "" {
		return nil
	}
	return &SimulationTrace{
		Config:       config,
		Dispatches:   make([]DispatchRecord, 0),
		Terminations: make([]TerminationRecord, 0),
	}
}

// RecordDispatch appends a dispatch record.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	st.Dispatches = append(st.Dispatches, record)
}

// RecordTermination appends a termination record.
func (st *SimulationTrace) RecordTermination(record TerminationRecord) {
	st.Terminations = append(st.Terminations, record)
}

// DispatchOrder returns the pids in dispatch order.
func (st *SimulationTrace) DispatchOrder() []int {
	if st == nil {
		return nil
	}
	order := make([]int, len(st.Dispatches))
	for i, d := range st.Dispatches {
		order[i] = d.PID
	}
	return order
}
