package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDispatches  int
	FinalSlices      int // dispatches that ran a burst to completion
	Terminations     int
	MeanSlice        float64
	MaxSlice         float64
	SlicesPerProcess map[int]int // pid → number of dispatches
	CPUDistribution  map[int]int // cpu id → number of dispatches
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		SlicesPerProcess: make(map[int]int),
		CPUDistribution:  make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDispatches = len(st.Dispatches)
	summary.Terminations = len(st.Terminations)
	if len(st.Dispatches) > 0 {
		total := 0.0
		for _, d := range st.Dispatches {
			summary.SlicesPerProcess[d.PID]++
			summary.CPUDistribution[d.CPU]++
			if d.Final {
				summary.FinalSlices++
			}
			total += d.Slice
			if d.Slice > summary.MaxSlice {
				summary.MaxSlice = d.Slice
			}
		}
		summary.MeanSlice = total / float64(len(st.Dispatches))
	}

	return summary
}
