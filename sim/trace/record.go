// Package trace provides dispatch-trace recording for scheduling analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DispatchRecord captures a single CPU dispatch decision.
type DispatchRecord struct {
	PID   int     `json:"pid"`
	CPU   int     `json:"cpu"`
	Clock float64 `json:"clock"`
	Slice float64 `json:"slice"`
	Final bool    `json:"final"` // slice runs the current burst to completion
}

// TerminationRecord captures the outcome of one process.
type TerminationRecord struct {
	PID        int     `json:"pid"`
	Clock      float64 `json:"clock"`
	Turnaround float64 `json:"turnaround"`
	Waiting    float64 `json:"waiting"`
}
