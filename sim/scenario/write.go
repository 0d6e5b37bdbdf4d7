package scenario

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDeterministic writes specs as deterministic "P" records that Parse reads
// back into the same population. Only single-burst processes without I/O or a
// termination delay can be expressed; anything else is rejected.
func WriteDeterministic(w io.Writer, specs []ProcessSpec) error {
	bw := bufio.NewWriter(w)
	for _, p := range specs {
		if len(p.CPUBursts) != 1 || len(p.IOBursts) != 0 || p.TerminationDelay != 0 {
			return fmt.Errorf("process %d has %d CPU bursts, %d I/O bursts and termination delay %v; only single-burst processes fit the deterministic format",
				p.ID, len(p.CPUBursts), len(p.IOBursts), p.TerminationDelay)
		}
		fmt.Fprintf(bw, "P %d %s %s %d\n", p.ID, formatFloat(p.Arrival), formatFloat(p.CPUBursts[0]), p.Priority)
	}
	return bw.Flush()
}

// formatFloat uses the shortest representation that parses back to f.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
