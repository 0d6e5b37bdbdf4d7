package nsga2

import (
	"fmt"
	"sort"
)

// EnvironmentalSelection builds the next parent population of size n from
// sorted fronts: whole fronts are taken while they fit, then the first front
// that would overflow is ordered by crowded comparison and truncated to fill
// the remaining capacity exactly. Crowding distances must already be assigned.
func EnvironmentalSelection(fronts []Front, n int) ([]*Individual, error) {
	next := make([]*Individual, 0, n)
	for i, f := range fronts {
		if len(next) == n {
			break
		}
		if len(f) == 0 {
			return nil, &InvariantError{Reason: fmt.Sprintf("front %d is empty with %d slots left", i+1, n-len(next))}
		}
		if len(next)+len(f) <= n {
			next = append(next, f...)
			continue
		}
		ordered := make(Front, len(f))
		copy(ordered, f)
		sort.SliceStable(ordered, func(a, b int) bool {
			return CrowdedLess(ordered[a], ordered[b])
		})
		next = append(next, ordered[:n-len(next)]...)
	}
	if len(next) != n {
		return nil, &InvariantError{Reason: fmt.Sprintf("fronts hold %d individuals, need %d", len(next), n)}
	}
	return next, nil
}
