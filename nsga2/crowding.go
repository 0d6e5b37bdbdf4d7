package nsga2

import (
	"math"
	"sort"
)

// AssignCrowdingDistance sets CrowdingDistance for every member of front.
// For each objective the two boundary individuals get +Inf and interior ones
// accumulate the normalized gap between their neighbours. An objective on
// which the whole front is equal contributes zero.
func AssignCrowdingDistance(front Front) {
	for _, ind := range front {
		ind.CrowdingDistance = 0
	}
	n := len(front)
	if n == 0 {
		return
	}
	objectives := len(front[0].Solutions)
	sorted := make(Front, n)
	copy(sorted, front)

	for m := 0; m < objectives; m++ {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Solutions[m] < sorted[j].Solutions[m]
		})
		sorted[0].CrowdingDistance = math.Inf(1)
		sorted[n-1].CrowdingDistance = math.Inf(1)

		span := sorted[n-1].Solutions[m] - sorted[0].Solutions[m]
		if span == 0 {
			continue
		}
		for i := 1; i < n-1; i++ {
			sorted[i].CrowdingDistance += (sorted[i+1].Solutions[m] - sorted[i-1].Solutions[m]) / span
		}
	}
}

// CrowdedLess is the crowded-comparison order: lower rank first, then larger
// crowding distance.
func CrowdedLess(a, b *Individual) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.CrowdingDistance > b.CrowdingDistance
}

// Crowded returns the winner of the crowded comparison between a and b.
// On a full tie a wins.
func Crowded(a, b *Individual) *Individual {
	if CrowdedLess(b, a) {
		return b
	}
	return a
}
