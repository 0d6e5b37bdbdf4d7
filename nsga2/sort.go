package nsga2

// FastNonDominatedSort partitions individuals into fronts by Pareto dominance.
// Every individual ends up in exactly one front; Rank, DominationCount and
// Dominated are overwritten. Front 1 holds the individuals no one dominates,
// front k+1 those dominated only by members of fronts 1..k.
// Runs in O(n² · m) for n individuals and m objectives.
func FastNonDominatedSort(individuals []*Individual) []Front {
	for _, ind := range individuals {
		ind.DominationCount = 0
		ind.Dominated = ind.Dominated[:0]
		ind.Rank = 0
	}

	var current Front
	for i, p := range individuals {
		for j, q := range individuals {
			if i == j {
				continue
			}
			if p.Dominates(q) {
				p.Dominated = append(p.Dominated, q)
			} else if q.Dominates(p) {
				p.DominationCount++
			}
		}
		if p.DominationCount == 0 {
			p.Rank = 1
			current = append(current, p)
		}
	}

	var fronts []Front
	for rank := 1; len(current) > 0; rank++ {
		fronts = append(fronts, current)
		var next Front
		for _, p := range current {
			for _, q := range p.Dominated {
				q.DominationCount--
				if q.DominationCount == 0 {
					q.Rank = rank + 1
					next = append(next, q)
				}
			}
		}
		current = next
	}
	return fronts
}
