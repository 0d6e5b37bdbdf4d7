package nsga2

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignCrowdingDistance_HandExample(t *testing.T) {
	// GIVEN a four-point front
	p1 := withObjectives(0, 1, 5)
	p2 := withObjectives(1, 2, 3)
	p3 := withObjectives(2, 4, 2)
	p4 := withObjectives(3, 6, 1)

	// WHEN crowding distances are assigned
	AssignCrowdingDistance(Front{p3, p1, p4, p2})

	// THEN boundaries are infinite and interior gaps are normalized per objective
	assert.True(t, math.IsInf(p1.CrowdingDistance, 1))
	assert.True(t, math.IsInf(p4.CrowdingDistance, 1))
	assert.InDelta(t, 0.6+0.75, p2.CrowdingDistance, 1e-12)
	assert.InDelta(t, 0.8+0.5, p3.CrowdingDistance, 1e-12)
}

func TestAssignCrowdingDistance_ConstantObjective_ContributesZero(t *testing.T) {
	// GIVEN a front whose second objective is the same for everyone
	a := withObjectives(0, 1, 7)
	b := withObjectives(1, 2, 7)
	c := withObjectives(2, 3, 7)

	AssignCrowdingDistance(Front{a, b, c})

	// THEN the interior distance comes from the first objective only, never NaN
	assert.False(t, math.IsNaN(b.CrowdingDistance))
	assert.InDelta(t, 1.0, b.CrowdingDistance, 1e-12)
}

func TestAssignCrowdingDistance_SmallFronts(t *testing.T) {
	AssignCrowdingDistance(nil)

	only := withObjectives(0, 1, 1)
	AssignCrowdingDistance(Front{only})
	assert.True(t, math.IsInf(only.CrowdingDistance, 1))

	a, b := withObjectives(0, 1, 2), withObjectives(1, 2, 1)
	AssignCrowdingDistance(Front{a, b})
	assert.True(t, math.IsInf(a.CrowdingDistance, 1))
	assert.True(t, math.IsInf(b.CrowdingDistance, 1))
}

func TestCrowdedComparison(t *testing.T) {
	low := &Individual{Rank: 1, CrowdingDistance: 0.1}
	high := &Individual{Rank: 2, CrowdingDistance: math.Inf(1)}
	sparse := &Individual{Rank: 1, CrowdingDistance: 2}
	twin := &Individual{Rank: 1, CrowdingDistance: 2}

	assert.Same(t, low, Crowded(low, high), "lower rank wins regardless of distance")
	assert.Same(t, low, Crowded(high, low))
	assert.Same(t, sparse, Crowded(low, sparse), "same rank: larger distance wins")
	assert.Same(t, twin, Crowded(twin, sparse), "full tie keeps the first argument")
	assert.True(t, CrowdedLess(low, high))
	assert.False(t, CrowdedLess(twin, sparse))
}
