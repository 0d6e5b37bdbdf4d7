package nsga2

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSBX_ChildrenStayWithinBounds(t *testing.T) {
	bounds := Bounds{Min: 0.5, Max: 40}
	rng := rand.New(rand.NewSource(11))

	for _, eta := range []float64{1, 2, 15, 30, 100} {
		for _, length := range []int{1, 3} {
			for trial := 0; trial < 500; trial++ {
				p1 := make([]float64, length)
				p2 := make([]float64, length)
				for j := range p1 {
					p1[j] = bounds.Min + rng.Float64()*(bounds.Max-bounds.Min)
					p2[j] = bounds.Min + rng.Float64()*(bounds.Max-bounds.Min)
				}
				// parents sitting on the bounds exercise beta == 1
				if trial%50 == 0 {
					p1[0], p2[0] = bounds.Min, bounds.Max
				}

				c1, c2 := SBX(p1, p2, eta, bounds, rng)

				require.Len(t, c1, length)
				require.Len(t, c2, length)
				for j := range c1 {
					if c1[j] < bounds.Min || c1[j] > bounds.Max || c2[j] < bounds.Min || c2[j] > bounds.Max {
						t.Fatalf("eta=%v parents %v %v produced out-of-bounds children %v %v", eta, p1, p2, c1, c2)
					}
				}
			}
		}
	}
}

func TestSBX_IdenticalParents_CopyThrough(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c1, c2 := SBX([]float64{7}, []float64{7 + 1e-15}, 30, Bounds{Min: 1, Max: 100}, rng)

	assert.Equal(t, []float64{7}, c1)
	assert.Equal(t, []float64{7 + 1e-15}, c2)
}

func TestSBX_SingleGene_ChildrenBracketMidpoint(t *testing.T) {
	// GIVEN distinct parents well inside the bounds
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		c1, c2 := SBX([]float64{40}, []float64{60}, 30, Bounds{Min: 0, Max: 100}, rng)

		// THEN the children are symmetric around the parents' midpoint
		assert.LessOrEqual(t, c1[0], 50.0)
		assert.GreaterOrEqual(t, c2[0], 50.0)
		assert.InDelta(t, 100.0, c1[0]+c2[0], 1e-9)
	}
}

func TestMutate_RateZero_ReturnsUnchangedCopy(t *testing.T) {
	genome := []float64{10, 20}
	out := Mutate(genome, MutationParams{Rate: 0, GeneProbability: 1, DisturbPercent: 50}, Bounds{Min: 0, Max: 100}, rand.New(rand.NewSource(1)))

	assert.Equal(t, genome, out)
	out[0] = 99
	assert.Equal(t, 10.0, genome[0], "input must not be aliased")
}

func TestMutate_AlwaysTriggered_MovesByDisturbPercent(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	params := MutationParams{Rate: 1, GeneProbability: 1, DisturbPercent: 50}
	for i := 0; i < 100; i++ {
		out := Mutate([]float64{10}, params, Bounds{Min: 0, Max: 100}, rng)
		assert.Contains(t, []float64{5, 15}, out[0])
	}
}

func TestMutate_StaysWithinBounds(t *testing.T) {
	bounds := Bounds{Min: 1, Max: 10}
	rng := rand.New(rand.NewSource(4))
	params := MutationParams{Rate: 1, GeneProbability: 0.5, DisturbPercent: 300}
	for i := 0; i < 1000; i++ {
		g := bounds.Min + rng.Float64()*(bounds.Max-bounds.Min)
		out := Mutate([]float64{g, g}, params, bounds, rng)
		for _, v := range out {
			if v < bounds.Min || v > bounds.Max {
				t.Fatalf("mutation of %v escaped bounds: %v", g, out)
			}
		}
	}
}

func TestTournament_FavoursLowerRank(t *testing.T) {
	// GIVEN one rank-1 and one rank-2 individual
	good := &Individual{Rank: 1}
	bad := &Individual{Rank: 2}
	pop := []*Individual{good, bad}
	rng := rand.New(rand.NewSource(8))

	// WHEN many tournaments are held
	wins := 0
	for i := 0; i < 1000; i++ {
		if Tournament(pop, rng) == good {
			wins++
		}
	}

	// THEN the rank-2 individual only wins when drawn twice (about one in four)
	assert.Greater(t, wins, 650)
	assert.Less(t, wins, 850)
}

func TestBounds_Clamp(t *testing.T) {
	b := Bounds{Min: 1, Max: 3}
	assert.Equal(t, 1.0, b.Clamp(-5))
	assert.Equal(t, 2.5, b.Clamp(2.5))
	assert.Equal(t, 3.0, b.Clamp(8))
}
