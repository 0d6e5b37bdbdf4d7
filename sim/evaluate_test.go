package sim

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genetic-quantum/genetic-quantum/sim/evalcache"
	"github.com/genetic-quantum/genetic-quantum/sim/scenario"
	"github.com/genetic-quantum/genetic-quantum/sim/trace"
)

const threeAtZero = "P 1 0 5 1\nP 2 0 3 1\nP 3 0 8 2\n"

const ioHeavy = `S TS 400
P CH 4
P PR 1 3 5
P NI 0 2 4
P DI 1 3 7
P DC 1 4 10
C QT 1
D QT 2
`

func mustScenario(t *testing.T, text string) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return sc
}

func TestEvaluator_WorkedExample(t *testing.T) {
	// GIVEN three processes with bursts 5, 3, 8 at t=0 under RR
	ev, err := NewEvaluator(mustScenario(t, threeAtZero), "", NewSimulationKey(1))
	require.NoError(t, err)
	assert.Equal(t, PolicyRoundRobin, ev.Policy())

	// WHEN the quantum is 4
	obj, err := ev.Evaluate(context.Background(), 4)

	// THEN the objective vector matches the hand-computed schedule
	require.NoError(t, err)
	assert.InDelta(t, 35.0/3, obj.Turnaround, 1e-9)
	assert.InDelta(t, 19.0/3, obj.Waiting, 1e-9)
	assert.Equal(t, 5, obj.ContextSwitches)
}

func TestEvaluator_SameQuantum_SameObjectives(t *testing.T) {
	// GIVEN a probabilistic scenario and a fixed seed
	ev, err := NewEvaluator(mustScenario(t, ioHeavy), "rr", NewSimulationKey(99))
	require.NoError(t, err)

	// WHEN the same quantum is evaluated twice, once concurrently with others
	first, err := ev.Evaluate(context.Background(), 3.25)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Objectives, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ev.Evaluate(context.Background(), 3.25)
		}(i)
	}
	wg.Wait()

	// THEN every run sees the same generated population and the same result
	for i, r := range results {
		assert.Equal(t, first, r, "run %d diverged", i)
	}
}

func TestEvaluator_LargeQuantum_ConvergesToFCFS(t *testing.T) {
	// GIVEN the same scenario and seed under RR and FCFS
	sc := mustScenario(t, ioHeavy)
	rr, err := NewEvaluator(sc, "rr", NewSimulationKey(5))
	require.NoError(t, err)
	fcfs, err := NewEvaluator(sc, "fcfs", NewSimulationKey(5))
	require.NoError(t, err)

	// WHEN the quantum is no smaller than the largest possible burst
	got, err := rr.Evaluate(context.Background(), sc.CPUDuration.Max)
	require.NoError(t, err)
	want, err := fcfs.Evaluate(context.Background(), 1)
	require.NoError(t, err)

	// THEN no slice expires and the schedules coincide
	assert.Equal(t, want, got)
}

func TestEvaluator_SmallerQuantum_MoreContextSwitches(t *testing.T) {
	ev, err := NewEvaluator(mustScenario(t, threeAtZero), "rr", NewSimulationKey(1))
	require.NoError(t, err)

	small, err := ev.Evaluate(context.Background(), 1)
	require.NoError(t, err)
	large, err := ev.Evaluate(context.Background(), 8)
	require.NoError(t, err)

	assert.Equal(t, 16, small.ContextSwitches, "q=1 dispatches once per unit of work")
	assert.Greater(t, small.ContextSwitches, large.ContextSwitches)
}

func TestEvaluator_Cache_ServesRepeatedQuanta(t *testing.T) {
	// GIVEN an evaluator backed by an in-memory cache
	cache := evalcache.NewMemory()
	ev, err := NewEvaluator(mustScenario(t, threeAtZero), "rr", NewSimulationKey(1), WithCache(cache))
	require.NoError(t, err)

	// WHEN the same quantum is evaluated twice
	a, err := ev.Evaluate(context.Background(), 4)
	require.NoError(t, err)
	b, err := ev.Evaluate(context.Background(), 4)
	require.NoError(t, err)

	// THEN the second call is a hit with an identical result
	assert.Equal(t, a, b)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, evalcache.Stats{Hits: 1, Misses: 1}, cache.Stats())
}

func TestEvaluator_Run_ReturnsTrace(t *testing.T) {
	ev, err := NewEvaluator(mustScenario(t, threeAtZero), "rr", NewSimulationKey(1))
	require.NoError(t, err)

	res, err := ev.Run(context.Background(), 4, trace.TraceLevelDispatch)
	require.NoError(t, err)
	summary := trace.Summarize(res.Trace)
	assert.Equal(t, 5, summary.TotalDispatches)
	assert.Equal(t, 3, summary.Terminations)

	res, err = ev.Run(context.Background(), 4, trace.TraceLevelNone)
	require.NoError(t, err)
	assert.Nil(t, res.Trace)
}

func TestEvaluator_InvalidInput(t *testing.T) {
	sc := mustScenario(t, threeAtZero)

	_, err := NewEvaluator(nil, "rr", 1)
	assert.Error(t, err)
	_, err = NewEvaluator(sc, "lottery", 1)
	assert.Error(t, err)

	ev, err := NewEvaluator(sc, "rr", 1)
	require.NoError(t, err)
	_, err = ev.Evaluate(context.Background(), 0)
	assert.Error(t, err, "round-robin rejects a zero quantum")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ev.Evaluate(ctx, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluator_EvaluateGenome(t *testing.T) {
	ev, err := NewEvaluator(mustScenario(t, threeAtZero), "rr", NewSimulationKey(1))
	require.NoError(t, err)

	vec, err := ev.EvaluateGenome(context.Background(), []float64{4})
	require.NoError(t, err)
	require.Len(t, vec, 3)
	assert.InDelta(t, 35.0/3, vec[0], 1e-9)
	assert.Equal(t, 5.0, vec[2])

	_, err = ev.EvaluateGenome(context.Background(), []float64{1, 2})
	assert.Error(t, err)
	_, err = ev.EvaluateGenome(context.Background(), nil)
	assert.Error(t, err)
}
