package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/genetic-quantum/genetic-quantum/sim/evalcache"
	"github.com/genetic-quantum/genetic-quantum/sim/scenario"
	"github.com/genetic-quantum/genetic-quantum/sim/trace"
	"github.com/genetic-quantum/genetic-quantum/tracing"
)

// Evaluator runs one full simulation per quantum against a fixed scenario.
// It holds no per-run state and is safe for concurrent use as long as the
// scenario is not mutated.
type Evaluator struct {
	scenario *scenario.Scenario
	policy   string
	key      SimulationKey
	cache    evalcache.Cache
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithCache memoizes objective vectors in c.
func WithCache(c evalcache.Cache) EvaluatorOption {
	return func(e *Evaluator) { e.cache = c }
}

// NewEvaluator creates an Evaluator for sc under the named dispatch policy.
// The key seeds process generation; every evaluation regenerates the same
// population from it.
func NewEvaluator(sc *scenario.Scenario, policy string, key SimulationKey, opts ...EvaluatorOption) (*Evaluator, error) {
	if sc == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	if !IsValidPolicy(policy) {
		return nil, fmt.Errorf("unknown dispatch policy %q (valid: %v)", policy, ValidPolicyNames())
	}
	if policy == "" {
		policy = PolicyRoundRobin
	}
	e := &Evaluator{scenario: sc, policy: policy, key: key}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the dispatch policy name.
func (e *Evaluator) Policy() string {
	return e.policy
}

// RunResult is the full outcome of one simulation.
type RunResult struct {
	Objectives Objectives
	Metrics    *Metrics
	Trace      *trace.SimulationTrace
	Active     int // processes left unfinished (zero for every successful run)
}

// Run simulates quantum from scratch, bypassing the cache, and returns the
// full metrics. The trace is collected at the given level.
func (e *Evaluator) Run(ctx context.Context, quantum float64, level trace.TraceLevel) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if math.IsNaN(quantum) || math.IsInf(quantum, -1) {
		return nil, fmt.Errorf("invalid quantum %v", quantum)
	}
	policy, err := NewDispatchPolicy(e.policy, quantum)
	if err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(e.key).ForSubsystem(SubsystemWorkload)
	specs, err := e.scenario.Generate(rng)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		logrus.Warnf("scenario %q produced no processes; objectives are zero", e.scenario.Name)
	}
	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: level})
	sim, err := NewSimulator(SimConfig{
		NumCPUs:    e.scenario.NumCPUs,
		NumDevices: e.scenario.NumDevices,
		Policy:     policy,
		Trace:      tr,
	}, specs)
	if err != nil {
		return nil, err
	}
	if err := sim.Run(); err != nil {
		return nil, err
	}
	return &RunResult{
		Objectives: sim.Metrics.Objectives(),
		Metrics:    sim.Metrics,
		Trace:      tr,
		Active:     sim.Active(),
	}, nil
}

// Evaluate returns the objective vector (average turnaround, average waiting,
// context switches) for quantum. Results are served from the cache when one
// is configured.
func (e *Evaluator) Evaluate(ctx context.Context, quantum float64) (obj Objectives, err error) {
	ctx, span := tracing.StartSpan(ctx, "sim.evaluate")
	span.SetFloat("quantum", quantum).SetString("policy", e.policy)
	defer func() { tracing.EndSpan(span, err) }()

	key := evalcache.Key{
		Scenario: e.scenario.Fingerprint(),
		Policy:   e.policy,
		Quantum:  quantum,
		Seed:     int64(e.key),
	}
	if e.cache != nil {
		vec, hit, err := e.cache.Get(ctx, key)
		if err != nil {
			return Objectives{}, err
		}
		if hit && len(vec) == 3 {
			span.SetString("cache", "hit")
			return Objectives{Turnaround: vec[0], Waiting: vec[1], ContextSwitches: int(vec[2])}, nil
		}
	}

	res, err := e.Run(ctx, quantum, trace.TraceLevelNone)
	if err != nil {
		return Objectives{}, err
	}
	logrus.Debugf("quantum %.4f -> turnaround %.3f waiting %.3f switches %d",
		quantum, res.Objectives.Turnaround, res.Objectives.Waiting, res.Objectives.ContextSwitches)
	if e.cache != nil {
		if err := e.cache.Put(ctx, key, res.Objectives.Vector()); err != nil {
			return Objectives{}, err
		}
	}
	return res.Objectives, nil
}

// EvaluateGenome adapts Evaluate to the optimizer: the genome's single gene
// is the quantum.
func (e *Evaluator) EvaluateGenome(ctx context.Context, genome []float64) ([]float64, error) {
	if len(genome) != 1 {
		return nil, fmt.Errorf("expected a one-gene genome (quantum), got %d genes", len(genome))
	}
	obj, err := e.Evaluate(ctx, genome[0])
	if err != nil {
		return nil, err
	}
	return obj.Vector(), nil
}
