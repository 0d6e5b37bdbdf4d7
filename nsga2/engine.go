package nsga2

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/genetic-quantum/genetic-quantum/tracing"
)

// Evaluator maps a genome to its objective vector. Implementations must be
// safe for concurrent use and return vectors of a fixed length.
type Evaluator interface {
	EvaluateGenome(ctx context.Context, genome []float64) ([]float64, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, genome []float64) ([]float64, error)

func (f EvaluatorFunc) EvaluateGenome(ctx context.Context, genome []float64) ([]float64, error) {
	return f(ctx, genome)
}

// GenerationStats summarizes the parent population after one generation.
type GenerationStats struct {
	Generation  int       `json:"generation" yaml:"generation"`
	FrontSize   int       `json:"front_size" yaml:"front_size"`
	Hypervolume float64   `json:"hypervolume" yaml:"hypervolume"`
	Best        []float64 `json:"best" yaml:"best"` // per-objective minimum over front 1, raw values
	Evaluations int       `json:"evaluations" yaml:"evaluations"`
}

// Result is the outcome of Engine.Run.
type Result struct {
	// Front is front 1 of the final population, ordered by genome.
	Front          Front
	Population     *Population
	History        []GenerationStats
	ReferencePoint []float64
	Evaluations    int
	Elapsed        time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithReferencePoint fixes the hypervolume reference point. Without it the
// reference is derived from the initial population.
func WithReferencePoint(ref []float64) Option {
	return func(e *Engine) { e.ref = append([]float64(nil), ref...) }
}

// WithObserver registers a callback invoked after every generation.
func WithObserver(fn func(GenerationStats)) Option {
	return func(e *Engine) { e.observers = append(e.observers, fn) }
}

// referenceFactor scales the initial population's worst values into a
// reference point.
const referenceFactor = 1.1

// Engine runs NSGA-II. An Engine is single-use.
type Engine struct {
	cfg       Config
	eval      Evaluator
	rng       *rand.Rand
	ref       []float64
	observers []func(GenerationStats)

	evaluations int
}

// NewEngine validates cfg and returns an engine drawing all genetic randomness from rng.
func NewEngine(cfg Config, eval Evaluator, rng *rand.Rand, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if eval == nil {
		return nil, fmt.Errorf("nsga2: evaluator is required")
	}
	if rng == nil {
		return nil, fmt.Errorf("nsga2: random source is required")
	}
	e := &Engine{cfg: cfg, eval: eval, rng: rng}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes the initial evaluation and cfg.Generations generations and
// returns front 1 of the final population. The first evaluation error aborts
// the run.
func (e *Engine) Run(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "nsga2.run")
	span.SetInt("generations", e.cfg.Generations).SetInt("population_size", e.cfg.PopulationSize)
	defer func() { tracing.EndSpan(span, err) }()

	logrus.Infof("NSGA-II: %d generations, population %d, bounds [%g, %g], workers %d",
		e.cfg.Generations, e.cfg.PopulationSize, e.cfg.Bounds.Min, e.cfg.Bounds.Max, e.cfg.Workers)

	pop := NewRandomPopulation(e.cfg.PopulationSize, e.cfg.GenomeLength, e.cfg.Bounds, e.rng)
	if err := e.evaluate(ctx, pop.Individuals); err != nil {
		return nil, err
	}
	if e.ref == nil {
		e.ref = ReferencePoint(Front(pop.Individuals).Objectives(), referenceFactor)
	}
	if e.cfg.Normalize {
		Normalize(pop.Individuals)
	}
	pop.Sort()

	history := []GenerationStats{e.record(ctx, 0, pop)}
	for gen := 1; gen <= e.cfg.Generations; gen++ {
		next, err := e.step(ctx, gen, pop)
		if err != nil {
			return nil, err
		}
		pop = next
		history = append(history, e.record(ctx, gen, pop))
	}

	return &Result{
		Front:          pop.FirstFront(),
		Population:     pop,
		History:        history,
		ReferencePoint: e.ref,
		Evaluations:    e.evaluations,
		Elapsed:        time.Since(start),
	}, nil
}

// step produces generation gen from the ranked parent population.
func (e *Engine) step(ctx context.Context, gen int, parents *Population) (next *Population, err error) {
	ctx, span := tracing.StartSpan(ctx, "nsga2.generation")
	span.SetInt("generation", gen)
	defer func() { tracing.EndSpan(span, err) }()

	offspring := e.reproduce(parents)
	if err := e.evaluate(ctx, offspring.Individuals); err != nil {
		return nil, err
	}
	combined := parents.Union(offspring)
	if e.cfg.Normalize {
		Normalize(combined.Individuals)
	}
	combined.Sort()
	selected, err := EnvironmentalSelection(combined.Fronts, e.cfg.PopulationSize)
	if err != nil {
		var inv *InvariantError
		if errors.As(err, &inv) {
			inv.Generation = gen
		}
		return nil, err
	}
	next = &Population{Individuals: selected}
	survivors := make(map[*Individual]bool, len(selected))
	for _, ind := range selected {
		survivors[ind] = true
	}
	// Fronts of the survivors keep the ranks and distances of the combined sort.
	for _, f := range combined.Fronts {
		var kept Front
		for _, ind := range f {
			if survivors[ind] {
				kept = append(kept, ind)
			}
		}
		if len(kept) > 0 {
			next.Fronts = append(next.Fronts, kept)
		}
	}
	span.SetInt("fronts", len(combined.Fronts))
	return next, nil
}

// reproduce creates PopulationSize children by tournament, SBX and mutation.
func (e *Engine) reproduce(parents *Population) *Population {
	n := e.cfg.PopulationSize
	children := &Population{Individuals: make([]*Individual, 0, n)}
	mut := e.cfg.Mutation()
	for len(children.Individuals) < n {
		p1 := Tournament(parents.Individuals, e.rng)
		p2 := Tournament(parents.Individuals, e.rng)
		g1, g2 := p1.Genome, p2.Genome
		if e.rng.Float64() < e.cfg.CrossoverRate {
			g1, g2 = SBX(p1.Genome, p2.Genome, e.cfg.DistributionIndex, e.cfg.Bounds, e.rng)
		}
		children.Individuals = append(children.Individuals,
			&Individual{Genome: Mutate(g1, mut, e.cfg.Bounds, e.rng)},
			&Individual{Genome: Mutate(g2, mut, e.cfg.Bounds, e.rng)})
	}
	return children
}

// evaluate fills in the objectives of unevaluated individuals using up to
// cfg.Workers concurrent evaluations.
func (e *Engine) evaluate(ctx context.Context, individuals []*Individual) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	results := make([][]float64, len(individuals))
	for i, ind := range individuals {
		if ind.Evaluated() {
			continue
		}
		genome := ind.Genome
		g.Go(func() error {
			vec, err := e.eval.EvaluateGenome(gctx, genome)
			if err != nil {
				return fmt.Errorf("evaluating genome %v: %w", genome, err)
			}
			results[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, vec := range results {
		if vec == nil {
			continue
		}
		if len(vec) == 0 {
			return fmt.Errorf("evaluator returned an empty objective vector for genome %v", individuals[i].Genome)
		}
		individuals[i].setObjectives(vec)
		e.evaluations++
	}
	return nil
}

// record computes stats for pop, logs them and notifies observers.
func (e *Engine) record(ctx context.Context, gen int, pop *Population) GenerationStats {
	front := pop.FirstFront()
	points := front.Objectives()
	stats := GenerationStats{
		Generation:  gen,
		FrontSize:   len(front),
		Hypervolume: Hypervolume(points, e.ref),
		Best:        bestPerObjective(points),
		Evaluations: e.evaluations,
	}
	_, span := tracing.StartSpan(ctx, "nsga2.front")
	span.SetInt("generation", gen).SetInt("front_size", stats.FrontSize).SetFloat("hypervolume", stats.Hypervolume)
	tracing.EndSpan(span, nil)

	logrus.Infof("generation %d/%d front1=%d hv=%.4g best=%v", gen, e.cfg.Generations, stats.FrontSize, stats.Hypervolume, stats.Best)
	for _, fn := range e.observers {
		fn(stats)
	}
	return stats
}

func bestPerObjective(points [][]float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	best := append([]float64(nil), points[0]...)
	for _, p := range points[1:] {
		for m, v := range p {
			if v < best[m] {
				best[m] = v
			}
		}
	}
	return best
}
