package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/genetic-quantum/genetic-quantum/nsga2"
)

// envPrefix namespaces every environment override, e.g. GQ_GENERATIONS.
const envPrefix = "GQ_"

// RunConfig is the optimizer configuration as read from file, environment and flags.
// All fields must carry yaml tags to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Generations       int       `yaml:"generations" json:"generations" env:"GENERATIONS" validate:"gte=0"`
	PopulationSize    int       `yaml:"population_size" json:"population_size" env:"POPULATION_SIZE" validate:"gte=2"`
	GenomeBounds      []float64 `yaml:"genome_bounds" json:"genome_bounds" env:"GENOME_BOUNDS" envSeparator:"," validate:"len=2"`
	CrossoverRate     float64   `yaml:"crossover_rate" json:"crossover_rate" env:"CROSSOVER_RATE" validate:"gte=0,lte=1"`
	DistributionIndex float64   `yaml:"distribution_index" json:"distribution_index" env:"DISTRIBUTION_INDEX" validate:"gte=1"`
	MutationRate      float64   `yaml:"mutation_rate" json:"mutation_rate" env:"MUTATION_RATE" validate:"gte=0,lte=1"`
	ScenarioPath      string    `yaml:"scenario_path" json:"scenario_path" env:"SCENARIO_PATH" validate:"required"`

	GeneMutationProbability float64 `yaml:"gene_mutation_probability" json:"gene_mutation_probability" env:"GENE_MUTATION_PROBABILITY" validate:"gte=0,lte=1"`
	DisturbPercent          float64 `yaml:"disturb_percent" json:"disturb_percent" env:"DISTURB_PERCENT" validate:"gte=0"`
	Normalize               bool    `yaml:"normalize" json:"normalize" env:"NORMALIZE"`

	Seed    int64  `yaml:"seed" json:"seed" env:"SEED"`
	Workers int    `yaml:"workers" json:"workers" env:"WORKERS" validate:"gte=1"`
	Policy  string `yaml:"policy" json:"policy" env:"POLICY" validate:"omitempty,oneof=rr fcfs priority sjf srt"`

	Cache         string        `yaml:"cache" json:"cache" env:"CACHE" validate:"oneof=none memory redis"`
	RedisAddr     string        `yaml:"redis_addr" json:"redis_addr" env:"REDIS_ADDR" validate:"required_if=Cache redis"`
	RedisPassword string        `yaml:"-" json:"-" env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `yaml:"cache_ttl" json:"cache_ttl" env:"CACHE_TTL"`

	Output   string `yaml:"output" json:"output" env:"OUTPUT"`
	TraceOut string `yaml:"trace_out" json:"trace_out" env:"TRACE_OUT"`
	Log      string `yaml:"log" json:"log" env:"LOG"`
}

// DefaultRunConfig returns the built-in defaults.
func DefaultRunConfig() RunConfig {
	d := nsga2.DefaultConfig()
	return RunConfig{
		Generations:             d.Generations,
		PopulationSize:          d.PopulationSize,
		GenomeBounds:            []float64{d.Bounds.Min, d.Bounds.Max},
		CrossoverRate:           d.CrossoverRate,
		DistributionIndex:       d.DistributionIndex,
		MutationRate:            d.MutationRate,
		GeneMutationProbability: d.GeneMutationProbability,
		DisturbPercent:          d.DisturbPercent,
		Seed:                    42,
		Workers:                 d.Workers,
		Policy:                  "rr",
		Cache:                   "memory",
		CacheTTL:                24 * time.Hour,
		Log:                     "warn",
	}
}

// loadRunConfig layers defaults, the YAML file at path (if any) and GQ_
// environment variables, in that order.
func loadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		// Parse YAML with strict field checking: typos must cause errors
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config YAML %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return cfg, aggErr.Errors[0]
		}
		return cfg, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and the derived optimizer parameters.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return err
	}
	return c.Optimizer().Validate()
}

// Optimizer converts the run configuration into nsga2 parameters.
func (c RunConfig) Optimizer() nsga2.Config {
	var bounds nsga2.Bounds
	if len(c.GenomeBounds) == 2 {
		bounds = nsga2.Bounds{Min: c.GenomeBounds[0], Max: c.GenomeBounds[1]}
	}
	return nsga2.Config{
		Generations:             c.Generations,
		PopulationSize:          c.PopulationSize,
		GenomeLength:            1,
		Bounds:                  bounds,
		PositiveGenome:          true,
		CrossoverRate:           c.CrossoverRate,
		DistributionIndex:       c.DistributionIndex,
		MutationRate:            c.MutationRate,
		GeneMutationProbability: c.GeneMutationProbability,
		DisturbPercent:          c.DisturbPercent,
		Normalize:               c.Normalize,
		Workers:                 c.Workers,
	}
}

// bindRunFlags registers one flag per option on cmd, writing into fv.
func bindRunFlags(cmd *cobra.Command, fv *RunConfig) {
	d := DefaultRunConfig()
	f := cmd.Flags()
	f.IntVar(&fv.Generations, "generations", d.Generations, "Number of NSGA-II generations")
	f.IntVar(&fv.PopulationSize, "population-size", d.PopulationSize, "Population size (even)")
	f.Float64SliceVar(&fv.GenomeBounds, "genome-bounds", d.GenomeBounds, "Quantum search interval as min,max")
	f.Float64Var(&fv.CrossoverRate, "crossover-rate", d.CrossoverRate, "SBX crossover probability")
	f.Float64Var(&fv.DistributionIndex, "distribution-index", d.DistributionIndex, "SBX distribution index")
	f.Float64Var(&fv.MutationRate, "mutation-rate", d.MutationRate, "Probability that a child is mutated")
	f.Float64Var(&fv.GeneMutationProbability, "gene-mutation-probability", d.GeneMutationProbability, "Per-gene disturbance probability")
	f.Float64Var(&fv.DisturbPercent, "disturb-percent", d.DisturbPercent, "Mutation magnitude as a percentage of the gene")
	f.BoolVar(&fv.Normalize, "normalize", d.Normalize, "Divide objectives by the current population maxima before ranking")
	f.StringVar(&fv.ScenarioPath, "scenario", d.ScenarioPath, "Scenario file path or URL")
	f.Int64Var(&fv.Seed, "seed", d.Seed, "Seed for workload generation and genetic operators")
	f.IntVar(&fv.Workers, "workers", d.Workers, "Concurrent evaluations")
	f.StringVar(&fv.Policy, "policy", d.Policy, "Dispatch policy (rr, fcfs, priority, sjf, srt)")
	f.StringVar(&fv.Cache, "cache", d.Cache, "Evaluation cache (none, memory, redis)")
	f.StringVar(&fv.RedisAddr, "redis-addr", d.RedisAddr, "Redis address for --cache redis")
	f.DurationVar(&fv.CacheTTL, "cache-ttl", d.CacheTTL, "Redis entry lifetime")
	f.StringVar(&fv.Output, "output", d.Output, "Result document URL (.json, .yaml)")
	f.StringVar(&fv.TraceOut, "trace-out", d.TraceOut, "Write OpenTelemetry spans to this file")
}

// applyFlagOverrides copies every flag the user set explicitly from fv into cfg.
func applyFlagOverrides(cmd *cobra.Command, fv, cfg *RunConfig) {
	f := cmd.Flags()
	overrides := map[string]func(){
		"generations":               func() { cfg.Generations = fv.Generations },
		"population-size":           func() { cfg.PopulationSize = fv.PopulationSize },
		"genome-bounds":             func() { cfg.GenomeBounds = fv.GenomeBounds },
		"crossover-rate":            func() { cfg.CrossoverRate = fv.CrossoverRate },
		"distribution-index":        func() { cfg.DistributionIndex = fv.DistributionIndex },
		"mutation-rate":             func() { cfg.MutationRate = fv.MutationRate },
		"gene-mutation-probability": func() { cfg.GeneMutationProbability = fv.GeneMutationProbability },
		"disturb-percent":           func() { cfg.DisturbPercent = fv.DisturbPercent },
		"normalize":                 func() { cfg.Normalize = fv.Normalize },
		"scenario":                  func() { cfg.ScenarioPath = fv.ScenarioPath },
		"seed":                      func() { cfg.Seed = fv.Seed },
		"workers":                   func() { cfg.Workers = fv.Workers },
		"policy":                    func() { cfg.Policy = fv.Policy },
		"cache":                     func() { cfg.Cache = fv.Cache },
		"redis-addr":                func() { cfg.RedisAddr = fv.RedisAddr },
		"cache-ttl":                 func() { cfg.CacheTTL = fv.CacheTTL },
		"output":                    func() { cfg.Output = fv.Output },
		"trace-out":                 func() { cfg.TraceOut = fv.TraceOut },
	}
	for name, apply := range overrides {
		if f.Changed(name) {
			apply()
		}
	}
}
