package nsga2

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds the optimizer parameters.
type Config struct {
	Generations    int    `yaml:"generations" json:"generations" validate:"gte=0"`
	PopulationSize int    `yaml:"population_size" json:"population_size" validate:"gte=2"`
	GenomeLength   int    `yaml:"genome_length" json:"genome_length" validate:"gte=1"`
	Bounds         Bounds `yaml:"genome_bounds" json:"genome_bounds"`
	// PositiveGenome requires Bounds.Min > 0, for genes such as a quantum.
	PositiveGenome bool `yaml:"positive_genome" json:"positive_genome"`

	CrossoverRate     float64 `yaml:"crossover_rate" json:"crossover_rate" validate:"gte=0,lte=1"`
	DistributionIndex float64 `yaml:"distribution_index" json:"distribution_index" validate:"gte=1"`

	MutationRate            float64 `yaml:"mutation_rate" json:"mutation_rate" validate:"gte=0,lte=1"`
	GeneMutationProbability float64 `yaml:"gene_mutation_probability" json:"gene_mutation_probability" validate:"gte=0,lte=1"`
	DisturbPercent          float64 `yaml:"disturb_percent" json:"disturb_percent" validate:"gte=0"`

	// Normalize divides objectives by the current combined population's
	// maxima before ranking.
	Normalize bool `yaml:"normalize" json:"normalize"`
	Workers   int  `yaml:"workers" json:"workers" validate:"gte=1"`
}

// DefaultConfig returns the parameters used for quantum search.
func DefaultConfig() Config {
	return Config{
		Generations:             50,
		PopulationSize:          20,
		GenomeLength:            1,
		Bounds:                  Bounds{Min: 1, Max: 100},
		CrossoverRate:           0.9,
		DistributionIndex:       30,
		MutationRate:            1,
		GeneMutationProbability: 0.5,
		DisturbPercent:          50,
		Workers:                 1,
	}
}

// Mutation returns the mutation parameters of c.
func (c Config) Mutation() MutationParams {
	return MutationParams{
		Rate:            c.MutationRate,
		GeneProbability: c.GeneMutationProbability,
		DisturbPercent:  c.DisturbPercent,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate returns a *ConfigError describing the first invalid parameter.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigError{Field: fe.Field(), Reason: fmt.Sprintf("must satisfy %s=%s, got %v", fe.Tag(), fe.Param(), fe.Value())}
		}
		return &ConfigError{Field: "config", Reason: err.Error()}
	}
	if c.PopulationSize%2 != 0 {
		return &ConfigError{Field: "PopulationSize", Reason: fmt.Sprintf("must be even, got %d", c.PopulationSize)}
	}
	if !(c.Bounds.Min < c.Bounds.Max) {
		return &ConfigError{Field: "Bounds", Reason: fmt.Sprintf("min %v must be below max %v", c.Bounds.Min, c.Bounds.Max)}
	}
	if c.PositiveGenome && !(c.Bounds.Min > 0) {
		return &ConfigError{Field: "Bounds", Reason: fmt.Sprintf("min %v must be positive", c.Bounds.Min)}
	}
	return nil
}
