package opt

import "fmt"

// Config holds every tunable of a run. It is validated once, when the
// engine is constructed; a run never starts with an invalid config.
type Config struct {
	PopulationSize int `json:"populationSize" ini:"population_size"`
	GenomeLength   int `json:"genomeLength" ini:"genome_length"`
	AlphabetSize   int `json:"alphabetSize" ini:"alphabet_size"`
	HallOfFameSize int `json:"hallOfFameSize" ini:"hall_of_fame_size"`
	TournamentSize int `json:"tournamentSize" ini:"tournament_size"`
	MaxGenerations int `json:"maxGenerations" ini:"max_generations"`

	CrossoverProb float64 `json:"crossoverProb" ini:"crossover_prob"`
	MutationProb  float64 `json:"mutationProb" ini:"mutation_prob"`
	// GeneMutationProb is the per-gene resampling probability (indpb).
	// Zero selects 1/GenomeLength.
	GeneMutationProb float64 `json:"geneMutationProb,omitempty" ini:"gene_mutation_prob"`

	// ReplayFrequency triggers Observer.OnReplay every N generations (0 = never)
	ReplayFrequency int   `json:"replayFrequency,omitempty" ini:"replay_frequency"`
	Seed            int64 `json:"seed" ini:"seed"`

	// Workers > 1 evaluates a generation in parallel; requires an EvaluatorFactory
	Workers int `json:"workers,omitempty" ini:"workers"`
}

// DefaultConfig returns the reference settings for the mountain car task
func DefaultConfig() Config {
	return Config{
		PopulationSize:  100,
		GenomeLength:    200,
		AlphabetSize:    3,
		HallOfFameSize:  4,
		TournamentSize:  2,
		MaxGenerations:  300,
		CrossoverProb:   0.9,
		MutationProb:    0.5,
		ReplayFrequency: 50,
		Seed:            42,
		Workers:         1,
	}
}

// Indpb returns the effective per-gene mutation probability
func (c Config) Indpb() float64 {
	if c.GeneMutationProb > 0 {
		return c.GeneMutationProb
	}
	return 1.0 / float64(c.GenomeLength)
}

// Validate checks operator preconditions.
// The returned error is always a *ConfigError.
func (c Config) Validate() error {
	if c.GenomeLength < 3 {
		return &ConfigError{Field: "GenomeLength", Reason: "must be at least 3 for two-point crossover"}
	}
	if c.AlphabetSize < 1 {
		return &ConfigError{Field: "AlphabetSize", Reason: "must be positive"}
	}
	if c.PopulationSize < 2 {
		return &ConfigError{Field: "PopulationSize", Reason: "must be at least 2"}
	}
	if c.HallOfFameSize < 1 {
		return &ConfigError{Field: "HallOfFameSize", Reason: "must be positive"}
	}
	if c.HallOfFameSize >= c.PopulationSize {
		return &ConfigError{
			Field:  "HallOfFameSize",
			Reason: fmt.Sprintf("must be smaller than population size %d", c.PopulationSize),
		}
	}
	if c.TournamentSize < 1 {
		return &ConfigError{Field: "TournamentSize", Reason: "must be positive"}
	}
	if c.MaxGenerations < 1 {
		return &ConfigError{Field: "MaxGenerations", Reason: "must be positive"}
	}
	if err := checkProbability("CrossoverProb", c.CrossoverProb); err != nil {
		return err
	}
	if err := checkProbability("MutationProb", c.MutationProb); err != nil {
		return err
	}
	if err := checkProbability("GeneMutationProb", c.GeneMutationProb); err != nil {
		return err
	}
	if c.ReplayFrequency < 0 {
		return &ConfigError{Field: "ReplayFrequency", Reason: "cannot be negative"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "Workers", Reason: "cannot be negative"}
	}
	return nil
}

func checkProbability(field string, p float64) error {
	if p < 0 || p > 1 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be in [0, 1], got %g", p)}
	}
	return nil
}

// ConfigError reports an invalid configuration value
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid config: " + e.Field + " " + e.Reason
}
