package store

import (
	"fmt"
	"time"

	"github.com/cwbudde/mountaincarga/internal/opt"
)

// Solution is the persisted best individual of a run.
//
// Only the best genome is saved, not the population. Resuming a run seeds
// generation 1 of a fresh engine with Genes; the rest of the population is
// random again, so a resumed run is not a bit-exact continuation. Elitism
// guarantees the resumed best never scores worse than Fitness.
type Solution struct {
	// RunID is the unique identifier of the run that produced this solution
	RunID string `json:"runId"`

	// Genes is the action sequence, one gene per time step
	Genes []int `json:"genes"`

	// Fitness is the score of Genes under EnvSeed (lower is better)
	Fitness float64 `json:"fitness"`

	// InitialFitness is the best score of generation 1
	InitialFitness float64 `json:"initialFitness"`

	// Generation is the generation count when the solution was saved
	Generation int `json:"generation"`

	// EnvSeed is the environment reset seed the fitness was measured under
	EnvSeed int64 `json:"envSeed"`

	Timestamp time.Time `json:"timestamp"`

	// Config is the engine configuration of the run
	Config opt.Config `json:"config"`
}

// SolutionInfo is the listing view of a Solution without the genes.
type SolutionInfo struct {
	RunID          string    `json:"runId"`
	Fitness        float64   `json:"fitness"`
	Generation     int       `json:"generation"`
	Timestamp      time.Time `json:"timestamp"`
	GenomeLength   int       `json:"genomeLength"`
	PopulationSize int       `json:"populationSize"`
	EnvSeed        int64     `json:"envSeed"`
	Solved         bool      `json:"solved"`
}

// NewSolution creates a solution stamped with the current time.
func NewSolution(runID string, genes []int, fitness, initialFitness float64, generation int, envSeed int64, config opt.Config) *Solution {
	return &Solution{
		RunID:          runID,
		Genes:          genes,
		Fitness:        fitness,
		InitialFitness: initialFitness,
		Generation:     generation,
		EnvSeed:        envSeed,
		Timestamp:      time.Now(),
		Config:         config,
	}
}

// Solved reports whether the genes reach the goal before the step budget.
// Only early successes score below zero.
func (s *Solution) Solved() bool {
	return s.Fitness < 0
}

// ToInfo converts a full Solution to SolutionInfo.
func (s *Solution) ToInfo() SolutionInfo {
	return SolutionInfo{
		RunID:          s.RunID,
		Fitness:        s.Fitness,
		Generation:     s.Generation,
		Timestamp:      s.Timestamp,
		GenomeLength:   len(s.Genes),
		PopulationSize: s.Config.PopulationSize,
		EnvSeed:        s.EnvSeed,
		Solved:         s.Solved(),
	}
}

// Individual returns the genes as an optimizer individual.
func (s *Solution) Individual() opt.Individual {
	return opt.FromInts(s.Genes)
}

// Validate checks if the solution has valid data.
func (s *Solution) Validate() error {
	if s.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if len(s.Genes) == 0 {
		return &ValidationError{Field: "Genes", Reason: "cannot be empty"}
	}
	if s.Generation < 0 {
		return &ValidationError{Field: "Generation", Reason: "cannot be negative"}
	}
	if s.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if err := s.Config.Validate(); err != nil {
		return &ValidationError{Field: "Config", Reason: err.Error()}
	}
	if len(s.Genes) != s.Config.GenomeLength {
		return &ValidationError{
			Field:  "Genes",
			Reason: fmt.Sprintf("length mismatch: expected %d genes, got %d", s.Config.GenomeLength, len(s.Genes)),
		}
	}
	for i, g := range s.Genes {
		if g < 0 || g >= s.Config.AlphabetSize {
			return &ValidationError{
				Field:  "Genes",
				Reason: fmt.Sprintf("gene %d = %d outside alphabet of size %d", i, g, s.Config.AlphabetSize),
			}
		}
	}
	return nil
}

// ValidationError represents a solution validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this solution can seed a run with the given config
// and environment seed.
func (s *Solution) IsCompatible(config opt.Config, envSeed int64) error {
	if s.Config.GenomeLength != config.GenomeLength {
		return &CompatibilityError{
			Field:    "GenomeLength",
			Expected: fmt.Sprintf("%d", s.Config.GenomeLength),
			Actual:   fmt.Sprintf("%d", config.GenomeLength),
		}
	}
	if s.Config.AlphabetSize != config.AlphabetSize {
		return &CompatibilityError{
			Field:    "AlphabetSize",
			Expected: fmt.Sprintf("%d", s.Config.AlphabetSize),
			Actual:   fmt.Sprintf("%d", config.AlphabetSize),
		}
	}
	if s.EnvSeed != envSeed {
		return &CompatibilityError{
			Field:    "EnvSeed",
			Expected: fmt.Sprintf("%d", s.EnvSeed),
			Actual:   fmt.Sprintf("%d", envSeed),
		}
	}
	return nil
}

// CompatibilityError represents a solution compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
