package opt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Result holds the output of a run
type Result struct {
	Best        Scored     `json:"best"`
	Generations int        `json:"generations"`
	History     []Report   `json:"history"`
	Final       Population `json:"-"`
	Converged   bool       `json:"converged"`
}

// Engine drives the generational loop: elitism split, tournament selection,
// two-point crossover, mutation, re-evaluation.
//
// An Engine is single-use per Run call but may be run several times; every
// Run reseeds its random source from Config.Seed, so two runs with the same
// config and a deterministic evaluator produce identical histories.
type Engine struct {
	cfg         Config
	eval        Evaluator
	factory     EvaluatorFactory
	observer    Observer
	seeds       []Individual
	convergence ConvergenceConfig
}

// Option configures an Engine
type Option func(*Engine)

// WithObserver registers reporting hooks
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// WithEvaluatorFactory enables parallel evaluation with Config.Workers
// isolated evaluator instances.
func WithEvaluatorFactory(factory EvaluatorFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithSeedIndividuals replaces the first random individuals of generation 1
// with copies of seeds (used to resume from a stored solution).
func WithSeedIndividuals(seeds ...Individual) Option {
	return func(e *Engine) {
		e.seeds = append(e.seeds, seeds...)
	}
}

// WithConvergence enables early stopping on a stalled best fitness
func WithConvergence(cfg ConvergenceConfig) Option {
	return func(e *Engine) {
		e.convergence = cfg
	}
}

// NewEngine validates cfg and builds an engine around eval.
// eval may be nil when an EvaluatorFactory is supplied.
func NewEngine(cfg Config, eval Evaluator, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		eval:        eval,
		convergence: DisabledConvergenceConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.eval == nil && e.factory == nil {
		return nil, errors.New("an evaluator or evaluator factory is required")
	}
	if cfg.Workers > 1 && e.factory == nil {
		return nil, &ConfigError{Field: "Workers", Reason: "parallel evaluation requires an evaluator factory"}
	}
	if len(e.seeds) > cfg.PopulationSize {
		return nil, &ConfigError{Field: "Seeds", Reason: "more seed individuals than population size"}
	}
	for i, seed := range e.seeds {
		if err := checkGenome(seed, cfg); err != nil {
			return nil, fmt.Errorf("seed individual %d: %w", i, err)
		}
	}

	return e, nil
}

// Config returns the validated configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Run executes the evolution until MaxGenerations (or convergence).
//
// ctx is only checked between generations. Any evaluator error aborts the run.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	cfg := e.cfg
	rng := rand.New(rand.NewSource(cfg.Seed))
	indpb := cfg.Indpb()

	evals, err := e.evaluators()
	if err != nil {
		return nil, err
	}

	slog.Info("Starting evolution",
		"population_size", cfg.PopulationSize,
		"genome_length", cfg.GenomeLength,
		"hall_of_fame", cfg.HallOfFameSize,
		"max_generations", cfg.MaxGenerations,
		"seed", cfg.Seed,
		"workers", len(evals),
	)
	start := time.Now()

	individuals := NewPopulation(rng, cfg.PopulationSize, cfg.GenomeLength, cfg.AlphabetSize)
	for i, seed := range e.seeds {
		individuals[i] = seed.Clone()
	}

	pop, err := evaluatePopulation(evals, 1, individuals)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	e.report(result, NewReport(1, pop))

	tracker := NewConvergenceTracker(e.convergence)
	tracker.Update(result.History[0].MinFitness)

	var elites Population
	gen := 1
	for gen < cfg.MaxGenerations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run interrupted after generation %d: %w", gen, err)
		}
		gen++

		var rest Population
		elites, rest, err = SplitElites(pop, cfg.HallOfFameSize)
		if err != nil {
			return nil, err
		}

		selected, err := TournamentSelect(rng, rest, cfg.TournamentSize)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}

		offspring := Recombine(rng, selected, cfg.CrossoverProb)
		offspring = MutatePopulation(rng, offspring, cfg.MutationProb, indpb, cfg.AlphabetSize)

		next := append(offspring, elites.Individuals()...)

		pop, err = evaluatePopulation(evals, gen, next)
		if err != nil {
			return nil, err
		}

		report := NewReport(gen, pop)
		e.report(result, report)

		if cfg.ReplayFrequency > 0 && gen%cfg.ReplayFrequency == 0 && e.observer != nil {
			e.observer.OnReplay(gen, elites[0])
		}

		if tracker.Update(report.MinFitness) {
			result.Converged = true
			break
		}
	}

	if elites == nil {
		// Single generation: nothing was archived yet
		elites, _, err = SplitElites(pop, cfg.HallOfFameSize)
		if err != nil {
			return nil, err
		}
	}

	result.Best = Scored{Individual: elites[0].Individual.Clone(), Fitness: elites[0].Fitness}
	result.Generations = gen
	result.Final = pop

	slog.Info("Evolution complete",
		"generations", gen,
		"best_fitness", result.Best.Fitness,
		"converged", result.Converged,
		"elapsed", time.Since(start),
	)

	return result, nil
}

func (e *Engine) report(result *Result, report Report) {
	result.History = append(result.History, report)

	slog.Debug("Generation evaluated",
		"generation", report.Generation,
		"population_size", report.PopulationSize,
		"min_fitness", report.MinFitness,
		"mean_fitness", report.MeanFitness,
	)

	if e.observer != nil {
		e.observer.OnGeneration(report)
	}
}

// evaluators returns one evaluator per worker
func (e *Engine) evaluators() ([]Evaluator, error) {
	if e.factory == nil {
		return []Evaluator{e.eval}, nil
	}

	workers := max(e.cfg.Workers, 1)
	evals := make([]Evaluator, workers)
	for i := range evals {
		ev, err := e.factory()
		if err != nil {
			return nil, fmt.Errorf("create evaluator %d: %w", i, err)
		}
		evals[i] = ev
	}
	return evals, nil
}

func checkGenome(ind Individual, cfg Config) error {
	if len(ind) != cfg.GenomeLength {
		return fmt.Errorf("genome length %d, expected %d", len(ind), cfg.GenomeLength)
	}
	for i, g := range ind {
		if g < 0 || int(g) >= cfg.AlphabetSize {
			return fmt.Errorf("gene %d out of alphabet: %d", i, g)
		}
	}
	return nil
}
