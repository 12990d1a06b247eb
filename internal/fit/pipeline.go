package fit

import (
	"context"
	"log/slog"

	"github.com/cwbudde/mountaincarga/internal/opt"
)

// OptimizationResult holds the output of an optimization run
type OptimizationResult struct {
	BestActions    []int
	BestFitness    float64
	InitialFitness float64
	Generations    int
	Converged      bool
	History        []opt.Report
}

// RunOptions configures Optimize beyond the engine config
type RunOptions struct {
	// EnvSeed seeds every environment reset
	EnvSeed int64

	Observer    opt.Observer
	Seeds       []opt.Individual
	Convergence opt.ConvergenceConfig
}

// Optimize evolves action sequences for the mountain car.
// With cfg.Workers > 1 each worker scores on its own environment.
func Optimize(ctx context.Context, cfg opt.Config, ro RunOptions) (*OptimizationResult, error) {
	slog.Info("Starting mountain car optimization",
		"genome_length", cfg.GenomeLength,
		"env_seed", ro.EnvSeed,
		"workers", cfg.Workers,
	)

	opts := []opt.Option{opt.WithConvergence(ro.Convergence)}
	if ro.Observer != nil {
		opts = append(opts, opt.WithObserver(ro.Observer))
	}
	if len(ro.Seeds) > 0 {
		opts = append(opts, opt.WithSeedIndividuals(ro.Seeds...))
	}

	var eval opt.Evaluator
	if cfg.Workers > 1 {
		opts = append(opts, opt.WithEvaluatorFactory(ScorerFactory(ro.EnvSeed)))
	} else {
		eval = NewScorer(ro.EnvSeed)
	}

	engine, err := opt.NewEngine(cfg, eval, opts...)
	if err != nil {
		return nil, err
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return nil, err
	}

	out := &OptimizationResult{
		BestActions: result.Best.Individual.Ints(),
		BestFitness: result.Best.Fitness,
		Generations: result.Generations,
		Converged:   result.Converged,
		History:     result.History,
	}
	if len(result.History) > 0 {
		out.InitialFitness = result.History[0].MinFitness
	}

	slog.Info("Mountain car optimization complete",
		"initial_fitness", out.InitialFitness,
		"best_fitness", out.BestFitness,
		"generations", out.Generations,
	)

	return out, nil
}
