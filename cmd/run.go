package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/mountaincarga/internal/config"
	"github.com/cwbudde/mountaincarga/internal/fit"
	"github.com/cwbudde/mountaincarga/internal/opt"
	"github.com/cwbudde/mountaincarga/internal/store"
)

var runFlags gaFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evolve an action sequence for the mountain car",
	Long: `Runs the genetic algorithm, prints one statistics row per generation,
replays the best individual every --replay-every generations and stores the
final best solution under a new run ID.`,
	Args: cobra.NoArgs,
	RunE: runOptimization,
}

func init() {
	runFlags.register(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {
	cfg, err := runFlags.apply(cmd, loadedConfig())
	if err != nil {
		return err
	}
	return executeRun(cmd, cfg, uuid.NewString(), nil, !runFlags.noSave)
}

// loadedConfig returns the config loaded by the root command, or the
// defaults when the root hook did not run.
func loadedConfig() *config.Config {
	if appConfig == nil {
		return config.Default()
	}
	return appConfig
}

// executeRun runs the engine with the console reporter and persists the
// best solution under runID when save is set.
func executeRun(cmd *cobra.Command, cfg *config.Config, runID string, seeds []opt.Individual, save bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Persistence
	if save {
		var err error
		st, err = store.NewStore(cfg.Store.Backend, cfg.Store.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.CloseIfSupported(st)
	}

	replays := newReplayer(ctx, cfg.Environment.ReplayBackend, cfg.Environment.Seed, cfg.Environment.ReplayDelay())
	reporter := newConsoleReporter(cmd.OutOrStdout(), replays)

	slog.Info("Starting run",
		"run_id", runID,
		"population_size", cfg.GA.PopulationSize,
		"max_generations", cfg.GA.MaxGenerations,
		"seed", cfg.GA.Seed,
		"env_seed", cfg.Environment.Seed,
		"seeded", len(seeds),
	)

	start := time.Now()
	result, err := fit.Optimize(ctx, cfg.GA, fit.RunOptions{
		EnvSeed:     cfg.Environment.Seed,
		Observer:    reporter,
		Seeds:       seeds,
		Convergence: cfg.Convergence,
	})
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(cmd.OutOrStdout(), "\nBest fitness: %s after %d generations (%s)\n",
		describeFitness(result.BestFitness), result.Generations, elapsed.Round(time.Millisecond))

	if st != nil {
		if err := saveRun(st, runID, cfg, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved as run %s\n", runID)
	}

	replays.play(result.BestActions)
	return nil
}

func saveRun(st store.Persistence, runID string, cfg *config.Config, result *fit.OptimizationResult) error {
	solution := store.NewSolution(runID, result.BestActions, result.BestFitness,
		result.InitialFitness, result.Generations, cfg.Environment.Seed, cfg.GA)
	if err := st.SaveSolution(runID, solution); err != nil {
		return fmt.Errorf("failed to save solution: %w", err)
	}
	if err := st.SaveReports(runID, result.History); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	slog.Info("Solution saved", "run_id", runID, "fitness", result.BestFitness)
	return nil
}

// describeFitness marks scores that reached the flag
func describeFitness(fitness float64) string {
	if fitness < 0 {
		return fmt.Sprintf("%.4f (reached the flag)", fitness)
	}
	return fmt.Sprintf("%.4f (distance to the flag)", fitness)
}
