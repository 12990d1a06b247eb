package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/mountaincarga/internal/config"
	"github.com/cwbudde/mountaincarga/internal/opt"
	"github.com/cwbudde/mountaincarga/internal/store"
)

var resumeFlags gaFlags

var resumeCmd = &cobra.Command{
	Use:   "resume <run-id>",
	Short: "Continue evolving from a stored solution",
	Long: `Starts a new run whose first generation contains the stored best
individual of <run-id>. The stored engine settings and environment seed are
reused unless overridden by flags. The result is saved under a new run ID.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeFlags.register(resumeCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	fromID := args[0]

	base, err := resumeFlags.apply(cmd, loadedConfig())
	if err != nil {
		return err
	}

	solution, err := loadSolution(base.Store.Backend, base.Store.DataDir, fromID)
	if err != nil {
		return err
	}

	cfg, err := resumeConfig(cmd, base, solution)
	if err != nil {
		return err
	}
	if err := solution.IsCompatible(cfg.GA, cfg.Environment.Seed); err != nil {
		return fmt.Errorf("cannot resume %s: %w", fromID, err)
	}

	runID := uuid.NewString()
	slog.Info("Resuming run",
		"from_run_id", fromID,
		"run_id", runID,
		"stored_fitness", solution.Fitness,
		"stored_generation", solution.Generation,
	)

	return executeRun(cmd, cfg, runID, []opt.Individual{solution.Individual()}, !resumeFlags.noSave)
}

// resumeConfig starts from the stored run's engine settings and reapplies
// the explicitly set flags on top.
func resumeConfig(cmd *cobra.Command, base *config.Config, solution *store.Solution) (*config.Config, error) {
	stored := *base
	stored.GA = solution.Config
	stored.Environment.Seed = solution.EnvSeed
	return resumeFlags.apply(cmd, &stored)
}

// loadSolution opens the store only for the duration of the read
func loadSolution(backend, dataDir, runID string) (*store.Solution, error) {
	st, err := store.NewStore(backend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer store.CloseIfSupported(st)

	solution, err := st.LoadSolution(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return solution, nil
}
