package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/mountaincarga/internal/config"
	"github.com/cwbudde/mountaincarga/internal/fit"
)

var (
	replayDataDir string
	replayStore   string
	replayBackend string
	replayDelay   time.Duration
)

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Replay a stored solution",
	Long:  `Loads the stored best action sequence of <run-id> and replays it under the environment seed it was scored with.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	defaults := config.Default()
	replayCmd.Flags().StringVar(&replayDataDir, "data-dir", defaults.Store.DataDir, "Base directory for stored solutions")
	replayCmd.Flags().StringVar(&replayStore, "store", defaults.Store.Backend, "Store backend (fs, sqlite)")
	replayCmd.Flags().StringVar(&replayBackend, "replay", defaults.Environment.ReplayBackend, "Replay backend (terminal, log, none)")
	replayCmd.Flags().DurationVar(&replayDelay, "replay-delay", defaults.Environment.ReplayDelay(), "Pause between replayed steps")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg := *loadedConfig()
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Store.DataDir = replayDataDir
	}
	if flags.Changed("store") {
		cfg.Store.Backend = replayStore
	}
	if flags.Changed("replay") {
		cfg.Environment.ReplayBackend = replayBackend
	}
	delay := cfg.Environment.ReplayDelay()
	if flags.Changed("replay-delay") {
		delay = replayDelay
	}

	solution, err := loadSolution(cfg.Store.Backend, cfg.Store.DataDir, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r := newReplayer(ctx, cfg.Environment.ReplayBackend, solution.EnvSeed, delay)
	if err := r.replay(solution.Genes); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	env := fit.NewMountainCar()
	score, err := fit.Score(env, solution.EnvSeed, solution.Genes)
	if err != nil {
		return fmt.Errorf("failed to score solution: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Run %s: stored fitness %.4f, replayed fitness %s\n",
		solution.RunID, solution.Fitness, describeFitness(score))
	return nil
}
