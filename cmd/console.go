package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/mountaincarga/internal/fit"
	"github.com/cwbudde/mountaincarga/internal/fit/renderer"
	"github.com/cwbudde/mountaincarga/internal/opt"
)

// consoleReporter prints one table row per generation and replays the
// archived best when the engine asks for it.
type consoleReporter struct {
	w       *tabwriter.Writer
	header  bool
	replays *replayer
}

func newConsoleReporter(out io.Writer, replays *replayer) *consoleReporter {
	return &consoleReporter{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		replays: replays,
	}
}

func (c *consoleReporter) OnGeneration(report opt.Report) {
	if !c.header {
		fmt.Fprintln(c.w, "gen\tpopulation_size\tmin_fitness\tavg_fitness\tstd_dev")
		c.header = true
	}
	fmt.Fprintf(c.w, "%d\t%d\t%.6f\t%.6f\t%.6f\n",
		report.Generation,
		report.PopulationSize,
		report.MinFitness,
		report.MeanFitness,
		report.StdDev,
	)
	c.w.Flush()
}

func (c *consoleReporter) OnReplay(generation int, best opt.Scored) {
	if c.replays == nil {
		return
	}
	slog.Info("Replaying best individual", "generation", generation, "fitness", best.Fitness)
	c.replays.play(best.Individual.Ints())
}

// replayer opens a fresh renderer for every replay. A backend that cannot
// be opened disables further replays instead of failing the run.
type replayer struct {
	ctx      context.Context
	backend  string
	envSeed  int64
	delay    time.Duration
	disabled bool
}

func newReplayer(ctx context.Context, backend string, envSeed int64, delay time.Duration) *replayer {
	return &replayer{
		ctx:      ctx,
		backend:  backend,
		envSeed:  envSeed,
		delay:    delay,
		disabled: renderer.NormalizeBackend(backend) == renderer.BackendNone,
	}
}

func (r *replayer) play(actions []int) {
	if r == nil || r.disabled {
		return
	}
	if err := r.replay(actions); err != nil {
		if errors.Is(err, renderer.ErrBackendUnavailable) {
			slog.Warn("Replay disabled", "backend", r.backend, "error", err)
			r.disabled = true
			return
		}
		slog.Warn("Replay failed", "error", err)
	}
}

func (r *replayer) replay(actions []int) error {
	frames, err := renderer.NewForBackend(r.backend)
	if err != nil {
		return err
	}
	defer frames.Close()

	env := fit.NewMountainCar()
	defer env.Close()

	steps, err := fit.Replay(r.ctx, env, r.envSeed, actions, frames, r.delay)
	if err != nil {
		return err
	}
	slog.Debug("Replay complete", "steps", steps)
	return nil
}
