package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/mountaincarga/internal/fit"
	"github.com/cwbudde/mountaincarga/internal/opt"
	"github.com/cwbudde/mountaincarga/internal/store"
)

// progressInterval throttles SSE progress events
const progressInterval = 500 * time.Millisecond

// runJob executes an optimization job in the background.
// If st is not nil the best solution and the report history are saved when
// the job completes, and every CheckpointInterval generations while it runs.
func runJob(ctx context.Context, jm *JobManager, st store.Persistence, jobID string) error {
	defer jm.finish(jobID)

	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	var alreadyCancelled bool
	err := jm.UpdateJob(jobID, func(j *Job) {
		if j.State == StateCancelled {
			alreadyCancelled = true
			return
		}
		j.State = StateRunning
	})
	if err != nil {
		return err
	}
	if alreadyCancelled {
		return context.Canceled
	}

	cfg := job.Config.GA
	// In the service the periodic best snapshot is a checkpoint, not a replay
	cfg.ReplayFrequency = job.Config.CheckpointInterval
	if st == nil {
		cfg.ReplayFrequency = 0
	}

	slog.Info("Starting job",
		"job_id", jobID,
		"population_size", cfg.PopulationSize,
		"max_generations", cfg.MaxGenerations,
		"env_seed", job.Config.EnvSeed,
	)

	seeds, err := resumeSeeds(st, job.Config)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	observer := &jobObserver{jm: jm, st: st, jobID: jobID, config: job.Config}

	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, progressDone)

	start := time.Now()
	result, err := fit.Optimize(ctx, cfg, fit.RunOptions{
		EnvSeed:     job.Config.EnvSeed,
		Observer:    observer,
		Seeds:       seeds,
		Convergence: job.Config.Convergence,
	})
	close(progressDone)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			markJobCancelled(jm, jobID)
		} else {
			markJobFailed(jm, jobID, err)
		}
		broadcastState(jm, jobID)
		jm.broadcaster.CloseJob(jobID)
		return err
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.BestActions = result.BestActions
		j.BestFitness = result.BestFitness
		j.InitialFitness = result.InitialFitness
		j.Generation = result.Generations
		j.Converged = result.Converged
		j.History = result.History
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	if st != nil {
		solution := store.NewSolution(jobID, result.BestActions, result.BestFitness, result.InitialFitness,
			result.Generations, job.Config.EnvSeed, job.Config.GA)
		if err := st.SaveSolution(jobID, solution); err != nil {
			slog.Error("Failed to save solution", "job_id", jobID, "error", err)
		}
		if err := st.SaveReports(jobID, result.History); err != nil {
			slog.Error("Failed to save report history", "job_id", jobID, "error", err)
		}
	}

	evals := float64(result.Generations * cfg.PopulationSize)
	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"initial_fitness", result.InitialFitness,
		"best_fitness", result.BestFitness,
		"generations", result.Generations,
		"evaluations_per_second", evals/elapsed.Seconds(),
	)

	broadcastState(jm, jobID)
	jm.broadcaster.CloseJob(jobID)
	return nil
}

// resumeSeeds loads the stored solution a job resumes from
func resumeSeeds(st store.Persistence, config JobConfig) ([]opt.Individual, error) {
	if config.ResumeFrom == "" {
		return nil, nil
	}
	if st == nil {
		return nil, fmt.Errorf("resume from %s: no store configured", config.ResumeFrom)
	}

	solution, err := st.LoadSolution(config.ResumeFrom)
	if err != nil {
		return nil, fmt.Errorf("resume from %s: %w", config.ResumeFrom, err)
	}
	if err := solution.IsCompatible(config.GA, config.EnvSeed); err != nil {
		return nil, fmt.Errorf("resume from %s: %w", config.ResumeFrom, err)
	}
	return []opt.Individual{solution.Individual()}, nil
}

// jobObserver mirrors engine progress into the job record
type jobObserver struct {
	jm     *JobManager
	st     store.Persistence
	jobID  string
	config JobConfig
}

func (o *jobObserver) OnGeneration(report opt.Report) {
	o.jm.UpdateJob(o.jobID, func(j *Job) {
		if report.Generation == 1 {
			j.InitialFitness = report.MinFitness
		}
		j.Generation = report.Generation
		j.BestFitness = report.MinFitness
		r := report
		j.LastReport = &r
		j.History = append(j.History, report)
	})
}

// OnReplay receives the archived best every CheckpointInterval generations
func (o *jobObserver) OnReplay(generation int, best opt.Scored) {
	if err := saveCheckpoint(o.jm, o.st, o.jobID, best); err != nil {
		slog.Error("Failed to save checkpoint", "job_id", o.jobID, "generation", generation, "error", err)
	}
}

// saveCheckpoint saves best as the job's solution along with its history
func saveCheckpoint(jm *JobManager, st store.Persistence, jobID string, best opt.Scored) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if len(best.Individual) == 0 {
		slog.Debug("Skipping checkpoint, no best individual yet", "job_id", jobID)
		return nil
	}

	solution := store.NewSolution(jobID, best.Individual.Ints(), best.Fitness, job.InitialFitness,
		job.Generation, job.Config.EnvSeed, job.Config.GA)
	if err := st.SaveSolution(jobID, solution); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	if err := st.SaveReports(jobID, job.History); err != nil {
		slog.Warn("Failed to save checkpoint history", "job_id", jobID, "error", err)
	}

	slog.Info("Checkpoint saved",
		"job_id", jobID,
		"generation", job.Generation,
		"best_fitness", best.Fitness,
	)
	return nil
}

// monitorProgress periodically broadcasts progress events during optimization
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, done chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !broadcastState(jm, jobID) {
				return
			}
		}
	}
}

// broadcastState sends the job's current state to stream subscribers
func broadcastState(jm *JobManager, jobID string) bool {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return false
	}
	jm.broadcaster.Broadcast(newProgressEvent(job))
	return true
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
