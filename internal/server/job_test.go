package server

import (
	"context"
	"testing"
	"time"

	"github.com/cwbudde/mountaincarga/internal/opt"
)

func testJobConfig() JobConfig {
	cfg := DefaultJobConfig()
	cfg.GA.PopulationSize = 20
	cfg.GA.MaxGenerations = 5
	cfg.CheckpointInterval = 2
	return cfg
}

func TestJobManager_CreateJob(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testJobConfig())

	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}
	if job.State != StatePending {
		t.Errorf("Initial state should be pending, got %s", job.State)
	}
	if job.Config.GA.PopulationSize != 20 {
		t.Errorf("Config not set correctly")
	}
}

func TestJobManager_GetJob(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	retrieved, exists := jm.GetJob(job.ID)
	if !exists {
		t.Error("Job should exist")
	}
	if retrieved.ID != job.ID {
		t.Error("Retrieved wrong job")
	}

	_, exists = jm.GetJob("nonexistent")
	if exists {
		t.Error("Should not find nonexistent job")
	}
}

func TestJobManager_GetJobReturnsSnapshot(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	jm.UpdateJob(job.ID, func(j *Job) {
		j.BestActions = []int{0, 1, 2}
		j.History = []opt.Report{{Generation: 1}}
	})

	snap, _ := jm.GetJob(job.ID)
	snap.BestActions[0] = 2
	snap.History[0].Generation = 99

	again, _ := jm.GetJob(job.ID)
	if again.BestActions[0] != 0 || again.History[0].Generation != 1 {
		t.Error("Mutating a snapshot should not change the stored job")
	}
}

func TestJobManager_ListJobs(t *testing.T) {
	jm := NewJobManager()

	if len(jm.ListJobs()) != 0 {
		t.Error("Should start with no jobs")
	}

	first := jm.CreateJob(testJobConfig())
	time.Sleep(time.Millisecond)
	jm.CreateJob(testJobConfig())

	jobs := jm.ListJobs()
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != first.ID {
		t.Error("Jobs should be listed oldest first")
	}
}

func TestJobManager_UpdateJob(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	err := jm.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
		j.Generation = 10
		j.BestFitness = 0.25
	})
	if err != nil {
		t.Errorf("Update should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateRunning {
		t.Error("State should be updated")
	}
	if updated.Generation != 10 {
		t.Error("Generation should be updated")
	}
	if updated.BestFitness != 0.25 {
		t.Error("BestFitness should be updated")
	}
	if len(jm.GetRunningJobs()) != 1 {
		t.Error("Expected one running job")
	}

	err = jm.UpdateJob("nonexistent", func(j *Job) {})
	if err == nil {
		t.Error("Update of nonexistent job should fail")
	}
}

func TestJobManager_CancelPending(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	if err := jm.Cancel(job.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	cancelled, _ := jm.GetJob(job.ID)
	if cancelled.State != StateCancelled || cancelled.EndTime == nil {
		t.Errorf("Expected cancelled job with end time, got %+v", cancelled)
	}

	if err := jm.Cancel(job.ID); err == nil {
		t.Error("Cancelling a finished job should fail")
	}
	if err := jm.Cancel("nonexistent"); err == nil {
		t.Error("Cancelling a nonexistent job should fail")
	}
}

func TestJobManager_CancelStarted(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	ctx, err := jm.Start(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	jm.UpdateJob(job.ID, func(j *Job) { j.State = StateRunning })

	if err := jm.Cancel(job.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Job context was not cancelled")
	}
}

func TestJobManager_ThreadSafety(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(generation int) {
			jm.UpdateJob(job.ID, func(j *Job) {
				j.Generation = generation
				j.History = append(j.History, opt.Report{Generation: generation})
			})
			jm.GetJob(job.ID)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	final, exists := jm.GetJob(job.ID)
	if !exists {
		t.Fatal("Job should still exist after concurrent updates")
	}
	if len(final.History) != 10 {
		t.Errorf("Expected 10 history entries, got %d", len(final.History))
	}
}
