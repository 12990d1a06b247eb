package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/mountaincarga/internal/opt"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// Terminal reports whether the job has stopped
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// JobConfig is the request body of POST /api/v1/jobs
type JobConfig struct {
	GA          opt.Config            `json:"ga"`
	Convergence opt.ConvergenceConfig `json:"convergence"`

	// EnvSeed seeds every environment reset
	EnvSeed int64 `json:"envSeed"`

	// CheckpointInterval saves the running best every N generations (0 = only at the end)
	CheckpointInterval int `json:"checkpointInterval,omitempty"`

	// ResumeFrom seeds generation 1 with the stored solution of that run
	ResumeFrom string `json:"resumeFrom,omitempty"`
}

// Job represents an optimization job
type Job struct {
	ID             string       `json:"id"`
	State          JobState     `json:"state"`
	Config         JobConfig    `json:"config"`
	BestActions    []int        `json:"bestActions,omitempty"`
	BestFitness    float64      `json:"bestFitness"`
	InitialFitness float64      `json:"initialFitness"`
	Generation     int          `json:"generation"`
	LastReport     *opt.Report  `json:"lastReport,omitempty"`
	Converged      bool         `json:"converged"`
	StartTime      time.Time    `json:"startTime"`
	EndTime        *time.Time   `json:"endTime,omitempty"`
	Error          string       `json:"error,omitempty"`
	History        []opt.Report `json:"-"`
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	cancels     map[string]context.CancelFunc
	broadcaster *EventBroadcaster
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		cancels:     make(map[string]context.CancelFunc),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob creates a new job with the given configuration
func (jm *JobManager) CreateJob(config JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	return job.snapshot()
}

// GetJob returns a snapshot of the job
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return nil, false
	}
	return job.snapshot(), true
}

// ListJobs returns snapshots of all jobs, oldest first
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, job.snapshot())
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartTime.Before(jobs[j].StartTime)
	})
	return jobs
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// GetRunningJobs returns all jobs currently in the running state
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	runningJobs := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			runningJobs = append(runningJobs, job.snapshot())
		}
	}
	return runningJobs
}

// Start derives a cancellable context for the job and remembers its cancel func
func (jm *JobManager) Start(parent context.Context, id string) (context.Context, error) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if _, exists := jm.jobs[id]; !exists {
		return nil, fmt.Errorf("job not found: %s", id)
	}

	ctx, cancel := context.WithCancel(parent)
	jm.cancels[id] = cancel
	return ctx, nil
}

// Cancel stops a pending or running job. The engine observes the
// cancellation at its next generation boundary.
func (jm *JobManager) Cancel(id string) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	if job.State.Terminal() {
		return fmt.Errorf("job %s already %s", id, job.State)
	}

	if cancel, ok := jm.cancels[id]; ok {
		cancel()
		return nil
	}

	// Not started yet
	endTime := time.Now()
	job.State = StateCancelled
	job.EndTime = &endTime
	return nil
}

// finish releases the job's cancel func
func (jm *JobManager) finish(id string) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if cancel, ok := jm.cancels[id]; ok {
		cancel()
		delete(jm.cancels, id)
	}
}

// CancelAll stops every job that is still running
func (jm *JobManager) CancelAll() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	for _, cancel := range jm.cancels {
		cancel()
	}
}

func (j *Job) snapshot() *Job {
	cp := *j
	cp.BestActions = append([]int(nil), j.BestActions...)
	cp.History = append([]opt.Report(nil), j.History...)
	if j.LastReport != nil {
		r := *j.LastReport
		cp.LastReport = &r
	}
	if j.EndTime != nil {
		t := *j.EndTime
		cp.EndTime = &t
	}
	return &cp
}
