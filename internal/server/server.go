package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cwbudde/mountaincarga/internal/opt"
	"github.com/cwbudde/mountaincarga/internal/store"
)

// Server represents the HTTP server
type Server struct {
	jobManager *JobManager
	store      store.Persistence
	defaults   JobConfig
	addr       string
	server     *http.Server

	baseCtx    context.Context
	cancelJobs context.CancelFunc
}

// NewServer creates a new HTTP server. st may be nil, in which case
// results only live in memory.
func NewServer(addr string, st store.Persistence) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		jobManager: NewJobManager(),
		store:      st,
		defaults:   DefaultJobConfig(),
		addr:       addr,
		baseCtx:    ctx,
		cancelJobs: cancel,
	}
}

// DefaultJobConfig returns the settings applied to fields a job request omits
func DefaultJobConfig() JobConfig {
	return JobConfig{
		GA:                 opt.DefaultConfig(),
		Convergence:        opt.DisabledConvergenceConfig(),
		EnvSeed:            42,
		CheckpointInterval: 10,
	}
}

// SetDefaults replaces the settings applied to fields a job request omits
func (s *Server) SetDefaults(defaults JobConfig) {
	s.defaults = defaults
}

// Handler returns the routed handler with middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)

	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)
	mux.HandleFunc("/api/v1/solutions", s.handleListSolutions)

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown cancels running jobs and gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	s.cancelJobs()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleJobs handles /api/v1/jobs
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobsWithID handles /api/v1/jobs/:id/*
func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	if len(parts) == 1 && r.Method == http.MethodDelete {
		s.handleCancelJob(w, r, jobID)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if len(parts) == 1 || parts[1] == "status" {
		s.handleGetJobStatus(w, r, jobID)
	} else if parts[1] == "best" {
		s.handleGetBest(w, r, jobID)
	} else if parts[1] == "history" {
		s.handleGetHistory(w, r, jobID)
	} else if parts[1] == "stream" {
		s.handleJobStream(w, r, jobID)
	} else {
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateJob handles POST /api/v1/jobs.
// Omitted fields take the server defaults.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	config := s.defaults
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if err := config.GA.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if config.CheckpointInterval < 0 {
		http.Error(w, "checkpointInterval cannot be negative", http.StatusBadRequest)
		return
	}

	job := s.jobManager.CreateJob(config)

	ctx, err := s.jobManager.Start(s.baseCtx, job.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	go runJob(ctx, s.jobManager, s.store, job.ID)

	writeJSON(w, http.StatusCreated, job)
}

// handleListJobs handles GET /api/v1/jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jobManager.ListJobs())
}

// handleGetJobStatus handles GET /api/v1/jobs/:id/status
func (s *Server) handleGetJobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	gps := float64(0)
	if elapsed.Seconds() > 0 {
		gps = float64(job.Generation) / elapsed.Seconds()
	}

	response := map[string]interface{}{
		"id":                   job.ID,
		"state":                job.State,
		"config":               job.Config,
		"bestFitness":          job.BestFitness,
		"initialFitness":       job.InitialFitness,
		"generation":           job.Generation,
		"lastReport":           job.LastReport,
		"converged":            job.Converged,
		"elapsed":              elapsed.Seconds(),
		"generationsPerSecond": gps,
		"startTime":            job.StartTime,
		"endTime":              job.EndTime,
		"error":                job.Error,
	}

	writeJSON(w, http.StatusOK, response)
}

// BestResponse is the body of GET /api/v1/jobs/:id/best
type BestResponse struct {
	JobID      string  `json:"jobId"`
	Fitness    float64 `json:"fitness"`
	Solved     bool    `json:"solved"`
	Generation int     `json:"generation"`
	EnvSeed    int64   `json:"envSeed"`
	Actions    []int   `json:"actions"`
}

// handleGetBest handles GET /api/v1/jobs/:id/best.
// Finished jobs of earlier server runs are served from the store.
func (s *Server) handleGetBest(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if exists && len(job.BestActions) > 0 {
		writeJSON(w, http.StatusOK, BestResponse{
			JobID:      job.ID,
			Fitness:    job.BestFitness,
			Solved:     job.BestFitness < 0,
			Generation: job.Generation,
			EnvSeed:    job.Config.EnvSeed,
			Actions:    job.BestActions,
		})
		return
	}

	if s.store != nil {
		solution, err := s.store.LoadSolution(jobID)
		if err == nil {
			writeJSON(w, http.StatusOK, BestResponse{
				JobID:      solution.RunID,
				Fitness:    solution.Fitness,
				Solved:     solution.Solved(),
				Generation: solution.Generation,
				EnvSeed:    solution.EnvSeed,
				Actions:    solution.Genes,
			})
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Failed to load solution: %v", err), http.StatusInternalServerError)
			return
		}
	}

	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	http.Error(w, "No results yet", http.StatusNotFound)
}

// handleGetHistory handles GET /api/v1/jobs/:id/history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request, jobID string) {
	if job, exists := s.jobManager.GetJob(jobID); exists {
		history := job.History
		if history == nil {
			history = []opt.Report{}
		}
		writeJSON(w, http.StatusOK, history)
		return
	}

	if s.store != nil {
		reports, err := s.store.LoadReports(jobID)
		if err == nil {
			writeJSON(w, http.StatusOK, reports)
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Failed to load history: %v", err), http.StatusInternalServerError)
			return
		}
	}

	http.Error(w, "Job not found", http.StatusNotFound)
}

// handleCancelJob handles DELETE /api/v1/jobs/:id
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if _, exists := s.jobManager.GetJob(jobID); !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	if err := s.jobManager.Cancel(jobID); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// handleListSolutions handles GET /api/v1/solutions
func (s *Server) handleListSolutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusOK, []store.SolutionInfo{})
		return
	}

	infos, err := s.store.ListSolutions()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list solutions: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
