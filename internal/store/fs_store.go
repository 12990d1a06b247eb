package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cwbudde/mountaincarga/internal/opt"
)

// FSStore implements Store and ReportStore on the filesystem.
// Runs are stored in a directory structure: <baseDir>/runs/<runID>/
//
//	solution.json  best solution (atomic temp file + rename)
//	trace.jsonl    one opt.Report per generation
type FSStore struct {
	baseDir string
}

// NewFSStore creates a new filesystem-based store.
// The baseDir will be created if it doesn't exist.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FSStore{
		baseDir: baseDir,
	}, nil
}

// BaseDir returns the root directory of the store.
func (fs *FSStore) BaseDir() string {
	return fs.baseDir
}

func runDir(baseDir, runID string) string {
	return filepath.Join(baseDir, "runs", runID)
}

func (fs *FSStore) solutionPath(runID string) string {
	return filepath.Join(runDir(fs.baseDir, runID), "solution.json")
}

// SaveSolution atomically saves the solution for the given run.
func (fs *FSStore) SaveSolution(runID string, solution *Solution) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}
	if solution == nil {
		return fmt.Errorf("solution cannot be nil")
	}
	if err := solution.Validate(); err != nil {
		return fmt.Errorf("invalid solution: %w", err)
	}

	if err := os.MkdirAll(runDir(fs.baseDir, runID), 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(solution, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize solution: %w", err)
	}

	finalPath := fs.solutionPath(runID)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp solution file: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename solution file: %w", err)
	}

	slog.Debug("Solution saved", "run_id", runID, "path", finalPath)
	return nil
}

// LoadSolution retrieves the solution for the given run.
func (fs *FSStore) LoadSolution(runID string) (*Solution, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}

	path := fs.solutionPath(runID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{RunID: runID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read solution file: %w", err)
	}

	var solution Solution
	if err := json.Unmarshal(data, &solution); err != nil {
		return nil, fmt.Errorf("failed to deserialize solution: %w", err)
	}

	slog.Debug("Solution loaded", "run_id", runID, "path", path)
	return &solution, nil
}

// ListSolutions returns metadata for all stored solutions.
func (fs *FSStore) ListSolutions() ([]SolutionInfo, error) {
	runsDir := filepath.Join(fs.baseDir, "runs")

	entries, err := os.ReadDir(runsDir)
	if os.IsNotExist(err) {
		return []SolutionInfo{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	infos := []SolutionInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		runID := entry.Name()
		if _, err := os.Stat(fs.solutionPath(runID)); os.IsNotExist(err) {
			continue
		}

		solution, err := fs.LoadSolution(runID)
		if err != nil {
			slog.Warn("Failed to load solution for listing", "run_id", runID, "error", err)
			continue
		}

		infos = append(infos, solution.ToInfo())
	}

	slog.Debug("Listed solutions", "count", len(infos))
	return infos, nil
}

// DeleteSolution removes the run directory and all its artifacts.
func (fs *FSStore) DeleteSolution(runID string) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	dir := runDir(fs.baseDir, runID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{RunID: runID}
	} else if err != nil {
		return fmt.Errorf("failed to stat run directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove run directory: %w", err)
	}

	slog.Debug("Solution deleted", "run_id", runID, "path", dir)
	return nil
}

// SaveReports rewrites the run's trace.jsonl with reports.
func (fs *FSStore) SaveReports(runID string, reports []opt.Report) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	tw, err := NewTraceWriter(fs.baseDir, runID, false)
	if err != nil {
		return err
	}

	for _, r := range reports {
		if err := tw.Write(NewTraceEntry(r)); err != nil {
			tw.Close()
			return err
		}
	}
	return tw.Close()
}

// LoadReports reads the run's trace.jsonl.
func (fs *FSStore) LoadReports(runID string) ([]opt.Report, error) {
	tr, err := NewTraceReader(fs.baseDir, runID)
	if err != nil {
		return nil, err
	}
	defer tr.Close()

	entries, err := tr.ReadAll()
	if err != nil {
		return nil, err
	}

	reports := make([]opt.Report, len(entries))
	for i, e := range entries {
		reports[i] = e.Report
	}
	return reports, nil
}
