package store

import "github.com/cwbudde/mountaincarga/internal/opt"

// Store defines the interface for solution persistence operations.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return nil error on success
//   - Return ErrNotFound if the solution doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveSolution saves the best solution of a run, replacing any previous one.
	SaveSolution(runID string, solution *Solution) error

	// LoadSolution retrieves the solution for the given run.
	// Returns ErrNotFound if no solution exists for this runID.
	LoadSolution(runID string) (*Solution, error)

	// ListSolutions returns metadata for all stored solutions.
	ListSolutions() ([]SolutionInfo, error)

	// DeleteSolution removes the solution and its report history.
	// Returns ErrNotFound if no solution exists for this runID.
	DeleteSolution(runID string) error
}

// ReportStore persists the per-generation report history of a run.
type ReportStore interface {
	// SaveReports replaces the report history of a run.
	SaveReports(runID string, reports []opt.Report) error

	// LoadReports returns the report history in generation order.
	// Returns ErrNotFound if the run has no history.
	LoadReports(runID string) ([]opt.Report, error)
}

// ErrNotFound is returned when a requested solution does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing solution error.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "solution not found: " + e.RunID
	}
	return "solution not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
