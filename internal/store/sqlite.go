package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/mountaincarga/internal/opt"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store and ReportStore on a single SQLite file.
// Solutions are stored as JSON payloads next to indexed summary columns;
// report history is stored one row per generation.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore creates a store for the database at path. Call Init before use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema if needed.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

// SaveSolution implements Store.
func (s *SQLiteStore) SaveSolution(runID string, solution *Solution) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}
	if solution == nil {
		return fmt.Errorf("solution cannot be nil")
	}
	if err := solution.Validate(); err != nil {
		return fmt.Errorf("invalid solution: %w", err)
	}

	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(solution)
	if err != nil {
		return fmt.Errorf("failed to serialize solution: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO solutions (run_id, fitness, generation, env_seed, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			fitness = excluded.fitness,
			generation = excluded.generation,
			env_seed = excluded.env_seed,
			created_at = excluded.created_at,
			payload = excluded.payload
	`, runID, solution.Fitness, solution.Generation, solution.EnvSeed, solution.Timestamp.UnixNano(), payload)
	if err != nil {
		return fmt.Errorf("failed to save solution: %w", err)
	}

	slog.Debug("Solution saved", "run_id", runID, "path", s.path)
	return nil
}

// LoadSolution implements Store.
func (s *SQLiteStore) LoadSolution(runID string) (*Solution, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}

	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = db.QueryRow(`SELECT payload FROM solutions WHERE run_id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{RunID: runID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load solution: %w", err)
	}

	var solution Solution
	if err := json.Unmarshal(payload, &solution); err != nil {
		return nil, fmt.Errorf("decode solution %s: %w", runID, err)
	}
	return &solution, nil
}

// ListSolutions implements Store. Solutions are ordered oldest first.
func (s *SQLiteStore) ListSolutions() ([]SolutionInfo, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT run_id, payload FROM solutions ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	defer rows.Close()

	infos := []SolutionInfo{}
	for rows.Next() {
		var runID string
		var payload []byte
		if err := rows.Scan(&runID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan solution row: %w", err)
		}

		var solution Solution
		if err := json.Unmarshal(payload, &solution); err != nil {
			slog.Warn("Failed to decode solution for listing", "run_id", runID, "error", err)
			continue
		}
		infos = append(infos, solution.ToInfo())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}

	return infos, nil
}

// DeleteSolution implements Store. The run's report history is removed too.
func (s *SQLiteStore) DeleteSolution(runID string) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM solutions WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete solution: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{RunID: runID}
	}

	if _, err := tx.Exec(`DELETE FROM reports WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}

	return tx.Commit()
}

// SaveReports implements ReportStore.
func (s *SQLiteStore) SaveReports(runID string, reports []opt.Report) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reports WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO reports (run_id, generation, population_size, min_fitness, mean_fitness, std_dev)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range reports {
		if _, err := stmt.Exec(runID, r.Generation, r.PopulationSize, r.MinFitness, r.MeanFitness, r.StdDev); err != nil {
			return fmt.Errorf("failed to save report for generation %d: %w", r.Generation, err)
		}
	}

	return tx.Commit()
}

// LoadReports implements ReportStore.
func (s *SQLiteStore) LoadReports(runID string) ([]opt.Report, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT generation, population_size, min_fitness, mean_fitness, std_dev
		FROM reports WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	defer rows.Close()

	var reports []opt.Report
	for rows.Next() {
		var r opt.Report
		if err := rows.Scan(&r.Generation, &r.PopulationSize, &r.MinFitness, &r.MeanFitness, &r.StdDev); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	if len(reports) == 0 {
		return nil, &NotFoundError{RunID: runID}
	}

	return reports, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS solutions (
			run_id TEXT PRIMARY KEY,
			fitness REAL NOT NULL,
			generation INTEGER NOT NULL,
			env_seed INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reports (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			population_size INTEGER NOT NULL,
			min_fitness REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			std_dev REAL NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
