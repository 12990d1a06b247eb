package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by NewStore
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
)

// Persistence is a Store that also keeps report history.
type Persistence interface {
	Store
	ReportStore
}

// NewStore opens the backend kind rooted at dataDir. The SQLite backend keeps
// everything in <dataDir>/solutions.db.
func NewStore(kind, dataDir string) (Persistence, error) {
	switch kind {
	case "", BackendFS:
		return NewFSStore(dataDir)
	case BackendSQLite:
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
		s := NewSQLiteStore(filepath.Join(dataDir, "solutions.db"))
		if err := s.Init(context.Background()); err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold open resources.
func CloseIfSupported(s Store) error {
	closer, ok := s.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
