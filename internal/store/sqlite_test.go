package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreContract(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "solutions.db"))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	storeContract(t, s)
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "solutions.db"))

	if _, err := s.LoadSolution("run-1"); err == nil {
		t.Error("Expected error before Init")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close before Init should be a no-op, got %v", err)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solutions.db")

	first := NewSQLiteStore(path)
	if err := first.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := first.SaveSolution("run-1", createTestSolution("run-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(path)
	if err := second.Init(context.Background()); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	loaded, err := second.LoadSolution("run-1")
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if loaded.Generation != 120 {
		t.Errorf("Expected generation 120, got %d", loaded.Generation)
	}
}

func TestNewStoreFactory(t *testing.T) {
	dir := t.TempDir()

	fsStore, err := NewStore("", dir)
	if err != nil {
		t.Fatalf("NewStore(fs) failed: %v", err)
	}
	if _, ok := fsStore.(*FSStore); !ok {
		t.Errorf("Expected *FSStore, got %T", fsStore)
	}
	if err := CloseIfSupported(fsStore); err != nil {
		t.Errorf("CloseIfSupported(fs) failed: %v", err)
	}

	sqlStore, err := NewStore(BackendSQLite, filepath.Join(dir, "db"))
	if err != nil {
		t.Fatalf("NewStore(sqlite) failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "db", "solutions.db")); err != nil {
		t.Errorf("Expected database file: %v", err)
	}
	if err := CloseIfSupported(sqlStore); err != nil {
		t.Errorf("CloseIfSupported(sqlite) failed: %v", err)
	}

	if _, err := NewStore("mongo", dir); err == nil {
		t.Error("Expected error for unsupported backend")
	}
}
