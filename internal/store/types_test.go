package store

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSolutionValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Solution)
		field  string
	}{
		{"valid", func(s *Solution) {}, ""},
		{"empty run id", func(s *Solution) { s.RunID = "" }, "RunID"},
		{"no genes", func(s *Solution) { s.Genes = nil }, "Genes"},
		{"negative generation", func(s *Solution) { s.Generation = -1 }, "Generation"},
		{"zero timestamp", func(s *Solution) { s.Timestamp = time.Time{} }, "Timestamp"},
		{"invalid config", func(s *Solution) { s.Config.PopulationSize = 1 }, "Config"},
		{"length mismatch", func(s *Solution) { s.Genes = append(s.Genes, 0) }, "Genes"},
		{"gene outside alphabet", func(s *Solution) { s.Genes[3] = 3 }, "Genes"},
		{"negative gene", func(s *Solution) { s.Genes[0] = -1 }, "Genes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := createTestSolution("run-1")
			tt.modify(sol)

			err := sol.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Expected valid solution, got %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}
}

func TestSolutionIsCompatible(t *testing.T) {
	sol := createTestSolution("run-1")

	if err := sol.IsCompatible(sol.Config, sol.EnvSeed); err != nil {
		t.Errorf("Expected compatible, got %v", err)
	}

	cfg := sol.Config
	cfg.PopulationSize = 50
	cfg.MaxGenerations = 10
	if err := sol.IsCompatible(cfg, sol.EnvSeed); err != nil {
		t.Errorf("Population and generation changes should stay compatible, got %v", err)
	}

	cfg = sol.Config
	cfg.GenomeLength = 200
	var cerr *CompatibilityError
	if err := sol.IsCompatible(cfg, sol.EnvSeed); !errors.As(err, &cerr) || cerr.Field != "GenomeLength" {
		t.Errorf("Expected GenomeLength incompatibility, got %v", err)
	}

	if err := sol.IsCompatible(sol.Config, 7); !errors.As(err, &cerr) || cerr.Field != "EnvSeed" {
		t.Errorf("Expected EnvSeed incompatibility, got %v", err)
	}
	if !strings.Contains(cerr.Error(), "expected 42, got 7") {
		t.Errorf("Unexpected message: %s", cerr.Error())
	}
}

func TestSolutionToInfo(t *testing.T) {
	sol := createTestSolution("run-1")
	info := sol.ToInfo()

	if info.RunID != "run-1" || info.Generation != 120 || info.GenomeLength != 10 {
		t.Errorf("Unexpected info %+v", info)
	}
	if !info.Solved {
		t.Error("Negative fitness should be reported as solved")
	}

	sol.Fitness = 0.2
	if sol.ToInfo().Solved {
		t.Error("Positive fitness should not be reported as solved")
	}
}

func TestSolutionIndividualCopiesGenes(t *testing.T) {
	sol := createTestSolution("run-1")
	ind := sol.Individual()

	if len(ind) != len(sol.Genes) {
		t.Fatalf("Expected %d genes, got %d", len(sol.Genes), len(ind))
	}
	for i := range ind {
		if int(ind[i]) != sol.Genes[i] {
			t.Errorf("Gene %d mismatch", i)
		}
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{RunID: "abc"}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if err.Error() != "solution not found: abc" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if ErrNotFound.Error() != "solution not found" {
		t.Errorf("Unexpected message %q", ErrNotFound.Error())
	}
}
