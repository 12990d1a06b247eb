package opt

import (
	"math"
	"testing"
)

func TestConvergenceTracker_BasicConvergence(t *testing.T) {
	config := ConvergenceConfig{
		Enabled:  true,
		Patience: 3,
		MinDelta: 0.01,
	}
	tracker := NewConvergenceTracker(config)

	if tracker.BestFitness() != math.Inf(1) {
		t.Errorf("Expected initial best fitness to be Inf, got %v", tracker.BestFitness())
	}

	if tracker.Update(0.4) {
		t.Error("Should not converge on first update")
	}
	if tracker.BestFitness() != 0.4 {
		t.Errorf("Expected best fitness 0.4, got %v", tracker.BestFitness())
	}

	// Large decrease resets the stale counter
	if tracker.Update(0.2) {
		t.Error("Should not converge after improvement")
	}
	if tracker.StaleCount() != 0 {
		t.Errorf("Expected stale count 0 after improvement, got %v", tracker.StaleCount())
	}

	// Decreases below MinDelta do not count
	if tracker.Update(0.195) {
		t.Error("Should not converge yet (1/3)")
	}
	if tracker.Update(0.196) {
		t.Error("Should not converge yet (2/3)")
	}
	if tracker.StaleCount() != 2 {
		t.Errorf("Expected stale count 2, got %v", tracker.StaleCount())
	}

	if !tracker.Update(0.197) {
		t.Error("Should converge after patience exceeded (3/3)")
	}
	if tracker.BestFitness() != 0.195 {
		t.Errorf("Expected best fitness 0.195, got %v", tracker.BestFitness())
	}
}

func TestConvergenceTracker_NegativeFitness(t *testing.T) {
	tracker := NewConvergenceTracker(ConvergenceConfig{Enabled: true, Patience: 2, MinDelta: 0.01})

	tracker.Update(0.05)
	tracker.Update(-0.2) // reached the goal
	if tracker.StaleCount() != 0 {
		t.Errorf("Expected stale count 0 after crossing zero, got %d", tracker.StaleCount())
	}

	tracker.Update(-0.25)
	if tracker.StaleCount() != 0 {
		t.Errorf("Expected more negative fitness to count as progress, got stale %d", tracker.StaleCount())
	}
	if tracker.BestFitness() != -0.25 {
		t.Errorf("Expected best fitness -0.25, got %v", tracker.BestFitness())
	}
}

func TestConvergenceTracker_Disabled(t *testing.T) {
	tracker := NewConvergenceTracker(DisabledConvergenceConfig())

	for i := 0; i < 100; i++ {
		if tracker.Update(1.0) {
			t.Error("Should never converge when disabled")
		}
	}
}

func TestConvergenceTracker_History(t *testing.T) {
	tracker := NewConvergenceTracker(DefaultConvergenceConfig())

	values := []float64{1.0, 0.9, 0.85, 0.82}
	for _, v := range values {
		tracker.Update(v)
	}

	history := tracker.History()
	if len(history) != len(values) {
		t.Fatalf("Expected history length %d, got %d", len(values), len(history))
	}
	for i, v := range values {
		if history[i] != v {
			t.Errorf("Expected history[%d] = %v, got %v", i, v, history[i])
		}
	}

	history[0] = 999.0
	if tracker.History()[0] == 999.0 {
		t.Error("History() should return a copy, not a reference")
	}
}

func TestConvergenceTracker_Reset(t *testing.T) {
	tracker := NewConvergenceTracker(DefaultConvergenceConfig())

	tracker.Update(1.0)
	tracker.Update(0.99)
	tracker.Reset()

	if len(tracker.History()) != 0 {
		t.Error("Expected empty history after reset")
	}
	if tracker.BestFitness() != math.Inf(1) {
		t.Error("Expected best fitness reset to Inf")
	}
	if tracker.StaleCount() != 0 {
		t.Error("Expected stale count reset to 0")
	}
}

func TestDefaultConvergenceConfig(t *testing.T) {
	config := DefaultConvergenceConfig()

	if !config.Enabled {
		t.Error("Expected default config to be enabled")
	}
	if config.Patience <= 0 {
		t.Error("Expected default patience > 0")
	}
}
