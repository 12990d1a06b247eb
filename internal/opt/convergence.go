package opt

import (
	"log/slog"
	"math"
)

// ConvergenceConfig defines when a run may stop before MaxGenerations
type ConvergenceConfig struct {
	// Enabled controls whether convergence detection is active
	Enabled bool `json:"enabled" ini:"enabled"`

	// Patience is the number of generations without improvement before stopping
	Patience int `json:"patience" ini:"patience"`

	// MinDelta is the minimum absolute fitness decrease that counts as progress.
	// Fitness can be negative, so relative improvement is not meaningful here.
	MinDelta float64 `json:"minDelta" ini:"min_delta"`
}

// DefaultConvergenceConfig returns sensible defaults for convergence detection
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Enabled:  true,
		Patience: 25,
		MinDelta: 1e-6,
	}
}

// DisabledConvergenceConfig returns a config with convergence detection disabled
func DisabledConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Enabled: false,
	}
}

// ConvergenceTracker tracks the best fitness per generation and detects stalls
type ConvergenceTracker struct {
	config          ConvergenceConfig
	history         []float64
	bestFitness     float64 // Best fitness ever seen
	lastSignificant float64 // Last fitness that was a significant improvement
	staleCount      int     // Generations without significant improvement
}

// NewConvergenceTracker creates a new convergence tracker with the given config
func NewConvergenceTracker(config ConvergenceConfig) *ConvergenceTracker {
	return &ConvergenceTracker{
		config:          config,
		history:         []float64{},
		bestFitness:     math.Inf(1),
		lastSignificant: math.Inf(1),
	}
}

// Update records a new generation minimum and returns true if convergence is detected
func (c *ConvergenceTracker) Update(fitness float64) bool {
	if !c.config.Enabled {
		return false
	}

	c.history = append(c.history, fitness)

	if fitness < c.bestFitness {
		c.bestFitness = fitness
	}

	if len(c.history) == 1 {
		c.lastSignificant = fitness
		return false
	}

	improvement := c.lastSignificant - fitness
	if improvement > 0 && improvement >= c.config.MinDelta {
		c.lastSignificant = fitness
		c.staleCount = 0
		slog.Debug("Fitness improvement detected",
			"fitness", fitness,
			"improvement", improvement,
		)
		return false
	}

	c.staleCount++
	if c.staleCount >= c.config.Patience {
		slog.Info("Convergence detected - stopping early",
			"stale_count", c.staleCount,
			"patience", c.config.Patience,
			"best_fitness", c.bestFitness,
		)
		return true
	}

	return false
}

// BestFitness returns the best fitness seen so far
func (c *ConvergenceTracker) BestFitness() float64 {
	return c.bestFitness
}

// History returns the recorded per-generation minima
func (c *ConvergenceTracker) History() []float64 {
	return append([]float64{}, c.history...)
}

// StaleCount returns the current number of generations without improvement
func (c *ConvergenceTracker) StaleCount() int {
	return c.staleCount
}

// Reset clears the tracker's state
func (c *ConvergenceTracker) Reset() {
	c.history = []float64{}
	c.bestFitness = math.Inf(1)
	c.lastSignificant = math.Inf(1)
	c.staleCount = 0
}
