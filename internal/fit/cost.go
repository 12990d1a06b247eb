package fit

import (
	"fmt"
	"math"

	"github.com/cwbudde/mountaincarga/internal/opt"
)

// Score runs actions against a freshly reset env and returns the fitness.
//
// Reaching the goal after s < MaxSteps steps scores -(MaxSteps-s)/MaxSteps,
// so faster solutions are more negative. Any other outcome scores the
// distance between the final position and FlagLocation, which is never
// negative. Lower is better.
func Score(env Environment, seed int64, actions []int) (float64, error) {
	obs := env.Reset(seed)
	maxSteps := env.MaxSteps()

	steps := 0
	terminated := false
	for _, action := range actions {
		var truncated bool
		var err error
		steps++
		obs, terminated, truncated, err = env.Step(action)
		if err != nil {
			return 0, fmt.Errorf("step %d: %w", steps, err)
		}
		if terminated || truncated {
			break
		}
	}

	if terminated && steps < maxSteps {
		return -float64(maxSteps-steps) / float64(maxSteps), nil
	}
	return math.Abs(obs.Position - FlagLocation), nil
}

// Scorer adapts an Environment to the optimizer's Evaluator interface.
// It inherits the environment's lack of reentrancy.
type Scorer struct {
	Env  Environment
	Seed int64
}

// NewScorer creates a scorer over a fresh mountain car
func NewScorer(seed int64) *Scorer {
	return &Scorer{Env: NewMountainCar(), Seed: seed}
}

// Evaluate implements opt.Evaluator
func (s *Scorer) Evaluate(ind opt.Individual) (float64, error) {
	return Score(s.Env, s.Seed, ind.Ints())
}

// ScorerFactory returns an opt.EvaluatorFactory producing isolated scorers
func ScorerFactory(seed int64) opt.EvaluatorFactory {
	return func() (opt.Evaluator, error) {
		return NewScorer(seed), nil
	}
}
