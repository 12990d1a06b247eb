package fit

import "math"

// Observation is the car state after a step
type Observation struct {
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
}

// Action codes understood by the mountain car
const (
	ActionPushLeft  = 0
	ActionNoPush    = 1
	ActionPushRight = 2

	// NumActions is the size of the gene alphabet
	NumActions = 3
)

// Track limits and dynamics constants
const (
	MinPosition  = -1.2
	MaxPosition  = 0.6
	MaxSpeed     = 0.07
	GoalPosition = 0.5
	GoalVelocity = 0.0
	Force        = 0.001
	Gravity      = 0.0025

	// MaxSteps is the episode step budget and the genome length
	MaxSteps = 200

	// FlagLocation is the target used for the distance score
	FlagLocation = 0.5
)

// Height returns the track elevation at position x, in [0.1, 1.0]
func Height(x float64) float64 {
	return math.Sin(3*x)*0.45 + 0.55
}

// Frame is one rendered moment of a replay
type Frame struct {
	Step        int
	Action      int
	Observation Observation
	Done        bool
}

func clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
