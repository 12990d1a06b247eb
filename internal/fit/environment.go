package fit

import (
	"fmt"
	"math"
	"math/rand"
)

// Environment is the simulation capability the scorer and replay depend on.
// Implementations own mutable state and are not safe for concurrent use;
// give every worker its own instance.
type Environment interface {
	// Reset restarts the episode deterministically from seed
	Reset(seed int64) Observation

	// Step advances one time unit. terminated reports the goal was reached,
	// truncated that the step budget is exhausted.
	Step(action int) (obs Observation, terminated, truncated bool, err error)

	// MaxSteps returns the episode step budget
	MaxSteps() int

	// Close releases any resources held by the environment
	Close() error
}

// MountainCar implements the classic under-powered car in a valley: the car
// must rock back and forth to build momentum and reach the flag on the right.
type MountainCar struct {
	maxSteps int
	state    Observation
	steps    int
}

// NewMountainCar creates an environment with the default 200-step budget
func NewMountainCar() *MountainCar {
	return &MountainCar{maxSteps: MaxSteps}
}

// NewMountainCarWithSteps creates an environment with a custom step budget
func NewMountainCarWithSteps(maxSteps int) *MountainCar {
	return &MountainCar{maxSteps: maxSteps}
}

// Reset places the car at a seeded position in [-0.6, -0.4) with zero velocity
func (m *MountainCar) Reset(seed int64) Observation {
	rng := rand.New(rand.NewSource(seed))
	m.state = Observation{Position: -0.6 + 0.2*rng.Float64()}
	m.steps = 0
	return m.state
}

// Step applies one action
func (m *MountainCar) Step(action int) (Observation, bool, bool, error) {
	if action < 0 || action >= NumActions {
		return m.state, false, false, fmt.Errorf("invalid action %d", action)
	}

	velocity := m.state.Velocity + float64(action-1)*Force + math.Cos(3*m.state.Position)*(-Gravity)
	velocity = clamp(velocity, -MaxSpeed, MaxSpeed)
	position := clamp(m.state.Position+velocity, MinPosition, MaxPosition)
	if position == MinPosition && velocity < 0 {
		velocity = 0
	}

	m.state = Observation{Position: position, Velocity: velocity}
	m.steps++

	terminated := position >= GoalPosition && velocity >= GoalVelocity
	truncated := m.steps >= m.maxSteps
	return m.state, terminated, truncated, nil
}

// MaxSteps returns the episode step budget
func (m *MountainCar) MaxSteps() int {
	return m.maxSteps
}

// State returns the current observation
func (m *MountainCar) State() Observation {
	return m.state
}

// Close is a no-op; the simulation holds no external resources
func (m *MountainCar) Close() error {
	return nil
}
