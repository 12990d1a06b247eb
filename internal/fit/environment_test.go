package fit

import (
	"math"
	"testing"
)

func TestMountainCarResetDeterministic(t *testing.T) {
	car := NewMountainCar()

	a := car.Reset(42)
	b := car.Reset(42)
	if a != b {
		t.Errorf("Reset with same seed differs: %+v vs %+v", a, b)
	}

	for seed := int64(0); seed < 50; seed++ {
		obs := car.Reset(seed)
		if obs.Position < -0.6 || obs.Position >= -0.4 {
			t.Errorf("Seed %d: start position %f outside [-0.6, -0.4)", seed, obs.Position)
		}
		if obs.Velocity != 0 {
			t.Errorf("Seed %d: start velocity should be 0, got %f", seed, obs.Velocity)
		}
	}
}

func TestMountainCarStepDynamics(t *testing.T) {
	car := NewMountainCar()
	start := car.Reset(1)

	obs, terminated, truncated, err := car.Step(ActionPushRight)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	wantVelocity := Force + math.Cos(3*start.Position)*(-Gravity)
	if math.Abs(obs.Velocity-wantVelocity) > 1e-12 {
		t.Errorf("Velocity = %g, want %g", obs.Velocity, wantVelocity)
	}
	if math.Abs(obs.Position-(start.Position+wantVelocity)) > 1e-12 {
		t.Errorf("Position = %g, want %g", obs.Position, start.Position+wantVelocity)
	}
	if terminated || truncated {
		t.Error("First step should neither terminate nor truncate")
	}
}

func TestMountainCarInvalidAction(t *testing.T) {
	car := NewMountainCar()
	car.Reset(1)

	if _, _, _, err := car.Step(3); err == nil {
		t.Error("Expected error for action 3")
	}
	if _, _, _, err := car.Step(-1); err == nil {
		t.Error("Expected error for action -1")
	}
}

func TestMountainCarTruncation(t *testing.T) {
	car := NewMountainCarWithSteps(5)
	car.Reset(1)

	for i := 1; i <= 5; i++ {
		_, _, truncated, err := car.Step(ActionNoPush)
		if err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
		if truncated != (i == 5) {
			t.Errorf("Step %d: truncated = %v", i, truncated)
		}
	}
}

func TestMountainCarLeftWallStopsCar(t *testing.T) {
	car := NewMountainCar()
	car.Reset(1)

	for i := 0; i < 150; i++ {
		if _, _, _, err := car.Step(ActionPushLeft); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		state := car.State()
		if state.Position < MinPosition {
			t.Fatalf("Position %f passed the left wall", state.Position)
		}
		if state.Position == MinPosition && state.Velocity < 0 {
			t.Fatalf("Velocity should be zeroed at the wall, got %f", state.Velocity)
		}
		if math.Abs(state.Velocity) > MaxSpeed {
			t.Fatalf("Speed %f exceeds limit", state.Velocity)
		}
	}
}

func TestHeight(t *testing.T) {
	for x := MinPosition; x <= MaxPosition; x += 0.05 {
		h := Height(x)
		if h < 0.1-1e-9 || h > 1.0+1e-9 {
			t.Errorf("Height(%f) = %f out of [0.1, 1]", x, h)
		}
	}
}
