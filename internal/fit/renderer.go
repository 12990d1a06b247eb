package fit

import (
	"context"
	"fmt"
	"time"
)

// FrameRenderer draws replay frames
type FrameRenderer interface {
	// Draw renders one frame
	Draw(frame Frame) error

	// Close releases the rendering surface
	Close() error
}

// DefaultReplayDelay is the pacing between replayed steps
const DefaultReplayDelay = 20 * time.Millisecond

// Replay re-runs actions from a fresh reset and draws each step.
// It stops at the first terminated or truncated step and returns the number
// of steps taken. The result is purely observational.
func Replay(ctx context.Context, env Environment, seed int64, actions []int, frames FrameRenderer, delay time.Duration) (int, error) {
	obs := env.Reset(seed)

	for i, action := range actions {
		if err := frames.Draw(Frame{Step: i, Action: action, Observation: obs}); err != nil {
			return i, fmt.Errorf("draw frame %d: %w", i, err)
		}

		next, terminated, truncated, err := env.Step(action)
		if err != nil {
			return i, fmt.Errorf("step %d: %w", i+1, err)
		}
		obs = next

		if terminated || truncated {
			if err := frames.Draw(Frame{Step: i + 1, Action: action, Observation: obs, Done: true}); err != nil {
				return i + 1, fmt.Errorf("draw final frame: %w", err)
			}
			return i + 1, nil
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return i + 1, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return len(actions), nil
}
