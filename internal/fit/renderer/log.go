package renderer

import (
	"log/slog"

	"github.com/cwbudde/mountaincarga/internal/fit"
)

// Log writes replay frames as structured log records
type Log struct {
	logger *slog.Logger
	every  int
}

// NewLog logs every n-th frame at debug level; final frames always log at info
func NewLog(logger *slog.Logger, every int) *Log {
	if every < 1 {
		every = 1
	}
	return &Log{logger: logger, every: every}
}

// Draw implements fit.FrameRenderer
func (l *Log) Draw(frame fit.Frame) error {
	attrs := []any{
		"step", frame.Step,
		"action", actionName(frame.Action),
		"position", frame.Observation.Position,
		"velocity", frame.Observation.Velocity,
	}
	if frame.Done {
		l.logger.Info("Replay finished", attrs...)
		return nil
	}
	if frame.Step%l.every == 0 {
		l.logger.Debug("Replay frame", attrs...)
	}
	return nil
}

// Close implements fit.FrameRenderer
func (l *Log) Close() error {
	return nil
}

// Discard drops every frame
type Discard struct{}

// Draw implements fit.FrameRenderer
func (Discard) Draw(fit.Frame) error { return nil }

// Close implements fit.FrameRenderer
func (Discard) Close() error { return nil }
