package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cwbudde/mountaincarga/internal/fit"
)

// Backend identifies a replay renderer implementation.
type Backend string

const (
	BackendTerminal Backend = "terminal"
	BackendLog      Backend = "log"
	BackendNone     Backend = "none"
)

var (
	// ErrUnknownBackend is returned when the name does not match a known backend.
	ErrUnknownBackend = errors.New("unknown renderer backend")
	// ErrBackendUnavailable indicates the backend cannot be opened in this process.
	ErrBackendUnavailable = errors.New("renderer backend unavailable")
)

// NormalizeBackend maps arbitrary user input to a canonical backend identifier.
func NormalizeBackend(name string) Backend {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "terminal", "tui", "tcell":
		return BackendTerminal
	case "log", "slog":
		return BackendLog
	case "none", "off", "disabled":
		return BackendNone
	default:
		return Backend(name)
	}
}

// SupportedBackends returns the list of backends understood by the factory.
func SupportedBackends() []Backend {
	return []Backend{BackendTerminal, BackendLog, BackendNone}
}

// NewForBackend constructs the requested frame renderer.
func NewForBackend(name string) (fit.FrameRenderer, error) {
	backend := NormalizeBackend(name)

	switch backend {
	case BackendTerminal:
		term, err := OpenTerminal()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, backend, err)
		}
		return term, nil
	case BackendLog:
		return NewLog(slog.Default(), 1), nil
	case BackendNone:
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
}
