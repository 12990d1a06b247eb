package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/cwbudde/mountaincarga/internal/fit"
)

// ErrScreenTooSmall is returned when the screen cannot fit the track
var ErrScreenTooSmall = errors.New("screen too small for replay")

const (
	carRune   = '@'
	flagRune  = 'F'
	trackRune = '#'
)

var (
	trackStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	carStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	flagStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	doneStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
)

var actionNames = [fit.NumActions]string{"left", "none", "right"}

// Terminal draws replay frames on a tcell screen: a status line on top and
// the valley profile below, with the car and the flag placed on the track.
type Terminal struct {
	screen tcell.Screen
	owned  bool
}

// NewTerminal draws on an already initialized screen. Close leaves it open.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// OpenTerminal initializes the controlling terminal. Close restores it.
func OpenTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	return &Terminal{screen: screen, owned: true}, nil
}

// Draw implements fit.FrameRenderer
func (t *Terminal) Draw(frame fit.Frame) error {
	width, height := t.screen.Size()
	if width < 2 || height < 3 {
		return fmt.Errorf("%w: %dx%d", ErrScreenTooSmall, width, height)
	}

	t.screen.Clear()

	rows := height - 1
	for x := 0; x < width; x++ {
		pos := positionAt(x, width)
		top := rowFor(fit.Height(pos), rows)
		for y := top; y <= rows; y++ {
			t.screen.SetContent(x, y, trackRune, nil, trackStyle)
		}
	}

	flagX := columnFor(fit.FlagLocation, width)
	flagY := rowFor(fit.Height(fit.FlagLocation), rows) - 1
	t.screen.SetContent(flagX, max(flagY, 1), flagRune, nil, flagStyle)

	carX := columnFor(frame.Observation.Position, width)
	carY := rowFor(fit.Height(frame.Observation.Position), rows) - 1
	t.screen.SetContent(carX, max(carY, 1), carRune, nil, carStyle)

	status := fmt.Sprintf("step %3d  action %-5s  pos %+.3f  vel %+.4f",
		frame.Step, actionName(frame.Action), frame.Observation.Position, frame.Observation.Velocity)
	style := statusStyle
	if frame.Done {
		status += "  done"
		style = doneStyle
	}
	drawText(t.screen, 0, 0, width, status, style)

	t.screen.Show()
	return nil
}

// Close implements fit.FrameRenderer
func (t *Terminal) Close() error {
	if t.owned {
		t.screen.Fini()
	}
	return nil
}

// positionAt maps a screen column to a track position
func positionAt(x, width int) float64 {
	return fit.MinPosition + (fit.MaxPosition-fit.MinPosition)*float64(x)/float64(width-1)
}

// columnFor maps a track position to a screen column
func columnFor(pos float64, width int) int {
	frac := (pos - fit.MinPosition) / (fit.MaxPosition - fit.MinPosition)
	x := int(math.Round(frac * float64(width-1)))
	return min(max(x, 0), width-1)
}

// rowFor maps a track height in [0.1, 1.0] to a row in [1, rows]
func rowFor(h float64, rows int) int {
	frac := (1.0 - h) / 0.9
	y := 1 + int(math.Round(frac*float64(rows-1)))
	return min(max(y, 1), rows)
}

func actionName(action int) string {
	if action < 0 || action >= len(actionNames) {
		return "?"
	}
	return actionNames[action]
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
