package terminal

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/askelund/geopick/internal/adapter/capture"
	"github.com/askelund/geopick/internal/domain"
	"github.com/askelund/geopick/internal/domain/valueobject"
)

// programRunner runs a bubbletea program to completion. Tests swap it out
// so no tty is needed.
type programRunner func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error)

func runProgram(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	return tea.NewProgram(m, opts...).Run()
}

// Capturer renders the world map in the terminal and blocks until the
// user has clicked two corners or abandoned the pick.
type Capturer struct {
	logger *zap.Logger
	run    programRunner
}

func NewCapturer(logger *zap.Logger) *Capturer {
	return &Capturer{logger: logger, run: runProgram}
}

func (c *Capturer) Capture(ctx context.Context, req capture.Request) (valueobject.Point, valueobject.Point, error) {
	var zero valueobject.Point

	// The picker owns the terminal while it runs. It forces a stable
	// palette for the map and puts back whatever renderer settings the
	// host process had, whichever way the pick ends.
	restore := snapshotDisplay()
	defer restore()
	lipgloss.SetColorProfile(termenv.ANSI256)
	lipgloss.SetHasDarkBackground(true)

	m, err := newModel(req)
	if err != nil {
		return zero, zero, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
	}

	// The UI renders to stderr so stdout stays reserved for the picked
	// extent even when it is piped somewhere.
	final, err := c.run(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)
	if err != nil {
		return zero, zero, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
	}

	out, ok := final.(model)
	if !ok {
		return zero, zero, fmt.Errorf("%w: unexpected final model %T", domain.ErrCaptureFailed, final)
	}
	if out.aborted || out.first == nil || out.second == nil {
		return zero, zero, domain.ErrCaptureAborted
	}

	c.logger.Debug("corners captured",
		zap.Float64("first_lon", out.first.Lon),
		zap.Float64("first_lat", out.first.Lat),
		zap.Float64("second_lon", out.second.Lon),
		zap.Float64("second_lat", out.second.Lat),
	)
	return *out.first, *out.second, nil
}

// snapshotDisplay saves the process wide renderer settings, returning the
// function that restores them.
func snapshotDisplay() func() {
	profile := lipgloss.ColorProfile()
	dark := lipgloss.HasDarkBackground()
	return func() {
		lipgloss.SetColorProfile(profile)
		lipgloss.SetHasDarkBackground(dark)
	}
}
