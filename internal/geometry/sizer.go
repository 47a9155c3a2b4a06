// Package geometry positions and sizes the managed window directly.
package geometry

import (
	"fmt"

	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

// CenterSentinel as the x coordinate centers the window on the primary
// display; y is ignored in that case.
const CenterSentinel = -1

// Sizer applies explicit window and client sizes.
type Sizer struct {
	win    platform.Window
	logger *log.Logger
}

// NewSizer creates a sizer for win.
func NewSizer(win platform.Window, logger *log.Logger) *Sizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Sizer{win: win, logger: logger}
}

// SetWindowSize sets the outer window rectangle.
func (s *Sizer) SetWindowSize(x, y, w, h int) error {
	x, y = s.origin(x, y, w, h)
	bounds := platform.Rect{X: x, Y: y, Width: w, Height: h}
	if !s.win.MoveResize(bounds, false) {
		return fmt.Errorf("move window to %+v failed", bounds)
	}
	s.logger.Debug("window size set", "bounds", bounds)
	return nil
}

// SetClientSize sets the window so its client area is w x h. The frame is
// computed from the current style, assuming no menu bar. Centering uses
// the requested client size.
func (s *Sizer) SetClientSize(x, y, w, h int) error {
	x, y = s.origin(x, y, w, h)
	frame := s.win.FrameFor(platform.Rect{Width: w, Height: h}, s.win.Style())
	bounds := platform.Rect{X: x, Y: y, Width: frame.Width, Height: frame.Height}
	if !s.win.MoveResize(bounds, false) {
		return fmt.Errorf("move window to %+v failed", bounds)
	}
	s.logger.Debug("client size set", "client", fmt.Sprintf("%dx%d", w, h), "bounds", bounds)
	return nil
}

// WindowSize returns the normal (restored) rectangle of the window, which
// differs from the live rectangle while maximized or minimized.
func (s *Sizer) WindowSize() (platform.Rect, error) {
	p, ok := s.win.Placement()
	if !ok {
		return platform.Rect{}, fmt.Errorf("read window placement failed")
	}
	return p.Normal, nil
}

func (s *Sizer) origin(x, y, w, h int) (int, int) {
	if x != CenterSentinel {
		return x, y
	}
	sw, sh := s.win.ScreenSize()
	return (sw - w) / 2, (sh - h) / 2
}
