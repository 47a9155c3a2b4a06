// Package placement snapshots and restores the managed window's placement.
package placement

import (
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

// Store holds the placement captured before the last fullscreen or
// maximize transition.
type Store struct {
	win    platform.Window
	logger *log.Logger

	saved    platform.Placement
	captured bool
}

// NewStore creates a store for win.
func NewStore(win platform.Window, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{win: win, logger: logger}
}

// Capture overwrites the snapshot with the live placement.
func (s *Store) Capture() bool {
	p, ok := s.win.Placement()
	if !ok {
		s.logger.Warn("read window placement failed")
		return false
	}
	s.saved = p
	s.captured = true
	return true
}

// Restore applies the last snapshot. It returns false without touching the
// window when nothing has been captured.
func (s *Store) Restore() bool {
	if !s.captured {
		s.logger.Debug("no placement captured, nothing to restore")
		return false
	}
	if !s.win.SetPlacement(s.saved) {
		s.logger.Warn("apply window placement failed", "normal", s.saved.Normal, "show", s.saved.Show)
		return false
	}
	return true
}

// Saved returns the snapshot and whether one exists.
func (s *Store) Saved() (platform.Placement, bool) {
	return s.saved, s.captured
}

// Current returns the live placement.
func (s *Store) Current() (platform.Placement, bool) {
	return s.win.Placement()
}
