// Package cursor confines and positions the system cursor relative to the
// managed window.
package cursor

import (
	"fmt"

	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

// ClipManager confines the cursor to the window and restores the clip
// rectangle that was active at Init.
type ClipManager struct {
	win    platform.Window
	cursor platform.Cursor
	logger *log.Logger

	original    platform.Rect
	initialized bool
}

// NewClipManager creates a manager for win and the system cursor.
func NewClipManager(win platform.Window, cursor platform.Cursor, logger *log.Logger) *ClipManager {
	if logger == nil {
		logger = log.Default()
	}
	return &ClipManager{win: win, cursor: cursor, logger: logger}
}

// Init records the current clip rectangle. Calling it again overwrites
// the baseline.
func (m *ClipManager) Init() bool {
	r, ok := m.cursor.ClipRect()
	if !ok {
		m.logger.Warn("read cursor clip failed")
		return false
	}
	m.original = r
	m.initialized = true
	return true
}

// Original returns the baseline captured by Init.
func (m *ClipManager) Original() (platform.Rect, bool) {
	return m.original, m.initialized
}

// Clip confines the cursor to the window's current outer bounds.
func (m *ClipManager) Clip() bool {
	bounds, ok := m.win.Bounds()
	if !ok {
		m.logger.Warn("read window bounds failed")
		return false
	}
	if !m.cursor.SetClipRect(bounds) {
		m.logger.Warn("clip cursor failed", "rect", bounds)
		return false
	}
	return true
}

// Restore re-applies the baseline, whether or not Clip was called.
func (m *ClipManager) Restore() bool {
	if !m.initialized {
		m.logger.Debug("cursor clip baseline not captured")
		return false
	}
	if !m.cursor.SetClipRect(m.original) {
		m.logger.Warn("restore cursor clip failed", "rect", m.original)
		return false
	}
	return true
}

// MoveTo moves the cursor to a point relative to the client area's upper
// left corner, clamped to the client area.
func (m *ClipManager) MoveTo(x, y int) error {
	client, ok := m.win.ClientBounds()
	if !ok {
		return fmt.Errorf("read client bounds failed")
	}
	cx, cy := client.Clamp(client.X+x, client.Y+y)
	sx, sy, ok := m.win.ClientToScreen(cx, cy)
	if !ok {
		return fmt.Errorf("convert client point (%d,%d) failed", cx, cy)
	}
	return m.SetPos(sx, sy)
}

// SetPos moves the cursor to a screen position.
func (m *ClipManager) SetPos(x, y int) error {
	if !m.cursor.SetCursorPos(x, y) {
		return fmt.Errorf("set cursor position (%d,%d) failed", x, y)
	}
	return nil
}

// SetVisible shows or hides the cursor.
func (m *ClipManager) SetVisible(visible bool) error {
	if !m.cursor.SetCursorVisible(visible) {
		return fmt.Errorf("set cursor visibility to %v failed", visible)
	}
	return nil
}
