// Package style reads and writes the chrome flags of the managed window.
package style

import (
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

// Registry is a thin accessor over the window's style flags.
type Registry struct {
	win    platform.Window
	logger *log.Logger
}

// NewRegistry creates a registry for win. A nil logger uses the default one.
func NewRegistry(win platform.Window, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{win: win, logger: logger}
}

// Get returns the current flags.
func (r *Registry) Get() platform.StyleFlags {
	return r.win.Style()
}

// Set replaces the flags. No validation is performed.
func (r *Registry) Set(flags platform.StyleFlags) bool {
	if !r.win.SetStyle(flags) {
		r.logger.Warn("set window style failed", "style", flags)
		return false
	}
	return true
}

// Clear removes bits and leaves every other flag unchanged.
func (r *Registry) Clear(bits platform.StyleFlags) bool {
	return r.Set(r.Get() &^ bits)
}

// Add sets bits and leaves every other flag unchanged.
func (r *Registry) Add(bits platform.StyleFlags) bool {
	return r.Set(r.Get() | bits)
}

// HasOverlappedChrome reports whether any overlapped-window bit is present.
// A window with none of them is considered fullscreen.
func (r *Registry) HasOverlappedChrome() bool {
	return r.Get()&platform.StyleOverlappedWindow != 0
}
