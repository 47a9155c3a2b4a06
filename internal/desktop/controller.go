// Package desktop is the command surface over one managed window. A
// Controller owns every piece of per-window state; all of its methods must
// be called from the goroutine running the backend loop.
package desktop

import (
	"errors"
	"fmt"

	"github.com/1broseidon/winstate/internal/cursor"
	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/intercept"
	"github.com/1broseidon/winstate/internal/placement"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/style"
	"github.com/1broseidon/winstate/internal/transition"
	"github.com/charmbracelet/log"
)

// Controller ties the window components together.
type Controller struct {
	backend platform.Backend
	sink    events.Sink
	logger  *log.Logger

	styles      *style.Registry
	placement   *placement.Store
	machine     *transition.Machine
	sizer       *geometry.Sizer
	clip        *cursor.ClipManager
	interceptor *intercept.Interceptor

	initialized bool
}

// Status is a snapshot of the window for reporting.
type Status struct {
	WindowID    platform.WindowID `json:"window_id"`
	State       string            `json:"state"`
	Fullscreen  bool              `json:"fullscreen"`
	Maximized   bool              `json:"maximized"`
	MouseInside bool              `json:"mouse_inside"`
	Intercept   bool              `json:"intercept"`
	Bounds      platform.Rect     `json:"bounds"`
	Normal      platform.Rect     `json:"normal"`
	Style       []string          `json:"style"`
}

// New creates a controller for backend. Events go to sink, which may be nil.
func New(backend platform.Backend, sink events.Sink, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	if sink == nil {
		sink = events.Discard
	}

	styles := style.NewRegistry(backend, logger.WithPrefix("style"))
	store := placement.NewStore(backend, logger.WithPrefix("placement"))
	c := &Controller{
		backend:     backend,
		sink:        sink,
		logger:      logger,
		styles:      styles,
		placement:   store,
		machine:     transition.NewMachine(backend, styles, store, logger.WithPrefix("transition")),
		sizer:       geometry.NewSizer(backend, logger.WithPrefix("geometry")),
		clip:        cursor.NewClipManager(backend, backend, logger.WithPrefix("cursor")),
		interceptor: intercept.New(backend, sink, logger.WithPrefix("intercept")),
	}
	c.machine.OnChange(func(from, to transition.State) {
		ev := events.New(events.StateChanged)
		ev.State = to.String()
		c.sink.Emit(ev)
	})
	return c
}

// Init captures the cursor clip baseline and installs the message
// interceptor. Every call re-captures the baseline and clears the pointer
// inside flag; an install that failed before is retried. Interception
// failure is logged and leaves the controller usable without enter/leave
// events.
func (c *Controller) Init() {
	again := c.initialized
	c.clip.Init()
	c.interceptor.Install()
	c.initialized = true
	if again {
		c.logger.Debug("controller re-initialized", "intercept", c.interceptor.Installed())
		return
	}
	c.logger.Info("controller initialized", "window", fmt.Sprintf("0x%x", uint64(c.backend.ID())))
}

// Final restores the cursor clip and then the original message handler.
func (c *Controller) Final() {
	if !c.initialized {
		return
	}
	c.clip.Restore()
	c.interceptor.Uninstall()
	c.initialized = false
	c.logger.Info("controller finalized")
}

// Initialized reports whether Init has run without a matching Final.
func (c *Controller) Initialized() bool { return c.initialized }

func (c *Controller) IsFullscreen() bool { return c.machine.IsFullscreen() }

func (c *Controller) IsMaximized() bool { return c.machine.IsMaximized() }

func (c *Controller) IsMouseInsideWindow() bool { return c.interceptor.MouseInside() }

// State returns the current presentation state.
func (c *Controller) State() transition.State { return c.machine.State() }

func (c *Controller) ToggleFullscreen() error { return c.machine.ToggleFullscreen() }

func (c *Controller) ToggleMaximize() error { return c.machine.ToggleMaximize() }

func (c *Controller) DisableMaximizeButton() error {
	return c.clearStyle(platform.StyleMaximizeBox, "maximize button")
}

func (c *Controller) DisableMinimizeButton() error {
	return c.clearStyle(platform.StyleMinimizeBox, "minimize button")
}

func (c *Controller) DisableResize() error {
	return c.clearStyle(platform.StyleSizeBox, "resize")
}

func (c *Controller) clearStyle(bit platform.StyleFlags, what string) error {
	if !c.styles.Clear(bit) {
		return fmt.Errorf("disable %s failed", what)
	}
	return nil
}

// SetWindowSize sets the outer rectangle; x == geometry.CenterSentinel centers it.
func (c *Controller) SetWindowSize(x, y, w, h int) error {
	return c.sizer.SetWindowSize(x, y, w, h)
}

// SetClientSize sizes the window so the client area is w x h.
func (c *Controller) SetClientSize(x, y, w, h int) error {
	return c.sizer.SetClientSize(x, y, w, h)
}

// GetWindowSize returns the normal placement rectangle.
func (c *Controller) GetWindowSize() (platform.Rect, error) {
	return c.sizer.WindowSize()
}

func (c *Controller) ClipCursor() error {
	if !c.clip.Clip() {
		return errors.New("clip cursor failed")
	}
	return nil
}

func (c *Controller) RestoreCursorClip() error {
	if !c.clip.Restore() {
		return errors.New("restore cursor clip failed")
	}
	return nil
}

func (c *Controller) SetTitle(title string) error {
	if !c.backend.SetTitle(title) {
		return fmt.Errorf("set title %q failed", title)
	}
	return nil
}

// MoveCursorTo moves the cursor relative to the client area, clamped to it.
func (c *Controller) MoveCursorTo(x, y int) error { return c.clip.MoveTo(x, y) }

func (c *Controller) SetCursorPos(x, y int) error { return c.clip.SetPos(x, y) }

func (c *Controller) SetCursorVisible(visible bool) error { return c.clip.SetVisible(visible) }

// Displays lists the connected displays.
func (c *Controller) Displays() ([]platform.Display, error) {
	return c.backend.Displays()
}

// Status collects the current window state.
func (c *Controller) Status() Status {
	st := Status{
		WindowID:    c.backend.ID(),
		State:       c.State().String(),
		Fullscreen:  c.IsFullscreen(),
		Maximized:   c.IsMaximized(),
		MouseInside: c.IsMouseInsideWindow(),
		Intercept:   c.interceptor.Installed(),
		Style:       c.styles.Get().Names(),
	}
	if b, ok := c.backend.Bounds(); ok {
		st.Bounds = b
	}
	if p, ok := c.placement.Current(); ok {
		st.Normal = p.Normal
	}
	return st
}
