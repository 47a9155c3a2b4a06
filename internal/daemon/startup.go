package daemon

import (
	"errors"
	"fmt"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/desktop"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

// applyStartup performs the configured one-shot changes. It must run on the
// window goroutine. Every step is attempted; failures are joined.
func applyStartup(ctrl *desktop.Controller, win platform.Window, s config.StartupConfig, logger *log.Logger) error {
	var errs []error
	try := func(what string, fn func() error) {
		if err := fn(); err != nil {
			logger.Warn("startup step failed", "step", what, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", what, err))
			return
		}
		logger.Debug("startup step applied", "step", what)
	}

	if s.Title != "" {
		try("title", func() error { return ctrl.SetTitle(s.Title) })
	}
	if s.DisableMaximizeButton {
		try("disable_maximize_button", ctrl.DisableMaximizeButton)
	}
	if s.DisableMinimizeButton {
		try("disable_minimize_button", ctrl.DisableMinimizeButton)
	}
	if s.DisableResize {
		try("disable_resize", ctrl.DisableResize)
	}
	if s.Geometry.IsSet() {
		try("geometry", func() error { return applyGeometry(ctrl, win, s.Geometry) })
	}
	switch {
	case s.Fullscreen && !ctrl.IsFullscreen():
		try("fullscreen", ctrl.ToggleFullscreen)
	case s.Maximize && !ctrl.IsMaximized():
		try("maximize", ctrl.ToggleMaximize)
	}
	if s.ClipCursor {
		try("clip_cursor", ctrl.ClipCursor)
	}
	if s.HideCursor {
		try("hide_cursor", func() error { return ctrl.SetCursorVisible(false) })
	}
	return errors.Join(errs...)
}

func applyGeometry(ctrl *desktop.Controller, win platform.Window, g config.GeometryConfig) error {
	sw, sh := win.ScreenSize()
	vars := config.Vars{ScreenWidth: sw, ScreenHeight: sh}
	if b, ok := win.Bounds(); ok {
		vars.WindowWidth = b.Width
		vars.WindowHeight = b.Height
	}

	x, y, w, h, err := g.Resolve(vars)
	if err != nil {
		return err
	}
	if g.Client {
		return ctrl.SetClientSize(x, y, w, h)
	}
	return ctrl.SetWindowSize(x, y, w, h)
}
