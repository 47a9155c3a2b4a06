package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	set(&cfg.Display, raw.Display)

	set(&cfg.Window.ID, raw.Window.ID)
	set(&cfg.Window.Title, raw.Window.Title)

	s := raw.Startup
	set(&cfg.Startup.Title, s.Title)
	set(&cfg.Startup.Geometry.X, s.Geometry.X)
	set(&cfg.Startup.Geometry.Y, s.Geometry.Y)
	set(&cfg.Startup.Geometry.Width, s.Geometry.Width)
	set(&cfg.Startup.Geometry.Height, s.Geometry.Height)
	set(&cfg.Startup.Geometry.Client, s.Geometry.Client)
	set(&cfg.Startup.DisableMaximizeButton, s.DisableMaximizeButton)
	set(&cfg.Startup.DisableMinimizeButton, s.DisableMinimizeButton)
	set(&cfg.Startup.DisableResize, s.DisableResize)
	set(&cfg.Startup.Maximize, s.Maximize)
	set(&cfg.Startup.Fullscreen, s.Fullscreen)
	set(&cfg.Startup.ClipCursor, s.ClipCursor)
	set(&cfg.Startup.HideCursor, s.HideCursor)

	set(&cfg.Hotkeys.ToggleFullscreen, raw.Hotkeys.ToggleFullscreen)
	set(&cfg.Hotkeys.ToggleMaximize, raw.Hotkeys.ToggleMaximize)
	set(&cfg.Hotkeys.ClipCursor, raw.Hotkeys.ClipCursor)
	set(&cfg.Hotkeys.RestoreCursorClip, raw.Hotkeys.RestoreCursorClip)

	set(&cfg.IPC.Socket, raw.IPC.Socket)
	set(&cfg.IPC.WatchBuffer, raw.IPC.WatchBuffer)

	set(&cfg.Logging.Level, raw.Logging.Level)
	set(&cfg.Logging.Format, raw.Logging.Format)
	set(&cfg.Logging.File, raw.Logging.File)
	return cfg
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
