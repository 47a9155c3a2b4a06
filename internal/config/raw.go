package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig mirrors Config with pointer fields so that a file can override
// only what it sets.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Display *string          `yaml:"display"`
	Window  RawWindowConfig  `yaml:"window"`
	Startup RawStartupConfig `yaml:"startup"`
	Hotkeys RawHotkeyConfig  `yaml:"hotkeys"`
	IPC     RawIPCConfig     `yaml:"ipc"`
	Logging RawLoggingConfig `yaml:"logging"`
}

type RawWindowConfig struct {
	ID    *uint64 `yaml:"id"`
	Title *string `yaml:"title"`
}

type RawGeometryConfig struct {
	X      *string `yaml:"x"`
	Y      *string `yaml:"y"`
	Width  *string `yaml:"width"`
	Height *string `yaml:"height"`
	Client *bool   `yaml:"client"`
}

type RawStartupConfig struct {
	Title                 *string           `yaml:"title"`
	Geometry              RawGeometryConfig `yaml:"geometry"`
	DisableMaximizeButton *bool             `yaml:"disable_maximize_button"`
	DisableMinimizeButton *bool             `yaml:"disable_minimize_button"`
	DisableResize         *bool             `yaml:"disable_resize"`
	Maximize              *bool             `yaml:"maximize"`
	Fullscreen            *bool             `yaml:"fullscreen"`
	ClipCursor            *bool             `yaml:"clip_cursor"`
	HideCursor            *bool             `yaml:"hide_cursor"`
}

type RawHotkeyConfig struct {
	ToggleFullscreen  *string `yaml:"toggle_fullscreen"`
	ToggleMaximize    *string `yaml:"toggle_maximize"`
	ClipCursor        *string `yaml:"clip_cursor"`
	RestoreCursorClip *string `yaml:"restore_cursor_clip"`
}

type RawIPCConfig struct {
	Socket      *string `yaml:"socket"`
	WatchBuffer *int    `yaml:"watch_buffer"`
}

type RawLoggingConfig struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	File   *string `yaml:"file"`
}

// merge returns c with every field set in overlay replacing c's value.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	pick(&out.Display, overlay.Display)

	pick(&out.Window.ID, overlay.Window.ID)
	pick(&out.Window.Title, overlay.Window.Title)

	pick(&out.Startup.Title, overlay.Startup.Title)
	pick(&out.Startup.Geometry.X, overlay.Startup.Geometry.X)
	pick(&out.Startup.Geometry.Y, overlay.Startup.Geometry.Y)
	pick(&out.Startup.Geometry.Width, overlay.Startup.Geometry.Width)
	pick(&out.Startup.Geometry.Height, overlay.Startup.Geometry.Height)
	pick(&out.Startup.Geometry.Client, overlay.Startup.Geometry.Client)
	pick(&out.Startup.DisableMaximizeButton, overlay.Startup.DisableMaximizeButton)
	pick(&out.Startup.DisableMinimizeButton, overlay.Startup.DisableMinimizeButton)
	pick(&out.Startup.DisableResize, overlay.Startup.DisableResize)
	pick(&out.Startup.Maximize, overlay.Startup.Maximize)
	pick(&out.Startup.Fullscreen, overlay.Startup.Fullscreen)
	pick(&out.Startup.ClipCursor, overlay.Startup.ClipCursor)
	pick(&out.Startup.HideCursor, overlay.Startup.HideCursor)

	pick(&out.Hotkeys.ToggleFullscreen, overlay.Hotkeys.ToggleFullscreen)
	pick(&out.Hotkeys.ToggleMaximize, overlay.Hotkeys.ToggleMaximize)
	pick(&out.Hotkeys.ClipCursor, overlay.Hotkeys.ClipCursor)
	pick(&out.Hotkeys.RestoreCursorClip, overlay.Hotkeys.RestoreCursorClip)

	pick(&out.IPC.Socket, overlay.IPC.Socket)
	pick(&out.IPC.WatchBuffer, overlay.IPC.WatchBuffer)

	pick(&out.Logging.Level, overlay.Logging.Level)
	pick(&out.Logging.Format, overlay.Logging.Format)
	pick(&out.Logging.File, overlay.Logging.File)
	return out
}

func pick[T any](dst **T, overlay *T) {
	if overlay != nil {
		*dst = overlay
	}
}
