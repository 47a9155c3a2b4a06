package mcp

import "github.com/1broseidon/winstate/internal/platform"

// EmptyInput is the input for tools without arguments.
type EmptyInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	WindowID      uint64        `json:"window_id"`
	State         string        `json:"state"`
	Fullscreen    bool          `json:"fullscreen"`
	Maximized     bool          `json:"maximized"`
	MouseInside   bool          `json:"mouse_inside"`
	Bounds        platform.Rect `json:"bounds"`
	Normal        platform.Rect `json:"normal"`
	Style         []string      `json:"style"`
	UptimeSeconds int64         `json:"uptime_seconds"`
}

// StateOutput is the output for the toggle tools.
type StateOutput struct {
	State      string `json:"state"`
	Fullscreen bool   `json:"fullscreen"`
	Maximized  bool   `json:"maximized"`
}

// SetWindowSizeInput is the input for the set_window_size tool.
type SetWindowSizeInput struct {
	Width  int  `json:"width" jsonschema:"required,Width in pixels"`
	Height int  `json:"height" jsonschema:"required,Height in pixels"`
	X      *int `json:"x,omitempty" jsonschema:"Left edge in screen coordinates. Omit to center the window on the primary display."`
	Y      int  `json:"y,omitempty" jsonschema:"Top edge in screen coordinates. Ignored when x is omitted."`
	Client bool `json:"client,omitempty" jsonschema:"When true, width and height describe the client area instead of the outer window"`
}

// RectOutput is a window rectangle.
type RectOutput struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DisableInput is the input for the disable tool.
type DisableInput struct {
	Target string `json:"target" jsonschema:"required,One of maximize, minimize or resize"`
}

// SetTitleInput is the input for the set_title tool.
type SetTitleInput struct {
	Title string `json:"title" jsonschema:"required,New window title"`
}

// MoveCursorInput is the input for the move_cursor tool.
type MoveCursorInput struct {
	X      int  `json:"x" jsonschema:"required,Horizontal position"`
	Y      int  `json:"y" jsonschema:"required,Vertical position"`
	Screen bool `json:"screen,omitempty" jsonschema:"When true, x and y are screen coordinates; otherwise they are relative to the client area and clamped to it"`
}

// SetCursorVisibleInput is the input for the set_cursor_visible tool.
type SetCursorVisibleInput struct {
	Visible bool `json:"visible" jsonschema:"Whether the cursor should be shown"`
}

// AckOutput reports a completed command.
type AckOutput struct {
	OK bool `json:"ok"`
}

// MonitorsOutput is the output for the list_monitors tool.
type MonitorsOutput struct {
	Monitors []platform.Display `json:"monitors"`
}
