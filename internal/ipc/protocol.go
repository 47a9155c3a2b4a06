package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winstate/internal/desktop"
	"github.com/1broseidon/winstate/internal/platform"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload            CommandType = "RELOAD"
	CommandGetStatus         CommandType = "GET_STATUS"
	CommandGetMonitors       CommandType = "GET_MONITORS"
	CommandToggleFullscreen  CommandType = "TOGGLE_FULLSCREEN"
	CommandToggleMaximize    CommandType = "TOGGLE_MAXIMIZE"
	CommandDisable           CommandType = "DISABLE"
	CommandSetWindowSize     CommandType = "SET_WINDOW_SIZE"
	CommandGetWindowSize     CommandType = "GET_WINDOW_SIZE"
	CommandClipCursor        CommandType = "CLIP_CURSOR"
	CommandRestoreCursorClip CommandType = "RESTORE_CURSOR_CLIP"
	CommandSetTitle          CommandType = "SET_TITLE"
	CommandMoveCursor        CommandType = "MOVE_CURSOR"
	CommandSetCursorPos      CommandType = "SET_CURSOR_POS"
	CommandSetCursorVisible  CommandType = "SET_CURSOR_VISIBLE"
	// CommandWatch keeps the connection open and streams one JSON event per
	// line after the OK response.
	CommandWatch CommandType = "WATCH"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	desktop.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
	DaemonRunning bool  `json:"daemon_running"`
}

// StateData is returned by the toggle commands.
type StateData struct {
	State      string `json:"state"`
	Fullscreen bool   `json:"fullscreen"`
	Maximized  bool   `json:"maximized"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []platform.Display `json:"monitors"`
}

// Disable targets.
const (
	DisableMaximize = "maximize"
	DisableMinimize = "minimize"
	DisableResize   = "resize"
)

// DisablePayload names the chrome element to remove.
type DisablePayload struct {
	Target string `json:"target"`
}

// SetWindowSizePayload is the payload for SET_WINDOW_SIZE. X == -1 centers
// the window on the primary display.
type SetWindowSizePayload struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Client bool `json:"client,omitempty"`
}

type SetTitlePayload struct {
	Title string `json:"title"`
}

// PointPayload carries a cursor position for MOVE_CURSOR and SET_CURSOR_POS.
type PointPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type CursorVisiblePayload struct {
	Visible bool `json:"visible"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	return json.Unmarshal(payload, out)
}
