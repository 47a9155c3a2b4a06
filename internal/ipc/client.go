package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	return conn, nil
}

func writeRequest(conn net.Conn, command CommandType, payload any) error {
	req := Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	reqData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

func readResponse(reader *bufio.Reader) (*Response, error) {
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// sendRequest sends a request and decodes the response data into out when
// out is non-nil.
func (c *Client) sendRequest(command CommandType, payload any, out any) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := writeRequest(conn, command, payload); err != nil {
		return err
	}
	resp, err := readResponse(bufio.NewReader(conn))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.sendRequest(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.sendRequest(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.sendRequest(CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// ToggleFullscreen toggles fullscreen and returns the resulting state.
func (c *Client) ToggleFullscreen() (*StateData, error) {
	var state StateData
	if err := c.sendRequest(CommandToggleFullscreen, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ToggleMaximize toggles maximize and returns the resulting state.
func (c *Client) ToggleMaximize() (*StateData, error) {
	var state StateData
	if err := c.sendRequest(CommandToggleMaximize, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Disable removes a chrome element: DisableMaximize, DisableMinimize or
// DisableResize.
func (c *Client) Disable(target string) error {
	return c.sendRequest(CommandDisable, DisablePayload{Target: target}, nil)
}

// SetWindowSize resizes the window and returns its new normal rectangle.
// With client set, width and height describe the client area.
func (c *Client) SetWindowSize(x, y, width, height int, client bool) (platform.Rect, error) {
	var rect platform.Rect
	err := c.sendRequest(CommandSetWindowSize, SetWindowSizePayload{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Client: client,
	}, &rect)
	return rect, err
}

// GetWindowSize returns the window's normal rectangle.
func (c *Client) GetWindowSize() (platform.Rect, error) {
	var rect platform.Rect
	err := c.sendRequest(CommandGetWindowSize, nil, &rect)
	return rect, err
}

func (c *Client) ClipCursor() error {
	return c.sendRequest(CommandClipCursor, nil, nil)
}

func (c *Client) RestoreCursorClip() error {
	return c.sendRequest(CommandRestoreCursorClip, nil, nil)
}

func (c *Client) SetTitle(title string) error {
	return c.sendRequest(CommandSetTitle, SetTitlePayload{Title: title}, nil)
}

// MoveCursor moves the cursor relative to the client area.
func (c *Client) MoveCursor(x, y int) error {
	return c.sendRequest(CommandMoveCursor, PointPayload{X: x, Y: y}, nil)
}

// SetCursorPos moves the cursor to a screen position.
func (c *Client) SetCursorPos(x, y int) error {
	return c.sendRequest(CommandSetCursorPos, PointPayload{X: x, Y: y}, nil)
}

func (c *Client) SetCursorVisible(visible bool) error {
	return c.sendRequest(CommandSetCursorVisible, CursorVisiblePayload{Visible: visible}, nil)
}

// Watch streams daemon events to fn until ctx is done or the connection
// drops. A nil return means ctx ended the stream.
func (c *Client) Watch(ctx context.Context, fn func(events.Event)) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))
	if err := writeRequest(conn, CommandWatch, nil); err != nil {
		return err
	}
	reader := bufio.NewReader(conn)
	if _, err := readResponse(reader); err != nil {
		return err
	}
	conn.SetDeadline(time.Time{})

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	dec := json.NewDecoder(reader)
	for {
		var ev events.Event
		if err := dec.Decode(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("watch stream ended: %w", err)
		}
		fn(ev)
	}
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
