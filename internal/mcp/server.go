// Package mcp exposes the running daemon's window commands as MCP tools.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winstate/internal/ipc"
	"github.com/1broseidon/winstate/internal/platform"
)

const (
	ServerName    = "winstate"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	ToggleFullscreen() (*ipc.StateData, error)
	ToggleMaximize() (*ipc.StateData, error)
	Disable(target string) error
	SetWindowSize(x, y, width, height int, client bool) (platform.Rect, error)
	GetWindowSize() (platform.Rect, error)
	ClipCursor() error
	RestoreCursorClip() error
	SetTitle(title string) error
	MoveCursor(x, y int) error
	SetCursorPos(x, y int) error
	SetCursorVisible(visible bool) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for winstate.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that forwards every tool to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the managed window's presentation state (windowed, maximized, fullscreen or conflict), its bounds, its restored rectangle, its chrome and whether the pointer is inside it.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_fullscreen",
		Description: "Enter or leave borderless fullscreen on the window's monitor. Leaving restores the previous rectangle. A maximized window is restored first.",
	}, s.handleToggleFullscreen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Maximize or restore the window. A fullscreen window leaves fullscreen first.",
	}, s.handleToggleMaximize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_size",
		Description: "Move and resize the window. Omit x to center it on the primary display. Returns the new restored rectangle.",
	}, s.handleSetWindowSize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window_size",
		Description: "Return the window's restored rectangle. While maximized or fullscreen this is the rectangle it returns to.",
	}, s.handleGetWindowSize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "disable",
		Description: "Remove the maximize button, the minimize button or the resize border from the window.",
	}, s.handleDisable)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clip_cursor",
		Description: "Confine the pointer to the window's current bounds.",
	}, s.handleClipCursor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_cursor_clip",
		Description: "Release the pointer to the confinement it had when the daemon attached.",
	}, s.handleRestoreCursorClip)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_title",
		Description: "Change the window title.",
	}, s.handleSetTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_cursor",
		Description: "Move the pointer, either within the client area (clamped to it) or to absolute screen coordinates.",
	}, s.handleMoveCursor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_cursor_visible",
		Description: "Show or hide the pointer.",
	}, s.handleSetCursorVisible)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected displays with their bounds and usable work areas.",
	}, s.handleListMonitors)
}
