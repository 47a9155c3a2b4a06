package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/ipc"
	"github.com/1broseidon/winstate/internal/platform"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		WindowID:      uint64(st.WindowID),
		State:         st.State,
		Fullscreen:    st.Fullscreen,
		Maximized:     st.Maximized,
		MouseInside:   st.MouseInside,
		Bounds:        st.Bounds,
		Normal:        st.Normal,
		Style:         st.Style,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleToggleFullscreen(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	return toState(s.daemon.ToggleFullscreen())
}

func (s *Server) handleToggleMaximize(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	return toState(s.daemon.ToggleMaximize())
}

func toState(st *ipc.StateData, err error) (*mcpsdk.CallToolResult, StateOutput, error) {
	if err != nil {
		return nil, StateOutput{}, err
	}
	return nil, StateOutput{
		State:      st.State,
		Fullscreen: st.Fullscreen,
		Maximized:  st.Maximized,
	}, nil
}

func (s *Server) handleSetWindowSize(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowSizeInput) (*mcpsdk.CallToolResult, RectOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, RectOutput{}, fmt.Errorf("width and height must be positive, got %dx%d", args.Width, args.Height)
	}
	x, y := config.CenterX, 0
	if args.X != nil {
		x, y = *args.X, args.Y
	}
	rect, err := s.daemon.SetWindowSize(x, y, args.Width, args.Height, args.Client)
	if err != nil {
		return nil, RectOutput{}, err
	}
	return nil, rectOutput(rect), nil
}

func (s *Server) handleGetWindowSize(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, RectOutput, error) {
	rect, err := s.daemon.GetWindowSize()
	if err != nil {
		return nil, RectOutput{}, err
	}
	return nil, rectOutput(rect), nil
}

func rectOutput(r platform.Rect) RectOutput {
	return RectOutput{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (s *Server) handleDisable(_ context.Context, _ *mcpsdk.CallToolRequest, args DisableInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	target := strings.ToLower(strings.TrimSpace(args.Target))
	switch target {
	case ipc.DisableMaximize, ipc.DisableMinimize, ipc.DisableResize:
	default:
		return nil, AckOutput{}, fmt.Errorf("unknown target %q (valid: maximize, minimize, resize)", args.Target)
	}
	return ack(s.daemon.Disable(target))
}

func (s *Server) handleClipCursor(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	return ack(s.daemon.ClipCursor())
}

func (s *Server) handleRestoreCursorClip(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	return ack(s.daemon.RestoreCursorClip())
}

func (s *Server) handleSetTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args SetTitleInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	return ack(s.daemon.SetTitle(args.Title))
}

func (s *Server) handleMoveCursor(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveCursorInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if args.Screen {
		return ack(s.daemon.SetCursorPos(args.X, args.Y))
	}
	return ack(s.daemon.MoveCursor(args.X, args.Y))
}

func (s *Server) handleSetCursorVisible(_ context.Context, _ *mcpsdk.CallToolRequest, args SetCursorVisibleInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	return ack(s.daemon.SetCursorVisible(args.Visible))
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, MonitorsOutput{}, err
	}
	return nil, MonitorsOutput{Monitors: data.Monitors}, nil
}

func ack(err error) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}
