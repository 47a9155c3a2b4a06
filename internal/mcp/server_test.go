package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/winstate/internal/desktop"
	"github.com/1broseidon/winstate/internal/ipc"
	"github.com/1broseidon/winstate/internal/platform"
)

type fakeDaemon struct {
	calls    []string
	lastSize [5]int
	err      error
}

func (f *fakeDaemon) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	f.record("status")
	return &ipc.StatusData{
		Status: desktop.Status{
			WindowID:  42,
			State:     "maximized",
			Maximized: true,
			Style:     []string{"caption"},
		},
		UptimeSeconds: 7,
	}, f.err
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	f.record("monitors")
	return &ipc.MonitorsData{Monitors: []platform.Display{{Name: "A", Primary: true}}}, f.err
}

func (f *fakeDaemon) ToggleFullscreen() (*ipc.StateData, error) {
	f.record("fullscreen")
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StateData{State: "fullscreen", Fullscreen: true}, nil
}

func (f *fakeDaemon) ToggleMaximize() (*ipc.StateData, error) {
	f.record("maximize")
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StateData{State: "maximized", Maximized: true}, nil
}

func (f *fakeDaemon) Disable(target string) error {
	f.record("disable:" + target)
	return f.err
}

func (f *fakeDaemon) SetWindowSize(x, y, width, height int, client bool) (platform.Rect, error) {
	f.record("size")
	c := 0
	if client {
		c = 1
	}
	f.lastSize = [5]int{x, y, width, height, c}
	return platform.Rect{X: 1, Y: 2, Width: width, Height: height}, f.err
}

func (f *fakeDaemon) GetWindowSize() (platform.Rect, error) {
	f.record("get_size")
	return platform.Rect{X: 10, Y: 20, Width: 300, Height: 200}, f.err
}

func (f *fakeDaemon) ClipCursor() error {
	f.record("clip")
	return f.err
}

func (f *fakeDaemon) RestoreCursorClip() error {
	f.record("unclip")
	return f.err
}

func (f *fakeDaemon) SetTitle(string) error {
	f.record("title")
	return f.err
}

func (f *fakeDaemon) MoveCursor(int, int) error {
	f.record("move")
	return f.err
}

func (f *fakeDaemon) SetCursorPos(int, int) error {
	f.record("pos")
	return f.err
}

func (f *fakeDaemon) SetCursorVisible(bool) error {
	f.record("visible")
	return f.err
}

func intPtr(v int) *int { return &v }

func TestNewServer_Registers(t *testing.T) {
	s := NewServer(&fakeDaemon{})
	if s.mcpServer == nil {
		t.Fatalf("expected mcp server")
	}
}

func TestHandleGetStatus(t *testing.T) {
	s := NewServer(&fakeDaemon{})
	_, out, err := s.handleGetStatus(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out.WindowID != 42 || out.State != "maximized" || !out.Maximized || out.UptimeSeconds != 7 {
		t.Fatalf("unexpected status %#v", out)
	}
}

func TestHandleToggles(t *testing.T) {
	f := &fakeDaemon{}
	s := NewServer(f)

	_, out, err := s.handleToggleFullscreen(context.Background(), nil, EmptyInput{})
	if err != nil || !out.Fullscreen {
		t.Fatalf("fullscreen: %#v %v", out, err)
	}
	_, out, err = s.handleToggleMaximize(context.Background(), nil, EmptyInput{})
	if err != nil || !out.Maximized {
		t.Fatalf("maximize: %#v %v", out, err)
	}

	f.err = errors.New("transition already in progress")
	if _, _, err := s.handleToggleFullscreen(context.Background(), nil, EmptyInput{}); err == nil {
		t.Fatalf("expected daemon error to surface")
	}
}

func TestHandleSetWindowSize(t *testing.T) {
	f := &fakeDaemon{}
	s := NewServer(f)

	_, out, err := s.handleSetWindowSize(context.Background(), nil, SetWindowSizeInput{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("centered: %v", err)
	}
	if f.lastSize != [5]int{-1, 0, 640, 480, 0} {
		t.Fatalf("expected centered request, got %v", f.lastSize)
	}
	if out.Width != 640 || out.Height != 480 {
		t.Fatalf("unexpected output %#v", out)
	}

	if _, _, err := s.handleSetWindowSize(context.Background(), nil, SetWindowSizeInput{X: intPtr(5), Y: 6, Width: 100, Height: 50, Client: true}); err != nil {
		t.Fatalf("explicit: %v", err)
	}
	if f.lastSize != [5]int{5, 6, 100, 50, 1} {
		t.Fatalf("expected explicit client request, got %v", f.lastSize)
	}

	if _, _, err := s.handleSetWindowSize(context.Background(), nil, SetWindowSizeInput{Width: 0, Height: 50}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestHandleDisable(t *testing.T) {
	f := &fakeDaemon{}
	s := NewServer(f)

	if _, out, err := s.handleDisable(context.Background(), nil, DisableInput{Target: " Resize "}); err != nil || !out.OK {
		t.Fatalf("disable resize: %#v %v", out, err)
	}
	if f.calls[len(f.calls)-1] != "disable:resize" {
		t.Fatalf("expected normalized target, got %v", f.calls)
	}
	if _, _, err := s.handleDisable(context.Background(), nil, DisableInput{Target: "close"}); err == nil {
		t.Fatalf("expected unknown target error")
	}
}

func TestHandleMoveCursor(t *testing.T) {
	f := &fakeDaemon{}
	s := NewServer(f)

	s.handleMoveCursor(context.Background(), nil, MoveCursorInput{X: 1, Y: 2})
	s.handleMoveCursor(context.Background(), nil, MoveCursorInput{X: 1, Y: 2, Screen: true})
	if len(f.calls) != 2 || f.calls[0] != "move" || f.calls[1] != "pos" {
		t.Fatalf("unexpected calls %v", f.calls)
	}
}

func TestHandleListMonitors(t *testing.T) {
	s := NewServer(&fakeDaemon{})
	_, out, err := s.handleListMonitors(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if len(out.Monitors) != 1 || out.Monitors[0].Name != "A" {
		t.Fatalf("unexpected monitors %#v", out.Monitors)
	}
}
