package ipc

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/winstate/internal/desktop"
	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/uithread"
	"github.com/charmbracelet/log"
)

type harness struct {
	sim    *platform.Simulated
	bus    *events.Bus
	server *Server
	client *Client
	reload chan struct{}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	sim := platform.NewSimulated(platform.Rect{X: 100, Y: 100, Width: 800, Height: 600})
	bus := events.NewBus()
	logger := log.New(io.Discard)
	ctrl := desktop.New(sim, bus, logger)

	disp := uithread.New(0)
	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		sim.Run(ctx, disp.Calls())
	}()
	if err := disp.Do(ctx, func() error { ctrl.Init(); return nil }); err != nil {
		t.Fatalf("init: %v", err)
	}

	reload := make(chan struct{}, 1)
	socket := filepath.Join(t.TempDir(), "s.sock")
	server, err := NewServer(ServerOptions{SocketPath: socket, WatchBuffer: 8}, ctrl, disp, bus, reload, logger)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	t.Cleanup(func() {
		server.Stop()
		disp.Stop()
		cancel()
		<-loopDone
	})

	return &harness{
		sim:    sim,
		bus:    bus,
		server: server,
		client: NewClientAt(socket),
		reload: reload,
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"SET_TITLE","payload":{"title":"x"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Command != CommandSetTitle {
		t.Fatalf("expected SET_TITLE, got %q", req.Command)
	}
	if _, err := ParseRequest([]byte(`{}`)); err == nil {
		t.Fatalf("expected error for missing command")
	}
	if _, err := ParseRequest([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestNewOKResponse(t *testing.T) {
	resp, err := NewOKResponse(StateData{State: "fullscreen", Fullscreen: true})
	if err != nil {
		t.Fatalf("ok response: %v", err)
	}
	if resp.Status != StatusOK {
		t.Fatalf("expected OK, got %q", resp.Status)
	}
	var data StateData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !data.Fullscreen || data.State != "fullscreen" {
		t.Fatalf("unexpected data %#v", data)
	}

	empty, err := NewOKResponse(nil)
	if err != nil {
		t.Fatalf("empty response: %v", err)
	}
	if len(empty.Data) != 0 {
		t.Fatalf("expected no data, got %s", empty.Data)
	}
}

func TestServer_StatusAndToggles(t *testing.T) {
	h := newHarness(t)

	status, err := h.client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.DaemonRunning || status.State != "windowed" || !status.Intercept {
		t.Fatalf("unexpected status %#v", status)
	}
	if status.Bounds != (platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}) {
		t.Fatalf("unexpected bounds %#v", status.Bounds)
	}

	state, err := h.client.ToggleFullscreen()
	if err != nil {
		t.Fatalf("toggle fullscreen: %v", err)
	}
	if !state.Fullscreen || state.Maximized || state.State != "fullscreen" {
		t.Fatalf("unexpected state after fullscreen %#v", state)
	}

	state, err = h.client.ToggleMaximize()
	if err != nil {
		t.Fatalf("toggle maximize: %v", err)
	}
	if state.Fullscreen || !state.Maximized {
		t.Fatalf("expected maximized only, got %#v", state)
	}

	state, err = h.client.ToggleMaximize()
	if err != nil {
		t.Fatalf("toggle maximize back: %v", err)
	}
	if state.State != "windowed" {
		t.Fatalf("expected windowed, got %#v", state)
	}

	rect, err := h.client.GetWindowSize()
	if err != nil {
		t.Fatalf("get size: %v", err)
	}
	if rect != (platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}) {
		t.Fatalf("expected original rect, got %#v", rect)
	}
}

func TestServer_SetWindowSizeCentered(t *testing.T) {
	h := newHarness(t)

	rect, err := h.client.SetWindowSize(-1, 0, 640, 480, false)
	if err != nil {
		t.Fatalf("set size: %v", err)
	}
	want := platform.Rect{X: (1920 - 640) / 2, Y: (1080 - 480) / 2, Width: 640, Height: 480}
	if rect != want {
		t.Fatalf("expected %#v, got %#v", want, rect)
	}

	if _, err := h.client.SetWindowSize(0, 0, 0, 480, false); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestServer_DisableAndTitle(t *testing.T) {
	h := newHarness(t)

	if err := h.client.Disable(DisableResize); err != nil {
		t.Fatalf("disable resize: %v", err)
	}
	if h.sim.Style().Has(platform.StyleSizeBox) {
		t.Fatalf("expected resize border removed")
	}
	if err := h.client.Disable("close"); err == nil || !strings.Contains(err.Error(), "Unknown disable target") {
		t.Fatalf("expected unknown target error, got %v", err)
	}

	if err := h.client.SetTitle("hello"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	status, err := h.client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, name := range status.Style {
		if name == "resize" {
			t.Fatalf("expected resize missing from style %v", status.Style)
		}
	}
}

func TestServer_CursorCommands(t *testing.T) {
	h := newHarness(t)

	if err := h.client.ClipCursor(); err != nil {
		t.Fatalf("clip: %v", err)
	}
	if err := h.client.SetCursorPos(0, 0); err != nil {
		t.Fatalf("set pos: %v", err)
	}
	if x, y := h.sim.CursorPos(); x != 100 || y != 100 {
		t.Fatalf("expected cursor clamped to window corner, got %d,%d", x, y)
	}
	if err := h.client.RestoreCursorClip(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := h.client.SetCursorVisible(false); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if h.sim.CursorVisible() {
		t.Fatalf("expected hidden cursor")
	}
	if err := h.client.MoveCursor(10, 20); err != nil {
		t.Fatalf("move: %v", err)
	}
}

func TestServer_Monitors(t *testing.T) {
	h := newHarness(t)

	data, err := h.client.GetMonitors()
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if len(data.Monitors) != 1 || !data.Monitors[0].Primary {
		t.Fatalf("unexpected monitors %#v", data.Monitors)
	}
}

func TestServer_ReloadSignalsDaemon(t *testing.T) {
	h := newHarness(t)

	if err := h.client.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	select {
	case <-h.reload:
	default:
		t.Fatalf("expected reload signal")
	}
	// A second reload while one is pending still succeeds.
	if err := h.client.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestServer_WatchStreamsStateChanges(t *testing.T) {
	h := newHarness(t)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan events.Event, 4)
	done := make(chan error, 1)
	go func() {
		done <- h.client.Watch(ctx, func(ev events.Event) { got <- ev })
	}()

	deadline := time.Now().Add(2 * time.Second)
	for h.bus.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("watch never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := h.client.ToggleFullscreen(); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	select {
	case ev := <-got:
		if ev.Kind != events.StateChanged || ev.State != "fullscreen" {
			t.Fatalf("unexpected event %#v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event received")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not stop")
	}
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
