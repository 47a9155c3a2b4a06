package platform

import (
	"context"
	"testing"
	"time"
)

func TestSimulatedMaximizeUsesWorkArea(t *testing.T) {
	s := NewSimulated(Rect{X: 100, Y: 100, Width: 800, Height: 600})
	if !s.Maximize() {
		t.Fatal("Maximize failed")
	}
	if !s.IsZoomed() {
		t.Fatal("expected zoomed after Maximize")
	}
	bounds, _ := s.Bounds()
	if bounds != (Rect{Width: 1920, Height: 1040}) {
		t.Fatalf("maximized bounds = %+v", bounds)
	}
	p, _ := s.Placement()
	if p.Normal != (Rect{X: 100, Y: 100, Width: 800, Height: 600}) {
		t.Fatalf("normal rect lost: %+v", p.Normal)
	}
}

func TestSimulatedMonitorPicksContainingDisplay(t *testing.T) {
	left := Display{ID: 0, Bounds: Rect{Width: 1920, Height: 1080}, Usable: Rect{Width: 1920, Height: 1040}, Primary: true}
	right := Display{ID: 1, Bounds: Rect{X: 1920, Width: 2560, Height: 1440}, Usable: Rect{X: 1920, Width: 2560, Height: 1400}}
	s := NewSimulated(Rect{X: 2000, Y: 100, Width: 800, Height: 600}, left, right)

	mon, ok := s.Monitor()
	if !ok || mon != right.Bounds {
		t.Fatalf("Monitor() = %+v, %v; want %+v", mon, ok, right.Bounds)
	}
	clip, _ := s.ClipRect()
	if clip != (Rect{Width: 4480, Height: 1440}) {
		t.Fatalf("initial clip should span both displays, got %+v", clip)
	}
}

func TestSimulatedFrameForMatchesClientBounds(t *testing.T) {
	s := NewSimulated(Rect{X: 0, Y: 0, Width: 816, Height: 639})
	client, _ := s.ClientBounds()
	if client != (Rect{Width: 800, Height: 600}) {
		t.Fatalf("client bounds = %+v", client)
	}
	frame := s.FrameFor(Rect{Width: 800, Height: 600}, s.Style())
	if frame.Width != 816 || frame.Height != 639 {
		t.Fatalf("FrameFor = %+v", frame)
	}
	if got := s.FrameFor(Rect{Width: 800, Height: 600}, 0); got != (Rect{Width: 800, Height: 600}) {
		t.Fatalf("chromeless FrameFor = %+v", got)
	}
}

func TestSimulatedLeaveIsOneShot(t *testing.T) {
	s := NewSimulated(Rect{X: 0, Y: 0, Width: 100, Height: 100})
	rec := &RecordingHandler{}
	if _, ok := s.SwapHandler(rec); !ok {
		t.Fatal("SwapHandler failed")
	}

	s.MovePointer(10, 10)
	s.TrackLeave()
	s.MovePointer(500, 500)
	s.MovePointer(20, 20)
	s.MovePointer(600, 600)

	var leaves int
	for _, m := range rec.Received {
		if m.Kind == MessagePointerLeave {
			leaves++
		}
	}
	if leaves != 1 {
		t.Fatalf("got %d leave messages, want 1", leaves)
	}
}

func TestSimulatedSetCursorPosClampsToClip(t *testing.T) {
	s := NewSimulated(Rect{Width: 100, Height: 100})
	s.SetClipRect(Rect{X: 10, Y: 10, Width: 50, Height: 50})
	s.SetCursorPos(0, 500)
	if x, y := s.CursorPos(); x != 10 || y != 60 {
		t.Fatalf("cursor = (%d,%d)", x, y)
	}
	if s.SetClipRect(Rect{}) {
		t.Fatal("empty clip rect should be rejected")
	}
}

func TestSimulatedRunExecutesCalls(t *testing.T) {
	s := NewSimulated(Rect{Width: 100, Height: 100})
	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan func())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, calls) }()

	ran := make(chan struct{})
	calls <- func() { close(ran) }
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("call was not executed")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}
