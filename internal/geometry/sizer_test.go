package geometry

import (
	"io"
	"testing"

	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

func newTestSizer() (*Sizer, *platform.Simulated) {
	sim := platform.NewSimulated(platform.Rect{X: 10, Y: 10, Width: 320, Height: 240})
	return NewSizer(sim, log.New(io.Discard)), sim
}

func TestSetWindowSize(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		want       platform.Rect
	}{
		{"explicit", 100, 100, 800, 600, platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}},
		{"centered", CenterSentinel, 0, 800, 600, platform.Rect{X: 560, Y: 240, Width: 800, Height: 600}},
		{"centered ignores y", CenterSentinel, 999, 1920, 1080, platform.Rect{Width: 1920, Height: 1080}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sim := newTestSizer()
			if err := s.SetWindowSize(tt.x, tt.y, tt.w, tt.h); err != nil {
				t.Fatal(err)
			}
			got, _ := sim.Bounds()
			if got != tt.want {
				t.Fatalf("bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSetClientSizeAddsFrame(t *testing.T) {
	s, sim := newTestSizer()
	if err := s.SetClientSize(50, 60, 800, 600); err != nil {
		t.Fatal(err)
	}
	client, _ := sim.ClientBounds()
	if client.Width != 800 || client.Height != 600 {
		t.Fatalf("client = %+v, want 800x600", client)
	}
	got, _ := sim.Bounds()
	if got.X != 50 || got.Y != 60 {
		t.Fatalf("origin = (%d,%d)", got.X, got.Y)
	}
}

func TestSetClientSizeChromeless(t *testing.T) {
	s, sim := newTestSizer()
	sim.SetStyle(0)
	if err := s.SetClientSize(CenterSentinel, 0, 800, 600); err != nil {
		t.Fatal(err)
	}
	got, _ := sim.Bounds()
	if got != (platform.Rect{X: 560, Y: 240, Width: 800, Height: 600}) {
		t.Fatalf("bounds = %+v", got)
	}
}

func TestWindowSizeReturnsNormalRect(t *testing.T) {
	s, sim := newTestSizer()
	s.SetWindowSize(100, 100, 800, 600)
	sim.Maximize()

	got, err := s.WindowSize()
	if err != nil {
		t.Fatal(err)
	}
	if got != (platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}) {
		t.Fatalf("WindowSize = %+v, want the restored rect", got)
	}
}
