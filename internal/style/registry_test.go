package style

import (
	"io"
	"testing"

	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

func newTestRegistry() (*Registry, *platform.Simulated) {
	sim := platform.NewSimulated(platform.Rect{Width: 640, Height: 480})
	return NewRegistry(sim, log.New(io.Discard)), sim
}

func TestClearLeavesOtherBits(t *testing.T) {
	tests := []struct {
		name string
		bit  platform.StyleFlags
	}{
		{"resize", platform.StyleSizeBox},
		{"maximize", platform.StyleMaximizeBox},
		{"minimize", platform.StyleMinimizeBox},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRegistry()
			before := r.Get()
			if !r.Clear(tt.bit) {
				t.Fatal("Clear failed")
			}
			if got, want := r.Get(), before&^tt.bit; got != want {
				t.Fatalf("style = %05b, want %05b", got, want)
			}
			if !r.HasOverlappedChrome() {
				t.Fatal("clearing one bit should keep the window chromed")
			}
		})
	}
}

func TestClearAllChrome(t *testing.T) {
	r, _ := newTestRegistry()
	r.Clear(platform.StyleOverlappedWindow)
	if r.HasOverlappedChrome() {
		t.Fatal("expected no chrome")
	}
	r.Add(platform.StyleOverlappedWindow)
	if r.Get() != platform.StyleOverlappedWindow {
		t.Fatalf("style = %05b after Add", r.Get())
	}
}

func TestSetFailure(t *testing.T) {
	r, sim := newTestRegistry()
	sim.FailSetStyle = true
	if r.Set(0) {
		t.Fatal("Set should report failure")
	}
	if r.Get() != platform.StyleOverlappedWindow {
		t.Fatal("failed Set must not change the style")
	}
}
