package desktop

import (
	"io"
	"testing"

	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Emit(ev events.Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []events.Kind {
	out := make([]events.Kind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func newTestController() (*Controller, *platform.Simulated, *recorder) {
	sim := platform.NewSimulated(platform.Rect{X: 0, Y: 0, Width: 640, Height: 480})
	rec := &recorder{}
	c := New(sim, rec, log.New(io.Discard))
	c.Init()
	return c, sim, rec
}

func TestScenarioFullscreenRestoresWindowSize(t *testing.T) {
	c, _, _ := newTestController()

	if err := c.SetWindowSize(100, 100, 800, 600); err != nil {
		t.Fatal(err)
	}
	if err := c.ToggleFullscreen(); err != nil {
		t.Fatal(err)
	}
	if !c.IsFullscreen() {
		t.Fatal("expected fullscreen")
	}
	if err := c.ToggleFullscreen(); err != nil {
		t.Fatal(err)
	}
	if c.IsFullscreen() {
		t.Fatal("expected windowed")
	}

	got, err := c.GetWindowSize()
	if err != nil {
		t.Fatal(err)
	}
	if got != (platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}) {
		t.Fatalf("GetWindowSize = %+v", got)
	}
}

func TestFinalRestoresHandlerAndClip(t *testing.T) {
	c, sim, _ := newTestController()
	baseline, _ := sim.ClipRect()

	if sim.CurrentHandler() == platform.Handler(sim.Original()) {
		t.Fatal("Init should install the interceptor")
	}
	if err := c.ClipCursor(); err != nil {
		t.Fatal(err)
	}
	c.Final()

	if sim.CurrentHandler() != platform.Handler(sim.Original()) {
		t.Fatal("original handler not restored")
	}
	if got, _ := sim.ClipRect(); got != baseline {
		t.Fatalf("clip = %+v, want %+v", got, baseline)
	}
}

func TestInitTwiceAndFinalWithoutInit(t *testing.T) {
	sim := platform.NewSimulated(platform.Rect{Width: 640, Height: 480})
	c := New(sim, nil, log.New(io.Discard))
	c.Final()
	if sim.CurrentHandler() != platform.Handler(sim.Original()) {
		t.Fatal("Final without Init must not touch the pipeline")
	}

	c.Init()
	installed := sim.CurrentHandler()
	c.Init()
	if sim.CurrentHandler() != installed {
		t.Fatal("second Init must not install a second interceptor")
	}
	c.Final()
	if sim.CurrentHandler() != platform.Handler(sim.Original()) {
		t.Fatal("handler not restored after double Init")
	}
}

func TestInitRetriesFailedInstall(t *testing.T) {
	sim := platform.NewSimulated(platform.Rect{Width: 640, Height: 480})
	c := New(sim, nil, log.New(io.Discard))

	sim.FailSwap = true
	c.Init()
	if c.Status().Intercept {
		t.Fatal("install should have failed")
	}

	sim.FailSwap = false
	c.Init()
	if !c.Status().Intercept {
		t.Fatal("second Init should install the interceptor")
	}
	sim.MovePointer(10, 10)
	if !c.IsMouseInsideWindow() {
		t.Fatal("expected pointer tracking after the retried install")
	}
}

func TestInitRecapturesClipBaseline(t *testing.T) {
	c, sim, _ := newTestController()

	moved := platform.Rect{X: 10, Y: 10, Width: 100, Height: 100}
	sim.SetClipRect(moved)
	c.Init()

	if err := c.ClipCursor(); err != nil {
		t.Fatal(err)
	}
	if err := c.RestoreCursorClip(); err != nil {
		t.Fatal(err)
	}
	if got, _ := sim.ClipRect(); got != moved {
		t.Fatalf("clip = %+v, want the re-captured %+v", got, moved)
	}
}

func TestInitClearsMouseInside(t *testing.T) {
	c, sim, rec := newTestController()
	sim.MovePointer(10, 10)
	if !c.IsMouseInsideWindow() {
		t.Fatal("expected inside")
	}
	c.Init()
	if c.IsMouseInsideWindow() {
		t.Fatal("Init should reset the inside flag")
	}
	sim.MovePointer(12, 12)
	if n := len(rec.kinds()); n == 0 || rec.kinds()[n-1] != events.MouseEnter {
		t.Fatalf("expected a fresh MouseEnter, got %v", rec.kinds())
	}
}

func TestDisableCommandsClearOneBit(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Controller) error
		bit  platform.StyleFlags
	}{
		{"resize", (*Controller).DisableResize, platform.StyleSizeBox},
		{"maximize", (*Controller).DisableMaximizeButton, platform.StyleMaximizeBox},
		{"minimize", (*Controller).DisableMinimizeButton, platform.StyleMinimizeBox},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sim, _ := newTestController()
			before := sim.Style()
			if err := tt.run(c); err != nil {
				t.Fatal(err)
			}
			if got := sim.Style(); got != before&^tt.bit {
				t.Fatalf("style = %05b, want %05b", got, before&^tt.bit)
			}
			if c.IsFullscreen() {
				t.Fatal("disabling one bit must not look fullscreen")
			}
		})
	}
}

func TestMouseEnterLeaveEvents(t *testing.T) {
	c, sim, rec := newTestController()

	sim.MovePointer(10, 10)
	if !c.IsMouseInsideWindow() {
		t.Fatal("expected inside")
	}
	sim.MovePointer(20, 10)
	sim.MovePointer(2000, 10)
	if c.IsMouseInsideWindow() {
		t.Fatal("expected outside")
	}

	kinds := rec.kinds()
	if len(kinds) != 2 || kinds[0] != events.MouseEnter || kinds[1] != events.MouseLeave {
		t.Fatalf("events = %v", kinds)
	}
}

func TestToggleEmitsStateChanged(t *testing.T) {
	c, _, rec := newTestController()
	if err := c.ToggleMaximize(); err != nil {
		t.Fatal(err)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != events.StateChanged || rec.events[0].State != "maximized" {
		t.Fatalf("events = %+v", rec.events)
	}
}

func TestMaximizeThenGetWindowSize(t *testing.T) {
	c, _, _ := newTestController()
	c.SetWindowSize(geometry.CenterSentinel, 0, 800, 600)
	c.ToggleMaximize()

	got, _ := c.GetWindowSize()
	if got != (platform.Rect{X: 560, Y: 240, Width: 800, Height: 600}) {
		t.Fatalf("GetWindowSize while maximized = %+v", got)
	}
	st := c.Status()
	if !st.Maximized || st.State != "maximized" || st.Normal != got {
		t.Fatalf("status = %+v", st)
	}
}

func TestStatusReportsStyle(t *testing.T) {
	c, _, _ := newTestController()
	c.DisableResize()
	st := c.Status()
	for _, name := range st.Style {
		if name == "resize" {
			t.Fatalf("style %v still lists resize", st.Style)
		}
	}
	if !st.Intercept {
		t.Fatal("interceptor should be reported installed")
	}
}

func TestDisableResizeSurvivesFullscreenRoundTrip(t *testing.T) {
	c, sim, _ := newTestController()
	if err := c.DisableResize(); err != nil {
		t.Fatal(err)
	}
	before := sim.Style()

	for range 2 {
		if err := c.ToggleFullscreen(); err != nil {
			t.Fatal(err)
		}
	}
	if got := sim.Style(); got != before {
		t.Fatalf("style = %v, want %v", got.Names(), before.Names())
	}
	if got := sim.Style(); got&platform.StyleSizeBox != 0 {
		t.Fatal("resize came back after fullscreen")
	}
}
