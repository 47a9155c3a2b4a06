package transition

import (
	"errors"
	"io"
	"testing"

	"github.com/1broseidon/winstate/internal/placement"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/style"
	"github.com/charmbracelet/log"
)

var start = platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}

func newTestMachine() (*Machine, *platform.Simulated) {
	sim := platform.NewSimulated(start)
	logger := log.New(io.Discard)
	styles := style.NewRegistry(sim, logger)
	store := placement.NewStore(sim, logger)
	return NewMachine(sim, styles, store, logger), sim
}

func bounds(t *testing.T, sim *platform.Simulated) platform.Rect {
	t.Helper()
	r, ok := sim.Bounds()
	if !ok {
		t.Fatal("Bounds failed")
	}
	return r
}

func TestFullscreenRoundTrip(t *testing.T) {
	m, sim := newTestMachine()

	if err := m.ToggleFullscreen(); err != nil {
		t.Fatalf("enter fullscreen: %v", err)
	}
	if !m.IsFullscreen() || m.IsMaximized() {
		t.Fatalf("state = %v after first toggle", m.State())
	}
	if got := bounds(t, sim); got != (platform.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("fullscreen bounds = %+v, want full monitor", got)
	}

	if err := m.ToggleFullscreen(); err != nil {
		t.Fatalf("exit fullscreen: %v", err)
	}
	if m.IsFullscreen() {
		t.Fatal("still fullscreen after second toggle")
	}
	if got := bounds(t, sim); got != start {
		t.Fatalf("bounds = %+v, want %+v", got, start)
	}
	if sim.Style() != platform.StyleOverlappedWindow {
		t.Fatalf("style = %05b after round trip", sim.Style())
	}
}

func TestMaximizeRoundTrip(t *testing.T) {
	m, sim := newTestMachine()

	if err := m.ToggleMaximize(); err != nil {
		t.Fatal(err)
	}
	if !m.IsMaximized() {
		t.Fatal("expected maximized")
	}
	if err := m.ToggleMaximize(); err != nil {
		t.Fatal(err)
	}
	if m.IsMaximized() {
		t.Fatal("expected restored")
	}
	if got := bounds(t, sim); got != start {
		t.Fatalf("bounds = %+v, want %+v", got, start)
	}
}

func TestMutualExclusion(t *testing.T) {
	sequences := [][]Event{
		{ToggleFullscreen, ToggleMaximize},
		{ToggleMaximize, ToggleFullscreen},
		{ToggleMaximize, ToggleFullscreen, ToggleMaximize, ToggleFullscreen},
		{ToggleFullscreen, ToggleMaximize, ToggleMaximize, ToggleFullscreen, ToggleFullscreen},
	}
	for _, seq := range sequences {
		m, _ := newTestMachine()
		for i, ev := range seq {
			if err := m.Fire(ev); err != nil {
				t.Fatalf("%v step %d: %v", seq, i, err)
			}
			if m.IsFullscreen() && m.IsMaximized() {
				t.Fatalf("%v step %d: fullscreen and maximized at once", seq, i)
			}
		}
	}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name  string
		setup []Event
		event Event
		want  State
	}{
		{"windowed fullscreen", nil, ToggleFullscreen, Fullscreen},
		{"windowed maximize", nil, ToggleMaximize, Maximized},
		{"fullscreen fullscreen", []Event{ToggleFullscreen}, ToggleFullscreen, Windowed},
		{"fullscreen maximize", []Event{ToggleFullscreen}, ToggleMaximize, Maximized},
		{"maximized fullscreen", []Event{ToggleMaximize}, ToggleFullscreen, Fullscreen},
		{"maximized maximize", []Event{ToggleMaximize}, ToggleMaximize, Windowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sim := newTestMachine()
			for _, ev := range tt.setup {
				if err := m.Fire(ev); err != nil {
					t.Fatal(err)
				}
			}
			if err := m.Fire(tt.event); err != nil {
				t.Fatal(err)
			}
			if got := m.State(); got != tt.want {
				t.Fatalf("state = %v, want %v", got, tt.want)
			}
			if tt.want == Windowed {
				if got := bounds(t, sim); got != start {
					t.Fatalf("bounds = %+v, want %+v", got, start)
				}
			}
		})
	}
}

func TestMaximizedToFullscreenAndBackRestoresWindowedRect(t *testing.T) {
	m, sim := newTestMachine()
	m.ToggleMaximize()
	m.ToggleFullscreen()
	m.ToggleFullscreen()
	if m.State() != Windowed {
		t.Fatalf("state = %v", m.State())
	}
	if got := bounds(t, sim); got != start {
		t.Fatalf("bounds = %+v, want %+v", got, start)
	}
}

func TestConflictResolves(t *testing.T) {
	m, sim := newTestMachine()
	m.ToggleFullscreen()
	sim.SetShowState(platform.ShowMaximized)
	if m.State() != Conflict {
		t.Fatalf("state = %v, want conflict", m.State())
	}

	if err := m.ToggleFullscreen(); err != nil {
		t.Fatal(err)
	}
	if m.State() != Windowed {
		t.Fatalf("state = %v after resolving conflict", m.State())
	}
	if got := bounds(t, sim); got != start {
		t.Fatalf("bounds = %+v, want %+v", got, start)
	}
}

func TestMonitorFailureLeavesWindowUntouched(t *testing.T) {
	m, sim := newTestMachine()
	sim.FailMonitor = true
	calls := sim.MoveResizeCalls

	err := m.ToggleFullscreen()
	if !errors.Is(err, ErrNoMonitor) {
		t.Fatalf("err = %v, want ErrNoMonitor", err)
	}
	if sim.Style() != platform.StyleOverlappedWindow || sim.MoveResizeCalls != calls {
		t.Fatal("window was modified")
	}
	if _, ok := m.placement.Saved(); ok {
		t.Fatal("placement captured despite skipped transition")
	}
}

func TestStepFailureAborts(t *testing.T) {
	m, sim := newTestMachine()
	sim.FailSetStyle = true
	calls := sim.MoveResizeCalls

	err := m.ToggleFullscreen()
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("err = %v, want StepError", err)
	}
	if sim.MoveResizeCalls != calls {
		t.Fatal("steps after the failure must not run")
	}
}

func TestReentrantToggleIgnored(t *testing.T) {
	m, sim := newTestMachine()
	var inner error
	m.OnChange(func(from, to State) {
		inner = m.ToggleMaximize()
	})

	if err := m.ToggleFullscreen(); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(inner, ErrBusy) {
		t.Fatalf("inner toggle err = %v, want ErrBusy", inner)
	}
	if m.State() != Fullscreen || sim.IsZoomed() {
		t.Fatalf("state = %v, want fullscreen", m.State())
	}
}

func TestOnChangeReportsStates(t *testing.T) {
	m, _ := newTestMachine()
	var got []State
	m.OnChange(func(from, to State) { got = append(got, from, to) })
	m.ToggleMaximize()
	if len(got) != 2 || got[0] != Windowed || got[1] != Maximized {
		t.Fatalf("OnChange saw %v", got)
	}
}

func TestFullscreenKeepsDisabledChromeBits(t *testing.T) {
	tests := []struct {
		name     string
		disabled platform.StyleFlags
		setup    []Event
	}{
		{"resize", platform.StyleSizeBox, nil},
		{"buttons", platform.StyleMaximizeBox | platform.StyleMinimizeBox, nil},
		{"from maximized", platform.StyleSizeBox, []Event{ToggleMaximize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sim := newTestMachine()
			if !m.styles.Clear(tt.disabled) {
				t.Fatal("Clear failed")
			}
			for _, ev := range tt.setup {
				if err := m.Fire(ev); err != nil {
					t.Fatal(err)
				}
			}
			before := sim.Style()

			if err := m.ToggleFullscreen(); err != nil {
				t.Fatal(err)
			}
			if err := m.ToggleFullscreen(); err != nil {
				t.Fatal(err)
			}
			if got := sim.Style(); got != before {
				t.Fatalf("style = %v, want %v", got.Names(), before.Names())
			}
		})
	}
}

func TestFullscreenToMaximizeKeepsDisabledChromeBits(t *testing.T) {
	m, sim := newTestMachine()
	m.styles.Clear(platform.StyleSizeBox)
	want := sim.Style()

	m.ToggleFullscreen()
	if err := m.ToggleMaximize(); err != nil {
		t.Fatal(err)
	}
	if m.State() != Maximized {
		t.Fatalf("state = %v", m.State())
	}
	if got := sim.Style(); got != want {
		t.Fatalf("style = %v, want %v", got.Names(), want.Names())
	}
}

func TestConflictWithoutSnapshotAddsFullChrome(t *testing.T) {
	m, sim := newTestMachine()
	m.styles.Clear(platform.StyleOverlappedWindow)
	sim.SetShowState(platform.ShowMaximized)
	if m.State() != Conflict {
		t.Fatalf("state = %v, want conflict", m.State())
	}

	if err := m.ToggleMaximize(); err != nil {
		t.Fatal(err)
	}
	if sim.Style() != platform.StyleOverlappedWindow {
		t.Fatalf("style = %v", sim.Style().Names())
	}
}
