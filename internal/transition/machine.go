// Package transition moves the managed window between windowed, maximized
// and fullscreen presentation.
//
// The current state is derived from live window state on every call, so
// changes made behind the machine's back (the user double-clicking the
// title bar, another program) are picked up. Each toggle looks up an
// ordered list of steps in a fixed table and runs them until one fails.
package transition

import (
	"errors"
	"fmt"

	"github.com/1broseidon/winstate/internal/placement"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/style"
	"github.com/charmbracelet/log"
)

// State is the presentation state of the window.
type State int

const (
	Windowed State = iota
	Maximized
	Fullscreen
	// Conflict is chromeless and zoomed at once. Only an external change
	// can produce it.
	Conflict
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Windowed:
		return "windowed"
	case Maximized:
		return "maximized"
	case Fullscreen:
		return "fullscreen"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Event is a toggle request.
type Event int

const (
	ToggleFullscreen Event = iota
	ToggleMaximize
)

// String returns the string representation of the event
func (e Event) String() string {
	switch e {
	case ToggleFullscreen:
		return "toggle-fullscreen"
	case ToggleMaximize:
		return "toggle-maximize"
	default:
		return "unknown"
	}
}

type step int

const (
	enterFullscreen step = iota
	exitFullscreen
	enterMaximized
	exitMaximized
	restoreChrome
)

func (s step) String() string {
	switch s {
	case enterFullscreen:
		return "enter-fullscreen"
	case exitFullscreen:
		return "exit-fullscreen"
	case enterMaximized:
		return "enter-maximized"
	case exitMaximized:
		return "exit-maximized"
	case restoreChrome:
		return "restore-chrome"
	default:
		return "unknown"
	}
}

type key struct {
	state State
	event Event
}

var table = map[key][]step{
	{Windowed, ToggleFullscreen}:   {enterFullscreen},
	{Windowed, ToggleMaximize}:     {enterMaximized},
	{Fullscreen, ToggleFullscreen}: {exitFullscreen},
	{Fullscreen, ToggleMaximize}:   {exitFullscreen, enterMaximized},
	{Maximized, ToggleFullscreen}:  {exitMaximized, enterFullscreen},
	{Maximized, ToggleMaximize}:    {exitMaximized},
	{Conflict, ToggleFullscreen}:   {restoreChrome, exitMaximized},
	{Conflict, ToggleMaximize}:     {restoreChrome, exitMaximized},
}

var (
	// ErrBusy is returned for a toggle requested while another is running.
	ErrBusy = errors.New("transition already in progress")
	// ErrNoMonitor is returned when fullscreen entry cannot find a monitor.
	ErrNoMonitor = errors.New("no monitor for window")
)

// StepError reports the step that aborted a transition.
type StepError struct {
	Event Event
	From  State
	Step  string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s from %s: step %s failed", e.Event, e.From, e.Step)
}

// Machine executes transitions for one window.
type Machine struct {
	win       platform.Window
	styles    *style.Registry
	placement *placement.Store
	logger    *log.Logger

	// chrome holds the overlapped-window bits from before fullscreen entry.
	chrome    platform.StyleFlags
	hasChrome bool

	busy     bool
	onChange func(from, to State)
}

// NewMachine creates a machine that shares styles and store with the rest
// of the controller.
func NewMachine(win platform.Window, styles *style.Registry, store *placement.Store, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.Default()
	}
	return &Machine{
		win:       win,
		styles:    styles,
		placement: store,
		logger:    logger,
	}
}

// OnChange registers fn to run after every completed transition.
func (m *Machine) OnChange(fn func(from, to State)) {
	m.onChange = fn
}

// State derives the current state from the window.
func (m *Machine) State() State {
	chromeless := !m.styles.HasOverlappedChrome()
	zoomed := m.win.IsZoomed()
	switch {
	case chromeless && zoomed:
		return Conflict
	case chromeless:
		return Fullscreen
	case zoomed:
		return Maximized
	default:
		return Windowed
	}
}

// IsFullscreen reports whether the window has no overlapped chrome.
func (m *Machine) IsFullscreen() bool {
	return !m.styles.HasOverlappedChrome()
}

// IsMaximized reports whether the OS considers the window zoomed.
func (m *Machine) IsMaximized() bool {
	return m.win.IsZoomed()
}

// ToggleFullscreen enters or leaves fullscreen.
func (m *Machine) ToggleFullscreen() error {
	return m.Fire(ToggleFullscreen)
}

// ToggleMaximize enters or leaves the maximized state.
func (m *Machine) ToggleMaximize() error {
	return m.Fire(ToggleMaximize)
}

// Fire runs the steps for ev from the current state. A failed step aborts
// the rest; completed steps are not rolled back.
func (m *Machine) Fire(ev Event) error {
	if m.busy {
		m.logger.Warn("ignoring reentrant toggle", "event", ev)
		return ErrBusy
	}
	m.busy = true
	defer func() { m.busy = false }()

	from := m.State()
	steps := table[key{from, ev}]

	var monitor platform.Rect
	for _, s := range steps {
		if s != enterFullscreen {
			continue
		}
		r, ok := m.win.Monitor()
		if !ok {
			m.logger.Warn("skipping transition, monitor lookup failed", "event", ev, "state", from)
			return ErrNoMonitor
		}
		monitor = r
	}

	for _, s := range steps {
		if !m.run(s, monitor) {
			m.logger.Error("transition aborted", "event", ev, "state", from, "step", s)
			return &StepError{Event: ev, From: from, Step: s.String()}
		}
	}

	to := m.State()
	m.logger.Debug("transition complete", "event", ev, "from", from, "to", to)
	if m.onChange != nil && to != from {
		m.onChange(from, to)
	}
	return nil
}

func (m *Machine) run(s step, monitor platform.Rect) bool {
	switch s {
	case enterFullscreen:
		if !m.placement.Capture() {
			return false
		}
		chrome := m.styles.Get() & platform.StyleOverlappedWindow
		if !m.styles.Clear(platform.StyleOverlappedWindow) {
			return false
		}
		m.chrome, m.hasChrome = chrome, true
		return m.win.MoveResize(monitor, true)
	case exitFullscreen:
		return m.restoreStyle() && m.restore()
	case enterMaximized:
		return m.placement.Capture() && m.win.Maximize()
	case exitMaximized:
		return m.restore()
	case restoreChrome:
		return m.restoreStyle()
	}
	return false
}

// restoreStyle puts back the overlapped-window bits saved at fullscreen
// entry, so bits disabled before entry stay disabled. Without a snapshot
// the full overlapped set is added.
func (m *Machine) restoreStyle() bool {
	if !m.hasChrome || m.chrome == 0 {
		return m.styles.Add(platform.StyleOverlappedWindow)
	}
	rest := m.styles.Get() &^ platform.StyleOverlappedWindow
	if !m.styles.Set(rest | m.chrome) {
		return false
	}
	m.hasChrome = false
	return true
}

// restore applies the captured placement. Without one, the window's own
// normal rectangle is applied in the normal show state.
func (m *Machine) restore() bool {
	if _, ok := m.placement.Saved(); ok {
		return m.placement.Restore()
	}
	p, ok := m.placement.Current()
	if !ok {
		return false
	}
	p.Show = platform.ShowNormal
	return m.win.SetPlacement(p)
}
