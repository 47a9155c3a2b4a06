package platform

import (
	"context"
	"fmt"
)

// Frame metrics used by the simulated window manager.
const (
	simBorder     = 1
	simSizeBorder = 8
	simCaption    = 23
)

// RecordingHandler is a Handler that counts the messages it receives. The
// simulated backend installs one as the window's original handler.
type RecordingHandler struct {
	Result   uintptr
	Received []Message
}

// HandleMessage records msg and returns h.Result.
func (h *RecordingHandler) HandleMessage(msg Message) uintptr {
	h.Received = append(h.Received, msg)
	return h.Result
}

// Simulated is an in-memory Backend that behaves like a simple stacking
// window manager. It backs headless runs and tests.
type Simulated struct {
	id       WindowID
	title    string
	style    StyleFlags
	bounds   Rect
	normal   Rect
	show     ShowState
	displays []Display

	clip          Rect
	cursorX       int
	cursorY       int
	cursorVisible bool

	handler    Handler
	original   *RecordingHandler
	leaveArmed bool
	pointerIn  bool

	// Failure injection.
	FailSetStyle  bool
	FailMonitor   bool
	FailSwap      bool
	FailPlacement bool

	// MoveResizeCalls counts MoveResize invocations.
	MoveResizeCalls int
}

var _ Backend = (*Simulated)(nil)

// NewSimulated creates a simulated window with overlapped chrome at bounds.
// displays must contain at least one display; the first one flagged Primary
// (or the first one) acts as the primary display.
func NewSimulated(bounds Rect, displays ...Display) *Simulated {
	if len(displays) == 0 {
		displays = []Display{{
			ID:      0,
			Name:    "SIM-0",
			Bounds:  Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			Usable:  Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
			Primary: true,
		}}
	}
	original := &RecordingHandler{}
	s := &Simulated{
		id:            1,
		style:         StyleOverlappedWindow,
		bounds:        bounds,
		normal:        bounds,
		show:          ShowNormal,
		displays:      displays,
		cursorVisible: true,
		handler:       original,
		original:      original,
	}
	s.clip = s.virtualScreen()
	return s
}

// Original returns the handler installed before anyone swapped the slot.
func (s *Simulated) Original() *RecordingHandler { return s.original }

// CurrentHandler returns the handler currently in the pipeline slot.
func (s *Simulated) CurrentHandler() Handler { return s.handler }

// Title returns the last title set.
func (s *Simulated) Title() string { return s.title }

// CursorPos returns the simulated cursor position.
func (s *Simulated) CursorPos() (int, int) { return s.cursorX, s.cursorY }

// CursorVisible reports the simulated cursor visibility.
func (s *Simulated) CursorVisible() bool { return s.cursorVisible }

// LeaveArmed reports whether a leave notification is pending.
func (s *Simulated) LeaveArmed() bool { return s.leaveArmed }

// Dispatch delivers msg to the handler in the pipeline slot.
func (s *Simulated) Dispatch(msg Message) uintptr {
	if s.handler == nil {
		return 0
	}
	return s.handler.HandleMessage(msg)
}

// MovePointer moves the pointer to a screen position and delivers the
// messages a real window would see: a move while over the window, and the
// tracked leave once it exits.
func (s *Simulated) MovePointer(x, y int) {
	s.cursorX, s.cursorY = x, y
	inside := s.bounds.Contains(x, y)
	switch {
	case inside:
		s.pointerIn = true
		s.Dispatch(Message{Kind: MessagePointerMove, Code: 0x0200})
	case s.pointerIn:
		s.pointerIn = false
		if s.leaveArmed {
			s.leaveArmed = false
			s.Dispatch(Message{Kind: MessagePointerLeave, Code: 0x02A3})
		}
	}
}

// SetShowState forces the show state the way an external actor (the user
// or another program) would, bypassing the controller.
func (s *Simulated) SetShowState(state ShowState) {
	s.show = state
	if state == ShowMaximized {
		if d, ok := s.displayFor(s.bounds); ok {
			s.bounds = d.Usable
		}
	}
}

func (s *Simulated) ID() WindowID { return s.id }

func (s *Simulated) Style() StyleFlags { return s.style }

func (s *Simulated) SetStyle(style StyleFlags) bool {
	if s.FailSetStyle {
		return false
	}
	s.style = style
	return true
}

func (s *Simulated) Placement() (Placement, bool) {
	if s.FailPlacement {
		return Placement{}, false
	}
	return Placement{Normal: s.normal, Show: s.show}, true
}

func (s *Simulated) SetPlacement(p Placement) bool {
	if s.FailPlacement {
		return false
	}
	s.normal = p.Normal
	s.show = p.Show
	switch p.Show {
	case ShowNormal:
		s.bounds = p.Normal
	case ShowMaximized:
		if d, ok := s.displayFor(p.Normal); ok {
			s.bounds = d.Usable
		}
	}
	return true
}

func (s *Simulated) IsZoomed() bool { return s.show == ShowMaximized }

func (s *Simulated) Maximize() bool {
	d, ok := s.displayFor(s.bounds)
	if !ok {
		return false
	}
	if s.show == ShowNormal {
		s.normal = s.bounds
	}
	s.show = ShowMaximized
	s.bounds = d.Usable
	return true
}

func (s *Simulated) Monitor() (Rect, bool) {
	if s.FailMonitor {
		return Rect{}, false
	}
	d, ok := s.displayFor(s.bounds)
	if !ok {
		return Rect{}, false
	}
	return d.Bounds, true
}

func (s *Simulated) MoveResize(bounds Rect, refreshFrame bool) bool {
	s.MoveResizeCalls++
	s.bounds = bounds
	if s.show == ShowNormal {
		s.normal = bounds
	}
	return true
}

func (s *Simulated) Bounds() (Rect, bool) { return s.bounds, true }

func (s *Simulated) ClientBounds() (Rect, bool) {
	left, top, right, bottom := s.insets(s.style)
	return Rect{
		Width:  s.bounds.Width - left - right,
		Height: s.bounds.Height - top - bottom,
	}, true
}

func (s *Simulated) ClientToScreen(x, y int) (int, int, bool) {
	left, top, _, _ := s.insets(s.style)
	return s.bounds.X + left + x, s.bounds.Y + top + y, true
}

func (s *Simulated) FrameFor(client Rect, style StyleFlags) Rect {
	left, top, right, bottom := s.insets(style)
	return Rect{
		X:      client.X - left,
		Y:      client.Y - top,
		Width:  client.Width + left + right,
		Height: client.Height + top + bottom,
	}
}

func (s *Simulated) ScreenSize() (int, int) {
	p := s.primary()
	return p.Bounds.Width, p.Bounds.Height
}

func (s *Simulated) SetTitle(title string) bool {
	s.title = title
	return true
}

func (s *Simulated) ClipRect() (Rect, bool) { return s.clip, true }

func (s *Simulated) SetClipRect(r Rect) bool {
	if r.Empty() {
		return false
	}
	s.clip = r
	return true
}

func (s *Simulated) SetCursorPos(x, y int) bool {
	s.cursorX, s.cursorY = s.clip.Clamp(x, y)
	return true
}

func (s *Simulated) SetCursorVisible(visible bool) bool {
	s.cursorVisible = visible
	return true
}

func (s *Simulated) SwapHandler(h Handler) (Handler, bool) {
	if s.FailSwap {
		return nil, false
	}
	prev := s.handler
	s.handler = h
	return prev, true
}

func (s *Simulated) TrackLeave() bool {
	s.leaveArmed = true
	return true
}

// Run executes submitted calls until ctx is done.
func (s *Simulated) Run(ctx context.Context, calls <-chan func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case call := <-calls:
			call()
		}
	}
}

func (s *Simulated) Displays() ([]Display, error) {
	if len(s.displays) == 0 {
		return nil, fmt.Errorf("no displays configured")
	}
	out := make([]Display, len(s.displays))
	copy(out, s.displays)
	return out, nil
}

func (s *Simulated) Close() {}

func (s *Simulated) insets(style StyleFlags) (left, top, right, bottom int) {
	if style&StyleOverlappedWindow == 0 {
		return 0, 0, 0, 0
	}
	border := simBorder
	if style&StyleSizeBox != 0 {
		border = simSizeBorder
	}
	top = border
	if style&StyleCaption != 0 {
		top += simCaption
	}
	return border, top, border, border
}

func (s *Simulated) primary() Display {
	for _, d := range s.displays {
		if d.Primary {
			return d
		}
	}
	return s.displays[0]
}

func (s *Simulated) displayFor(r Rect) (Display, bool) {
	if len(s.displays) == 0 {
		return Display{}, false
	}
	cx := r.X + r.Width/2
	cy := r.Y + r.Height/2
	for _, d := range s.displays {
		if d.Bounds.Contains(cx, cy) {
			return d, true
		}
	}
	return s.primary(), true
}

func (s *Simulated) virtualScreen() Rect {
	union := s.displays[0].Bounds
	for _, d := range s.displays[1:] {
		x1 := min(union.X, d.Bounds.X)
		y1 := min(union.Y, d.Bounds.Y)
		x2 := max(union.Right(), d.Bounds.Right())
		y2 := max(union.Bottom(), d.Bounds.Bottom())
		union = Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
	}
	return union
}
