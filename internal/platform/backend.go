package platform

import "context"

// WindowID is a platform-neutral native window identifier (X11 window or HWND).
type WindowID uint64

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp returns the point moved to the nearest position inside the closed
// range [X, Right] x [Y, Bottom].
func (r Rect) Clamp(x, y int) (int, int) {
	if x > r.Right() {
		x = r.Right()
	} else if x < r.X {
		x = r.X
	}
	if y > r.Bottom() {
		y = r.Bottom()
	} else if y < r.Y {
		y = r.Y
	}
	return x, y
}

// ShowState is the show state part of a window placement.
type ShowState int

const (
	ShowNormal ShowState = iota
	ShowMaximized
	ShowMinimized
)

// String returns the string representation of the show state
func (s ShowState) String() string {
	switch s {
	case ShowNormal:
		return "normal"
	case ShowMaximized:
		return "maximized"
	case ShowMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// Placement is a snapshot of a window's restored rectangle and show state.
type Placement struct {
	Normal Rect
	Show   ShowState
}

// StyleFlags is the set of chrome capabilities of a top-level window.
type StyleFlags uint32

const (
	StyleCaption StyleFlags = 1 << iota
	StyleSysMenu
	StyleSizeBox
	StyleMinimizeBox
	StyleMaximizeBox

	// StyleOverlappedWindow is the chrome of a normal bordered, resizable
	// top-level window. Its complete absence marks a fullscreen window.
	StyleOverlappedWindow = StyleCaption | StyleSysMenu | StyleSizeBox | StyleMinimizeBox | StyleMaximizeBox
)

// Has reports whether every bit of mask is set.
func (s StyleFlags) Has(mask StyleFlags) bool { return s&mask == mask }

var styleNames = []struct {
	flag StyleFlags
	name string
}{
	{StyleCaption, "caption"},
	{StyleSysMenu, "sysmenu"},
	{StyleSizeBox, "resize"},
	{StyleMinimizeBox, "minimize"},
	{StyleMaximizeBox, "maximize"},
}

// Names returns the names of the set flags in a fixed order.
func (s StyleFlags) Names() []string {
	names := make([]string, 0, len(styleNames))
	for _, n := range styleNames {
		if s&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Bounds  Rect   `json:"bounds"`
	Usable  Rect   `json:"usable"`
	Primary bool   `json:"primary"`
}

// MessageKind classifies a native window message.
type MessageKind int

const (
	MessageOther MessageKind = iota
	MessagePointerMove
	MessagePointerLeave
)

// Message is a single native window message as seen by the pipeline.
type Message struct {
	Kind   MessageKind
	Code   uint32
	WParam uintptr
	LParam uintptr
}

// Handler processes window messages. It is the unit installed into the
// window's message pipeline slot.
type Handler interface {
	HandleMessage(msg Message) uintptr
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(msg Message) uintptr

// HandleMessage calls f(msg).
func (f HandlerFunc) HandleMessage(msg Message) uintptr { return f(msg) }

// Window exposes the geometry and chrome operations of the managed window.
// Boolean results mirror the underlying OS call succeeding or failing.
type Window interface {
	ID() WindowID
	Style() StyleFlags
	SetStyle(style StyleFlags) bool
	Placement() (Placement, bool)
	SetPlacement(p Placement) bool
	IsZoomed() bool
	Maximize() bool
	// Monitor returns the bounds of the monitor containing the window,
	// falling back to the primary monitor.
	Monitor() (Rect, bool)
	// MoveResize positions the window; refreshFrame forces the OS to
	// recompute the non-client area after a style change.
	MoveResize(bounds Rect, refreshFrame bool) bool
	// Bounds returns the outer window rectangle in screen coordinates.
	Bounds() (Rect, bool)
	// ClientBounds returns the client area relative to its upper-left corner.
	ClientBounds() (Rect, bool)
	ClientToScreen(x, y int) (int, int, bool)
	// FrameFor returns the outer rectangle needed for the given client
	// rectangle under style, assuming no menu bar.
	FrameFor(client Rect, style StyleFlags) Rect
	ScreenSize() (width, height int)
	SetTitle(title string) bool
}

// Cursor exposes the system cursor.
type Cursor interface {
	ClipRect() (Rect, bool)
	SetClipRect(r Rect) bool
	SetCursorPos(x, y int) bool
	SetCursorVisible(visible bool) bool
}

// Pipeline is the managed window's message handler slot.
type Pipeline interface {
	// SwapHandler installs h and returns the handler it replaced. ok is
	// false when the OS refused the change.
	SwapHandler(h Handler) (prev Handler, ok bool)
	// TrackLeave requests a single MessagePointerLeave once the pointer
	// leaves the client area.
	TrackLeave() bool
}

// Loop runs the native event loop on the calling goroutine, executing
// submitted calls between native events, until ctx is done.
type Loop interface {
	Run(ctx context.Context, calls <-chan func()) error
}

// Backend abstracts window-system operations for the single managed window.
type Backend interface {
	Window
	Cursor
	Pipeline
	Loop
	Displays() ([]Display, error)
	Close()
}

// OpenOptions selects the window a native backend attaches to. WindowID
// wins over Title; Title is a substring of the window title.
type OpenOptions struct {
	Display  string
	WindowID WindowID
	Title    string
}
