package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateMaxHorz   = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaxVert   = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateHidden    = "_NET_WM_STATE_HIDDEN"
	stateAbove     = "_NET_WM_STATE_ABOVE"
	wmStateRemove  = 0
	wmStateAdd     = 1
	iconicState    = 3
	sourcePagerApp = 2
)

// Geometry is a window rectangle in root coordinates.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Use EWMH MoveResize for better WM compatibility
	err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
	if err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// Raise stacks the window above its siblings.
func (c *Connection) Raise(windowID xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// WindowStates returns the window's _NET_WM_STATE atoms.
func (c *Connection) WindowStates(windowID xproto.Window) ([]string, error) {
	return ewmh.WmStateGet(c.XUtil, windowID)
}

// IsMaximized reports whether both maximized states are present.
func (c *Connection) IsMaximized(windowID xproto.Window) bool {
	states, err := c.WindowStates(windowID)
	if err != nil {
		return false
	}
	return isMaximizedState(states)
}

// IsHidden reports whether the window is iconified.
func (c *Connection) IsHidden(windowID xproto.Window) bool {
	states, err := c.WindowStates(windowID)
	if err != nil {
		return false
	}
	return hasState(states, stateHidden)
}

// SetMaximized adds or removes both maximized states.
func (c *Connection) SetMaximized(windowID xproto.Window, maximized bool) error {
	action := wmStateRemove
	if maximized {
		action = wmStateAdd
	}
	if err := ewmh.WmStateReq(c.XUtil, windowID, action, stateMaxHorz); err != nil {
		return fmt.Errorf("failed to request %s: %w", stateMaxHorz, err)
	}
	if err := ewmh.WmStateReq(c.XUtil, windowID, action, stateMaxVert); err != nil {
		return fmt.Errorf("failed to request %s: %w", stateMaxVert, err)
	}
	return nil
}

// Iconify minimizes a window via WM_CHANGE_STATE.
func (c *Connection) Iconify(windowID xproto.Window) error {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Activate maps and focuses a window using _NET_ACTIVE_WINDOW.
func (c *Connection) Activate(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourcePagerApp, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// ClientGeometry returns the client window rectangle in root coordinates.
func (c *Connection) ClientGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Geometry{}, err
	}

	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// FrameGeometry returns the client geometry grown by the frame extents.
func (c *Connection) FrameGeometry(windowID xproto.Window) (Geometry, error) {
	g, err := c.ClientGeometry(windowID)
	if err != nil {
		return Geometry{}, err
	}
	left, right, top, bottom, _ := c.GetFrameExtents(windowID)
	return Geometry{
		X:      g.X - left,
		Y:      g.Y - top,
		Width:  g.Width + left + right,
		Height: g.Height + top + bottom,
	}, nil
}

// RootSize returns the size of the root window.
func (c *Connection) RootSize() (int, int) {
	screen := c.XUtil.Screen()
	return int(screen.WidthInPixels), int(screen.HeightInPixels)
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int, err error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0, nil
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom), nil
}

// LockSize pins the window's min and max size hints to width x height so
// the window manager refuses interactive resizing. unlock clears them.
func (c *Connection) LockSize(windowID xproto.Window, width, height int, locked bool) error {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil {
		hints = &icccm.NormalHints{}
	}
	if locked {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(width), uint(width)
		hints.MinHeight, hints.MaxHeight = uint(height), uint(height)
	} else {
		hints.Flags &^= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = 0, 0
		hints.MinHeight, hints.MaxHeight = 0, 0
	}
	return icccm.WmNormalHintsSet(c.XUtil, windowID, hints)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// GetActiveWindow returns the focused window.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

func isMaximizedState(states []string) bool {
	return hasState(states, stateMaxHorz) && hasState(states, stateMaxVert)
}

func hasState(states []string, want string) bool {
	for _, s := range states {
		if s == want {
			return true
		}
	}
	return false
}
