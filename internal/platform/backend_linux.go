//go:build linux

package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/1broseidon/winstate/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// clipPollInterval is how often an active cursor clip is enforced. X11 has
// no confinement to an arbitrary rectangle for foreign windows, so the
// pointer is warped back whenever it escapes.
const clipPollInterval = 8 * time.Millisecond

// LinuxBackend drives a single top-level X11 window through the window
// manager (EWMH state, Motif hints) behind the platform Backend interface.
type LinuxBackend struct {
	conn   *x11.Connection
	window xproto.Window

	// normal is the last rectangle seen while the window was neither
	// maximized nor iconified. X11 keeps no restore rectangle of its own.
	normal  Rect
	extents [4]int

	handler    Handler
	leaveArmed bool

	clip     Rect
	clipping bool
}

var _ Backend = (*LinuxBackend)(nil)

// passThrough is the pipeline's initial handler. X11 windows have no
// client-side procedure to forward to, so every message yields 0.
type passThrough struct{}

func (passThrough) HandleMessage(Message) uintptr { return 0 }

// Open connects to the X server and attaches to the window selected by opts.
func Open(opts OpenOptions) (Backend, error) {
	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	window := xproto.Window(opts.WindowID)
	switch {
	case window != 0:
	case opts.Title != "":
		window, err = conn.FindWindowByTitle(opts.Title)
	default:
		window, err = conn.GetActiveWindow()
		if err == nil && (window == 0 || !conn.IsNormalWindow(window)) {
			err = errors.New("no window id or title given and the active window is not an application window")
		}
	}
	if err != nil {
		conn.Close()
		return nil, err
	}

	b, err := NewLinuxBackend(conn, window)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

// NewLinuxBackend attaches to window over an existing X11 connection and
// starts listening for its pointer events.
func NewLinuxBackend(conn *x11.Connection, window xproto.Window) (*LinuxBackend, error) {
	b := &LinuxBackend{
		conn:    conn,
		window:  window,
		handler: passThrough{},
	}

	g, err := conn.FrameGeometry(window)
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry of window 0x%x: %w", uint32(window), err)
	}
	b.normal = rectFromGeometry(g)
	b.refreshExtents()

	err = conn.WatchPointer(window, x11.PointerCallbacks{
		Motion: b.onMotion,
		Enter:  func() { b.onMotion(0, 0) },
		Leave:  b.onLeave,
		Other: func(code uint8) {
			b.dispatch(Message{Kind: MessageOther, Code: uint32(code)})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select pointer events: %w", err)
	}
	return b, nil
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

func (b *LinuxBackend) ID() WindowID { return WindowID(b.window) }

// Style derives the chrome flags from the window's Motif hints.
func (b *LinuxBackend) Style() StyleFlags {
	h, _ := b.conn.GetMotifHints(b.window)
	return styleFromMotif(h)
}

// SetStyle rewrites the Motif hints and pins the size hints while the
// window keeps a frame without a sizing border.
func (b *LinuxBackend) SetStyle(style StyleFlags) bool {
	prev, _ := b.conn.GetMotifHints(b.window)
	if err := b.conn.SetMotifHints(b.window, motifFromStyle(style, prev)); err != nil {
		return false
	}

	locked := style&StyleOverlappedWindow != 0 && style&StyleSizeBox == 0
	if g, err := b.conn.ClientGeometry(b.window); err == nil {
		_ = b.conn.LockSize(b.window, g.Width, g.Height, locked)
	}
	return true
}

func (b *LinuxBackend) Placement() (Placement, bool) {
	states, err := b.conn.WindowStates(b.window)
	if err != nil {
		states = nil
	}
	p := Placement{Show: showStateFromEWMH(states)}
	if p.Show == ShowNormal {
		g, err := b.conn.FrameGeometry(b.window)
		if err != nil {
			return Placement{}, false
		}
		b.normal = rectFromGeometry(g)
	}
	p.Normal = b.normal
	return p, true
}

// SetPlacement leaves any maximized state, positions the window at the
// normal rectangle and then applies the requested show state.
func (b *LinuxBackend) SetPlacement(p Placement) bool {
	if b.conn.IsMaximized(b.window) && p.Show != ShowMaximized {
		if err := b.conn.SetMaximized(b.window, false); err != nil {
			return false
		}
	}
	if !b.moveResize(p.Normal, false) {
		return false
	}
	b.normal = p.Normal

	switch p.Show {
	case ShowMaximized:
		return b.conn.SetMaximized(b.window, true) == nil
	case ShowMinimized:
		return b.conn.Iconify(b.window) == nil
	}
	if b.conn.IsHidden(b.window) {
		return b.conn.Activate(b.window) == nil
	}
	return true
}

func (b *LinuxBackend) IsZoomed() bool { return b.conn.IsMaximized(b.window) }

func (b *LinuxBackend) Maximize() bool {
	if !b.conn.IsMaximized(b.window) {
		if g, err := b.conn.FrameGeometry(b.window); err == nil {
			b.normal = rectFromGeometry(g)
		}
	}
	return b.conn.SetMaximized(b.window, true) == nil
}

func (b *LinuxBackend) Monitor() (Rect, bool) {
	m, err := b.conn.MonitorForWindow(b.window)
	if err != nil {
		return Rect{}, false
	}
	return Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}, true
}

func (b *LinuxBackend) MoveResize(bounds Rect, refreshFrame bool) bool {
	if !b.moveResize(bounds, refreshFrame) {
		return false
	}
	if !b.conn.IsMaximized(b.window) {
		b.normal = bounds
	}
	return true
}

// moveResize converts the outer rectangle to client geometry using the
// frame the window manager will draw for the current style.
func (b *LinuxBackend) moveResize(bounds Rect, refreshFrame bool) bool {
	if !refreshFrame {
		b.refreshExtents()
	}
	client := b.clientFor(bounds, b.Style())
	if err := b.conn.MoveResizeWindow(b.window, client.X, client.Y, client.Width, client.Height); err != nil {
		return false
	}
	if refreshFrame {
		_ = b.conn.Raise(b.window)
	}
	return true
}

func (b *LinuxBackend) Bounds() (Rect, bool) {
	g, err := b.conn.FrameGeometry(b.window)
	if err != nil {
		return Rect{}, false
	}
	return rectFromGeometry(g), true
}

func (b *LinuxBackend) ClientBounds() (Rect, bool) {
	g, err := b.conn.ClientGeometry(b.window)
	if err != nil {
		return Rect{}, false
	}
	return Rect{Width: g.Width, Height: g.Height}, true
}

func (b *LinuxBackend) ClientToScreen(x, y int) (int, int, bool) {
	g, err := b.conn.ClientGeometry(b.window)
	if err != nil {
		return 0, 0, false
	}
	return g.X + x, g.Y + y, true
}

func (b *LinuxBackend) FrameFor(client Rect, style StyleFlags) Rect {
	left, right, top, bottom := b.insets(style)
	return Rect{
		X:      client.X - left,
		Y:      client.Y - top,
		Width:  client.Width + left + right,
		Height: client.Height + top + bottom,
	}
}

// ScreenSize returns the size of the primary monitor.
func (b *LinuxBackend) ScreenSize() (int, int) {
	if m, err := b.conn.PrimaryMonitor(); err == nil {
		return m.Width, m.Height
	}
	return b.conn.RootSize()
}

func (b *LinuxBackend) SetTitle(title string) bool {
	return b.conn.SetWindowTitle(b.window, title) == nil
}

// ClipRect returns the active clip, or the whole root window when the
// pointer is unconfined.
func (b *LinuxBackend) ClipRect() (Rect, bool) {
	if b.clipping {
		return b.clip, true
	}
	return b.rootRect(), true
}

func (b *LinuxBackend) SetClipRect(r Rect) bool {
	if r.Empty() {
		return false
	}
	root := b.rootRect()
	if r.X <= root.X && r.Y <= root.Y && r.Right() >= root.Right() && r.Bottom() >= root.Bottom() {
		b.clipping = false
		return true
	}
	b.clip = r
	b.clipping = true
	b.enforceClip()
	return true
}

func (b *LinuxBackend) SetCursorPos(x, y int) bool {
	clip, _ := b.ClipRect()
	x, y = clip.Clamp(x, y)
	return b.conn.WarpPointer(x, y) == nil
}

func (b *LinuxBackend) SetCursorVisible(visible bool) bool {
	return b.conn.SetCursorVisible(visible) == nil
}

func (b *LinuxBackend) SwapHandler(h Handler) (Handler, bool) {
	if h == nil {
		h = passThrough{}
	}
	prev := b.handler
	b.handler = h
	return prev, true
}

func (b *LinuxBackend) TrackLeave() bool {
	b.leaveArmed = true
	return true
}

// Run interleaves X event processing with submitted calls until ctx is
// done. Event callbacks run while this goroutine waits for the after ping,
// so handlers and calls never run concurrently.
func (b *LinuxBackend) Run(ctx context.Context, calls <-chan func()) error {
	before, after, quit := b.conn.MainPing()
	ticker := time.NewTicker(clipPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-before:
			<-after
		case <-quit:
			return errors.New("x11 event loop stopped")
		case call := <-calls:
			call()
		case <-ticker.C:
			if b.clipping {
				b.enforceClip()
			}
		}
	}
}

// Displays returns all active displays with their work areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m, b.conn.WorkArea(m)))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// Close detaches from the window and disconnects.
func (b *LinuxBackend) Close() {
	if b == nil || b.conn == nil {
		return
	}
	b.conn.UnwatchPointer(b.window)
	b.conn.Close()
}

func (b *LinuxBackend) onMotion(x, y int) {
	b.dispatch(Message{
		Kind:   MessagePointerMove,
		Code:   uint32(x11.CodeMotionNotify),
		LParam: packPoint(x, y),
	})
}

func (b *LinuxBackend) onLeave() {
	if !b.leaveArmed {
		b.dispatch(Message{Kind: MessageOther, Code: uint32(x11.CodeLeaveNotify)})
		return
	}
	b.leaveArmed = false
	b.dispatch(Message{Kind: MessagePointerLeave, Code: uint32(x11.CodeLeaveNotify)})
}

func (b *LinuxBackend) dispatch(msg Message) uintptr {
	if b.handler == nil {
		return 0
	}
	return b.handler.HandleMessage(msg)
}

func (b *LinuxBackend) enforceClip() {
	x, y, err := b.conn.QueryPointer()
	if err != nil {
		return
	}
	// Clamp to the last pixel inside the clip.
	inner := Rect{X: b.clip.X, Y: b.clip.Y, Width: b.clip.Width - 1, Height: b.clip.Height - 1}
	cx, cy := inner.Clamp(x, y)
	if cx != x || cy != y {
		_ = b.conn.WarpPointer(cx, cy)
	}
}

func (b *LinuxBackend) refreshExtents() {
	left, right, top, bottom, _ := b.conn.GetFrameExtents(b.window)
	if left+right+top+bottom > 0 {
		b.extents = [4]int{left, right, top, bottom}
	}
}

func (b *LinuxBackend) insets(style StyleFlags) (left, right, top, bottom int) {
	if style&StyleOverlappedWindow == 0 {
		return 0, 0, 0, 0
	}
	return b.extents[0], b.extents[1], b.extents[2], b.extents[3]
}

func (b *LinuxBackend) clientFor(outer Rect, style StyleFlags) Rect {
	left, right, top, bottom := b.insets(style)
	return Rect{
		X:      outer.X + left,
		Y:      outer.Y + top,
		Width:  max(outer.Width-left-right, 1),
		Height: max(outer.Height-top-bottom, 1),
	}
}

func (b *LinuxBackend) rootRect() Rect {
	w, h := b.conn.RootSize()
	return Rect{Width: w, Height: h}
}

func displayFromMonitor(m, work x11.Monitor) Display {
	return Display{
		ID:      m.ID,
		Name:    m.Name,
		Bounds:  Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		Usable:  Rect{X: work.X, Y: work.Y, Width: work.Width, Height: work.Height},
		Primary: m.Primary,
	}
}

func rectFromGeometry(g x11.Geometry) Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// packPoint encodes a point the way pointer messages carry it: x in the
// low word, y in the high word.
func packPoint(x, y int) uintptr {
	return uintptr(uint16(int16(x))) | uintptr(uint16(int16(y)))<<16
}

func showStateFromEWMH(states []string) ShowState {
	maxH, maxV := false, false
	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_HIDDEN":
			return ShowMinimized
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			maxH = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			maxV = true
		}
	}
	if maxH && maxV {
		return ShowMaximized
	}
	return ShowNormal
}

// styleFromMotif maps Motif functions and decorations onto chrome flags.
// A capability counts only when both its decoration and function are on.
func styleFromMotif(h x11.MotifHints) StyleFlags {
	decor := h.EffectiveDecorations()
	funcs := h.EffectiveFunctions()

	var style StyleFlags
	if decor&x11.MotifDecorTitle != 0 {
		style |= StyleCaption
	}
	if decor&x11.MotifDecorMenu != 0 {
		style |= StyleSysMenu
	}
	if decor&x11.MotifDecorResizeH != 0 && funcs&x11.MotifFuncResize != 0 {
		style |= StyleSizeBox
	}
	if decor&x11.MotifDecorMinimize != 0 && funcs&x11.MotifFuncMinimize != 0 {
		style |= StyleMinimizeBox
	}
	if decor&x11.MotifDecorMaximize != 0 && funcs&x11.MotifFuncMaximize != 0 {
		style |= StyleMaximizeBox
	}
	return style
}

// motifFromStyle builds explicit Motif hints for style, carrying over the
// input mode and status of prev.
func motifFromStyle(style StyleFlags, prev x11.MotifHints) x11.MotifHints {
	h := x11.MotifHints{
		Flags:     x11.MotifHintFunctions | x11.MotifHintDecorations,
		Functions: x11.MotifFuncMove | x11.MotifFuncClose,
		InputMode: prev.InputMode,
		Status:    prev.Status,
	}
	if style&StyleOverlappedWindow != 0 {
		h.Decorations |= x11.MotifDecorBorder
	}
	if style&StyleCaption != 0 {
		h.Decorations |= x11.MotifDecorTitle
	}
	if style&StyleSysMenu != 0 {
		h.Decorations |= x11.MotifDecorMenu
	}
	if style&StyleSizeBox != 0 {
		h.Decorations |= x11.MotifDecorResizeH
		h.Functions |= x11.MotifFuncResize
	}
	if style&StyleMinimizeBox != 0 {
		h.Decorations |= x11.MotifDecorMinimize
		h.Functions |= x11.MotifFuncMinimize
	}
	if style&StyleMaximizeBox != 0 {
		h.Decorations |= x11.MotifDecorMaximize
		h.Functions |= x11.MotifFuncMaximize
	}
	return h
}
