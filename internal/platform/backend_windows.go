//go:build windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procIsZoomed            = user32.NewProc("IsZoomed")
	procClipCursor          = user32.NewProc("ClipCursor")
	procGetClipCursor       = user32.NewProc("GetClipCursor")
	procAdjustWindowRect    = user32.NewProc("AdjustWindowRect")
	procSetWindowLongPtrW   = user32.NewProc("SetWindowLongPtrW")
	procCallWindowProcW     = user32.NewProc("CallWindowProcW")
	procTrackMouseEvent     = user32.NewProc("TrackMouseEvent")
	procShowCursor          = user32.NewProc("ShowCursor")
	procSetCursorPos        = user32.NewProc("SetCursorPos")
	procSetWindowTextW      = user32.NewProc("SetWindowTextW")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")

	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procSetWindowsHookExW        = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx      = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx           = user32.NewProc("CallNextHookEx")

	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

const (
	gwlpWndProc        = -4
	monitorInfoPrimary = 0x00000001
	tmeLeave           = 0x00000002
	wmMouseMove        = 0x0200
	wmMouseLeave       = 0x02A3
	whMouseLL          = 14
	idleSleep          = 5 * time.Millisecond
	windowTextSize     = 512
)

type trackMouseEvent struct {
	CbSize      uint32
	DwFlags     uint32
	HwndTrack   win.HWND
	DwHoverTime uint32
}

// msllHookStruct is MSLLHOOKSTRUCT.
type msllHookStruct struct {
	Pt          win.POINT
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// observedProc is the handler slot of a window owned by another process.
// That window's own procedure already received the message, so there is
// nothing to forward to.
type observedProc struct{}

func (observedProc) HandleMessage(Message) uintptr { return 0 }

// nativeProc is a window procedure that existed before the subclass.
type nativeProc struct {
	hwnd win.HWND
	proc uintptr
}

func (p nativeProc) HandleMessage(msg Message) uintptr {
	if p.proc == 0 {
		return win.DefWindowProc(p.hwnd, msg.Code, msg.WParam, msg.LParam)
	}
	r, _, _ := procCallWindowProcW.Call(p.proc, uintptr(p.hwnd), uintptr(msg.Code), msg.WParam, msg.LParam)
	return r
}

var (
	subclassOnce sync.Once
	subclassCB   uintptr

	subclassMu sync.RWMutex
	subclassed = map[win.HWND]*WindowsBackend{}
)

// WindowsBackend drives a single top-level HWND.
//
// A window of this process is subclassed. A window of another process
// cannot be, so its pointer messages are synthesized from a low-level
// mouse hook instead.
type WindowsBackend struct {
	hwnd    win.HWND
	foreign bool

	handler  Handler
	original nativeProc
	hooked   bool

	observer  PointerObserver
	observing bool
}

var _ Backend = (*WindowsBackend)(nil)

// Open attaches to the window selected by opts.
func Open(opts OpenOptions) (Backend, error) {
	hwnd := win.HWND(opts.WindowID)
	switch {
	case hwnd != 0:
	case opts.Title != "":
		var err error
		hwnd, err = findWindowByTitle(opts.Title)
		if err != nil {
			return nil, err
		}
	default:
		r, _, _ := procGetForegroundWindow.Call()
		hwnd = win.HWND(r)
		if hwnd == 0 {
			return nil, errors.New("no window id or title given and no foreground window")
		}
	}
	return NewWindowsBackend(hwnd), nil
}

// NewWindowsBackend wraps hwnd.
func NewWindowsBackend(hwnd win.HWND) *WindowsBackend {
	b := &WindowsBackend{hwnd: hwnd, foreign: windowProcessID(hwnd) != windows.GetCurrentProcessId()}
	if b.foreign {
		b.handler = observedProc{}
		return b
	}
	b.original = nativeProc{hwnd: hwnd, proc: uintptr(win.GetWindowLongPtr(hwnd, gwlpWndProc))}
	b.handler = b.original
	return b
}

func windowProcessID(hwnd win.HWND) uint32 {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	return pid
}

func (b *WindowsBackend) ID() WindowID { return WindowID(b.hwnd) }

func (b *WindowsBackend) Style() StyleFlags {
	return styleFromNative(uint32(win.GetWindowLong(b.hwnd, win.GWL_STYLE)))
}

func (b *WindowsBackend) SetStyle(style StyleFlags) bool {
	current := uint32(win.GetWindowLong(b.hwnd, win.GWL_STYLE))
	win.SetLastError(0)
	if win.SetWindowLong(b.hwnd, win.GWL_STYLE, int32(nativeFromStyle(style, current))) == 0 &&
		win.GetLastError() != 0 {
		return false
	}
	return true
}

func (b *WindowsBackend) Placement() (Placement, bool) {
	var wp win.WINDOWPLACEMENT
	wp.Length = uint32(unsafe.Sizeof(wp))
	if !win.GetWindowPlacement(b.hwnd, &wp) {
		return Placement{}, false
	}
	return Placement{
		Normal: rectFromNative(wp.RcNormalPosition),
		Show:   showStateFromNative(wp.ShowCmd),
	}, true
}

func (b *WindowsBackend) SetPlacement(p Placement) bool {
	var wp win.WINDOWPLACEMENT
	wp.Length = uint32(unsafe.Sizeof(wp))
	if !win.GetWindowPlacement(b.hwnd, &wp) {
		return false
	}
	wp.RcNormalPosition = nativeFromRect(p.Normal)
	wp.ShowCmd = nativeFromShowState(p.Show)
	return win.SetWindowPlacement(b.hwnd, &wp)
}

func (b *WindowsBackend) IsZoomed() bool {
	r, _, _ := procIsZoomed.Call(uintptr(b.hwnd))
	return r != 0
}

func (b *WindowsBackend) Maximize() bool {
	win.ShowWindow(b.hwnd, win.SW_MAXIMIZE)
	return true
}

func (b *WindowsBackend) Monitor() (Rect, bool) {
	mon := win.MonitorFromWindow(b.hwnd, win.MONITOR_DEFAULTTOPRIMARY)
	if mon == 0 {
		return Rect{}, false
	}
	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if !win.GetMonitorInfo(mon, &mi) {
		return Rect{}, false
	}
	return rectFromNative(mi.RcMonitor), true
}

func (b *WindowsBackend) MoveResize(bounds Rect, refreshFrame bool) bool {
	flags := uint32(win.SWP_NOOWNERZORDER)
	if refreshFrame {
		flags |= win.SWP_FRAMECHANGED
	}
	return win.SetWindowPos(b.hwnd, win.HWND_TOP,
		int32(bounds.X), int32(bounds.Y), int32(bounds.Width), int32(bounds.Height), flags)
}

func (b *WindowsBackend) Bounds() (Rect, bool) {
	var r win.RECT
	if !win.GetWindowRect(b.hwnd, &r) {
		return Rect{}, false
	}
	return rectFromNative(r), true
}

func (b *WindowsBackend) ClientBounds() (Rect, bool) {
	var r win.RECT
	if !win.GetClientRect(b.hwnd, &r) {
		return Rect{}, false
	}
	return rectFromNative(r), true
}

func (b *WindowsBackend) ClientToScreen(x, y int) (int, int, bool) {
	pt := win.POINT{X: int32(x), Y: int32(y)}
	if !win.ClientToScreen(b.hwnd, &pt) {
		return 0, 0, false
	}
	return int(pt.X), int(pt.Y), true
}

// FrameFor runs AdjustWindowRect for style without a menu bar.
func (b *WindowsBackend) FrameFor(client Rect, style StyleFlags) Rect {
	current := uint32(win.GetWindowLong(b.hwnd, win.GWL_STYLE))
	r := nativeFromRect(client)
	ret, _, _ := procAdjustWindowRect.Call(uintptr(unsafe.Pointer(&r)), uintptr(nativeFromStyle(style, current)), 0)
	if ret == 0 {
		return client
	}
	return rectFromNative(r)
}

func (b *WindowsBackend) ScreenSize() (int, int) {
	return int(win.GetSystemMetrics(win.SM_CXSCREEN)), int(win.GetSystemMetrics(win.SM_CYSCREEN))
}

func (b *WindowsBackend) SetTitle(title string) bool {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return false
	}
	r, _, _ := procSetWindowTextW.Call(uintptr(b.hwnd), uintptr(unsafe.Pointer(p)))
	return r != 0
}

func (b *WindowsBackend) ClipRect() (Rect, bool) {
	var r win.RECT
	ret, _, _ := procGetClipCursor.Call(uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Rect{}, false
	}
	return rectFromNative(r), true
}

func (b *WindowsBackend) SetClipRect(r Rect) bool {
	nr := nativeFromRect(r)
	ret, _, _ := procClipCursor.Call(uintptr(unsafe.Pointer(&nr)))
	return ret != 0
}

func (b *WindowsBackend) SetCursorPos(x, y int) bool {
	ret, _, _ := procSetCursorPos.Call(uintptr(int32(x)), uintptr(int32(y)))
	return ret != 0
}

// SetCursorVisible adjusts the display counter until the cursor reaches
// the requested visibility.
func (b *WindowsBackend) SetCursorVisible(visible bool) bool {
	show := uintptr(0)
	if visible {
		show = 1
	}
	for range 64 {
		r, _, _ := procShowCursor.Call(show)
		count := int32(r)
		if (visible && count >= 0) || (!visible && count < 0) {
			return true
		}
	}
	return false
}

// SwapHandler subclasses the window the first time a non-native handler is
// installed and restores the original procedure when it is put back. For a
// window of another process it starts and stops the mouse hook instead.
func (b *WindowsBackend) SwapHandler(h Handler) (Handler, bool) {
	if b.foreign {
		return b.swapObserved(h)
	}
	if h == nil {
		h = b.original
	}
	prev := b.handler

	if native, ok := h.(nativeProc); ok && native == b.original {
		if b.hooked {
			procSetWindowLongPtrW.Call(uintptr(b.hwnd), uintptrIndex(gwlpWndProc), b.original.proc)
			subclassMu.Lock()
			delete(subclassed, b.hwnd)
			subclassMu.Unlock()
			b.hooked = false
		}
		b.handler = h
		return prev, true
	}

	if !b.hooked {
		subclassOnce.Do(func() { subclassCB = windows.NewCallback(subclassProc) })
		subclassMu.Lock()
		subclassed[b.hwnd] = b
		subclassMu.Unlock()

		win.SetLastError(0)
		old, _, err := procSetWindowLongPtrW.Call(uintptr(b.hwnd), uintptrIndex(gwlpWndProc), subclassCB)
		if old == 0 {
			if errno, ok := err.(windows.Errno); ok && errno != 0 {
				subclassMu.Lock()
				delete(subclassed, b.hwnd)
				subclassMu.Unlock()
				return nil, false
			}
		}
		b.original.proc = old
		b.hooked = true
		if _, wasNative := prev.(nativeProc); wasNative {
			prev = b.original
		}
	}
	b.handler = h
	return prev, true
}

func (b *WindowsBackend) swapObserved(h Handler) (Handler, bool) {
	prev := b.handler
	if h == nil {
		h = observedProc{}
	}
	if _, passive := h.(observedProc); passive {
		b.stopObserving()
		b.handler = h
		return prev, true
	}
	if !b.observing && !b.startObserving() {
		return nil, false
	}
	b.handler = h
	return prev, true
}

// TrackLeave arms a WM_MOUSELEAVE for a window of this process. Leaves for
// a window of another process come from the mouse hook unasked.
func (b *WindowsBackend) TrackLeave() bool {
	if b.foreign {
		return b.observing
	}
	tme := trackMouseEvent{DwFlags: tmeLeave, HwndTrack: b.hwnd}
	tme.CbSize = uint32(unsafe.Sizeof(tme))
	r, _, _ := procTrackMouseEvent.Call(uintptr(unsafe.Pointer(&tme)))
	return r != 0
}

// Run pumps the thread's message queue and executes submitted calls
// between messages. The subclass procedure is reached only for a window
// owned by this thread; the mouse hook is always called on this thread
// because it is installed from a submitted call.
func (b *WindowsBackend) Run(ctx context.Context, calls <-chan func()) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var msg win.MSG
	for {
		select {
		case <-ctx.Done():
			return nil
		case call := <-calls:
			call()
		default:
			if win.PeekMessage(&msg, 0, 0, 0, win.PM_REMOVE) {
				if msg.Message == win.WM_QUIT {
					return errors.New("message loop received WM_QUIT")
				}
				win.TranslateMessage(&msg)
				win.DispatchMessage(&msg)
				continue
			}
			time.Sleep(idleSleep)
		}
	}
}

func (b *WindowsBackend) Displays() ([]Display, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumOnce.Do(initEnumCallbacks)
	enumDisplays = nil
	r, _, err := procEnumDisplayMonitors.Call(0, 0, monitorEnumCB, 0)
	if r == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", err)
	}
	return enumDisplays, nil
}

func (b *WindowsBackend) Close() {
	if b.hooked {
		b.SwapHandler(b.original)
	}
	b.stopObserving()
}

// The low-level mouse hook is shared by every observed window and runs on
// the thread that installed it, from inside that thread's message pump.
var (
	mouseHookOnce sync.Once
	mouseHookCB   uintptr

	observedMu sync.Mutex
	observed   = map[win.HWND]*WindowsBackend{}
	mouseHook  uintptr
)

func (b *WindowsBackend) startObserving() bool {
	mouseHookOnce.Do(func() { mouseHookCB = windows.NewCallback(mouseHookProc) })

	observedMu.Lock()
	defer observedMu.Unlock()
	if mouseHook == 0 {
		mod, _, _ := procGetModuleHandleW.Call(0)
		h, _, _ := procSetWindowsHookExW.Call(whMouseLL, mouseHookCB, mod, 0)
		if h == 0 {
			return false
		}
		mouseHook = h
	}
	observed[b.hwnd] = b
	b.observer.Reset()
	b.observing = true
	return true
}

func (b *WindowsBackend) stopObserving() {
	if !b.observing {
		return
	}
	observedMu.Lock()
	defer observedMu.Unlock()
	delete(observed, b.hwnd)
	if len(observed) == 0 && mouseHook != 0 {
		procUnhookWindowsHookEx.Call(mouseHook)
		mouseHook = 0
	}
	b.observing = false
}

func mouseHookProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 && uint32(wParam) == wmMouseMove {
		info := (*msllHookStruct)(unsafe.Pointer(lParam))
		observedMu.Lock()
		targets := make([]*WindowsBackend, 0, len(observed))
		for _, b := range observed {
			targets = append(targets, b)
		}
		observedMu.Unlock()
		for _, b := range targets {
			b.observePointer(int(info.Pt.X), int(info.Pt.Y))
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return r
}

// observePointer dispatches the move or leave the window would have seen
// for a pointer at the screen position (x, y).
func (b *WindowsBackend) observePointer(x, y int) {
	bounds, ok := b.Bounds()
	if !ok {
		return
	}
	msg, ok := b.observer.Observe(bounds, x, y)
	if !ok {
		return
	}
	msg.Code = wmMouseMove
	if msg.Kind == MessagePointerLeave {
		msg.Code = wmMouseLeave
	}
	b.handler.HandleMessage(msg)
}

func subclassProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	subclassMu.RLock()
	b := subclassed[hwnd]
	subclassMu.RUnlock()
	if b == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	m := Message{Code: msg, WParam: wParam, LParam: lParam}
	switch msg {
	case wmMouseMove:
		m.Kind = MessagePointerMove
	case wmMouseLeave:
		m.Kind = MessagePointerLeave
	}
	if b.handler == nil {
		return b.original.HandleMessage(m)
	}
	return b.handler.HandleMessage(m)
}

func findWindowByTitle(substring string) (win.HWND, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumOnce.Do(initEnumCallbacks)
	enumNeedle = strings.ToLower(substring)
	enumFound = 0
	procEnumWindows.Call(windowEnumCB, 0)
	if enumFound == 0 {
		return 0, fmt.Errorf("no window with title containing %q", substring)
	}
	return enumFound, nil
}

// Enumeration callbacks are created once; their results are passed
// through package state guarded by enumMu.
var (
	enumMu   sync.Mutex
	enumOnce sync.Once

	monitorEnumCB uintptr
	windowEnumCB  uintptr

	enumDisplays []Display
	enumNeedle   string
	enumFound    win.HWND
)

func initEnumCallbacks() {
	monitorEnumCB = windows.NewCallback(func(hmon win.HMONITOR, hdc win.HDC, rc *win.RECT, lparam uintptr) uintptr {
		var mi win.MONITORINFO
		mi.CbSize = uint32(unsafe.Sizeof(mi))
		if win.GetMonitorInfo(hmon, &mi) {
			enumDisplays = append(enumDisplays, Display{
				ID:      len(enumDisplays),
				Name:    fmt.Sprintf("DISPLAY%d", len(enumDisplays)+1),
				Bounds:  rectFromNative(mi.RcMonitor),
				Usable:  rectFromNative(mi.RcWork),
				Primary: mi.DwFlags&monitorInfoPrimary != 0,
			})
		}
		return 1
	})

	windowEnumCB = windows.NewCallback(func(hwnd win.HWND, lparam uintptr) uintptr {
		if !win.IsWindowVisible(hwnd) {
			return 1
		}
		buf := make([]uint16, windowTextSize)
		n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if n == 0 {
			return 1
		}
		if strings.Contains(strings.ToLower(windows.UTF16ToString(buf[:n])), enumNeedle) {
			enumFound = hwnd
			return 0
		}
		return 1
	})
}

func uintptrIndex(i int) uintptr {
	return uintptr(int64(i))
}

var styleBits = []struct {
	flag   StyleFlags
	native uint32
}{
	{StyleCaption, win.WS_CAPTION},
	{StyleSysMenu, win.WS_SYSMENU},
	{StyleSizeBox, win.WS_THICKFRAME},
	{StyleMinimizeBox, win.WS_MINIMIZEBOX},
	{StyleMaximizeBox, win.WS_MAXIMIZEBOX},
}

func styleFromNative(native uint32) StyleFlags {
	var style StyleFlags
	for _, b := range styleBits {
		if native&b.native == b.native {
			style |= b.flag
		}
	}
	return style
}

// nativeFromStyle replaces the modeled bits of current with style and keeps
// every other native bit.
func nativeFromStyle(style StyleFlags, current uint32) uint32 {
	out := current &^ uint32(win.WS_OVERLAPPEDWINDOW)
	for _, b := range styleBits {
		if style&b.flag != 0 {
			out |= b.native
		}
	}
	return out
}

func rectFromNative(r win.RECT) Rect {
	return Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}

func nativeFromRect(r Rect) win.RECT {
	return win.RECT{
		Left:   int32(r.X),
		Top:    int32(r.Y),
		Right:  int32(r.Right()),
		Bottom: int32(r.Bottom()),
	}
}

func showStateFromNative(cmd uint32) ShowState {
	switch cmd {
	case win.SW_SHOWMAXIMIZED:
		return ShowMaximized
	case win.SW_SHOWMINIMIZED, win.SW_MINIMIZE, win.SW_SHOWMINNOACTIVE:
		return ShowMinimized
	default:
		return ShowNormal
	}
}

func nativeFromShowState(s ShowState) uint32 {
	switch s {
	case ShowMaximized:
		return win.SW_SHOWMAXIMIZED
	case ShowMinimized:
		return win.SW_SHOWMINIMIZED
	default:
		return win.SW_SHOWNORMAL
	}
}
