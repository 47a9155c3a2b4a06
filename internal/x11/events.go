package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Native event codes reported with pointer callbacks.
const (
	CodeMotionNotify = xproto.MotionNotify
	CodeEnterNotify  = xproto.EnterNotify
	CodeLeaveNotify  = xproto.LeaveNotify
)

// PointerCallbacks receive pointer crossings and motion for one window.
// Nil callbacks are skipped.
type PointerCallbacks struct {
	Motion func(x, y int)
	Enter  func()
	Leave  func()
	Other  func(code uint8)
}

// WatchPointer selects pointer and structure events on windowID and
// connects cb to them. Events are delivered from the xevent loop.
func (c *Connection) WatchPointer(windowID xproto.Window, cb PointerCallbacks) error {
	err := xwindow.New(c.XUtil, windowID).Listen(
		xproto.EventMaskPointerMotion,
		xproto.EventMaskEnterWindow,
		xproto.EventMaskLeaveWindow,
		xproto.EventMaskStructureNotify,
	)
	if err != nil {
		return err
	}

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		if cb.Motion != nil {
			cb.Motion(int(ev.EventX), int(ev.EventY))
		}
	}).Connect(c.XUtil, windowID)

	xevent.EnterNotifyFun(func(_ *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		if cb.Enter != nil {
			cb.Enter()
		}
	}).Connect(c.XUtil, windowID)

	xevent.LeaveNotifyFun(func(_ *xgbutil.XUtil, ev xevent.LeaveNotifyEvent) {
		// Crossings into child windows are not leaves of the top-level.
		if ev.Detail == xproto.NotifyDetailInferior {
			return
		}
		if cb.Leave != nil {
			cb.Leave()
		}
	}).Connect(c.XUtil, windowID)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if cb.Other != nil {
			cb.Other(xproto.ConfigureNotify)
		}
	}).Connect(c.XUtil, windowID)

	return nil
}

// UnwatchPointer disconnects every callback attached to windowID.
func (c *Connection) UnwatchPointer(windowID xproto.Window) {
	xevent.Detach(c.XUtil, windowID)
}
