package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
)

// QueryPointer returns the pointer position in root coordinates.
func (c *Connection) QueryPointer() (int, int, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// WarpPointer moves the pointer to a root position.
func (c *Connection) WarpPointer(x, y int) error {
	return xproto.WarpPointerChecked(
		c.XUtil.Conn(),
		xproto.WindowNone,
		c.Root,
		0, 0, 0, 0,
		int16(x), int16(y),
	).Check()
}

// SetCursorVisible shows or hides the cursor over the whole screen using
// the XFixes extension.
func (c *Connection) SetCursorVisible(visible bool) error {
	if err := c.initXFixes(); err != nil {
		return err
	}
	if visible {
		return xfixes.ShowCursorChecked(c.XUtil.Conn(), c.Root).Check()
	}
	return xfixes.HideCursorChecked(c.XUtil.Conn(), c.Root).Check()
}

func (c *Connection) initXFixes() error {
	if c.xfixesReady {
		return nil
	}
	if err := xfixes.Init(c.XUtil.Conn()); err != nil {
		return fmt.Errorf("xfixes extension unavailable: %w", err)
	}
	// Cursor hiding needs protocol version 4.
	if _, err := xfixes.QueryVersion(c.XUtil.Conn(), 4, 0).Reply(); err != nil {
		return fmt.Errorf("xfixes version query failed: %w", err)
	}
	c.xfixesReady = true
	return nil
}
