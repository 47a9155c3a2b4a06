// Package hotkeys binds global key sequences to window commands.
package hotkeys

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/charmbracelet/log"
)

// ErrUnsupported is returned for backends without an X11 connection.
var ErrUnsupported = errors.New("global hotkeys require the X11 backend")

// Commands is the set of actions hotkeys can trigger.
type Commands interface {
	ToggleFullscreen() error
	ToggleMaximize() error
	ClipCursor() error
	RestoreCursorClip() error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts. Callbacks run on the X event
// goroutine, which is the goroutine that owns the window.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *log.Logger
	bound  []string
}

type binding struct {
	name     string
	sequence string
	run      func() error
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, logger *log.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, ErrUnsupported
	}
	if logger == nil {
		logger = log.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		logger: logger,
	}, nil
}

func bindings(cfg config.HotkeyConfig, cmds Commands) []binding {
	all := []binding{
		{"toggle_fullscreen", cfg.ToggleFullscreen, cmds.ToggleFullscreen},
		{"toggle_maximize", cfg.ToggleMaximize, cmds.ToggleMaximize},
		{"clip_cursor", cfg.ClipCursor, cmds.ClipCursor},
		{"restore_cursor_clip", cfg.RestoreCursorClip, cmds.RestoreCursorClip},
	}
	out := all[:0]
	for _, b := range all {
		if b.sequence != "" {
			out = append(out, b)
		}
	}
	return out
}

// Apply replaces every binding with those in cfg. Empty sequences are
// skipped. On error the bindings registered so far stay active.
func (h *Handler) Apply(cfg config.HotkeyConfig, cmds Commands) error {
	h.Unregister()

	for _, b := range bindings(cfg, cmds) {
		b := b
		if err := h.RegisterFunc(b.sequence, func() {
			h.logger.Debug("hotkey triggered", "action", b.name)
			if err := b.run(); err != nil {
				h.logger.Warn("hotkey action failed", "action", b.name, "err", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to register %s hotkey %q: %w", b.name, b.sequence, err)
		}
		h.bound = append(h.bound, b.sequence)
		h.logger.Info("hotkey registered", "action", b.name, "keys", b.sequence)
	}
	return nil
}

// Bound returns the registered key sequences.
func (h *Handler) Bound() []string {
	return append([]string(nil), h.bound...)
}

// Unregister removes all bindings and releases their key grabs.
func (h *Handler) Unregister() {
	if len(h.bound) == 0 {
		return
	}
	keybind.Detach(h.xu, h.root)
	h.bound = nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
