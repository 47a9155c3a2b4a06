package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

const motifHintsAtom = "_MOTIF_WM_HINTS"

// Motif hint flags.
const (
	MotifHintFunctions   = 1 << 0
	MotifHintDecorations = 1 << 1
)

// Motif function bits.
const (
	MotifFuncAll      = 1 << 0
	MotifFuncResize   = 1 << 1
	MotifFuncMove     = 1 << 2
	MotifFuncMinimize = 1 << 3
	MotifFuncMaximize = 1 << 4
	MotifFuncClose    = 1 << 5

	motifFuncMask = MotifFuncResize | MotifFuncMove | MotifFuncMinimize | MotifFuncMaximize | MotifFuncClose
)

// Motif decoration bits.
const (
	MotifDecorAll      = 1 << 0
	MotifDecorBorder   = 1 << 1
	MotifDecorResizeH  = 1 << 2
	MotifDecorTitle    = 1 << 3
	MotifDecorMenu     = 1 << 4
	MotifDecorMinimize = 1 << 5
	MotifDecorMaximize = 1 << 6

	motifDecorMask = MotifDecorBorder | MotifDecorResizeH | MotifDecorTitle | MotifDecorMenu | MotifDecorMinimize | MotifDecorMaximize
)

// MotifHints is the _MOTIF_WM_HINTS property.
type MotifHints struct {
	Flags       uint
	Functions   uint
	Decorations uint
	InputMode   uint
	Status      uint
}

// EffectiveFunctions returns the allowed functions with the "all" bit
// expanded. Without the functions flag every function is allowed.
func (h MotifHints) EffectiveFunctions() uint {
	if h.Flags&MotifHintFunctions == 0 {
		return motifFuncMask
	}
	if h.Functions&MotifFuncAll != 0 {
		return motifFuncMask &^ h.Functions
	}
	return h.Functions & motifFuncMask
}

// EffectiveDecorations returns the shown decorations with the "all" bit
// expanded. Without the decorations flag every decoration is shown.
func (h MotifHints) EffectiveDecorations() uint {
	if h.Flags&MotifHintDecorations == 0 {
		return motifDecorMask
	}
	if h.Decorations&MotifDecorAll != 0 {
		return motifDecorMask &^ h.Decorations
	}
	return h.Decorations & motifDecorMask
}

// GetMotifHints reads the window's Motif hints. A window without the
// property reports zero flags, meaning full chrome.
func (c *Connection) GetMotifHints(windowID xproto.Window) (MotifHints, error) {
	vals, err := xprop.PropValNums(xprop.GetProperty(c.XUtil, windowID, motifHintsAtom))
	if err != nil {
		return MotifHints{}, nil
	}
	var h MotifHints
	fields := []*uint{&h.Flags, &h.Functions, &h.Decorations, &h.InputMode, &h.Status}
	for i := 0; i < len(vals) && i < len(fields); i++ {
		*fields[i] = vals[i]
	}
	return h, nil
}

// SetMotifHints writes the window's Motif hints.
func (c *Connection) SetMotifHints(windowID xproto.Window, h MotifHints) error {
	err := xprop.ChangeProp32(c.XUtil, windowID, motifHintsAtom, motifHintsAtom,
		h.Flags, h.Functions, h.Decorations, h.InputMode, h.Status)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", motifHintsAtom, err)
	}
	return nil
}
