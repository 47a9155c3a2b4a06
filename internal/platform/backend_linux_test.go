//go:build linux

package platform

import (
	"testing"

	"github.com/1broseidon/winstate/internal/x11"
)

func TestMotifRoundTrip(t *testing.T) {
	styles := []StyleFlags{
		0,
		StyleOverlappedWindow,
		StyleOverlappedWindow &^ StyleSizeBox,
		StyleOverlappedWindow &^ StyleMaximizeBox,
		StyleCaption | StyleSysMenu,
	}
	for _, style := range styles {
		h := motifFromStyle(style, x11.MotifHints{})
		if got := styleFromMotif(h); got != style {
			t.Errorf("style %05b -> hints %+v -> %05b", style, h, got)
		}
	}
}

func TestStyleFromMotifDefaults(t *testing.T) {
	if got := styleFromMotif(x11.MotifHints{}); got != StyleOverlappedWindow {
		t.Fatalf("window without hints should have full chrome, got %05b", got)
	}

	// "All" with a listed bit means everything except that bit.
	h := x11.MotifHints{
		Flags:       x11.MotifHintDecorations,
		Decorations: x11.MotifDecorAll | x11.MotifDecorMaximize,
	}
	if got := styleFromMotif(h); got != StyleOverlappedWindow&^StyleMaximizeBox {
		t.Fatalf("got %05b", got)
	}
}

func TestMotifFromStyleKeepsInputMode(t *testing.T) {
	h := motifFromStyle(0, x11.MotifHints{InputMode: 2, Status: 1})
	if h.InputMode != 2 || h.Status != 1 {
		t.Fatalf("lost input mode/status: %+v", h)
	}
	if h.Decorations != 0 {
		t.Fatalf("chromeless style should have no decorations, got %b", h.Decorations)
	}
}

func TestShowStateFromEWMH(t *testing.T) {
	tests := []struct {
		states []string
		want   ShowState
	}{
		{nil, ShowNormal},
		{[]string{"_NET_WM_STATE_MAXIMIZED_HORZ"}, ShowNormal},
		{[]string{"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT"}, ShowMaximized},
		{[]string{"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_HIDDEN"}, ShowMinimized},
	}
	for _, tt := range tests {
		if got := showStateFromEWMH(tt.states); got != tt.want {
			t.Errorf("showStateFromEWMH(%v) = %v, want %v", tt.states, got, tt.want)
		}
	}
}

func TestPackPoint(t *testing.T) {
	lp := packPoint(3, 4)
	if lp&0xFFFF != 3 || (lp>>16)&0xFFFF != 4 {
		t.Fatalf("packPoint(3,4) = %#x", lp)
	}
}
