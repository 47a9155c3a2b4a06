package platform

import "testing"

func TestRectContainsAndClamp(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name         string
		x, y         int
		inside       bool
		wantX, wantY int
	}{
		{"inside", 15, 25, true, 15, 25},
		{"right edge exclusive", 110, 30, false, 110, 30},
		{"left of rect", 0, 30, false, 10, 30},
		{"below rect", 50, 200, false, 50, 70},
		{"above and right", 500, -5, false, 110, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.inside {
				t.Fatalf("Contains(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.inside)
			}
			gx, gy := r.Clamp(tt.x, tt.y)
			if gx != tt.wantX || gy != tt.wantY {
				t.Fatalf("Clamp(%d,%d) = (%d,%d), want (%d,%d)", tt.x, tt.y, gx, gy, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{Width: 0, Height: 10}).Empty() {
		t.Fatal("zero width rect should be empty")
	}
	if (Rect{Width: 1, Height: 1}).Empty() {
		t.Fatal("1x1 rect should not be empty")
	}
}

func TestStyleFlagsHas(t *testing.T) {
	s := StyleCaption | StyleSizeBox
	if !s.Has(StyleCaption) {
		t.Fatal("expected caption")
	}
	if s.Has(StyleOverlappedWindow) {
		t.Fatal("partial style should not have the whole overlapped set")
	}
	if !StyleOverlappedWindow.Has(StyleMaximizeBox | StyleMinimizeBox) {
		t.Fatal("overlapped window should contain both boxes")
	}
}

func TestShowStateString(t *testing.T) {
	if ShowMaximized.String() != "maximized" {
		t.Fatalf("got %q", ShowMaximized.String())
	}
	if ShowState(42).String() != "unknown" {
		t.Fatalf("got %q", ShowState(42).String())
	}
}

func TestHandlerFunc(t *testing.T) {
	var seen Message
	h := HandlerFunc(func(msg Message) uintptr {
		seen = msg
		return 7
	})
	if got := h.HandleMessage(Message{Code: 3}); got != 7 {
		t.Fatalf("HandleMessage returned %d", got)
	}
	if seen.Code != 3 {
		t.Fatalf("handler saw code %d", seen.Code)
	}
}

func TestStyleFlagsNames(t *testing.T) {
	got := (StyleCaption | StyleMaximizeBox).Names()
	if len(got) != 2 || got[0] != "caption" || got[1] != "maximize" {
		t.Fatalf("Names() = %v", got)
	}
	if len(StyleFlags(0).Names()) != 0 {
		t.Fatal("no flags should give no names")
	}
}
