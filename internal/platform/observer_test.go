package platform

import "testing"

func TestPointerObserverSynthesizesMoveAndLeave(t *testing.T) {
	bounds := Rect{X: 100, Y: 100, Width: 200, Height: 100}
	var o PointerObserver

	steps := []struct {
		x, y int
		kind MessageKind
		ok   bool
	}{
		{10, 10, 0, false},
		{150, 150, MessagePointerMove, true},
		{160, 150, MessagePointerMove, true},
		{400, 150, MessagePointerLeave, true},
		{500, 150, 0, false},
		{299, 199, MessagePointerMove, true},
		{300, 199, MessagePointerLeave, true},
	}
	for i, s := range steps {
		msg, ok := o.Observe(bounds, s.x, s.y)
		if ok != s.ok || (ok && msg.Kind != s.kind) {
			t.Fatalf("step %d (%d,%d): got %v/%v, want %v/%v", i, s.x, s.y, msg.Kind, ok, s.kind, s.ok)
		}
	}
}

func TestPointerObserverReset(t *testing.T) {
	bounds := Rect{Width: 100, Height: 100}
	var o PointerObserver
	o.Observe(bounds, 10, 10)
	o.Reset()
	if _, ok := o.Observe(bounds, 500, 500); ok {
		t.Fatal("no leave expected after Reset")
	}
}
