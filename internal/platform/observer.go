package platform

// PointerObserver derives the pointer messages a window would have received
// from raw screen positions. Backends use it for windows whose message
// handler lives in another process and cannot be replaced.
type PointerObserver struct {
	over bool
}

// Observe reports the message for a pointer at (x, y) over a window with the
// given bounds. A move is reported for every position inside bounds and a
// single leave for the first position outside after that; otherwise ok is
// false.
func (o *PointerObserver) Observe(bounds Rect, x, y int) (msg Message, ok bool) {
	if bounds.Contains(x, y) {
		o.over = true
		return Message{Kind: MessagePointerMove}, true
	}
	if o.over {
		o.over = false
		return Message{Kind: MessagePointerLeave}, true
	}
	return Message{}, false
}

// Reset forgets whether the pointer was over the window.
func (o *PointerObserver) Reset() {
	o.over = false
}
