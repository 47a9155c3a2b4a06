// Package events delivers window notifications to interested parties.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind identifies an event.
type Kind string

const (
	MouseEnter   Kind = "mouse_enter"
	MouseLeave   Kind = "mouse_leave"
	StateChanged Kind = "state_changed"
)

// Event is a single notification.
type Event struct {
	ID   uuid.UUID `json:"id"`
	Kind Kind      `json:"kind"`
	Time time.Time `json:"time"`
	// State is the new presentation state for StateChanged events.
	State string `json:"state,omitempty"`
}

// New stamps an event of kind with a fresh ID and the current time.
func New(kind Kind) Event {
	return Event{ID: uuid.New(), Kind: kind, Time: time.Now()}
}

// Sink receives events. Emit must not block.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Subscription is a buffered stream of events from a Bus.
type Subscription struct {
	C <-chan Event

	ch  chan Event
	bus *Bus
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
}

// Bus fans events out to subscribers. A subscriber whose buffer is full
// misses the event; misses are counted.
type Bus struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	dropped uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe returns a subscription buffering up to size events.
func (b *Bus) Subscribe(size int) *Subscription {
	if size < 1 {
		size = 1
	}
	ch := make(chan Event, size)
	sub := &Subscription{C: ch, ch: ch, bus: b}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Emit delivers ev to every subscriber without blocking.
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			b.dropped++
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full.
func (b *Bus) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Subscribers returns the number of open subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
}
