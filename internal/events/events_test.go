package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewStampsEvent(t *testing.T) {
	ev := New(MouseEnter)
	if ev.ID == uuid.Nil {
		t.Fatal("expected an ID")
	}
	if ev.Time.IsZero() {
		t.Fatal("expected a timestamp")
	}
	if New(MouseEnter).ID == ev.ID {
		t.Fatal("IDs should be unique")
	}
}

func TestBusPreservesOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(4)
	defer sub.Close()

	bus.Emit(New(MouseEnter))
	bus.Emit(New(MouseLeave))

	if got := (<-sub.C).Kind; got != MouseEnter {
		t.Fatalf("first = %s", got)
	}
	if got := (<-sub.C).Kind; got != MouseLeave {
		t.Fatalf("second = %s", got)
	}
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)
	defer sub.Close()

	bus.Emit(New(MouseEnter))
	bus.Emit(New(MouseLeave))
	bus.Emit(New(MouseEnter))

	if got := bus.Dropped(); got != 2 {
		t.Fatalf("Dropped() = %d, want 2", got)
	}
	if got := (<-sub.C).Kind; got != MouseEnter {
		t.Fatalf("kept event = %s", got)
	}
}

func TestCloseDetaches(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)
	sub.Close()
	sub.Close()

	if bus.Subscribers() != 0 {
		t.Fatalf("Subscribers() = %d", bus.Subscribers())
	}
	if _, ok := <-sub.C; ok {
		t.Fatal("channel should be closed")
	}
	bus.Emit(New(MouseEnter))
}

func TestSinkFunc(t *testing.T) {
	var got []Kind
	var sink Sink = SinkFunc(func(ev Event) { got = append(got, ev.Kind) })
	sink.Emit(New(MouseLeave))
	if len(got) != 1 || got[0] != MouseLeave {
		t.Fatalf("got %v", got)
	}
}
