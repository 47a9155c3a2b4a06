// Package uithread runs functions on the goroutine that owns the native
// window.
package uithread

import (
	"context"
	"errors"
)

// ErrStopped is returned when the loop is no longer accepting calls.
var ErrStopped = errors.New("ui loop stopped")

// Dispatcher queues calls for the native loop.
type Dispatcher struct {
	calls chan func()
	done  chan struct{}
}

// New creates a dispatcher with room for buffered pending calls.
func New(buffered int) *Dispatcher {
	return &Dispatcher{
		calls: make(chan func(), buffered),
		done:  make(chan struct{}),
	}
}

// Calls is the channel the native loop drains.
func (d *Dispatcher) Calls() <-chan func() {
	return d.calls
}

// Stop makes pending and future Do calls fail with ErrStopped.
func (d *Dispatcher) Stop() {
	select {
	case <-d.done:
	default:
		close(d.done)
	}
}

// Do runs fn on the loop and waits for it to return.
func (d *Dispatcher) Do(ctx context.Context, fn func() error) error {
	select {
	case <-d.done:
		return ErrStopped
	default:
	}

	result := make(chan error, 1)
	call := func() { result <- fn() }

	select {
	case d.calls <- call:
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues fn without waiting. It reports false when the loop has
// stopped or the queue is full.
func (d *Dispatcher) Post(fn func()) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.calls <- fn:
		return true
	default:
		return false
	}
}
