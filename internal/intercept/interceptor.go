// Package intercept sits in the managed window's message pipeline and turns
// pointer motion into MouseEnter and MouseLeave events. Every message is
// forwarded to the handler that was installed before it.
package intercept

import (
	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/charmbracelet/log"
)

// Interceptor is a platform.Handler that wraps the previous handler.
type Interceptor struct {
	pipe   platform.Pipeline
	sink   events.Sink
	logger *log.Logger

	prev      platform.Handler
	installed bool
	inside    bool
}

var _ platform.Handler = (*Interceptor)(nil)

// New creates an interceptor for pipe that reports to sink.
func New(pipe platform.Pipeline, sink events.Sink, logger *log.Logger) *Interceptor {
	if logger == nil {
		logger = log.Default()
	}
	if sink == nil {
		sink = events.Discard
	}
	return &Interceptor{pipe: pipe, sink: sink, logger: logger}
}

// Install swaps the interceptor into the pipeline. When already installed
// it only clears the inside flag.
func (i *Interceptor) Install() bool {
	if i.installed {
		i.inside = false
		return true
	}
	prev, ok := i.pipe.SwapHandler(i)
	if !ok {
		i.logger.Error("install message handler failed")
		return false
	}
	i.prev = prev
	i.installed = true
	i.inside = false
	return true
}

// Uninstall puts the previous handler back. It is a no-op when not
// installed.
func (i *Interceptor) Uninstall() bool {
	if !i.installed {
		return true
	}
	if _, ok := i.pipe.SwapHandler(i.prev); !ok {
		i.logger.Error("restore message handler failed")
		return false
	}
	i.prev = nil
	i.installed = false
	return true
}

// Installed reports whether the interceptor is in the pipeline.
func (i *Interceptor) Installed() bool {
	return i.installed
}

// MouseInside reports whether the pointer is over the window.
func (i *Interceptor) MouseInside() bool {
	return i.inside
}

// HandleMessage updates the inside flag and forwards msg.
func (i *Interceptor) HandleMessage(msg platform.Message) uintptr {
	switch msg.Kind {
	case platform.MessagePointerMove:
		if !i.inside {
			i.inside = true
			i.sink.Emit(events.New(events.MouseEnter))
			if !i.pipe.TrackLeave() {
				i.logger.Warn("request leave notification failed")
			}
		}
	case platform.MessagePointerLeave:
		if i.inside {
			i.inside = false
			i.sink.Emit(events.New(events.MouseLeave))
		}
	}

	if i.prev == nil {
		return 0
	}
	return i.prev.HandleMessage(msg)
}
