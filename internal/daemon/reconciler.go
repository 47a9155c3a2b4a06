package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/1broseidon/winstate/internal/events"
	"github.com/charmbracelet/log"
)

// Runner executes fn on the goroutine that owns the window.
type Runner interface {
	Do(ctx context.Context, fn func() error) error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *log.Logger
}

// Reconciler periodically compares the window's presentation state with
// the last one announced and emits StateChanged when the window was
// changed from outside (by the user or the window manager).
type Reconciler struct {
	interval time.Duration
	runner   Runner
	observe  func() string
	sink     events.Sink
	logger   *log.Logger

	mu   sync.Mutex
	last string
}

// NewReconciler creates a new reconciler. observe is called on the window
// goroutine through runner.
func NewReconciler(cfg ReconcilerConfig, runner Runner, observe func() string, sink events.Sink) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Reconciler{
		interval: interval,
		runner:   runner,
		observe:  observe,
		sink:     sink,
		logger:   logger,
	}
}

// Note records a state announced by the controller so it is not reported
// again as drift.
func (r *Reconciler) Note(state string) {
	r.mu.Lock()
	r.last = state
	r.mu.Unlock()
}

// Last returns the last known state.
func (r *Reconciler) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile performs a single reconciliation pass. The comparison happens on
// the window goroutine so it cannot interleave with a transition.
func (r *Reconciler) reconcile(ctx context.Context) {
	var drifted string
	err := r.runner.Do(ctx, func() error {
		state := r.observe()
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.last != "" && state != r.last {
			drifted = state
		}
		r.last = state
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("reconciler: observe failed", "err", err)
		}
		return
	}
	if drifted == "" {
		return
	}

	r.logger.Info("window state changed externally", "state", drifted)
	ev := events.New(events.StateChanged)
	ev.State = drifted
	r.sink.Emit(ev)
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) {
	r.reconcile(ctx)
}
