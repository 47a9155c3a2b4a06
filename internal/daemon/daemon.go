// Package daemon attaches to a window and serves the command surface over
// IPC until it is told to stop.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/desktop"
	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/hotkeys"
	"github.com/1broseidon/winstate/internal/ipc"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/runtimepath"
	"github.com/1broseidon/winstate/internal/uithread"
	"github.com/charmbracelet/log"
)

const (
	shutdownTimeout   = 5 * time.Second
	reconcileInterval = time.Second
)

// Options override the configuration for one daemon run.
type Options struct {
	// ConfigPath is the config file; empty uses the default location.
	ConfigPath string
	// Headless runs against an in-memory window instead of the display.
	Headless bool
	WindowID uint64
	Title    string
	Display  string
	Debug    bool
	// SocketPath overrides ipc.socket.
	SocketPath string
}

// Daemon owns the managed window for the lifetime of a run.
type Daemon struct {
	opts    Options
	cfgPath string
	cfg     *config.Config
	logger  *log.Logger
	closer  io.Closer

	backend    platform.Backend
	controller *desktop.Controller
	dispatcher *uithread.Dispatcher
	bus        *events.Bus
	reconciler *Reconciler
	hotkeys    *hotkeys.Handler
	server     *ipc.Server
	watcher    *ConfigWatcher

	reload  chan struct{}
	loopErr chan error
}

// Run starts the daemon and blocks until ctx is done, a termination signal
// arrives or the window event loop stops.
func Run(ctx context.Context, opts Options) error {
	d, err := New(opts)
	if err != nil {
		return err
	}
	return d.Run(ctx)
}

// New loads configuration and opens the backend.
func New(opts Options) (*Daemon, error) {
	path := opts.ConfigPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	logger, closer, err := NewLogger(cfg.Logging, opts.Debug)
	if err != nil {
		return nil, err
	}
	logger.Info("configuration loaded", "path", path, "files", len(res.Files))

	backend, err := openBackend(opts, cfg)
	if err != nil {
		closer.Close()
		return nil, err
	}

	d := &Daemon{
		opts:       opts,
		cfgPath:    path,
		cfg:        cfg,
		logger:     logger,
		closer:     closer,
		backend:    backend,
		dispatcher: uithread.New(16),
		bus:        events.NewBus(),
		reload:     make(chan struct{}, 1),
		loopErr:    make(chan error, 1),
	}

	d.reconciler = NewReconciler(ReconcilerConfig{
		Interval: reconcileInterval,
		Logger:   logger.WithPrefix("reconciler"),
	}, d.dispatcher, func() string { return d.controller.State().String() }, d.bus)

	sink := events.SinkFunc(func(ev events.Event) {
		if ev.Kind == events.StateChanged {
			d.reconciler.Note(ev.State)
		}
		d.bus.Emit(ev)
	})
	d.controller = desktop.New(backend, sink, logger.WithPrefix("desktop"))

	d.watchConfig(res.Files)
	return d, nil
}

func openBackend(opts Options, cfg *config.Config) (platform.Backend, error) {
	if opts.Headless {
		return platform.NewSimulated(platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}), nil
	}

	open := platform.OpenOptions{
		Display:  cfg.Display,
		WindowID: platform.WindowID(cfg.Window.ID),
		Title:    cfg.Window.Title,
	}
	if opts.Display != "" {
		open.Display = opts.Display
	}
	if opts.WindowID != 0 || opts.Title != "" {
		open.WindowID = platform.WindowID(opts.WindowID)
		open.Title = opts.Title
	}
	backend, err := platform.Open(open)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to window: %w", err)
	}
	return backend, nil
}

func (d *Daemon) watchConfig(files []string) {
	watched := append([]string{d.cfgPath}, files...)
	w, err := NewConfigWatcher(watched, d.reload, d.logger.WithPrefix("config"))
	if err != nil {
		d.logger.Warn("config file watching disabled", "err", err)
		return
	}
	d.watcher = w
}

// Controller returns the managed window's controller. Its methods must be
// called through Dispatcher.
func (d *Daemon) Controller() *desktop.Controller { return d.controller }

// Dispatcher returns the queue onto the window goroutine.
func (d *Daemon) Dispatcher() *uithread.Dispatcher { return d.dispatcher }

// Bus returns the event bus.
func (d *Daemon) Bus() *events.Bus { return d.bus }

// Run serves until ctx is done or a termination signal arrives.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.closer.Close()

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go func() {
		d.loopErr <- d.backend.Run(loopCtx, d.dispatcher.Calls())
	}()

	if err := d.start(ctx); err != nil {
		d.shutdown()
		stopLoop()
		d.backend.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.reconciler.Run(runCtx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	d.logger.Info("winstate daemon started", "window", fmt.Sprintf("0x%x", uint64(d.backend.ID())))

	var runErr error
serve:
	for {
		select {
		case <-ctx.Done():
			break serve
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				d.logger.Info("received SIGHUP, reloading config")
				d.applyReload(ctx)
				continue
			}
			d.logger.Info("shutting down", "signal", sig.String())
			break serve
		case <-d.reload:
			d.applyReload(ctx)
		case err := <-d.loopErr:
			runErr = err
			if err != nil {
				d.logger.Error("window event loop stopped", "err", err)
			}
			// Nothing drains the queue any more.
			d.dispatcher.Stop()
			break serve
		}
	}

	cancel()
	d.shutdown()
	stopLoop()
	d.backend.Close()
	d.logger.Info("winstate daemon stopped")
	return runErr
}

func (d *Daemon) start(ctx context.Context) error {
	err := d.dispatcher.Do(ctx, func() error {
		d.controller.Init()
		if err := applyStartup(d.controller, d.backend, d.cfg.Startup, d.logger.WithPrefix("startup")); err != nil {
			d.logger.Warn("startup configuration partially applied", "err", err)
		}
		d.bindHotkeys(d.cfg.Hotkeys)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to initialize window: %w", err)
	}

	socket := d.opts.SocketPath
	if socket == "" {
		socket = d.cfg.IPC.Socket
	}
	server, err := ipc.NewServer(ipc.ServerOptions{
		SocketPath:  socket,
		WatchBuffer: d.cfg.IPC.WatchBuffer,
	}, d.controller, d.dispatcher, d.bus, d.reload, d.logger.WithPrefix("ipc"))
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	d.server = server

	d.writePID()
	return nil
}

// bindHotkeys runs on the window goroutine.
func (d *Daemon) bindHotkeys(cfg config.HotkeyConfig) {
	if d.hotkeys == nil {
		h, err := hotkeys.NewHandler(d.backend, d.logger.WithPrefix("hotkeys"))
		if err != nil {
			if !errors.Is(err, hotkeys.ErrUnsupported) || !d.opts.Headless {
				d.logger.Warn("global hotkeys disabled", "err", err)
			}
			return
		}
		d.hotkeys = h
	}
	if err := d.hotkeys.Apply(cfg, d.controller); err != nil {
		d.logger.Warn("failed to register hotkeys", "err", err)
	}
}

// applyReload loads the configuration again and applies what can change at
// runtime: hotkeys, the WATCH buffer and the log level. Startup settings
// are not re-applied.
func (d *Daemon) applyReload(ctx context.Context) {
	res, err := config.LoadFromPath(d.cfgPath)
	if err != nil {
		d.logger.Error("config reload failed", "err", err)
		return
	}
	cfg := res.Config

	if err := applyLevel(d.logger, cfg.Logging.Level, d.opts.Debug); err != nil {
		d.logger.Warn("log level not changed", "err", err)
	}
	if d.server != nil {
		d.server.SetWatchBuffer(cfg.IPC.WatchBuffer)
	}
	if err := d.dispatcher.Do(ctx, func() error {
		d.bindHotkeys(cfg.Hotkeys)
		return nil
	}); err != nil {
		d.logger.Warn("hotkeys not reloaded", "err", err)
	}
	if d.watcher != nil {
		d.watcher.SetFiles(append([]string{d.cfgPath}, res.Files...))
	}

	d.cfg = cfg
	d.logger.Info("config reloaded", "files", len(res.Files))
}

// shutdown restores the window and stops every service.
func (d *Daemon) shutdown() {
	if d.watcher != nil {
		d.watcher.Close()
	}
	if d.server != nil {
		d.server.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := d.dispatcher.Do(ctx, func() error {
		if d.hotkeys != nil {
			d.hotkeys.Unregister()
		}
		d.controller.Final()
		return nil
	})
	if err != nil {
		d.logger.Warn("window not restored", "err", err)
	}
	d.dispatcher.Stop()
	d.removePID()
}

func (d *Daemon) writePID() {
	path, err := runtimepath.PIDPath()
	if err != nil {
		d.logger.Debug("no pid file", "err", err)
		return
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644); err != nil {
		d.logger.Warn("failed to write pid file", "path", path, "err", err)
	}
}

func (d *Daemon) removePID() {
	if path, err := runtimepath.PIDPath(); err == nil {
		os.Remove(path)
	}
}
