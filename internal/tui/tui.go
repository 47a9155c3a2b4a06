// Package tui is an interactive control panel for a running winstate daemon.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/ipc"
	"github.com/1broseidon/winstate/internal/runtimepath"
)

const (
	reconnectInterval = 2 * time.Second
	logFileName       = "tui.log"
)

// Run starts the TUI against client and blocks until the user quits.
// configPath selects the file the Settings tab edits; empty uses the
// default location. debug writes a log to tui.log in the runtime
// directory, since the terminal belongs to the UI.
func Run(client *ipc.Client, configPath string, debug bool) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	if configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = path
	}
	var cfg *config.Config
	if res, err := config.LoadFromPath(configPath); err == nil {
		cfg = res.Config
	}

	logger, closer := newLogger(debug)
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evs := make(chan events.Event, 64)
	go watch(ctx, client, evs, logger)

	p := tea.NewProgram(newModel(client, cfg, configPath, evs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// newLogger returns a debug logger writing to the runtime directory, or a
// discarding one. A log file that cannot be opened also discards.
func newLogger(debug bool) (*log.Logger, io.Closer) {
	discard := log.New(io.Discard)
	if !debug {
		return discard, io.NopCloser(nil)
	}
	dir, err := runtimepath.Dir()
	if err != nil {
		return discard, io.NopCloser(nil)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return discard, io.NopCloser(nil)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "tui",
		Level:           log.DebugLevel,
	})
	return logger, f
}

// eventStream is the part of the IPC client watch needs.
type eventStream interface {
	Watch(ctx context.Context, fn func(events.Event)) error
}

// watch forwards daemon events into evs, dropping them when the UI falls
// behind, and reconnects while ctx is live.
func watch(ctx context.Context, client eventStream, evs chan<- events.Event, logger *log.Logger) {
	watchEvery(ctx, client, evs, logger, reconnectInterval)
}

func watchEvery(ctx context.Context, client eventStream, evs chan<- events.Event, logger *log.Logger, retry time.Duration) {
	for ctx.Err() == nil {
		err := client.Watch(ctx, func(ev events.Event) {
			select {
			case evs <- ev:
			default:
			}
		})
		if ctx.Err() != nil {
			return
		}
		logger.Debug("event stream ended, reconnecting", "err", err, "retry", retry)
		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}
