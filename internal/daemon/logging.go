package daemon

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/charmbracelet/log"
)

// NewLogger builds the daemon logger from cfg. debug forces the debug
// level. The returned closer releases the log file, if any.
func NewLogger(cfg config.LoggingConfig, debug bool) (*log.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = f
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "winstate",
		Formatter:       formatter(cfg.Format),
	})
	if err := applyLevel(logger, cfg.Level, debug); err != nil {
		closer.Close()
		return nil, nil, err
	}
	return logger, closer, nil
}

func applyLevel(logger *log.Logger, level string, debug bool) error {
	if debug {
		logger.SetLevel(log.DebugLevel)
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return nil
}

func formatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
