package daemon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/charmbracelet/log"
)

func TestNewLogger_FileAndLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "winstate.log")
	logger, closer, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "logfmt", File: path}, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible", "key", "value")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered: %s", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "key=value") {
		t.Fatalf("expected warn message in log: %s", out)
	}
}

func TestNewLogger_DebugOverridesLevel(t *testing.T) {
	logger, closer, err := NewLogger(config.LoggingConfig{Level: "error", Format: "text"}, true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer closer.Close()
	if logger.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %v", logger.GetLevel())
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, _, err := NewLogger(config.LoggingConfig{Level: "loud", Format: "text"}, false); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
