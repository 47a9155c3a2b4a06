package daemon

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestConfigWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(path, []byte("display: \":0\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	notify := make(chan struct{}, 1)
	w, err := NewConfigWatcher([]string{path}, notify, log.New(io.Discard))
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	select {
	case <-notify:
		t.Fatalf("unrelated file triggered reload")
	case <-time.After(2 * reloadDebounce):
	}

	if err := os.WriteFile(path, []byte("display: \":1\"\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	select {
	case <-notify:
	case <-time.After(3 * time.Second):
		t.Fatalf("expected reload notification")
	}
}
