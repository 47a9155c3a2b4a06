package daemon

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// ConfigWatcher signals reload when any loaded config file changes. It
// watches parent directories so editors that replace files are noticed.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	notify  chan<- struct{}
	logger  *log.Logger

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
	done  chan struct{}
}

// NewConfigWatcher watches files and sends on notify after changes settle.
func NewConfigWatcher(files []string, notify chan<- struct{}, logger *log.Logger) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	cw := &ConfigWatcher{
		watcher: w,
		notify:  notify,
		logger:  logger,
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	cw.SetFiles(files)
	go cw.loop()
	return cw, nil
}

// SetFiles replaces the watched file set. Directories stay watched once
// added.
func (cw *ConfigWatcher) SetFiles(files []string) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.files = make(map[string]struct{}, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		cw.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := cw.dirs[dir]; ok {
			continue
		}
		if err := cw.watcher.Add(dir); err != nil {
			cw.logger.Warn("cannot watch config directory", "dir", dir, "err", err)
			continue
		}
		cw.dirs[dir] = struct{}{}
	}
}

func (cw *ConfigWatcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	cw.mu.Lock()
	defer cw.mu.Unlock()
	_, ok := cw.files[abs]
	return ok
}

func (cw *ConfigWatcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-cw.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if !cw.relevant(ev.Name) {
				continue
			}
			cw.logger.Debug("config file changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("config watcher error", "err", err)
		case <-fire:
			fire = nil
			select {
			case cw.notify <- struct{}{}:
			default:
			}
		}
	}
}

// Close stops watching.
func (cw *ConfigWatcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}
