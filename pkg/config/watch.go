package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/leapkey/pkg/debug"
)

// DefaultDebounce coalesces editor write bursts (write + chmod + rename)
// into a single reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher monitors the config file and re-reads it on change, so alphabet
// and dimming edits take effect without restarting.
//
// Watches the parent directory rather than the file itself: most editors
// replace the file on save, which would otherwise drop the watch.
type Watcher struct {
	path     string
	debounce time.Duration

	fs      *fsnotify.Watcher
	changed chan Config

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	done    chan struct{}
}

// NewWatcher creates a watcher for the given config path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		fs:       fs,
		changed:  make(chan Config, 1),
		done:     make(chan struct{}),
	}, nil
}

// Changed delivers each successfully reloaded Config. The channel has a
// one-slot buffer; an unread config is replaced by the newer one.
func (w *Watcher) Changed() <-chan Config {
	return w.changed
}

// Start begins watching. Safe to call once.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Close stops the watcher and releases the fsnotify handle.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return w.fs.Close()
	}
	w.started = false
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.scheduleReload()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			debug.Log("config watch error: %v", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadFrom(w.path)
	if err != nil {
		debug.Log("config reload failed: %v", err)
		return
	}
	// Replace a pending unread config instead of blocking.
	select {
	case <-w.changed:
	default:
	}
	select {
	case w.changed <- cfg:
	default:
	}
	debug.Log("config reloaded from %s", w.path)
}
