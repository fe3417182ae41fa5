package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler receives the freshly parsed configuration after the
// watched file changes.
type ReloadHandler func(Config)

// Watcher reloads the configuration file when it changes on disk.
// Editors typically save by writing a temp file and renaming it over
// the original, so the watcher monitors the parent directory and
// filters events by file name, then waits a short settle delay before
// parsing so half-written files are not picked up.
type Watcher struct {
	mu sync.Mutex

	path     string
	fsw      *fsnotify.Watcher
	handlers []ReloadHandler

	settle     time.Duration
	errHandler func(error)
	timer      *time.Timer

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithSettleDelay sets how long the watcher waits after the last file
// event before reloading.
func WithSettleDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithErrorHandler sets a handler for reload failures. Without one,
// failures are dropped and the previous configuration stays in effect.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.errHandler = fn
	}
}

// NewWatcher creates a watcher for the configuration file at path and
// starts delivering reloads until Close.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    absPath,
		fsw:     fsw,
		settle:  100 * time.Millisecond,
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// OnReload registers a handler for configuration reloads.
func (w *Watcher) OnReload(fn ReloadHandler) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, fn)
}

// Close stops the watcher. It is safe to call Close more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

// handleEvent schedules a reload for events touching the watched file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	// Restart the settle timer; the reload runs once writes quiet down.
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, w.reload)
}

// reload parses the file and delivers the result to handlers.
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.reportError(err)
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	handlers := make([]ReloadHandler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, fn := range handlers {
		w.safeCall(fn, cfg)
	}
}

// safeCall invokes a handler with panic recovery so a broken handler
// cannot kill the watcher goroutine.
func (w *Watcher) safeCall(fn ReloadHandler, cfg Config) {
	defer func() {
		_ = recover()
	}()
	fn(cfg)
}

func (w *Watcher) reportError(err error) {
	w.mu.Lock()
	fn := w.errHandler
	w.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}
