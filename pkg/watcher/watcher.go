// Package watcher monitors the fieldwork data directory for writes so the
// dashboard can refresh without polling the API. Events are debounced:
// rapid bursts of writes (a sync rewriting several files) collapse into one
// notification.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kvanderzwet/fieldwork/pkg/debug"
)

// DefaultDebounce collapses write bursts within this window.
const DefaultDebounce = 250 * time.Millisecond

// ErrAlreadyStarted is returned by Start on a running watcher.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnChange sets the callback invoked (debounced) when any JSON document
// under the root changes. The argument is the root-relative path of the
// last file touched in the burst.
func WithOnChange(fn func(rel string)) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher watches a data directory tree via fsnotify.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(rel string)
	onError  func(error)

	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	mu      sync.Mutex
	started bool
}

// New creates a watcher over the given data directory.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     abs,
		debounce: DefaultDebounce,
		onChange: func(string) {},
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. Every existing subdirectory is registered;
// directories created later (new projects) are added as they appear.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := addTree(fsw, w.root); err != nil {
		fsw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.fsw = fsw
	w.cancel = cancel
	w.started = true
	go w.loop(ctx)
	return nil
}

// Stop halts the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	w.fsw.Close()
	w.started = false
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		lastRel string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// New project directories must be registered to stay visible.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(ev.Name)
					continue
				}
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Remove) {
				continue
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				rel = ev.Name
			}
			lastRel = rel
			debug.Log("watcher: %s %s", ev.Op, rel)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			w.onChange(lastRel)
			timer = nil
			timerCh = nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}
