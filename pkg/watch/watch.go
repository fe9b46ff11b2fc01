// Package watch regenerates components when their spec files change.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/uigen/pkg/batch"
	"github.com/gnana997/uigen/pkg/util"
)

// DefaultDebounce groups the bursts of writes editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// Event reports what happened to one spec file.
type Event struct {
	Path    string         // relative to the watched root
	Outcome *batch.Outcome // nil when removed or on error
	Removed bool
	Err     error
}

// Handler receives events. It is called from timer goroutines and must be
// safe for concurrent use.
type Handler func(Event)

// Options configures a Watcher.
type Options struct {
	Batch    batch.Options
	Debounce time.Duration // 0 = DefaultDebounce
}

// Watcher watches a directory tree and regenerates changed spec files.
//
// **Features:**
//   - Debouncing per file
//   - New directories are watched as they appear
//   - Removing a spec removes its generated file
//
// **Usage:**
//
//	w, err := New(runner, root, opts, handler, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher *fsnotify.Watcher
	runner  *batch.Runner
	root    string
	options Options
	exclude []string
	handler Handler
	logger  *slog.Logger

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// New creates a watcher rooted at root. Call Start to begin watching.
func New(runner *batch.Runner, root string, options Options, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = util.NopLogger()
	}
	if handler == nil {
		handler = func(Event) {}
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	exclude := append([]string(nil), options.Batch.Exclude...)
	if options.Batch.OutDir != "" {
		if abs, err := filepath.Abs(options.Batch.OutDir); err == nil {
			options.Batch.OutDir = abs
		}
		if rel, err := filepath.Rel(absRoot, options.Batch.OutDir); err == nil && filepath.IsLocal(rel) {
			exclude = append(exclude, filepath.ToSlash(rel)+"/**")
		}
	}

	return &Watcher{
		watcher:        fw,
		runner:         runner,
		root:           absRoot,
		options:        options,
		exclude:        exclude,
		handler:        handler,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
	}, nil
}

// Start adds watches for the root and its directories and starts the
// event loop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher already stopped")
	}
	if w.started {
		return errors.New("watcher already started")
	}

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.started = true

	w.logger.Info("watching spec files", "root", w.root, "debounce", w.options.Debounce)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Pending regenerations are cancelled. Safe to call
// more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignoredDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ignoredDir(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	rel, ok := w.relevant(event.Name)
	if !ok {
		return
	}
	w.logger.Debug("spec file event", "op", event.Op.String(), "file", rel)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.debounce(event.Name, rel)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancelPending(event.Name)
		w.removeOutput(rel)
	}
}

// relevant returns the root-relative path when path is a watched spec file.
func (w *Watcher) relevant(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	return rel, batch.Matches(w.options.Batch.Include, w.exclude, rel)
}

func (w *Watcher) ignoredDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.exclude {
		if batch.Matches([]string{pattern}, nil, rel) {
			return true
		}
	}
	return false
}

func (w *Watcher) debounce(path, rel string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounceTimers[path]; ok {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(w.options.Debounce, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		w.regenerate(path, rel)
	})
}

func (w *Watcher) cancelPending(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if timer, ok := w.debounceTimers[path]; ok {
		timer.Stop()
		delete(w.debounceTimers, path)
	}
}

func (w *Watcher) regenerate(path, rel string) {
	outcome, err := w.runner.ProcessFile(batch.FileJob{Path: path, Rel: rel}, w.options.Batch)
	if err != nil {
		w.logger.Warn("failed to regenerate", "file", rel, "error", err)
		w.handler(Event{Path: rel, Err: err})
		return
	}
	w.logger.Info("regenerated", "file", rel, "success", outcome.Result.Success, "output", outcome.Output)
	w.handler(Event{Path: rel, Outcome: &outcome})
}

func (w *Watcher) removeOutput(rel string) {
	if w.options.Batch.OutDir != "" {
		out := filepath.Join(w.options.Batch.OutDir, filepath.FromSlash(batch.OutputPath(rel, w.options.Batch.Dialect)))
		if err := os.Remove(out); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("failed to remove generated file", "file", out, "error", err)
		}
	}
	w.handler(Event{Path: rel, Removed: true})
}

// Stats reports watcher state.
type Stats struct {
	PendingRegenerations int
	IsRunning            bool
}

// GetStats returns watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.debounceMu.Lock()
	pending := len(w.debounceTimers)
	w.debounceMu.Unlock()

	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()
	return Stats{PendingRegenerations: pending, IsRunning: running}
}
