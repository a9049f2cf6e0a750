// Package watcher keeps wraps alive for targets pacman hooks cannot cover.
//
// Pacman hooks handle package-managed binaries, but a wrap created with
// --no-hooks (files under /home, /usr/local, ...) is silently destroyed
// whenever something replaces the file. The watcher monitors every wrapped
// target's directory via fsnotify, and when a wrapped path no longer holds
// a wrapper, re-applies the persisted spec.
package watcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jonathanlmc/wrapperize/internal/install"
	"github.com/jonathanlmc/wrapperize/internal/relocate"
	"github.com/jonathanlmc/wrapperize/internal/wrapper"
)

// Watcher re-applies wraps when wrapped files change on disk.
type Watcher struct {
	store *relocate.Store
	inst  *install.Installer
	fsw   *fsnotify.Watcher
	logw  io.Writer

	interval time.Duration
	ticker   *time.Ticker
	stopCh   chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	targets map[string]bool // wrapped original paths
	dirty   map[string]bool // paths with pending events
}

// New creates a Watcher over the given state root.
func New(store *relocate.Store, inst *install.Installer) *Watcher {
	return &Watcher{
		store:    store,
		inst:     inst,
		logw:     os.Stderr,
		interval: 2 * time.Second,
		stopCh:   make(chan struct{}),
		targets:  make(map[string]bool),
		dirty:    make(map[string]bool),
	}
}

// Start reads the wrapped-target set from the state root, begins watching
// each target's directory, and launches the repair loop. Events are
// batched on a short ticker so a package manager rewriting a file several
// times triggers one repair, after the dust settles.
func (w *Watcher) Start() error {
	targets, err := w.store.Targets()
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("nothing to watch: no wrapped programs under %s", w.store.Root())
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	dirs := make(map[string]bool)
	for _, target := range targets {
		w.targets[target] = true
		dirs[filepath.Dir(target)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.ticker = time.NewTicker(w.interval)
	w.wg.Add(1)
	go w.run()

	fmt.Fprintf(w.logw, "watching %d wrapped program(s) across %d directories\n", len(targets), len(dirs))
	return nil
}

// run collects events and repairs dirty targets on each tick.
func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.mu.Lock()
			if w.targets[ev.Name] {
				w.dirty[ev.Name] = true
			}
			w.mu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(w.logw, "watch error: %v\n", err)
		case <-w.ticker.C:
			w.flush()
		case <-w.stopCh:
			w.flush()
			return
		}
	}
}

// flush repairs every target that saw events since the last tick.
func (w *Watcher) flush() {
	w.mu.Lock()
	pending := make([]string, 0, len(w.dirty))
	for path := range w.dirty {
		pending = append(pending, path)
		delete(w.dirty, path)
	}
	w.mu.Unlock()

	for _, path := range pending {
		w.repair(path)
	}
}

// repair re-applies the wrap for path if something replaced the wrapper.
func (w *Watcher) repair(path string) {
	if _, err := os.Stat(path); err != nil {
		// Deleted, not replaced. Removal is the admin's (or the removal
		// hook's) business; re-creating the file here would fight them.
		return
	}
	if _, wrapped, err := wrapper.Detect(path); err != nil || wrapped {
		return
	}

	if _, err := w.inst.Apply(path); err != nil {
		fmt.Fprintf(w.logw, "re-wrap of %s failed: %v\n", path, err)
		return
	}
	fmt.Fprintf(w.logw, "re-wrapped %s\n", path)
}

// Stop halts the watcher after a final repair pass.
func (w *Watcher) Stop() {
	close(w.stopCh)
	if w.ticker != nil {
		w.ticker.Stop()
	}
	w.wg.Wait()
	if w.fsw != nil {
		w.fsw.Close()
	}
}
