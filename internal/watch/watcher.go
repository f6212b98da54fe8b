// Package watch reruns work when a single file is rewritten.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before a change is reported.
const DefaultDebounce = 250 * time.Millisecond

// Change reports that the watched file was rewritten or went away.
type Change struct {
	Path    string
	Removed bool
}

// Watcher monitors one file. It watches the parent directory so that editors
// and tools that replace the file by rename are still observed.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Changes  <-chan Change

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for path. Call Start to begin receiving changes.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	ch := make(chan Change, 1)
	return &Watcher{
		Path:     abs,
		Debounce: DefaultDebounce,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	var (
		last    time.Time
		pending bool
		removed bool
	)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				removed = false
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				removed = true
			default:
				continue
			}
			last = time.Now()
			pending = true

		case <-ticker.C:
			if pending && time.Since(last) >= debounce {
				w.emit(Change{Path: w.Path, Removed: removed})
				pending = false
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// emit never blocks: a change already queued covers this one.
func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	default:
	}
}

// Loop calls run once, then again each time path is rewritten, until ctx is
// cancelled. Errors from run go to onErr and do not stop the loop. Loop
// returns nil on cancellation.
func Loop(ctx context.Context, path string, debounce time.Duration, run func(context.Context) error, onErr func(error)) error {
	w, err := NewWatcher(path)
	if err != nil {
		return err
	}
	if debounce > 0 {
		w.Debounce = debounce
	}
	if err := w.Start(); err != nil {
		w.watcher.Close()
		return err
	}
	defer w.Stop()

	call := func() {
		if err := run(ctx); err != nil && onErr != nil {
			onErr(err)
		}
	}

	call()
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-w.Changes:
			if c.Removed {
				continue
			}
			call()
		}
	}
}
