// Package vectorindex provides supporting infrastructure around vector index
// implementations.
package vectorindex

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of filesystem events a snapshot
// rewrite produces into a single reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes a snapshot file for out-of-process changes and triggers a
// reload callback. The snapshot is written with a temp-file rename, so the
// watch covers the parent directory rather than the file itself.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	reload   func() error
	debounce time.Duration
	log      zerolog.Logger
	done     chan struct{}
}

// NewWatcher creates a watcher for the snapshot at path. reload is invoked
// after changes settle for the debounce interval.
func NewWatcher(path string, debounce time.Duration, reload func() error, log zerolog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		path:     filepath.Clean(path),
		reload:   reload,
		debounce: debounce,
		log:      log.With().Str("component", "snapshot-watcher").Logger(),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory must exist.
func (w *Watcher) Start() error {
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching snapshot directory: %w", err)
	}
	go w.loop()
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// loop consumes filesystem events, debouncing reloads.
func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timerC
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.reload(); err != nil {
				w.log.Warn().Err(err).Msg("snapshot reload failed")
			} else {
				w.log.Debug().Str("path", w.path).Msg("snapshot reloaded")
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevant reports whether the event concerns the snapshot file. Create and
// rename events cover the temp-file rename that publishes a new snapshot;
// remove covers deleting the last document.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Rename) ||
		event.Op.Has(fsnotify.Remove)
}
