// Package watch keeps the scan alive: it watches the directory tree for
// media file changes and triggers a rescan after a quiet period, so one
// copy burst of many files produces one report regeneration.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/Xzpy909/Media-Info-Generator/internal/pipeline"
)

// DefaultDebounce is the quiet period between the last filesystem event
// and the rescan it triggers.
const DefaultDebounce = 2 * time.Second

// Watcher watches a directory tree recursively for media file changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
	log      *logrus.Logger
}

// New creates a watcher rooted at root with all existing subdirectories
// registered. A non-positive debounce falls back to [DefaultDebounce].
func New(root string, debounce time.Duration, log *logrus.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{fsw: fsw, root: root, debounce: debounce, log: log}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}

// Run blocks until ctx is cancelled, calling onChange once per quiet
// period after media files changed. Newly created directories are added
// to the watch so files appearing inside them are seen too.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				w.log.WithFields(logrus.Fields{
					"file": ev.Name,
					"op":   ev.Op.String(),
				}).Debug("Filesystem change")
				if armed && !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.debounce)
				armed = true
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watcher error")

		case <-timer.C:
			armed = false
			onChange()
		}
	}
}

// relevant decides whether an event should trigger a rescan, registering
// new directories as a side effect.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			// New directory: watch it and rescan in case files were
			// moved in along with it.
			if err := w.addTree(ev.Name); err != nil {
				w.log.WithError(err).Warn("Cannot watch new directory")
			}
			return true
		}
	}
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	return pipeline.IsMediaFile(ev.Name)
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
