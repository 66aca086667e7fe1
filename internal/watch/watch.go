// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package watch monitors an inbox directory and reports files that are
// ready for ingestion. A file is reported once, after it has stopped
// changing for the debounce interval.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when no debounce interval is configured
const DefaultDebounce = 2 * time.Second

// Event is a file ready for processing
type Event struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Filter decides whether a path is of interest
type Filter func(path string) bool

// Watcher reports stable files dropped into one directory.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	debounce  time.Duration
	filter    Filter
	logger    zerolog.Logger

	// path -> time of the last change seen
	pending   map[string]time.Time
	pendingMu sync.Mutex

	events chan Event
	errors chan error

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a watcher on dir. Files rejected by filter are ignored; a nil
// filter accepts every regular, non-hidden file.
func New(dir string, debounce time.Duration, filter Filter, logger zerolog.Logger) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("inbox %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s is not a directory", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		dir:       absDir,
		debounce:  debounce,
		filter:    filter,
		logger:    logger.With().Str("component", "watch").Str("inbox", absDir).Logger(),
		pending:   make(map[string]time.Time),
		events:    make(chan Event, 100),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}, nil
}

// Events returns the channel of ready files.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start begins watching. With includeExisting, files already in the inbox
// are queued as if they had just been dropped.
func (w *Watcher) Start(includeExisting bool) error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}

	if includeExisting {
		entries, err := os.ReadDir(w.dir)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			w.track(filepath.Join(w.dir, entry.Name()), now)
		}
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()

	w.logger.Info().Dur("debounce", w.debounce).Msg("watching inbox")
	return nil
}

// Stop shuts the watcher down and closes its channels.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		close(w.events)
		close(w.errors)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if w.filter != nil && !w.filter(path) {
		return false
	}
	return true
}

func (w *Watcher) track(path string, at time.Time) {
	if !w.accepts(path) {
		return
	}
	w.pendingMu.Lock()
	w.pending[path] = at
	w.pendingMu.Unlock()
}

// eventLoop records creates and writes as pending changes.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.pendingMu.Lock()
				delete(w.pending, event.Name)
				w.pendingMu.Unlock()
				continue
			case event.Op&(fsnotify.Write|fsnotify.Create) == 0:
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}
			w.track(event.Name, time.Now())

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case now := <-ticker.C:
			w.flushStable(now)
		}
	}
}

// flushStable emits files that have been quiet for the debounce interval.
func (w *Watcher) flushStable(now time.Time) {
	threshold := now.Add(-w.debounce)

	var ready []string
	w.pendingMu.Lock()
	for path, last := range w.pending {
		if last.Before(threshold) {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for _, path := range ready {
		info, err := os.Stat(path)
		if err != nil {
			// Removed before it settled.
			continue
		}
		select {
		case w.events <- Event{Path: path, Size: info.Size(), ModTime: info.ModTime()}:
			w.logger.Debug().Str("file", path).Msg("file ready")
		case <-w.done:
			return
		}
	}
}
