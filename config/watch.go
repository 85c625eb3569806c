// ABOUTME: Config file watcher for live reload
// ABOUTME: Wraps fsnotify and reports debounced write events as freshly loaded configs

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Next after Close
var ErrWatcherClosed = errors.New("config watcher closed")

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it is written
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logf    func(format string, args ...any)
}

// NewWatcher starts watching path. logf receives watcher errors and may be nil.
func NewWatcher(path string, logf func(format string, args ...any)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &Watcher{path: path, watcher: w, logf: logf}, nil
}

// Next blocks until the file is written and returns the reloaded config.
// Parse failures are returned with the default config, like LoadConfig.
func (w *Watcher) Next() (Config, error) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return Config{}, ErrWatcherClosed
			}

			// Only react to write events
			if event.Op&fsnotify.Write == fsnotify.Write {
				// Debounce: wait a bit for atomic writes to complete
				time.Sleep(reloadDebounce)
				return LoadConfig(w.path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return Config{}, ErrWatcherClosed
			}
			// Log error but continue watching
			w.logf("[WATCHER] Error: %v", err)
		}
	}
}

// Path returns the watched file
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
