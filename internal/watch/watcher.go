// Package watch re-runs a handler whenever a grid file is written.
// It watches the file's directory so editors that save by rename are seen.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500

// Config holds the watcher configuration.
type Config struct {
	Path       string `json:"path"`
	Debounce   int    `json:"debounceMs"` // Milliseconds to wait before processing
	RunOnStart bool   `json:"runOnStart"`
}

// Event records one handler run.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"` // "start", "CREATE", "WRITE", ...
	Status    string    `json:"status"`    // "processed", "error"
	Error     string    `json:"error,omitempty"`
}

// Handler is called with the watched path after it settles.
type Handler func(path string) error

// Watcher monitors a single file and triggers Handler on changes.
type Watcher struct {
	Config  Config
	Logger  *log.Logger
	Handler Handler

	mu      sync.Mutex
	runMu   sync.Mutex
	events  []Event
	watcher *fsnotify.Watcher
	timer   *time.Timer
	target  string
	stopped bool
}

// New creates a Watcher for cfg.Path.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("no file to watch")
	}
	target, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", cfg.Path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	return &Watcher{
		Config:  cfg,
		Logger:  log.New(os.Stderr, "[watch] ", log.LstdFlags),
		watcher: fsw,
		target:  target,
	}, nil
}

// Start watches until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.target)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}

	w.Logger.Printf("Watching %s", w.target)

	if w.Config.RunOnStart {
		w.process("start")
	}

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			// Wait for a run in progress and drop any that fire later.
			w.runMu.Lock()
			w.stopped = true
			w.runMu.Unlock()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if abs, err := filepath.Abs(event.Name); err != nil || abs != w.target {
		return
	}

	op := event.Op.String()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(time.Duration(w.Config.Debounce)*time.Millisecond, func() {
		w.process(op)
	})
	w.mu.Unlock()
}

func (w *Watcher) process(operation string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if w.stopped {
		return
	}

	evt := Event{
		Time:      time.Now(),
		Path:      w.target,
		Operation: operation,
		Status:    "processed",
	}

	if w.Handler != nil {
		if err := w.Handler(w.target); err != nil {
			evt.Status = "error"
			evt.Error = err.Error()
			w.Logger.Printf("Error processing %s: %v", w.target, err)
		} else {
			w.Logger.Printf("Processed %s (%s)", w.target, operation)
		}
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// Events returns all recorded handler runs.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}
