package watch

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newQuiet(t *testing.T, cfg Config) *Watcher {
	t.Helper()
	w, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	w.Logger = log.New(io.Discard, "", 0)
	return w
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without a path")
	}
}

func TestDefaultDebounce(t *testing.T) {
	w := newQuiet(t, Config{Path: "grid.csv"})
	defer w.watcher.Close()

	if w.Config.Debounce != DefaultDebounce {
		t.Errorf("expected default debounce %d, got %d", DefaultDebounce, w.Config.Debounce)
	}
	if !filepath.IsAbs(w.target) {
		t.Errorf("target should be absolute, got %q", w.target)
	}
}

func TestWatcherRunsHandlerOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "grid.csv")
	os.WriteFile(target, []byte("1,2\n"), 0644)

	w := newQuiet(t, Config{Path: target, Debounce: 50})

	called := make(chan string, 4)
	w.Handler = func(path string) error {
		called <- path
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	// Writes to other files in the directory are ignored.
	os.WriteFile(filepath.Join(dir, "other.csv"), []byte("3\n"), 0644)
	os.WriteFile(target, []byte("1,2\n3,4\n"), 0644)

	select {
	case path := <-called:
		if path != target {
			t.Errorf("expected %q, got %q", target, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler call")
	}
	time.Sleep(20 * time.Millisecond)

	events := w.Events()
	if len(events) == 0 || events[0].Status != "processed" {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestWatcherRunOnStartRecordsErrors(t *testing.T) {
	dir := t.TempDir()
	w := newQuiet(t, Config{Path: filepath.Join(dir, "grid.csv"), RunOnStart: true})

	done := make(chan struct{})
	w.Handler = func(string) error {
		defer close(done)
		return errors.New("boom")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for initial run")
	}
	time.Sleep(20 * time.Millisecond)

	events := w.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Status != "error" || events[0].Error != "boom" || events[0].Operation != "start" {
		t.Errorf("unexpected event %+v", events[0])
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	w := newQuiet(t, Config{Path: filepath.Join(t.TempDir(), "grid.csv")})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStartWaitsForRunningHandler(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "grid.csv")
	os.WriteFile(target, []byte("1,2\n"), 0644)

	w := newQuiet(t, Config{Path: target, Debounce: 10})

	started := make(chan struct{}, 1)
	var finished atomic.Bool
	w.Handler = func(string) error {
		started <- struct{}{}
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	os.WriteFile(target, []byte("1,2\n3,4\n"), 0644)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler to start")
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if !finished.Load() {
		t.Error("Start returned before the running handler finished")
	}
	if n := len(w.Events()); n != 1 {
		t.Errorf("expected 1 event once stopped, got %d", n)
	}
}
