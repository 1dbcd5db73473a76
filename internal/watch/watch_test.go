package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherRun(t *testing.T) {
	root := t.TempDir()
	plan := filepath.Join(root, "lesson_plan.csv")
	sources := filepath.Join(root, "pdfs")
	if err := os.WriteFile(plan, []byte("Week\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(sources, 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	trigger := make(chan struct{})
	done := make(chan error, 1)
	w := &Watcher{Files: []string{plan}, Dirs: []string{sources}, Debounce: 20 * time.Millisecond}
	go func() {
		done <- w.Run(ctx, trigger, func(context.Context) error {
			calls <- struct{}{}
			// Failures are logged, not fatal.
			return errors.New("broken input")
		})
	}()

	wait := func(what string) {
		t.Helper()
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("no rebuild after %s", what)
		}
	}

	wait("start")
	if err := os.WriteFile(plan, []byte("Week,Date\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wait("lesson plan write")
	if err := os.WriteFile(filepath.Join(sources, "new.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	wait("new source file")
	trigger <- struct{}{}
	wait("manual trigger")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestWatcherRun_MissingDir(t *testing.T) {
	w := &Watcher{Dirs: []string{filepath.Join(t.TempDir(), "nope")}}
	err := w.Run(context.Background(), nil, func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}
