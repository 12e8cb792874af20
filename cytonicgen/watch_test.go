package cytonicgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "api.yaml")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte("docs: v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 10)
	done := make(chan error, 1)
	w := &Watcher{Files: []string{file}, Debounce: 20 * time.Millisecond, Logger: discardLogger()}
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs <- struct{}{}
			return nil
		})
	}()

	wait := func(what string) {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", what)
		}
	}
	wait("initial run")

	// Unwatched files in the same directory are ignored.
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-runs:
		t.Fatal("change to an unwatched file triggered a run")
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(file, []byte("docs: v2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wait("run after change")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestGenerator_WatchRequiresFiles(t *testing.T) {
	if err := FromProject(loadProject(t)).Watch(context.Background(), t.TempDir()); err == nil {
		t.Error("Watch() without files succeeded")
	}
}
