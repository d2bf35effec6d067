package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReportsWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "map.svg")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("v1"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	w, err := NewWatcher(watched)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("v2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(watched, []byte("v2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != watched {
			t.Fatalf("event for %q, want %q", got, watched)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("no event for watched file")
	}
}

func TestAddIsIdempotentAndCloseEndsEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "votes.csv")
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := w.Add(path); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if len(w.dirs) != 1 || len(w.files) != 1 {
		t.Fatalf("dirs=%d files=%d", len(w.dirs), len(w.files))
	}
	if _, ok := w.matches(path); !ok {
		t.Fatalf("path not matched")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_ = w.Close()
	select {
	case _, ok := <-w.Events:
		if ok {
			t.Fatalf("unexpected event after close")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Events not closed")
	}
}
