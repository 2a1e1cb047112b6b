package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.csv")
	other := filepath.Join(dir, "other.csv")
	if err := os.WriteFile(path, []byte("ip\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 4)
	w, err := New(func(p string) { changed <- p }, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.WithDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// unwatched files in the same directory are ignored
	if err := os.WriteFile(other, []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("ip\n10.0.0.1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-changed:
		want, _ := filepath.Abs(path)
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(func(string) {}, filepath.Join(t.TempDir(), "absent", "file.csv"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
