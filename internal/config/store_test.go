package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, doc string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// waitForResponse polls the store until the prompt resolves to want or the
// deadline passes.
func waitForResponse(t *testing.T, store *Store, prompt, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := store.Current().Responses[prompt]; got == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("store never observed %q -> %q", prompt, want)
}

func TestStoreCurrentAndReplace(t *testing.T) {
	first := &Snapshot{Responses: map[string]string{"a": "1"}}
	second := &Snapshot{Responses: map[string]string{"a": "2"}}

	store := NewStore(first)
	if store.Current() != first {
		t.Fatal("Current did not return the initial snapshot")
	}
	store.Replace(second)
	if store.Current() != second {
		t.Fatal("Replace did not publish the new snapshot")
	}
}

func TestWatchPublishesNewSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "responses.yml")
	writeConfig(t, path, "responses:\n  ping: pong\n")

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := NewStore(snap)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Watch(ctx, path)

	// Give the watcher a moment to register before the first edit.
	time.Sleep(50 * time.Millisecond)

	old := store.Current()
	writeConfig(t, path, "responses:\n  ping: pang\n")
	waitForResponse(t, store, "ping", "pang")

	// A reference taken before the swap still sees the old mapping.
	if old.Responses["ping"] != "pong" {
		t.Fatalf("earlier snapshot mutated: %q", old.Responses["ping"])
	}
}

func TestWatchKeepsSnapshotOnInvalidEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "responses.yml")
	writeConfig(t, path, "responses:\n  ping: pong\n")

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := NewStore(snap)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Watch(ctx, path)
	time.Sleep(50 * time.Millisecond)

	// Broken YAML must not replace the served table.
	writeConfig(t, path, "responses: {\n")
	time.Sleep(200 * time.Millisecond)
	if got := store.Current().Responses["ping"]; got != "pong" {
		t.Fatalf("invalid edit replaced snapshot: %q", got)
	}

	// A later valid edit recovers.
	writeConfig(t, path, "responses:\n  ping: back\n")
	waitForResponse(t, store, "ping", "back")
}
