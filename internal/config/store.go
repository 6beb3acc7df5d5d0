package config

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/mockllm/mockllm/internal/logger"
)

// Store publishes the current Snapshot to concurrent readers. Readers grab
// one reference per request and are unaffected by reloads that land later.
type Store struct {
	snap atomic.Pointer[Snapshot]
}

func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.snap.Store(snap)
	return s
}

// Current returns the latest validated snapshot. Never blocks.
func (s *Store) Current() *Snapshot {
	return s.snap.Load()
}

// Replace atomically publishes a new snapshot.
func (s *Store) Replace(snap *Snapshot) {
	s.snap.Store(snap)
}

// Watch re-loads the config file whenever it changes and publishes the
// result. A load failure keeps the previous snapshot; a broken edit must
// never take the server down. Blocks until ctx is canceled.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file (write temp + rename) keep triggering
// events.
func (s *Store) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	logger.Log.Infow("[config] watching for changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			s.reload(target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Errorw("[config] watcher error", "err", err)
		}
	}
}

func (s *Store) reload(path string) {
	snap, err := Load(path)
	if err != nil {
		logger.Log.Errorw("[config] reload failed, keeping previous snapshot", "path", path, "err", err)
		return
	}
	s.Replace(snap)
	logger.Log.Infow("[config] reloaded", "path", path, "responses", len(snap.Responses))
}
