// Package state owns the on-disk session and proposal files for one
// config directory. Reads are forgiving: a missing or corrupt file is
// treated as empty state. Writes are atomic (temp file + rename) and
// their failures always propagate; proposals must never be lost
// silently on the write path.
//
// A Store is constructed once per process and threaded into whatever
// needs it, so tests can run against isolated temp directories. Queue
// mutations take an advisory file lock so concurrent invocations
// cannot lose each other's read-modify-write.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sortdhq/sortd/internal/lockfile"
)

const (
	sessionFileName   = "session.json"
	proposalsFileName = "proposals.json"
	queueLockFileName = "queue.lock"
)

// Store reads and writes the CLI's durable state files.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory is created
// lazily on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the config directory this store owns.
func (s *Store) Dir() string { return s.dir }

func (s *Store) sessionPath() string   { return filepath.Join(s.dir, sessionFileName) }
func (s *Store) proposalsPath() string { return filepath.Join(s.dir, proposalsFileName) }
func (s *Store) queueLockPath() string { return filepath.Join(s.dir, queueLockFileName) }

// withQueueLock runs fn while holding the exclusive cross-process
// queue lock. Every proposal read-modify-write goes through here.
func (s *Store) withQueueLock(fn func() error) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	lock, err := lockfile.Acquire(s.queueLockPath())
	if err != nil {
		return err
	}
	defer lock.Release()
	return fn()
}

// readJSON loads path into v. Returns false when the file is absent,
// unreadable, or not valid JSON; callers fall back to a default value.
func (s *Store) readJSON(path string, v interface{}) bool {
	data, err := os.ReadFile(path) // #nosec G304 - path is derived from the config dir
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false
	}
	return true
}

// writeJSON atomically persists v to path: serialize to a temp file in
// the same directory, then rename over the target. A crash mid-write
// leaves the previous file intact.
func (s *Store) writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
