// Package lockfile serializes proposal-queue mutations across sortd
// processes with an advisory file lock. Two concurrent invocations
// both doing a read-modify-write of the queue file would otherwise
// silently drop one side's change.
package lockfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrLockBusy is returned by TryAcquire when another process holds the
// lock.
var ErrLockBusy = errors.New("queue lock held by another sortd process")

// Lock is a held advisory lock. Release it when the critical section
// ends; the lock also dies with the process.
type Lock struct {
	f *os.File
}

// Acquire opens (creating if needed) the lock file at path and blocks
// until an exclusive lock is held.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := flockExclusive(f, true); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return &Lock{f: f}, nil
}

// TryAcquire is like Acquire but fails immediately with ErrLockBusy
// instead of waiting.
func TryAcquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := flockExclusive(f, false); err != nil {
		f.Close()
		return nil, err
	}
	return &Lock{f: f}, nil
}

// Release unlocks and closes the lock file. Safe to call once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockErr := flockUnlock(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
