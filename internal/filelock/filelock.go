// Package filelock serializes writers of a file across processes with an
// advisory lock held on a sibling ".lock" file.
package filelock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultTimeout bounds how long Acquire waits for another holder.
	DefaultTimeout = 2 * time.Minute

	// RetryDelay is the pause between acquisition attempts.
	RetryDelay = 100 * time.Millisecond

	// Extension is appended to the target path to name the lock file.
	Extension = ".lock"
)

var (
	// ErrTimeout is returned when the lock stays held past the timeout.
	ErrTimeout = zerr.New("timed out waiting for file lock")

	errHeld = errors.New("lock held by another process")
)

// Lock is a held lock. Release it exactly once.
type Lock struct {
	path string
	file *os.File
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release gives the lock up.
func (l *Lock) Release() {
	release(l)
}

// Acquire takes the lock for target, waiting up to timeout for another
// holder. A timeout of zero uses DefaultTimeout.
func Acquire(ctx context.Context, target string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	path := target + Extension
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create lock directory"), "path", path)
	}

	deadline := time.Now().Add(timeout)
	for {
		lock, err := tryLock(path)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, errHeld) {
			return nil, zerr.With(zerr.Wrap(err, "failed to lock file"), "path", path)
		}
		if time.Now().After(deadline) {
			return nil, zerr.With(zerr.Wrap(ErrTimeout, "failed to lock file"), "path", path)
		}

		select {
		case <-ctx.Done():
			return nil, zerr.With(zerr.Wrap(ctx.Err(), "lock acquisition cancelled"), "path", path)
		case <-time.After(RetryDelay):
		}
	}
}

// With runs fn while holding the lock for target.
func With(ctx context.Context, target string, fn func() error) error {
	lock, err := Acquire(ctx, target, 0)
	if err != nil {
		return err
	}
	defer lock.Release()
	return fn()
}
