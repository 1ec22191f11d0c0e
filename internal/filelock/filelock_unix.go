//go:build unix

package filelock

import (
	"errors"
	"os"
	"syscall"
)

func tryLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN) {
			return nil, errHeld
		}
		return nil, err
	}
	return &Lock{path: path, file: f}, nil
}

// The lock file is left on disk.
func release(l *Lock) {
	_ = l.file.Close()
}
