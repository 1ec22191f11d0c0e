package projectmodel

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/zerr"
)

// replaceRetries is how many extra rename attempts WriteFileAtomic makes
// when the target is briefly held open by another process.
const replaceRetries = 4

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, creating the directory when needed. A failed rename is
// retried with exponential backoff starting at 1ms.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "dir", dir)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", tmpPath)
	}

	var err error
	for attempt := 0; attempt <= replaceRetries; attempt++ {
		if err = os.Rename(tmpPath, path); err == nil {
			return nil
		}
		if attempt < replaceRetries {
			time.Sleep(time.Duration(1<<attempt) * time.Millisecond)
		}
	}
	_ = os.Remove(tmpPath)
	return zerr.With(zerr.With(zerr.Wrap(err, "failed to replace file"), "path", path), "attempts", replaceRetries+1)
}
