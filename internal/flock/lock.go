package flock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/android-clojure/droid/internal/errors"
)

// Lock is a held build lock.
type Lock struct {
	path string
	file *os.File
	once sync.Once
}

// Acquire creates the lock file (and its directory) if needed and takes the
// lock without waiting. It fails with ErrBuildLocked when the lock is held.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create lock dir for %s", path)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- lock path derived from project config
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open lock file %s", path)
	}
	if err := tryLock(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", errors.ErrBuildLocked, path)
	}

	// Record the holder for humans inspecting a stuck lock; failures are harmless.
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}

	return &Lock{path: path, file: f}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	var err error
	l.once.Do(func() {
		if uerr := unlock(l.file); uerr != nil {
			err = errors.Wrapf(uerr, "failed to unlock %s", l.path)
		}
		if cerr := l.file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", l.path)
		}
	})
	return err
}
