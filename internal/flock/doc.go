// Package flock provides the project build lock.
//
// A droid build patches the project manifest and overwrites artifacts in the
// target dir; two builds of the same project must not overlap. Acquire takes
// an exclusive, non-blocking OS file lock on <target>/.droid.lock and fails
// with ErrBuildLocked when another process holds it. The OS drops the lock
// when the holder exits, so a crashed build never leaves the project locked.
//
// Usage:
//
//	lock, err := flock.Acquire(cfg.LockPath())
//	if err != nil {
//	    return err // errors.Is(err, errors.ErrBuildLocked)
//	}
//	defer lock.Release()
package flock
