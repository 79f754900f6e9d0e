// Package manifest temporarily patches the project's AndroidManifest.xml.
//
// A patch copies the manifest to <path>.backup, writes the patched content
// in place and hands back a restore function that moves the backup over the
// manifest. WithPatch guarantees the restore runs on every exit path, so the
// checked-in manifest is never left modified.
package manifest

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
)

// MutateFunc returns the patched manifest content for the original content.
type MutateFunc func(original []byte) ([]byte, error)

// RestoreFunc puts the original manifest back and removes the backup.
type RestoreFunc func() error

// BackupPath returns the sibling backup path for a manifest.
func BackupPath(path string) string {
	return path + constants.ManifestBackupSuffix
}

// RecoverStale restores a backup left behind by a run that died while the
// manifest was patched. It reports whether a backup was found.
func RecoverStale(ctx context.Context, path string) (bool, error) {
	backup := BackupPath(path)
	if _, err := os.Stat(backup); err != nil {
		return false, nil
	}
	zerolog.Ctx(ctx).Warn().Str("manifest", path).Msg("restoring manifest from stale backup")
	if err := os.Rename(backup, path); err != nil {
		return true, fmt.Errorf("%w: restore stale backup %s: %w", errors.ErrManifestPatch, backup, err)
	}
	return true, nil
}

// Patch backs up the manifest at path and overwrites it with mutate's output.
// On success the caller must invoke the returned RestoreFunc.
func Patch(ctx context.Context, path string, mutate MutateFunc) (RestoreFunc, error) {
	if _, err := RecoverStale(ctx, path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewMissingPath("manifest", path)
	}
	original, err := os.ReadFile(path) //#nosec G304 -- project manifest path from config
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", errors.ErrManifestPatch, path, err)
	}

	patched, err := mutate(original)
	if err != nil {
		if !stderrors.Is(err, errors.ErrManifestPatch) {
			err = fmt.Errorf("%w: %w", errors.ErrManifestPatch, err)
		}
		return nil, err
	}

	backup := BackupPath(path)
	if err := os.WriteFile(backup, original, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("%w: write backup %s: %w", errors.ErrManifestPatch, backup, err)
	}

	restore := func() error {
		if err := os.Rename(backup, path); err != nil {
			return fmt.Errorf("%w: restore %s: %w", errors.ErrManifestPatch, path, err)
		}
		zerolog.Ctx(ctx).Debug().Str("manifest", path).Msg("manifest restored")
		return nil
	}

	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		rerr := restore()
		return nil, stderrors.Join(fmt.Errorf("%w: write %s: %w", errors.ErrManifestPatch, path, err), rerr)
	}

	zerolog.Ctx(ctx).Debug().Str("manifest", path).Str("backup", backup).Msg("manifest patched")
	return restore, nil
}

// WithPatch patches the manifest, runs fn and restores the manifest whether
// fn succeeds, fails or panics. A restore failure is joined to fn's error.
func WithPatch(ctx context.Context, path string, mutate MutateFunc, fn func() error) (err error) {
	restore, err := Patch(ctx, path, mutate)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := restore(); rerr != nil {
			err = stderrors.Join(err, rerr)
		}
	}()
	return fn()
}

// manifestOpenTag matches the opening <manifest ...> element.
var manifestOpenTag = regexp.MustCompile(`<manifest(?:\s[^>]*)?>`) //nolint:gochecknoglobals // compiled once

// AddPermission returns a MutateFunc that grants perm by inserting a
// uses-permission element right after the opening manifest tag. Content that
// already declares perm is returned unchanged.
func AddPermission(perm string) MutateFunc {
	declared := permissionPattern(perm)
	return func(original []byte) ([]byte, error) {
		if declared.Match(original) {
			return original, nil
		}
		loc := manifestOpenTag.FindIndex(original)
		if loc == nil || bytes.HasSuffix(original[loc[0]:loc[1]], []byte("/>")) {
			return nil, errors.Wrap(errors.ErrManifestPatch, "no opening <manifest> element")
		}
		element := fmt.Sprintf("\n    <uses-permission android:name=\"%s\"/>", perm)

		out := make([]byte, 0, len(original)+len(element))
		out = append(out, original[:loc[1]]...)
		out = append(out, element...)
		out = append(out, original[loc[1]:]...)
		return out, nil
	}
}

// HasPermission reports whether content declares a uses-permission for perm.
func HasPermission(content []byte, perm string) bool {
	return permissionPattern(perm).Match(content)
}

func permissionPattern(perm string) *regexp.Regexp {
	return regexp.MustCompile(`<uses-permission\s[^>]*android:name\s*=\s*"` + regexp.QuoteMeta(perm) + `"`)
}
