package toolchain

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/ctxutil"
	"github.com/android-clojure/droid/internal/errors"
)

// Requirement names a path a stage needs before it runs.
type Requirement struct {
	// What describes the role of the path in error messages.
	What string
	// Path is the file or directory that must exist.
	Path string
}

// Need builds a Requirement.
func Need(what, path string) Requirement {
	return Requirement{What: what, Path: path}
}

// Require checks entries in order and fails with a MissingPathError naming
// the first one that does not exist. Stages call it before spawning anything.
func Require(ctx context.Context, entries ...Requirement) error {
	if err := ctxutil.Check(ctx, "stage not started"); err != nil {
		return err
	}
	for _, e := range entries {
		if e.Path == "" || !exists(e.Path) {
			zerolog.Ctx(ctx).Debug().
				Str("what", e.What).
				Str("path", e.Path).
				Msg("required path missing")
			return errors.NewMissingPath(e.What, e.Path)
		}
	}
	return nil
}
