package classpath

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
)

// StaticResolver treats each declared dependency as a local path or glob,
// relative to Dir. A literal path that does not exist is an error; a glob
// that matches nothing contributes nothing.
type StaticResolver struct {
	Dir string
}

// Resolve expands deps into existing paths.
func (s *StaticResolver) Resolve(ctx context.Context, deps []string) ([]string, error) {
	out := make([]string, 0, len(deps))
	for _, dep := range deps {
		p := dep
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.Dir, p)
		}

		if hasGlobMeta(dep) {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("%w: bad pattern %q: %w", errors.ErrDependencyResolution, dep, err)
			}
			sort.Strings(matches)
			out = append(out, matches...)
			continue
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrDependencyResolution, errors.NewMissingPath("dependency "+dep, p))
		}
		out = append(out, p)
	}
	zerolog.Ctx(ctx).Debug().Int("declared", len(deps)).Int("resolved", len(out)).Msg("static dependencies resolved")
	return out, nil
}

func hasGlobMeta(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

// CommandResolver runs an external resolver (e.g. "cs fetch --classpath")
// with the declared dependencies appended as arguments and reads the
// resolved classpath from its stdout.
type CommandResolver struct {
	Command []string
	Dir     string
	Runner  process.Runner
}

// Resolve runs the command and parses its output.
func (c *CommandResolver) Resolve(ctx context.Context, deps []string) ([]string, error) {
	if len(c.Command) == 0 {
		return nil, errors.Wrap(errors.ErrDependencyResolution, "resolver command is empty")
	}

	args := append(append([]string{}, c.Command[1:]...), deps...)
	res, err := c.Runner.Run(ctx, process.Invocation{
		Tool: filepath.Base(c.Command[0]),
		Path: c.Command[0],
		Args: args,
		Dir:  c.Dir,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrDependencyResolution, err)
	}

	paths := ParsePathList(res.Stdout, c.Dir)
	zerolog.Ctx(ctx).Debug().Int("declared", len(deps)).Int("resolved", len(paths)).Msg("command dependencies resolved")
	return paths, nil
}

// ParsePathList splits resolver output on newlines and the OS list
// separator, dropping blanks and resolving relative entries against dir.
func ParsePathList(out, dir string) []string {
	fields := strings.FieldsFunc(out, func(r rune) bool {
		return r == '\n' || r == '\r' || r == filepath.ListSeparator
	})
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !filepath.IsAbs(f) {
			f = filepath.Join(dir, f)
		}
		paths = append(paths, f)
	}
	return paths
}

// NewResolver selects the base resolver for cfg: the command resolver when
// resolver.command is set, the static resolver otherwise.
func NewResolver(cfg *config.Config, runner process.Runner) Resolver {
	if len(cfg.Resolver.Command) > 0 {
		return &CommandResolver{Command: cfg.Resolver.Command, Dir: cfg.ProjectDir, Runner: runner}
	}
	return &StaticResolver{Dir: cfg.ProjectDir}
}

// Ensure resolvers implement Resolver.
var (
	_ Resolver = (*StaticResolver)(nil)
	_ Resolver = (*CommandResolver)(nil)
	_ Resolver = ResolverFunc(nil)
)
