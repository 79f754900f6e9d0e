// Package resources crunches the raw resource tree and packages resources,
// manifest and assets into the resource package.
package resources

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/flock"
	"github.com/android-clojure/droid/internal/manifest"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/toolchain"
)

// Stage runs the resource packager.
type Stage struct {
	cfg       *config.Config
	toolchain *toolchain.Resolver
	runner    process.Runner
}

// New creates a resource stage.
func New(cfg *config.Config, tc *toolchain.Resolver, runner process.Runner) *Stage {
	return &Stage{cfg: cfg, toolchain: tc, runner: runner}
}

// Crunch optimizes the raw resource tree into the crunched resources dir.
func (s *Stage) Crunch(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("stage", "crunch-resources").Logger()
	ctx = logger.WithContext(ctx)

	if err := s.toolchain.CheckRoot(); err != nil {
		return err
	}
	aapt := s.toolchain.Binary(constants.ToolAapt)
	if err := toolchain.Require(ctx,
		toolchain.Need("aapt", aapt),
		toolchain.Need("resources", s.cfg.Paths.Resources),
	); err != nil {
		return err
	}

	out := s.cfg.Output.CrunchedResources
	if err := os.MkdirAll(out, 0o750); err != nil {
		return errors.Wrapf(err, "failed to create %s", out)
	}

	logger.Info().Str("output", out).Msg("crunching resources")
	_, err := s.runner.Run(ctx, process.Invocation{
		Tool: constants.ToolAapt,
		Path: aapt,
		Args: []string{"crunch", "-v", "-S", s.cfg.Paths.Resources, "-C", out},
		Dir:  s.cfg.ProjectDir,
	})
	return err
}

// Package builds the resource package. Development builds run the packager
// against a manifest temporarily granted network permission; the original
// manifest is restored whatever the outcome. The project build lock is held
// for the duration.
func (s *Stage) Package(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("stage", "package-resources").Logger()
	ctx = logger.WithContext(ctx)

	platformJar, err := s.toolchain.PlatformJar()
	if err != nil {
		return err
	}
	aapt := s.toolchain.Binary(constants.ToolAapt)
	if err := toolchain.Require(ctx,
		toolchain.Need("aapt", aapt),
		toolchain.Need("manifest", s.cfg.Paths.Manifest),
		toolchain.Need("resources", s.cfg.Paths.Resources),
		toolchain.Need("crunched resources", s.cfg.Output.CrunchedResources),
	); err != nil {
		return err
	}

	out := s.cfg.Output.ResourcePackage
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(out))
	}

	lock, err := flock.Acquire(s.cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil {
			logger.Warn().Err(rerr).Msg("failed to release build lock")
		}
	}()

	inv := process.Invocation{
		Tool: constants.ToolAapt,
		Path: aapt,
		Args: s.PackageArgs(platformJar),
		Dir:  s.cfg.ProjectDir,
	}
	run := func() error {
		logger.Info().Str("output", out).Msg("packaging resources")
		_, err := s.runner.Run(ctx, inv)
		return err
	}

	if !s.cfg.Development() {
		return run()
	}
	return manifest.WithPatch(ctx, s.cfg.Paths.Manifest, manifest.AddPermission(constants.InternetPermission), run)
}

// PackageArgs builds the packager argument vector. The assets dir is only
// passed when it exists.
func (s *Stage) PackageArgs(platformJar string) []string {
	args := []string{"package", "--no-crunch", "-f"}
	if s.cfg.Development() {
		args = append(args, "--debug-mode")
	}
	args = append(args,
		"--auto-add-overlay",
		"-M", s.cfg.Paths.Manifest,
		"-S", s.cfg.Output.CrunchedResources,
		"-S", s.cfg.Paths.Resources,
	)
	if info, err := os.Stat(s.cfg.Paths.Assets); err == nil && info.IsDir() {
		args = append(args, "-A", s.cfg.Paths.Assets)
	}
	return append(args,
		"-I", platformJar,
		"-F", s.cfg.Output.ResourcePackage,
		"--generate-dependencies",
	)
}
