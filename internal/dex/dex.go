// Package dex translates compiled classes and dependency archives into the
// device bytecode file. It is the only interruptible stage: canceling the
// context kills the translator and removes its partial output.
package dex

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/classpath"
	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/toolchain"
)

// Stage runs the bytecode translator.
type Stage struct {
	cfg       *config.Config
	toolchain *toolchain.Resolver
	resolver  classpath.Resolver
	runner    process.Runner
}

// New creates a dex stage. resolver must already be augmented.
func New(cfg *config.Config, tc *toolchain.Resolver, resolver classpath.Resolver, runner process.Runner) *Stage {
	return &Stage{cfg: cfg, toolchain: tc, resolver: resolver, runner: runner}
}

// CreateDex writes the dex file from the compiled classes, the annotations
// archive, the resolved dependencies and any external class paths.
func (s *Stage) CreateDex(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("stage", "create-dex").Logger()
	ctx = logger.WithContext(ctx)

	if err := s.toolchain.CheckRoot(); err != nil {
		return err
	}
	dx := s.toolchain.Binary(constants.ToolDx)
	if err := toolchain.Require(ctx,
		toolchain.Need("dx", dx),
		toolchain.Need("compiled classes", s.cfg.Output.CompiledClasses),
	); err != nil {
		return err
	}

	deps, err := s.resolver.Resolve(ctx, s.cfg.Dependencies)
	if err != nil {
		return err
	}

	out := s.cfg.Output.Dex
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(out))
	}

	inputs := s.Inputs(deps)
	args := append([]string{"--dex"}, s.cfg.Dex.Options...)
	args = append(args, "--output", out)
	args = append(args, inputs...)

	logger.Info().Int("inputs", len(inputs)).Str("output", out).Msg("translating classes")
	res, err := s.runner.Run(ctx, process.Invocation{
		Tool:          constants.ToolDx,
		Path:          dx,
		Args:          args,
		Dir:           s.cfg.ProjectDir,
		Interruptible: true,
	})
	if err != nil {
		// A nil result means dx never started and out is still the previous run's.
		if res != nil && stderrors.Is(err, errors.ErrOperationCanceled) {
			if rmErr := os.Remove(out); rmErr == nil {
				logger.Warn().Str("output", out).Msg("removed partial dex output")
			}
		}
		return err
	}
	return nil
}

// Inputs is the flattened translator input list: compiled classes, the
// annotations archive, resolved dependencies, then external class paths,
// with later archives sharing a base name dropped.
func (s *Stage) Inputs(deps []string) []string {
	inputs := make([]string, 0, 2+len(deps)+len(s.cfg.Dex.ExternalClassesPaths))
	inputs = append(inputs, s.cfg.Output.CompiledClasses, s.toolchain.AnnotationsJar())
	inputs = append(inputs, deps...)
	inputs = append(inputs, s.cfg.Dex.ExternalClassesPaths...)
	return classpath.DedupeArchives(inputs)
}
