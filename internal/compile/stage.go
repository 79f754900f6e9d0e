// Package compile implements the compiler stage: Java sources first, then
// ahead-of-time compilation of Clojure namespaces according to the AOT mode.
package compile

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/classpath"
	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/toolchain"
)

// Stage compiles project sources into the compiled-classes directory.
type Stage struct {
	cfg       *config.Config
	toolchain *toolchain.Resolver
	resolver  classpath.Resolver
	runner    process.Runner
	evaluator Evaluator
}

// New creates a compiler stage. resolver must already be augmented.
func New(cfg *config.Config, tc *toolchain.Resolver, resolver classpath.Resolver, runner process.Runner, evaluator Evaluator) *Stage {
	return &Stage{
		cfg:       cfg,
		toolchain: tc,
		resolver:  resolver,
		runner:    runner,
		evaluator: evaluator,
	}
}

// NewJVMEvaluator builds the default evaluator for cfg.
func NewJVMEvaluator(cfg *config.Config, runner process.Runner) *JVMEvaluator {
	return &JVMEvaluator{
		Java:    cfg.JDK.Java,
		JVMOpts: cfg.AOT.JVMOpts,
		Dir:     cfg.ProjectDir,
		Runner:  runner,
	}
}

// Compile runs javac over the Java sources, then the AOT step for the
// configured mode. The compiled-classes directory is created if absent.
func (s *Stage) Compile(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("stage", "compile").Logger()
	ctx = logger.WithContext(ctx)

	if err := s.toolchain.CheckRoot(); err != nil {
		return err
	}
	roots := s.cfg.RequiredSourceRoots()
	reqs := make([]toolchain.Requirement, 0, len(roots))
	for _, root := range roots {
		reqs = append(reqs, toolchain.Need("source root", root))
	}
	if err := toolchain.Require(ctx, reqs...); err != nil {
		return err
	}

	out := s.cfg.Output.CompiledClasses
	if err := os.MkdirAll(out, 0o750); err != nil {
		return errors.Wrapf(err, "failed to create %s", out)
	}

	cp, err := s.resolver.Resolve(ctx, s.cfg.Dependencies)
	if err != nil {
		return err
	}

	if err := s.compileJava(ctx, cp); err != nil {
		return err
	}

	switch s.cfg.AOT.Mode {
	case config.AOTNone:
		logger.Info().Msg("AOT disabled, namespaces ship as sources")
		return nil
	case config.AOTAll:
		return s.compileReferenced(ctx, cp)
	case config.AOTAllWithUnused:
		return s.compileAll(ctx, cp)
	default:
		return errors.Wrapf(errors.ErrInvalidAOTMode, "aot.mode %q", s.cfg.AOT.Mode)
	}
}

// compileJava runs javac over every .java file under the Java source roots.
func (s *Stage) compileJava(ctx context.Context, cp []string) error {
	logger := zerolog.Ctx(ctx)

	files, err := javaSources(s.cfg.Sources.JavaPaths)
	if err != nil {
		return errors.Wrap(err, "failed to list java sources")
	}
	if len(files) == 0 {
		logger.Info().Msg("no java sources, skipping javac")
		return nil
	}

	out := s.cfg.Output.CompiledClasses
	args := append([]string{}, s.cfg.JDK.JavacOpts...)
	args = append(args, "-d", out, "-cp", classpath.Join(append([]string{out}, cp...)))
	args = append(args, files...)

	logger.Info().Int("files", len(files)).Msg("compiling java sources")
	_, err = s.runner.Run(ctx, process.Invocation{
		Tool: "javac",
		Path: s.cfg.JDK.Javac,
		Args: args,
		Dir:  s.cfg.ProjectDir,
	})
	return err
}

// evalClasspath is the classpath seen by the evaluator: source roots, then
// the resolved dependencies.
func (s *Stage) evalClasspath(cp []string) []string {
	out := make([]string, 0, len(s.cfg.Sources.Paths)+len(cp))
	out = append(out, s.cfg.Sources.Paths...)
	return append(out, cp...)
}

// compileReferenced compiles the configured entry namespaces; the compiler
// follows their requires.
func (s *Stage) compileReferenced(ctx context.Context, cp []string) error {
	logger := zerolog.Ctx(ctx)
	namespaces := s.cfg.AOT.Namespaces
	if len(namespaces) == 0 {
		logger.Info().Msg("no AOT namespaces configured")
		return nil
	}

	logger.Info().Strs("namespaces", namespaces).Msg("compiling referenced namespaces")
	return s.evaluator.Compile(ctx, Request{
		Namespaces: namespaces,
		Classpath:  s.evalClasspath(cp),
		OutDir:     s.cfg.Output.CompiledClasses,
		Release:    !s.cfg.Development(),
	})
}

// compileAll enumerates every namespace on the source roots and classpath,
// drops the excluded ones and force-compiles the rest. An unchanged input
// set since the last successful run is reported and skipped.
func (s *Stage) compileAll(ctx context.Context, cp []string) error {
	logger := zerolog.Ctx(ctx)
	roots := s.evalClasspath(cp)

	all, err := classpath.Namespaces(ctx, roots)
	if err != nil {
		return err
	}
	namespaces := classpath.ExcludeNamespaces(all, s.cfg.AOT.Exclude)

	newest, err := newestModTime(roots)
	if err != nil {
		return errors.Wrap(err, "failed to scan sources")
	}
	current := &stamp{
		Namespaces:   namespaces,
		Exclude:      s.cfg.AOT.Exclude,
		Release:      !s.cfg.Development(),
		NewestSource: newest,
	}
	out := s.cfg.Output.CompiledClasses
	if prev := readStamp(out); prev != nil && prev.equal(current) {
		logger.Info().Int("namespaces", len(namespaces)).Msg("AOT output up to date, nothing to compile")
		return nil
	}

	if len(namespaces) == 0 {
		logger.Info().Int("excluded", len(all)).Msg("no namespaces left to compile")
		return nil
	}

	logger.Info().
		Int("namespaces", len(namespaces)).
		Int("excluded", len(all)-len(namespaces)).
		Msg("force-compiling all namespaces")

	if err := s.evaluator.Compile(ctx, Request{
		Namespaces: namespaces,
		Classpath:  roots,
		OutDir:     out,
		Release:    current.Release,
	}); err != nil {
		if !stderrors.Is(err, errors.ErrCompilationFailed) {
			err = fmt.Errorf("%w: %w", errors.ErrCompilationFailed, err)
		}
		return err
	}

	if err := writeStamp(out, current); err != nil {
		logger.Warn().Err(err).Msg("failed to record AOT stamp")
	}
	return nil
}
