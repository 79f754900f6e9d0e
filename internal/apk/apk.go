// Package apk assembles, signs, aligns and installs the application package.
// Each step is one external tool call guarded by an existence check on its
// inputs; none of them is interruptible.
package apk

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/logging"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/toolchain"
)

// Stage runs the package tools.
type Stage struct {
	cfg       *config.Config
	toolchain *toolchain.Resolver
	runner    process.Runner
}

// New creates a package stage.
func New(cfg *config.Config, tc *toolchain.Resolver, runner process.Runner) *Stage {
	return &Stage{cfg: cfg, toolchain: tc, runner: runner}
}

func (s *Stage) stageContext(ctx context.Context, name string) (context.Context, zerolog.Logger) {
	logger := zerolog.Ctx(ctx).With().Str("stage", name).Logger()
	return logger.WithContext(ctx), logger
}

// Create combines the dex file, the resource package and the source roots
// into the unsigned, unaligned package.
func (s *Stage) Create(ctx context.Context) error {
	ctx, logger := s.stageContext(ctx, "create-apk")

	if err := s.toolchain.CheckRoot(); err != nil {
		return err
	}
	builder := s.toolchain.Binary(constants.ToolApkBuilder)
	if err := toolchain.Require(ctx,
		toolchain.Need("apkbuilder", builder),
		toolchain.Need("resource package", s.cfg.Output.ResourcePackage),
		toolchain.Need("dex file", s.cfg.Output.Dex),
	); err != nil {
		return err
	}

	out := s.cfg.UnalignedAPK()
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(out))
	}

	logger.Info().Str("output", out).Msg("assembling package")
	_, err := s.runner.Run(ctx, process.Invocation{
		Tool: constants.ToolApkBuilder,
		Path: builder,
		Args: s.CreateArgs(),
		Dir:  s.cfg.ProjectDir,
	})
	return err
}

// CreateArgs builds the assembler argument vector. Every existing source
// root is added as a resource folder.
func (s *Stage) CreateArgs() []string {
	args := []string{
		s.cfg.UnalignedAPK(), "-u",
		"-z", s.cfg.Output.ResourcePackage,
		"-f", s.cfg.Output.Dex,
	}
	roots := append(append([]string{}, s.cfg.Sources.Paths...), s.cfg.Sources.JavaPaths...)
	for _, src := range roots {
		if info, err := os.Stat(src); err == nil && info.IsDir() {
			args = append(args, "-rf", src)
		}
	}
	return args
}

// Sign signs the unaligned package in place with the debug identity.
func (s *Stage) Sign(ctx context.Context) error {
	ctx, logger := s.stageContext(ctx, "sign-apk")

	unaligned := s.cfg.UnalignedAPK()
	if err := toolchain.Require(ctx,
		toolchain.Need("debug keystore", s.cfg.Signing.Keystore),
		toolchain.Need("unaligned package", unaligned),
	); err != nil {
		return err
	}

	logger.Info().
		Str("keystore", logging.SafeValue("keystore", s.cfg.Signing.Keystore)).
		Str("package", unaligned).
		Msg("signing package")
	_, err := s.runner.Run(ctx, process.Invocation{
		Tool: constants.ToolJarsigner,
		Path: s.cfg.JDK.Jarsigner,
		Args: s.SignArgs(),
		Dir:  s.cfg.ProjectDir,
	})
	return err
}

// SignArgs builds the signer argument vector.
func (s *Stage) SignArgs() []string {
	return []string{
		"-sigalg", constants.DebugSigAlg,
		"-digestalg", constants.DebugDigestAlg,
		"-keystore", s.cfg.Signing.Keystore,
		"-storepass", constants.DebugStorePassword,
		"-keypass", constants.DebugKeyPassword,
		s.cfg.UnalignedAPK(),
		constants.DebugKeyAlias,
	}
}

// Zipalign writes the aligned, installable package.
func (s *Stage) Zipalign(ctx context.Context) error {
	ctx, logger := s.stageContext(ctx, "zipalign-apk")

	if err := s.toolchain.CheckRoot(); err != nil {
		return err
	}
	zipalign := s.toolchain.Binary(constants.ToolZipalign)
	unaligned := s.cfg.UnalignedAPK()
	if err := toolchain.Require(ctx,
		toolchain.Need("zipalign", zipalign),
		toolchain.Need("signed package", unaligned),
	); err != nil {
		return err
	}

	aligned := s.cfg.AlignedAPK()
	logger.Info().Str("output", aligned).Msg("aligning package")
	_, err := s.runner.Run(ctx, process.Invocation{
		Tool: constants.ToolZipalign,
		Path: zipalign,
		Args: []string{"-f", constants.ZipalignBoundary, unaligned, aligned},
		Dir:  s.cfg.ProjectDir,
	})
	return err
}

// Install pushes the aligned package to the device, replacing any existing
// installation. Without a configured serial the single USB device is used.
func (s *Stage) Install(ctx context.Context) error {
	ctx, logger := s.stageContext(ctx, "install")

	if err := s.toolchain.CheckRoot(); err != nil {
		return err
	}
	adb := s.toolchain.Binary(constants.ToolAdb)
	aligned := s.cfg.AlignedAPK()
	if err := toolchain.Require(ctx,
		toolchain.Need("adb", adb),
		toolchain.Need("aligned package", aligned),
	); err != nil {
		return err
	}

	logger.Info().Str("package", aligned).Str("device", s.cfg.Device.Serial).Msg("installing package")
	_, err := s.runner.Run(ctx, process.Invocation{
		Tool: constants.ToolAdb,
		Path: adb,
		Args: s.InstallArgs(),
		Dir:  s.cfg.ProjectDir,
	})
	return err
}

// InstallArgs builds the device bridge argument vector.
func (s *Stage) InstallArgs() []string {
	target := []string{"-d"}
	if s.cfg.Device.Serial != "" {
		target = []string{"-s", s.cfg.Device.Serial}
	}
	return append(target, "install", "-r", s.cfg.AlignedAPK())
}
