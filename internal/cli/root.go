// Package cli provides the droid command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/toolchain"
	"github.com/android-clojure/droid/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // protects globalLogger
)

// GetLogger returns the logger initialized by the root command's
// PersistentPreRunE. Before that it is a zero-value logger that discards.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// environment holds the process-facing collaborators of the commands.
type environment struct {
	// newRunner builds the tool runner; live is non-nil in verbose mode.
	newRunner func(live io.Writer) process.Runner
	lookPath  toolchain.LookPathFunc
	initLog   func(verbose, quiet bool) zerolog.Logger
}

func defaultEnvironment() *environment {
	return &environment{
		newRunner: func(live io.Writer) process.Runner {
			if live != nil {
				return process.NewExecRunner(process.WithLiveOutput(live))
			}
			return process.NewExecRunner()
		},
		lookPath: exec.LookPath,
		initLog:  InitLogger,
	}
}

// app is the state shared by every subcommand.
type app struct {
	flags *GlobalFlags
	env   *environment
}

func (a *app) output(cmd *cobra.Command) tui.Output {
	return tui.NewOutput(cmd.OutOrStdout(), a.flags.Output)
}

func (a *app) runner(cmd *cobra.Command) process.Runner {
	if a.flags.Verbose {
		return a.env.newRunner(cmd.ErrOrStderr())
	}
	return a.env.newRunner(nil)
}

// loadConfig loads the project config with the flag overrides applied.
func (a *app) loadConfig(ctx context.Context, extra func(*config.Config)) (*config.Config, error) {
	dir := a.flags.Project
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}
	overrides := a.flags.overrides()
	if extra != nil {
		extra(overrides)
	}
	return config.LoadWithOverrides(ctx, dir, overrides)
}

// commandContext attaches the CLI logger to the command context.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return GetLogger().WithContext(ctx)
}

func newRootCmd(flags *GlobalFlags, info BuildInfo, env *environment) *cobra.Command {
	v := viper.New()
	a := &app{flags: flags, env: env}

	cmd := &cobra.Command{
		Use:   "droid",
		Short: "Build, sign and install Android packages from Clojure projects",
		Long: `droid drives the Android SDK toolchain to turn a Clojure/Java project
into a signed, aligned package and install it on a device.

Each stage is a task of its own so a failed step can be rerun alone:
  compile, create-dex, build, crunch-resources, package-resources,
  create-apk, sign-apk, zipalign-apk, apk, install, doall`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyBoundFlags(v, cmd, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = env.initLog(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	addTaskCommands(cmd, a)
	addConfigCommand(cmd, a)
	addDoctorCommand(cmd, a)
	addKeystoreCommand(cmd, a)
	addWatchCommand(cmd, a)

	return cmd
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the CLI and returns the process exit code. Errors are
// printed to stderr in the selected output format.
func Execute(ctx context.Context, info BuildInfo, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, info, args, stdout, stderr, defaultEnvironment())
}

func execute(ctx context.Context, info BuildInfo, args []string, stdout, stderr io.Writer, env *environment) int {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // cobra passes ctx through cmd.Context()
	cmd := newRootCmd(flags, info, env)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format := flags.Output
	if !IsValidOutputFormat(format) {
		format = OutputText
	}
	tui.NewOutput(stderr, format).Error(err)
	return ExitCodeForError(err)
}
