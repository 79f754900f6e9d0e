package cli

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/errors"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 2
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = "text"
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = "json"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging and streams tool output.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// Project is the project directory; empty means the working directory.
	Project string
	// BuildType overrides build_type.
	BuildType string
	// SDK overrides sdk.path.
	SDK string
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging and stream tool output")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	pf.StringVarP(&flags.Project, "project", "p", "", "project directory (default: current directory)")
	pf.StringVar(&flags.BuildType, "build-type", "", "build type (development|release)")
	pf.StringVar(&flags.SDK, "sdk", "", "Android SDK root (default: sdk.path, ANDROID_HOME, ANDROID_SDK_ROOT)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds the output flags to Viper so DROID_OUTPUT,
// DROID_VERBOSE and DROID_QUIET work as well.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()
	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}
	v.SetEnvPrefix("DROID")
	v.AutomaticEnv()
	return nil
}

// applyBoundFlags copies environment-provided values back into flags for
// flags the user did not pass explicitly.
func applyBoundFlags(v *viper.Viper, cmd *cobra.Command, flags *GlobalFlags) {
	rootFlags := cmd.Root().PersistentFlags()
	if !rootFlags.Changed("output") {
		flags.Output = v.GetString("output")
	}
	if !rootFlags.Changed("verbose") && !rootFlags.Changed("quiet") {
		flags.Verbose = v.GetBool("verbose")
		flags.Quiet = !flags.Verbose && v.GetBool("quiet")
	}
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// overrides turns the config-affecting flags into a partial Config.
// A relative --sdk is taken relative to the working directory.
func (f *GlobalFlags) overrides() *config.Config {
	sdk := f.SDK
	if sdk != "" && !filepath.IsAbs(sdk) && !strings.HasPrefix(sdk, "~") {
		if abs, err := filepath.Abs(sdk); err == nil {
			sdk = abs
		}
	}
	return &config.Config{
		BuildType: config.BuildType(f.BuildType),
		SDK:       config.SDKConfig{Path: sdk},
	}
}

// invalidInputErrors are the sentinels that map to exit code 2.
//
//nolint:gochecknoglobals // static classification table
var invalidInputErrors = []error{
	errors.ErrInvalidOutputFormat,
	errors.ErrUnknownTask,
	errors.ErrConfigInvalid,
	errors.ErrInvalidAOTMode,
	errors.ErrInvalidBuildType,
	errors.ErrInvalidArgument,
	errors.ErrEmptyValue,
	errors.ErrConfigNotFound,
}

// ExitCodeForError returns the appropriate exit code for the given error.
// Returns ExitSuccess (0) for nil errors, ExitInvalidInput (2) for user input
// errors (invalid flags, bad config values, unknown task), and ExitError (1)
// for all other errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.IsExitCode2Error(err) {
		return ExitInvalidInput
	}
	for _, target := range invalidInputErrors {
		if stderrors.Is(err, target) {
			return ExitInvalidInput
		}
	}
	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}
	return ExitError
}

// isInvalidInputError catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts at most",
		"accepts 1 arg",
	}
	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
