package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Order matters: the first entry matched by errors.Is wins, so the more
// specific sentinels come before the generic ones they are joined with.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Toolchain & paths
	// ===================
	{
		err: ErrToolchainNotFound,
		info: ErrorInfo{
			Message: "The Android SDK or the requested platform could not be found.",
			Action:  "Set sdk.path (or ANDROID_HOME) and install the platform for sdk.target_version.",
		},
	},
	{
		err: ErrMissingPath,
		info: ErrorInfo{
			Message: "A file or directory required by this stage does not exist.",
			Action:  "Create the path or fix it in .droid/config.yaml, then rerun the stage.",
		},
	},

	// ===================
	// External tools
	// ===================
	{
		err: ErrToolInvocationFailed,
		info: ErrorInfo{
			Message: "An external build tool failed. Check its output above.",
			Action:  "Fix the reported problem and rerun just the failed task; earlier artifacts are kept.",
		},
	},
	{
		err: ErrCompilationFailed,
		info: ErrorInfo{
			Message: "Ahead-of-time compilation failed.",
			Action:  "Fix the namespace that failed to load, or add it to aot.exclude.",
		},
	},
	{
		err: ErrDependencyResolution,
		info: ErrorInfo{
			Message: "Dependencies could not be resolved to local paths.",
			Action:  "Check the dependencies list or the resolver.command output.",
		},
	},

	// ===================
	// Project state
	// ===================
	{
		err: ErrManifestPatch,
		info: ErrorInfo{
			Message: "The manifest could not be patched or restored.",
			Action:  "Check AndroidManifest.xml and any AndroidManifest.xml.backup next to it.",
		},
	},
	{
		err: ErrBuildLocked,
		info: ErrorInfo{
			Message: "Another droid build is running in this project.",
			Action:  "Wait for the other build to finish and try again.",
		},
	},
	{
		err: ErrKeystoreExists,
		info: ErrorInfo{
			Message: "A keystore already exists at the configured path.",
			Action:  "Remove it first if you really want a new debug identity.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNotFound,
		info: ErrorInfo{
			Message: "Configuration file not found.",
			Action:  "Check the config file path and try again.",
		},
	},
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure .droid/config.yaml exists and is valid YAML.",
		},
	},
	{
		err: ErrInvalidAOTMode,
		info: ErrorInfo{
			Message: "Invalid aot.mode value.",
			Action:  "Use one of: none, all, all-with-unused.",
		},
	},
	{
		err: ErrInvalidBuildType,
		info: ErrorInfo{
			Message: "Invalid build_type value.",
			Action:  "Use one of: development, release.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "Invalid configuration.",
			Action:  "Run 'droid config show' to inspect the effective configuration.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was not provided.",
			Action:  "Provide the required value and try again.",
		},
	},

	// ===================
	// CLI
	// ===================
	{
		err: ErrUnknownTask,
		info: ErrorInfo{
			Message: "Unknown task.",
			Action:  "Run 'droid --help' to list the available tasks.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Build was interrupted.",
			Action:  "",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
