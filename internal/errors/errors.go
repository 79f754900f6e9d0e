// Package errors provides centralized error handling for droid.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the build pipeline. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
var (
	// ErrMissingPath indicates that a file or directory required by a stage
	// does not exist. It is raised before any external process is spawned.
	ErrMissingPath = errors.New("required path is missing")

	// ErrToolchainNotFound indicates that the toolchain root or a
	// toolchain artifact computed from it (platform library archive) is absent.
	ErrToolchainNotFound = errors.New("toolchain not found")

	// ErrToolInvocationFailed indicates that an external tool exited non-zero
	// or could not be started.
	ErrToolInvocationFailed = errors.New("tool invocation failed")

	// ErrCompilationFailed indicates that forced ahead-of-time compilation
	// failed inside the evaluation process.
	ErrCompilationFailed = errors.New("compilation failed")

	// ErrDependencyResolution indicates that the declared dependency set
	// could not be resolved into local paths.
	ErrDependencyResolution = errors.New("dependency resolution failed")

	// ErrManifestPatch indicates that the manifest could not be backed up,
	// patched or restored.
	ErrManifestPatch = errors.New("manifest patch failed")

	// ErrBuildLocked indicates that another droid process holds the project lock.
	ErrBuildLocked = errors.New("project is locked by another build")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigNotFound indicates that an explicitly requested configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidAOTMode indicates an unknown ahead-of-time compile mode.
	ErrInvalidAOTMode = errors.New("invalid AOT mode")

	// ErrInvalidBuildType indicates an unknown build type.
	ErrInvalidBuildType = errors.New("invalid build type")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrUnknownTask indicates that the requested pipeline task does not exist.
	ErrUnknownTask = errors.New("unknown task")

	// ErrOperationCanceled indicates the build was interrupted between stages.
	ErrOperationCanceled = errors.New("operation canceled by user")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrKeystoreExists indicates an attempt to create a debug keystore over an existing file.
	ErrKeystoreExists = errors.New("keystore already exists")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
