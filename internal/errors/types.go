package errors

import (
	"errors"
	"fmt"
	"strings"
)

// maxStderrLines bounds how much of a failing tool's stderr ends up in the error message.
const maxStderrLines = 10

// MissingPathError names a required path that does not exist.
// It satisfies errors.Is(err, ErrMissingPath).
type MissingPathError struct {
	// What describes the role of the path (e.g. "toolchain root", "manifest").
	What string
	// Path is the path that was checked.
	Path string
}

// NewMissingPath creates a MissingPathError.
func NewMissingPath(what, path string) *MissingPathError {
	return &MissingPathError{What: what, Path: path}
}

// Error implements the error interface.
func (e *MissingPathError) Error() string {
	if e.What == "" {
		return fmt.Sprintf("%s: %s", ErrMissingPath.Error(), e.Path)
	}
	return fmt.Sprintf("%s: %s does not exist: %s", ErrMissingPath.Error(), e.What, e.Path)
}

// Is reports whether target is ErrMissingPath.
func (e *MissingPathError) Is(target error) bool {
	return target == ErrMissingPath
}

// ToolchainNotFound wraps a missing toolchain path so the result matches both
// ErrToolchainNotFound and ErrMissingPath.
func ToolchainNotFound(what, path string) error {
	return fmt.Errorf("%w: %w", ErrToolchainNotFound, NewMissingPath(what, path))
}

// ToolError describes an external tool that exited unsuccessfully.
// It satisfies errors.Is(err, ErrToolInvocationFailed).
type ToolError struct {
	// Tool is the short tool name (dx, aapt, zipalign, ...).
	Tool string
	// Args is the argument vector, already redacted for display.
	Args []string
	// ExitCode is the process exit status, -1 when the process never ran
	// or was killed.
	ExitCode int
	// Stderr holds the captured standard error output.
	Stderr string
	// Err is the underlying exec error, if any.
	Err error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrToolInvocationFailed.Error(), e.Tool)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if tail := stderrTail(e.Stderr); tail != "" {
		b.WriteString(": ")
		b.WriteString(tail)
	}
	return b.String()
}

// Is reports whether target is ErrToolInvocationFailed.
func (e *ToolError) Is(target error) bool {
	return target == ErrToolInvocationFailed
}

// Unwrap returns the underlying exec error.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// AsToolError extracts a ToolError from an error chain.
func AsToolError(err error) (*ToolError, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// stderrTail keeps the last few non-empty lines of stderr.
func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > maxStderrLines {
		lines = lines[len(lines)-maxStderrLines:]
	}
	return strings.Join(lines, "\n")
}
