// Package process runs external toolchain binaries.
//
// Every invocation blocks until the tool exits. Only invocations marked
// Interruptible are bound to the caller's context: canceling the context
// kills them. All others run to completion once started, so an interrupt
// never leaves a half-written artifact behind from a stage that cannot be
// safely stopped.
package process

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/ctxutil"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/logging"
)

// Invocation describes one external tool call.
type Invocation struct {
	// Tool is the short tool name used in logs and errors (dx, aapt, ...).
	Tool string
	// Path is the executable. A bare name is looked up on PATH.
	Path string
	// Args is the argument vector, without the executable.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Interruptible binds the process to the caller's context.
	Interruptible bool
}

// Result holds the captured output of a finished tool.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes invocations. Implementations return a *errors.ToolError
// (errors.Is ErrToolInvocationFailed) when the tool exits non-zero.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	liveOut   io.Writer
	waitDelay time.Duration
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithLiveOutput streams tool output to w while still capturing it.
func WithLiveOutput(w io.Writer) Option {
	return func(r *ExecRunner) {
		r.liveOut = w
	}
}

// WithWaitDelay bounds how long output pipes are drained after a kill.
func WithWaitDelay(d time.Duration) Option {
	return func(r *ExecRunner) {
		r.waitDelay = d
	}
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{waitDelay: constants.ProcessWaitDelay}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the tool and waits for it to exit.
//
// A canceled context prevents the tool from starting and returns a nil
// Result. Once started, a non-interruptible tool runs under
// context.WithoutCancel in its own process group (on unix), so neither
// cancellation nor a terminal Ctrl+C stops it. An interruptible one is
// killed and the call returns ErrOperationCanceled.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, errors.Wrapf(errors.ErrOperationCanceled, "%s not started", inv.Tool)
	}

	displayArgs := logging.RedactArgs(inv.Args)
	logger := zerolog.Ctx(ctx).With().
		Str("tool", inv.Tool).
		Bool("interruptible", inv.Interruptible).
		Logger()
	logger.Debug().Str("path", inv.Path).Strs("args", displayArgs).Msg("starting tool")

	runCtx := context.WithoutCancel(ctx)
	if inv.Interruptible {
		runCtx = ctx
	}

	cmd := exec.CommandContext(runCtx, inv.Path, inv.Args...) //#nosec G204 -- tool paths come from the project toolchain config
	cmd.Dir = inv.Dir
	if !inv.Interruptible {
		detachFromTerminal(cmd)
	}
	cmd.WaitDelay = r.waitDelay

	var outBuf, errBuf bytes.Buffer
	if r.liveOut != nil {
		cmd.Stdout = io.MultiWriter(&outBuf, r.liveOut)
		cmd.Stderr = io.MultiWriter(&errBuf, r.liveOut)
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		ExitCode: exitCode(err),
		Duration: time.Since(start),
	}

	if err == nil {
		logger.Debug().Dur("duration_ms", res.Duration).Msg("tool finished")
		return res, nil
	}

	if inv.Interruptible && ctx.Err() != nil {
		logger.Warn().Dur("duration_ms", res.Duration).Msg("tool killed by cancellation")
		return res, errors.Wrapf(errors.ErrOperationCanceled, "%s interrupted", inv.Tool)
	}

	logger.Debug().
		Int("exit_code", res.ExitCode).
		Dur("duration_ms", res.Duration).
		Msg("tool failed")

	return res, &errors.ToolError{
		Tool:     inv.Tool,
		Args:     displayArgs,
		ExitCode: res.ExitCode,
		Stderr:   res.Stderr,
		Err:      err,
	}
}

// exitCode extracts the process exit status from a Run error.
// It returns -1 when the process never started or was killed by a signal.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Ensure ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)
