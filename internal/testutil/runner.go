package testutil

import (
	"context"
	"sync"

	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
)

// RecordingRunner is a process.Runner that records invocations instead of
// spawning anything. Tools listed in Fail exit with status 1.
type RecordingRunner struct {
	mu    sync.Mutex
	calls []process.Invocation

	// Fail maps a tool name to the stderr it should report when failing.
	Fail map[string]string
	// Stdout maps a tool name to the stdout it returns.
	Stdout map[string]string
	// OnRun, when set, is called for every invocation before the result is built.
	OnRun func(process.Invocation)
}

// Run records inv and returns a canned result.
func (r *RecordingRunner) Run(_ context.Context, inv process.Invocation) (*process.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	hook := r.OnRun
	r.mu.Unlock()

	if hook != nil {
		hook(inv)
	}

	if stderr, ok := r.Fail[inv.Tool]; ok {
		res := &process.Result{Stderr: stderr, ExitCode: 1}
		return res, &errors.ToolError{Tool: inv.Tool, Args: inv.Args, ExitCode: 1, Stderr: stderr}
	}
	return &process.Result{Stdout: r.Stdout[inv.Tool]}, nil
}

// Calls returns a copy of the recorded invocations.
func (r *RecordingRunner) Calls() []process.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]process.Invocation, len(r.calls))
	copy(out, r.calls)
	return out
}

// Tools returns the tool names of recorded invocations, in order.
func (r *RecordingRunner) Tools() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Tool
	}
	return out
}

// Ensure RecordingRunner implements process.Runner.
var _ process.Runner = (*RecordingRunner)(nil)
