//go:build unix

package process_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/testutil"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func TestExecRunner_Success(t *testing.T) {
	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "tool", `echo "out:$1"; echo "warn" >&2`)

	res, err := process.NewExecRunner().Run(testContext(t), process.Invocation{
		Tool: "tool",
		Path: script,
		Args: []string{"hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out:hello\n", res.Stdout)
	assert.Equal(t, "warn\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecRunner_WorkingDir(t *testing.T) {
	dir := t.TempDir()
	script := testutil.WriteScript(t, t.TempDir(), "pwd-tool", `pwd`)

	res, err := process.NewExecRunner().Run(testContext(t), process.Invocation{Tool: "pwd-tool", Path: script, Dir: dir})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(res.Stdout))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	script := testutil.WriteScript(t, t.TempDir(), "aapt", `echo "ERROR: res/values/strings.xml: bad" >&2; exit 3`)

	res, err := process.NewExecRunner().Run(testContext(t), process.Invocation{
		Tool: "aapt",
		Path: script,
		Args: []string{"crunch"},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrToolInvocationFailed)

	te, ok := errors.AsToolError(err)
	require.True(t, ok)
	assert.Equal(t, "aapt", te.Tool)
	assert.Equal(t, 3, te.ExitCode)
	assert.Contains(t, te.Stderr, "strings.xml: bad")
	assert.Contains(t, err.Error(), "aapt exited with status 3")
	assert.Equal(t, 3, res.ExitCode)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := process.NewExecRunner().Run(testContext(t), process.Invocation{
		Tool: "dx",
		Path: filepath.Join(t.TempDir(), "no-such-dx"),
	})
	require.ErrorIs(t, err, errors.ErrToolInvocationFailed)

	te, ok := errors.AsToolError(err)
	require.True(t, ok)
	assert.Equal(t, -1, te.ExitCode)
}

func TestExecRunner_RedactsSecretsInError(t *testing.T) {
	script := testutil.WriteScript(t, t.TempDir(), "jarsigner", `exit 1`)

	_, err := process.NewExecRunner().Run(testContext(t), process.Invocation{
		Tool: "jarsigner",
		Path: script,
		Args: []string{"-storepass", "android", "-keypass", "android", "app.apk"},
	})
	te, ok := errors.AsToolError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"-storepass", "[REDACTED]", "-keypass", "[REDACTED]", "app.apk"}, te.Args)
}

func TestExecRunner_LiveOutput(t *testing.T) {
	script := testutil.WriteScript(t, t.TempDir(), "adb", `echo "Success"`)
	var live bytes.Buffer

	res, err := process.NewExecRunner(process.WithLiveOutput(&live)).Run(testContext(t), process.Invocation{Tool: "adb", Path: script})
	require.NoError(t, err)
	assert.Equal(t, "Success\n", live.String())
	assert.Equal(t, "Success\n", res.Stdout)
}

func TestExecRunner_CanceledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	script := testutil.WriteScript(t, dir, "tool", `touch "`+marker+`"`)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := process.NewExecRunner().Run(ctx, process.Invocation{Tool: "tool", Path: script})
	require.ErrorIs(t, err, errors.ErrOperationCanceled)
	assert.NoFileExists(t, marker, "no process may be spawned after cancellation")
}

func TestExecRunner_InterruptibleIsKilled(t *testing.T) {
	script := testutil.WriteScript(t, t.TempDir(), "dx", `exec sleep 30`)

	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := process.NewExecRunner(process.WithWaitDelay(time.Second)).Run(ctx, process.Invocation{
		Tool:          "dx",
		Path:          script,
		Interruptible: true,
	})
	require.ErrorIs(t, err, errors.ErrOperationCanceled)
	assert.Less(t, time.Since(start), 10*time.Second, "interruptible tool must be killed promptly")
}

func TestExecRunner_NonInterruptibleSurvivesCancel(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "finished")
	script := testutil.WriteScript(t, dir, "aapt", `sleep 1; echo done > "`+marker+`"`)

	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := process.NewExecRunner().Run(ctx, process.Invocation{Tool: "aapt", Path: script})
	require.NoError(t, err, "non-interruptible tool must run to completion")

	data, err := os.ReadFile(marker) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(data))
	assert.Error(t, ctx.Err(), "context was canceled during the run")
}
