package tui_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/pipeline"
	"github.com/android-clojure/droid/internal/toolchain"
	"github.com/android-clojure/droid/internal/tui"
)

func failedReport() *pipeline.Report {
	return &pipeline.Report{
		RunID:    "run-1",
		Task:     "apk",
		Duration: 3 * time.Second,
		Stages: []pipeline.StageResult{
			{Name: pipeline.StageCrunchResources, Status: pipeline.StatusSuccess, Duration: 1200 * time.Millisecond},
			{Name: pipeline.StagePackageResources, Status: pipeline.StatusFailed, Duration: 300 * time.Millisecond, Error: "aapt exited with status 1"},
			{Name: pipeline.StageCreateAPK, Status: pipeline.StatusSkipped},
		},
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m), sc.Text())
		out = append(out, m)
	}
	return out
}

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &tui.JSONOutput{}, tui.NewOutput(&buf, "json"))
	assert.IsType(t, &tui.TTYOutput{}, tui.NewOutput(&buf, "text"))
	assert.IsType(t, &tui.TTYOutput{}, tui.NewOutput(&buf, ""))
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := tui.NewTTYOutput(&buf)

	out.Success("done")
	out.Warning("careful")
	out.Info("note")

	assert.Equal(t, "✓ done\n⚠ careful\nℹ note\n", buf.String())
}

func TestTTYOutput_ErrorWithAction(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := tui.NewTTYOutput(&buf)

	out.Error(errors.NewMissingPath("manifest", "/p/AndroidManifest.xml"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "✗ required path is missing: manifest does not exist")
	assert.Contains(t, lines[1], "▸ Try:")
}

func TestTTYOutput_ErrorWithoutAction(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	tui.NewTTYOutput(&buf).Error(fmt.Errorf("plain failure")) //nolint:err113 // test error

	assert.Equal(t, "✗ plain failure\n", buf.String())
}

func TestTTYOutput_Table(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	tui.NewTTYOutput(&buf).Table([]string{"A", "LONG"}, [][]string{{"xyz", "1"}, {"q"}})

	assert.Equal(t, "A    LONG\nxyz  1\nq\n", buf.String())
}

func TestTTYOutput_Report(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	require.NoError(t, tui.NewTTYOutput(&buf).Report(failedReport()))

	got := buf.String()
	assert.Contains(t, got, "✓ Crunch Resources")
	assert.Contains(t, got, "✗ Package Resources")
	assert.Contains(t, got, "○ Create Apk")
	assert.Contains(t, got, "1.2s")
	assert.Contains(t, got, "apk stopped at package-resources (run run-1)")
}

func TestTTYOutput_Observer(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	obs := tui.NewTTYOutput(&buf).Observer()

	obs.OnStageStart(pipeline.StageCreateDex)
	obs.OnStageComplete(pipeline.StageResult{Name: pipeline.StageCreateDex, Status: pipeline.StatusSuccess, Duration: 2 * time.Second})

	assert.Equal(t, "● Create Dex...\n✓ Create Dex (2s)\n", buf.String())
}

func TestTTYOutput_Doctor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	report := &toolchain.Report{Checks: []toolchain.Check{
		{Name: "toolchain root", Path: "/sdk", Status: toolchain.CheckFound},
		{Name: "zipalign", Path: "/sdk/tools/zipalign", Status: toolchain.CheckMissing, Hint: "install the SDK tools"},
	}}

	require.NoError(t, tui.NewTTYOutput(&buf).Doctor(report))

	got := buf.String()
	assert.Contains(t, got, "✓ toolchain root")
	assert.Contains(t, got, "✗ zipalign")
	assert.Contains(t, got, "zipalign: install the SDK tools")
	assert.Contains(t, got, "1 toolchain check(s) failed")
}

func TestJSONOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	err := errors.Wrap(&errors.ToolError{Tool: "zipalign", ExitCode: 2, Stderr: "bad input"}, "zipalign-apk")

	tui.NewJSONOutput(&buf).Error(err)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["type"])
	assert.Equal(t, "zipalign", lines[0]["tool"])
	assert.InDelta(t, 2, lines[0]["exit_code"], 0)
	assert.Contains(t, lines[0]["message"], "bad input")
	assert.NotEmpty(t, lines[0]["suggestion"])
}

func TestJSONOutput_MessagesAndTable(t *testing.T) {
	var buf bytes.Buffer
	out := tui.NewJSONOutput(&buf)
	out.Success("ok")
	out.Table([]string{"name", "path"}, [][]string{{"adb"}})

	var first map[string]string
	var second []map[string]string
	dec := json.NewDecoder(&buf)
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, map[string]string{"type": "success", "message": "ok"}, first)
	assert.Equal(t, []map[string]string{{"name": "adb", "path": ""}}, second)
}

func TestJSONOutput_ObserverAndReport(t *testing.T) {
	var buf bytes.Buffer
	out := tui.NewJSONOutput(&buf)
	obs := out.Observer()
	obs.OnStageStart(pipeline.StageCompile)
	obs.OnStageComplete(pipeline.StageResult{Name: pipeline.StageCompile, Status: pipeline.StatusSuccess, Duration: time.Second})
	require.NoError(t, out.Report(failedReport()))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "start", lines[0]["event"])
	assert.Equal(t, "complete", lines[1]["event"])
	result, ok := lines[1]["result"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1000, result["duration_ms"], 0)
	assert.Equal(t, "run-1", lines[2]["run_id"])
	assert.Equal(t, false, lines[2]["success"])
}
