package pipeline_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/manifest"
	"github.com/android-clojure/droid/internal/pipeline"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/testutil"
)

func argAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// toolOutputs makes the recording runner produce each tool's output file so
// downstream existence checks pass.
func toolOutputs(t *testing.T, cfg *config.Config, manifestSeen *string) func(process.Invocation) {
	return func(inv process.Invocation) {
		switch inv.Tool {
		case constants.ToolDx:
			testutil.Touch(t, argAfter(inv.Args, "--output"))
		case constants.ToolAapt:
			if inv.Args[0] != "package" {
				return
			}
			data, err := os.ReadFile(cfg.Paths.Manifest)
			if err == nil {
				*manifestSeen = string(data)
			}
			testutil.Touch(t, argAfter(inv.Args, "-F"))
		case constants.ToolApkBuilder:
			testutil.Touch(t, inv.Args[0])
		case constants.ToolZipalign:
			testutil.Touch(t, inv.Args[len(inv.Args)-1])
		}
	}
}

func TestDoAll_EndToEnd(t *testing.T) {
	cfg := testutil.ProjectConfig(t)
	cfg.Device.Serial = "emulator-5554"

	var manifestSeen string
	runner := &testutil.RecordingRunner{}
	runner.OnRun = toolOutputs(t, cfg, &manifestSeen)

	stages := pipeline.Wire(cfg, runner, pipeline.Components{})
	report, err := newPipeline(stages).Run(testContext(), pipeline.TaskDoAll)
	require.NoError(t, err)
	assert.True(t, report.Success)
	require.Len(t, report.Stages, 8)

	assert.Equal(t, []string{
		constants.ToolDx,
		constants.ToolAapt,
		constants.ToolAapt,
		constants.ToolApkBuilder,
		constants.ToolJarsigner,
		constants.ToolZipalign,
		constants.ToolAdb,
	}, runner.Tools(), "no namespaces and no java sources means no compiler invocations")

	assert.FileExists(t, cfg.AlignedAPK())
	assert.True(t, manifest.HasPermission([]byte(manifestSeen), constants.InternetPermission),
		"development packaging sees the network permission")

	restored, err := os.ReadFile(cfg.Paths.Manifest)
	require.NoError(t, err)
	assert.Equal(t, testutil.MinimalManifest, string(restored))
	assert.NoFileExists(t, cfg.ManifestBackup())

	calls := runner.Calls()
	assert.Equal(t, []string{"-s", "emulator-5554", "install", "-r", cfg.AlignedAPK()}, calls[len(calls)-1].Args)
}

func TestDoAll_ReleaseLeavesManifestUntouched(t *testing.T) {
	cfg := testutil.ProjectConfig(t)
	cfg.BuildType = config.BuildRelease

	var manifestSeen string
	runner := &testutil.RecordingRunner{}
	runner.OnRun = toolOutputs(t, cfg, &manifestSeen)

	report, err := newPipeline(pipeline.Wire(cfg, runner, pipeline.Components{})).Run(testContext(), pipeline.TaskDoAll)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, testutil.MinimalManifest, manifestSeen, "release packaging sees the manifest as written")
	assert.False(t, manifest.HasPermission([]byte(manifestSeen), constants.InternetPermission))
	assert.NoFileExists(t, cfg.ManifestBackup())
}

func TestDoAll_FailureKeepsUpstreamArtifacts(t *testing.T) {
	cfg := testutil.ProjectConfig(t)

	var manifestSeen string
	runner := &testutil.RecordingRunner{Fail: map[string]string{constants.ToolApkBuilder: "THIS TOOL IS DEPRECATED"}}
	runner.OnRun = toolOutputs(t, cfg, &manifestSeen)

	report, err := newPipeline(pipeline.Wire(cfg, runner, pipeline.Components{})).Run(testContext(), pipeline.TaskDoAll)
	require.ErrorIs(t, err, errors.ErrToolInvocationFailed)

	failed, ok := report.Failed()
	require.True(t, ok)
	assert.Equal(t, pipeline.StageCreateAPK, failed.Name)
	assert.NotContains(t, runner.Tools(), constants.ToolJarsigner)

	assert.FileExists(t, cfg.Output.Dex)
	assert.FileExists(t, cfg.Output.ResourcePackage)

	rerun, err := newPipeline(pipeline.Wire(cfg, &testutil.RecordingRunner{}, pipeline.Components{})).
		Run(testContext(), string(pipeline.StageCreateAPK))
	require.NoError(t, err, "the failed stage reruns on its own once fixed")
	assert.True(t, rerun.Success)
}

func TestDoAll_MissingToolchain(t *testing.T) {
	cfg := testutil.ProjectConfig(t)
	require.NoError(t, os.RemoveAll(cfg.SDK.Path))
	runner := &testutil.RecordingRunner{}

	report, err := newPipeline(pipeline.Wire(cfg, runner, pipeline.Components{})).Run(testContext(), pipeline.TaskDoAll)
	require.ErrorIs(t, err, errors.ErrToolchainNotFound)
	assert.Equal(t, pipeline.StatusFailed, report.Stages[0].Status)
	assert.Empty(t, runner.Calls())
}
