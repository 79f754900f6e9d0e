package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/pipeline"
)

func TestStagesFor(t *testing.T) {
	tests := []struct {
		task string
		want []pipeline.StageName
	}{
		{"compile", []pipeline.StageName{pipeline.StageCompile}},
		{"create-dex", []pipeline.StageName{pipeline.StageCreateDex}},
		{"build", []pipeline.StageName{pipeline.StageCompile, pipeline.StageCreateDex}},
		{"apk", []pipeline.StageName{
			pipeline.StageCrunchResources,
			pipeline.StagePackageResources,
			pipeline.StageCreateAPK,
			pipeline.StageSignAPK,
			pipeline.StageZipalignAPK,
		}},
		{"install", []pipeline.StageName{pipeline.StageInstall}},
		{"doall", []pipeline.StageName{
			pipeline.StageCompile,
			pipeline.StageCreateDex,
			pipeline.StageCrunchResources,
			pipeline.StagePackageResources,
			pipeline.StageCreateAPK,
			pipeline.StageSignAPK,
			pipeline.StageZipalignAPK,
			pipeline.StageInstall,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			got, err := pipeline.StagesFor(tt.task)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStagesFor_Unknown(t *testing.T) {
	_, err := pipeline.StagesFor("deploy")
	require.ErrorIs(t, err, errors.ErrUnknownTask)
	assert.Contains(t, err.Error(), "deploy")
}

func TestStagesFor_ReturnsCopy(t *testing.T) {
	got, err := pipeline.StagesFor("build")
	require.NoError(t, err)
	got[0] = "mutated"

	again, err := pipeline.StagesFor("build")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageCompile, again[0])
}

func TestTasks(t *testing.T) {
	tasks := pipeline.Tasks()
	assert.Equal(t, []string{
		"compile", "create-dex", "build",
		"crunch-resources", "package-resources", "create-apk", "sign-apk", "zipalign-apk", "apk",
		"install", "doall",
	}, tasks)
	for _, task := range tasks {
		assert.NotEmpty(t, pipeline.Describe(task), task)
	}
	assert.Empty(t, pipeline.Describe("deploy"))
}
