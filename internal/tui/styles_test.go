package tui_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/android-clojure/droid/internal/pipeline"
	"github.com/android-clojure/droid/internal/tui"
)

func TestHasColorSupport(t *testing.T) {
	t.Run("NO_COLOR disables", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, tui.HasColorSupport())
	})
	t.Run("dumb terminal disables", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, tui.HasColorSupport())
	})
}

func TestStageTitle(t *testing.T) {
	assert.Equal(t, "Package Resources", tui.StageTitle(pipeline.StagePackageResources))
	assert.Equal(t, "Compile", tui.StageTitle(pipeline.StageCompile))
	assert.Equal(t, "Zipalign Apk", tui.StageTitle(pipeline.StageZipalignAPK))
}

func TestStageStatusIcon(t *testing.T) {
	assert.Equal(t, "✓", tui.StageStatusIcon(pipeline.StatusSuccess))
	assert.Equal(t, "✗", tui.StageStatusIcon(pipeline.StatusFailed))
	assert.Equal(t, "⚠", tui.StageStatusIcon(pipeline.StatusCanceled))
	assert.Equal(t, "○", tui.StageStatusIcon(pipeline.StatusSkipped))
	assert.Equal(t, "?", tui.StageStatusIcon("bogus"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{850 * time.Millisecond, "850ms"},
		{12440 * time.Millisecond, "12.4s"},
		{125 * time.Second, "2m05s"},
		{0, "0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tui.FormatDuration(tt.in))
	}
}
