package cli

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/errors"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown task", fmt.Errorf("%w: %q", errors.ErrUnknownTask, "bogus"), ExitInvalidInput},
		{"bad aot mode", errors.Wrap(errors.ErrInvalidAOTMode, "invalid configuration"), ExitInvalidInput},
		{"bad output", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"exit code 2 wrapper", errors.NewExitCode2Error(errors.ErrToolchainNotFound), ExitInvalidInput},
		{"cobra unknown flag", fmt.Errorf("unknown flag: --nope"), ExitInvalidInput},
		{"cobra unknown command", fmt.Errorf(`unknown command "bogus" for "droid"`), ExitInvalidInput},
		{"tool failure", &errors.ToolError{Tool: "dx", ExitCode: 1, Err: errors.ErrToolInvocationFailed}, ExitError},
		{"missing toolchain", errors.ErrToolchainNotFound, ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestGlobalFlags_Overrides(t *testing.T) {
	t.Run("empty flags override nothing", func(t *testing.T) {
		o := (&GlobalFlags{}).overrides()
		assert.Empty(t, o.BuildType)
		assert.Empty(t, o.SDK.Path)
	})

	t.Run("relative sdk is made absolute", func(t *testing.T) {
		o := (&GlobalFlags{SDK: "sdk", BuildType: "release"}).overrides()
		assert.True(t, filepath.IsAbs(o.SDK.Path))
		assert.Equal(t, "sdk", filepath.Base(o.SDK.Path))
		assert.EqualValues(t, "release", o.BuildType)
	})

	t.Run("home-relative sdk is left for the loader", func(t *testing.T) {
		o := (&GlobalFlags{SDK: "~/Android/sdk"}).overrides()
		assert.Equal(t, "~/Android/sdk", o.SDK.Path)
	})
}

func TestBindGlobalFlags_Environment(t *testing.T) {
	t.Setenv("DROID_OUTPUT", "json")
	t.Setenv("DROID_QUIET", "true")

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "droid"}
	AddGlobalFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags(nil))

	v := viper.New()
	require.NoError(t, BindGlobalFlags(v, cmd))
	applyBoundFlags(v, cmd, flags)

	assert.Equal(t, OutputJSON, flags.Output)
	assert.True(t, flags.Quiet)
	assert.False(t, flags.Verbose)
}

func TestBindGlobalFlags_ExplicitFlagWins(t *testing.T) {
	t.Setenv("DROID_OUTPUT", "json")

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "droid"}
	AddGlobalFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags([]string{"-o", "text"}))

	v := viper.New()
	require.NoError(t, BindGlobalFlags(v, cmd))
	applyBoundFlags(v, cmd, flags)

	assert.Equal(t, OutputText, flags.Output)
}

func TestDurationFlag(t *testing.T) {
	var f durationFlag
	assert.Empty(t, f.String())

	require.NoError(t, f.Set("750ms"))
	assert.True(t, f.set)
	assert.Equal(t, "750ms", f.String())

	require.ErrorIs(t, f.Set("soon"), errors.ErrInvalidArgument)
	require.ErrorIs(t, f.Set("-1s"), errors.ErrInvalidArgument)
}
