package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/errors"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	require.NoError(t, finalize(cfg, "/proj", func(string) (string, bool) { return "", false }))
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, Validate(validConfig(t)))
}

func TestValidate_Nil(t *testing.T) {
	require.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"unknown build type", func(c *Config) { c.BuildType = "debug" }, errors.ErrInvalidBuildType},
		{"unknown aot mode", func(c *Config) { c.AOT.Mode = "partial" }, errors.ErrInvalidAOTMode},
		{"bad exclude glob", func(c *Config) { c.AOT.Exclude = []string{"app.["} }, errors.ErrConfigInvalid},
		{"empty name", func(c *Config) { c.Name = "" }, errors.ErrEmptyValue},
		{"empty target version", func(c *Config) { c.SDK.TargetVersion = "" }, errors.ErrEmptyValue},
		{"empty dex output", func(c *Config) { c.Output.Dex = "" }, errors.ErrConfigInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuildTypeAndAOTModeValid(t *testing.T) {
	assert.True(t, BuildDevelopment.Valid())
	assert.True(t, BuildRelease.Valid())
	assert.False(t, BuildType("").Valid())

	assert.True(t, AOTNone.Valid())
	assert.True(t, AOTAll.Valid())
	assert.True(t, AOTAllWithUnused.Valid())
	assert.False(t, AOTMode("some").Valid())
}
