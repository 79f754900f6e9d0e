package config

import (
	"path"

	"github.com/android-clojure/droid/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - build_type is development or release
//   - aot.mode is none, all or all-with-unused
//   - aot.exclude entries are valid glob patterns
//   - name and sdk.target_version are not empty
//   - every output path is set
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if !cfg.BuildType.Valid() {
		return errors.Wrapf(errors.ErrInvalidBuildType, "build_type %q", cfg.BuildType)
	}

	if err := validateAOTConfig(&cfg.AOT); err != nil {
		return err
	}

	if cfg.Name == "" {
		return errors.Wrap(errors.ErrEmptyValue, "name")
	}
	if cfg.SDK.TargetVersion == "" {
		return errors.Wrap(errors.ErrEmptyValue, "sdk.target_version")
	}

	return validateOutputConfig(&cfg.Output)
}

// validateAOTConfig checks AOT-specific configuration values.
func validateAOTConfig(cfg *AOTConfig) error {
	if !cfg.Mode.Valid() {
		return errors.Wrapf(errors.ErrInvalidAOTMode, "aot.mode %q", cfg.Mode)
	}
	for _, pattern := range cfg.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return errors.Wrapf(errors.ErrConfigInvalid, "aot.exclude pattern %q", pattern)
		}
	}
	return nil
}

// validateOutputConfig checks that every artifact has a location.
func validateOutputConfig(cfg *OutputConfig) error {
	required := []struct {
		key, value string
	}{
		{"output.target_dir", cfg.TargetDir},
		{"output.compiled_classes", cfg.CompiledClasses},
		{"output.dex", cfg.Dex},
		{"output.crunched_resources", cfg.CrunchedResources},
		{"output.resource_package", cfg.ResourcePackage},
		{"output.apk", cfg.APK},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.Wrapf(errors.ErrConfigInvalid, "%s must not be empty", r.key)
		}
	}
	return nil
}
