package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
)

// newViperInstance creates a new Viper instance with the DROID_ env prefix,
// key replacer and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("DROID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// Load reads the configuration for the project at projectDir from all
// available sources with proper precedence. Missing config files are not an
// error: a project can be built from defaults plus environment alone.
func Load(ctx context.Context, projectDir string) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	if err := mergeConfigFile(v, ProjectConfigPath(projectDir), "project"); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndFinalize(v, projectDir)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("project_dir", cfg.ProjectDir).
		Str("sdk", cfg.SDK.Path).
		Str("target", cfg.SDK.TargetVersion).
		Str("build_type", string(cfg.BuildType)).
		Str("aot", string(cfg.AOT.Mode)).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, projectDir string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, projectDir)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level; an explicitly named file that
// does not exist is reported as ErrConfigNotFound.
func LoadFromPaths(_ context.Context, projectDir, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	for _, p := range []string{globalConfigPath, projectConfigPath} {
		if p == "" {
			continue
		}
		if !fileExists(p) {
			return nil, errors.Wrapf(errors.ErrConfigNotFound, "%s", p)
		}
		if err := mergeConfigFile(v, p, "explicit"); err != nil {
			return nil, err
		}
	}

	return unmarshalAndFinalize(v, projectDir)
}

// loadGlobalConfig merges ~/.droid/config.yaml when it exists.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil {
		// Home directory unavailable, skip silently
		return nil
	}
	return mergeConfigFile(v, path, "global")
}

// mergeConfigFile merges the YAML file at path over the current values.
// A missing file is skipped.
func mergeConfigFile(v *viper.Viper, path, level string) error {
	if !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrapf(err, "failed to read %s config file %s", level, path)
	}
	return nil
}

// unmarshalAndFinalize decodes viper state, derives paths and validates.
func unmarshalAndFinalize(v *viper.Viper, projectDir string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := finalize(&cfg, projectDir, envLookup(projectDir)); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// envLookup returns a lookup over the process environment that falls back to
// the project's .env file. Empty process variables count as unset. The .env
// file never overrides real variables and is not exported into the process.
func envLookup(projectDir string) func(string) (string, bool) {
	dotenv, err := godotenv.Read(filepath.Join(projectDir, constants.EnvFileName))
	if err != nil {
		dotenv = nil
	}
	return func(key string) (string, bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val, true
		}
		val, ok := dotenv[key]
		return val, ok
	}
}

// applyOverrides merges non-zero override values into the config.
// Paths in overrides are resolved the same way as file values.
func applyOverrides(cfg, overrides *Config) {
	if overrides.BuildType != "" {
		cfg.BuildType = overrides.BuildType
	}
	if overrides.SDK.Path != "" {
		cfg.SDK.Path = resolvePath(cfg.ProjectDir, overrides.SDK.Path)
	}
	if overrides.SDK.TargetVersion != "" {
		cfg.SDK.TargetVersion = overrides.SDK.TargetVersion
	}
	if overrides.AOT.Mode != "" {
		cfg.AOT.Mode = overrides.AOT.Mode
	}
	if overrides.Device.Serial != "" {
		cfg.Device.Serial = overrides.Device.Serial
	}
}

// viperDecoderOption configures mapstructure so comma-separated environment
// values decode into string slices (DROID_DEPENDENCIES=a.jar,b.jar).
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NewForProject returns the default configuration finalized against
// projectDir, ignoring config files and the environment.
func NewForProject(projectDir string) (*Config, error) {
	cfg := DefaultConfig()
	noEnv := func(string) (string, bool) { return "", false }
	if err := finalize(cfg, projectDir, noEnv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
