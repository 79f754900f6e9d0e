package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
)

// HomeDir returns the droid home directory.
// DROID_HOME takes precedence; otherwise it is ~/.droid.
func HomeDir() (string, error) {
	if home := os.Getenv("DROID_HOME"); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.DroidHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the project configuration file for projectDir.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, constants.ProjectConfigDir, constants.ConfigFileName)
}

// SuffixedPath inserts suffix before the extension of p.
//
//	SuffixedPath("out/app.apk", "-debug") == "out/app-debug.apk"
//
// A path without an extension gets the suffix appended.
func SuffixedPath(p, suffix string) string {
	ext := filepath.Ext(p)
	if ext == "" || ext == p || strings.HasSuffix(strings.TrimSuffix(p, ext), string(filepath.Separator)) {
		return p + suffix
	}
	return strings.TrimSuffix(p, ext) + suffix + ext
}

// UnalignedAPK is the package produced by the assembler and signed in place.
func (c *Config) UnalignedAPK() string {
	return SuffixedPath(c.Output.APK, constants.UnalignedSuffix)
}

// AlignedAPK is the final installable package.
func (c *Config) AlignedAPK() string {
	return SuffixedPath(c.Output.APK, constants.AlignedSuffix)
}

// LockPath is the project build lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Output.TargetDir, constants.LockFileName)
}

// ManifestBackup is the sibling backup path used while the manifest is patched.
func (c *Config) ManifestBackup() string {
	return c.Paths.Manifest + constants.ManifestBackupSuffix
}

// RequiredSourceRoots returns the source roots that must exist: every
// configured root except the default src/clojure and src/java, which a
// project may simply not have.
func (c *Config) RequiredSourceRoots() []string {
	optional := map[string]bool{
		resolvePath(c.ProjectDir, filepath.FromSlash(defaultClojureSrc)): true,
		resolvePath(c.ProjectDir, filepath.FromSlash(defaultJavaSrc)):    true,
	}
	var out []string
	for _, root := range append(append([]string{}, c.Sources.Paths...), c.Sources.JavaPaths...) {
		if !optional[root] {
			out = append(out, root)
		}
	}
	return out
}

// finalize derives unset values and makes every path absolute against projectDir.
// lookupEnv supplies environment values (process env first, then .env).
func finalize(cfg *Config, projectDir string, lookupEnv func(string) (string, bool)) error {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve project dir %s", projectDir)
	}
	cfg.ProjectDir = abs

	if cfg.Name == "" {
		cfg.Name = filepath.Base(abs)
	}

	if cfg.SDK.Path == "" {
		for _, key := range []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"} {
			if val, ok := lookupEnv(key); ok && val != "" {
				cfg.SDK.Path = val
				break
			}
		}
	}
	if cfg.SDK.Path != "" {
		cfg.SDK.Path = resolvePath(abs, cfg.SDK.Path)
	}

	if cfg.Signing.Keystore == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			cfg.Signing.Keystore = filepath.Join(home, constants.DebugKeystoreFile)
		}
	}
	if cfg.Signing.Keystore != "" {
		cfg.Signing.Keystore = resolvePath(abs, cfg.Signing.Keystore)
	}

	cfg.Sources.Paths = resolvePaths(abs, cfg.Sources.Paths)
	cfg.Sources.JavaPaths = resolvePaths(abs, cfg.Sources.JavaPaths)
	cfg.Dex.ExternalClassesPaths = resolvePaths(abs, cfg.Dex.ExternalClassesPaths)

	cfg.Paths.Manifest = resolvePath(abs, cfg.Paths.Manifest)
	cfg.Paths.Resources = resolvePath(abs, cfg.Paths.Resources)
	cfg.Paths.Assets = resolvePath(abs, cfg.Paths.Assets)

	out := &cfg.Output
	out.TargetDir = resolvePath(abs, out.TargetDir)
	out.CompiledClasses = derive(abs, out.CompiledClasses, out.TargetDir, "classes")
	out.Dex = derive(abs, out.Dex, out.TargetDir, "classes.dex")
	out.CrunchedResources = derive(abs, out.CrunchedResources, out.TargetDir, "res")
	out.ResourcePackage = derive(abs, out.ResourcePackage, out.TargetDir, "resources.ap_")
	out.APK = derive(abs, out.APK, out.TargetDir, cfg.Name+".apk")

	return nil
}

// derive resolves p, or falls back to targetDir/name when p is empty.
func derive(projectDir, p, targetDir, name string) string {
	if p == "" {
		return filepath.Join(targetDir, name)
	}
	return resolvePath(projectDir, p)
}

// resolvePath expands a leading ~ and makes p absolute against base.
func resolvePath(base, p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func resolvePaths(base string, paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		out = append(out, resolvePath(base, p))
	}
	return out
}
