// Package toolchain locates Android SDK artifacts for a target platform and
// checks that required paths exist before a stage does any work.
package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
)

// Resolver computes toolchain paths under one SDK root for one target version.
type Resolver struct {
	root   string
	target string
}

// New creates a Resolver. target may be "15" or "android-15".
func New(root, target string) *Resolver {
	return &Resolver{
		root:   root,
		target: strings.TrimPrefix(target, constants.PlatformDirPrefix),
	}
}

// Root returns the SDK root.
func (r *Resolver) Root() string {
	return r.root
}

// Target returns the bare target version ("15").
func (r *Resolver) Target() string {
	return r.target
}

// PlatformDir returns <root>/platforms/android-<N>.
func (r *Resolver) PlatformDir() string {
	return filepath.Join(r.root, constants.PlatformsDir, constants.PlatformDirPrefix+r.target)
}

// PlatformJar returns the platform library archive for the target version.
// It fails with ErrToolchainNotFound when the root or the archive is absent.
func (r *Resolver) PlatformJar() (string, error) {
	if err := r.CheckRoot(); err != nil {
		return "", err
	}
	jar := filepath.Join(r.PlatformDir(), constants.PlatformJarName)
	if !exists(jar) {
		return "", errors.ToolchainNotFound("platform library for android-"+r.target, jar)
	}
	return jar, nil
}

// AnnotationsJar returns the platform annotations archive.
func (r *Resolver) AnnotationsJar() string {
	return filepath.Join(r.root, filepath.FromSlash(constants.AnnotationsJarPath))
}

// PlatformArchives returns the platform library and annotations archives,
// in the order they are appended to a classpath.
func (r *Resolver) PlatformArchives() ([]string, error) {
	jar, err := r.PlatformJar()
	if err != nil {
		return nil, err
	}
	return []string{jar, r.AnnotationsJar()}, nil
}

// CheckRoot fails with ErrToolchainNotFound when the SDK root is unset or absent.
func (r *Resolver) CheckRoot() error {
	if r.root == "" || !exists(r.root) {
		return errors.ToolchainNotFound("toolchain root", r.root)
	}
	return nil
}

// Binary returns the path of an SDK tool. dx, aapt and adb live in
// platform-tools; apkbuilder and zipalign live in tools.
func (r *Resolver) Binary(name string) string {
	dir := constants.PlatformToolsDir
	switch name {
	case constants.ToolApkBuilder, constants.ToolZipalign:
		dir = constants.ToolsDir
	}
	return filepath.Join(r.root, dir, executableName(name, runtime.GOOS))
}

// executableName applies the Windows launcher suffix for goos.
func executableName(name, goos string) string {
	if goos != "windows" {
		return name
	}
	switch name {
	case constants.ToolDx, constants.ToolApkBuilder:
		return name + ".bat"
	default:
		return name + ".exe"
	}
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
