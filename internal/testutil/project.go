package testutil

import (
	"path/filepath"
	"testing"

	"github.com/android-clojure/droid/internal/config"
)

// MinimalManifest is a manifest with nothing but the root element.
const MinimalManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="org.example.hello">
  <application android:label="hello"/>
</manifest>
`

// ProjectConfig creates a project dir with a manifest and a resource tree,
// a fake SDK for target "15" and a debug keystore placeholder, and returns a
// finalized config named "hello" pointing at them.
func ProjectConfig(t testing.TB) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.NewForProject(dir)
	if err != nil {
		t.Fatalf("config for %s: %v", dir, err)
	}
	cfg.Name = "hello"
	cfg.Output.APK = filepath.Join(cfg.Output.TargetDir, "hello.apk")
	cfg.SDK.Path = FakeSDK(t, cfg.SDK.TargetVersion)
	cfg.Signing.Keystore = filepath.Join(dir, "debug.keystore")

	WriteFile(t, cfg.Paths.Manifest, MinimalManifest)
	WriteFile(t, filepath.Join(cfg.Paths.Resources, "values", "strings.xml"), "<resources/>")
	Touch(t, cfg.Signing.Keystore)
	return cfg
}
