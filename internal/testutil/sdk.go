package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakeSDK creates an SDK tree under a temp dir with placeholder files for
// every artifact the pipeline checks (archives are valid empty zips), and
// returns its root.
func FakeSDK(t testing.TB, target string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range []string{
		"platforms/android-" + target + "/android.jar",
		"tools/support/annotations.jar",
		"platform-tools/dx",
		"platform-tools/aapt",
		"platform-tools/adb",
		"tools/apkbuilder",
		"tools/zipalign",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, ".jar") {
			WriteJar(t, path, nil)
			continue
		}
		Touch(t, path)
	}
	return root
}

// WriteJar writes a zip archive holding entries (name -> content).
func WriteJar(t testing.TB, path string, entries map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("jar entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("jar entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close jar %s: %v", path, err)
	}
	WriteFile(t, path, buf.String())
}

// Touch creates an empty file (and its parent dirs) at path.
func Touch(t testing.TB, path string) {
	t.Helper()
	WriteFile(t, path, "")
}

// WriteFile writes content to path, creating parent dirs.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteScript writes an executable /bin/sh script and returns its path.
// Callers must be unix-only.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	//nolint:gosec // test scripts must be executable
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
	// WriteFile keeps the mode of an existing placeholder.
	//nolint:gosec // test scripts must be executable
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatalf("chmod script %s: %v", path, err)
	}
	return path
}
