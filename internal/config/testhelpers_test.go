package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolateEnv points DROID_HOME at a fresh directory and clears the
// variables that would otherwise leak the developer's machine into tests.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("DROID_HOME", home)
	for _, key := range []string{
		"ANDROID_HOME", "ANDROID_SDK_ROOT",
		"DROID_BUILD_TYPE", "DROID_SDK_PATH", "DROID_SDK_TARGET_VERSION",
		"DROID_AOT_MODE", "DROID_DEPENDENCIES", "DROID_NAME",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
