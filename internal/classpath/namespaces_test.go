package classpath_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/classpath"
	"github.com/android-clojure/droid/internal/testutil"
)

func TestNamespaces(t *testing.T) {
	src := t.TempDir()
	testutil.WriteFile(t, filepath.Join(src, "app", "core.clj"), "(ns app.core\n  (:require [app.util]))\n")
	testutil.WriteFile(t, filepath.Join(src, "app", "util.cljc"), ";; (ns not.this)\n(ns ^:no-doc app.util)\n")
	testutil.WriteFile(t, filepath.Join(src, "app", "meta.clj"), "(ns ^{:author \"dev\"} app.meta)")
	testutil.WriteFile(t, filepath.Join(src, "app", "script.clj"), "(println \"no namespace\")")
	testutil.WriteFile(t, filepath.Join(src, "README.md"), "(ns readme.ignored)")

	jar := filepath.Join(t.TempDir(), "neko.jar")
	testutil.WriteJar(t, jar, map[string]string{
		"neko/activity.clj":   "(ns neko.activity)",
		"neko/ui.clj":         "(ns neko.ui)",
		"app/core.clj":        "(ns app.core)",
		"neko/Activity.class": "\xca\xfe\xba\xbe",
	})

	got, err := classpath.Namespaces(context.Background(), []string{
		src, jar, filepath.Join(src, "missing"), filepath.Join(src, "README.md"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.core", "app.meta", "app.util", "neko.activity", "neko.ui"}, got)
}

func TestNamespaces_BadArchive(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "broken.jar")
	testutil.WriteFile(t, bad, "not a zip")

	_, err := classpath.Namespaces(context.Background(), []string{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.jar")
}

func TestNamespaces_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := classpath.Namespaces(ctx, []string{t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestExcludeNamespaces(t *testing.T) {
	all := []string{"a", "app.dev.repl", "app.dev.tools", "b", "c"}

	assert.Equal(t, []string{"a", "c"}, classpath.ExcludeNamespaces([]string{"a", "b", "c"}, []string{"b"}))
	assert.Equal(t, []string{"a", "b", "c"}, classpath.ExcludeNamespaces(all, []string{"app.dev.*"}))
	assert.Equal(t, all, classpath.ExcludeNamespaces(all, nil))
}
