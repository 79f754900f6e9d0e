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

func TestIsArchive(t *testing.T) {
	assert.True(t, classpath.IsArchive("/m2/clojure-1.7.0.jar"))
	assert.True(t, classpath.IsArchive("LIB.JAR"))
	assert.False(t, classpath.IsArchive("/project/target/classes"))
	assert.False(t, classpath.IsArchive("notes.jar.txt"))
}

func TestAugment(t *testing.T) {
	platform := []string{"/sdk/platforms/android-15/android.jar", "/sdk/tools/support/annotations.jar"}

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "dedupes archives by base name keeping first",
			input: []string{"/a/libA.jar", "/b/libB.jar", "/c/libA.jar"},
			want:  []string{"/a/libA.jar", "/b/libB.jar", platform[0], platform[1]},
		},
		{
			name:  "archives before directories with relative order kept",
			input: []string{"/p/classes", "/a/x.jar", "/p/src", "/a/y.jar", "/p/res"},
			want:  []string{"/a/x.jar", "/a/y.jar", "/p/classes", "/p/src", "/p/res", platform[0], platform[1]},
		},
		{
			name:  "directories are never deduplicated",
			input: []string{"/one/classes", "/two/classes"},
			want:  []string{"/one/classes", "/two/classes", platform[0], platform[1]},
		},
		{
			name:  "empty input still gets platform archives",
			input: nil,
			want:  platform,
		},
		{
			name:  "platform archive already present is not repeated",
			input: []string{"/other/annotations.jar"},
			want:  []string{"/other/annotations.jar", platform[0]},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classpath.Augment(tc.input, platform...)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAugment_Properties(t *testing.T) {
	input := []string{
		"/m2/a/libA.jar", "/dirs/one", "/m2/b/libB.jar", "/m2/c/libA.jar",
		"/dirs/two", "/m2/d/libC.JAR", "/m2/e/libB.jar", "/dirs/one",
	}
	platform := []string{"/sdk/android.jar", "/sdk/annotations.jar"}
	original := append([]string(nil), input...)

	got := classpath.Augment(input, platform...)

	assert.Equal(t, original, input, "input must not be modified")

	names := map[string]int{}
	var dirs []string
	for _, p := range got {
		if classpath.IsArchive(p) {
			names[filepath.Base(p)]++
		} else {
			dirs = append(dirs, p)
		}
	}
	for name, n := range names {
		assert.Equal(t, 1, n, "archive %s appears more than once", name)
	}
	assert.Equal(t, []string{"/dirs/one", "/dirs/two", "/dirs/one"}, dirs)
	assert.Equal(t, platform, got[len(got)-2:], "platform archives come last")
	assert.Contains(t, got, "/m2/a/libA.jar")
	assert.NotContains(t, got, "/m2/c/libA.jar")
}

func TestDedupeArchives(t *testing.T) {
	got := classpath.DedupeArchives([]string{"/p/classes", "/a/x.jar", "/b/x.jar", "/sdk/annotations.jar", "/m2/annotations.jar"})
	assert.Equal(t, []string{"/p/classes", "/a/x.jar", "/sdk/annotations.jar"}, got)
}

func TestAugmented(t *testing.T) {
	ctx := context.Background()
	var gotDeps []string
	base := classpath.ResolverFunc(func(_ context.Context, deps []string) ([]string, error) {
		gotDeps = deps
		return []string{"/m2/libA.jar", "/m2/libB.jar", "/other/libA.jar"}, nil
	})
	platform := func() ([]string, error) {
		return []string{"/sdk/android.jar", "/sdk/annotations.jar"}, nil
	}

	r := classpath.Augmented(base, platform)
	got, err := r.Resolve(ctx, []string{"libA", "libB", "libA"})
	require.NoError(t, err)

	assert.Equal(t, []string{"libA", "libB", "libA"}, gotDeps, "declared deps are passed through unchanged")
	assert.Equal(t, []string{"/m2/libA.jar", "/m2/libB.jar", "/sdk/android.jar", "/sdk/annotations.jar"}, got)
}

func TestAugmented_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("base failure", func(t *testing.T) {
		base := classpath.ResolverFunc(func(context.Context, []string) ([]string, error) {
			return nil, testutil.ErrMockResolver
		})
		_, err := classpath.Augmented(base, nil).Resolve(ctx, nil)
		require.ErrorIs(t, err, testutil.ErrMockResolver)
	})

	t.Run("platform failure", func(t *testing.T) {
		base := classpath.ResolverFunc(func(context.Context, []string) ([]string, error) {
			return []string{"/a.jar"}, nil
		})
		_, err := classpath.Augmented(base, func() ([]string, error) {
			return nil, testutil.ErrMockToolFailed
		}).Resolve(ctx, nil)
		require.ErrorIs(t, err, testutil.ErrMockToolFailed)
	})

	t.Run("nil platform func", func(t *testing.T) {
		base := classpath.ResolverFunc(func(context.Context, []string) ([]string, error) {
			return []string{"/a.jar", "/b/a.jar"}, nil
		})
		got, err := classpath.Augmented(base, nil).Resolve(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"/a.jar"}, got)
	})
}

func TestJoin(t *testing.T) {
	sep := string(filepath.ListSeparator)
	assert.Equal(t, "a.jar"+sep+"classes", classpath.Join([]string{"a.jar", "classes"}))
	assert.Empty(t, classpath.Join(nil))
}
