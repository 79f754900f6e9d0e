package compile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/compile"
	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/testutil"
)

func TestCompileForm(t *testing.T) {
	got := compile.CompileForm(`/out/classes`, []string{"a.core", "b"})
	assert.Equal(t, `(binding [*compile-path* "/out/classes"] (doseq [n ['a.core 'b]] (compile n)))`, got)

	escaped := compile.CompileForm(`C:\out "x"`, []string{"a"})
	assert.Contains(t, escaped, `"C:\\out \"x\""`)
}

func TestJVMEvaluator_Args(t *testing.T) {
	runner := &testutil.RecordingRunner{}
	cfg, err := config.NewForProject(t.TempDir())
	require.NoError(t, err)
	cfg.AOT.JVMOpts = []string{"-Xmx1g"}

	e := compile.NewJVMEvaluator(cfg, runner)
	sep := string(filepath.ListSeparator)

	require.NoError(t, e.Compile(ctx(), compile.Request{
		Namespaces: []string{"a"},
		Classpath:  []string{"/src", "/m2/clojure.jar"},
		OutDir:     "/out",
		Release:    true,
	}))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "java", calls[0].Tool)
	assert.Equal(t, "java", calls[0].Path)
	assert.Equal(t, cfg.ProjectDir, calls[0].Dir)
	assert.Equal(t, []string{
		"-Xmx1g",
		"-Dclojure.compiler.elide-meta=[:doc :file :line :added]",
		"-Dclojure.compiler.direct-linking=true",
		"-cp", "/out" + sep + "/src" + sep + "/m2/clojure.jar",
		"clojure.main", "-e", compile.CompileForm("/out", []string{"a"}),
	}, calls[0].Args)
	assert.False(t, calls[0].Interruptible)
}

func TestJVMEvaluator_DevelopmentHasNoReleaseFlags(t *testing.T) {
	runner := &testutil.RecordingRunner{}
	e := &compile.JVMEvaluator{Java: "/jdk/bin/java", Runner: runner}

	require.NoError(t, e.Compile(ctx(), compile.Request{Namespaces: []string{"a"}, OutDir: "/out"}))
	assert.Equal(t, "-cp", runner.Calls()[0].Args[0])
}

func TestJVMEvaluator_Failure(t *testing.T) {
	runner := &testutil.RecordingRunner{Fail: map[string]string{"java": "Syntax error compiling at (a.clj:3:1)"}}
	e := &compile.JVMEvaluator{Java: "java", Runner: runner}

	err := e.Compile(ctx(), compile.Request{Namespaces: []string{"a"}, OutDir: "/out"})
	require.ErrorIs(t, err, errors.ErrCompilationFailed)
	require.ErrorIs(t, err, errors.ErrToolInvocationFailed)
	assert.Contains(t, err.Error(), "a.clj:3:1")
}
