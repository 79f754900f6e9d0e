package compile

import (
	"context"
	"fmt"
	"strings"

	"github.com/android-clojure/droid/internal/classpath"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
)

// Request asks an Evaluator to AOT-compile namespaces.
type Request struct {
	// Namespaces are compiled in order; referenced namespaces come along.
	Namespaces []string
	// Classpath is the evaluation classpath, without OutDir.
	Classpath []string
	// OutDir receives the generated classes.
	OutDir string
	// Release elides metadata and enables direct linking.
	Release bool
}

// Evaluator compiles managed-language namespaces in an isolated evaluation
// context. A failure inside the evaluation must satisfy
// errors.Is(err, ErrCompilationFailed).
type Evaluator interface {
	Compile(ctx context.Context, req Request) error
}

// Release-mode compiler flags.
const (
	elideMetaFlag     = "-Dclojure.compiler.elide-meta=[:doc :file :line :added]"
	directLinkingFlag = "-Dclojure.compiler.direct-linking=true"
	clojureMain       = "clojure.main"
)

// JVMEvaluator runs the compiler in a fresh JVM per request.
type JVMEvaluator struct {
	// Java is the java executable.
	Java string
	// JVMOpts are passed before the classpath.
	JVMOpts []string
	// Dir is the working directory of the JVM.
	Dir    string
	Runner process.Runner
}

// Compile implements Evaluator.
func (e *JVMEvaluator) Compile(ctx context.Context, req Request) error {
	_, err := e.Runner.Run(ctx, process.Invocation{
		Tool: "java",
		Path: e.Java,
		Args: e.args(req),
		Dir:  e.Dir,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrCompilationFailed, err)
	}
	return nil
}

// args builds: [jvm opts] [release flags] -cp <out:classpath> clojure.main -e <form>.
// OutDir leads the classpath because the compiler loads what it just wrote.
func (e *JVMEvaluator) args(req Request) []string {
	args := append([]string{}, e.JVMOpts...)
	if req.Release {
		args = append(args, elideMetaFlag, directLinkingFlag)
	}
	cp := append([]string{req.OutDir}, req.Classpath...)
	return append(args, "-cp", classpath.Join(cp), clojureMain, "-e", CompileForm(req.OutDir, req.Namespaces))
}

// CompileForm renders the form that compiles namespaces into outDir.
func CompileForm(outDir string, namespaces []string) string {
	syms := make([]string, len(namespaces))
	for i, ns := range namespaces {
		syms[i] = "'" + ns
	}
	return fmt.Sprintf("(binding [*compile-path* %s] (doseq [n [%s]] (compile n)))",
		clojureString(outDir), strings.Join(syms, " "))
}

// clojureString quotes s as a Clojure string literal.
func clojureString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// Ensure JVMEvaluator implements Evaluator.
var _ Evaluator = (*JVMEvaluator)(nil)
