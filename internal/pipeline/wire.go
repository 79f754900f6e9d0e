package pipeline

import (
	"github.com/android-clojure/droid/internal/apk"
	"github.com/android-clojure/droid/internal/classpath"
	"github.com/android-clojure/droid/internal/compile"
	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/dex"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/resources"
	"github.com/android-clojure/droid/internal/toolchain"
)

// Components overrides the collaborators Wire would otherwise build from
// the config. Nil fields get the defaults.
type Components struct {
	Toolchain *toolchain.Resolver
	Resolver  classpath.Resolver
	Evaluator compile.Evaluator
}

// Wire builds every stage for cfg. The dependency resolver is created once,
// augmented with the platform archives, and shared by compile and dex.
func Wire(cfg *config.Config, runner process.Runner, c Components) Stages {
	tc := c.Toolchain
	if tc == nil {
		tc = toolchain.New(cfg.SDK.Path, cfg.SDK.TargetVersion)
	}
	resolver := c.Resolver
	if resolver == nil {
		resolver = classpath.Augmented(classpath.NewResolver(cfg, runner), tc.PlatformArchives)
	}
	evaluator := c.Evaluator
	if evaluator == nil {
		evaluator = compile.NewJVMEvaluator(cfg, runner)
	}

	compiler := compile.New(cfg, tc, resolver, runner, evaluator)
	dexer := dex.New(cfg, tc, resolver, runner)
	res := resources.New(cfg, tc, runner)
	pkg := apk.New(cfg, tc, runner)

	return Stages{
		StageCompile:          compiler.Compile,
		StageCreateDex:        dexer.CreateDex,
		StageCrunchResources:  res.Crunch,
		StagePackageResources: res.Package,
		StageCreateAPK:        pkg.Create,
		StageSignAPK:          pkg.Sign,
		StageZipalignAPK:      pkg.Zipalign,
		StageInstall:          pkg.Install,
	}
}
