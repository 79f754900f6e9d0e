package pipeline

import (
	"fmt"

	"github.com/android-clojure/droid/internal/errors"
)

// StageName identifies one pipeline stage.
type StageName string

// Canonical stage names, in pipeline order.
const (
	StageCompile          StageName = "compile"
	StageCreateDex        StageName = "create-dex"
	StageCrunchResources  StageName = "crunch-resources"
	StagePackageResources StageName = "package-resources"
	StageCreateAPK        StageName = "create-apk"
	StageSignAPK          StageName = "sign-apk"
	StageZipalignAPK      StageName = "zipalign-apk"
	StageInstall          StageName = "install"
)

// Composite task names.
const (
	TaskBuild = "build"
	TaskAPK   = "apk"
	TaskDoAll = "doall"
)

type taskDef struct {
	name        string
	description string
	stages      []StageName
}

var (
	buildStages = []StageName{StageCompile, StageCreateDex}
	apkStages   = []StageName{
		StageCrunchResources,
		StagePackageResources,
		StageCreateAPK,
		StageSignAPK,
		StageZipalignAPK,
	}
)

//nolint:gochecknoglobals // static task table
var taskTable = []taskDef{
	{string(StageCompile), "Compile Java sources and AOT-compile Clojure namespaces", []StageName{StageCompile}},
	{string(StageCreateDex), "Convert compiled classes and dependencies to Dalvik bytecode", []StageName{StageCreateDex}},
	{TaskBuild, "Run compile and create-dex", buildStages},
	{string(StageCrunchResources), "Optimize image resources", []StageName{StageCrunchResources}},
	{string(StagePackageResources), "Package the manifest and resources", []StageName{StagePackageResources}},
	{string(StageCreateAPK), "Assemble the unsigned package", []StageName{StageCreateAPK}},
	{string(StageSignAPK), "Sign the package with the debug keystore", []StageName{StageSignAPK}},
	{string(StageZipalignAPK), "Align the signed package", []StageName{StageZipalignAPK}},
	{TaskAPK, "Run crunch, package, create, sign and zipalign", apkStages},
	{string(StageInstall), "Install the aligned package on a device", []StageName{StageInstall}},
	{TaskDoAll, "Build, package and install", concat(buildStages, apkStages, []StageName{StageInstall})},
}

func concat(parts ...[]StageName) []StageName {
	var out []StageName
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Tasks returns every task name in display order.
func Tasks() []string {
	out := make([]string, len(taskTable))
	for i, t := range taskTable {
		out[i] = t.name
	}
	return out
}

// Describe returns the one-line description of task.
func Describe(task string) string {
	for _, t := range taskTable {
		if t.name == task {
			return t.description
		}
	}
	return ""
}

// StagesFor returns the ordered stages a task runs.
func StagesFor(task string) ([]StageName, error) {
	for _, t := range taskTable {
		if t.name == task {
			return append([]StageName(nil), t.stages...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrUnknownTask, task)
}
