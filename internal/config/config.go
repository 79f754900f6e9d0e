// Package config provides the project configuration for droid with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (DROID_* prefix)
//  3. Project config (<project>/.droid/config.yaml)
//  4. Global config (~/.droid/config.yaml)
//  5. Built-in defaults
//
// Once loaded, relative paths are resolved against the project directory and
// the Config is treated as immutable: stages only read it.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import any other internal packages.
package config

// BuildType selects development or release behavior.
type BuildType string

// Build types.
const (
	// BuildDevelopment patches the manifest with network permission and
	// passes --debug-mode to the resource packager.
	BuildDevelopment BuildType = "development"
	// BuildRelease leaves the manifest untouched and elides compiler metadata.
	BuildRelease BuildType = "release"
)

// AOTMode is the ahead-of-time compile policy for managed-language sources.
type AOTMode string

// AOT modes.
const (
	// AOTNone ships namespaces as sources.
	AOTNone AOTMode = "none"
	// AOTAll compiles the configured entry namespaces and whatever they reference.
	AOTAll AOTMode = "all"
	// AOTAllWithUnused compiles every namespace on the classpath except excluded ones.
	AOTAllWithUnused AOTMode = "all-with-unused"
)

// Config is the project configuration record passed to every stage.
type Config struct {
	// ProjectDir is the absolute project root. It is set by the loader, never read from files.
	ProjectDir string `yaml:"project_dir" mapstructure:"-"`

	// Name is the package base name used for the default APK path.
	// Default: the project directory name
	Name string `yaml:"name" mapstructure:"name"`

	// BuildType is development or release.
	// Default: development
	BuildType BuildType `yaml:"build_type" mapstructure:"build_type"`

	// SDK locates the toolchain.
	SDK SDKConfig `yaml:"sdk" mapstructure:"sdk"`

	// JDK names the JDK tools.
	JDK JDKConfig `yaml:"jdk" mapstructure:"jdk"`

	// Sources lists the source trees.
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`

	// Dependencies is the declared dependency set handed to the resolver.
	Dependencies []string `yaml:"dependencies" mapstructure:"dependencies"`

	// Resolver configures external dependency resolution.
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`

	// AOT configures managed-language ahead-of-time compilation.
	AOT AOTConfig `yaml:"aot" mapstructure:"aot"`

	// Dex configures the bytecode translation stage.
	Dex DexConfig `yaml:"dex" mapstructure:"dex"`

	// Paths locates project inputs.
	Paths PathsConfig `yaml:"paths" mapstructure:"paths"`

	// Output locates pipeline artifacts.
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Signing configures the debug signer.
	Signing SigningConfig `yaml:"signing" mapstructure:"signing"`

	// Device selects the install target.
	Device DeviceConfig `yaml:"device" mapstructure:"device"`
}

// SDKConfig locates the Android toolchain.
type SDKConfig struct {
	// Path is the toolchain root.
	// Default: $ANDROID_HOME, then $ANDROID_SDK_ROOT
	Path string `yaml:"path" mapstructure:"path"`

	// TargetVersion is the platform version, "15" or "android-15".
	TargetVersion string `yaml:"target_version" mapstructure:"target_version"`
}

// JDKConfig names the JDK tools. Bare names are looked up on PATH.
type JDKConfig struct {
	Javac     string   `yaml:"javac" mapstructure:"javac"`
	JavacOpts []string `yaml:"javac_opts" mapstructure:"javac_opts"`
	Java      string   `yaml:"java" mapstructure:"java"`
	Jarsigner string   `yaml:"jarsigner" mapstructure:"jarsigner"`
	Keytool   string   `yaml:"keytool" mapstructure:"keytool"`
}

// SourcesConfig lists the source trees, in order.
type SourcesConfig struct {
	// Paths are managed-language (Clojure) source roots.
	Paths []string `yaml:"paths" mapstructure:"paths"`

	// JavaPaths are non-managed (Java) source roots.
	JavaPaths []string `yaml:"java_paths" mapstructure:"java_paths"`
}

// ResolverConfig configures dependency resolution.
type ResolverConfig struct {
	// Command, when set, is run in the project dir and must print the
	// resolved paths as an OS path list on stdout.
	Command []string `yaml:"command" mapstructure:"command"`
}

// AOTConfig configures ahead-of-time compilation.
type AOTConfig struct {
	// Mode is none, all or all-with-unused.
	// Default: all
	Mode AOTMode `yaml:"mode" mapstructure:"mode"`

	// Namespaces are the entry namespaces compiled in mode "all".
	Namespaces []string `yaml:"namespaces" mapstructure:"namespaces"`

	// Exclude lists namespaces (exact names or path.Match globs) skipped in mode "all-with-unused".
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`

	// JVMOpts are passed to the evaluation JVM.
	JVMOpts []string `yaml:"jvm_opts" mapstructure:"jvm_opts"`
}

// DexConfig configures the bytecode translation tool.
type DexConfig struct {
	// Options are extra dx options (e.g. -JXmx2g, --no-optimize).
	Options []string `yaml:"options" mapstructure:"options"`

	// ExternalClassesPaths are extra class directories or archives to translate.
	ExternalClassesPaths []string `yaml:"external_classes_paths" mapstructure:"external_classes_paths"`
}

// PathsConfig locates project inputs.
type PathsConfig struct {
	Manifest  string `yaml:"manifest" mapstructure:"manifest"`
	Resources string `yaml:"resources" mapstructure:"resources"`
	Assets    string `yaml:"assets" mapstructure:"assets"`
}

// OutputConfig locates pipeline artifacts. Empty entries are derived from TargetDir.
type OutputConfig struct {
	TargetDir         string `yaml:"target_dir" mapstructure:"target_dir"`
	CompiledClasses   string `yaml:"compiled_classes" mapstructure:"compiled_classes"`
	Dex               string `yaml:"dex" mapstructure:"dex"`
	CrunchedResources string `yaml:"crunched_resources" mapstructure:"crunched_resources"`
	ResourcePackage   string `yaml:"resource_package" mapstructure:"resource_package"`
	APK               string `yaml:"apk" mapstructure:"apk"`
}

// SigningConfig configures the debug signer.
type SigningConfig struct {
	// Keystore is the debug keystore path.
	// Default: ~/.android/debug.keystore
	Keystore string `yaml:"keystore" mapstructure:"keystore"`
}

// DeviceConfig selects the install target.
type DeviceConfig struct {
	// Serial targets a specific device; empty means the single attached USB device.
	Serial string `yaml:"serial" mapstructure:"serial"`
}

// Development reports whether this is a development build.
func (c *Config) Development() bool {
	return c.BuildType == BuildDevelopment
}

// Valid reports whether the build type is known.
func (b BuildType) Valid() bool {
	switch b {
	case BuildDevelopment, BuildRelease:
		return true
	default:
		return false
	}
}

// Valid reports whether the AOT mode is known.
func (m AOTMode) Valid() bool {
	switch m {
	case AOTNone, AOTAll, AOTAllWithUnused:
		return true
	default:
		return false
	}
}
