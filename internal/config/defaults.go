package config

import (
	"github.com/spf13/viper"

	"github.com/android-clojure/droid/internal/constants"
)

// Default values shared by DefaultConfig and the viper defaults.
const (
	defaultTargetVersion = "15"
	defaultManifest      = "AndroidManifest.xml"
	defaultResources     = "res"
	defaultAssets        = "assets"
	defaultTargetDir     = "target"
	defaultClojureSrc    = "src/clojure"
	defaultJavaSrc       = "src/java"
)

// DefaultConfig returns a new Config with default values.
// Output paths are left empty here; they are derived from the target dir
// when the config is finalized against a project directory.
func DefaultConfig() *Config {
	return &Config{
		BuildType: BuildDevelopment,
		SDK: SDKConfig{
			TargetVersion: defaultTargetVersion,
		},
		JDK: JDKConfig{
			Javac:     constants.ToolJavac,
			Java:      constants.ToolJava,
			Jarsigner: constants.ToolJarsigner,
			Keytool:   constants.ToolKeytool,
		},
		Sources: SourcesConfig{
			Paths:     []string{defaultClojureSrc},
			JavaPaths: []string{defaultJavaSrc},
		},
		AOT: AOTConfig{
			Mode: AOTAll,
		},
		Paths: PathsConfig{
			Manifest:  defaultManifest,
			Resources: defaultResources,
			Assets:    defaultAssets,
		},
		Output: OutputConfig{
			TargetDir: defaultTargetDir,
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tag names exactly. Every key that should
// be settable from the environment needs a default so AutomaticEnv sees it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("name", "")
	v.SetDefault("build_type", string(d.BuildType))

	v.SetDefault("sdk.path", "")
	v.SetDefault("sdk.target_version", d.SDK.TargetVersion)

	v.SetDefault("jdk.javac", d.JDK.Javac)
	v.SetDefault("jdk.javac_opts", []string{})
	v.SetDefault("jdk.java", d.JDK.Java)
	v.SetDefault("jdk.jarsigner", d.JDK.Jarsigner)
	v.SetDefault("jdk.keytool", d.JDK.Keytool)

	v.SetDefault("sources.paths", d.Sources.Paths)
	v.SetDefault("sources.java_paths", d.Sources.JavaPaths)

	v.SetDefault("dependencies", []string{})
	v.SetDefault("resolver.command", []string{})

	v.SetDefault("aot.mode", string(d.AOT.Mode))
	v.SetDefault("aot.namespaces", []string{})
	v.SetDefault("aot.exclude", []string{})
	v.SetDefault("aot.jvm_opts", []string{})

	v.SetDefault("dex.options", []string{})
	v.SetDefault("dex.external_classes_paths", []string{})

	v.SetDefault("paths.manifest", d.Paths.Manifest)
	v.SetDefault("paths.resources", d.Paths.Resources)
	v.SetDefault("paths.assets", d.Paths.Assets)

	v.SetDefault("output.target_dir", d.Output.TargetDir)
	v.SetDefault("output.compiled_classes", "")
	v.SetDefault("output.dex", "")
	v.SetDefault("output.crunched_resources", "")
	v.SetDefault("output.resource_package", "")
	v.SetDefault("output.apk", "")

	v.SetDefault("signing.keystore", "")
	v.SetDefault("device.serial", "")
}
