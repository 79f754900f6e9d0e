package constants

// Toolchain layout relative to the SDK root.
const (
	// PlatformToolsDir holds dx, aapt and adb.
	PlatformToolsDir = "platform-tools"

	// ToolsDir holds apkbuilder and zipalign.
	ToolsDir = "tools"

	// PlatformsDir holds one directory per target platform.
	PlatformsDir = "platforms"

	// PlatformDirPrefix prefixes the target version in a platform dir name.
	PlatformDirPrefix = "android-"

	// PlatformJarName is the platform library archive inside a platform dir.
	PlatformJarName = "android.jar"

	// AnnotationsJarPath is the platform annotations archive relative to the SDK root.
	AnnotationsJarPath = "tools/support/annotations.jar"
)

// Toolchain binaries.
const (
	ToolDx         = "dx"
	ToolAapt       = "aapt"
	ToolAdb        = "adb"
	ToolApkBuilder = "apkbuilder"
	ToolZipalign   = "zipalign"
)

// JDK tools invoked by name (or configured path).
const (
	ToolJavac     = "javac"
	ToolJava      = "java"
	ToolJarsigner = "jarsigner"
	ToolKeytool   = "keytool"
)

// Debug signing identity. These values are the well-known Android debug
// keystore credentials and are not secret.
const (
	DebugKeystoreFile  = ".android/debug.keystore"
	DebugKeyAlias      = "androiddebugkey"
	DebugStorePassword = "android"
	DebugKeyPassword   = "android"
	DebugKeyDName      = "CN=Android Debug,O=Android,C=US"
	DebugKeyValidity   = "10000"
	DebugSigAlg        = "SHA1withRSA"
	DebugDigestAlg     = "SHA1"
	DebugKeyAlg        = "RSA"
	DebugKeySize       = "2048"
)

// ZipalignBoundary is the byte alignment passed to zipalign.
const ZipalignBoundary = "4"
