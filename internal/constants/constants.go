// Package constants provides centralized constant values used throughout droid.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory and file names used by droid for its own data.
const (
	// DroidHome is the hidden directory name where droid stores global data.
	// This directory is created in the user's home directory.
	DroidHome = ".droid"

	// ProjectConfigDir is the project-relative directory holding droid config.
	ProjectConfigDir = ".droid"

	// ConfigFileName is the name of the YAML config file in both config dirs.
	ConfigFileName = "config.yaml"

	// EnvFileName is the optional dotenv file read from the project root.
	EnvFileName = ".env"

	// LockFileName is the project build lock, created under the target dir.
	LockFileName = ".droid.lock"

	// AOTStampFileName records the last forced AOT compile inside the compiled-classes dir.
	AOTStampFileName = ".droid-aot.json"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the rotating CLI log file name.
	CLILogFileName = "droid.log"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 5

	// LogMaxAgeDays is the age after which rotated files are removed.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Process supervision.
const (
	// ProcessWaitDelay bounds how long output pipes are drained after an
	// interruptible tool has been killed.
	ProcessWaitDelay = 2 * time.Second

	// WatchDebounce is the quiet period before a watched change triggers a rerun.
	WatchDebounce = 300 * time.Millisecond
)

// Manifest patching.
const (
	// ManifestBackupSuffix is appended to the manifest path for the backup copy.
	ManifestBackupSuffix = ".backup"

	// InternetPermission is granted to development builds.
	InternetPermission = "android.permission.INTERNET"
)

// Artifact name suffixes inserted before the final package extension.
const (
	// UnalignedSuffix marks the signed-but-unaligned package.
	UnalignedSuffix = "-debug-unaligned"

	// AlignedSuffix marks the final installable package.
	AlignedSuffix = "-debug"
)
