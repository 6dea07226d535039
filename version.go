package fetchengo

import (
	"fmt"
	"runtime"
)

// Build metadata. Version has a default for source builds; the rest is meant
// to be stamped via -ldflags.
var (
	Version   = "v0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

// UserAgent is the User-Agent value sent on requests whose merged headers do
// not already supply one.
func UserAgent() string {
	return "fetchengo/" + Version
}

// VersionString returns a human-readable build description.
func VersionString() string {
	return fmt.Sprintf("fetchengo %s (commit: %s, built: %s, go: %s)",
		Version, GitCommit, BuildDate, GoVersion)
}

// VersionInfo returns build metadata as key/value pairs for structured logs.
func VersionInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"build_date": BuildDate,
		"go_version": GoVersion,
	}
}
