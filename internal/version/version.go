// Package version provides version information for the expressgen CLI.
//
// Overview:
//   - Responsibility: CLI version metadata (version, commit, build time)
//   - Key Types: Version variables and formatting functions
//   - Concurrency Model: Immutable after link time, safe for concurrent use
//   - Error Semantics: No errors
//   - Performance Notes: Zero-cost lookups
//
// Usage:
//
//	import "go.eggybyte.com/expressgen/internal/version"
//	version.GetVersionString()
package version

import (
	"fmt"
	"runtime"
)

// Version is the CLI version, set with -ldflags during release builds.
var Version = "v0.1.0-dev"

// Commit is the git commit hash, set with -ldflags during release builds.
var Commit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// NodeImage is the base image written into generated Dockerfiles.
var NodeImage = "node:20-alpine"

// GetVersionString returns the one-line version string:
// expressgen version v0.1.0 (commit 4a9b2c1, built 2026-01-01T00:00:00Z)
func GetVersionString() string {
	return fmt.Sprintf("expressgen version %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// GetFullVersionInfo returns detailed version information including the
// Node base image used for generated container descriptors.
func GetFullVersionInfo() string {
	return fmt.Sprintf(`expressgen version %s (commit %s, built %s)
container base image %s
go version %s (%s/%s)`,
		Version, Commit, BuildTime,
		NodeImage,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
