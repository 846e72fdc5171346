// Package version carries build-time identification for the pbngen binaries.
package version

// Set at build time via -ldflags "-X pbngen/internal/version.Version=...".
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// GitCommit is the source revision the binary was built from.
	GitCommit = "unknown"
)

// String formats the version with its commit when one was stamped in.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
