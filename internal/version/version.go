// Package version holds build-time identification for the butler binary.
// The variables are overridden by the linker at release time:
//
//	go build -ldflags "-X github.com/sysbutler/butler/internal/version.Version=v1.2.0"
package version

var (
	// Version is the semantic version of this build.
	Version = "dev"

	// BuildTime is the UTC timestamp of this build.
	BuildTime = "unknown"
)
