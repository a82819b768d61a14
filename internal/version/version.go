// Package version carries build metadata injected via ldflags.
package version

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String formats the version for --version output.
func String() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
