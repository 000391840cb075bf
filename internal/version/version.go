// Package version exposes build metadata stamped in at link time.
package version

// Overridden via -ldflags "-X ..." in release builds; the defaults
// identify an untagged development build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the version, commit, and build date as one tuple.
func Info() (version, commit, date string) {
	return Version, GitCommit, BuildDate
}
