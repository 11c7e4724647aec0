// Package version reports the build identity of the grievance binary.
package version

import "fmt"

// Set at build time with -ldflags "-X github.com/example/grievance/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version line shown by --version.
func String() string {
	return fmt.Sprintf("grievance %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
