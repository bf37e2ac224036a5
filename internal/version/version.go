package version

import "fmt"

// These variables are set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the human-readable version line.
func String() string {
	return fmt.Sprintf("tabbyspaces %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

// Short returns the version reported to MCP clients.
func Short() string {
	if Commit == "unknown" {
		return Version
	}
	return Version + "+" + shortCommit()
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
