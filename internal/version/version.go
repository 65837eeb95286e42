// Package version provides build information for the binary.
package version

import "fmt"

// Set at build time with -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// String returns the formatted version information.
func String() string {
	return fmt.Sprintf("tool-mcp version %s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
