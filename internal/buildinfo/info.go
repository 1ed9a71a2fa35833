package buildinfo

import "fmt"

var (
	// Version is set via -ldflags "-X github.com/securebank/atm/internal/buildinfo.Version=..." at release time.
	Version = "dev"
	// Commit is set via ldflags during build.
	Commit = "none"
	// Date is set via ldflags during build.
	Date = "unknown"
)

// String returns the version line shown by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
