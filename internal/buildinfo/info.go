// Package buildinfo carries version metadata stamped at link time:
//
//	go build -ldflags "-X github.com/ledgerbook-dev/ledgerbook/internal/buildinfo.Version=v0.3.0" ./cmd/ledgerbook
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the line printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
