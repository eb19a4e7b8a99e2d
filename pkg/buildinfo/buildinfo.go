// Package buildinfo carries the release identifiers stamped in at
// link time.
package buildinfo

import "fmt"

var (
	// Version is the release number for this build
	Version = "dev"

	// Commit is the specific git hash
	Commit = "UNKNOWN"

	// BuildDate is the build timestamp
	BuildDate = "UNKNOWN"
)

// Release formats the full release string used in logs and the
// version cmdlet.
func Release() string {
	return fmt.Sprintf("%s (%s) built %s", Version, Commit, BuildDate)
}
