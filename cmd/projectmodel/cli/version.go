package cli

import (
	"fmt"
	"strings"

	"github.com/willibrandon/projectmodel/projectmodel"
)

// Build stamps, set by main from ldflags.
var (
	Version = "0.0.0-dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// GetVersion returns the tool version.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the tool version, its build stamps and the document
// format versions it writes.
func GetFullVersion() string {
	var b strings.Builder
	fmt.Fprintf(&b, "projectmodel version %s\n", Version)
	fmt.Fprintf(&b, "commit: %s\n", Commit)
	fmt.Fprintf(&b, "built: %s by %s\n", Date, BuiltBy)
	fmt.Fprintf(&b, "formats: assets v%d, packages lock v%d, no-op cache v%d",
		projectmodel.LockFileFormatVersion,
		projectmodel.PackagesLockFileVersion,
		projectmodel.CacheFileVersion)
	return b.String()
}
