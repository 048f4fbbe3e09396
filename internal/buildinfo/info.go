// Package buildinfo carries version metadata stamped at build time.
package buildinfo

// Set via -ldflags on release builds; the defaults mark a dev build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
