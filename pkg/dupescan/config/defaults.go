// Package config provides configuration management for the dupescan
// duplicate finder.
package config

// Default configuration values for dupescan.
const (
	// DefaultReportPath is the report file written when none is specified.
	DefaultReportPath = "duplicates.json"

	// DefaultOutputFormat is the report format used when none is specified.
	DefaultOutputFormat = "json"

	// DefaultMinSize is the minimum file size to include in scans.
	// Empty means no size filter.
	DefaultMinSize = ""

	// DefaultWorkers is the hashing worker count. Zero means size the
	// pool automatically from detected system resources.
	DefaultWorkers = 0

	// DefaultFileTimeout is the per-file hashing deadline in seconds.
	// Zero means no per-file deadline.
	DefaultFileTimeout = 0
)

// DefaultExclusions contains path markers excluded from scanning by
// default. Any directory whose path contains one of these markers is
// pruned along with its entire subtree.
var DefaultExclusions = []string{
	"Cache",
}
