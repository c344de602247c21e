// Package scan runs duplicate-detection sessions for the dupescan
// duplicate finder. A session enumerates candidate files, distributes
// fingerprinting across a bounded worker pool, and folds the unordered
// hash results into deterministic duplicate groups.
package scan

import (
	"errors"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/enumerate"
	"github.com/jamesainslie/dupescan/pkg/dupescan/tuner"
)

// ErrNoRoots is returned when a session is created without any scan roots.
var ErrNoRoots = errors.New("no scan roots given")

// Options configures a scan session.
type Options struct {
	// Roots are the directories to scan. At least one is required.
	Roots []string

	// Exclude decides which paths are pruned during enumeration.
	// Nil excludes nothing.
	Exclude enumerate.Matcher

	// MinSize skips files smaller than this many bytes. Zero keeps all files.
	MinSize int64

	// Workers is the fingerprinting concurrency limit: at most this many
	// files are open and being hashed at once. Zero or negative selects
	// the hardware parallelism via the tuner.
	Workers int

	// PathQueueSize is the enumeration channel buffer. Zero lets the
	// tuner size it from available memory.
	PathQueueSize int

	// ResultBuffer is the hash-result channel buffer. Zero lets the
	// tuner size it from available memory.
	ResultBuffer int

	// FileTimeout bounds a single file read. Zero imposes no deadline;
	// large files are expected and slow reads are not failures by default.
	FileTimeout time.Duration

	// OnProgress is called periodically with session progress updates.
	// It must be safe to call from the aggregation goroutine.
	OnProgress func(Progress)
}

// Progress reports real-time session progress.
type Progress struct {
	// FilesEnumerated is the number of candidate paths discovered so far.
	FilesEnumerated int64 `json:"files_enumerated"`

	// FilesHashed is the number of paths fingerprinted successfully so far.
	FilesHashed int64 `json:"files_hashed"`

	// HashFailures is the number of unreadable paths so far.
	HashFailures int64 `json:"hash_failures"`

	// BytesHashed is the total bytes streamed through the digest so far.
	BytesHashed int64 `json:"bytes_hashed"`
}

// Validate checks the options and fills tuner-derived defaults.
func (o *Options) Validate() error {
	if len(o.Roots) == 0 {
		return ErrNoRoots
	}

	if o.Workers <= 0 || o.PathQueueSize <= 0 || o.ResultBuffer <= 0 {
		resources, err := tuner.Detect()
		if err != nil {
			// Detection failure falls back to conservative defaults.
			resources = tuner.SystemResources{
				CPUCores:     4,
				TotalRAM:     8 * 1024 * 1024 * 1024,
				AvailableRAM: 4 * 1024 * 1024 * 1024,
			}
		}
		optimal := tuner.CalculateWithOverrides(resources, o.Workers)

		if o.Workers <= 0 {
			o.Workers = optimal.Workers
		}
		if o.PathQueueSize <= 0 {
			o.PathQueueSize = optimal.PathQueueSize
		}
		if o.ResultBuffer <= 0 {
			o.ResultBuffer = optimal.ResultBuffer
		}
	}

	if o.Exclude == nil {
		o.Exclude = enumerate.None()
	}

	return nil
}
