// Package enumerate discovers candidate files for duplicate scanning.
// It walks one or more directory roots in parallel using fastwalk, applies
// an exclusion matcher that prunes whole subtrees, and yields every
// reachable regular file to a channel. Yield order is unspecified and must
// not be relied upon downstream.
package enumerate

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// Options configures an Enumerator.
type Options struct {
	// Roots are the directories to walk. At least one is required.
	Roots []string

	// Exclude decides which paths are pruned. Nil excludes nothing.
	Exclude Matcher

	// MinSize skips files smaller than this many bytes. Zero keeps all files.
	MinSize int64
}

// Enumerator walks directory roots and yields regular-file paths.
// A directory that cannot be listed is recorded as a warning and skipped;
// it never aborts enumeration of sibling directories.
type Enumerator struct {
	opts Options

	enumerated  atomic.Int64
	dirsSkipped atomic.Int64

	// warnings collects per-path enumeration failures without stopping the walk.
	warnings   []types.ScanError
	warningsMu sync.Mutex
}

// New creates an Enumerator with the given options.
func New(opts Options) *Enumerator {
	if opts.Exclude == nil {
		opts.Exclude = None()
	}
	return &Enumerator{opts: opts}
}

// Run walks every root and sends each candidate path to out. It blocks
// until all roots are walked or the context is cancelled, and does not
// close the channel. Run returns the context error on cancellation; all
// per-directory failures are recorded as warnings instead.
func (e *Enumerator) Run(ctx context.Context, out chan<- string) error {
	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}

	done := make(chan struct{})
	stop := context.AfterFunc(ctx, func() { close(done) })
	defer stop()

	for _, root := range e.opts.Roots {
		if ctx.Err() != nil {
			break
		}

		err := fastwalk.Walk(&conf, root, e.walkCallback(out, done))
		if err != nil && !errors.Is(err, context.Canceled) {
			// Unwalkable root: record and continue with the remaining roots.
			e.addWarning(root, err)
			e.dirsSkipped.Add(1)
		}
	}

	return ctx.Err()
}

// walkCallback returns the callback function for fastwalk.Walk.
// fastwalk invokes it from multiple goroutines.
func (e *Enumerator) walkCallback(out chan<- string, done <-chan struct{}) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		select {
		case <-done:
			// Abort the whole walk, not just the current directory.
			return fs.SkipAll
		default:
		}

		// Unlistable directory or unreadable entry: warn and continue.
		if err != nil {
			e.addWarning(path, err)
			e.dirsSkipped.Add(1)
			return nil
		}

		if e.opts.Exclude.Match(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			// Skip symlinks and special files.
			return nil
		}

		if e.opts.MinSize > 0 {
			info, err := d.Info()
			if err != nil {
				e.addWarning(path, err)
				return nil
			}
			if info.Size() < e.opts.MinSize {
				return nil
			}
		}

		select {
		case out <- path:
			e.enumerated.Add(1)
		case <-done:
			return fs.SkipAll
		}
		return nil
	}
}

// Enumerated returns the number of paths yielded so far.
func (e *Enumerator) Enumerated() int64 {
	return e.enumerated.Load()
}

// DirsSkipped returns the number of unlistable directories skipped.
func (e *Enumerator) DirsSkipped() int64 {
	return e.dirsSkipped.Load()
}

// Warnings returns the enumeration failures recorded during the walk.
func (e *Enumerator) Warnings() []types.ScanError {
	e.warningsMu.Lock()
	defer e.warningsMu.Unlock()
	out := make([]types.ScanError, len(e.warnings))
	copy(out, e.warnings)
	return out
}

// addWarning records an enumeration failure thread-safely.
func (e *Enumerator) addWarning(path string, err error) {
	e.warningsMu.Lock()
	e.warnings = append(e.warnings, types.ScanError{
		Path:  path,
		Error: err.Error(),
	})
	e.warningsMu.Unlock()
}
