package scan

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jamesainslie/dupescan/pkg/dupescan/enumerate"
	"github.com/jamesainslie/dupescan/pkg/dupescan/fingerprint"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"golang.org/x/sync/errgroup"
)

// hashFunc fingerprints one file. It is a field on the session so tests
// can substitute an instrumented implementation.
type hashFunc func(ctx context.Context, path string) (types.Fingerprint, int64, error)

// Session owns one duplicate scan: the root set, the exclusion matcher,
// the worker pool, and the result aggregation. It is created per
// invocation and holds no state across invocations.
type Session struct {
	id   uuid.UUID
	opts Options

	hash   hashFunc
	logger *logging.Logger

	// Atomic counters for thread-safe progress reporting.
	filesHashed  atomic.Int64
	hashFailures atomic.Int64
	bytesHashed  atomic.Int64

	// lastProgress throttles the progress callback.
	lastProgress atomic.Int64
}

// Result contains the outcome of a completed scan session.
type Result struct {
	// SessionID identifies the scan in logs and report metadata.
	SessionID string `json:"session_id"`

	// Roots are the scanned directories.
	Roots []string `json:"roots"`

	// Groups are the duplicate groups in deterministic order.
	Groups []types.DuplicateGroup `json:"groups"`

	// Failures are the files that could not be read, excluded from grouping.
	Failures []types.ScanError `json:"failures,omitempty"`

	// Warnings are enumeration problems (unlistable directories).
	Warnings []types.ScanError `json:"warnings,omitempty"`

	// Stats summarizes the session.
	Stats types.ScanStats `json:"stats"`
}

// New creates a scan session. Options are validated and tuner defaults
// applied; ErrNoRoots is returned when no roots are configured.
func New(opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		id:     uuid.New(),
		opts:   opts,
		hash:   fingerprint.File,
		logger: logging.Get("scan"),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// Workers returns the resolved fingerprinting concurrency limit,
// after tuner defaults have been applied.
func (s *Session) Workers() int {
	return s.opts.Workers
}

// Run executes the scan and blocks until every enumerated path has
// produced exactly one hash result, or the context is cancelled. On
// cancellation no partial result is returned: in-flight work is drained
// and discarded, and the context error is returned instead.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	s.logger.Info("scan started",
		"session", s.ID(),
		"roots", s.opts.Roots,
		"workers", s.opts.Workers)

	paths := make(chan string, s.opts.PathQueueSize)
	results := make(chan types.HashResult, s.opts.ResultBuffer)

	enum := enumerate.New(enumerate.Options{
		Roots:   s.opts.Roots,
		Exclude: s.opts.Exclude,
		MinSize: s.opts.MinSize,
	})

	// Producer: walk the roots and close the path queue when done.
	go func() {
		defer close(paths)
		if err := enum.Run(ctx, paths); err != nil {
			s.logger.Warn("enumeration stopped", "session", s.ID(), "error", err)
		}
	}()

	// Bounded pool: at most Workers files are open and hashing at once.
	var g errgroup.Group
	for i := 0; i < s.opts.Workers; i++ {
		g.Go(func() error {
			s.worker(ctx, paths, results)
			return nil
		})
	}

	// Close the result stream once every worker has drained the queue.
	go func() {
		_ = g.Wait()
		close(results)
	}()

	// Single consumer: no other goroutine touches the aggregator, so the
	// fingerprint map needs no lock.
	agg := NewAggregator()
	for res := range results {
		agg.Add(res)
		s.reportProgress(enum)
	}

	if err := ctx.Err(); err != nil {
		s.logger.Warn("scan aborted", "session", s.ID(), "error", err)
		return nil, err
	}

	s.reportProgressForce(enum)

	result := &Result{
		SessionID: s.ID(),
		Roots:     s.opts.Roots,
		Groups:    agg.Groups(),
		Failures:  agg.Failures(),
		Warnings:  enum.Warnings(),
		Stats: types.ScanStats{
			FilesEnumerated: enum.Enumerated(),
			FilesHashed:     s.filesHashed.Load(),
			HashFailures:    s.hashFailures.Load(),
			BytesHashed:     s.bytesHashed.Load(),
			DirsSkipped:     enum.DirsSkipped(),
			Elapsed:         time.Since(start),
		},
	}

	s.logger.Info("scan finished",
		"session", s.ID(),
		"files", result.Stats.FilesEnumerated,
		"groups", len(result.Groups),
		"failures", result.Stats.HashFailures,
		"elapsed", result.Stats.Elapsed)

	return result, nil
}

// worker pulls paths from the queue and pushes one result per path.
// A failed read produces a failure result; it never cancels or corrupts
// the work of other in-flight paths.
func (s *Session) worker(ctx context.Context, paths <-chan string, results chan<- types.HashResult) {
	for path := range paths {
		results <- s.hashPath(ctx, path)
	}
}

// hashPath fingerprints a single file, applying the per-file deadline when
// configured, and classifies any failure.
func (s *Session) hashPath(ctx context.Context, path string) types.HashResult {
	hctx := ctx
	if s.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, s.opts.FileTimeout)
		defer cancel()
	}

	sum, n, err := s.hash(hctx, path)
	s.bytesHashed.Add(n)

	if err != nil {
		s.hashFailures.Add(1)
		s.logger.Debug("hash failed", "session", s.ID(), "path", path, "error", err)
		return types.HashResult{
			Path: path,
			Err:  err,
			Kind: fingerprint.Classify(err),
		}
	}

	s.filesHashed.Add(1)
	return types.HashResult{Path: path, Sum: sum}
}

// reportProgress calls the progress callback if configured.
// Throttles calls to avoid excessive overhead.
func (s *Session) reportProgress(enum *enumerate.Enumerator) {
	if s.opts.OnProgress == nil {
		return
	}

	// Throttle progress updates to every 10ms.
	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return
	}

	s.sendProgress(enum)
}

// reportProgressForce calls the progress callback immediately, bypassing
// the throttle. Used for the final state.
func (s *Session) reportProgressForce(enum *enumerate.Enumerator) {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress.Store(time.Now().UnixMilli())
	s.sendProgress(enum)
}

// sendProgress sends the current progress to the callback.
func (s *Session) sendProgress(enum *enumerate.Enumerator) {
	s.opts.OnProgress(Progress{
		FilesEnumerated: enum.Enumerated(),
		FilesHashed:     s.filesHashed.Load(),
		HashFailures:    s.hashFailures.Load(),
		BytesHashed:     s.bytesHashed.Load(),
	})
}
