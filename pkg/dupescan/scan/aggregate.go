package scan

import (
	"sort"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// Aggregator folds hash results into a fingerprint-to-paths mapping.
// It is insensitive to arrival order: the fold is commutative, so results
// may arrive in any completion order. Aggregator is not safe for concurrent
// use; the session drains all results through a single consuming loop.
type Aggregator struct {
	sums     map[types.Fingerprint][]string
	failures []types.HashResult
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		sums: make(map[types.Fingerprint][]string),
	}
}

// Add folds one hash result into the mapping. Failures are kept on a
// side list and excluded from grouping.
func (a *Aggregator) Add(res types.HashResult) {
	if res.Failed() {
		a.failures = append(a.failures, res)
		return
	}
	a.sums[res.Sum] = append(a.sums[res.Sum], res.Path)
}

// Groups returns all duplicate groups: fingerprints shared by at least two
// paths. Member paths are sorted lexically and groups are ordered by
// fingerprint bytes with 1-based indices, so the output is deterministic
// regardless of hash completion order.
func (a *Aggregator) Groups() []types.DuplicateGroup {
	groups := make([]types.DuplicateGroup, 0)
	for sum, paths := range a.sums {
		if len(paths) < 2 {
			continue
		}
		sorted := make([]string, len(paths))
		copy(sorted, paths)
		sort.Strings(sorted)

		groups = append(groups, types.DuplicateGroup{
			Sum:   sum,
			Paths: sorted,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Sum.Compare(groups[j].Sum) < 0
	})

	for i := range groups {
		groups[i].Index = i + 1
	}

	return groups
}

// Failures returns the read failures recorded during aggregation as
// path/error warnings.
func (a *Aggregator) Failures() []types.ScanError {
	out := make([]types.ScanError, len(a.failures))
	for i, res := range a.failures {
		out[i] = types.ScanError{
			Path:  res.Path,
			Error: res.Err.Error(),
		}
	}
	return out
}

// Results returns the total number of results folded so far.
func (a *Aggregator) Results() int {
	n := len(a.failures)
	for _, paths := range a.sums {
		n += len(paths)
	}
	return n
}
