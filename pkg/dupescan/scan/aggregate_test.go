package scan

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// sumOf returns the fingerprint of the given content.
func sumOf(content string) types.Fingerprint {
	return types.Fingerprint(sha256.Sum256([]byte(content)))
}

func TestAggregatorGroups(t *testing.T) {
	agg := NewAggregator()

	// Results arrive in arbitrary completion order.
	agg.Add(types.HashResult{Path: "/z/file2", Sum: sumOf("dup")})
	agg.Add(types.HashResult{Path: "/only/one", Sum: sumOf("unique")})
	agg.Add(types.HashResult{Path: "/a/file1", Sum: sumOf("dup")})
	agg.Add(types.HashResult{Path: "/m/file3", Sum: sumOf("dup")})

	groups := agg.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.Index != 1 {
		t.Errorf("Index = %d, want 1", g.Index)
	}
	if g.Sum != sumOf("dup") {
		t.Errorf("Sum = %s, want %s", g.Sum.Hex(), sumOf("dup").Hex())
	}

	want := []string{"/a/file1", "/m/file3", "/z/file2"}
	if len(g.Paths) != len(want) {
		t.Fatalf("expected %d paths, got %d", len(want), len(g.Paths))
	}
	for i, p := range want {
		if g.Paths[i] != p {
			t.Errorf("Paths[%d] = %q, want %q", i, g.Paths[i], p)
		}
	}
}

// TestAggregatorDeterministicOrder verifies the same result set produces the
// same group ordering regardless of arrival order.
func TestAggregatorDeterministicOrder(t *testing.T) {
	results := []types.HashResult{
		{Path: "/a/1", Sum: sumOf("alpha")},
		{Path: "/a/2", Sum: sumOf("alpha")},
		{Path: "/b/1", Sum: sumOf("beta")},
		{Path: "/b/2", Sum: sumOf("beta")},
		{Path: "/c/1", Sum: sumOf("gamma")},
		{Path: "/c/2", Sum: sumOf("gamma")},
	}

	forward := NewAggregator()
	for _, r := range results {
		forward.Add(r)
	}

	backward := NewAggregator()
	for i := len(results) - 1; i >= 0; i-- {
		backward.Add(results[i])
	}

	fg := forward.Groups()
	bg := backward.Groups()
	if len(fg) != 3 || len(bg) != 3 {
		t.Fatalf("expected 3 groups each, got %d and %d", len(fg), len(bg))
	}

	for i := range fg {
		if fg[i].Sum != bg[i].Sum {
			t.Errorf("group %d: order differs between arrival orders", i)
		}
		if fg[i].Index != i+1 {
			t.Errorf("group %d: Index = %d, want %d", i, fg[i].Index, i+1)
		}
		if fg[i].Sum.Compare(fg[(i+1)%3].Sum) == 0 {
			t.Errorf("group %d: duplicate fingerprint in output", i)
		}
	}

	// Groups must be sorted by fingerprint bytes.
	for i := 1; i < len(fg); i++ {
		if fg[i-1].Sum.Compare(fg[i].Sum) >= 0 {
			t.Errorf("groups not sorted by fingerprint at %d", i)
		}
	}
}

func TestAggregatorUniquesExcluded(t *testing.T) {
	agg := NewAggregator()
	agg.Add(types.HashResult{Path: "/a", Sum: sumOf("one")})
	agg.Add(types.HashResult{Path: "/b", Sum: sumOf("two")})

	if groups := agg.Groups(); len(groups) != 0 {
		t.Errorf("expected no groups for unique files, got %d", len(groups))
	}
	if agg.Results() != 2 {
		t.Errorf("Results() = %d, want 2", agg.Results())
	}
}

func TestAggregatorFailuresAside(t *testing.T) {
	agg := NewAggregator()
	agg.Add(types.HashResult{Path: "/good/1", Sum: sumOf("dup")})
	agg.Add(types.HashResult{Path: "/good/2", Sum: sumOf("dup")})
	agg.Add(types.HashResult{
		Path: "/bad",
		Err:  errors.New("permission denied"),
		Kind: types.KindOpen,
	})

	groups := agg.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	for _, p := range groups[0].Paths {
		if p == "/bad" {
			t.Error("failed path must not join a group")
		}
	}

	failures := agg.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].Path != "/bad" {
		t.Errorf("failure path = %q, want %q", failures[0].Path, "/bad")
	}
	if failures[0].Error != "permission denied" {
		t.Errorf("failure error = %q", failures[0].Error)
	}

	if agg.Results() != 3 {
		t.Errorf("Results() = %d, want 3", agg.Results())
	}
}

func TestAggregatorEmpty(t *testing.T) {
	agg := NewAggregator()

	if groups := agg.Groups(); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
	if failures := agg.Failures(); len(failures) != 0 {
		t.Errorf("expected no failures, got %d", len(failures))
	}
	if agg.Results() != 0 {
		t.Errorf("Results() = %d, want 0", agg.Results())
	}
}
