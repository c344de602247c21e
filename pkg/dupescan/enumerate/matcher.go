package enumerate

import (
	"path/filepath"
	"strings"
)

// Matcher decides whether a path is excluded from enumeration.
// Excluded directories are pruned, not merely filtered, so their subtrees
// cost no I/O.
type Matcher interface {
	// Match reports whether path should be excluded.
	Match(path string) bool
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(path string) bool

// Match implements Matcher.
func (f MatcherFunc) Match(path string) bool {
	return f(path)
}

// None returns a matcher that excludes nothing.
func None() Matcher {
	return MatcherFunc(func(string) bool { return false })
}

// Substring returns a matcher that excludes any path containing the given
// marker, such as "Cache" to skip browser cache folders.
func Substring(marker string) Matcher {
	return MatcherFunc(func(path string) bool {
		return marker != "" && strings.Contains(path, marker)
	})
}

// patternMatcher excludes paths by prefix or glob pattern.
type patternMatcher struct {
	patterns []string
}

// Patterns returns a matcher that excludes a path when any pattern matches
// it as a path prefix, as a glob against the base name, or as a glob against
// the full path.
func Patterns(patterns []string) Matcher {
	return &patternMatcher{patterns: patterns}
}

// Match implements Matcher.
func (m *patternMatcher) Match(path string) bool {
	for _, pattern := range m.patterns {
		if matchesPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern checks a path against a single exclusion pattern.
func matchesPattern(path, pattern string) bool {
	if pattern == "" {
		return false
	}

	// Prefix match for directory exclusions.
	if path == pattern {
		return true
	}
	if len(path) > len(pattern) && path[:len(pattern)+1] == pattern+string(filepath.Separator) {
		return true
	}

	// Glob against the base name.
	if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
		return true
	}

	// Glob against the full path.
	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	// Bare substring markers (no glob metacharacters, no separator) prune
	// any path containing them, matching the documented "Cache" example.
	if !strings.ContainsAny(pattern, `*?[`+string(filepath.Separator)) && strings.Contains(path, pattern) {
		return true
	}

	return false
}

// Any combines matchers; a path is excluded when any of them matches.
func Any(matchers ...Matcher) Matcher {
	return MatcherFunc(func(path string) bool {
		for _, m := range matchers {
			if m.Match(path) {
				return true
			}
		}
		return false
	})
}
