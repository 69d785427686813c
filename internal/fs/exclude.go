package fs

import (
	"path"
	"strings"
)

// excludePattern is a parsed exclude pattern with its matching strategy.
type excludePattern struct {
	pattern   string
	matchPath bool // true = match against leading path segments; false = match any single segment
}

// ExcludeMatcher decides which restored relative paths are left out.
// Patterns without '/' match any single path segment, so "node_modules"
// excludes everything below a node_modules directory and "*.log" excludes
// log files anywhere. Patterns with '/' match the path from the restore root
// or any leading directory of it: "build/out" excludes "build/out/a.txt".
type ExcludeMatcher struct {
	patterns []excludePattern
	fold     bool
}

// NewExcludeMatcher creates an ExcludeMatcher from raw pattern strings.
// Blank entries and entries starting with '#' are skipped. Leading and
// trailing slashes are ignored. When fold is true, patterns match regardless
// of letter case, like the path comparison of the scan.
func NewExcludeMatcher(rawPatterns []string, fold bool) *ExcludeMatcher {
	var patterns []excludePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		raw = strings.Trim(strings.ReplaceAll(raw, `\`, "/"), "/")
		if raw == "" {
			continue
		}
		if fold {
			raw = strings.ToLower(raw)
		}
		patterns = append(patterns, excludePattern{
			pattern:   raw,
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &ExcludeMatcher{patterns: patterns, fold: fold}
}

// Empty reports whether the matcher has no patterns.
func (m *ExcludeMatcher) Empty() bool {
	return len(m.patterns) == 0
}

// Match reports whether the given '/'-separated relative path is excluded.
func (m *ExcludeMatcher) Match(relativePath string) bool {
	if len(m.patterns) == 0 || relativePath == "" {
		return false
	}
	if m.fold {
		relativePath = strings.ToLower(relativePath)
	}

	segments := strings.Split(relativePath, "/")
	for _, p := range m.patterns {
		if p.matchPath {
			for i := range segments {
				if globMatch(p.pattern, strings.Join(segments[:i+1], "/")) {
					return true
				}
			}
			continue
		}
		for _, seg := range segments {
			if globMatch(p.pattern, seg) {
				return true
			}
		}
	}
	return false
}

// globMatch wraps path.Match; a malformed pattern never matches.
func globMatch(pattern, name string) bool {
	matched, err := path.Match(pattern, name)
	return err == nil && matched
}
