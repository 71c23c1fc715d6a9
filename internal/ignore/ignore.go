// Package ignore matches repository paths against gitignore-style patterns
// so the tree walker can prune directories it would otherwise list.
//
// Supported syntax is the common subset of gitignore:
//
//	# comment
//	node_modules/   directory anywhere in the tree
//	/dist           anchored to the repository root
//	*.min.js        glob on the final path element
//	docs/internal   anchored multi-segment path
//
// Negation ("!pattern") and "**" are not supported and are dropped.
package ignore

import (
	"bufio"
	"io"
	"path"
	"strings"
)

// Matcher reports whether a path is excluded.
type Matcher struct {
	rules []rule
}

type rule struct {
	segments []string // pattern split on "/"
	anchored bool     // matches from the root only
	dirOnly  bool     // trailing "/" in the source pattern
}

// New compiles patterns. Blank lines, comments and unsupported patterns
// are skipped.
func New(patterns []string) *Matcher {
	m := &Matcher{}
	seen := make(map[string]bool)
	for _, p := range patterns {
		r, ok := parseLine(p)
		if !ok {
			continue
		}
		key := strings.Join(r.segments, "/")
		if r.anchored {
			key = "/" + key
		}
		if r.dirOnly {
			key += "/"
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		m.rules = append(m.rules, r)
	}
	return m
}

// Parse reads a gitignore-style file and compiles its patterns.
func Parse(r io.Reader) (*Matcher, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(lines), nil
}

// Len returns the number of compiled rules.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Match reports whether p (slash separated, relative to the repository
// root) is excluded. isDir selects directory-only rules. A nil Matcher
// excludes nothing.
func (m *Matcher) Match(p string, isDir bool) bool {
	if m == nil || len(m.rules) == 0 {
		return false
	}
	parts := strings.Split(strings.Trim(p, "/"), "/")

	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.matches(parts) {
			return true
		}
	}
	return false
}

func (r rule) matches(parts []string) bool {
	if r.anchored {
		return len(parts) == len(r.segments) && matchSegments(r.segments, parts)
	}
	// Unanchored single-segment rules match the final element.
	return matchSegments(r.segments, parts[len(parts)-1:])
}

func matchSegments(patterns, parts []string) bool {
	for i, seg := range patterns {
		ok, err := path.Match(seg, parts[i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// parseLine compiles one gitignore line.
func parseLine(line string) (rule, bool) {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
		return rule{}, false
	}
	if strings.Contains(line, "**") {
		return rule{}, false
	}

	var r rule
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" {
		return rule{}, false
	}
	// A slash in the middle anchors the pattern, as in gitignore.
	if strings.Contains(line, "/") {
		r.anchored = true
	}

	r.segments = strings.Split(line, "/")
	for _, seg := range r.segments {
		if _, err := path.Match(seg, ""); err != nil {
			return rule{}, false
		}
	}
	return r, true
}
