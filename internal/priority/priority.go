// Package priority decides which repository paths are worth summarizing.
//
// A path is a priority path when it ends with one of a fixed set of
// conventional file names (readmes, manifests, entry points) or starts with
// a documentation folder prefix. The same Set serves the tree walker while it
// traverses and the post-filter applied to an unfiltered listing.
package priority

import "strings"

// Set is a pair of membership lists. The zero value matches nothing.
type Set struct {
	// Suffixes are matched against the end of the path, case-sensitively.
	Suffixes []string
	// Prefixes are matched against the start of the path.
	Prefixes []string
}

// Default is the set used by the service.
var Default = Set{
	Suffixes: []string{
		"README.md",
		"project_description.txt",
		"overview.md",
		"SUMMARY.md",
		"main.py",
		"index.js",
		"setup.py",
		"package.json",
		"pubspec.yaml",
		"requirements.txt",
		".project",
	},
	Prefixes: []string{
		"docs/",
	},
}

// Match reports whether path is a priority path under s.
func (s Set) Match(path string) bool {
	for _, suffix := range s.Suffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	for _, prefix := range s.Prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Filter returns the priority paths in paths, preserving order.
// The result is never nil.
func (s Set) Filter(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if s.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether path is a priority path under Default.
func Match(path string) bool {
	return Default.Match(path)
}

// Filter applies Default to paths.
func Filter(paths []string) []string {
	return Default.Filter(paths)
}
