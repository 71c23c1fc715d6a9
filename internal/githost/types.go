package githost

// EntryKind is the host-reported type of a tree node.
type EntryKind string

const (
	EntryFile      EntryKind = "file"
	EntryDir       EntryKind = "dir"
	EntrySubmodule EntryKind = "submodule"
	EntrySymlink   EntryKind = "symlink"
	EntryUnknown   EntryKind = "unknown"
)

func parseEntryKind(s string) EntryKind {
	switch k := EntryKind(s); k {
	case EntryFile, EntryDir, EntrySubmodule, EntrySymlink:
		return k
	default:
		return EntryUnknown
	}
}

// TreeEntry is one node of a directory listing.
type TreeEntry struct {
	Path string
	Kind EntryKind
}

// OutcomeKind classifies a successful fetch.
type OutcomeKind int

const (
	// OutcomeContent carries decoded file content.
	OutcomeContent OutcomeKind = iota
	// OutcomeSkippedEmpty is a file with no bytes.
	OutcomeSkippedEmpty
	// OutcomeSkippedSubmodule is a submodule reference.
	OutcomeSkippedSubmodule
)

// String returns the metric label for k.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContent:
		return "content"
	case OutcomeSkippedEmpty:
		return "skipped_empty"
	case OutcomeSkippedSubmodule:
		return "skipped_submodule"
	default:
		return "unknown"
	}
}

// Skipped reports whether k is a recoverable skip.
func (k OutcomeKind) Skipped() bool {
	return k == OutcomeSkippedEmpty || k == OutcomeSkippedSubmodule
}

// Outcome is the non-error result of a fetch. Content is set only for
// OutcomeContent.
type Outcome struct {
	Path    string
	Kind    OutcomeKind
	Content string
}
