package domain

import (
	"path/filepath"
	"strings"
)

// Entry is one record yielded by a tree traversal.
type Entry struct {
	Path    string // absolute path as seen by the walk
	RelPath string // path relative to the walk root, "." for the root itself
	Name    string
	IsDir   bool
	Depth   int // separators in RelPath; the root and its direct children are both 0
}

// IsRoot reports whether the entry is the traversal root.
func (e Entry) IsRoot() bool {
	return e.RelPath == "."
}

// DepthOf counts the separators in a slash- or OS-separated relative path.
// "." and single names are depth 0.
func DepthOf(rel string) int {
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/")
}
