package domain

import "strings"

const (
	indentUnit   = "│   "
	branchMarker = "├── "
	leafMarker   = "└── "
)

// TreeLine is one line of a structure report.
type TreeLine struct {
	Name  string
	Depth int
	IsDir bool
	Root  bool
}

// String renders the line. Directories sit at their depth behind a branch
// marker; files sit one level deeper behind a leaf marker.
func (l TreeLine) String() string {
	if l.Root {
		return l.Name
	}
	if l.IsDir {
		return strings.Repeat(indentUnit, l.Depth) + branchMarker + l.Name
	}
	return strings.Repeat(indentUnit, l.Depth+1) + leafMarker + l.Name
}
