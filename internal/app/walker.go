package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"dirkit/internal/domain"
	"dirkit/internal/logging"
)

// PruneFunc reports whether a directory should be left out of the walk. It
// is consulted before the directory is enqueued, so a pruned directory and
// everything beneath it are never read or visited.
type PruneFunc func(dir domain.Entry) bool

// VisitFunc receives every directory (when it is dequeued) and every file.
// A non-nil error aborts the walk.
type VisitFunc func(entry domain.Entry) error

// Walker performs a depth-first, parent-before-children traversal using an
// explicit stack. For each directory it visits the directory, then its
// files, then descends into its subdirectories in name order.
type Walker struct {
	FS     FileSystem
	Prune  PruneFunc
	Logger logging.Logger
	// OnSkip is told about subdirectories that could not be read. The root
	// failing to read is returned as an error instead.
	OnSkip func(path string, err error)
}

func (w Walker) Walk(ctx context.Context, root string, visit VisitFunc) error {
	if w.FS == nil {
		return errors.New("walker requires FS")
	}

	root = filepath.Clean(root)
	rootEntry := domain.Entry{
		Path:    root,
		RelPath: ".",
		Name:    filepath.Base(root),
		IsDir:   true,
	}
	if w.pruned(rootEntry) {
		w.Logger.Verbosef("Pruned walk root %s", root)
		return nil
	}

	stack := []domain.Entry{rootEntry}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := w.FS.ReadDir(dir.Path)
		if err != nil {
			if dir.IsRoot() {
				return err
			}
			w.Logger.Warnf("Skipping unreadable directory %s: %v", dir.Path, err)
			if w.OnSkip != nil {
				w.OnSkip(dir.Path, err)
			}
			continue
		}
		sort.Slice(children, func(i, j int) bool {
			return children[i].Name() < children[j].Name()
		})

		if err := visit(dir); err != nil {
			return err
		}

		var subdirs []domain.Entry
		for _, child := range children {
			entry := w.childEntry(dir, child)
			if entry.IsDir {
				if w.pruned(entry) {
					w.Logger.Verbosef("Pruned %s", entry.Path)
					continue
				}
				subdirs = append(subdirs, entry)
				continue
			}
			if isLinkToDir(w.FS, child, entry.Path) {
				continue
			}
			if err := visit(entry); err != nil {
				return err
			}
		}

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return nil
}

func (w Walker) pruned(entry domain.Entry) bool {
	return w.Prune != nil && w.Prune(entry)
}

func (w Walker) childEntry(parent domain.Entry, child fs.DirEntry) domain.Entry {
	rel := filepath.Join(parent.RelPath, child.Name())
	return domain.Entry{
		Path:    filepath.Join(parent.Path, child.Name()),
		RelPath: rel,
		Name:    child.Name(),
		IsDir:   child.IsDir(),
		Depth:   domain.DepthOf(rel),
	}
}

// Symlinked directories are listed but never followed or copied.
func isLinkToDir(filesystem FileSystem, child fs.DirEntry, path string) bool {
	if child.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := filesystem.Stat(path)
	return err == nil && info.IsDir()
}
