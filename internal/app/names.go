package app

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NameResolver picks a free file name inside a flat destination directory.
// A taken name becomes {base}_1{ext}, {base}_2{ext}, ... until one is free.
type NameResolver struct {
	FS  FileSystem
	Dir string
	// IgnoreExisting treats the directory as empty; only reserved names
	// count as taken. Used when previewing a destructive run.
	IgnoreExisting bool

	reserved map[string]struct{}
}

// Resolve returns the destination path for name.
func (r *NameResolver) Resolve(name string) (string, error) {
	candidate := filepath.Join(r.Dir, name)
	taken, err := r.taken(candidate)
	if err != nil || !taken {
		return candidate, err
	}

	base, ext := splitExt(name)
	for n := 1; ; n++ {
		candidate = filepath.Join(r.Dir, fmt.Sprintf("%s_%d%s", base, n, ext))
		taken, err = r.taken(candidate)
		if err != nil || !taken {
			return candidate, err
		}
	}
}

// Reserve marks path as taken for later Resolve calls without touching the
// filesystem.
func (r *NameResolver) Reserve(path string) {
	if r.reserved == nil {
		r.reserved = make(map[string]struct{})
	}
	r.reserved[path] = struct{}{}
}

func (r *NameResolver) taken(path string) (bool, error) {
	if _, ok := r.reserved[path]; ok {
		return true, nil
	}
	if r.IgnoreExisting {
		return false, nil
	}
	return r.FS.Exists(path)
}

// splitExt splits at the last dot of the name, treating leading dots as part
// of the base: ".env" has no extension, "a.tar.gz" splits as "a.tar" ".gz".
func splitExt(name string) (string, string) {
	trimmed := strings.TrimLeft(name, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return name, ""
	}
	idx += len(name) - len(trimmed)
	return name[:idx], name[idx:]
}
