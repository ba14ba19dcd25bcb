package app

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"dirkit/internal/domain"
)

// Matcher decides whether a traversal entry is excluded.
type Matcher interface {
	Excluded(entry domain.Entry) bool
}

// SubstringMatcher excludes a directory when any fragment occurs anywhere in
// its full path. Matching is case-sensitive and not segment-aware: the
// fragment "node_modules" also excludes "my-node_modules-backup". Files are
// only ever excluded through their directory, so "frontend-old.txt" in a kept
// folder is copied. A fragment at the end of the path is a substring too, so
// no separate suffix rule is needed for destructive runs.
type SubstringMatcher struct {
	Fragments []string
}

func (m SubstringMatcher) Excluded(entry domain.Entry) bool {
	if !entry.IsDir {
		return false
	}
	path := normalizeSlashes(entry.Path)
	for _, fragment := range m.Fragments {
		fragment = normalizeSlashes(fragment)
		if fragment == "" {
			continue
		}
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}

// SuffixMatcher excludes a directory whose full path ends with any suffix.
type SuffixMatcher struct {
	Suffixes []string
}

func (m SuffixMatcher) Excluded(entry domain.Entry) bool {
	if !entry.IsDir {
		return false
	}
	return hasAnySuffix(normalizeSlashes(entry.Path), m.Suffixes, normalizeSlashes)
}

// PatternMatcher excludes entries matching gitignore-style patterns, tested
// against the path relative to the walk root.
type PatternMatcher struct {
	ig *ignore.GitIgnore
}

func NewPatternMatcher(patterns []string) PatternMatcher {
	return PatternMatcher{ig: ignore.CompileIgnoreLines(patterns...)}
}

func (m PatternMatcher) Excluded(entry domain.Entry) bool {
	if m.ig == nil || entry.IsRoot() {
		return false
	}
	p := filepath.ToSlash(entry.RelPath)
	if entry.IsDir {
		p += "/"
	}
	return m.ig.MatchesPath(p)
}

// NewMatcher builds the matcher for mode. suffixOnly selects SuffixMatcher
// over SubstringMatcher in substring mode.
func NewMatcher(mode domain.MatchMode, list []string, suffixOnly bool) Matcher {
	switch {
	case mode == domain.MatchPattern:
		return NewPatternMatcher(list)
	case suffixOnly:
		return SuffixMatcher{Suffixes: list}
	default:
		return SubstringMatcher{Fragments: list}
	}
}

// HasExcludedExtension reports whether name ends with any of exts.
func HasExcludedExtension(name string, exts []string) bool {
	return hasAnySuffix(name, exts, nil)
}

func hasAnySuffix(value string, suffixes []string, normalize func(string) string) bool {
	for _, suffix := range suffixes {
		if normalize != nil {
			suffix = normalize(suffix)
		}
		if suffix != "" && strings.HasSuffix(value, suffix) {
			return true
		}
	}
	return false
}

// Fragments may be written with either separator.
func normalizeSlashes(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
}
