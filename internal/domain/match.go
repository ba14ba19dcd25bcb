package domain

import (
	"fmt"
	"strings"
)

// MatchMode selects how exclusion lists are interpreted.
type MatchMode string

const (
	// MatchSubstring is the coarse legacy rule: a fragment anywhere in the
	// path excludes it, so "node_modules" also hits "my-node_modules-backup".
	MatchSubstring MatchMode = "substring"
	// MatchPattern interprets the list as gitignore patterns relative to the
	// source root.
	MatchPattern MatchMode = "pattern"
)

func ParseMatchMode(value string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchPattern:
		return MatchPattern, nil
	default:
		return "", fmt.Errorf("unknown match mode %q, use %q or %q", value, MatchSubstring, MatchPattern)
	}
}
