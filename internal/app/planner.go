package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"dirkit/internal/domain"
	"dirkit/internal/logging"
)

// Planner collects the files a mirror run will copy. Directory structure is
// discarded: every item carries only its source path and base name.
type Planner struct {
	FS      FileSystem
	Matcher Matcher
	Logger  logging.Logger
	// SkipLockfile drops files named domain.LockfileName.
	SkipLockfile bool
}

func (p *Planner) Plan(ctx context.Context, sourceDir, targetDir string) (domain.CopyPlan, error) {
	if p.FS == nil {
		return domain.CopyPlan{}, errors.New("planner requires FS")
	}

	stop := p.Logger.Measure("Planning copy")
	defer stop()

	var plan domain.CopyPlan
	targetDir = filepath.Clean(targetDir)

	walker := Walker{
		FS:     p.FS,
		Logger: p.Logger,
		Prune: func(dir domain.Entry) bool {
			if isWithin(dir.Path, targetDir) || p.excluded(dir) {
				plan.SkippedDirs = append(plan.SkippedDirs, dir.Path)
				return true
			}
			return false
		},
		OnSkip: func(path string, err error) {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf("could not read %s: %v", path, err))
		},
	}

	err := walker.Walk(ctx, sourceDir, func(entry domain.Entry) error {
		if entry.IsDir {
			return nil
		}
		if p.SkipLockfile && entry.Name == domain.LockfileName {
			plan.SkippedFiles = append(plan.SkippedFiles, entry.Path)
			return nil
		}
		if p.excluded(entry) {
			plan.SkippedFiles = append(plan.SkippedFiles, entry.Path)
			return nil
		}
		plan.Items = append(plan.Items, domain.CopyItem{
			SourcePath: entry.Path,
			Name:       entry.Name,
		})
		return nil
	})
	if err != nil {
		return domain.CopyPlan{}, err
	}

	p.Logger.Verbosef("Planned %d files, skipped %d directories and %d files", len(plan.Items), len(plan.SkippedDirs), len(plan.SkippedFiles))
	return plan, nil
}

func (p *Planner) excluded(entry domain.Entry) bool {
	return p.Matcher != nil && p.Matcher.Excluded(entry)
}

// isWithin reports whether path is dir or lies beneath it.
func isWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}
