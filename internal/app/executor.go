package app

import (
	"context"
	"errors"

	"dirkit/internal/domain"
	"dirkit/internal/logging"
)

// ProgressFunc is called after each planned item is handled.
type ProgressFunc func(current, total int, name string)

// Executor copies planned items into a flat target directory. A failed copy
// is recorded and reported; it never stops the run.
type Executor struct {
	FS         FileSystem
	Logger     logging.Logger
	OnCopied   func(domain.CopiedFile)
	OnFailed   func(domain.CopyFailure)
	OnProgress ProgressFunc
}

// Execute copies every item of plan into targetDir. In dry-run mode names are
// resolved and reported but nothing is written; assumeEmpty makes the
// preview ignore files already present in targetDir.
func (e *Executor) Execute(ctx context.Context, plan domain.CopyPlan, targetDir string, dryRun, assumeEmpty bool) (domain.MirrorResult, error) {
	result := domain.MirrorResult{TargetDir: targetDir, DryRun: dryRun}
	if e.FS == nil {
		return result, errors.New("executor requires FS")
	}

	stop := e.Logger.Measure("Copying files")
	defer stop()

	resolver := &NameResolver{FS: e.FS, Dir: targetDir, IgnoreExisting: dryRun && assumeEmpty}
	total := len(plan.Items)

	for i, item := range plan.Items {
		select {
		case <-ctx.Done():
			result.Canceled = true
			return result, ctx.Err()
		default:
		}

		if err := e.copyItem(resolver, item, dryRun, &result); err != nil {
			failure := domain.CopyFailure{Name: item.Name, SourcePath: item.SourcePath, Err: err}
			result.Failures = append(result.Failures, failure)
			e.Logger.Verbosef("Copy of %s failed: %v", item.SourcePath, err)
			if e.OnFailed != nil {
				e.OnFailed(failure)
			}
		}

		if e.OnProgress != nil {
			e.OnProgress(i+1, total, item.Name)
		}
	}
	return result, nil
}

func (e *Executor) copyItem(resolver *NameResolver, item domain.CopyItem, dryRun bool, result *domain.MirrorResult) error {
	targetPath, err := resolver.Resolve(item.Name)
	if err != nil {
		return err
	}
	if dryRun {
		resolver.Reserve(targetPath)
	} else if err := e.FS.CopyFile(item.SourcePath, targetPath); err != nil {
		return err
	}

	copied := domain.CopiedFile{Name: item.Name, SourcePath: item.SourcePath, TargetPath: targetPath}
	result.Copied = append(result.Copied, copied)
	if e.OnCopied != nil {
		e.OnCopied(copied)
	}
	return nil
}
