package app

import (
	"context"
	"errors"
	"fmt"

	"dirkit/internal/config"
	"dirkit/internal/domain"
	appErrors "dirkit/internal/errors"
	"dirkit/internal/logging"
)

// Mirror copies every non-excluded file of a source tree into one flat
// target directory.
type Mirror struct {
	FS         FileSystem
	Logger     logging.Logger
	OnPlan     func(domain.CopyPlan)
	OnCopied   func(domain.CopiedFile)
	OnFailed   func(domain.CopyFailure)
	OnProgress ProgressFunc
}

// Run prepares the target, plans and executes the copy. Per-file failures
// end up in the result; only structural problems are returned as errors.
func (m *Mirror) Run(ctx context.Context, cfg config.MirrorConfig) (domain.MirrorResult, error) {
	if m.FS == nil {
		return domain.MirrorResult{}, errors.New("mirror requires FS")
	}

	info, err := m.FS.Stat(cfg.SourceDir)
	if err != nil {
		return domain.MirrorResult{}, appErrors.Wrap(appErrors.NotFound, "stat", cfg.SourceDir, err)
	}
	if !info.IsDir() {
		return domain.MirrorResult{}, appErrors.Wrap(appErrors.InvalidConfig, "stat", cfg.SourceDir, fmt.Errorf("%s is not a directory", cfg.SourceDir))
	}

	if cfg.TargetDir == cfg.SourceDir || config.Contains(cfg.TargetDir, cfg.SourceDir) {
		return domain.MirrorResult{}, appErrors.Wrap(appErrors.InvalidConfig, "mirror", cfg.TargetDir, fmt.Errorf("target %s contains source %s", cfg.TargetDir, cfg.SourceDir))
	}

	if !cfg.DryRun {
		if err := m.prepareTarget(cfg); err != nil {
			return domain.MirrorResult{}, err
		}
	}

	planner := Planner{
		FS:           m.FS,
		Matcher:      NewMatcher(cfg.Match, cfg.Exclude, false),
		Logger:       m.Logger,
		SkipLockfile: cfg.Destructive,
	}
	plan, err := planner.Plan(ctx, cfg.SourceDir, cfg.TargetDir)
	if err != nil {
		return domain.MirrorResult{}, wrapRunError("plan", cfg.SourceDir, err)
	}
	if m.OnPlan != nil {
		m.OnPlan(plan)
	}

	executor := Executor{
		FS:         m.FS,
		Logger:     m.Logger,
		OnCopied:   m.OnCopied,
		OnFailed:   m.OnFailed,
		OnProgress: m.OnProgress,
	}
	result, err := executor.Execute(ctx, plan, cfg.TargetDir, cfg.DryRun, cfg.Destructive)
	if err != nil {
		return result, wrapRunError("copy", cfg.TargetDir, err)
	}
	return result, nil
}

// prepareTarget clears the target in destructive mode and makes sure it
// exists. Deletion and recreation are not atomic.
func (m *Mirror) prepareTarget(cfg config.MirrorConfig) error {
	if cfg.Destructive {
		exists, err := m.FS.Exists(cfg.TargetDir)
		if err != nil {
			return appErrors.Wrap(appErrors.IOFailure, "stat", cfg.TargetDir, err)
		}
		if exists {
			m.Logger.Infof("Removing existing target %s", cfg.TargetDir)
			if err := m.FS.RemoveAll(cfg.TargetDir); err != nil {
				return appErrors.Wrap(appErrors.IOFailure, "remove", cfg.TargetDir, err)
			}
		}
	}
	if err := m.FS.MkdirAll(cfg.TargetDir, 0o755); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "mkdir", cfg.TargetDir, err)
	}
	return nil
}

func wrapRunError(op, path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return appErrors.Wrap(appErrors.Canceled, op, path, err)
	}
	return appErrors.Wrap(appErrors.IOFailure, op, path, err)
}
