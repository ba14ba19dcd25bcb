package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"dirkit/internal/config"
	"dirkit/internal/domain"
	appErrors "dirkit/internal/errors"
	"dirkit/internal/logging"
)

// Dumper writes an indented listing of a directory tree.
type Dumper struct {
	FS     FileSystem
	Logger logging.Logger
}

// Dump writes the structure report for cfg.SourceDir to w and returns the
// number of lines written. Ignored folders are pruned before descending;
// ignored extensions only hide the matching files.
func (d *Dumper) Dump(ctx context.Context, w io.Writer, cfg config.DumpConfig) (int, error) {
	if d.FS == nil {
		return 0, errors.New("dumper requires FS")
	}

	info, err := d.FS.Stat(cfg.SourceDir)
	if err != nil {
		return 0, appErrors.Wrap(appErrors.NotFound, "stat", cfg.SourceDir, err)
	}
	if !info.IsDir() {
		return 0, appErrors.Wrap(appErrors.InvalidConfig, "stat", cfg.SourceDir, fmt.Errorf("%s is not a directory", cfg.SourceDir))
	}

	stop := d.Logger.Measure("Dumping structure")
	defer stop()

	matcher := NewMatcher(cfg.Match, cfg.IgnoreFolders, true)
	walker := Walker{
		FS:     d.FS,
		Logger: d.Logger,
		Prune: func(dir domain.Entry) bool {
			return !dir.IsRoot() && matcher.Excluded(dir)
		},
	}

	out := bufio.NewWriter(w)
	lines := 0
	err = walker.Walk(ctx, cfg.SourceDir, func(entry domain.Entry) error {
		line, ok := treeLine(entry, cfg.IgnoreExtensions, matcher)
		if !ok {
			return nil
		}
		lines++
		_, err := fmt.Fprintln(out, line.String())
		return err
	})
	if err != nil {
		return lines, wrapRunError("dump", cfg.SourceDir, err)
	}
	if err := out.Flush(); err != nil {
		return lines, appErrors.Wrap(appErrors.IOFailure, "write", cfg.OutputFile, err)
	}
	return lines, nil
}

// DumpToFile truncates cfg.OutputFile before walking and writes the report
// into it as UTF-8 text.
func (d *Dumper) DumpToFile(ctx context.Context, cfg config.DumpConfig) (int, error) {
	if d.FS == nil {
		return 0, errors.New("dumper requires FS")
	}
	if _, err := d.FS.Stat(cfg.SourceDir); err != nil {
		return 0, appErrors.Wrap(appErrors.NotFound, "stat", cfg.SourceDir, err)
	}

	file, err := d.FS.Create(cfg.OutputFile)
	if err != nil {
		return 0, appErrors.Wrap(appErrors.IOFailure, "create", cfg.OutputFile, err)
	}

	lines, err := d.Dump(ctx, file, cfg)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = appErrors.Wrap(appErrors.IOFailure, "close", cfg.OutputFile, closeErr)
	}
	return lines, err
}

func treeLine(entry domain.Entry, ignoreExts []string, matcher Matcher) (domain.TreeLine, bool) {
	if entry.IsDir {
		return domain.TreeLine{
			Name:  entry.Name,
			Depth: entry.Depth,
			IsDir: true,
			Root:  entry.IsRoot(),
		}, true
	}
	if HasExcludedExtension(entry.Name, ignoreExts) || matcher.Excluded(entry) {
		return domain.TreeLine{}, false
	}
	return domain.TreeLine{
		Name:  entry.Name,
		Depth: domain.DepthOf(filepath.Dir(entry.RelPath)),
	}, true
}
