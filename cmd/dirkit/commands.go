package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"dirkit/internal/app"
	"dirkit/internal/config"
	"dirkit/internal/domain"
	appErrors "dirkit/internal/errors"
	"dirkit/internal/infra/fs"
	"dirkit/internal/logging"
	"dirkit/internal/presentation"
	"dirkit/internal/tui"
)

func newRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	root := &cobra.Command{
		Use:           "dirkit",
		Short:         "Flat directory backups and directory structure reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(v, configFile); err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "config", configFile, err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.StringP(config.KeySource, "s", "", "source directory (default: current directory)")
	flags.String(config.KeyMatch, string(domain.MatchSubstring), `exclusion matching: "substring" (coarse, legacy) or "pattern" (gitignore syntax)`)
	flags.BoolP(config.KeyVerbose, "v", false, "verbose output")
	flags.String(config.KeyLogLevel, "", "diagnostic log level (debug, info, warn, error)")
	bindFlags(v, flags.Lookup, config.KeySource, config.KeyMatch, config.KeyVerbose, config.KeyLogLevel)

	root.AddCommand(newMirrorCmd(v), newDumpCmd(v))
	return root
}

func newMirrorCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy every file of the source tree into one flat target folder",
		Long: `Copy every file of the source tree into one flat target folder.

Directory structure is discarded. A name already present in the target gets a
numeric suffix: a.txt, a_1.txt, a_2.txt, ...

In substring match mode a folder is skipped when any exclude entry occurs
anywhere in its path. This is case-sensitive and not segment-aware, so
"node_modules" also skips "my-node_modules-backup". Use --match=pattern for
gitignore-style matching.

--destructive deletes the target before copying and never copies
package-lock.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMirror(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.StringP(config.KeyTarget, "t", "", "target directory (default: <source>/copia)")
	flags.StringSlice(config.KeyExclude, config.DefaultExclude, "folder fragments or patterns to skip")
	flags.Bool(config.KeyDestructive, false, "delete the target before copying")
	flags.BoolP(config.KeyDryRun, "d", false, "print what would be copied without writing")
	flags.Bool(config.KeyTUI, false, "show an interactive progress view")
	bindFlags(v, flags.Lookup, config.KeyTarget, config.KeyExclude, config.KeyDestructive, config.KeyDryRun, config.KeyTUI)

	return cmd
}

func newDumpCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write an indented listing of the source tree to a text file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.StringP(config.KeyOutput, "o", "", "report file (default: <source>/project_structure.txt)")
	flags.StringSlice(config.KeyIgnoreFolders, config.DefaultIgnoreFolders, "folder path suffixes or patterns to prune")
	flags.StringSlice(config.KeyIgnoreExtensions, config.DefaultIgnoreExtensions, "file name suffixes to omit")
	bindFlags(v, flags.Lookup, config.KeyOutput, config.KeyIgnoreFolders, config.KeyIgnoreExtensions)

	return cmd
}

func runMirror(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.LoadMirror(v)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogLevel)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "log-level", "", err)
	}
	defer logger.Sync()

	printer := presentation.Printer{Writer: cmd.OutOrStdout(), Verbose: cfg.Verbose}
	if cfg.TUI {
		return runMirrorTUI(cmd.Context(), cfg, logger, printer)
	}

	printer.PrintMirrorStart()

	mirror := app.Mirror{
		FS:     fs.OSFS{},
		Logger: logger,
		OnPlan: printer.PrintPlan,
		OnCopied: func(file domain.CopiedFile) {
			printer.PrintCopied(file, cfg.DryRun)
		},
		OnFailed: printer.PrintFailure,
	}
	result, err := mirror.Run(cmd.Context(), cfg)
	if err != nil {
		if result.Canceled {
			printer.PrintMirrorSummary(result)
		}
		return err
	}

	printer.PrintMirrorSummary(result)
	return nil
}

// runMirrorTUI runs the mirror and the bubbletea program side by side. Quitting
// the program cancels the mirror between files. The console report is printed
// once the program has released the terminal.
func runMirrorTUI(ctx context.Context, cfg config.MirrorConfig, logger logging.Logger, printer presentation.Printer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(tui.NewModel(tui.Config{
		SourceDir:   cfg.SourceDir,
		TargetDir:   cfg.TargetDir,
		DryRun:      cfg.DryRun,
		Destructive: cfg.Destructive,
		Cancel:      cancel,
	}))

	var result domain.MirrorResult
	var g errgroup.Group
	g.Go(func() error {
		mirror := app.Mirror{
			FS:     fs.OSFS{},
			Logger: logger,
			OnPlan: func(plan domain.CopyPlan) {
				program.Send(tui.PlanReadyMsg{Plan: plan})
			},
			OnFailed: func(failure domain.CopyFailure) {
				program.Send(tui.CopyFailedMsg{Failure: failure})
			},
			OnProgress: func(current, total int, name string) {
				program.Send(tui.CopyProgressMsg{Current: current, Total: total, File: name})
			},
		}
		var err error
		result, err = mirror.Run(ctx, cfg)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
			return err
		}
		program.Send(tui.CopyDoneMsg{Result: result})
		return nil
	})
	g.Go(func() error {
		_, err := program.Run()
		cancel()
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "tui", "", err)
		}
		return nil
	})
	err := g.Wait()
	if err == nil || result.Canceled {
		printMirrorReport(printer, result)
	}
	return err
}

// printMirrorReport replays the per-file lines and the summary of a finished
// run.
func printMirrorReport(printer presentation.Printer, result domain.MirrorResult) {
	for _, file := range result.Copied {
		printer.PrintCopied(file, result.DryRun)
	}
	for _, failure := range result.Failures {
		printer.PrintFailure(failure)
	}
	printer.PrintMirrorSummary(result)
}

func runDump(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.LoadDump(v)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogLevel)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "log-level", "", err)
	}
	defer logger.Sync()

	printer := presentation.Printer{Writer: cmd.OutOrStdout(), Verbose: cfg.Verbose}
	printer.PrintDumpStart(cfg.SourceDir)

	dumper := app.Dumper{FS: fs.OSFS{}, Logger: logger}
	lines, err := dumper.DumpToFile(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	printer.PrintDumpDone(cfg.OutputFile, lines)
	return nil
}

// bindFlags panics when a key has no flag; that is a wiring mistake, not a
// runtime condition.
func bindFlags(v *viper.Viper, lookup func(string) *pflag.Flag, keys ...string) {
	for _, key := range keys {
		if err := v.BindPFlag(key, lookup(key)); err != nil {
			panic(fmt.Sprintf("bind flag %q: %v", key, err))
		}
	}
}
