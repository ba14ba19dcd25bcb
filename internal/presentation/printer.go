package presentation

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"dirkit/internal/domain"
)

var (
	okColor    = lipgloss.Color("#85DCB0")
	errorColor = lipgloss.Color("#E85D75")
	dimColor   = lipgloss.Color("#9CA3AF")
)

// Printer writes the console lines of a mirror or dump run. Colors are only
// emitted when Writer is a terminal.
type Printer struct {
	Writer  io.Writer
	Verbose bool
}

func (p Printer) PrintMirrorStart() {
	fmt.Fprintln(p.Writer, "Starting copy process...")
}

func (p Printer) PrintPlan(plan domain.CopyPlan) {
	if !p.Verbose {
		return
	}
	dim := p.style(dimColor)
	for _, dir := range plan.SkippedDirs {
		fmt.Fprintln(p.Writer, dim.Render("Skipped folder: "+dir))
	}
	for _, file := range plan.SkippedFiles {
		fmt.Fprintln(p.Writer, dim.Render("Skipped file: "+file))
	}
	for _, warning := range plan.Warnings {
		fmt.Fprintln(p.Writer, dim.Render("Warning: "+warning))
	}
}

func (p Printer) PrintCopied(file domain.CopiedFile, dryRun bool) {
	verb := "Copied"
	if dryRun {
		verb = "Would copy"
	}
	fmt.Fprintln(p.Writer, p.style(okColor).Render(formatCopied(verb, file)))
}

func (p Printer) PrintFailure(failure domain.CopyFailure) {
	fmt.Fprintln(p.Writer, p.style(errorColor).Render(formatFailure(failure)))
}

func (p Printer) PrintMirrorSummary(result domain.MirrorResult) {
	fmt.Fprintln(p.Writer)
	if result.DryRun {
		fmt.Fprintf(p.Writer, "Would copy %d files to %s\n", result.Count(), result.TargetDir)
	} else {
		fmt.Fprintf(p.Writer, "Copied %d files to %s\n", result.Count(), result.TargetDir)
	}
	if len(result.Failures) > 0 {
		fmt.Fprintf(p.Writer, "%d files failed to copy\n", len(result.Failures))
	}
	if result.Canceled {
		fmt.Fprintln(p.Writer, "Copy interrupted.")
		return
	}
	fmt.Fprintln(p.Writer, "Copy completed!")
}

func (p Printer) PrintDumpStart(sourceDir string) {
	fmt.Fprintf(p.Writer, "🔍 Scanning directory: %s\n", sourceDir)
}

func (p Printer) PrintDumpDone(outputFile string, lines int) {
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, p.style(okColor).Render("✅ Project structure saved to: "+outputFile))
	if p.Verbose {
		fmt.Fprintf(p.Writer, "%d lines written\n", lines)
	}
}

func (p Printer) style(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewRenderer(p.Writer).NewStyle().Foreground(color)
}

func formatCopied(verb string, file domain.CopiedFile) string {
	return fmt.Sprintf("%s: %s -> %s", verb, file.Name, file.TargetPath)
}

func formatFailure(failure domain.CopyFailure) string {
	return fmt.Sprintf("Error copying %s: %v", failure.Name, failure.Err)
}
