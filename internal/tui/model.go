package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dirkit/internal/domain"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseCopying
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	PlanReadyMsg struct {
		Plan domain.CopyPlan
	}
	CopyProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	CopyFailedMsg struct {
		Failure domain.CopyFailure
	}
	CopyDoneMsg struct {
		Result domain.MirrorResult
	}
	ErrorMsg struct {
		Err error
	}
	tickMsg time.Time
)

// Config for the TUI
type Config struct {
	SourceDir   string
	TargetDir   string
	DryRun      bool
	Destructive bool
	// Cancel stops the running mirror when the user quits.
	Cancel func()
}

// Model is the mirror progress view.
type Model struct {
	config       Config
	Phase        Phase
	Plan         domain.CopyPlan
	Result       domain.MirrorResult
	Failures     []domain.CopyFailure
	spinner      spinner.Model
	progress     progress.Model
	copyProgress int
	copyTotal    int
	currentFile  string
	Err          error
	Quitting     bool
	width        int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseScanning,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			if m.config.Cancel != nil {
				m.config.Cancel()
			}
			return m, tea.Quit
		case "enter":
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case PlanReadyMsg:
		m.Plan = msg.Plan
		m.copyTotal = len(msg.Plan.Items)
		m.Phase = PhaseCopying
		return m, nil

	case CopyProgressMsg:
		m.copyProgress = msg.Current
		m.copyTotal = msg.Total
		m.currentFile = msg.File
		return m, nil

	case CopyFailedMsg:
		m.Failures = append(m.Failures, msg.Failure)
		return m, nil

	case CopyDoneMsg:
		m.Phase = PhaseDone
		m.Result = msg.Result
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseCopying {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseCopying {
			var cmds []tea.Cmd
			if m.copyTotal > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.copyProgress)/float64(m.copyTotal)))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(fmt.Sprintf("%s Scanning source tree...", m.spinner.View()))
	case PhaseCopying:
		b.WriteString(m.renderCopying())
	case PhaseDone:
		b.WriteString(m.renderCompletion())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("📦 dirkit mirror")
	mode := "additive copy"
	if m.config.Destructive {
		mode = "destructive copy (target cleared first)"
	}
	if m.config.DryRun {
		mode += ", dry run"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitleStyle.Render(mode),
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
		dimStyle.Render(fmt.Sprintf("%s Target: %s", iconFolder, shortenPath(m.config.TargetDir))),
	)
}

func (m Model) renderCopying() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Copying Files"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.copyTotal > 0 {
		percent = float64(m.copyProgress) / float64(m.copyTotal)
	}

	b.WriteString(fmt.Sprintf("  %s Copying...\n\n", m.spinner.View()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.copyProgress, m.copyTotal)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, fileNameStyle.Render(m.currentFile)))
	}
	if len(m.Failures) > 0 {
		b.WriteString(fmt.Sprintf("\n  %s\n", warningStyle.Render(fmt.Sprintf("%d failures so far", len(m.Failures)))))
	}

	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Copy Complete"))
	b.WriteString("\n\n")

	verb := "Copied"
	if m.Result.DryRun {
		verb = "Would copy"
	}
	if m.Result.Canceled {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", errorStyle.Render(iconError), errorStyle.Render("Copy interrupted")))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", successStyle.Render(iconSuccess), successStyle.Render("Copy completed!")))
	}

	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render(verb+":"), statValueStyle.Render(fmt.Sprintf("%d files", m.Result.Count()))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Skipped folders:"), dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, len(m.Plan.SkippedDirs)))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Skipped files:"), dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, len(m.Plan.SkippedFiles)))))

	failures := m.Result.Failures
	if len(failures) == 0 {
		failures = m.Failures
	}
	if len(failures) > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n\n", statLabelStyle.Render("Failed:"), errorStyle.Render(fmt.Sprintf("%s %d", iconError, len(failures)))))
		for _, line := range formatFailures(failures, 4) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning, PhaseCopying:
		help = "Press q to stop"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// formatFailures lists at most maxItems failures followed by a count of the rest.
func formatFailures(failures []domain.CopyFailure, maxItems int) []string {
	lines := make([]string, 0, min(len(failures), maxItems)+1)
	for i, failure := range failures {
		if i >= maxItems {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("... and %d more", len(failures)-maxItems)))
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s: %v", errorStyle.Render(iconError), fileNameStyle.Render(failure.Name), failure.Err))
	}
	return lines
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
