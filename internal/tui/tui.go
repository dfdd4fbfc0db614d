package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/handiism/docgrab/internal/config"
	"github.com/handiism/docgrab/internal/download"
	"github.com/handiism/docgrab/internal/pipeline"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logger    *zap.Logger
	logs      []LogEntry
	result    *pipeline.Result
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	runner *pipeline.Runner
	events chan download.ProgressEvent

	// Download progress
	completed int32
	total     int32
	received  int64

	// Options
	convert bool
	merge   bool
	sitemap bool
	dryRun  bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. The seed input is prefilled from
// settings.
func NewModel(settings *config.Settings, logger *zap.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "cesium-api-full.html or https://example.com/docs/index.html"
	ti.SetValue(settings.Seed)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logger:    logger,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		convert:   true,
		merge:     true,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every pipeline progress event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// RunDoneMsg is sent when the pipeline finishes.
	RunDoneMsg struct {
		Result *pipeline.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
				m.logs = appendLog(m.logs, LogEntry{Message: "Cancelling, waiting for transfers in flight...", Level: download.LevelWarning})
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				cmd, err := m.start()
				if err != nil {
					m.state = StateError
					m.err = err
					return m, nil
				}
				m.state = StateRunning
				return m, tea.Batch(cmd, m.spinner.Tick, m.tickProgress())
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.convert = !m.convert
			}

		case "ctrl+g":
			if m.state == StateInput {
				m.merge = !m.merge
			}

		case "ctrl+s":
			if m.state == StateInput {
				m.sitemap = !m.sitemap
			}

		case "ctrl+r":
			if m.state == StateInput {
				m.dryRun = !m.dryRun
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.logs = appendLog(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		}
		if m.state == StateRunning {
			cmds = append(cmds, m.listen())
		}

	case RunDoneMsg:
		m.result = msg.Result
		m.syncProgress()
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errors.New("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.runner != nil && m.state == StateRunning {
			m.syncProgress()

			var percent float64
			if m.total > 0 {
				percent = float64(m.completed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func appendLog(logs []LogEntry, entry LogEntry) []LogEntry {
	logs = append(logs, entry)
	if len(logs) > maxLogs {
		logs = logs[len(logs)-maxLogs:]
	}
	return logs
}

func (m *Model) syncProgress() {
	if m.runner != nil {
		m.completed, m.total, m.received = m.runner.Progress()
	}
}

func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.result = nil
	m.err = nil
	m.runner = nil
	m.events = nil
	m.completed, m.total, m.received = 0, 0, 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.Focus()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// start builds the runner for the entered seed and returns the commands
// that run it and stream its events.
func (m *Model) start() (tea.Cmd, error) {
	settings := *m.settings
	settings.Seed = strings.TrimSpace(m.textInput.Value())

	events := make(chan download.ProgressEvent, 256)
	runner, err := pipeline.NewRunner(pipeline.Options{
		Settings: &settings,
		Logger:   m.logger,
		OnProgress: func(e download.ProgressEvent) {
			// Never block a worker on the UI.
			select {
			case events <- e:
			default:
			}
		},
		DryRun:      m.dryRun,
		SkipConvert: !m.convert,
		SkipMerge:   !m.merge,
		Sitemap:     m.sitemap,
	})
	if err != nil {
		return nil, err
	}

	m.runner = runner
	m.events = events

	ctx := m.ctx
	run := func() tea.Msg {
		result, err := runner.Run(ctx)
		close(events)
		return RunDoneMsg{Result: result, Err: err}
	}
	return tea.Batch(run, m.listen()), nil
}

// listen waits for the next progress event.
func (m Model) listen() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: e}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📚 docgrab"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Mirror a documentation site and convert it to Markdown"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Seed document (file or URL):"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Convert to Markdown (ctrl+t)\n", check(m.convert)))
	b.WriteString(fmt.Sprintf("  %s Merge Markdown files (ctrl+g)\n", check(m.merge)))
	b.WriteString(fmt.Sprintf("  %s Write sitemap (ctrl+s)\n", check(m.sitemap)))
	b.WriteString(fmt.Sprintf("  %s Dry run (ctrl+r)\n", check(m.dryRun)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+l)\n", check(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s | Workers: %d | Attempts: %d",
		m.settings.OutputDirectory, m.settings.Concurrency, m.settings.MaxRetryAttempts)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Working..."))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.completed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Pages: %d/%d | Downloaded: %s",
		m.completed,
		m.total,
		humanize.Bytes(uint64(m.received)),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	if m.result == nil || m.result.Report == nil {
		links := 0
		if m.result != nil {
			links = len(m.result.Links)
		}
		return boxStyle.Render(fmt.Sprintf("✨ Done!\n\nLinks found: %d", links)) + "\n\n" + m.renderLogs()
	}

	report := m.result.Report
	summary := fmt.Sprintf(
		"✨ Done!\n\n"+
			"Total: %d\n"+
			"Succeeded: %d (%d already present)\n"+
			"Failed: %d\n"+
			"Size: %s",
		report.Total,
		report.Succeeded,
		report.Skipped,
		len(report.Failed),
		humanize.Bytes(uint64(m.received)),
	)
	if m.result.MergedPath != "" {
		summary += fmt.Sprintf("\nMerged: %s", m.result.MergedPath)
	}

	var b strings.Builder
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")
	for _, o := range report.Failed {
		b.WriteString(errorStyle.Render("✗ " + o.Target.SourceURL))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+t/g/s/r/l: toggle options • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
