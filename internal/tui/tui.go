// Package tui provides a Bubble Tea terminal user interface for scorebook.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/scorebook/internal/config"
	"github.com/handiism/scorebook/internal/model"
	"github.com/handiism/scorebook/internal/pipeline"
	"github.com/handiism/scorebook/internal/progress"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500")).
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

	songStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs bounds the log lines kept on screen.
const maxLogs = 10

// maxListed bounds the songs and warnings listed on screen.
const maxListed = 8

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateIndexing
	StatePublishing
	StateComplete
	StateError
)

// logBuffer collects progress events from the pipeline goroutines until the
// next tick drains them into the model.
type logBuffer struct {
	mu     sync.Mutex
	events []progress.Event
}

func (b *logBuffer) add(e progress.Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

func (b *logBuffer) drain() []progress.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress bprogress.Model
	settings *config.Settings
	logs     []progress.Event
	buffer   *logBuffer
	songs    []string
	warnings []model.Warning
	summary  *pipeline.Summary
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	manager *pipeline.Manager

	written int32
	total   int32

	// Options
	untagged   bool
	mergeParts bool
	previews   bool
	keepGoing  bool
	verbose    bool

	width  int
	height int
}

// NewModel creates a new TUI model seeded from settings.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	input := textinput.New()
	input.Placeholder = "/path/to/archive"
	input.SetValue(settings.InputPath)
	input.Focus()
	input.CharLimit = 500
	input.Width = 60

	output := textinput.New()
	output.Placeholder = "/path/to/output"
	output.SetValue(settings.OutputPath)
	output.CharLimit = 500
	output.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8B500"))

	prog := bprogress.New(bprogress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateInput,
		inputs:     []textinput.Model{input, output},
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		buffer:     &logBuffer{},
		ctx:        ctx,
		cancel:     cancel,
		untagged:   settings.Untagged,
		mergeParts: settings.MergeParts,
		previews:   settings.CreatePreviews,
		keepGoing:  settings.ContinueOnError,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// IndexDoneMsg is sent when the archive walk completes.
	IndexDoneMsg struct {
		Songs   []string
		Manager *pipeline.Manager
		Err     error
	}

	// PublishDoneMsg is sent when publishing and cataloging complete.
	PublishDoneMsg struct {
		Summary  *pipeline.Summary
		Warnings []model.Warning
		Err      error
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
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
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
			if m.state == StateIndexing || m.state == StatePublishing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "shift+tab":
			if m.state == StateInput {
				m.inputs[m.focus].Blur()
				m.focus = (m.focus + 1) % len(m.inputs)
				cmds = append(cmds, m.inputs[m.focus].Focus())
				return m, tea.Batch(cmds...)
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.inputs[0].Value()) != "" {
				m.state = StateIndexing
				return m, tea.Batch(m.startIndex(), m.spinner.Tick, m.tickProgress())
			}

		case "alt+u":
			if m.state == StateInput {
				m.untagged = !m.untagged
				return m, nil
			}

		case "alt+m":
			if m.state == StateInput {
				m.mergeParts = !m.mergeParts
				return m, nil
			}

		case "alt+p":
			if m.state == StateInput {
				m.previews = !m.previews
				return m, nil
			}

		case "alt+c":
			if m.state == StateInput {
				m.keepGoing = !m.keepGoing
				return m, nil
			}

		case "alt+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m = m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case IndexDoneMsg:
		m.drainLogs()
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.songs = msg.Songs
			m.manager = msg.Manager
			m.state = StatePublishing
			cmds = append(cmds, m.startPublish())
		}

	case PublishDoneMsg:
		m.drainLogs()
		if m.manager != nil {
			m.written, m.total = m.manager.GetProgress()
		}
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.summary = msg.Summary
			m.warnings = msg.Warnings
			m.state = StateComplete
		}

	case TickMsg:
		m.drainLogs()
		if m.state == StateIndexing || m.state == StatePublishing {
			if m.manager != nil {
				m.written, m.total = m.manager.GetProgress()
			}
			var percent float64
			if m.total > 0 {
				percent = float64(m.written) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case bprogress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(bprogress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// drainLogs moves buffered events into the visible log, dropping verbose
// lines unless verbose mode is on.
func (m *Model) drainLogs() {
	for _, e := range m.buffer.drain() {
		if e.Level.Verbose() && !m.verbose {
			continue
		}
		m.logs = append(m.logs, e)
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.buffer = &logBuffer{}
	m.songs = nil
	m.warnings = nil
	m.summary = nil
	m.err = nil
	m.written = 0
	m.total = 0
	m.manager = nil
	m.focus = 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.inputs[1].Blur()
	m.inputs[0].Focus()
	return m
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♪ Scorebook"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Index and publish a sheet-music archive"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateIndexing:
		b.WriteString(m.viewIndexing())
	case StatePublishing:
		b.WriteString(m.viewPublishing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Archive directory:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Output directory:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[1].View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Songs without tag folders (alt+u)\n", check(m.untagged)))
	b.WriteString(fmt.Sprintf("  %s Merge parts by name (alt+m)\n", check(m.mergeParts)))
	b.WriteString(fmt.Sprintf("  %s Create previews (alt+p)\n", check(m.previews)))
	b.WriteString(fmt.Sprintf("  %s Continue on unreadable folders (alt+c)\n", check(m.keepGoing)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (alt+v)\n", check(m.verbose)))
	b.WriteString("\n")
	if m.settings.Sink == config.SinkS3 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Publishing to bucket: %s", m.settings.S3.Bucket)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewIndexing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Indexing archive..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewPublishing() string {
	var b strings.Builder

	if len(m.songs) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d song(s):", len(m.songs))))
		b.WriteString("\n")
		for i, song := range m.songs {
			if i == maxListed {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.songs)-maxListed)))
				b.WriteString("\n")
				break
			}
			b.WriteString(songStyle.Render(fmt.Sprintf("  ♪ %s", song)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var percent float64
	if m.total > 0 {
		percent = float64(m.written) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.written, m.total)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	if m.summary != nil {
		s := m.summary
		b.WriteString(boxStyle.Render(fmt.Sprintf(
			"✓ Archive published to %s\n\n"+
				"Songs: %d\n"+
				"Arrangements: %d\n"+
				"Parts: %d\n"+
				"Files: %d (%.2f MB)\n"+
				"Previews: %d\n"+
				"Warnings: %d\n"+
				"Time: %s",
			s.Location,
			s.Stats.Songs,
			s.Stats.Arrangements,
			s.Stats.Parts,
			s.Report.Files,
			float64(s.Report.Bytes)/1024/1024,
			s.Report.Previews,
			s.Stats.Warnings,
			s.Duration.Round(time.Millisecond),
		)))
		b.WriteString("\n")
	}

	if len(m.warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("Warnings:"))
		b.WriteString("\n")
		for i, w := range m.warnings {
			if i == maxListed {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  ... see warnings.json for %d more", len(m.warnings)-maxListed)))
				b.WriteString("\n")
				break
			}
			b.WriteString(warningStyle.Render("  ! " + w.String()))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
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
		case progress.LevelError:
			style = errorStyle
			prefix = "✗"
		case progress.LevelWarning:
			style = warningStyle
			prefix = "!"
		case progress.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case progress.LevelInfo:
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

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: switch field • alt+u/m/p/c/v: options • esc: quit"
	case StateIndexing, StatePublishing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// runSettings copies the base settings and applies the form.
func (m Model) runSettings() *config.Settings {
	settings := *m.settings
	settings.InputPath = strings.TrimSpace(m.inputs[0].Value())
	if out := strings.TrimSpace(m.inputs[1].Value()); out != "" {
		settings.OutputPath = out
	}
	settings.Untagged = m.untagged
	settings.MergeParts = m.mergeParts
	settings.CreatePreviews = m.previews
	settings.ContinueOnError = m.keepGoing
	return &settings
}

// startIndex creates the manager and walks the archive.
func (m Model) startIndex() tea.Cmd {
	settings := m.runSettings()
	ctx, buffer := m.ctx, m.buffer
	return func() tea.Msg {
		manager, err := pipeline.NewManager(settings, buffer.add)
		if err != nil {
			return IndexDoneMsg{Err: err}
		}
		if err := manager.Index(ctx); err != nil {
			return IndexDoneMsg{Err: err}
		}
		return IndexDoneMsg{
			Songs:   manager.GetSongNames(),
			Manager: manager,
		}
	}
}

// startPublish runs the remaining stages in background.
func (m Model) startPublish() tea.Cmd {
	ctx, manager := m.ctx, m.manager
	return func() tea.Msg {
		if manager == nil {
			return PublishDoneMsg{Err: fmt.Errorf("no manager")}
		}
		summary, err := manager.Finish(ctx)
		if err != nil {
			return PublishDoneMsg{Err: err}
		}
		return PublishDoneMsg{
			Summary:  summary,
			Warnings: manager.Results().Warnings,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
