// Package tui provides a Bubble Tea terminal user interface for
// fotoshare-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/fotoshare-downloader/internal/config"
	"github.com/handiism/fotoshare-downloader/internal/download"
	"github.com/handiism/fotoshare-downloader/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
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

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// inputField identifies which text input currently has focus.
type inputField int

const (
	fieldURL inputField = iota
	fieldEmail
	fieldPassword
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	focused  inputField
	urlInput textinput.Model
	emailIn  textinput.Model
	passIn   textinput.Model
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	events   chan download.ProgressEvent
	err      error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager

	// Download progress
	albumID        string
	totalImages    int32
	completedFiles int32
	receivedBytes  int64
	summary        model.Summary

	// Options
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://fotoshare.co/i/ABC123"
	urlInput.Focus()
	urlInput.CharLimit = 500
	urlInput.Width = 60

	emailIn := textinput.New()
	emailIn.Placeholder = "email (optional, for private albums)"
	emailIn.CharLimit = 200
	emailIn.Width = 60

	passIn := textinput.New()
	passIn.Placeholder = "password"
	passIn.CharLimit = 200
	passIn.Width = 60
	passIn.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		urlInput: urlInput,
		emailIn:  emailIn,
		passIn:   passIn,
		spinner:  sp,
		progress: prog,
		settings: config.DefaultSettings(),
		logs:     make([]LogEntry, 0),
		events:   make(chan download.ProgressEvent, 64),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.listenForEvents())
}

// Message types
type (
	// ProgressMsg carries one manager progress event into the UI loop.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when initialization completes.
	InitDoneMsg struct {
		AlbumID string
		Images  int32
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Summary model.Summary
		Err     error
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
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "shift+tab":
			if m.state == StateInput {
				m.cycleFocus(msg.String() == "shift+tab")
			}

		case "enter":
			if m.state == StateInput && m.urlInput.Value() != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeDownload(), m.spinner.Tick)
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for new download
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.albumID = ""
				m.totalImages = 0
				m.completedFiles = 0
				m.receivedBytes = 0
				m.summary = model.Summary{}
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.urlInput.SetValue("")
				m.focused = fieldURL
				m.urlInput.Focus()
				m.emailIn.Blur()
				m.passIn.Blur()
			}
		}

	case ProgressMsg:
		cmds = append(cmds, m.listenForEvents())
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only the last 10 entries so the log tail stays short
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.albumID = msg.AlbumID
			m.totalImages = msg.Images
			m.manager = msg.Manager
			m.state = StateDownloading
			// Start the actual download and tick for progress updates
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.summary = msg.Summary
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			completed, total, received := m.manager.GetProgress()
			m.completedFiles = completed
			m.totalImages = total
			m.receivedBytes = received

			var percent float64
			if total > 0 {
				percent = float64(completed) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update the focused text input
	if m.state == StateInput {
		var cmd tea.Cmd
		switch m.focused {
		case fieldURL:
			m.urlInput, cmd = m.urlInput.Update(msg)
		case fieldEmail:
			m.emailIn, cmd = m.emailIn.Update(msg)
		case fieldPassword:
			m.passIn, cmd = m.passIn.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// cycleFocus moves focus between the URL, email and password inputs.
func (m *Model) cycleFocus(backwards bool) {
	step := 1
	if backwards {
		step = 2 // modulo 3, one step back
	}
	m.focused = inputField((int(m.focused) + step) % 3)

	m.urlInput.Blur()
	m.emailIn.Blur()
	m.passIn.Blur()
	switch m.focused {
	case fieldURL:
		m.urlInput.Focus()
	case fieldEmail:
		m.emailIn.Focus()
	case fieldPassword:
		m.passIn.Focus()
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// listenForEvents waits for the next manager event and hands it to Update.
func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Event: <-m.events}
	}
}

// pushEvent forwards a manager event to the UI loop. The send never
// blocks a download worker; if the buffer is full the event is dropped.
func (m Model) pushEvent(event download.ProgressEvent) {
	select {
	case m.events <- event:
	default:
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📷 fotoshare Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download full-resolution images from fotoshare.co"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Album URL:"))
	b.WriteString("\n")
	b.WriteString(m.urlInput.View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Credentials (private albums only):"))
	b.WriteString("\n")
	b.WriteString(m.emailIn.View())
	b.WriteString("\n")
	b.WriteString(m.passIn.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output path: %s", m.settings.OutputPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning album for images..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Album %s: %d images", m.albumID, m.totalImages)))
	b.WriteString("\n\n")

	var percent float64
	if m.totalImages > 0 {
		percent = float64(m.completedFiles) / float64(m.totalImages)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Images: %d/%d | Downloaded: %.2f MB",
		m.completedFiles,
		m.totalImages,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"Downloaded: %d\n"+
			"Skipped (already present): %d\n"+
			"Failed: %d\n"+
			"Size: %.2f MB",
		m.summary.Downloaded,
		m.summary.Skipped,
		m.summary.Failed,
		float64(m.receivedBytes)/1024/1024,
	))
	b.WriteString(box)

	if len(m.summary.Failures) > 0 {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Failures:"))
		b.WriteString("\n")
		for _, failure := range m.summary.Failures {
			b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %s: %v", failure.Ref.URL, failure.Err)))
			b.WriteString("\n")
		}
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

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: next field • ctrl+v: verbose • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// initializeDownload scrapes the album and creates the manager.
func (m *Model) initializeDownload() tea.Cmd {
	return func() tea.Msg {
		url := m.urlInput.Value()

		settings := config.DefaultSettings()
		settings.Email = strings.TrimSpace(m.emailIn.Value())
		settings.Password = m.passIn.Value()

		manager := download.NewManager(settings, m.pushEvent)

		if err := manager.Initialize(m.ctx, url); err != nil {
			return InitDoneMsg{Err: err}
		}

		_, total, _ := manager.GetProgress()

		return InitDoneMsg{
			AlbumID: manager.Album().ID,
			Images:  total,
			Manager: manager,
			Err:     nil,
		}
	}
}

// startDownload starts the actual download in background.
func (m *Model) startDownload() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := m.manager.StartDownloads(m.ctx)

		return DownloadDoneMsg{
			Summary: m.manager.Summary(),
			Err:     err,
		}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
