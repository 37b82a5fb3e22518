package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/cepkit/zxpman/pkg/zxpman/engine"
	"github.com/cepkit/zxpman/pkg/zxpman/logging"
	"github.com/cepkit/zxpman/pkg/zxpman/notify"
	"github.com/cepkit/zxpman/pkg/zxpman/refresh"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
	"github.com/cepkit/zxpman/pkg/zxpman/watcher"
)

// AppState represents the current state of the application.
type AppState int

const (
	StateBrowse AppState = iota
	StatePicker
	StateConfirm
	StateWorking
)

// Options configures the TUI application.
type Options struct {
	Engine  *engine.Engine
	Config  *config.Config
	Version string
}

// Model is the main Bubble Tea model for the zxpman TUI.
type Model struct {
	state   AppState
	browse  BrowseModel
	picker  PickerModel
	options Options

	// Confirmation dialog state
	confirmFocused int // 0 = cancel, 1 = remove
	confirmTarget  types.Plugin

	// Working state
	workSpinner spinner.Model
	workText    string

	// Event subscriptions
	notifySub  *notify.Subscriber
	refreshSub *refresh.Subscriber

	// Window dimensions
	width  int
	height int
}

// NewModel creates a new TUI model with the given options.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		state:          StateBrowse,
		browse:         NewBrowseModel(opts.Config.ExtensionsRoot, opts.Version),
		picker:         NewPickerModel(),
		options:        opts,
		confirmFocused: 0,
		workSpinner:    s,
		notifySub:      opts.Engine.Notifier().Subscribe(),
		refreshSub:     opts.Engine.Token().Subscribe(),
		width:          80,
		height:         24,
	}
}

// pluginsMsg carries the result of a scan.
type pluginsMsg struct {
	plugins []types.Plugin
	err     error
}

// notificationMsg carries a status bar update.
type notificationMsg notify.Notification

// refreshMsg signals that the extension root changed.
type refreshMsg uint64

// subClosedMsg signals that an event subscription ended.
type subClosedMsg struct{}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scanPlugins(),
		m.listenForNotifications(),
		m.listenForRefresh(),
	)
}

// scanPlugins returns a command that scans the extensions root.
func (m Model) scanPlugins() tea.Cmd {
	eng := m.options.Engine
	return func() tea.Msg {
		plugins, err := eng.Scan(context.Background())
		return pluginsMsg{plugins: plugins, err: err}
	}
}

// listenForNotifications returns a command that waits for the next
// status bar update.
func (m Model) listenForNotifications() tea.Cmd {
	sub := m.notifySub
	return func() tea.Msg {
		if sub == nil {
			return subClosedMsg{}
		}
		n, ok := <-sub.Events
		if !ok {
			return subClosedMsg{}
		}
		return notificationMsg(n)
	}
}

// listenForRefresh returns a command that waits for the next refresh signal.
func (m Model) listenForRefresh() tea.Cmd {
	sub := m.refreshSub
	return func() tea.Msg {
		if sub == nil {
			return subClosedMsg{}
		}
		v, ok := <-sub.Events
		if !ok {
			return subClosedMsg{}
		}
		return refreshMsg(v)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.browse.SetDimensions(msg.Width, msg.Height)
		m.picker.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pluginsMsg:
		if msg.err != nil {
			m.browse.SetError(msg.err)
		} else {
			m.browse.SetPlugins(msg.plugins, m.options.Engine.LastInstalled())
		}
		return m, nil

	case notificationMsg:
		m.browse.SetNotification(notify.Notification(msg))
		// A finished operation reports through the status bar slot
		if m.state == StateWorking && !notify.Notification(msg).IsZero() {
			m.state = StateBrowse
		}
		return m, m.listenForNotifications()

	case refreshMsg:
		return m, tea.Batch(m.scanPlugins(), m.listenForRefresh())

	case subClosedMsg:
		return m, nil

	case spinner.TickMsg:
		if m.state == StateWorking {
			var cmd tea.Cmd
			m.workSpinner, cmd = m.workSpinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Remaining messages drive the file picker's directory reads
	if m.state == StatePicker {
		var cmd tea.Cmd
		m.picker, cmd, _ = m.picker.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	}

	// State-specific keys
	switch m.state {
	case StateBrowse:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "i":
			m.state = StatePicker
			m.picker.ClearPreview()
			return m, m.picker.Init()
		case "d", "delete", "backspace":
			if plugin, ok := m.browse.Current(); ok {
				m.state = StateConfirm
				m.confirmFocused = 0 // Default to cancel
				m.confirmTarget = plugin
			}
		case "R":
			m.options.Engine.ClearLastInstalled()
			return m, m.scanPlugins()
		default:
			m.browse.HandleKey(key)
		}

	case StatePicker:
		if m.picker.HasPreview() {
			switch key {
			case "q", "esc":
				m.picker.ClearPreview()
			case "enter":
				if m.picker.CanInstall() {
					return m.startInstall()
				}
			}
			return m, nil
		}
		switch key {
		case "q", "esc":
			m.state = StateBrowse
			return m, nil
		}
		var cmd tea.Cmd
		var selected string
		m.picker, cmd, selected = m.picker.Update(msg)
		if selected != "" {
			info, err := m.options.Engine.Inspect(selected)
			m.picker.SetPreview(selected, info, err)
		}
		return m, cmd

	case StateConfirm:
		switch key {
		case "q", "esc", "n":
			m.state = StateBrowse
		case "left", "h":
			m.confirmFocused = 0
		case "right", "l":
			m.confirmFocused = 1
		case "tab":
			m.confirmFocused = (m.confirmFocused + 1) % 2
		case "enter":
			if m.confirmFocused == 1 {
				return m.startRemove()
			}
			m.state = StateBrowse
		case "y":
			// Shortcut for yes
			return m.startRemove()
		}

	case StateWorking:
		// No key handling while an operation runs
	}

	return m, nil
}

// startInstall hands the chosen archive to the engine and waits for the
// result notification.
func (m Model) startInstall() (tea.Model, tea.Cmd) {
	archive := m.picker.Archive()
	m.picker.ClearPreview()
	m.state = StateWorking
	m.workText = fmt.Sprintf("Installing %s", filepath.Base(archive))
	m.options.Engine.InstallAsync(archive)
	return m, m.workSpinner.Tick
}

// startRemove hands the confirmed bundle to the engine and waits for the
// result notification.
func (m Model) startRemove() (tea.Model, tea.Cmd) {
	m.state = StateWorking
	m.workText = fmt.Sprintf("Removing %s", m.confirmTarget.Name)
	m.options.Engine.RemoveAsync(m.confirmTarget.Path)
	return m, m.workSpinner.Tick
}

// View renders the current state.
func (m Model) View() string {
	switch m.state {
	case StateBrowse:
		return m.browse.View()
	case StatePicker:
		return m.picker.View()
	case StateConfirm:
		return m.renderConfirmDialog()
	case StateWorking:
		return m.renderWorking()
	}
	return ""
}

// renderConfirmDialog renders the removal confirmation dialog.
func (m Model) renderConfirmDialog() string {
	// Background is the browse view
	bg := m.browse.View()

	var dialogContent strings.Builder
	dialogContent.WriteString(dialogTitleStyle.Render("Confirm Removal"))
	dialogContent.WriteString("\n\n")
	dialogContent.WriteString(dialogTextStyle.Render(
		fmt.Sprintf("Remove %s (%s)?", m.confirmTarget.Name, m.confirmTarget.Version)))
	dialogContent.WriteString("\n")
	dialogContent.WriteString(mutedTextStyle.Render(center(truncatePath(m.confirmTarget.Path, 44), 46)))
	dialogContent.WriteString("\n\n")

	// Buttons
	cancelBtn := inactiveButtonStyle.Render("Cancel")
	removeBtn := inactiveButtonStyle.Render("Remove")

	if m.confirmFocused == 0 {
		cancelBtn = activeButtonStyle.Render("Cancel")
	} else {
		removeBtn = activeButtonStyle.Render("Remove")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, "  ", removeBtn)
	dialogContent.WriteString(center(buttons, 46))

	// Render dialog box
	dialog := dialogBoxStyle.Render(dialogContent.String())

	// Center dialog over background
	return m.overlayDialog(bg, dialog)
}

// renderWorking renders the in-flight operation view.
func (m Model) renderWorking() string {
	contentWidth := m.width - 4

	var b strings.Builder
	b.WriteString(titleStyle.Render("  " + m.workText + "..."))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s", m.workSpinner.View(),
		mutedTextStyle.Render("The result will appear in the status bar.")))
	b.WriteString("\n")

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// overlayDialog centers a dialog over a background view.
func (m Model) overlayDialog(bg, dialog string) string {
	dialogLines := strings.Split(dialog, "\n")
	bgLines := strings.Split(bg, "\n")

	// Calculate vertical position
	dialogHeight := len(dialogLines)
	startRow := (m.height - dialogHeight) / 2
	if startRow < 0 {
		startRow = 0
	}

	// Calculate horizontal position
	dialogWidth := lipgloss.Width(dialog)
	startCol := (m.width - dialogWidth) / 2
	if startCol < 0 {
		startCol = 0
	}

	// Build output
	var result []string
	for i := range max(len(bgLines), startRow+dialogHeight) {
		if i < startRow || i >= startRow+dialogHeight {
			if i < len(bgLines) {
				result = append(result, bgLines[i])
			} else {
				result = append(result, "")
			}
		} else {
			dialogLine := dialogLines[i-startRow]
			if i < len(bgLines) {
				bgLine := bgLines[i]
				// Simple overlay: pad left then append dialog
				if startCol > len(bgLine) {
					result = append(result, strings.Repeat(" ", startCol)+dialogLine)
				} else {
					line := bgLine[:min(startCol, len(bgLine))] + dialogLine
					result = append(result, line)
				}
			} else {
				result = append(result, strings.Repeat(" ", startCol)+dialogLine)
			}
		}
	}

	return strings.Join(result, "\n")
}

// Run starts the TUI application.
func Run(opts Options) error {
	model := NewModel(opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.Config.Watch.Enabled {
		debounce := time.Duration(opts.Config.Watch.DebounceMS) * time.Millisecond
		if debounce <= 0 {
			debounce = watcher.DefaultDebounce
		}

		w, err := watcher.New(opts.Config.ExtensionsRoot, debounce)
		if err != nil {
			logging.Get("tui").Warn("extension root watch unavailable", "error", err)
		} else {
			defer w.Close()
			model.browse.SetWatching(true)
			token := opts.Engine.Token()
			go w.Run(ctx, func() {
				token.Bump()
			})
		}
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
