package tui

import (
	"fmt"
	"strings"

	"github.com/cepkit/zxpman/pkg/zxpman/notify"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
)

// BrowseModel represents the plugin list phase of the TUI.
type BrowseModel struct {
	plugins       []types.Plugin
	lastInstalled string
	scanErr       error
	root          string
	version       string
	notification  notify.Notification
	watching      bool
	cursor        int
	offset        int // scroll offset
	width         int
	height        int
}

// NewBrowseModel creates a new browse model for the given extensions root.
func NewBrowseModel(root, version string) BrowseModel {
	return BrowseModel{
		root:    root,
		version: version,
		cursor:  0,
		offset:  0,
		width:   80,
		height:  24,
	}
}

// SetPlugins replaces the plugin list, keeping the cursor in range.
func (m *BrowseModel) SetPlugins(plugins []types.Plugin, lastInstalled string) {
	m.plugins = plugins
	m.lastInstalled = lastInstalled
	m.scanErr = nil
	if m.cursor >= len(plugins) {
		m.cursor = len(plugins) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

// SetError records a failed scan so the view can surface it.
func (m *BrowseModel) SetError(err error) {
	m.scanErr = err
}

// SetNotification updates the status bar slot.
func (m *BrowseModel) SetNotification(n notify.Notification) {
	m.notification = n
}

// SetWatching toggles the live watch indicator.
func (m *BrowseModel) SetWatching(on bool) {
	m.watching = on
}

// HandleKey handles key input for the browse model.
func (m *BrowseModel) HandleKey(key string) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}

	case "down", "j":
		if m.cursor < len(m.plugins)-1 {
			m.cursor++
			m.ensureVisible()
		}

	case "home", "g":
		m.cursor = 0
		m.offset = 0

	case "end", "G":
		if len(m.plugins) > 0 {
			m.cursor = len(m.plugins) - 1
			m.ensureVisible()
		}

	case "pgup":
		visibleRows := m.visibleRows()
		m.cursor -= visibleRows
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureVisible()

	case "pgdown":
		visibleRows := m.visibleRows()
		m.cursor += visibleRows
		if m.cursor >= len(m.plugins) {
			m.cursor = len(m.plugins) - 1
		}
		m.ensureVisible()
	}
}

// View renders the browse model.
func (m BrowseModel) View() string {
	if m.scanErr != nil {
		return m.renderError()
	}
	if len(m.plugins) == 0 {
		return m.renderEmpty()
	}

	var b strings.Builder

	// Calculate dimensions
	contentWidth := m.width - 4
	if contentWidth < 60 {
		contentWidth = 60
	}

	// Header
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	// Help bar
	b.WriteString(m.renderHelpBar())
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	// Plugin list
	b.WriteString(m.renderPluginList(contentWidth))

	// Status bar
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString("  " + renderStatusBar(m.notification, m.version, len(m.plugins), contentWidth-2))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderEmpty renders the empty state view.
func (m BrowseModel) renderEmpty() string {
	contentWidth := m.width - 4
	if contentWidth < 60 {
		contentWidth = 60
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")
	b.WriteString(center(mutedTextStyle.Render("No plugins installed."), contentWidth))
	b.WriteString("\n\n")
	b.WriteString(center(keyStyle.Render("[i]")+" "+keyDescStyle.Render("Install a plugin")+"  "+keyStyle.Render("[q]")+" "+keyDescStyle.Render("Quit"), contentWidth))
	b.WriteString("\n\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString("  " + renderStatusBar(m.notification, m.version, 0, contentWidth-2))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderError renders a failed scan.
func (m BrowseModel) renderError() string {
	contentWidth := m.width - 4
	if contentWidth < 60 {
		contentWidth = 60
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")
	b.WriteString(center(errorTextStyle.Render("Scan failed: "+m.scanErr.Error()), contentWidth))
	b.WriteString("\n\n")
	b.WriteString(center(keyStyle.Render("[R]")+" "+keyDescStyle.Render("Retry")+"  "+keyStyle.Render("[q]")+" "+keyDescStyle.Render("Quit"), contentWidth))
	b.WriteString("\n\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString("  " + renderStatusBar(m.notification, m.version, 0, contentWidth-2))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderHeader renders the application header with title and stats.
func (m BrowseModel) renderHeader() string {
	icon := "🧩"
	appName := titleStyle.Render("ZXPMAN")

	stats := mutedTextStyle.Render(fmt.Sprintf("  %d plugins  •  %s",
		len(m.plugins), truncatePath(m.root, 48)))

	header := fmt.Sprintf(" %s %s%s", icon, appName, stats)

	// Show live indicator if watching
	if m.watching {
		header = header + successTextStyle.Render("  ● LIVE")
	}

	return header
}

// renderHelpBar renders the help bar with key hints.
func (m BrowseModel) renderHelpBar() string {
	hints := []struct {
		key  string
		desc string
	}{
		{"i", "Install"},
		{"d", "Remove"},
		{"R", "Refresh"},
		{"↑↓", "Navigate"},
		{"q", "Quit"},
	}

	var parts []string
	for _, h := range hints {
		parts = append(parts, keyStyle.Render("["+h.key+"]")+" "+keyDescStyle.Render(h.desc))
	}

	return "  " + strings.Join(parts, "  ")
}

// renderPluginList renders the scrollable plugin list.
func (m BrowseModel) renderPluginList(width int) string {
	var b strings.Builder

	visibleRows := m.visibleRows()
	nameWidth := width - 38 // cursor + version + size + badge + padding
	if nameWidth < 20 {
		nameWidth = 20
	}

	// Render visible plugins
	for i := m.offset; i < m.offset+visibleRows && i < len(m.plugins); i++ {
		plugin := m.plugins[i]
		isCursor := i == m.cursor

		line := m.renderPluginLine(plugin, isCursor, nameWidth)
		b.WriteString(line)
		b.WriteString("\n")

		// Show the bundle path for the cursor item
		if isCursor {
			b.WriteString(detailStyle.Render(truncatePath(plugin.Path, width-8)))
			b.WriteString("\n")
		}
	}

	// Pad remaining rows
	lineCount := 0
	end := m.offset + visibleRows
	if end > len(m.plugins) {
		end = len(m.plugins)
	}
	for i := m.offset; i < end; i++ {
		lineCount++ // plugin line
		if i == m.cursor {
			lineCount++ // detail line
		}
	}
	for lineCount < visibleRows+1 {
		b.WriteString("\n")
		lineCount++
	}

	return b.String()
}

// renderPluginLine renders a single plugin line.
func (m BrowseModel) renderPluginLine(plugin types.Plugin, isCursor bool, nameWidth int) string {
	// Cursor indicator
	var cursor string
	if isCursor {
		cursor = cursorStyle.Render(">")
	} else {
		cursor = " "
	}

	name := plugin.Name
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	}
	name = padRight(name, nameWidth)

	version := plugin.Version
	if len(version) > 10 {
		version = version[:10]
	}
	version = mutedTextStyle.Render(padRight(version, 10))

	size := sizeStyle.Render(padLeft(plugin.Size, 9))

	badge := m.renderBadge(plugin)

	line := fmt.Sprintf("  %s %s  %s  %s  %s", cursor, name, version, size, badge)

	// Apply style based on cursor position
	if isCursor {
		return selectedItemStyle.Width(nameWidth + 36).Render(line)
	}
	return normalItemStyle.Render(line)
}

// renderBadge renders the origin badge for a plugin.
func (m BrowseModel) renderBadge(plugin types.Plugin) string {
	if m.lastInstalled != "" && plugin.Path == m.lastInstalled {
		return newBadgeStyle.Render(padRight("new", 9))
	}
	if plugin.Kind == types.Native {
		return nativeBadgeStyle.Render(padRight("native", 9))
	}
	return installedBadgeStyle.Render(padRight("installed", 9))
}

// visibleRows returns the number of visible rows for the plugin list.
func (m BrowseModel) visibleRows() int {
	// Account for header, help, dividers, status bar, detail line
	available := m.height - 13
	if available < 5 {
		available = 5
	}
	return available
}

// ensureVisible adjusts offset to keep cursor visible.
func (m *BrowseModel) ensureVisible() {
	visibleRows := m.visibleRows()

	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visibleRows {
		m.offset = m.cursor - visibleRows + 1
	}

	if m.offset < 0 {
		m.offset = 0
	}
}

// Current returns the plugin under the cursor.
func (m BrowseModel) Current() (types.Plugin, bool) {
	if m.cursor < 0 || m.cursor >= len(m.plugins) {
		return types.Plugin{}, false
	}
	return m.plugins[m.cursor], true
}

// Count returns the number of listed plugins.
func (m BrowseModel) Count() int {
	return len(m.plugins)
}

// Cursor returns the current cursor position.
func (m BrowseModel) Cursor() int {
	return m.cursor
}

// SetDimensions updates the width and height.
func (m *BrowseModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}
