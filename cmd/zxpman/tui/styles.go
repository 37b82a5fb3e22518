// Package tui provides the interactive terminal interface for the zxpman
// plugin manager. It uses Charmbracelet's Bubble Tea, Lip Gloss, and
// Bubbles for the terminal UI.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the TUI.
var (
	// Primary colors
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#00D9FF")

	// Status colors
	successColor = lipgloss.Color("#28A745")
	warningColor = lipgloss.Color("#FFC107")
	dangerColor  = lipgloss.Color("#DC3545")

	// Neutral colors
	mutedColor     = lipgloss.Color("#666666")
	subtleColor    = lipgloss.Color("#444444")
	borderColor    = lipgloss.Color("#333333")
	highlightColor = lipgloss.Color("#1A1A2E")
)

// Box styles for containers.
var (
	// outerBoxStyle is the main container style.
	outerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	// previewBoxStyle frames the archive preview in the picker.
	previewBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(borderColor).
			Padding(0, 2)

	// dividerStyle creates horizontal dividers.
	dividerStyle = lipgloss.NewStyle().
			Foreground(borderColor)
)

// Text styles.
var (
	// titleStyle for main titles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// mutedTextStyle for less important text.
	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// errorTextStyle for error messages.
	errorTextStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	// successTextStyle for success messages.
	successTextStyle = lipgloss.NewStyle().
				Foreground(successColor)

	// infoTextStyle for informational notifications.
	infoTextStyle = lipgloss.NewStyle().
			Foreground(accentColor)
)

// Plugin list styles.
var (
	// selectedItemStyle for the currently highlighted row.
	selectedItemStyle = lipgloss.NewStyle().
				Background(highlightColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	// normalItemStyle for non-highlighted rows.
	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	// sizeStyle for the bundle size column.
	sizeStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// detailStyle for the path line under the cursor row.
	detailStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(4)

	// cursorStyle for the cursor indicator.
	cursorStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// nativeBadgeStyle marks Adobe-shipped bundles.
	nativeBadgeStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// installedBadgeStyle marks third-party installs.
	installedBadgeStyle = lipgloss.NewStyle().
				Foreground(successColor)

	// newBadgeStyle marks the bundle installed by the last operation.
	newBadgeStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)
)

// Key hint styles.
var (
	// keyStyle for keyboard key hints.
	keyStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// keyDescStyle for key descriptions.
	keyDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Confirmation dialog styles.
var (
	// dialogBoxStyle for modal dialogs.
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(warningColor).
			Padding(1, 2).
			Width(50)

	// dialogTitleStyle for dialog titles.
	dialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(warningColor).
				Align(lipgloss.Center)

	// dialogTextStyle for dialog content.
	dialogTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Align(lipgloss.Center)

	// activeButtonStyle for the active/focused button.
	activeButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Margin(0, 1).
				Background(dangerColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	// inactiveButtonStyle for inactive buttons.
	inactiveButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Margin(0, 1).
				Background(subtleColor).
				Foreground(lipgloss.Color("#CCCCCC"))
)

// renderDivider creates a horizontal divider line.
func renderDivider(width int) string {
	return dividerStyle.Render(repeatChar('─', width))
}

// repeatChar repeats a character n times.
func repeatChar(char rune, n int) string {
	if n <= 0 {
		return ""
	}
	result := make([]rune, n)
	for i := range result {
		result[i] = char
	}
	return string(result)
}

// truncatePath truncates a path to fit within maxLen, preserving the end.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[:maxLen]
	}
	return "..." + path[len(path)-(maxLen-3):]
}

// padRight pads a string to the right to reach the target width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + repeatChar(' ', width-len(s))
}

// padLeft pads a string to the left to reach the target width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return repeatChar(' ', width-len(s)) + s
}

// center centers a string within the given width.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	leftPad := (width - len(s)) / 2
	rightPad := width - len(s) - leftPad
	return repeatChar(' ', leftPad) + s + repeatChar(' ', rightPad)
}
