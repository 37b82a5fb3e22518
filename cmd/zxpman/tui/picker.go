package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/cepkit/zxpman/pkg/zxpman/installer"
)

// PickerModel represents the archive selection phase of the TUI. It wraps
// a file picker restricted to .zxp archives and shows a manifest preview
// once a file is chosen.
type PickerModel struct {
	filepicker filepicker.Model
	archive    string
	preview    *installer.Info
	previewErr error
	width      int
	height     int
}

// NewPickerModel creates a picker rooted at the user's home directory.
func NewPickerModel() PickerModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".zxp"}
	fp.AutoHeight = false
	fp.Height = 15
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	return PickerModel{
		filepicker: fp,
		width:      80,
		height:     24,
	}
}

// Init starts the file picker's directory read.
func (m PickerModel) Init() tea.Cmd {
	return m.filepicker.Init()
}

// Update forwards a message to the embedded file picker and reports the
// selected archive path, if any.
func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd, string) {
	fp, cmd := m.filepicker.Update(msg)
	m.filepicker = fp

	if ok, path := m.filepicker.DidSelectFile(msg); ok {
		return m, cmd, path
	}
	return m, cmd, ""
}

// SetPreview records the inspection result for the chosen archive.
func (m *PickerModel) SetPreview(archive string, info *installer.Info, err error) {
	m.archive = archive
	m.preview = info
	m.previewErr = err
}

// ClearPreview returns the picker to file browsing.
func (m *PickerModel) ClearPreview() {
	m.archive = ""
	m.preview = nil
	m.previewErr = nil
}

// HasPreview reports whether an archive has been chosen.
func (m PickerModel) HasPreview() bool {
	return m.archive != ""
}

// Archive returns the chosen archive path.
func (m PickerModel) Archive() string {
	return m.archive
}

// CanInstall reports whether the chosen archive passed inspection.
func (m PickerModel) CanInstall() bool {
	return m.archive != "" && m.previewErr == nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.HasPreview() {
		return m.renderPreview()
	}
	return m.renderBrowse()
}

// renderBrowse renders the file browsing view.
func (m PickerModel) renderBrowse() string {
	contentWidth := m.width - 4
	if contentWidth < 60 {
		contentWidth = 60
	}

	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Install Plugin"))
	b.WriteString("\n")
	b.WriteString("  " + mutedTextStyle.Render(truncatePath(m.filepicker.CurrentDirectory, contentWidth-4)))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.filepicker.View())
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderHints([]keyHint{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", "Back"},
	}))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderPreview renders the manifest preview for the chosen archive.
func (m PickerModel) renderPreview() string {
	contentWidth := m.width - 4
	if contentWidth < 60 {
		contentWidth = 60
	}

	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Install Plugin"))
	b.WriteString("\n")
	b.WriteString("  " + mutedTextStyle.Render(truncatePath(m.archive, contentWidth-4)))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	if m.previewErr != nil {
		b.WriteString("  " + errorTextStyle.Render("Cannot read archive: "+m.previewErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(renderDivider(contentWidth))
		b.WriteString("\n")
		b.WriteString(m.renderHints([]keyHint{
			{"Esc", "Back"},
		}))
		return outerBoxStyle.Width(m.width - 2).Render(b.String())
	}

	var box strings.Builder
	box.WriteString(fmt.Sprintf("Name:     %s\n", m.preview.Bundle.Name))
	box.WriteString(fmt.Sprintf("Version:  %s\n", mutedTextStyle.Render(m.preview.Bundle.Version)))
	box.WriteString(fmt.Sprintf("Bundle:   %s\n", mutedTextStyle.Render(m.preview.Bundle.BundleID)))
	box.WriteString(fmt.Sprintf("Files:    %s\n", humanize.Comma(int64(m.preview.Files))))
	box.WriteString(fmt.Sprintf("Payload:  %s", sizeStyle.Render(humanize.IBytes(uint64(m.preview.Bytes)))))

	b.WriteString("  " + previewBoxStyle.Render(box.String()))
	b.WriteString("\n\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderHints([]keyHint{
		{"Enter", "Install"},
		{"Esc", "Back"},
	}))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

type keyHint struct {
	key  string
	desc string
}

// renderHints renders a help bar with key hints.
func (m PickerModel) renderHints(hints []keyHint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts, keyStyle.Render("["+h.key+"]")+" "+keyDescStyle.Render(h.desc))
	}
	return "  " + strings.Join(parts, "  ")
}

// SetDimensions updates the width and height.
func (m *PickerModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height

	rows := height - 10
	if rows < 5 {
		rows = 5
	}
	m.filepicker.Height = rows
}
