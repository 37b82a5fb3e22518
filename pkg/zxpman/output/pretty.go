package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cepkit/zxpman/pkg/zxpman/history"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
)

// timestampLayout is the display format for journal timestamps.
const timestampLayout = "2006-01-02 15:04:05"

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	header := f.formatHeader(r)
	w.WriteString(header)
	w.WriteString("\n")

	if r.History != nil {
		w.WriteString(f.formatHistoryTable(r))
	} else {
		w.WriteString(f.formatPluginTable(r))
	}

	footer := f.formatFooter(r)
	w.WriteString(footer)

	return nil
}

// formatHeader builds the header box naming the source directory.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	label := "Extensions:"
	if r.History != nil {
		label = "Journal:"
	}

	sourceLabel := LabelStyle.Render(label)
	sourceValue := ValueStyle.Render(r.Source)
	content := fmt.Sprintf("%s %s", sourceLabel, sourceValue)
	return HeaderBox.Render(content)
}

// formatPluginTable builds the plugin table with NAME, VERSION, SIZE and
// TYPE columns.
func (f *PrettyFormatter) formatPluginTable(r *Result) string {
	if len(r.Plugins) == 0 {
		return MutedStyle.Render("  No plugins installed\n")
	}

	// Calculate column widths for alignment
	nameWidth := len("NAME")
	versionWidth := len("VERSION")
	sizeWidth := 8 // Minimum width
	for _, p := range r.Plugins {
		if len(p.Name) > nameWidth {
			nameWidth = len(p.Name)
		}
		if len(p.Version) > versionWidth {
			versionWidth = len(p.Version)
		}
		if len(p.Size) > sizeWidth {
			sizeWidth = len(p.Size)
		}
	}

	var sb strings.Builder

	nameHeader := TableHeaderStyle.Render("NAME")
	versionHeader := TableHeaderStyle.Render("VERSION")
	sizeHeader := TableHeaderStyle.Render("SIZE")
	typeHeader := TableHeaderStyle.Render("TYPE")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n", nameHeader, versionHeader, sizeHeader, typeHeader))

	for _, p := range r.Plugins {
		name := ValueStyle.Render(padRight(p.Name, nameWidth))
		version := MutedStyle.Render(padRight(p.Version, versionWidth))
		size := SizeStyle.Render(padLeft(p.Size, sizeWidth))
		sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n", name, version, size, f.formatType(p.Kind)))
	}

	return sb.String()
}

// formatType returns the styled type column cell for a plugin.
func (f *PrettyFormatter) formatType(kind types.PluginType) string {
	if kind == types.Native {
		return NativeStyle.Render(string(kind))
	}
	return ThirdPartyStyle.Render(string(kind))
}

// formatHistoryTable builds the journal table with TIME, OPERATION,
// BUNDLE and DIR columns.
func (f *PrettyFormatter) formatHistoryTable(r *Result) string {
	if len(r.History) == 0 {
		return MutedStyle.Render("  No operations recorded\n")
	}

	opWidth := len("OPERATION")
	bundleWidth := len("BUNDLE")
	for _, e := range r.History {
		if len(e.Operation) > opWidth {
			opWidth = len(e.Operation)
		}
		if n := len(orDash(e.BundleID)); n > bundleWidth {
			bundleWidth = n
		}
	}

	var sb strings.Builder

	timeHeader := TableHeaderStyle.Render("TIME")
	opHeader := TableHeaderStyle.Render("OPERATION")
	bundleHeader := TableHeaderStyle.Render("BUNDLE")
	dirHeader := TableHeaderStyle.Render("DIR")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n", timeHeader, opHeader, bundleHeader, dirHeader))

	for _, e := range r.History {
		ts := MutedStyle.Render(e.Timestamp.Local().Format(timestampLayout))
		op := f.formatOperation(e.Operation)
		op = padRightStyled(op, string(e.Operation), opWidth)
		bundle := ValueStyle.Render(padRight(orDash(e.BundleID), bundleWidth))
		dir := PathStyle.Render(e.Dir)
		sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n", ts, op, bundle, dir))
	}

	return sb.String()
}

// formatOperation returns the styled operation cell for a journal entry.
func (f *PrettyFormatter) formatOperation(op history.OperationType) string {
	if op == history.OpRemove {
		return WarningStyle.Render(string(op))
	}
	return SuccessStyle.Render(string(op))
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	var parts []string

	if r.History != nil {
		entriesLabel := LabelStyle.Render("Entries:")
		entriesValue := ValueStyle.Render(fmt.Sprintf("%d", len(r.History)))
		parts = append(parts, fmt.Sprintf("%s %s", entriesLabel, entriesValue))
	} else {
		countLabel := LabelStyle.Render("Plugins installed:")
		countValue := ValueStyle.Render(fmt.Sprintf("%d", len(r.Plugins)))
		parts = append(parts, fmt.Sprintf("%s %s", countLabel, countValue))

		native := r.NativeCount()
		nativeLabel := LabelStyle.Render("Native:")
		nativeValue := NativeStyle.Render(fmt.Sprintf("%d", native))
		parts = append(parts, fmt.Sprintf("%s %s", nativeLabel, nativeValue))

		thirdLabel := LabelStyle.Render("Third-party:")
		thirdValue := ThirdPartyStyle.Render(fmt.Sprintf("%d", len(r.Plugins)-native))
		parts = append(parts, fmt.Sprintf("%s %s", thirdLabel, thirdValue))
	}

	hint := MutedStyle.Render("Use -o plain for unformatted output")
	parts = append(parts, hint)

	content := strings.Join(parts, "  ")
	return FooterBox.Render(content)
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// padRight pads a string with spaces on the right to achieve the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padRightStyled pads a styled cell based on the width of its plain text,
// since ANSI escape sequences inflate len.
func padRightStyled(styled, plain string, width int) string {
	if len(plain) >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-len(plain))
}

// orDash substitutes a dash for empty cell values.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
