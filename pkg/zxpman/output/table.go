package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// TSVFormatter formats output as tab-separated values.
// It produces a simple table with a header row followed by data rows.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.History != nil {
		w.WriteString("TIME\tOPERATION\tBUNDLE\tDIR\n")
		for _, e := range r.History {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				e.Timestamp.Local().Format(timestampLayout), e.Operation, e.BundleID, e.Dir)
		}
		return nil
	}

	// Write header
	w.WriteString("NAME\tVERSION\tSIZE\tTYPE\tPATH\n")

	// Write data rows
	for _, p := range r.Plugins {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Version, p.Size, p.Kind, p.Path)
	}

	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter formats output as comma-separated values with proper quoting.
// It uses encoding/csv for RFC 4180 compliant output.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	writer := csv.NewWriter(w)

	if r.History != nil {
		if err := writer.Write([]string{"TIME", "OPERATION", "BUNDLE", "DIR"}); err != nil {
			return err
		}
		for _, e := range r.History {
			row := []string{
				e.Timestamp.Local().Format(timestampLayout),
				string(e.Operation),
				e.BundleID,
				e.Dir,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	}

	// Write header
	if err := writer.Write([]string{"NAME", "VERSION", "SIZE", "TYPE", "PATH"}); err != nil {
		return err
	}

	// Write data rows
	for _, p := range r.Plugins {
		row := []string{p.Name, p.Version, p.Size, string(p.Kind), p.Path}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter formats output as a GitHub-flavored Markdown table.
// It produces a table with header, separator, and data rows using | delimiters.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.History != nil {
		w.WriteString("| TIME | OPERATION | BUNDLE | DIR |\n")
		w.WriteString("|------|-----------|--------|-----|\n")
		for _, e := range r.History {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				e.Timestamp.Local().Format(timestampLayout),
				escapeMarkdownPipe(string(e.Operation)),
				escapeMarkdownPipe(e.BundleID),
				escapeMarkdownPipe(e.Dir))
		}
		return nil
	}

	// Write header
	w.WriteString("| NAME | VERSION | SIZE | TYPE | PATH |\n")

	// Write separator
	w.WriteString("|------|---------|------|------|------|\n")

	// Write data rows
	for _, p := range r.Plugins {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			escapeMarkdownPipe(p.Name),
			escapeMarkdownPipe(p.Version),
			escapeMarkdownPipe(p.Size),
			escapeMarkdownPipe(string(p.Kind)),
			escapeMarkdownPipe(p.Path))
	}

	return nil
}

// escapeMarkdownPipe escapes pipe characters in a string for Markdown tables.
func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
