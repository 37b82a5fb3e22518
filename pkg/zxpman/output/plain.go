package output

import (
	"bytes"
	"text/tabwriter"
)

// PlainFormatter formats output as a simple tab-separated table.
// It produces plain text output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	// Use tabwriter for aligned columns
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if r.History != nil {
		if _, err := tw.Write([]byte("TIME\tOPERATION\tBUNDLE\tDIR\n")); err != nil {
			return err
		}
		for _, e := range r.History {
			row := e.Timestamp.Local().Format(timestampLayout) + "\t" +
				string(e.Operation) + "\t" + orDash(e.BundleID) + "\t" + e.Dir + "\n"
			if _, err := tw.Write([]byte(row)); err != nil {
				return err
			}
		}
		return tw.Flush()
	}

	if _, err := tw.Write([]byte("NAME\tVERSION\tSIZE\tTYPE\tPATH\n")); err != nil {
		return err
	}
	for _, p := range r.Plugins {
		row := p.Name + "\t" + p.Version + "\t" + p.Size + "\t" + string(p.Kind) + "\t" + p.Path + "\n"
		if _, err := tw.Write([]byte(row)); err != nil {
			return err
		}
	}

	// Flush tabwriter to buffer
	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
