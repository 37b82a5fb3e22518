package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepkit/zxpman/pkg/zxpman/history"
)

func TestPrettyFormatter_Format_BasicOutput(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, samplePlugins())
	require.NoError(t, err)

	output := buf.String()

	// Header should contain the extensions root
	assert.Contains(t, output, "/ext")

	// Should contain plugin names, versions and sizes
	assert.Contains(t, output, "Adobe Color Themes")
	assert.Contains(t, output, "Example Tools")
	assert.Contains(t, output, "1.0.0")
	assert.Contains(t, output, "2.1.0")
	assert.Contains(t, output, "1.2 MB")
	assert.Contains(t, output, "2.0 KB")

	// Should contain column headers
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "VERSION")
	assert.Contains(t, output, "SIZE")
	assert.Contains(t, output, "TYPE")
}

func TestPrettyFormatter_Format_EmptyResult(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	result := &Result{Source: "/ext"}
	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "No plugins installed")
	assert.Contains(t, output, "0")
}

func TestPrettyFormatter_Format_FooterCounts(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, samplePlugins())
	require.NoError(t, err)

	output := buf.String()

	assert.Contains(t, output, "Plugins installed:")
	assert.Contains(t, output, "Native:")
	assert.Contains(t, output, "Third-party:")
}

func TestPrettyFormatter_Format_TypeColumn(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, samplePlugins())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "native")
	assert.Contains(t, output, "third-party")
}

func TestPrettyFormatter_Format_History(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, sampleHistory())
	require.NoError(t, err)

	output := buf.String()

	// Journal header and columns
	assert.Contains(t, output, "/journal")
	assert.Contains(t, output, "TIME")
	assert.Contains(t, output, "OPERATION")
	assert.Contains(t, output, "BUNDLE")

	// Rows
	assert.Contains(t, output, "install")
	assert.Contains(t, output, "remove")
	assert.Contains(t, output, "com.example.tools")
	assert.Contains(t, output, "/ext/com.old.plugin")

	// Removes have no bundle id
	assert.Contains(t, output, "-")

	// Footer
	assert.Contains(t, output, "Entries:")
}

func TestPrettyFormatter_Format_EmptyHistory(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	result := &Result{History: []history.Entry{}, Source: "/journal"}
	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "No operations recorded")
}

func TestPrettyFormatter_Registration(t *testing.T) {
	// Verify the formatter is registered as "pretty"
	formatter, err := Get("pretty")
	require.NoError(t, err)
	assert.IsType(t, &PrettyFormatter{}, formatter)
}

func TestPadLeft(t *testing.T) {
	assert.Equal(t, "   abc", padLeft("abc", 6))
	assert.Equal(t, "abc", padLeft("abc", 3))
	assert.Equal(t, "abcdef", padLeft("abcdef", 3))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "abc   ", padRight("abc", 6))
	assert.Equal(t, "abc", padRight("abc", 3))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "com.example", orDash("com.example"))
}
