package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// jsonOutput represents the full JSON output structure for plugin lists.
type jsonOutput struct {
	Plugins []jsonPlugin `json:"plugins"`
	Meta    jsonMeta     `json:"meta"`
}

// jsonPlugin represents a plugin in JSON output.
type jsonPlugin struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Size    string `json:"size"`
	Type    string `json:"type"`
	Path    string `json:"path"`
}

// jsonMeta represents metadata in JSON output.
type jsonMeta struct {
	Source     string `json:"source"`
	Total      int    `json:"total"`
	Native     int    `json:"native"`
	ThirdParty int    `json:"third_party"`
}

// jsonHistoryOutput represents the full JSON output structure for the
// operation journal.
type jsonHistoryOutput struct {
	History []jsonEntry     `json:"history"`
	Meta    jsonHistoryMeta `json:"meta"`
}

// jsonEntry represents a journal entry in JSON output.
type jsonEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	BundleID  string    `json:"bundle_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Version   string    `json:"version,omitempty"`
	Archive   string    `json:"archive,omitempty"`
	Dir       string    `json:"dir"`
	Files     int       `json:"files,omitempty"`
	Bytes     int64     `json:"bytes,omitempty"`
}

// jsonHistoryMeta represents journal metadata in JSON output.
type jsonHistoryMeta struct {
	Source string `json:"source"`
	Total  int    `json:"total"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with plugins and meta sections,
// or history and meta sections in journal mode.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if r.History != nil {
		return encoder.Encode(f.buildHistoryOutput(r))
	}
	return encoder.Encode(f.buildOutput(r))
}

// buildOutput converts Result to the plugin-list JSON output structure.
func (f *JSONFormatter) buildOutput(r *Result) jsonOutput {
	plugins := make([]jsonPlugin, len(r.Plugins))
	for i, p := range r.Plugins {
		plugins[i] = jsonPlugin{
			Name:    p.Name,
			Version: p.Version,
			Size:    p.Size,
			Type:    string(p.Kind),
			Path:    p.Path,
		}
	}

	meta := jsonMeta{
		Source:     r.Source,
		Total:      len(r.Plugins),
		Native:     r.NativeCount(),
		ThirdParty: len(r.Plugins) - r.NativeCount(),
	}

	return jsonOutput{
		Plugins: plugins,
		Meta:    meta,
	}
}

// buildHistoryOutput converts Result to the journal JSON output structure.
func (f *JSONFormatter) buildHistoryOutput(r *Result) jsonHistoryOutput {
	entries := make([]jsonEntry, len(r.History))
	for i, e := range r.History {
		entries[i] = jsonEntry{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Operation: string(e.Operation),
			BundleID:  e.BundleID,
			Name:      e.Name,
			Version:   e.Version,
			Archive:   e.Archive,
			Dir:       e.Dir,
			Files:     e.Files,
			Bytes:     e.Bytes,
		}
	}

	meta := jsonHistoryMeta{
		Source: r.Source,
		Total:  len(r.History),
	}

	return jsonHistoryOutput{
		History: entries,
		Meta:    meta,
	}
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one object per
// line). Each plugin, or journal entry in journal mode, is written as a
// compact JSON object on its own line. This format is suitable for
// streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.History != nil {
		for _, e := range r.History {
			je := jsonEntry{
				ID:        e.ID,
				Timestamp: e.Timestamp,
				Operation: string(e.Operation),
				BundleID:  e.BundleID,
				Name:      e.Name,
				Version:   e.Version,
				Archive:   e.Archive,
				Dir:       e.Dir,
				Files:     e.Files,
				Bytes:     e.Bytes,
			}
			data, err := json.Marshal(je)
			if err != nil {
				return err
			}
			w.Write(data)
			w.WriteByte('\n')
		}
		return nil
	}

	for _, p := range r.Plugins {
		jp := jsonPlugin{
			Name:    p.Name,
			Version: p.Version,
			Size:    p.Size,
			Type:    string(p.Kind),
			Path:    p.Path,
		}
		data, err := json.Marshal(jp)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
