package output

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlOutput represents the full YAML output structure for plugin lists.
type yamlOutput struct {
	Plugins []yamlPlugin `yaml:"plugins"`
	Meta    yamlMeta     `yaml:"meta"`
}

// yamlPlugin represents a plugin in YAML output.
type yamlPlugin struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Size    string `yaml:"size"`
	Type    string `yaml:"type"`
	Path    string `yaml:"path"`
}

// yamlMeta represents metadata in YAML output.
type yamlMeta struct {
	Source     string `yaml:"source"`
	Total      int    `yaml:"total"`
	Native     int    `yaml:"native"`
	ThirdParty int    `yaml:"third_party"`
}

// yamlHistoryOutput represents the full YAML output structure for the
// operation journal.
type yamlHistoryOutput struct {
	History []yamlEntry     `yaml:"history"`
	Meta    yamlHistoryMeta `yaml:"meta"`
}

// yamlEntry represents a journal entry in YAML output.
type yamlEntry struct {
	ID        string    `yaml:"id"`
	Timestamp time.Time `yaml:"timestamp"`
	Operation string    `yaml:"operation"`
	BundleID  string    `yaml:"bundle_id,omitempty"`
	Name      string    `yaml:"name,omitempty"`
	Version   string    `yaml:"version,omitempty"`
	Archive   string    `yaml:"archive,omitempty"`
	Dir       string    `yaml:"dir"`
	Files     int       `yaml:"files,omitempty"`
	Bytes     int64     `yaml:"bytes,omitempty"`
}

// yamlHistoryMeta represents journal metadata in YAML output.
type yamlHistoryMeta struct {
	Source string `yaml:"source"`
	Total  int    `yaml:"total"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	var err error
	if r.History != nil {
		err = encoder.Encode(f.buildHistoryOutput(r))
	} else {
		err = encoder.Encode(f.buildOutput(r))
	}
	if err != nil {
		return err
	}
	return encoder.Close()
}

// buildOutput converts Result to the plugin-list YAML output structure.
func (f *YAMLFormatter) buildOutput(r *Result) yamlOutput {
	plugins := make([]yamlPlugin, len(r.Plugins))
	for i, p := range r.Plugins {
		plugins[i] = yamlPlugin{
			Name:    p.Name,
			Version: p.Version,
			Size:    p.Size,
			Type:    string(p.Kind),
			Path:    p.Path,
		}
	}

	meta := yamlMeta{
		Source:     r.Source,
		Total:      len(r.Plugins),
		Native:     r.NativeCount(),
		ThirdParty: len(r.Plugins) - r.NativeCount(),
	}

	return yamlOutput{
		Plugins: plugins,
		Meta:    meta,
	}
}

// buildHistoryOutput converts Result to the journal YAML output structure.
func (f *YAMLFormatter) buildHistoryOutput(r *Result) yamlHistoryOutput {
	entries := make([]yamlEntry, len(r.History))
	for i, e := range r.History {
		entries[i] = yamlEntry{
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

	meta := yamlHistoryMeta{
		Source: r.Source,
		Total:  len(r.History),
	}

	return yamlHistoryOutput{
		History: entries,
		Meta:    meta,
	}
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
