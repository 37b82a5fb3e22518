// Package output provides formatters for displaying installed plugins
// and the operation journal in various output formats (pretty, plain,
// json, yaml, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/cepkit/zxpman/pkg/zxpman/history"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
)

// Result contains the complete output data for formatting.
//
// A Result renders in one of two modes. When History is nil the
// formatters render the plugin list; when History is non-nil they render
// the operation journal instead, and Plugins is ignored.
type Result struct {
	// Plugins contains the installed plugins, sorted by display name.
	Plugins []types.Plugin `json:"plugins" yaml:"plugins"`

	// History contains journal entries, newest first. Non-nil switches
	// formatters into journal mode.
	History []history.Entry `json:"history,omitempty" yaml:"history,omitempty"`

	// Source is the directory the result was read from: the extensions
	// root for plugin lists, the journal directory for history.
	Source string `json:"source" yaml:"source"`
}

// NativeCount returns how many plugins in the result are Adobe-native
// bundles.
func (r *Result) NativeCount() int {
	n := 0
	for _, p := range r.Plugins {
		if p.Kind == types.Native {
			n++
		}
	}
	return n
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
