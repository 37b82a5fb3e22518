// Package types provides core data types for the zxpman plugin manager.
// It includes the installed-plugin model, bundle classification, and the
// size formatting used everywhere plugin sizes are displayed.
package types

import (
	"fmt"
	"strings"
)

// Size constants for binary units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
)

// SizeUnknown is the size shown when a bundle's byte count cannot be
// computed, for example when part of the tree is unreadable.
const SizeUnknown = "Unknown"

// NativeBundlePrefix marks bundle identifiers that belong to Adobe's own
// extensions. Everything else is treated as a third-party install.
const NativeBundlePrefix = "com.adobe."

// PluginType classifies an installed plugin by its bundle identifier.
type PluginType string

const (
	// Native is an Adobe-shipped extension (bundle id under com.adobe.).
	Native PluginType = "native"

	// ThirdParty is any extension installed from outside Adobe.
	ThirdParty PluginType = "third-party"
)

// Classify returns the plugin type for a bundle identifier.
// The check is a plain prefix match and is case-sensitive.
func Classify(bundleID string) PluginType {
	if strings.HasPrefix(bundleID, NativeBundlePrefix) {
		return Native
	}
	return ThirdParty
}

// Plugin describes one installed extension bundle as of the scan that
// produced it. Values are snapshots: a Plugin is never mutated after a
// scan, and successive scans return fresh values. Path is the only
// identity; two scans of the same bundle yield equal but distinct values.
type Plugin struct {
	// Name is the display name from the bundle manifest, falling back to
	// the bundle identifier when the manifest carries no name.
	Name string `json:"name"`

	// Version is the bundle version string, or "Unknown" when the
	// manifest carries none.
	Version string `json:"version"`

	// Size is the pre-formatted on-disk size of the bundle directory,
	// or "Unknown" when it could not be computed.
	Size string `json:"size"`

	// Path is the absolute path of the bundle directory.
	Path string `json:"path"`

	// Kind reports whether the bundle is Adobe-native or third-party.
	Kind PluginType `json:"kind"`
}

// FormatSize converts a byte count to the display string used throughout
// the tool. Units are base-1024 with at most one decimal place, and the
// megabyte tier is the ceiling: bundles do not get gigabyte labels.
//
// Examples:
//   - FormatSize(512) returns "512 B"
//   - FormatSize(2048) returns "2.0 KB"
//   - FormatSize(3 * 1024 * 1024) returns "3.0 MB"
func FormatSize(bytes int64) string {
	switch {
	case bytes < KiB:
		return fmt.Sprintf("%d B", bytes)
	case bytes < MiB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KiB))
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MiB))
	}
}
