// Package config provides configuration management for zxpman.
package config

// Default configuration values for zxpman.
const (
	// DefaultExtensionsRoot is the directory CEP loads extensions from.
	// Plugins are installed into and removed from this directory.
	DefaultExtensionsRoot = "/Library/Application Support/Adobe/CEP/extensions"

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/zxpman"

	// DefaultHistoryDir is the default directory for operation history files.
	DefaultHistoryDir = "~/.config/zxpman/.history"

	// DefaultRetentionDays is the default number of days to retain history entries.
	DefaultRetentionDays = 90

	// DefaultWatchDebounceMS is how long the extension-root watcher waits
	// after the last filesystem event before signalling a refresh.
	DefaultWatchDebounceMS = 500
)
