package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
}

// CacheConfig configures the bundle size cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // Badger directory (auto-selected if empty)
}

// HistoryConfig configures the install/remove operation history.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// WatchConfig configures the extension-root filesystem watcher.
type WatchConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	DebounceMS int  `mapstructure:"debounce_ms"`
}

// Config represents the application configuration.
type Config struct {
	ExtensionsRoot string        `mapstructure:"extensions_root"`
	Ignore         []string      `mapstructure:"ignore"`
	Cache          CacheConfig   `mapstructure:"cache"`
	History        HistoryConfig `mapstructure:"history"`
	Watch          WatchConfig   `mapstructure:"watch"`
	Logging        LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/zxpman/config.yaml
//   - $HOME/.config/zxpman/config.yaml
//
// Environment variables are prefixed with ZXPMAN_ (e.g., ZXPMAN_EXTENSIONS_ROOT).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "zxpman"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "zxpman"))

	v.SetEnvPrefix("ZXPMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("extensions_root", DefaultExtensionsRoot)
	v.SetDefault("ignore", []string{})

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "") // Empty means use DefaultCachePath

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.retention_days", DefaultRetentionDays)
	v.SetDefault("history.path", filepath.Join(homeDir, ".config", "zxpman", ".history"))

	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.debounce_ms", DefaultWatchDebounceMS)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.components", map[string]string{
		"scanner":   "info",
		"installer": "info",
		"remover":   "info",
		"watcher":   "warn",
		"tui":       "info",
	})

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in user-supplied paths
	for _, p := range []*string{&cfg.ExtensionsRoot, &cfg.Cache.Path, &cfg.History.Path} {
		if strings.HasPrefix(*p, "~") {
			*p = filepath.Join(homeDir, (*p)[1:])
		}
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "zxpman"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "zxpman"), nil
}

// HistoryDir returns the history directory path.
func HistoryDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ".history"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// EnsureHistoryDir creates the history directory if it doesn't exist.
func EnsureHistoryDir() error {
	dir, err := HistoryDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		// Config file exists, do nothing
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	historyDir, err := HistoryDir()
	if err != nil {
		return err
	}

	defaultConfig := fmt.Sprintf(`# zxpman Configuration

# Directory CEP loads extensions from. Plugins are installed here.
extensions_root: %s

# Glob patterns for bundle directories to hide from listings
# ignore:
#   - "com.adobe.internal.*"

# Bundle size cache (avoids re-walking large bundles on every scan)
cache:
  enabled: true
  # Cache directory (empty means use default: $XDG_CACHE_HOME/zxpman/sizes)
  path: ""

# Install/remove operation history
history:
  enabled: true
  path: %s
  retention_days: %d

# Watch the extensions root for out-of-band changes
watch:
  enabled: true
  debounce_ms: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/zxpman/zxpman.log)
  path: ""
  # Per-component log levels
  components:
    scanner: info
    installer: info
    remover: info
    watcher: warn
    tui: info
`, DefaultExtensionsRoot, historyDir, DefaultRetentionDays, DefaultWatchDebounceMS)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/zxpman/ for application data.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "zxpman")
}

// StateDir returns $XDG_STATE_HOME/zxpman/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "zxpman")
}

// CacheDir returns $XDG_CACHE_HOME/zxpman/ for the size cache.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "zxpman")
}

// DefaultCachePath returns the default size cache directory.
func DefaultCachePath() string {
	return filepath.Join(CacheDir(), "sizes")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "zxpman.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// EnsureCacheDir creates the cache directory if it doesn't exist.
func EnsureCacheDir() error {
	if err := os.MkdirAll(CacheDir(), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return nil
}
