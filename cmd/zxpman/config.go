package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage zxpman configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/zxpman/config.yaml (if set)
  2. ~/.config/zxpman/config.yaml

Environment variables can override config file settings using the ZXPMAN_ prefix:
  ZXPMAN_EXTENSIONS_ROOT=/opt/cep/extensions
  ZXPMAN_CACHE_ENABLED=false
  ZXPMAN_LOGGING_LEVEL=debug`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		// Show defaults anyway
		cfg = &config.Config{
			ExtensionsRoot: config.DefaultExtensionsRoot,
		}
		cfg.Cache.Enabled = true
		cfg.History.Enabled = true
		cfg.History.RetentionDays = config.DefaultRetentionDays
		cfg.Watch.Enabled = true
		cfg.Watch.DebounceMS = config.DefaultWatchDebounceMS
		cfg.Logging.Level = "info"
	}

	// Show config file being used
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	// Display configuration
	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("extensions_root:      %s\n", cfg.ExtensionsRoot)
	fmt.Printf("ignore:               %v\n", cfg.Ignore)
	fmt.Printf("cache.enabled:        %t\n", cfg.Cache.Enabled)
	fmt.Printf("cache.path:           %s\n", cfg.Cache.Path)
	fmt.Printf("history.enabled:      %t\n", cfg.History.Enabled)
	fmt.Printf("history.path:         %s\n", cfg.History.Path)
	fmt.Printf("history.retention:    %d days\n", cfg.History.RetentionDays)
	fmt.Printf("watch.enabled:        %t\n", cfg.Watch.Enabled)
	fmt.Printf("watch.debounce:       %d ms\n", cfg.Watch.DebounceMS)
	fmt.Printf("logging.level:        %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:         %s\n", cfg.Logging.Path)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"ZXPMAN_EXTENSIONS_ROOT",
		"ZXPMAN_IGNORE",
		"ZXPMAN_CACHE_ENABLED",
		"ZXPMAN_CACHE_PATH",
		"ZXPMAN_HISTORY_ENABLED",
		"ZXPMAN_HISTORY_PATH",
		"ZXPMAN_HISTORY_RETENTION_DAYS",
		"ZXPMAN_WATCH_ENABLED",
		"ZXPMAN_WATCH_DEBOUNCE_MS",
		"ZXPMAN_LOGGING_LEVEL",
		"ZXPMAN_LOGGING_PATH",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	// Ensure config file exists
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	// Get config file path
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Determine editor
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	// Open editor
	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'zxpman config edit' to modify it.")
		return nil
	}

	// Create default config
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	// Show if file exists
	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
