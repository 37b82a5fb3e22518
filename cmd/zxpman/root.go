package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cepkit/zxpman/cmd/zxpman/tui"
	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "zxpman",
		Short: "Manage Adobe CEP plugins",
		Long: `Zxpman installs, lists, and removes Adobe CEP plugins (.zxp archives).

By default, zxpman launches an interactive TUI to browse and manage
installed plugins. Use --no-interactive or -o for text output.

Examples:
  zxpman                          # Browse plugins with the TUI
  zxpman list                     # List installed plugins
  zxpman -n -o json               # Non-interactive JSON output
  zxpman install tools.zxp        # Install a plugin archive
  zxpman remove com.example.tools # Remove an installed plugin
  zxpman history                  # View install/remove history
  zxpman config show              # Show configuration`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: initializeLogging,
		RunE:              runRoot,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/zxpman/config.yaml)")
	rootCmd.PersistentFlags().StringP("root", "r", "", "extensions root directory override")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (pretty, plain, json, jsonl, yaml, csv, tsv, markdown, paths, null, template)")
	rootCmd.PersistentFlags().String("template", "", "Go template for -o template")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable TUI, use text output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the bundle size cache")

	// Bind flags to viper
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_cache", rootCmd.PersistentFlags().Lookup("no-cache"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "zxpman"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "zxpman"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("ZXPMAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("extensions_root", config.DefaultExtensionsRoot)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.retention_days", config.DefaultRetentionDays)
	viper.SetDefault("watch.enabled", true)
	viper.SetDefault("watch.debounce_ms", config.DefaultWatchDebounceMS)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// runRoot launches the TUI, or falls back to the list command when
// text output was requested.
func runRoot(cmd *cobra.Command, args []string) error {
	noInteractive := viper.GetBool("no_interactive")
	outFormat := viper.GetString("output")

	// An explicit output format means text output was requested
	if outFormat != "" && outFormat != "pretty" {
		noInteractive = true
	}

	if noInteractive {
		return runList(cmd, args)
	}

	return runTUI()
}

// runTUI runs the interactive plugin manager.
func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Re-initialize logging for TUI mode (disables console output)
	if err := initTUILogging(); err != nil {
		return fmt.Errorf("failed to initialize TUI logging: %w", err)
	}

	eng, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(tui.Options{
		Engine:  eng,
		Config:  cfg,
		Version: version,
	})
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
