package main

import (
	"fmt"

	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/cepkit/zxpman/pkg/zxpman/engine"
	"github.com/cepkit/zxpman/pkg/zxpman/history"
	"github.com/cepkit/zxpman/pkg/zxpman/logging"
	"github.com/cepkit/zxpman/pkg/zxpman/sizecache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initializeLogging prepares application directories and the logging
// system. It runs before every command as the root PersistentPreRunE.
func initializeLogging(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.EnsureStateDir(); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.Init(loggingConfig(cfg)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	return nil
}

// initTUILogging re-initializes logging for TUI mode. Console output
// is disabled entirely; the TUI owns the terminal.
func initTUILogging() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := loggingConfig(cfg)
	logCfg.TUIMode = true
	logCfg.ConsoleLevel = ""

	return logging.Init(logCfg)
}

// loggingConfig builds the logging configuration from the application
// configuration plus CLI flags.
func loggingConfig(cfg *config.Config) logging.Config {
	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Components: cfg.Logging.Components,
	}
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	if logCfg.Path == "" {
		logCfg.Path = config.DefaultLogPath()
	}
	if getVerbose() {
		logCfg.Level = "debug"
		logCfg.ConsoleLevel = "debug"
	}
	return logCfg
}

// buildEngine assembles an engine from the configuration plus CLI
// overrides. The returned cleanup function closes the engine and the
// size cache and must be called when the command finishes.
func buildEngine(cfg *config.Config) (*engine.Engine, func(), error) {
	if root := viper.GetString("root"); root != "" {
		expanded, err := config.ExpandPath(root)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to expand root path: %w", err)
		}
		cfg.ExtensionsRoot = expanded
	}

	var cache *sizecache.Cache
	if cfg.Cache.Enabled && !viper.GetBool("no_cache") {
		path := cfg.Cache.Path
		if path == "" {
			path = config.DefaultCachePath()
		}
		c, err := sizecache.Open(path)
		if err != nil {
			// Scan without the cache rather than failing the command
			printVerbose("Failed to open size cache at %s: %v", path, err)
		} else {
			cache = c
		}
	}

	var journal *history.Journal
	if cfg.History.Enabled {
		j, err := history.New(cfg.History.Path)
		if err != nil {
			printVerbose("Failed to create journal: %v", err)
		} else if err := j.EnsureDir(); err != nil {
			printVerbose("Failed to create journal directory: %v", err)
		} else {
			journal = j
		}
	}

	eng := engine.New(engine.Options{
		Root:    cfg.ExtensionsRoot,
		Ignore:  cfg.Ignore,
		Cache:   cache,
		Journal: journal,
	})

	cleanup := func() {
		eng.Close()
		if cache != nil {
			_ = cache.Close()
		}
	}

	return eng, cleanup, nil
}
