package main

import (
	"os"
	"testing"

	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/cepkit/zxpman/pkg/zxpman/logging"
)

func TestLoggingConfig(t *testing.T) {
	tests := []struct {
		name          string
		input         config.Config
		expectedLevel string
		expectedPath  string
	}{
		{
			name: "configured values pass through",
			input: config.Config{
				Logging: config.LoggingConfig{
					Level: "warn",
					Path:  "/tmp/zxpman-test.log",
				},
			},
			expectedLevel: "warn",
			expectedPath:  "/tmp/zxpman-test.log",
		},
		{
			name:          "empty level uses info",
			input:         config.Config{},
			expectedLevel: "info",
			expectedPath:  config.DefaultLogPath(),
		},
		{
			name: "empty path uses default",
			input: config.Config{
				Logging: config.LoggingConfig{
					Level: "debug",
				},
			},
			expectedLevel: "debug",
			expectedPath:  config.DefaultLogPath(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loggingConfig(&tt.input)

			if result.Level != tt.expectedLevel {
				t.Errorf("Level = %q, want %q", result.Level, tt.expectedLevel)
			}
			if result.Path != tt.expectedPath {
				t.Errorf("Path = %q, want %q", result.Path, tt.expectedPath)
			}
		})
	}
}

func TestLoggingConfigComponents(t *testing.T) {
	cfg := config.Config{
		Logging: config.LoggingConfig{
			Level: "info",
			Components: map[string]string{
				"scanner": "debug",
				"watcher": "error",
			},
		},
	}

	result := loggingConfig(&cfg)

	if result.Components["scanner"] != "debug" {
		t.Errorf("Components[scanner] = %q, want %q", result.Components["scanner"], "debug")
	}
	if result.Components["watcher"] != "error" {
		t.Errorf("Components[watcher] = %q, want %q", result.Components["watcher"], "error")
	}
}

func TestInitializeLoggingEnsuresDirectories(t *testing.T) {
	// Note: XDG paths are cached at package init time, so we cannot override
	// them with environment variables. Instead, we verify that initializeLogging
	// creates the directories at the actual XDG paths.

	// Run initializeLogging (the PersistentPreRunE hook)
	err := initializeLogging(nil, nil)
	if err != nil {
		t.Fatalf("initializeLogging() returned error: %v", err)
	}

	// Verify directories were created using the config package's path functions
	configDir, err := config.ConfigDir()
	if err != nil {
		t.Fatalf("failed to get config dir: %v", err)
	}
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Errorf("config directory was not created: %s", configDir)
	}

	stateDir := config.StateDir()
	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		t.Errorf("state directory was not created: %s", stateDir)
	}

	// Clean up logging state
	_ = logging.Close()
}

func TestBuildEngine(t *testing.T) {
	cfg := &config.Config{
		ExtensionsRoot: t.TempDir(),
	}
	cfg.Cache.Enabled = false
	cfg.History.Enabled = false

	eng, cleanup, err := buildEngine(cfg)
	if err != nil {
		t.Fatalf("buildEngine() returned error: %v", err)
	}
	defer cleanup()

	if eng == nil {
		t.Fatal("buildEngine() returned nil engine")
	}
	if eng.Journal() != nil {
		t.Error("Journal() should be nil when history is disabled")
	}
}

func TestBuildEngineWithJournal(t *testing.T) {
	cfg := &config.Config{
		ExtensionsRoot: t.TempDir(),
	}
	cfg.Cache.Enabled = false
	cfg.History.Enabled = true
	cfg.History.Path = t.TempDir()

	eng, cleanup, err := buildEngine(cfg)
	if err != nil {
		t.Fatalf("buildEngine() returned error: %v", err)
	}
	defer cleanup()

	if eng.Journal() == nil {
		t.Error("Journal() should be set when history is enabled")
	}
}
