package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/cepkit/zxpman/pkg/zxpman/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed plugins",
	Long: `List the plugins installed in the extensions root.

Each bundle directory carrying a CSXS/manifest.xml is reported with
its name, version, size, and type. Directories without a readable
manifest are skipped.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// runList scans the extensions root and prints the installed plugins.
func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	eng, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	printVerbose("Scanning %s", cfg.ExtensionsRoot)

	plugins, err := eng.Scan(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Scan cancelled")
			return nil
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	result := &output.Result{
		Plugins: plugins,
		Source:  cfg.ExtensionsRoot,
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	return nil
}
