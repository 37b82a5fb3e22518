package main

import (
	"fmt"
	"path/filepath"

	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <archive.zxp>",
	Short: "Install a plugin archive",
	Long: `Install a .zxp plugin archive into the extensions root.

The archive must be a ZIP file containing a CSXS/manifest.xml bundle
manifest. Its contents are extracted into a directory named after the
manifest's bundle id, and the install is recorded in the operation
history.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

// runInstall installs the given archive.
func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	archive, err := config.ExpandPath(args[0])
	if err != nil {
		return fmt.Errorf("failed to expand archive path: %w", err)
	}
	archive, err = filepath.Abs(archive)
	if err != nil {
		return fmt.Errorf("failed to resolve archive path: %w", err)
	}

	eng, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := eng.Inspect(archive)
	if err != nil {
		return fmt.Errorf("failed to inspect archive: %w", err)
	}

	printVerbose("Installing %s into %s", archive, cfg.ExtensionsRoot)

	dir, err := eng.Install(archive)
	if err != nil {
		return fmt.Errorf("failed to install plugin: %w", err)
	}

	printInfo("Plugin installed successfully!")
	printInfo("  name:    %s", info.Bundle.Name)
	printInfo("  version: %s", info.Bundle.Version)
	printInfo("  bundle:  %s", info.Bundle.BundleID)
	printInfo("  into:    %s", dir)
	printInfo("  files:   %d (%s)", info.Files, types.FormatSize(info.Bytes))

	return nil
}
