package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/cepkit/zxpman/pkg/zxpman/history"
	"github.com/cepkit/zxpman/pkg/zxpman/output"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Long: `View the history of install and remove operations.

The journal stores a record of every install and removal performed by
zxpman, including the bundle, version, and installed directory.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details of a specific operation",
	Long:  `Display detailed information about a specific operation by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getJournal returns a journal rooted at the configured directory.
func getJournal() (*history.Journal, string, error) {
	cfg, err := config.Load()
	if err != nil {
		// Use the default journal path if config fails to load
		dir, dirErr := config.HistoryDir()
		if dirErr != nil {
			return nil, "", fmt.Errorf("failed to get history directory: %w", dirErr)
		}
		j, jerr := history.New(dir)
		return j, dir, jerr
	}

	j, jerr := history.New(cfg.History.Path)
	return j, cfg.History.Path, jerr
}

// runHistory lists recent operations.
func runHistory(cmd *cobra.Command, args []string) error {
	j, dir, err := getJournal()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	entries, err := j.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'zxpman install <archive.zxp>' to install a plugin.")
		return nil
	}

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	result := &output.Result{
		History: entries,
		Source:  dir,
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	return nil
}

// runHistoryShow displays details of a specific operation.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	j, _, err := getJournal()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	entry, err := j.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	// Display entry details
	fmt.Println("\nOperation Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Timestamp:  %s\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:  %s\n", entry.Operation)
	if entry.BundleID != "" {
		fmt.Printf("Bundle:     %s\n", entry.BundleID)
	}
	if entry.Name != "" {
		fmt.Printf("Name:       %s\n", entry.Name)
	}
	if entry.Version != "" {
		fmt.Printf("Version:    %s\n", entry.Version)
	}
	if entry.Archive != "" {
		fmt.Printf("Archive:    %s\n", entry.Archive)
	}
	fmt.Printf("Directory:  %s\n", entry.Dir)
	if entry.Operation == history.OpInstall {
		fmt.Printf("Files:      %d\n", entry.Files)
		fmt.Printf("Size:       %s\n", types.FormatSize(entry.Bytes))
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	j, err := history.New(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	retentionDays := cfg.History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	if err := j.Cleanup(retentionDays); err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("History cleanup complete.")
	return nil
}
