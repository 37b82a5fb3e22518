package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cepkit/zxpman/pkg/zxpman/config"
	"github.com/cepkit/zxpman/pkg/zxpman/engine"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
	"github.com/spf13/cobra"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:     "remove <plugin>",
	Aliases: []string{"rm", "uninstall"},
	Short:   "Remove an installed plugin",
	Long: `Remove an installed plugin from the extensions root.

The plugin may be given as a bundle directory name, a plugin display
name, or a path to the bundle directory. A confirmation prompt is
shown unless --force is set. The removal is recorded in the operation
history.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "skip confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}

// runRemove removes the plugin named by the argument.
func runRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	eng, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	target, err := resolveRemoveTarget(context.Background(), eng, cfg.ExtensionsRoot, args[0])
	if err != nil {
		return err
	}

	if !removeForce && !confirmRemove(target) {
		printInfo("Aborted.")
		return nil
	}

	printVerbose("Removing %s", target.Path)

	if err := eng.Remove(target.Path); err != nil {
		return fmt.Errorf("failed to remove plugin: %w", err)
	}

	printInfo("Plugin removed successfully!")
	return nil
}

// resolveRemoveTarget resolves an argument to an installed bundle.
// A path to an existing directory inside the extensions root wins;
// otherwise the installed plugins are matched by display name or by
// bundle directory name.
func resolveRemoveTarget(ctx context.Context, eng *engine.Engine, root, arg string) (*types.Plugin, error) {
	expanded, err := config.ExpandPath(arg)
	if err == nil {
		if info, statErr := os.Stat(expanded); statErr == nil && info.IsDir() {
			abs, absErr := filepath.Abs(expanded)
			if absErr != nil {
				return nil, fmt.Errorf("failed to resolve path: %w", absErr)
			}
			if filepath.Dir(abs) != filepath.Clean(root) {
				return nil, fmt.Errorf("%s is not inside the extensions root %s", abs, root)
			}
			return &types.Plugin{Name: filepath.Base(abs), Path: abs}, nil
		}
	}

	plugins, err := eng.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	var matches []types.Plugin
	for _, p := range plugins {
		if strings.EqualFold(p.Name, arg) || filepath.Base(p.Path) == arg {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no installed plugin matches %q", arg)
	case 1:
		return &matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = filepath.Base(m.Path)
		}
		return nil, fmt.Errorf("%q matches multiple plugins: %s", arg, strings.Join(names, ", "))
	}
}

// confirmRemove prompts for confirmation on stdin.
func confirmRemove(p *types.Plugin) bool {
	fmt.Printf("Remove %s (%s)? [y/N]: ", p.Name, p.Path)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
