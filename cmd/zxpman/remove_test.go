package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cepkit/zxpman/pkg/zxpman/engine"
)

// writeBundle creates a bundle directory with a manifest under root.
func writeBundle(t *testing.T, root, dir, bundleID, name string) string {
	t.Helper()

	bundleDir := filepath.Join(root, dir)
	csxsDir := filepath.Join(bundleDir, "CSXS")
	if err := os.MkdirAll(csxsDir, 0o755); err != nil {
		t.Fatalf("failed to create bundle: %v", err)
	}

	manifest := `<ExtensionManifest ExtensionBundleId="` + bundleID +
		`" ExtensionBundleName="` + name +
		`" ExtensionBundleVersion="1.0.0"/>`
	if err := os.WriteFile(filepath.Join(csxsDir, "manifest.xml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	return bundleDir
}

func TestResolveRemoveTargetByPath(t *testing.T) {
	root := t.TempDir()
	bundleDir := writeBundle(t, root, "com.example.tools", "com.example.tools", "Example Tools")

	eng := engine.New(engine.Options{Root: root})
	defer eng.Close()

	target, err := resolveRemoveTarget(context.Background(), eng, root, bundleDir)
	if err != nil {
		t.Fatalf("resolveRemoveTarget() error = %v", err)
	}
	if target.Path != bundleDir {
		t.Errorf("Path = %q, want %q", target.Path, bundleDir)
	}
}

func TestResolveRemoveTargetPathOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	eng := engine.New(engine.Options{Root: root})
	defer eng.Close()

	_, err := resolveRemoveTarget(context.Background(), eng, root, outside)
	if err == nil {
		t.Fatal("expected error for path outside extensions root")
	}
	if !strings.Contains(err.Error(), "extensions root") {
		t.Errorf("error = %q, want mention of extensions root", err)
	}
}

func TestResolveRemoveTargetByName(t *testing.T) {
	root := t.TempDir()
	bundleDir := writeBundle(t, root, "com.example.tools", "com.example.tools", "Example Tools")
	writeBundle(t, root, "com.other.panel", "com.other.panel", "Other Panel")

	eng := engine.New(engine.Options{Root: root})
	defer eng.Close()

	tests := []struct {
		name string
		arg  string
	}{
		{"display name", "Example Tools"},
		{"display name case insensitive", "example tools"},
		{"directory name", "com.example.tools"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := resolveRemoveTarget(context.Background(), eng, root, tt.arg)
			if err != nil {
				t.Fatalf("resolveRemoveTarget(%q) error = %v", tt.arg, err)
			}
			if target.Path != bundleDir {
				t.Errorf("Path = %q, want %q", target.Path, bundleDir)
			}
		})
	}
}

func TestResolveRemoveTargetNoMatch(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "com.example.tools", "com.example.tools", "Example Tools")

	eng := engine.New(engine.Options{Root: root})
	defer eng.Close()

	_, err := resolveRemoveTarget(context.Background(), eng, root, "com.missing.plugin")
	if err == nil {
		t.Fatal("expected error for unknown plugin")
	}
	if !strings.Contains(err.Error(), "no installed plugin") {
		t.Errorf("error = %q, want mention of no installed plugin", err)
	}
}

func TestResolveRemoveTargetAmbiguous(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "com.example.tools", "com.example.tools", "Shared Name")
	writeBundle(t, root, "com.example.extras", "com.example.extras", "Shared Name")

	eng := engine.New(engine.Options{Root: root})
	defer eng.Close()

	_, err := resolveRemoveTarget(context.Background(), eng, root, "Shared Name")
	if err == nil {
		t.Fatal("expected error for ambiguous name")
	}
	if !strings.Contains(err.Error(), "multiple plugins") {
		t.Errorf("error = %q, want mention of multiple plugins", err)
	}
}
