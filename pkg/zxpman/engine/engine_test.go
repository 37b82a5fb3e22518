package engine_test

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cepkit/zxpman/pkg/zxpman/engine"
	"github.com/cepkit/zxpman/pkg/zxpman/history"
	"github.com/cepkit/zxpman/pkg/zxpman/notify"
)

func writeTestArchive(t *testing.T, path, bundleID, name, version string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := map[string]string{
		"CSXS/manifest.xml": fmt.Sprintf(
			`<ExtensionManifest ExtensionBundleId=%q ExtensionBundleName=%q ExtensionBundleVersion=%q/>`,
			bundleID, name, version),
		"index.html": "<html></html>",
	}
	for entryName, content := range entries {
		w, err := zw.Create(entryName)
		if err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finalize archive: %v", err)
	}
}

func TestEngine_InstallAndScan(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "tools.zxp")
	writeTestArchive(t, archive, "com.example.tools", "Example Tools", "1.0.0")

	e := engine.New(engine.Options{Root: root})
	defer e.Close()

	dir, err := e.Install(archive)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if dir != filepath.Join(root, "com.example.tools") {
		t.Errorf("Install() dir = %q, want bundle dir under root", dir)
	}
	if e.LastInstalled() != dir {
		t.Errorf("LastInstalled() = %q, want %q", e.LastInstalled(), dir)
	}

	plugins, err := e.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(plugins) != 1 {
		t.Fatalf("len(plugins) = %d, want 1", len(plugins))
	}
	if plugins[0].Name != "Example Tools" {
		t.Errorf("plugins[0].Name = %q, want %q", plugins[0].Name, "Example Tools")
	}
}

func TestEngine_RemoveClearsHighlight(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "tools.zxp")
	writeTestArchive(t, archive, "com.example.tools", "Tools", "1.0")

	e := engine.New(engine.Options{Root: root})
	defer e.Close()

	dir, err := e.Install(archive)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if err := e.Remove(dir); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("bundle dir still present after Remove(): %v", err)
	}
	if e.LastInstalled() != "" {
		t.Errorf("LastInstalled() = %q, want empty after removing it", e.LastInstalled())
	}
}

func TestEngine_InstallAsync(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "tools.zxp")
	writeTestArchive(t, archive, "com.example.async", "Async", "1.0")

	e := engine.New(engine.Options{Root: root})
	defer e.Close()

	notifications := e.Notifier().Subscribe()
	bumps := e.Token().Subscribe()

	e.InstallAsync(archive)

	select {
	case n := <-notifications.Events:
		if n.Text != "Plugin installed successfully!" {
			t.Errorf("notification text = %q, want %q", n.Text, "Plugin installed successfully!")
		}
		if n.Category != notify.Success {
			t.Errorf("notification category = %v, want Success", n.Category)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected install notification not received")
	}

	select {
	case v := <-bumps.Events:
		if v != 1 {
			t.Errorf("refresh token = %d, want 1", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected refresh bump not received")
	}

	if _, err := os.Stat(filepath.Join(root, "com.example.async")); err != nil {
		t.Errorf("bundle not installed: %v", err)
	}
}

func TestEngine_InstallAsyncFailure(t *testing.T) {
	e := engine.New(engine.Options{Root: t.TempDir()})
	defer e.Close()

	notifications := e.Notifier().Subscribe()

	e.InstallAsync(filepath.Join(t.TempDir(), "missing.zxp"))

	select {
	case n := <-notifications.Events:
		if !strings.HasPrefix(n.Text, "Failed to install plugin: ") {
			t.Errorf("notification text = %q, want install failure message", n.Text)
		}
		if n.Category != notify.Error {
			t.Errorf("notification category = %v, want Error", n.Category)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected failure notification not received")
	}

	if v := e.Token().Value(); v != 0 {
		t.Errorf("refresh token = %d, want 0 after a failed install", v)
	}
}

func TestEngine_RemoveAsync(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "tools.zxp")
	writeTestArchive(t, archive, "com.example.gone", "Gone", "1.0")

	e := engine.New(engine.Options{Root: root})
	defer e.Close()

	dir, err := e.Install(archive)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	notifications := e.Notifier().Subscribe()

	e.RemoveAsync(dir)

	select {
	case n := <-notifications.Events:
		if n.Text != "Plugin removed successfully!" {
			t.Errorf("notification text = %q, want %q", n.Text, "Plugin removed successfully!")
		}
		if n.Category != notify.Success {
			t.Errorf("notification category = %v, want Success", n.Category)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected removal notification not received")
	}
}

func TestEngine_RemoveAsyncFailure(t *testing.T) {
	e := engine.New(engine.Options{Root: t.TempDir()})
	defer e.Close()

	notifications := e.Notifier().Subscribe()

	e.RemoveAsync(filepath.Join(t.TempDir(), "com.example.never"))

	select {
	case n := <-notifications.Events:
		if !strings.HasPrefix(n.Text, "Failed to remove plugin: ") {
			t.Errorf("notification text = %q, want removal failure message", n.Text)
		}
		if n.Category != notify.Error {
			t.Errorf("notification category = %v, want Error", n.Category)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected failure notification not received")
	}
}

func TestEngine_NotifyPassthrough(t *testing.T) {
	e := engine.New(engine.Options{Root: t.TempDir()})
	defer e.Close()

	e.Notify("Scanning extensions...", notify.Info)

	n := e.Notifier().Current()
	if n.Text != "Scanning extensions..." {
		t.Errorf("Current().Text = %q, want posted text", n.Text)
	}
	if n.Category != notify.Info {
		t.Errorf("Current().Category = %v, want Info", n.Category)
	}
}

func TestEngine_Journal(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "tools.zxp")
	writeTestArchive(t, archive, "com.example.logged", "Logged", "2.0")

	journal, err := history.New(t.TempDir())
	if err != nil {
		t.Fatalf("history.New() error = %v", err)
	}
	if err := journal.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	e := engine.New(engine.Options{Root: root, Journal: journal})
	defer e.Close()

	dir, err := e.Install(archive)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if err := e.Remove(dir); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	entries, err := journal.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	// Newest first: the removal.
	if entries[0].Operation != history.OpRemove {
		t.Errorf("entries[0].Operation = %v, want %v", entries[0].Operation, history.OpRemove)
	}
	if entries[1].Operation != history.OpInstall {
		t.Errorf("entries[1].Operation = %v, want %v", entries[1].Operation, history.OpInstall)
	}
	if entries[1].BundleID != "com.example.logged" {
		t.Errorf("entries[1].BundleID = %q, want %q", entries[1].BundleID, "com.example.logged")
	}
}

func TestEngine_ClearLastInstalled(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "tools.zxp")
	writeTestArchive(t, archive, "com.example.clear", "Clear", "1.0")

	e := engine.New(engine.Options{Root: root})
	defer e.Close()

	if _, err := e.Install(archive); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if e.LastInstalled() == "" {
		t.Fatal("LastInstalled() empty after install")
	}

	e.ClearLastInstalled()
	if e.LastInstalled() != "" {
		t.Errorf("LastInstalled() = %q, want empty after clear", e.LastInstalled())
	}
}
