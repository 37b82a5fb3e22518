package installer

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeArchive creates a ZIP archive at path. Entries map
// archive-internal names to contents; names ending in "/" become
// directory entries.
func writeArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create entry %q: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write entry %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finalize archive: %v", err)
	}
}

func manifestXML(bundleID, name, version string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ExtensionManifest ExtensionBundleId=%q ExtensionBundleName=%q ExtensionBundleVersion=%q/>`,
		bundleID, name, version)
}

func TestInstall_Succeeds(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "tools.zxp")

	doc := manifestXML("com.example.tools", "Example Tools", "1.2.0")
	entries := map[string]string{
		"CSXS/manifest.xml": doc,
		"index.html":        "<html></html>",
		"js/main.js":        "console.log(1);",
		"assets/":           "",
	}
	writeArchive(t, archive, entries)

	res, err := New(root).Install(archive)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	wantDir := filepath.Join(root, "com.example.tools")
	if res.Dir != wantDir {
		t.Errorf("Result.Dir = %q, want %q", res.Dir, wantDir)
	}
	if res.Bundle.BundleID != "com.example.tools" {
		t.Errorf("Result.Bundle.BundleID = %q, want %q", res.Bundle.BundleID, "com.example.tools")
	}
	if res.Bundle.Name != "Example Tools" {
		t.Errorf("Result.Bundle.Name = %q, want %q", res.Bundle.Name, "Example Tools")
	}
	if res.Files != 3 {
		t.Errorf("Result.Files = %d, want 3", res.Files)
	}
	wantBytes := int64(len(doc) + len("<html></html>") + len("console.log(1);"))
	if res.Bytes != wantBytes {
		t.Errorf("Result.Bytes = %d, want %d", res.Bytes, wantBytes)
	}

	got, err := os.ReadFile(filepath.Join(wantDir, "js", "main.js"))
	if err != nil {
		t.Fatalf("failed to read extracted file: %v", err)
	}
	if string(got) != "console.log(1);" {
		t.Errorf("extracted content = %q, want %q", got, "console.log(1);")
	}

	if info, err := os.Stat(filepath.Join(wantDir, "assets")); err != nil || !info.IsDir() {
		t.Errorf("directory entry not materialized: info=%v err=%v", info, err)
	}
}

func TestInstall_ArchiveNotFound(t *testing.T) {
	inst := New(t.TempDir())

	_, err := inst.Install(filepath.Join(t.TempDir(), "missing.zxp"))
	if !errors.Is(err, ErrArchiveNotFound) {
		t.Errorf("Install() error = %v, want ErrArchiveNotFound", err)
	}
}

func TestInstall_WrongExtension(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "plugin.zip")
	writeArchive(t, archive, map[string]string{
		"CSXS/manifest.xml": manifestXML("com.example.a", "A", "1.0"),
	})

	_, err := New(t.TempDir()).Install(archive)
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("Install() error = %v, want ErrInvalidExtension", err)
	}
}

func TestInstall_UppercaseExtension(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "plugin.ZXP")
	writeArchive(t, archive, map[string]string{
		"CSXS/manifest.xml": manifestXML("com.example.upper", "Upper", "1.0"),
	})

	res, err := New(root).Install(archive)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if res.Dir != filepath.Join(root, "com.example.upper") {
		t.Errorf("Result.Dir = %q, want bundle dir under root", res.Dir)
	}
}

func TestInstall_NotAZip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "garbage.zxp")
	if err := os.WriteFile(archive, []byte("this is not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(t.TempDir()).Install(archive)
	if !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Install() error = %v, want ErrInvalidArchive", err)
	}
}

func TestInstall_MissingArchiveManifest(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bare.zxp")
	writeArchive(t, archive, map[string]string{
		"index.html": "<html></html>",
	})

	_, err := New(t.TempDir()).Install(archive)
	if !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Install() error = %v, want ErrInvalidArchive", err)
	}
}

func TestInstall_BadArchiveManifest(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.zxp")
	writeArchive(t, archive, map[string]string{
		"CSXS/manifest.xml": "<NotAManifest/>",
	})

	_, err := New(t.TempDir()).Install(archive)
	if !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Install() error = %v, want ErrInvalidArchive", err)
	}
}

func TestInstall_TruncatesPanelSuffix(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "panel.zxp")
	writeArchive(t, archive, map[string]string{
		"CSXS/manifest.xml": manifestXML("com.example.tools.panel.main", "Tools", "1.0"),
	})

	res, err := New(root).Install(archive)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if res.Dir != filepath.Join(root, "com.example.tools") {
		t.Errorf("Result.Dir = %q, want panel suffix dropped", res.Dir)
	}
}

func TestInstall_RejectsEntryTraversal(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "evil.txt")
	archive := filepath.Join(t.TempDir(), "evil.zxp")
	writeArchive(t, archive, map[string]string{
		"CSXS/manifest.xml": manifestXML("com.example.evil", "Evil", "1.0"),
		"../../evil.txt":    "pwned",
	})

	_, err := New(root).Install(archive)
	if !errors.Is(err, ErrExtractFailed) {
		t.Fatalf("Install() error = %v, want ErrExtractFailed", err)
	}
	if _, err := os.Stat(outside); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("traversal entry was written outside the root: %v", err)
	}
}

func TestInstall_RejectsUnsafeBundleID(t *testing.T) {
	tests := []struct {
		name     string
		bundleID string
	}{
		{"path separator", "com/evil.panel"},
		{"backslash separator", `com\evil`},
		{"parent reference", ".."},
		{"dot after truncation", "..panel"},
		{"empty after truncation", ".panel.main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := filepath.Join(t.TempDir(), "unsafe.zxp")
			writeArchive(t, archive, map[string]string{
				"CSXS/manifest.xml": manifestXML(tt.bundleID, "Unsafe", "1.0"),
			})

			_, err := New(t.TempDir()).Install(archive)
			if !errors.Is(err, ErrInvalidArchive) {
				t.Errorf("Install() error = %v, want ErrInvalidArchive", err)
			}
		})
	}
}

func TestInstall_OverwritesExisting(t *testing.T) {
	root := t.TempDir()

	first := filepath.Join(t.TempDir(), "v1.zxp")
	writeArchive(t, first, map[string]string{
		"CSXS/manifest.xml": manifestXML("com.example.app", "App", "1.0"),
		"index.html":        "version one",
	})
	if _, err := New(root).Install(first); err != nil {
		t.Fatalf("first Install() error = %v", err)
	}

	second := filepath.Join(t.TempDir(), "v2.zxp")
	writeArchive(t, second, map[string]string{
		"CSXS/manifest.xml": manifestXML("com.example.app", "App", "2.0"),
		"index.html":        "version two",
	})
	res, err := New(root).Install(second)
	if err != nil {
		t.Fatalf("second Install() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(res.Dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "version two" {
		t.Errorf("reinstalled content = %q, want %q", got, "version two")
	}
}

func TestInstall_RootPermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission checks are not enforced")
	}

	parent := t.TempDir()
	root := filepath.Join(parent, "extensions")
	if err := os.Mkdir(root, 0o555); err != nil {
		t.Fatal(err)
	}

	archive := filepath.Join(t.TempDir(), "denied.zxp")
	writeArchive(t, archive, map[string]string{
		"CSXS/manifest.xml": manifestXML("com.example.denied", "Denied", "1.0"),
	})

	_, err := New(root).Install(archive)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Install() error = %v, want ErrPermissionDenied", err)
	}
}

func TestInspect(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(t.TempDir(), "peek.zxp")
	doc := manifestXML("com.example.peek", "Peek", "2.1")
	writeArchive(t, archive, map[string]string{
		"CSXS/manifest.xml": doc,
		"index.html":        "<html></html>",
	})

	info, err := New(root).Inspect(archive)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if info.Bundle.BundleID != "com.example.peek" {
		t.Errorf("Info.Bundle.BundleID = %q, want %q", info.Bundle.BundleID, "com.example.peek")
	}
	if info.Files != 2 {
		t.Errorf("Info.Files = %d, want 2", info.Files)
	}
	wantBytes := int64(len(doc) + len("<html></html>"))
	if info.Bytes != wantBytes {
		t.Errorf("Info.Bytes = %d, want %d", info.Bytes, wantBytes)
	}

	// Inspection must not create the target directory.
	if _, err := os.Stat(filepath.Join(root, "com.example.peek")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Inspect() materialized a target directory: %v", err)
	}
}

func TestTargetName(t *testing.T) {
	tests := []struct {
		bundleID string
		want     string
	}{
		{"com.example.tools", "com.example.tools"},
		{"com.example.tools.panel", "com.example.tools"},
		{"com.example.tools.panel.main", "com.example.tools"},
		{"com.panel.example", "com"},
	}

	for _, tt := range tests {
		if got := targetName(tt.bundleID); got != tt.want {
			t.Errorf("targetName(%q) = %q, want %q", tt.bundleID, got, tt.want)
		}
	}
}
