package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/cepkit/zxpman/pkg/zxpman/installer"
	"github.com/cepkit/zxpman/pkg/zxpman/manifest"
)

func TestNewPickerModel(t *testing.T) {
	m := NewPickerModel()

	if m.HasPreview() {
		t.Error("expected no preview initially")
	}
	if len(m.filepicker.AllowedTypes) != 1 || m.filepicker.AllowedTypes[0] != ".zxp" {
		t.Errorf("expected picker restricted to .zxp, got %v", m.filepicker.AllowedTypes)
	}
}

func TestPickerPreviewLifecycle(t *testing.T) {
	m := NewPickerModel()

	info := &installer.Info{
		Bundle: manifest.BundleManifest{
			BundleID: "com.example.panel",
			Name:     "Example Panel",
			Version:  "1.2.0",
		},
		Files: 42,
		Bytes: 1 << 20,
	}
	m.SetPreview("/tmp/example.zxp", info, nil)

	if !m.HasPreview() {
		t.Fatal("expected preview after SetPreview")
	}
	if !m.CanInstall() {
		t.Error("expected archive to be installable")
	}
	if m.Archive() != "/tmp/example.zxp" {
		t.Errorf("expected archive path, got %q", m.Archive())
	}

	m.ClearPreview()
	if m.HasPreview() {
		t.Error("expected no preview after ClearPreview")
	}
	if m.CanInstall() {
		t.Error("expected CanInstall false after ClearPreview")
	}
}

func TestPickerPreviewError(t *testing.T) {
	m := NewPickerModel()
	m.SetPreview("/tmp/broken.zxp", nil, errors.New("missing manifest"))

	if !m.HasPreview() {
		t.Fatal("expected preview state for failed inspection")
	}
	if m.CanInstall() {
		t.Error("expected CanInstall false for failed inspection")
	}

	view := m.View()
	if !strings.Contains(view, "Cannot read archive") {
		t.Error("expected inspection error in view")
	}
	if !strings.Contains(view, "missing manifest") {
		t.Error("expected error detail in view")
	}
}

func TestPickerPreviewView(t *testing.T) {
	m := NewPickerModel()
	m.SetDimensions(100, 30)
	m.SetPreview("/tmp/example.zxp", &installer.Info{
		Bundle: manifest.BundleManifest{
			BundleID: "com.example.panel",
			Name:     "Example Panel",
			Version:  "1.2.0",
		},
		Files: 1234,
		Bytes: 2 << 20,
	}, nil)

	view := m.View()
	if !strings.Contains(view, "Example Panel") {
		t.Error("expected bundle name in preview")
	}
	if !strings.Contains(view, "com.example.panel") {
		t.Error("expected bundle id in preview")
	}
	if !strings.Contains(view, "1,234") {
		t.Error("expected comma-separated file count in preview")
	}
	if !strings.Contains(view, "MiB") {
		t.Error("expected payload size in preview")
	}
}

func TestPickerSetDimensions(t *testing.T) {
	m := NewPickerModel()

	m.SetDimensions(100, 40)
	if m.filepicker.Height != 30 {
		t.Errorf("expected picker height 30, got %d", m.filepicker.Height)
	}

	// Small terminals keep a usable minimum
	m.SetDimensions(80, 8)
	if m.filepicker.Height != 5 {
		t.Errorf("expected minimum picker height 5, got %d", m.filepicker.Height)
	}
}
