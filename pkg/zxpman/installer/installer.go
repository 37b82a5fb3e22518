// Package installer materializes .zxp plugin archives under the
// extensions root. An archive is a ZIP container whose root holds
// CSXS/manifest.xml plus arbitrary payload; the install target
// directory is named after the manifest's bundle id.
package installer

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cepkit/zxpman/pkg/zxpman/logging"
	"github.com/cepkit/zxpman/pkg/zxpman/manifest"
)

// Ext is the required archive file extension, matched case-insensitively.
const Ext = ".zxp"

// panelMarker ends the portion of a bundle id used as the install
// directory name. Panel-scoped ids carry a suffix after this marker
// that must not become part of the directory name.
const panelMarker = ".panel"

var (
	// ErrArchiveNotFound indicates the archive path does not exist.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrInvalidExtension indicates the file is not named *.zxp.
	ErrInvalidExtension = errors.New("not a .zxp archive")

	// ErrInvalidArchive indicates the file is not a readable ZIP
	// container carrying a parseable CSXS/manifest.xml.
	ErrInvalidArchive = errors.New("invalid zxp archive")

	// ErrPermissionDenied indicates the install target directory
	// could not be created due to filesystem permissions.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrExtractFailed indicates extraction into the target directory
	// failed partway; the target may hold a partial payload.
	ErrExtractFailed = errors.New("extraction failed")
)

// Result describes a completed install.
type Result struct {
	// Dir is the directory the bundle was installed into.
	Dir string

	// Bundle is the manifest embedded in the archive.
	Bundle manifest.BundleManifest

	// Files is the number of regular files written.
	Files int

	// Bytes is the total uncompressed payload size written.
	Bytes int64
}

// Info describes an archive without extracting it.
type Info struct {
	// Bundle is the manifest embedded in the archive.
	Bundle manifest.BundleManifest

	// Files is the number of regular file entries.
	Files int

	// Bytes is the total uncompressed payload size.
	Bytes int64
}

// Installer extracts plugin archives into the extensions root.
type Installer struct {
	root string
	log  *logging.Logger
}

// New creates an Installer that installs bundles under root.
func New(root string) *Installer {
	return &Installer{
		root: root,
		log:  logging.Get("installer"),
	}
}

// Install validates the archive at archivePath and extracts it into a
// directory under the extensions root named after the bundle id
// (truncated at the ".panel" marker). Re-installing an already present
// bundle overwrites its files in place.
func (i *Installer) Install(archivePath string) (*Result, error) {
	i.log.Debug("installing archive", "path", archivePath)

	r, m, err := i.open(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	name := targetName(m.BundleID)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: bundle id %q is not a valid directory name", ErrInvalidArchive, m.BundleID)
	}

	target := filepath.Join(i.root, name)
	if err := os.MkdirAll(target, 0o755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	if err := i.checkSpace(&r.Reader); err != nil {
		return nil, err
	}

	res := &Result{Dir: target, Bundle: *m}
	for _, f := range r.File {
		written, err := extractEntry(f, target)
		if err != nil {
			return nil, err
		}
		if !f.FileInfo().IsDir() {
			res.Files++
			res.Bytes += written
		}
	}

	i.log.Info("installed bundle",
		"id", m.BundleID, "dir", target, "files", res.Files, "bytes", res.Bytes)
	return res, nil
}

// Inspect validates the archive at archivePath and reports its embedded
// manifest and uncompressed payload size without writing anything.
func (i *Installer) Inspect(archivePath string) (*Info, error) {
	r, m, err := i.open(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	info := &Info{Bundle: *m}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		info.Files++
		info.Bytes += int64(f.UncompressedSize64)
	}
	return info, nil
}

// open runs the validation ladder shared by Install and Inspect: the
// archive must exist, be named *.zxp, open as a ZIP container, and
// carry a parseable manifest. The caller owns the returned reader.
func (i *Installer) open(archivePath string) (*zip.ReadCloser, *manifest.BundleManifest, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, archivePath)
	}
	if !strings.EqualFold(filepath.Ext(archivePath), Ext) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidExtension, filepath.Base(archivePath))
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	m, err := readManifest(&r.Reader)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, m, nil
}

// readManifest locates and parses CSXS/manifest.xml inside the archive.
func readManifest(r *zip.Reader) (*manifest.BundleManifest, error) {
	for _, f := range r.File {
		if path.Clean(f.Name) != manifest.RelPath {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}

		m, err := manifest.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: missing %s", ErrInvalidArchive, manifest.RelPath)
}

// checkSpace compares the archive's uncompressed size against the
// available bytes on the extensions root's filesystem. Platforms
// without a usable statfs skip the check.
func (i *Installer) checkSpace(r *zip.Reader) error {
	var need int64
	for _, f := range r.File {
		need += int64(f.UncompressedSize64)
	}

	avail, ok := availableSpace(i.root)
	if !ok {
		return nil
	}
	if avail < need {
		return fmt.Errorf("%w: need %d bytes, %d available", ErrExtractFailed, need, avail)
	}
	return nil
}

// extractEntry writes one archive entry under target, returning the
// number of payload bytes written. Entry names are attacker-controlled,
// so every destination is normalized and checked against the target
// directory before any write.
func extractEntry(f *zip.File, target string) (int64, error) {
	dest := filepath.Join(target, filepath.FromSlash(f.Name))
	if escapes(target, dest) {
		return 0, fmt.Errorf("%w: entry %q escapes the install directory", ErrExtractFailed, f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrExtractFailed, err)
		}
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	rc, err := f.Open()
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	written, err := io.Copy(out, rc)
	rc.Close()
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return written, fmt.Errorf("%w: writing %s: %v", ErrExtractFailed, f.Name, err)
	}
	return written, nil
}

// targetName derives the install directory name from a bundle id,
// dropping any panel-scoped suffix.
func targetName(bundleID string) string {
	if idx := strings.Index(bundleID, panelMarker); idx >= 0 {
		return bundleID[:idx]
	}
	return bundleID
}

// escapes reports whether dest does not stay under base once normalized.
func escapes(base, dest string) bool {
	rel, err := filepath.Rel(base, dest)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
