// Package manifest reads CEP extension manifests. A bundle's manifest
// lives at CSXS/manifest.xml inside the bundle directory (and at the same
// relative path inside a .zxp archive), and the parser extracts exactly
// the three bundle attributes the rest of the tool needs: identifier,
// display name, and version.
package manifest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RelPath is the slash-separated location of the manifest relative to a
// bundle directory or archive root.
const RelPath = "CSXS/manifest.xml"

// UnknownVersion is reported when the manifest carries no version.
const UnknownVersion = "Unknown"

// manifestElement is the document element the parser scans for.
const manifestElement = "ExtensionManifest"

// Attribute names on the ExtensionManifest element.
const (
	attrBundleID      = "ExtensionBundleId"
	attrBundleName    = "ExtensionBundleName"
	attrBundleVersion = "ExtensionBundleVersion"
)

// ErrNotFound indicates the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

// ErrInvalid indicates the document is not a usable extension manifest:
// malformed markup, no ExtensionManifest element, or an empty bundle id.
var ErrInvalid = errors.New("invalid extension manifest")

// BundleManifest holds the bundle attributes extracted from a manifest.
// BundleID is always non-empty on a successful parse; Name and Version
// carry their documented fallbacks instead of empty strings.
type BundleManifest struct {
	// BundleID is the ExtensionBundleId attribute.
	BundleID string `json:"bundle_id"`

	// Name is the ExtensionBundleName attribute, or BundleID when the
	// manifest has no name.
	Name string `json:"name"`

	// Version is the ExtensionBundleVersion attribute, or "Unknown"
	// when the manifest has no version.
	Version string `json:"version"`
}

// Parse extracts bundle attributes from manifest document bytes.
//
// The document is scanned as a token stream: the first ExtensionManifest
// element with a non-empty ExtensionBundleId wins and scanning stops
// there. Elements with an empty id are skipped. A document with no such
// element is ErrInvalid, as is malformed markup encountered before one
// is found.
//
// Input bytes are decoded leniently. Invalid UTF-8 sequences are
// replaced rather than rejected, and unrecognized charset labels in the
// XML declaration are tolerated.
func Parse(data []byte) (*BundleManifest, error) {
	dec := xml.NewDecoder(strings.NewReader(strings.ToValidUTF8(string(data), "�")))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != manifestElement {
			continue
		}

		m := fromAttrs(se.Attr)
		if m.BundleID == "" {
			continue
		}
		return m, nil
	}

	return nil, fmt.Errorf("%w: no %s element with a bundle id", ErrInvalid, manifestElement)
}

// ParseFile reads and parses the manifest at path. A missing file maps
// to ErrNotFound so callers can distinguish "no manifest here" from a
// manifest that exists but cannot be used.
func ParseFile(path string) (*BundleManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data)
}

// fromAttrs builds a BundleManifest from element attributes, applying
// the name and version fallbacks. Attribute matching is by local name so
// namespace prefixes do not matter.
func fromAttrs(attrs []xml.Attr) *BundleManifest {
	var m BundleManifest
	for _, a := range attrs {
		switch a.Name.Local {
		case attrBundleID:
			m.BundleID = a.Value
		case attrBundleName:
			m.Name = a.Value
		case attrBundleVersion:
			m.Version = a.Value
		}
	}
	if m.Name == "" {
		m.Name = m.BundleID
	}
	if m.Version == "" {
		m.Version = UnknownVersion
	}
	return &m
}
