// Package history journals install and remove operations to the
// filesystem, one JSON file per operation.
package history

import "time"

// OperationType represents the type of operation.
type OperationType string

const (
	// OpInstall represents a bundle install.
	OpInstall OperationType = "install"
	// OpRemove represents a bundle removal.
	OpRemove OperationType = "remove"
)

// Entry represents a single journaled operation.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	BundleID  string        `json:"bundle_id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Version   string        `json:"version,omitempty"`
	Archive   string        `json:"archive,omitempty"`
	Dir       string        `json:"dir"`
	Files     int           `json:"files,omitempty"`
	Bytes     int64         `json:"bytes,omitempty"`
}

// InstallRecord describes a completed install for journaling.
type InstallRecord struct {
	// BundleID is the manifest's bundle identifier.
	BundleID string

	// Name is the bundle display name.
	Name string

	// Version is the bundle version.
	Version string

	// Archive is the source archive path.
	Archive string

	// Dir is the directory the bundle was installed into.
	Dir string

	// Files is the number of files written.
	Files int

	// Bytes is the uncompressed payload size written.
	Bytes int64
}
