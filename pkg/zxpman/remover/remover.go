// Package remover deletes installed plugin bundles from the extensions
// root. Removal is permanent; bundles are directories and are deleted
// recursively.
package remover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/cepkit/zxpman/pkg/zxpman/logging"
)

var (
	// ErrNotFound indicates the bundle path does not exist.
	ErrNotFound = errors.New("plugin not found")

	// ErrNotDirectory indicates the path exists but is not a bundle
	// directory.
	ErrNotDirectory = errors.New("not a plugin directory")

	// ErrPermissionDenied indicates filesystem permissions blocked the
	// removal.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRemoveFailed indicates the removal failed partway; the bundle
	// directory may still partially exist.
	ErrRemoveFailed = errors.New("removal failed")
)

// Remover deletes plugin bundle directories.
type Remover struct {
	log *logging.Logger
}

// New creates a Remover.
func New() *Remover {
	return &Remover{log: logging.Get("remover")}
}

// Remove recursively deletes the bundle directory at path. Any error
// means the tree may still partially exist; callers must not assume
// the directory is gone.
func (r *Remover) Remove(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	r.log.Info("removing bundle", "path", path)

	if err := os.RemoveAll(path); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return fmt.Errorf("%w: %v", ErrRemoveFailed, err)
	}

	r.log.Debug("bundle removed", "path", path)
	return nil
}
