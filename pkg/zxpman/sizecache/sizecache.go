// Package sizecache persists computed bundle sizes between scans.
// Walking a large extension bundle to sum its file sizes is the slow
// part of a scan; the cache keys each bundle by its directory path and
// trusts a cached size as long as the directory mtime is unchanged.
//
// The mtime check is conservative: edits deep inside a bundle do not
// touch the bundle directory itself, so a stale size can survive until
// the bundle is reinstalled. Installs and removals both change the
// directory and invalidate the entry.
package sizecache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no entry exists for a bundle.
var ErrNotFound = errors.New("cache entry not found")

// Entry is a cached bundle size snapshot.
type Entry struct {
	Size  int64 // Total bytes of regular files under the bundle
	Mtime int64 // Bundle directory modification time as UnixNano
}

// Encode serializes the entry to bytes using gob.
func (e *Entry) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes bytes into the entry using gob.
func (e *Entry) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(e)
}

// Cache wraps Badger for bundle size lookups.
type Cache struct {
	db *badger.DB
}

// Open opens or creates a cache at the given directory.
func Open(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{db: db}, nil
}

// Close closes the cache.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get retrieves the entry for a bundle path.
func (c *Cache) Get(bundlePath string) (*Entry, error) {
	var entry Entry

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(bundlePath))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(entry.Decode)
	})

	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put stores the entry for a bundle path.
func (c *Cache) Put(bundlePath string, entry *Entry) error {
	value, err := entry.Encode()
	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(bundlePath), value)
	})
}

// Delete removes the entry for a bundle path.
func (c *Cache) Delete(bundlePath string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(bundlePath))
	})
}

// ValidSize returns the cached size for a bundle if the cached mtime
// matches the directory's current mtime. The caller supplies the mtime
// from the stat it already performed.
func (c *Cache) ValidSize(bundlePath string, mtime time.Time) (int64, bool) {
	entry, err := c.Get(bundlePath)
	if err != nil {
		return 0, false
	}
	if entry.Mtime != mtime.UnixNano() {
		return 0, false
	}
	return entry.Size, true
}

// Record stores a freshly computed bundle size.
func (c *Cache) Record(bundlePath string, size int64, mtime time.Time) error {
	return c.Put(bundlePath, &Entry{Size: size, Mtime: mtime.UnixNano()})
}
