// Package scanner discovers installed extension bundles under the
// extensions root. A bundle is any immediate subdirectory carrying a
// manifest at CSXS/manifest.xml; everything else at the root level is
// ignored. Bundle sizes are computed with a parallel walk and reused
// from the size cache when the bundle directory is unchanged.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/gobwas/glob"

	"github.com/cepkit/zxpman/pkg/zxpman/logging"
	"github.com/cepkit/zxpman/pkg/zxpman/manifest"
	"github.com/cepkit/zxpman/pkg/zxpman/sizecache"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
)

// Options configures the scanner behavior.
type Options struct {
	// Root is the extensions directory to scan.
	Root string

	// Cache is an optional bundle size cache for speeding up repeat
	// scans. If nil, sizes are recomputed every time.
	Cache *sizecache.Cache

	// Ignore contains glob patterns matched against candidate directory
	// names. Matching directories are skipped even when they carry a
	// valid manifest.
	Ignore []string
}

// Scanner enumerates installed plugins.
type Scanner struct {
	opts   Options
	ignore []glob.Glob
	log    *logging.Logger
}

// New creates a new Scanner with the given options.
// Invalid ignore patterns are dropped with a warning.
func New(opts Options) *Scanner {
	log := logging.Get("scanner")

	ignore := make([]glob.Glob, 0, len(opts.Ignore))
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			log.Warn("invalid ignore pattern", "pattern", pattern, "error", err)
			continue
		}
		ignore = append(ignore, g)
	}

	return &Scanner{
		opts:   opts,
		ignore: ignore,
		log:    log,
	}
}

// ignored returns true if the directory name matches any ignore pattern.
func (s *Scanner) ignored(name string) bool {
	for _, g := range s.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Scan returns one Plugin per valid bundle under the root, sorted by
// name. Each call reads the directory fresh; results are snapshots.
//
// A missing root is an empty installation, not an error: the result is
// an empty slice. Scan fails only when the root exists but cannot be
// read. Individual candidates that cannot be used (no manifest, broken
// manifest) are skipped without failing the scan, and a bundle whose
// size cannot be computed is reported with a placeholder size.
func (s *Scanner) Scan(ctx context.Context) ([]types.Plugin, error) {
	entries, err := os.ReadDir(s.opts.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("extensions root does not exist", "root", s.opts.Root)
			return []types.Plugin{}, nil
		}
		return nil, fmt.Errorf("reading extensions root %s: %w", s.opts.Root, err)
	}

	plugins := make([]types.Plugin, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		if s.ignored(entry.Name()) {
			s.log.Debug("skipping ignored directory", "dir", entry.Name())
			continue
		}

		plugin, ok := s.inspectBundle(filepath.Join(s.opts.Root, entry.Name()))
		if !ok {
			continue
		}
		plugins = append(plugins, plugin)
	}

	sort.Slice(plugins, func(i, j int) bool {
		return strings.ToLower(plugins[i].Name) < strings.ToLower(plugins[j].Name)
	})

	s.log.Debug("scan complete", "root", s.opts.Root, "plugins", len(plugins))
	return plugins, nil
}

// inspectBundle builds a Plugin from a candidate directory, or reports
// that the directory is not a usable bundle.
func (s *Scanner) inspectBundle(dir string) (types.Plugin, bool) {
	m, err := manifest.ParseFile(filepath.Join(dir, filepath.FromSlash(manifest.RelPath)))
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			s.log.Debug("skipping directory without manifest", "dir", dir)
		} else {
			s.log.Warn("skipping bundle with unusable manifest", "dir", dir, "error", err)
		}
		return types.Plugin{}, false
	}

	return types.Plugin{
		Name:    m.Name,
		Version: m.Version,
		Size:    s.bundleSize(dir),
		Path:    dir,
		Kind:    types.Classify(m.BundleID),
	}, true
}

// bundleSize returns the formatted on-disk size of a bundle, consulting
// the cache first and recording fresh computations into it.
func (s *Scanner) bundleSize(dir string) string {
	info, err := os.Stat(dir)
	if err != nil {
		s.log.Warn("stat bundle failed", "dir", dir, "error", err)
		return types.SizeUnknown
	}

	if s.opts.Cache != nil {
		if size, ok := s.opts.Cache.ValidSize(dir, info.ModTime()); ok {
			return types.FormatSize(size)
		}
	}

	size, err := dirSize(dir)
	if err != nil {
		s.log.Warn("sizing bundle failed", "dir", dir, "error", err)
		return types.SizeUnknown
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Record(dir, size, info.ModTime()); err != nil {
			s.log.Debug("recording bundle size failed", "dir", dir, "error", err)
		}
	}

	return types.FormatSize(size)
}

// dirSize sums the sizes of regular files under dir. The walk is
// parallel, so the accumulator must be atomic. Symlinks are not
// followed. Any walk error aborts the computation; partial sums are
// never reported.
func dirSize(dir string) (int64, error) {
	var total atomic.Int64

	conf := fastwalk.Config{
		Follow: false,
	}
	err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total.Add(info.Size())
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total.Load(), nil
}
