// Package engine wires the scanner, installer, and remover together
// with the process-wide notification slot and refresh token. The UI
// layer talks to one Engine; asynchronous operations deliver their
// outcome exclusively through notifications and refresh bumps.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/cepkit/zxpman/pkg/zxpman/history"
	"github.com/cepkit/zxpman/pkg/zxpman/installer"
	"github.com/cepkit/zxpman/pkg/zxpman/logging"
	"github.com/cepkit/zxpman/pkg/zxpman/notify"
	"github.com/cepkit/zxpman/pkg/zxpman/refresh"
	"github.com/cepkit/zxpman/pkg/zxpman/remover"
	"github.com/cepkit/zxpman/pkg/zxpman/scanner"
	"github.com/cepkit/zxpman/pkg/zxpman/sizecache"
	"github.com/cepkit/zxpman/pkg/zxpman/types"
)

// Options configures an Engine.
type Options struct {
	// Root is the extensions root directory.
	Root string

	// Ignore contains glob patterns for bundle directories to hide
	// from scans.
	Ignore []string

	// Cache is the optional bundle size cache.
	Cache *sizecache.Cache

	// Journal is the optional operation journal.
	Journal *history.Journal

	// NotifyOptions configure the notification center.
	NotifyOptions []notify.Option
}

// Engine is the application facade over plugin operations.
type Engine struct {
	scanner   *scanner.Scanner
	installer *installer.Installer
	remover   *remover.Remover
	center    *notify.Center
	token     *refresh.Token
	journal   *history.Journal
	log       *logging.Logger

	mu            sync.RWMutex
	lastInstalled string
}

// New creates an Engine rooted at opts.Root.
func New(opts Options) *Engine {
	return &Engine{
		scanner:   scanner.New(scanner.Options{Root: opts.Root, Cache: opts.Cache, Ignore: opts.Ignore}),
		installer: installer.New(opts.Root),
		remover:   remover.New(),
		center:    notify.New(opts.NotifyOptions...),
		token:     refresh.New(),
		journal:   opts.Journal,
		log:       logging.Get("engine"),
	}
}

// Scan enumerates the installed plugins.
func (e *Engine) Scan(ctx context.Context) ([]types.Plugin, error) {
	return e.scanner.Scan(ctx)
}

// Install installs the archive and returns the installed directory.
// The completed install is journaled and marked as the newly installed
// plugin for the UI highlight.
func (e *Engine) Install(archive string) (string, error) {
	res, err := e.installer.Install(archive)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	e.lastInstalled = res.Dir
	e.mu.Unlock()

	if e.journal != nil {
		_, jerr := e.journal.LogInstall(history.InstallRecord{
			BundleID: res.Bundle.BundleID,
			Name:     res.Bundle.Name,
			Version:  res.Bundle.Version,
			Archive:  archive,
			Dir:      res.Dir,
			Files:    res.Files,
			Bytes:    res.Bytes,
		})
		if jerr != nil {
			e.log.Warn("failed to journal install", "error", jerr)
		}
	}

	return res.Dir, nil
}

// Remove deletes the plugin directory at path.
func (e *Engine) Remove(path string) error {
	if err := e.remover.Remove(path); err != nil {
		return err
	}

	e.mu.Lock()
	if e.lastInstalled == path {
		e.lastInstalled = ""
	}
	e.mu.Unlock()

	if e.journal != nil {
		if _, jerr := e.journal.LogRemove(path); jerr != nil {
			e.log.Warn("failed to journal removal", "error", jerr)
		}
	}

	return nil
}

// Inspect reports an archive's embedded manifest and payload size
// without installing it.
func (e *Engine) Inspect(archive string) (*installer.Info, error) {
	return e.installer.Inspect(archive)
}

// InstallAsync installs in the background. The outcome arrives as
// exactly one notification, plus a refresh bump on success.
func (e *Engine) InstallAsync(archive string) {
	go func() {
		if _, err := e.Install(archive); err != nil {
			e.log.Error("install failed", "archive", archive, "error", err)
			e.center.Post(fmt.Sprintf("Failed to install plugin: %v", err), notify.Error)
			return
		}
		e.center.Post("Plugin installed successfully!", notify.Success)
		e.token.Bump()
	}()
}

// RemoveAsync removes in the background. The outcome arrives as
// exactly one notification, plus a refresh bump on success.
func (e *Engine) RemoveAsync(path string) {
	go func() {
		if err := e.Remove(path); err != nil {
			e.log.Error("removal failed", "path", path, "error", err)
			e.center.Post(fmt.Sprintf("Failed to remove plugin: %v", err), notify.Error)
			return
		}
		e.center.Post("Plugin removed successfully!", notify.Success)
		e.token.Bump()
	}()
}

// Notify posts a notification on behalf of the UI layer.
func (e *Engine) Notify(text string, cat notify.Category) {
	e.center.Post(text, cat)
}

// Notifier returns the shared notification center.
func (e *Engine) Notifier() *notify.Center {
	return e.center
}

// Token returns the shared refresh token.
func (e *Engine) Token() *refresh.Token {
	return e.token
}

// Journal returns the operation journal, or nil when journaling is
// disabled.
func (e *Engine) Journal() *history.Journal {
	return e.journal
}

// LastInstalled returns the directory of the most recently installed
// plugin, or "" when none is highlighted.
func (e *Engine) LastInstalled() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastInstalled
}

// ClearLastInstalled drops the newly-installed highlight.
func (e *Engine) ClearLastInstalled() {
	e.mu.Lock()
	e.lastInstalled = ""
	e.mu.Unlock()
}

// Close releases the engine's reactive state.
func (e *Engine) Close() {
	e.center.Close()
	e.token.Close()
}
