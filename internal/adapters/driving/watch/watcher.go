// Package watch imports legal documents dropped into a directory.
//
// Create and write events are collected per file and imported once the
// file has been quiet for the debounce window, so a PDF still being
// copied is not parsed half-written. Imports run one at a time.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driving"
	"github.com/custodia-labs/vnlaw/internal/logger"
)

// DefaultDebounce is the quiet period before a changed file is imported.
const DefaultDebounce = 2 * time.Second

// Result reports the outcome of one import.
type Result struct {
	Path   string
	Import *domain.ImportResult
	Err    error
}

// Options configures a Watcher.
type Options struct {
	// Extensions are the file extensions to import, with leading dot.
	Extensions []string

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Template is copied into every import request; Path is set per file.
	Template domain.ImportRequest

	// OnResult is called after every import attempt.
	OnResult func(Result)
}

// Watcher imports files that appear or change in a directory.
type Watcher struct {
	ingest   driving.IngestService
	dir      string
	exts     map[string]bool
	debounce time.Duration
	template domain.ImportRequest
	onResult func(Result)
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a watcher for dir.
func New(ingest driving.IngestService, dir string, opts Options) *Watcher {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = true
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	onResult := opts.OnResult
	if onResult == nil {
		onResult = func(Result) {}
	}
	return &Watcher{
		ingest:   ingest,
		dir:      dir,
		exts:     exts,
		debounce: debounce,
		template: opts.Template,
		onResult: onResult,
		now:      time.Now,
		pending:  make(map[string]time.Time),
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrFileNotFound, w.dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching %s for %s", w.dir, strings.Join(w.extensions(), ", "))

	ticker := time.NewTicker(max(w.debounce/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.accept(event); ok {
				w.notify(path)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		case <-ticker.C:
			for _, path := range w.due() {
				if ctx.Err() != nil {
					return nil
				}
				w.importFile(ctx, path)
			}
		}
	}
}

// accept filters events down to created or rewritten files with a
// watched extension.
func (w *Watcher) accept(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	if !w.exts[strings.ToLower(filepath.Ext(name))] {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

// notify records a change to path.
func (w *Watcher) notify(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = w.now()
}

// due removes and returns, sorted, the files quiet for the debounce window.
func (w *Watcher) due() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	threshold := w.now().Add(-w.debounce)
	var paths []string
	for path, changed := range w.pending {
		if changed.After(threshold) {
			continue
		}
		paths = append(paths, path)
		delete(w.pending, path)
	}
	sort.Strings(paths)
	return paths
}

func (w *Watcher) importFile(ctx context.Context, path string) {
	logger.Section(filepath.Base(path))
	req := w.template
	req.Path = path

	res, err := w.ingest.Import(ctx, req)
	if err != nil {
		logger.Warn("importing %s: %v", path, err)
	} else {
		logger.Info("imported %s as %s (%s)", path, res.Code, res.Mode)
	}
	w.onResult(Result{Path: path, Import: res, Err: err})
}

func (w *Watcher) extensions() []string {
	exts := make([]string, 0, len(w.exts))
	for ext := range w.exts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
