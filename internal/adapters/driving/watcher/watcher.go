// Package watcher runs extractions for documents dropped into a directory.
//
// New or rewritten .pdf and .md files are extracted once their writes settle.
// Hidden files and directories are ignored, as are configured exclusions such
// as an output directory nested inside the watched tree.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driving"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is extracted.
const DefaultDebounce = 500 * time.Millisecond

// queueSize bounds settled paths waiting for extraction.
const queueSize = 64

// ErrClosed is returned when Run is called on a closed watcher.
var ErrClosed = errors.New("watcher: closed")

// ResultFunc receives the outcome of every extraction the watcher runs.
type ResultFunc func(path string, extraction *domain.Extraction, err error)

// Watcher extracts documents as they appear in a directory tree.
type Watcher struct {
	extraction driving.ExtractionService
	root       string
	debounce   time.Duration
	exclude    []string
	onResult   ResultFunc

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long writes must settle before extraction.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithExclude skips events under dir.
func WithExclude(dir string) Option {
	return func(w *Watcher) {
		if abs, err := filepath.Abs(dir); err == nil {
			w.exclude = append(w.exclude, abs)
		}
	}
}

// WithResultFunc registers a callback for extraction outcomes.
func WithResultFunc(fn ResultFunc) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// New creates a watcher over root.
func New(extraction driving.ExtractionService, root string, opts ...Option) *Watcher {
	w := &Watcher{
		extraction: extraction,
		root:       root,
		debounce:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()
	defer cancel()

	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch root: %s is not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}
	logger.Info("watching %s", w.root)

	queue := make(chan string, queueSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range queue {
			w.process(ctx, path)
		}
	}()

	done := make(chan struct{})
	ready := make(chan string)
	timers := make(map[string]*time.Timer)

	defer func() {
		close(done)
		for _, t := range timers {
			t.Stop()
		}
		close(queue)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.isNewDirectory(event) {
				if err := w.addTree(fsw, event.Name); err != nil {
					logger.Warn("watch %s: %v", event.Name, err)
				}
				continue
			}
			path, ok := w.handleEvent(event)
			if !ok {
				continue
			}
			if t, exists := timers[path]; exists {
				t.Reset(w.debounce)
				continue
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				select {
				case ready <- path:
				case <-done:
				}
			})

		case path := <-ready:
			delete(timers, path)
			select {
			case queue <- path:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// Close stops a running watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	return nil
}

// handleEvent returns the document path to extract for an event, if any.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if w.isHidden(event.Name) || w.isExcluded(event.Name) || !isWatchable(event.Name) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) isNewDirectory(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) || w.isHidden(event.Name) || w.isExcluded(event.Name) {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

// addTree watches dir and every visible subdirectory.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (isHidden(d.Name()) || w.isExcluded(path)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) process(ctx context.Context, path string) {
	extraction, err := w.extraction.Extract(ctx, path)
	switch {
	case err != nil:
		logger.Error("extract %s: %v", filepath.Base(path), err)
	default:
		logger.Info("extracted %s: %d tables in %s", filepath.Base(path), len(extraction.Tables), extraction.OutputDir)
	}

	if w.onResult != nil {
		w.onResult(path, extraction, err)
	}
}

// isHidden checks the part of path below the watched root, so a root that
// itself lives in a dot directory still works.
func (w *Watcher) isHidden(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return isHidden(path)
	}
	return isHidden(rel)
}

func (w *Watcher) isExcluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.exclude {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// isWatchable reports whether path names an input the watcher extracts.
func isWatchable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".md", ".markdown":
		return true
	default:
		return false
	}
}

// isHidden checks if any component of the path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}
	return false
}
