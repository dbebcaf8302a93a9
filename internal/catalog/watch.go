package catalog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/jask/rangmanch/internal/library"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a catalog file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
}

// NewWatcher watches path. A nil logger discards output.
func NewWatcher(path string, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{path: path, debounce: DefaultDebounce, logger: logger}
}

// Run watches until ctx is cancelled, calling onChange with each reload
// result. It watches the parent directory so that editors that replace the
// file by rename are still seen. Run returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, onChange func([]library.ContentItem, error)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Info("watching catalog", "path", abs)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("catalog watcher stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", "err", err)
		case <-timer.C:
			items, err := LoadFile(abs)
			if err != nil {
				w.logger.Warn("catalog reload failed", "err", err)
			} else {
				w.logger.Info("catalog reloaded", "items", len(items))
			}
			onChange(items, err)
		}
	}
}
