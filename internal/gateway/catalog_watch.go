package gateway

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/naka-gawa/idealab/internal/domain"
	"go.uber.org/zap"
)

// WatchedCatalog keeps a parsed file catalog in memory and reloads it when the
// file changes. Readers always get a copy of the last good snapshot.
type WatchedCatalog struct {
	file    *FileCatalog
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	snapshot atomic.Pointer[catalogSnapshot]
	reloads  atomic.Int64

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

type catalogSnapshot struct {
	molecules []domain.Molecule
	err       error
}

// NewWatchedCatalog creates a watcher for the catalog at path. Call Start to
// load it and begin watching.
func NewWatchedCatalog(path string, logger *zap.Logger) (*WatchedCatalog, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	return &WatchedCatalog{
		file:    NewFileCatalog(abs, logger),
		path:    abs,
		watcher: watcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start performs the initial load and watches the catalog's directory, so
// editors that replace the file on save are picked up too. It does not block.
func (w *WatchedCatalog) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.reload(ctx)

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("Watching catalog", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. It also
// releases the watcher when Start was never called or failed.
func (w *WatchedCatalog) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	w.closeOnce.Do(func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Failed to close catalog watcher", zap.Error(err))
		}
	})
}

// LoadMolecules returns the current snapshot.
func (w *WatchedCatalog) LoadMolecules(context.Context) ([]domain.Molecule, error) {
	snap := w.snapshot.Load()
	if snap == nil {
		return nil, fmt.Errorf("catalog %s has not been loaded", w.path)
	}
	if snap.err != nil {
		return nil, snap.err
	}
	return append([]domain.Molecule{}, snap.molecules...), nil
}

// Reloads is the number of loads attempted so far, including the first.
func (w *WatchedCatalog) Reloads() int64 {
	return w.reloads.Load()
}

func (w *WatchedCatalog) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Catalog changed", zap.String("op", event.Op.String()))
			w.reload(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Catalog watcher error", zap.Error(err))
		}
	}
}

// reload keeps the previous snapshot when the new file does not parse, unless
// there is nothing better to serve.
func (w *WatchedCatalog) reload(ctx context.Context) {
	defer w.reloads.Add(1)
	molecules, err := w.file.LoadMolecules(ctx)
	if err != nil {
		w.logger.Warn("Failed to reload catalog", zap.String("path", w.path), zap.Error(err))
		if prev := w.snapshot.Load(); prev != nil && prev.err == nil {
			return
		}
		w.snapshot.Store(&catalogSnapshot{err: err})
		return
	}
	w.snapshot.Store(&catalogSnapshot{molecules: molecules})
}
