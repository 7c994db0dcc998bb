package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/service"
	"github.com/fsnotify/fsnotify"
)

// CatalogueWatcher rebuilds the planner's index wholesale whenever the
// catalogue file is written or replaced. A failed reload keeps the old
// index.
type CatalogueWatcher struct {
	path     string
	planner  service.PlannerService
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	done     chan struct{}
	onReload func(*contract.RebuildResponse, error)
}

// WatchCatalogue starts watching path. onReload, when set, is called after
// every reload attempt.
func WatchCatalogue(path string, p service.PlannerService, logger *slog.Logger, onReload func(*contract.RebuildResponse, error)) (*CatalogueWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that save by rename are still seen.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &CatalogueWatcher{
		path:     absPath,
		planner:  p,
		logger:   logger,
		watcher:  watcher,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		onReload: onReload,
	}
	go w.loop()
	logger.Info("watching catalogue for changes", "path", absPath)
	return w, nil
}

// Stop ends the watch and waits for the loop to exit.
func (w *CatalogueWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	<-w.done
}

func (w *CatalogueWatcher) loop() {
	defer close(w.done)
	filename := filepath.Base(w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("catalogue changed", "event", event.Op.String(), "file", event.Name)
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalogue watcher error", "error", err)

		case <-w.stopCh:
			return
		}
	}
}

func (w *CatalogueWatcher) reload() {
	resp, err := w.planner.Rebuild(context.Background(), contract.RebuildRequest{Reload: true})
	if err != nil {
		w.logger.Error("catalogue reload failed, keeping old index", "error", err)
	} else {
		w.logger.Info("catalogue reloaded",
			"offerings", resp.Offerings,
			"visible", resp.Visible,
			"orphaned", len(resp.Orphaned))
	}
	if w.onReload != nil {
		w.onReload(resp, err)
	}
}
