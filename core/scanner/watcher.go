package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"Melodex/logger"
	"Melodex/model"
)

const fileSettleDelay = 500 * time.Millisecond

// Watch follows the given roots and keeps the database current until
// the context is cancelled. New and rewritten files are rescanned once
// they stop changing; removed files are marked unavailable.
func (sc *Scanner) Watch(ctx context.Context, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dirIDs := make(map[string]int)
	for _, root := range roots {
		if err := sc.watchTree(watcher, root, dirIDs); err != nil {
			return err
		}
	}

	// Files still being written show up as a stream of Write events, so
	// rescans wait until a file has been quiet for a while.
	pending := make(map[string]time.Time)
	settle := time.NewTicker(200 * time.Millisecond)
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			sc.handleEvent(watcher, event, dirIDs, pending)

		case <-settle.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) < fileSettleDelay {
					continue
				}
				delete(pending, path)
				id, ok := dirIDs[rootFor(path, dirIDs)]
				if !ok {
					continue
				}
				if err := sc.scanFile(ctx, path, id); err != nil {
					logger.Warn("Failed to rescan file", logger.String("path", path), logger.ErrorField(err))
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logger.ErrorField(err))
		}
	}
}

// watchTree registers root and every subdirectory with the watcher.
func (sc *Scanner) watchTree(watcher *fsnotify.Watcher, root string, dirIDs map[string]int) error {
	dir, err := sc.dirs.EnsureDirectory(root)
	if err != nil {
		return err
	}
	dirIDs[root] = dir.ID

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			logger.Warn("Failed to watch directory", logger.String("path", path), logger.ErrorField(err))
		}
		return nil
	})
}

func (sc *Scanner) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event, dirIDs map[string]int, pending map[string]time.Time) {
	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				// A new directory needs its own watch.
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn("Failed to watch directory", logger.String("path", event.Name), logger.ErrorField(err))
				}
				return
			}
		}
		if model.FileTypeFromSuffix(filepath.Ext(event.Name)) == model.FileTypeUnknown {
			return
		}
		pending[event.Name] = time.Now()

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(pending, event.Name)
		if model.FileTypeFromSuffix(filepath.Ext(event.Name)) == model.FileTypeUnknown {
			return
		}
		if err := sc.RemoveFile(event.Name); err != nil {
			logger.Warn("Failed to mark file unavailable", logger.String("path", event.Name), logger.ErrorField(err))
		}
	}
}

// rootFor finds the configured root containing path.
func rootFor(path string, dirIDs map[string]int) string {
	for root := range dirIDs {
		if rel, err := filepath.Rel(root, path); err == nil && filepath.IsLocal(rel) {
			return root
		}
	}
	return ""
}
