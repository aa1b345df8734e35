package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/dalfonso89/node-currency-converter/internal/logger"
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// FileWatcher reports changes to one file made by any process.
type FileWatcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	logger    *logrus.Entry
}

// NewFileWatcher watches the directory containing path, since atomic
// replacement swaps the file's inode and would orphan a watch on the file
// itself.
func NewFileWatcher(path string, log *logger.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(absolute)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absolute), err)
	}

	return &FileWatcher{
		fsWatcher: watcher,
		path:      absolute,
		logger:    log.Component("file_watcher").WithField("path", absolute),
	}, nil
}

// Watch calls onChange for every relevant event on the watched file until ctx
// is done or the watcher is closed. It blocks.
func (w *FileWatcher) Watch(ctx context.Context, onChange func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&relevantOps == 0 {
				continue
			}
			w.logger.WithField("op", event.Op.String()).Info("Exchanges file changed")
			onChange()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("File watcher error")
		}
	}
}

func (w *FileWatcher) Close() error {
	return w.fsWatcher.Close()
}
