package internal

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settleDelay lets a burst of writes to one file land before it is handled.
const settleDelay = 100 * time.Millisecond

// Watcher calls a handler for every Python file written under a set of
// directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	handle  func(path string)
	logger  *zap.Logger
	delay   time.Duration
}

// NewWatcher watches dirs and their subdirectories. Directories created
// later are picked up as they appear.
func NewWatcher(dirs []string, handle func(path string), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}

	w := &Watcher{watcher: fw, handle: handle, logger: logger, delay: settleDelay}
	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// Watch delivers events until ctx is done, then releases the watcher.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err != nil {
			w.logger.Debug("not watching new path", zap.String("path", event.Name), zap.Error(err))
		}
	}
	if !event.Has(fsnotify.Write) || filepath.Ext(event.Name) != ".py" {
		return
	}

	time.Sleep(w.delay)
	w.logger.Debug("file written", zap.String("file", event.Name))
	w.handle(event.Name)
}
