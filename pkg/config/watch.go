package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/dockworks/pkg/errors"
)

// Watcher reloads a config file when it changes on disk.
//
// The parent directory is watched rather than the file so editors that
// replace the file by rename are still seen.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching path. Changes are delivered by [Watcher.Run].
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "resolve %s", path)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "create watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "watch %s", filepath.Dir(abs))
	}
	return &Watcher{path: abs, watcher: w}, nil
}

// Run calls fn with the reloaded config, or the load error, after every
// change to the file. It returns when ctx is cancelled and closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context, fn func(*Config, error)) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fn(Load(w.path))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			fn(nil, errors.Wrap(errors.ErrCodeConfig, err, "watch %s", w.path))
		}
	}
}
