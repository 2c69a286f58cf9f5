package config

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchOption configures Watch.
type WatchOption func(*watcher)

// WithErrorHandler receives load and watcher errors. Without one, errors
// are dropped and the previous configuration stays in effect.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(w *watcher) { w.onError = fn }
}

type watcher struct {
	path     string
	onChange func(*Config)
	onError  func(error)
	lastHash [32]byte
}

// Watch reloads path whenever its contents change and passes each valid
// configuration to fn. It watches the parent directory so editors that
// replace the file are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Config), opts ...WatchOption) error {
	w := &watcher{path: filepath.Clean(path), onChange: fn}
	for _, opt := range opts {
		opt(w)
	}
	if data, err := os.ReadFile(w.path); err == nil {
		w.lastHash = sha256.Sum256(data)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.checkForChanges()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.report(err)
		}
	}
}

func (w *watcher) checkForChanges() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.report(err)
		}
		return
	}
	hash := sha256.Sum256(data)
	if hash == w.lastHash {
		return
	}
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		w.report(err)
		return
	}
	w.lastHash = hash
	w.onChange(cfg)
}

func (w *watcher) report(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
