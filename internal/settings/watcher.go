package settings

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reports external edits to the settings file on the returned channel.
// Events are debounced: editors write in bursts. The watcher runs until stop
// is closed.
func Watch(path string, logger *slog.Logger, stop <-chan struct{}) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: the file may not exist yet, and editors replace
	// files by rename.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		var timer *time.Timer
		fire := func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(200*time.Millisecond, fire)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("settings watcher error", "err", err)
			}
		}
	}()
	return changed, nil
}
