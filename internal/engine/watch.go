package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the corpus whenever its file is written, created or renamed
// into place. Events are debounced so an editor's save sequence triggers one
// reload. It blocks until ctx is cancelled.
func (e *Engine) Watch(ctx context.Context) error {
	if e.sourceName == "" || e.sourceName == "memory" {
		return fmt.Errorf("engine has no corpus file to watch")
	}
	target, err := filepath.Abs(e.sourceName)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and deploy tools often replace the file
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	e.logger.Info("watching corpus file", "path", target, "debounce", e.debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time // nil until an event arms the timer
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isReloadEvent(event, target) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(e.debounce)
			} else {
				timer.Reset(e.debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("file watcher error", "err", err)
		case <-fire:
			fire = nil
			if _, err := e.Reload(ctx); err != nil {
				e.logger.Warn("keeping previous snapshot after failed reload", "err", err)
			}
		}
	}
}

// isReloadEvent reports whether event changes the file at target.
func isReloadEvent(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
