// Package watch triggers registry reloads when the stylesheet directory
// changes on disk. Events are debounced so an editor writing a file in
// several bursts causes one reload, not five.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/usercss/userstyles/internal/styles/common/log"
)

// Watcher debounces file events under one directory into reload calls.
type Watcher struct {
	dir      string
	debounce time.Duration
	reload   func()
}

// New constructs a Watcher. reload runs on the watcher's goroutine after
// the directory has been quiet for the debounce period.
func New(dir string, debounce time.Duration, reload func()) *Watcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{dir: dir, debounce: debounce, reload: reload}
}

// Run watches until ctx is cancelled. It never fires an initial reload;
// callers load the starting state themselves.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug(map[string]any{"event": ev.String()}, "Stylesheet directory changed")
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn(map[string]any{"error": err}, "Stylesheet watcher error")
		case <-timer.C:
			pending = false
			w.reload()
		}
	}
}
