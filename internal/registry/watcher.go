package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher registers persona specs dropped into the persona directory while
// the process runs, so agents added by hand or by another process become
// selectable without a restart.
type Watcher struct {
	resolver *Resolver
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// WatchPersonaDir starts watching the resolver's persona directory. An
// initial scan picks up specs written before the watch began.
func WatchPersonaDir(r *Resolver) (*Watcher, error) {
	if err := os.MkdirAll(r.personaDir, 0755); err != nil {
		return nil, fmt.Errorf("create persona directory: %w", err)
	}
	if _, err := r.ScanPersonaDir(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(r.personaDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch persona directory: %w", err)
	}

	w := &Watcher{resolver: r, watcher: fsw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(filepath.Base(event.Name), ".yaml") {
				continue
			}
			// Rescan rather than parse the single file: writes can land
			// in multiple events and a scan is cheap at this scale.
			w.resolver.ScanPersonaDir()
		case <-w.watcher.Errors:
			// Keep watching.
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
	w.watcher.Close()
}
