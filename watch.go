package grove

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchQueueSize = 64

// Watcher reports changed scene definition files. fsnotify delivers events
// on its own goroutine; Watcher hands them to the frame loop through a
// buffered channel drained by Poll, so scene state is only touched on the
// frame thread.
type Watcher struct {
	root    string
	fw      *fsnotify.Watcher
	changed chan string
	done    chan struct{}
	log     *zap.Logger
}

// NewWatcher watches the directory root. Reported paths are slash-separated
// and relative to root, matching the paths in the scene directory.
// Subdirectories are not watched; call WatchScenes for scene files that
// live below root.
func NewWatcher(root string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.L()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(root); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	w := &Watcher{
		root:    root,
		fw:      fw,
		changed: make(chan string, watchQueueSize),
		done:    make(chan struct{}),
		log:     log,
	}
	go w.loop()
	return w, nil
}

// WatchScenes adds the parent directory of every scene file in dir that is
// not directly under root.
func (w *Watcher) WatchScenes(dir Directory) error {
	seen := make(map[string]bool)
	for _, e := range dir.Scenes {
		sub := filepath.Dir(filepath.FromSlash(e.Path))
		if sub == "." || seen[sub] {
			continue
		}
		seen[sub] = true
		if err := w.fw.Add(filepath.Join(w.root, sub)); err != nil {
			return fmt.Errorf("watch %s: %w", sub, err)
		}
	}
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				continue
			}
			select {
			case w.changed <- filepath.ToSlash(rel):
			default:
				w.log.Warn("watch queue full; dropping event", zap.String("file", rel))
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// Poll returns the next changed path without blocking.
func (w *Watcher) Poll() (string, bool) {
	select {
	case p := <-w.changed:
		return p, true
	default:
		return "", false
	}
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}

// reloadOnChange queues a reload of the active scene for each pending change
// to its definition file. Returns true if a reload was queued.
func reloadOnChange(w *Watcher, m *SceneManager) bool {
	queued := false
	for {
		path, ok := w.Poll()
		if !ok {
			return queued
		}
		active := m.Active()
		if active == nil || path != active.Path() {
			continue
		}
		m.ctx.logger().Info("scene file changed; reloading", zap.String("scene", m.ActiveID()), zap.String("file", path))
		queued = m.QueueTransition(m.ActiveID()) || queued
	}
}
