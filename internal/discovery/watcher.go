package discovery

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/pleimann/rebinder/internal/mapping"
)

// settle is how long the watcher waits for a burst of file events to end
// before rediscovering
const settle = 100 * time.Millisecond

// Watcher rediscovers contexts whenever a context file under root changes
type Watcher struct {
	root     string
	pattern  string
	watcher  *fsnotify.Watcher
	log      zerolog.Logger
	mu       sync.Mutex
	handlers []func(mapping.Contexts)
	timer    *time.Timer
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches root and every directory below it
func NewWatcher(root, pattern string, log zerolog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dw := &Watcher{
		root:    root,
		pattern: pattern,
		watcher: w,
		log:     log,
		done:    make(chan struct{}),
	}

	if err := dw.addTree(root); err != nil {
		w.Close()
		return nil, err
	}

	return dw, nil
}

// OnChange registers a handler called with freshly discovered contexts
func (w *Watcher) OnChange(handler func(mapping.Contexts)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start starts watching in the background
func (w *Watcher) Start() {
	go w.watch()
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("context watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// New subdirectories need their own watch
	if event.Op&fsnotify.Create != 0 {
		if err := w.addTree(event.Name); err != nil {
			w.log.Debug().Err(err).Str("path", event.Name).Msg("not watching created path")
		}
	}

	ok, _ := filepath.Match(w.pattern, filepath.Base(event.Name))
	if !ok {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(settle, w.rediscover)
}

func (w *Watcher) rediscover() {
	select {
	case <-w.done:
		return
	default:
	}

	contexts, err := Discover(w.root, w.pattern)
	if err != nil {
		w.log.Warn().Err(err).Msg("failed to rediscover mapping contexts")
		return
	}

	w.mu.Lock()
	handlers := make([]func(mapping.Contexts), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	w.log.Info().Int("contexts", len(contexts)).Msg("mapping contexts changed")

	for _, handler := range handlers {
		handler(contexts)
	}
}
