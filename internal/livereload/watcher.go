package livereload

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Paths are the directories watched recursively for changes.
	Paths []string

	// Ignore holds directory/file name globs skipped while walking Paths
	// and while filtering events.
	Ignore []string

	// Debounce coalesces a burst of writes (editors routinely touch a
	// file more than once per save) into a single callback.
	Debounce time.Duration
}

var defaultIgnore = []string{".git", "node_modules", "dist", "tmp"}

// Watcher watches a set of directories for filesystem changes and
// invokes a debounced callback with the path that changed.
type Watcher struct {
	config  WatcherConfig
	fsw     *fsnotify.Watcher
	onEvent func(path string)
	stopCh  chan struct{}
}

// NewWatcher creates a Watcher. Call Start to begin watching.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = defaultIgnore
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config: config,
		fsw:    fsw,
		stopCh: make(chan struct{}),
	}, nil
}

// OnChange sets the callback invoked (at most once per Debounce window)
// with the path of a changed file.
func (w *Watcher) OnChange(fn func(path string)) {
	w.onEvent = fn
}

// Start adds every configured path recursively and begins processing
// events in the background. Start returns once watches are registered;
// event processing continues until Stop is called.
func (w *Watcher) Start() error {
	for _, p := range w.config.Paths {
		if err := w.addRecursive(p); err != nil {
			return err
		}
	}
	go w.processEvents()
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.ignored(info.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return nil
		}
		return nil
	})
}

func (w *Watcher) ignored(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, pat := range w.config.Ignore {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents() {
	var timer *time.Timer
	var pending string

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if w.ignored(filepath.Base(ev.Name)) {
				continue
			}
			pending = ev.Name

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.config.Debounce, func() {
				if w.onEvent != nil {
					w.onEvent(pending)
				}
			})

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

		case <-w.stopCh:
			return
		}
	}
}

// Stop stops watching and releases the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	return w.fsw.Close()
}
