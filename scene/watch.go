package scene

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long a file must stay quiet before its change is reported.
const Debounce = 100 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher reports changed scene and script files under a set of directories.
// A burst of writes to one file yields a single event, sent once the file has
// been quiet for Debounce. Events and Errors are closed once the watcher stops.
type Watcher struct {
	Events chan string
	Errors chan error

	fs      *fsnotify.Watcher
	quiet   time.Duration
	settled chan string
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	return newWatcher(Debounce, dirs)
}

func newWatcher(quiet time.Duration, dirs []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		fs:      fw,
		quiet:   quiet,
		settled: make(chan string),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher. Pending changes are dropped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.stopped
	})
	return err
}

func (w *Watcher) loop() {
	pending := map[string]*time.Timer{}
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
		close(w.Events)
		close(w.Errors)
		close(w.stopped)
	}()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&relevantOps == 0 || !(IsSceneFile(ev.Name) || IsScriptFile(ev.Name)) {
				continue
			}
			if t, ok := pending[ev.Name]; ok {
				t.Reset(w.quiet)
				continue
			}
			name := ev.Name
			pending[name] = time.AfterFunc(w.quiet, func() {
				select {
				case w.settled <- name:
				case <-w.stop:
				}
			})
		case name := <-w.settled:
			// A timer reset after firing sends again once the name is reported.
			if _, ok := pending[name]; !ok {
				continue
			}
			delete(pending, name)
			select {
			case w.Events <- name:
			case <-w.stop:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.stop:
				return
			}
		case <-w.stop:
			return
		}
	}
}

func IsSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func IsScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
