package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"imgfilter/internal/errors"
	"imgfilter/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Kind tells whether an image appeared in or left a watched folder.
type Kind int

const (
	Added Kind = iota
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a change to the set of images in a watched folder
type Event struct {
	Path      string
	Kind      Kind
	Timestamp time.Time
}

// Matcher reports whether a path names an image worth reporting.
type Matcher func(path string) bool

// ErrStopped is returned when a stopped Watcher is reused.
var ErrStopped = errors.New("watcher is stopped, create a new one")

// Watcher monitors directories for images being added or removed.
// It only reports; reloading the collection is up to the caller.
// A Watcher is single-use: once stopped it cannot be started again.
type Watcher struct {
	directories []string
	match       Matcher

	events   chan Event
	stopChan chan struct{}
	done     chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	stopped bool
}

// New creates a new directory watcher. A nil matcher reports every file.
func New(match Matcher) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if match == nil {
		match = func(string) bool { return true }
	}

	return &Watcher{
		match:     match,
		events:    make(chan Event, 16),
		fsWatcher: fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch
func (w *Watcher) AddDirectory(dir string) error {
	w.mutex.RLock()
	stopped := w.stopped
	w.mutex.RUnlock()
	if stopped {
		return ErrStopped
	}

	info, err := os.Stat(dir)
	if err != nil {
		return errors.FileErrorFromOS("error accessing directory", dir, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", dir, errors.InvalidPath, nil)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.FileErrorFromOS("failed to add directory to watcher", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Events returns the channel that delivers image events. It is closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.stopped {
		return ErrStopped
	}
	if w.running {
		return errors.New("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop(w.stopChan, w.done)

	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if ev, ok := w.translate(event); ok {
				w.emit(ev)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithError(err).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// translate maps a raw fsnotify event to an image event. Writes are
// ignored: a file being filled in is already known from its Create.
func (w *Watcher) translate(event fsnotify.Event) (Event, bool) {
	if !w.match(event.Name) {
		return Event{}, false
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			// gone again before we looked
			if !os.IsNotExist(err) {
				log.LogWithFields(log.F("path", event.Name), log.F("error", err)).Error("Error stating file")
			}
			return Event{}, false
		}
		if !info.Mode().IsRegular() {
			return Event{}, false
		}
		return Event{Path: event.Name, Kind: Added, Timestamp: time.Now()}, true

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return Event{Path: event.Name, Kind: Removed, Timestamp: time.Now()}, true
	}
	return Event{}, false
}

func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	default:
		log.LogWithFields(log.F("path", ev.Path), log.F("kind", ev.Kind.String())).Warn("Event channel is full, dropped event")
	}
}

// Stop halts the watcher and closes the event channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithError(err).Error("Error closing fsnotify watcher")
	}
	<-w.done

	w.running = false
	w.stopped = true
	close(w.events)
	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the list of directories being watched
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}
