package floors

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports map image files that changed on disk so the viewer can
// reload them.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Drain returns the changed files reported since the last call without blocking.
func (w *Watcher) Drain() []string {
	var names []string
	for {
		select {
		case name := <-w.Events:
			names = append(names, name)
		default:
			return names
		}
	}
}

// debouncer holds one timer per file. Every touch starts a new burst with its
// own sequence number, and only the newest burst of a file may report it.
type debouncer struct {
	delay   time.Duration
	ready   chan firedChange
	done    <-chan struct{}
	seq     uint64
	pending map[string]pendingChange
}

type pendingChange struct {
	timer *time.Timer
	seq   uint64
}

type firedChange struct {
	name string
	seq  uint64
}

func newDebouncer(delay time.Duration, done <-chan struct{}) *debouncer {
	return &debouncer{
		delay:   delay,
		ready:   make(chan firedChange, 16),
		done:    done,
		pending: make(map[string]pendingChange),
	}
}

// touch restarts the quiet period for name and returns the burst's sequence.
func (d *debouncer) touch(name string) uint64 {
	if p, ok := d.pending[name]; ok {
		p.timer.Stop()
	}
	d.seq++
	fired := firedChange{name: name, seq: d.seq}
	d.pending[name] = pendingChange{
		seq: d.seq,
		timer: time.AfterFunc(d.delay, func() {
			select {
			case d.ready <- fired:
			case <-d.done:
			}
		}),
	}
	return d.seq
}

// accept reports whether a fired timer belongs to the newest burst of its
// file. A timer that fired before a later touch stopped it is dropped.
func (d *debouncer) accept(f firedChange) bool {
	p, ok := d.pending[f.name]
	if !ok || p.seq != f.seq {
		return false
	}
	delete(d.pending, f.name)
	return true
}

func (d *debouncer) stop() {
	for _, p := range d.pending {
		p.timer.Stop()
	}
}

func (w *Watcher) run() {
	// A file is reported once it has been quiet for watchDebounce, so a
	// large image is not reloaded while it is still being written.
	d := newDebouncer(watchDebounce, w.closeCh)
	defer d.stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !IsMapImage(event.Name) {
				continue
			}
			d.touch(event.Name)
		case fired := <-d.ready:
			if !d.accept(fired) {
				continue
			}
			select {
			case w.Events <- filepath.Base(fired.name):
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// IsMapImage reports whether path has an image extension the viewer decodes.
func IsMapImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".tga":
		return true
	default:
		return false
	}
}
