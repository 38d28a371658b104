package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/faitout/pkg/core"
)

// FileKind says which data file an event concerns.
type FileKind string

const (
	KindNotes    FileKind = "notes"
	KindSettings FileKind = "settings"
	KindOther    FileKind = "other"
)

// FileEvent is an external change to a file in the data directory.
type FileEvent struct {
	Kind      FileKind
	Op        core.EventType
	Path      string
	Timestamp int64
}

func (e FileEvent) String() string {
	return fmt.Sprintf("%s %s %s", e.Op, e.Kind, filepath.Base(e.Path))
}

// DefaultWatchPattern matches the files written by the repository.
const DefaultWatchPattern = "*.json"

// selfWriteWindow hides the echo of our own atomic renames.
const selfWriteWindow = time.Second

// Watch reports changes made to the data directory by other processes.
// pattern is a doublestar glob matched against names relative to the
// directory. The channel closes when ctx is cancelled.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan FileEvent, error) {
	if pattern == "" {
		pattern = DefaultWatchPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: invalid watch pattern %q", core.ErrValidation, pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("%w: failed to watch %s: %w", core.ErrIO, r.Path, err)
	}

	events := make(chan FileEvent)
	w := &watchWorker{
		repo:      r,
		pattern:   pattern,
		events:    events,
		watcher:   watcher,
		debouncer: newDebouncer(50 * time.Millisecond),
		logger:    r.config.Logger,
	}
	r.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		if r.config.ErrorHandler != nil {
			r.config.ErrorHandler(err)
		} else {
			r.config.Logger.Error("watcher stopped", "error", err)
		}
	}))
	return events, nil
}

type watchWorker struct {
	repo      *Repository
	pattern   string
	events    chan FileEvent
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	logger    *slog.Logger
}

// run is the main event loop for the watcher.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// In-flight timers may still send; wait for them before closing events.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
			if w.repo.config.ErrorHandler != nil {
				w.repo.config.ErrorHandler(wErr)
			}
		}
	}
}

// process filters, maps and debounces one filesystem event.
func (w *watchWorker) process(ctx context.Context, event fsnotify.Event) bool {
	w.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, TempFilePrefix) {
		return false
	}
	if ok, _ := doublestar.Match(w.pattern, filepath.ToSlash(name)); !ok {
		return false
	}

	op := mapEventType(event)
	if op == "" {
		return false
	}
	if op != core.EventDelete && w.repo.recentlyWritten(event.Name, selfWriteWindow) {
		return false
	}

	fe := FileEvent{
		Kind:      w.repo.kindOf(event.Name),
		Op:        op,
		Path:      event.Name,
		Timestamp: time.Now().Unix(),
	}
	w.debouncer.add(fe, func(e FileEvent) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
	return true
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

func (r *Repository) kindOf(path string) FileKind {
	switch filepath.Clean(path) {
	case filepath.Clean(r.NotesPath()):
		return KindNotes
	case filepath.Clean(r.SettingsPath()):
		return KindSettings
	default:
		return KindOther
	}
}

// debouncer collapses bursts of events on the same path into the last one.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	latest  map[string]FileEvent
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		latest: make(map[string]FileEvent),
	}
}

func (d *debouncer) add(e FileEvent, fire func(FileEvent)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.latest[e.Path] = e
	if t, ok := d.timers[e.Path]; ok {
		if t.Stop() {
			t.Reset(d.delay)
			return
		}
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.timers[e.Path] != t {
			// Superseded by a newer timer for the same path.
			d.mu.Unlock()
			return
		}
		ev := d.latest[e.Path]
		delete(d.latest, e.Path)
		delete(d.timers, e.Path)
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			fire(ev)
		}
	})
	d.timers[e.Path] = t
}

// stopAndWait rejects new events and waits for running timers.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for path, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
			delete(d.timers, path)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
