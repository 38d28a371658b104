// Package session tracks open windows, their note bindings and edit
// buffers, and routes committed edits to the note store.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/faitout/pkg/core"
)

// AppName prefixes window titles.
const AppName = "faitout"

// Saver persists store snapshots. The manager requests a save after every
// committed change.
type Saver interface {
	Request(ctx context.Context, version uint64, notes []core.Note) error
}

// Decision is the user's answer when closing a dirty window.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionSave
	DecisionDiscard
)

func (d Decision) String() string {
	switch d {
	case DecisionSave:
		return "save"
	case DecisionDiscard:
		return "discard"
	default:
		return "cancel"
	}
}

// Prompter asks the user what to do with unsaved changes.
type Prompter interface {
	ConfirmClose(ctx context.Context, v View) Decision
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, v View) Decision

func (f PrompterFunc) ConfirmClose(ctx context.Context, v View) Decision { return f(ctx, v) }

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSaver sets where committed changes are persisted.
func WithSaver(s Saver) Option {
	return func(m *Manager) { m.saver = s }
}

// WithPrompter sets the close confirmation used by Close.
func WithPrompter(p Prompter) Option {
	return func(m *Manager) { m.prompter = p }
}

// WithLastWindowClosed registers fn to run when the last window closes.
func WithLastWindowClosed(fn func()) Option {
	return func(m *Manager) { m.onLastClosed = fn }
}

// Manager is the session state machine.
//
// It never holds its own lock while mutating the store: the store
// notifies the manager synchronously and the handler takes the lock.
type Manager struct {
	store        *core.Store
	saver        Saver
	prompter     Prompter
	logger       *slog.Logger
	onLastClosed func()
	unsubscribe  func()

	mu       sync.Mutex
	windows  map[WindowID]*window
	order    []WindowID
	mainID   WindowID
	selected core.NoteID
}

// NewManager creates a session over store with the main window open in
// the list view.
func NewManager(store *core.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		windows: make(map[WindowID]*window),
	}
	for _, opt := range opts {
		opt(m)
	}

	main := &window{id: newWindowID(), main: true, state: ListView}
	m.windows[main.id] = main
	m.order = append(m.order, main.id)
	m.mainID = main.id

	m.unsubscribe = store.Subscribe(m.handle)
	return m
}

// Stop detaches the manager from the store.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Main returns the main window's id.
func (m *Manager) Main() WindowID {
	return m.mainID
}

// OpenWindow opens a detached window editing the note.
func (m *Manager) OpenWindow(id core.NoteID) (WindowID, error) {
	n, ok := m.store.Get(id)
	if !ok {
		return "", &core.OpError{Op: "open", ID: id, Err: core.ErrNotFound}
	}

	w := &window{id: newWindowID(), state: Editing, note: id, buf: bufferOf(n)}

	m.mu.Lock()
	m.windows[w.id] = w
	m.order = append(m.order, w.id)
	m.mu.Unlock()

	m.logger.Debug("window opened", "window", w.id.Short(), "id", id)
	return w.id, nil
}

// Open shows the note in an existing window. A dirty window refuses
// with ErrDirty; an orphaned one with ErrOrphaned.
func (m *Manager) Open(win WindowID, id core.NoteID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.switchable(win, "open")
	if err != nil {
		return err
	}
	n, ok := m.store.Get(id)
	if !ok {
		return &core.OpError{Op: "open", ID: id, Err: core.ErrNotFound}
	}
	w.state, w.note, w.draft, w.buf = Editing, id, false, bufferOf(n)
	if w.main {
		m.selected = id
	}
	return nil
}

// New starts a draft in the window. The note is created on first save.
func (m *Manager) New(win WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.switchable(win, "new")
	if err != nil {
		return err
	}
	w.state, w.note, w.draft, w.buf = Editing, 0, true, Buffer{}
	return nil
}

// Back returns the main window to the list. It also dismisses an
// orphaned inline editor.
func (m *Manager) Back(win WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.lookup(win, "back")
	if err != nil {
		return err
	}
	if !w.main {
		return &WindowError{Op: "back", Window: win, Err: ErrDetachedWindow}
	}
	if w.state == EditingDirty {
		return &WindowError{Op: "back", Window: win, Err: ErrDirty}
	}
	w.state, w.note, w.draft, w.buf = ListView, 0, false, Buffer{}
	return nil
}

// switchable returns the window if it may be rebound. Callers hold m.mu.
func (m *Manager) switchable(win WindowID, op string) (*window, error) {
	w, err := m.lookup(win, op)
	if err != nil {
		return nil, err
	}
	switch w.state {
	case EditingDirty:
		return nil, &WindowError{Op: op, Window: win, Err: ErrDirty}
	case Orphaned:
		return nil, &WindowError{Op: op, Window: win, Err: ErrOrphaned}
	}
	return w, nil
}

func (m *Manager) lookup(win WindowID, op string) (*window, error) {
	w, ok := m.windows[win]
	if !ok {
		return nil, &WindowError{Op: op, Window: win, Err: ErrWindowNotFound}
	}
	return w, nil
}

// EditTitle replaces the buffered title.
func (m *Manager) EditTitle(win WindowID, title string) error {
	return m.edit(win, func(b *Buffer) { b.Title = title })
}

// EditBody replaces the buffered Markdown body.
func (m *Manager) EditBody(win WindowID, body string) error {
	return m.edit(win, func(b *Buffer) { b.Body = body })
}

// EditTags replaces the buffered comma-separated tag text.
func (m *Manager) EditTags(win WindowID, tags string) error {
	return m.edit(win, func(b *Buffer) { b.Tags = tags })
}

// EditColor replaces the buffered color.
func (m *Manager) EditColor(win WindowID, c core.Color) error {
	if !c.Valid() {
		return &WindowError{Op: "edit", Window: win, Err: core.ErrValidation}
	}
	return m.edit(win, func(b *Buffer) { b.Color = c })
}

func (m *Manager) edit(win WindowID, fn func(*Buffer)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.lookup(win, "edit")
	if err != nil {
		return err
	}
	switch w.state {
	case ListView:
		return &WindowError{Op: "edit", Window: win, Err: ErrNotEditing}
	case Orphaned:
		return &WindowError{Op: "edit", Window: win, Err: ErrOrphaned}
	}
	fn(&w.buf)
	w.state = EditingDirty
	return nil
}

// Discard drops unsaved changes, reloading the buffer from the store.
func (m *Manager) Discard(win WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.lookup(win, "discard")
	if err != nil {
		return err
	}
	switch w.state {
	case ListView:
		return &WindowError{Op: "discard", Window: win, Err: ErrNotEditing}
	case Orphaned:
		return &WindowError{Op: "discard", Window: win, Err: ErrOrphaned}
	case Editing:
		return nil
	}
	if w.draft {
		w.buf = Buffer{}
	} else if n, ok := m.store.Get(w.note); ok {
		w.buf = bufferOf(n)
	}
	w.state = Editing
	return nil
}

// Save commits the window's buffer to the store and requests
// persistence. A clean window saves nothing. Concurrent editors of the
// same note are not merged: the last save wins.
func (m *Manager) Save(ctx context.Context, win WindowID) error {
	m.mu.Lock()
	w, err := m.lookup(win, "save")
	if err != nil {
		m.mu.Unlock()
		return err
	}
	switch w.state {
	case ListView:
		m.mu.Unlock()
		return &WindowError{Op: "save", Window: win, Err: ErrNotEditing}
	case Orphaned:
		m.mu.Unlock()
		return &WindowError{Op: "save", Window: win, Err: ErrOrphaned}
	case Editing:
		m.mu.Unlock()
		return nil
	}
	if w.buf.blank() {
		m.mu.Unlock()
		return &WindowError{Op: "save", Window: win, Err: fmt.Errorf("%w: nothing to save", core.ErrValidation)}
	}
	buf, draft, id := w.buf, w.draft, w.note
	m.mu.Unlock()

	title, body, tags := buf.normalized()
	if draft {
		id, err = m.store.Create(title, body, tags, buf.Color)
	} else {
		err = m.store.Update(id, core.Patch{}.WithTitle(title).WithBody(body).WithTags(tags).WithColor(buf.Color))
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	// The window may have been closed, edited again or orphaned while the
	// store was busy. Only a window still holding what was saved turns clean.
	if cur, ok := m.windows[win]; ok && cur.state == EditingDirty && cur.buf == buf {
		if n, ok := m.store.Get(id); ok {
			cur.buf = bufferOf(n)
			cur.note, cur.draft, cur.state = id, false, Editing
		}
	}
	m.mu.Unlock()

	m.logger.Debug("note saved", "window", win.Short(), "id", id, "created", draft)

	if err := m.persist(ctx); err != nil {
		m.mu.Lock()
		if cur, ok := m.windows[win]; ok && cur.state == Editing && cur.note == id {
			cur.state = EditingDirty
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

// Close closes the window. A dirty window asks the Prompter; without one
// it refuses with ErrDirty. It returns the number of windows left.
func (m *Manager) Close(ctx context.Context, win WindowID) (int, error) {
	m.mu.Lock()
	w, err := m.lookup(win, "close")
	if err != nil {
		left := m.countLocked()
		m.mu.Unlock()
		return left, err
	}
	if w.state != EditingDirty {
		left := m.removeLocked(win)
		m.mu.Unlock()
		m.closed(win, left)
		return left, nil
	}
	v := w.view()
	m.mu.Unlock()

	if m.prompter == nil {
		return m.Len(), &WindowError{Op: "close", Window: win, Err: ErrDirty}
	}
	return m.CloseWith(ctx, win, m.prompter.ConfirmClose(ctx, v))
}

// CloseWith closes the window applying an explicit decision about
// unsaved changes.
func (m *Manager) CloseWith(ctx context.Context, win WindowID, d Decision) (int, error) {
	switch d {
	case DecisionSave:
		if err := m.Save(ctx, win); err != nil {
			return m.Len(), err
		}
	case DecisionDiscard:
	default:
		return m.Len(), &WindowError{Op: "close", Window: win, Err: ErrCanceled}
	}

	m.mu.Lock()
	if _, err := m.lookup(win, "close"); err != nil {
		left := m.countLocked()
		m.mu.Unlock()
		return left, err
	}
	left := m.removeLocked(win)
	m.mu.Unlock()

	m.closed(win, left)
	return left, nil
}

func (m *Manager) removeLocked(win WindowID) int {
	delete(m.windows, win)
	m.order = slices.DeleteFunc(m.order, func(id WindowID) bool { return id == win })
	return len(m.windows)
}

func (m *Manager) closed(win WindowID, left int) {
	m.logger.Debug("window closed", "window", win.Short(), "remaining", left)
	if left == 0 && m.onLastClosed != nil {
		m.onLastClosed()
	}
}

// Create adds a note directly from the list view and persists it.
func (m *Manager) Create(ctx context.Context, title, body string, tags []string, color core.Color) (core.NoteID, error) {
	id, err := m.store.Create(title, body, tags, color)
	if err != nil {
		return 0, err
	}
	return id, m.persist(ctx)
}

// Delete removes the note. Windows bound to it become orphaned.
func (m *Manager) Delete(ctx context.Context, id core.NoteID) error {
	if err := m.store.Delete(id); err != nil {
		return err
	}
	return m.persist(ctx)
}

// SetColor changes a note's color from the list view and persists it.
func (m *Manager) SetColor(ctx context.Context, id core.NoteID, c core.Color) error {
	if err := m.store.Update(id, core.Patch{}.WithColor(c)); err != nil {
		return err
	}
	return m.persist(ctx)
}

// Select marks a note in the list view.
func (m *Manager) Select(id core.NoteID) error {
	if !m.store.Has(id) {
		return &core.OpError{Op: "select", ID: id, Err: core.ErrNotFound}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = id
	return nil
}

// Selected returns the selected note, if any.
func (m *Manager) Selected() (core.NoteID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected, m.selected != 0
}

// View returns a snapshot of one window.
func (m *Manager) View(win WindowID) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.lookup(win, "view")
	if err != nil {
		return View{}, err
	}
	return w.view(), nil
}

// Windows returns snapshots of all open windows in opening order.
func (m *Manager) Windows() []View {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]View, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.windows[id].view())
	}
	return out
}

// Len returns the number of open windows.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked()
}

func (m *Manager) countLocked() int { return len(m.windows) }

// WindowTitle returns the title the windowing collaborator shows.
func (m *Manager) WindowTitle(win WindowID) (string, error) {
	v, err := m.View(win)
	if err != nil {
		return "", err
	}
	switch v.State {
	case ListView:
		return AppName, nil
	case Orphaned:
		return AppName + " - (deleted)", nil
	}
	label := core.Note{Title: v.Buffer.Title}.DisplayTitle()
	if v.Dirty() {
		label = "*" + label
	}
	return AppName + " - " + label, nil
}

func (m *Manager) persist(ctx context.Context) error {
	if m.saver == nil {
		return nil
	}
	notes, version := m.store.Snapshot()
	if err := m.saver.Request(ctx, version, notes); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

// handle reacts to committed store changes. It runs on the mutating
// goroutine, outside the store's lock.
func (m *Manager) handle(e core.Event) {
	switch e.Type {
	case core.EventModify:
		n, ok := m.store.Get(e.ID)
		if !ok {
			return
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, w := range m.windows {
			if w.bound(e.ID) && w.state == Editing {
				w.buf = bufferOf(n)
			}
		}

	case core.EventDelete:
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, w := range m.windows {
			if w.bound(e.ID) {
				w.state = Orphaned
				m.logger.Info("window orphaned", "window", w.id.Short(), "id", e.ID)
			}
		}
		if m.selected == e.ID {
			m.selected = 0
		}
	}
}
