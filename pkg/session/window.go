package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/faitout/pkg/core"
)

// State is the lifecycle state of one window.
type State int

const (
	// ListView shows the whole collection. Only the main window lists.
	ListView State = iota
	// Editing is bound to a note with a buffer matching the store.
	Editing
	// EditingDirty is bound to a note with unsaved buffer changes.
	EditingDirty
	// Orphaned was bound to a note that has since been deleted. It
	// accepts only close.
	Orphaned
)

func (s State) String() string {
	switch s {
	case ListView:
		return "list"
	case Editing:
		return "editing"
	case EditingDirty:
		return "dirty"
	case Orphaned:
		return "orphaned"
	default:
		return "unknown"
	}
}

// WindowID identifies an open window.
type WindowID string

func newWindowID() WindowID {
	return WindowID(uuid.NewString())
}

// Short returns the first block of the id, enough for logs and prompts.
func (id WindowID) Short() string {
	s := string(id)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// Buffer is a window's private copy of the note being edited. Tags are
// kept as the raw comma-separated text the user typed.
type Buffer struct {
	Title string
	Tags  string
	Body  string
	Color core.Color
}

func bufferOf(n core.Note) Buffer {
	return Buffer{
		Title: n.Title,
		Tags:  core.FormatTags(n.Tags),
		Body:  n.Body,
		Color: n.Color,
	}
}

// normalized returns the values a save commits: a trimmed title, the body
// without trailing newlines and parsed tags.
func (b Buffer) normalized() (title, body string, tags []string) {
	return strings.TrimSpace(b.Title), strings.TrimRight(b.Body, "\r\n"), core.ParseTags(b.Tags)
}

// blank reports whether saving would produce a note with no content.
func (b Buffer) blank() bool {
	title, body, _ := b.normalized()
	return title == "" && body == ""
}

// View is a read-only snapshot of a window.
type View struct {
	ID     WindowID
	Main   bool
	State  State
	Note   core.NoteID // zero when listing or drafting
	Draft  bool        // editing a note not yet created
	Buffer Buffer
}

// Dirty reports whether the window holds unsaved changes.
func (v View) Dirty() bool { return v.State == EditingDirty }

type window struct {
	id    WindowID
	main  bool
	state State
	note  core.NoteID
	draft bool
	buf   Buffer
}

func (w *window) view() View {
	return View{
		ID:     w.id,
		Main:   w.main,
		State:  w.state,
		Note:   w.note,
		Draft:  w.draft,
		Buffer: w.buf,
	}
}

// bound reports whether the window is attached to the given stored note.
func (w *window) bound(id core.NoteID) bool {
	return !w.draft && w.note == id && (w.state == Editing || w.state == EditingDirty)
}
