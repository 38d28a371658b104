package session

import (
	"errors"
	"fmt"
)

var (
	// ErrOrphaned is returned by any action other than close on a window
	// whose note was deleted.
	ErrOrphaned = errors.New("note was deleted")
	// ErrDirty means the window holds unsaved changes and the action would
	// discard them. The caller must save, discard or cancel first.
	ErrDirty = errors.New("window has unsaved changes")
	// ErrNotEditing is returned when an edit or save targets a window
	// showing the list.
	ErrNotEditing = errors.New("window is not editing a note")
	// ErrWindowNotFound is returned for an unknown or closed window.
	ErrWindowNotFound = errors.New("window not found")
	// ErrDetachedWindow is returned when a list-only action targets a
	// detached note window.
	ErrDetachedWindow = errors.New("only the main window can show the list")
	// ErrCanceled reports that the user canceled a close.
	ErrCanceled = errors.New("close canceled")
)

// WindowError records the window an action failed on.
type WindowError struct {
	Op     string
	Window WindowID
	Err    error
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("%s window %s: %v", e.Op, e.Window.Short(), e.Err)
}

func (e *WindowError) Unwrap() error { return e.Err }
