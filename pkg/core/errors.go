package core

import (
	"errors"
	"fmt"
)

// Error kinds. Check with errors.Is.
var (
	ErrNotFound    = errors.New("note not found")
	ErrCorruptData = errors.New("corrupt data")
	ErrIO          = errors.New("i/o failure")
	ErrValidation  = errors.New("validation failed")
	ErrReadOnly    = errors.New("store is in read-only mode")

	// ErrIDExhausted is fatal: no further notes can be created.
	ErrIDExhausted = errors.New("note id space exhausted")
)

// OpError records the operation and note that failed.
type OpError struct {
	Op  string
	ID  NoteID
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s note %d: %v", e.Op, e.ID, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
