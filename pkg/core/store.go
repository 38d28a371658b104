package core

import (
	"iter"
	"math"
	"sync"
	"time"
)

// Store is the authoritative in-memory collection of notes.
//
// Insertion order is the canonical order. All mutations go through
// Create, Update and Delete and are serialized by a single guard, so no
// reader ever observes a partially applied update. Readers receive
// copies; the store never hands out references to its internal state.
type Store struct {
	mu      sync.RWMutex
	notes   []Note
	index   map[NoteID]int
	nextID  NoteID
	version uint64

	lmu       sync.Mutex
	listeners map[int]func(Event)
	nextSub   int
}

// NewStore creates a store holding the given notes in order.
// Incoming IDs are ignored: every note receives a fresh ID.
func NewStore(notes ...Note) *Store {
	s := &Store{
		notes:     make([]Note, 0, len(notes)),
		index:     make(map[NoteID]int, len(notes)),
		nextID:    1,
		listeners: make(map[int]func(Event)),
	}
	for _, n := range notes {
		n = n.Clone()
		n.Tags = NormalizeTags(n.Tags)
		n.ID = s.nextID
		s.nextID++
		s.index[n.ID] = len(s.notes)
		s.notes = append(s.notes, n)
	}
	return s
}

// Create appends a new note and returns its ID.
// It fails only when the ID space is exhausted.
func (s *Store) Create(title, body string, tags []string, color Color) (NoteID, error) {
	s.mu.Lock()
	if s.nextID == math.MaxUint64 {
		s.mu.Unlock()
		return 0, ErrIDExhausted
	}
	if !color.Valid() {
		color = ColorDefault
	}
	n := Note{
		ID:    s.nextID,
		Title: title,
		Body:  body,
		Tags:  NormalizeTags(tags),
		Color: color,
	}
	s.nextID++
	s.index[n.ID] = len(s.notes)
	s.notes = append(s.notes, n)
	s.version++
	s.mu.Unlock()

	s.emit(EventCreate, n.ID)
	return n.ID, nil
}

// Update applies a partial change to the note with the given ID.
// Tags in the patch are normalized before commit.
func (s *Store) Update(id NoteID, p Patch) error {
	if p.Color != nil && !p.Color.Valid() {
		return &OpError{Op: "update", ID: id, Err: ErrValidation}
	}

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return &OpError{Op: "update", ID: id, Err: ErrNotFound}
	}
	n := s.notes[i].Clone()
	p.apply(&n)
	s.notes[i] = n
	s.version++
	s.mu.Unlock()

	s.emit(EventModify, id)
	return nil
}

// Delete removes the note. Subscribers are notified after the removal
// is committed so they can release bindings to the ID.
func (s *Store) Delete(id NoteID) error {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return &OpError{Op: "delete", ID: id, Err: ErrNotFound}
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.notes); j++ {
		s.index[s.notes[j].ID] = j
	}
	s.version++
	s.mu.Unlock()

	s.emit(EventDelete, id)
	return nil
}

// Get returns a copy of the note, if present.
func (s *Store) Get(id NoteID) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Note{}, false
	}
	return s.notes[i].Clone(), true
}

// Has reports whether a note with the given ID exists.
func (s *Store) Has(id NoteID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// List returns a snapshot of all notes in canonical order.
// The snapshot is detached: later mutations do not affect it.
func (s *Store) List() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out
}

// Snapshot returns the notes together with the version they reflect,
// read under one lock. Writers use the version to order snapshots.
func (s *Store) Snapshot() ([]Note, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out, s.version
}

// All returns a restartable sequence over a snapshot taken when
// iteration starts.
func (s *Store) All() iter.Seq[Note] {
	return func(yield func(Note) bool) {
		for _, n := range s.List() {
			if !yield(n) {
				return
			}
		}
	}
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Version increases with every committed mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn to be called after every committed mutation.
// Callbacks run synchronously on the mutating goroutine, outside the
// store's guard, so they may read from the store. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	key := s.nextSub
	s.nextSub++
	s.listeners[key] = fn
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, key)
	}
}

func (s *Store) emit(t EventType, id NoteID) {
	s.lmu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	e := Event{Type: t, ID: id, Timestamp: time.Now().Unix()}
	for _, fn := range fns {
		fn(e)
	}
}
