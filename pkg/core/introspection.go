package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes       int    `json:"notes"`
	NextID      NoteID `json:"next_id"`
	Version     uint64 `json:"version"`
	Subscribers int    `json:"subscribers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	state := StoreState{
		Notes:   len(s.notes),
		NextID:  s.nextID,
		Version: s.version,
	}
	s.mu.RUnlock()

	s.lmu.Lock()
	state.Subscribers = len(s.listeners)
	s.lmu.Unlock()

	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
