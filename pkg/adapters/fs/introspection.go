package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	NotesFile     string     `json:"notes_file"`
	SettingsFile  string     `json:"settings_file"`
	ReadOnly      bool       `json:"read_only"`
	Strict        bool       `json:"strict"`
	WatcherActive bool       `json:"watcher_active"`
	Saves         uint64     `json:"saves"`
	LastLoad      *time.Time `json:"last_load,omitempty"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		NotesFile:     r.NotesPath(),
		SettingsFile:  r.SettingsPath(),
		ReadOnly:      r.readOnly,
		Strict:        r.config.Strict,
		WatcherActive: r.watcherActive,
		Saves:         r.saves,
		LastLoad:      r.lastLoad,
		LastSave:      r.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

// SaverState describes the background writer.
type SaverState struct {
	Sync      bool       `json:"sync"`
	InFlight  bool       `json:"in_flight"`
	Pending   bool       `json:"pending"`
	Requested uint64     `json:"requested"`
	Completed uint64     `json:"completed"`
	Failed    uint64     `json:"failed"`
	Skipped   uint64     `json:"skipped"`
	LastError string     `json:"last_error,omitempty"`
	LastSave  *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Saver) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SaverState{
		Sync:      s.sync,
		InFlight:  s.running,
		Pending:   s.pending != nil,
		Requested: s.requested,
		Completed: s.completed,
		Failed:    s.failed,
		Skipped:   s.skipped,
		LastSave:  s.lastSave,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Saver) ComponentType() string {
	return "saver"
}

var (
	_ introspection.Introspectable = (*Repository)(nil)
	_ introspection.Component      = (*Repository)(nil)
	_ introspection.Introspectable = (*Saver)(nil)
	_ introspection.Component      = (*Saver)(nil)
)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
