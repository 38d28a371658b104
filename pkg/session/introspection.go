package session

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/faitout/pkg/core"
)

// WindowState describes one window for observability.
type WindowState struct {
	ID    string      `json:"id"`
	Main  bool        `json:"main"`
	State string      `json:"state"`
	Note  core.NoteID `json:"note,omitempty"`
	Draft bool        `json:"draft,omitempty"`
}

// ManagerState exposes the session for observability.
type ManagerState struct {
	Windows  []WindowState `json:"windows"`
	Dirty    int           `json:"dirty"`
	Orphaned int           `json:"orphaned"`
	Selected core.NoteID   `json:"selected,omitempty"`
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	views := m.Windows()
	sel, _ := m.Selected()

	st := ManagerState{Windows: make([]WindowState, 0, len(views)), Selected: sel}
	for _, v := range views {
		st.Windows = append(st.Windows, WindowState{
			ID:    v.ID.Short(),
			Main:  v.Main,
			State: v.State.String(),
			Note:  v.Note,
			Draft: v.Draft,
		})
		switch v.State {
		case EditingDirty:
			st.Dirty++
		case Orphaned:
			st.Orphaned++
		}
	}
	return st
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "session"
}

var (
	_ introspection.Introspectable = (*Manager)(nil)
	_ introspection.Component      = (*Manager)(nil)
)
