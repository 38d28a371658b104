package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faitout/pkg/core"
)

type memRepo struct {
	notes []core.Note
	err   error
}

func (m *memRepo) Load(ctx context.Context) ([]core.Note, error) { return m.notes, m.err }

func (m *memRepo) Save(ctx context.Context, notes []core.Note) error {
	m.notes = notes
	return m.err
}

func TestOpen(t *testing.T) {
	t.Run("assigns ids in file order", func(t *testing.T) {
		repo := &memRepo{notes: []core.Note{{ID: 9, Title: "a"}, {ID: 3, Title: "b"}}}
		store, err := core.Open(context.Background(), repo)
		require.NoError(t, err)

		list := store.List()
		require.Len(t, list, 2)
		assert.Equal(t, core.NoteID(1), list[0].ID)
		assert.Equal(t, "b", list[1].Title)
		assert.Equal(t, core.NoteID(2), list[1].ID)
	})

	t.Run("load error", func(t *testing.T) {
		_, err := core.Open(context.Background(), &memRepo{err: core.ErrCorruptData})
		assert.ErrorIs(t, err, core.ErrCorruptData)
	})
}
