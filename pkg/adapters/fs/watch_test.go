package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faitout/pkg/adapters/fs"
	"github.com/aretw0/faitout/pkg/core"
)

func nextEvent(t *testing.T, events <-chan fs.FileEvent, timeout time.Duration) (fs.FileEvent, bool) {
	t.Helper()
	select {
	case e, ok := <-events:
		return e, ok
	case <-time.After(timeout):
		return fs.FileEvent{}, false
	}
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, _ := setupRepo(t)
	require.NoError(t, repo.Initialize(ctx))

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)

	t.Run("External Write Is Reported", func(t *testing.T) {
		require.NoError(t, os.WriteFile(repo.NotesPath(), []byte(`{"entries": []}`), 0o644))

		e, ok := nextEvent(t, events, 3*time.Second)
		require.True(t, ok, "expected an event")
		assert.Equal(t, fs.KindNotes, e.Kind)
		assert.Equal(t, core.EventModify, e.Op)
		assert.Contains(t, e.String(), "notes.json")
	})

	t.Run("Own Saves And Other Files Are Ignored", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, []core.Note{{Title: "mine"}}))
		require.NoError(t, os.WriteFile(filepath.Join(repo.Path, "readme.txt"), []byte("x"), 0o644))

		_, ok := nextEvent(t, events, 300*time.Millisecond)
		assert.False(t, ok, "no event expected")
	})

	assert.True(t, repo.State().(fs.RepositoryState).WatcherActive)

	cancel()
	for range events {
	}
	assert.False(t, repo.State().(fs.RepositoryState).WatcherActive)
}

func TestWatch_InvalidPattern(t *testing.T) {
	repo, _ := setupRepo(t)
	require.NoError(t, repo.Initialize(context.Background()))

	_, err := repo.Watch(context.Background(), "[")
	assert.ErrorIs(t, err, core.ErrValidation)
}
