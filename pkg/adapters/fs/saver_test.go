package fs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faitout/pkg/adapters/fs"
	"github.com/aretw0/faitout/pkg/core"
)

type recordingWriter struct {
	mu    sync.Mutex
	gate  chan struct{} // when non-nil, each Save waits for a value
	saves [][]core.Note
	err   error
}

func (w *recordingWriter) Save(ctx context.Context, notes []core.Note) error {
	if w.gate != nil {
		<-w.gate
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.saves = append(w.saves, notes)
	return w.err
}

func (w *recordingWriter) snapshot() [][]core.Note {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([][]core.Note(nil), w.saves...)
}

func flush(t *testing.T, s *fs.Saver) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Flush(ctx)
}

func TestSaver_CoalescesBurst(t *testing.T) {
	w := &recordingWriter{gate: make(chan struct{})}
	s := fs.NewSaver(w, fs.SaverConfig{})

	for i := 1; i <= 5; i++ {
		notes := []core.Note{{Title: string(rune('a' + i - 1))}}
		require.NoError(t, s.Request(context.Background(), uint64(i), notes))
	}

	// Release the first write and the single coalesced follow-up.
	w.gate <- struct{}{}
	w.gate <- struct{}{}
	require.NoError(t, flush(t, s))

	saves := w.snapshot()
	require.Len(t, saves, 2)
	assert.Equal(t, "a", saves[0][0].Title)
	assert.Equal(t, "e", saves[1][0].Title, "last write must carry the newest snapshot")
	assert.Equal(t, uint64(2), s.Completed())
}

func TestSaver_FlushReportsFailure(t *testing.T) {
	boom := errors.New("disk full")
	w := &recordingWriter{err: boom}

	var mu sync.Mutex
	var reported []error
	s := fs.NewSaver(w, fs.SaverConfig{OnError: func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}})

	require.NoError(t, s.Request(context.Background(), 1, nil))
	assert.ErrorIs(t, flush(t, s), boom)

	mu.Lock()
	assert.Len(t, reported, 1)
	mu.Unlock()

	st := s.State().(fs.SaverState)
	assert.Equal(t, uint64(1), st.Failed)
	assert.Equal(t, "disk full", st.LastError)

	// A later success clears the error.
	w.mu.Lock()
	w.err = nil
	w.mu.Unlock()
	require.NoError(t, s.Request(context.Background(), 2, nil))
	assert.NoError(t, flush(t, s))
}

func TestSaver_SyncWritesInline(t *testing.T) {
	w := &recordingWriter{}
	s := fs.NewSaver(w, fs.SaverConfig{Sync: true})

	require.NoError(t, s.Request(context.Background(), 1, []core.Note{{Title: "x"}}))
	assert.Len(t, w.snapshot(), 1)

	w.err = errors.New("nope")
	assert.Error(t, s.Request(context.Background(), 2, nil))
}

func TestSaver_IgnoresCallerCancellation(t *testing.T) {
	w := &recordingWriter{}
	s := fs.NewSaver(w, fs.SaverConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Request(ctx, 1, []core.Note{{Title: "kept"}}))
	require.NoError(t, flush(t, s))
	assert.Len(t, w.snapshot(), 1)
}

func TestSaver_WritesThroughRepository(t *testing.T) {
	repo := fs.NewRepository(fs.Config{Path: t.TempDir()})
	require.NoError(t, repo.Initialize(context.Background()))

	s := fs.NewSaver(repo, fs.SaverConfig{})
	store := core.NewStore(core.Note{Title: "one"}, core.Note{Title: "two"})
	notes, version := store.Snapshot()
	require.NoError(t, s.Request(context.Background(), version, notes))
	require.NoError(t, flush(t, s))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "two", loaded[1].Title)
}

func TestSaver_DropsStaleSnapshots(t *testing.T) {
	t.Run("Background", func(t *testing.T) {
		w := &recordingWriter{gate: make(chan struct{})}
		s := fs.NewSaver(w, fs.SaverConfig{})
		ctx := context.Background()

		require.NoError(t, s.Request(ctx, 1, []core.Note{{Title: "first"}}))
		require.NoError(t, s.Request(ctx, 5, []core.Note{{Title: "newest"}}))
		// A caller that read the store earlier arrives late.
		require.NoError(t, s.Request(ctx, 3, []core.Note{{Title: "older"}}))

		w.gate <- struct{}{}
		w.gate <- struct{}{}
		require.NoError(t, flush(t, s))

		saves := w.snapshot()
		require.Len(t, saves, 2)
		assert.Equal(t, "newest", saves[1][0].Title)
		assert.Equal(t, uint64(1), s.State().(fs.SaverState).Skipped)
	})

	t.Run("Sync", func(t *testing.T) {
		w := &recordingWriter{}
		s := fs.NewSaver(w, fs.SaverConfig{Sync: true})
		ctx := context.Background()

		require.NoError(t, s.Request(ctx, 2, []core.Note{{Title: "newer"}}))
		require.NoError(t, s.Request(ctx, 1, []core.Note{{Title: "older"}}))

		saves := w.snapshot()
		require.Len(t, saves, 1)
		assert.Equal(t, "newer", saves[0][0].Title)
	})

	t.Run("Same Version Rewrites", func(t *testing.T) {
		w := &recordingWriter{}
		s := fs.NewSaver(w, fs.SaverConfig{Sync: true})
		ctx := context.Background()

		require.NoError(t, s.Request(ctx, 4, nil))
		require.NoError(t, s.Request(ctx, 4, nil))
		assert.Len(t, w.snapshot(), 2)
	})
}
