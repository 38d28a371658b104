package fs_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faitout/pkg/adapters/fs"
	"github.com/aretw0/faitout/pkg/core"
)

// TestConcurrentEdits drives many writers through the store while the
// saver writes snapshots and a reader keeps parsing the file. Listeners
// race between reading the store and requesting a save, so the file ends
// current only if stale snapshots are dropped.
func TestConcurrentEdits(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Initialize(ctx))

	store := core.NewStore()
	saver := fs.NewSaver(repo, fs.SaverConfig{})
	cancel := store.Subscribe(func(core.Event) {
		notes, version := store.Snapshot()
		_ = saver.Request(ctx, version, notes)
	})
	defer cancel()

	const writers, perWriter = 8, 25

	var torn atomic.Int32
	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		ser := fs.NewJSONSerializer(false)
		for {
			select {
			case <-stop:
				return
			default:
			}
			f, err := os.Open(repo.NotesPath())
			if err != nil {
				continue
			}
			if _, err := ser.Parse(f); err != nil {
				torn.Add(1)
			}
			f.Close()
		}
	}()

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				id, err := store.Create(fmt.Sprintf("w%d-%d", w, i), "", nil, core.ColorDefault)
				if !assert.NoError(t, err) {
					return
				}
				if i%5 == 0 {
					assert.NoError(t, store.Update(id, core.Patch{}.WithBody("edited")))
				}
			}
		}()
	}
	wg.Wait()

	// No final save: the snapshot at the highest version always wins.
	require.NoError(t, flush(t, saver))
	close(stop)
	<-readerDone

	assert.Zero(t, torn.Load(), "reader saw a partially written file")

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, writers*perWriter)
	for i, n := range loaded {
		assert.Equal(t, store.List()[i].Title, n.Title)
	}
}
