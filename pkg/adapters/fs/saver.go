package fs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/faitout/pkg/core"
)

// SnapshotWriter persists a complete notes snapshot.
type SnapshotWriter interface {
	Save(ctx context.Context, notes []core.Note) error
}

// SaverConfig configures a Saver.
type SaverConfig struct {
	// Sync writes on the caller's goroutine instead of in the background.
	Sync    bool
	Logger  *slog.Logger
	OnError func(error) // called for every failed background write
}

// snapshot is a complete notes collection and the store version it
// reflects.
type snapshot struct {
	version uint64
	notes   []core.Note
}

// Saver writes store snapshots off the caller's goroutine.
//
// At most one write is in flight. Requests arriving while a write runs
// replace the pending snapshot, so a burst of saves costs at most two
// writes. Snapshots carry the store version: one older than a snapshot
// already accepted is dropped, so the file never moves back in time even
// when callers race between reading the store and calling Request.
type Saver struct {
	w       SnapshotWriter
	sync    bool
	logger  *slog.Logger
	onError func(error)

	mu        sync.Mutex
	running   bool
	pending   *snapshot
	newest    uint64 // highest version accepted
	idle      chan struct{}
	requested uint64
	completed uint64
	failed    uint64
	skipped   uint64
	lastErr   error
	lastSave  *time.Time

	wmu     sync.Mutex // serializes writes
	written uint64     // highest version written successfully
}

// NewSaver creates a saver writing through w.
func NewSaver(w SnapshotWriter, cfg SaverConfig) *Saver {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	idle := make(chan struct{})
	close(idle)
	return &Saver{
		w:       w,
		sync:    cfg.Sync,
		logger:  cfg.Logger,
		onError: cfg.OnError,
		idle:    idle,
	}
}

// Request schedules notes, taken at the given store version, to be
// written. In sync mode the write happens before Request returns and its
// error is returned; otherwise Request never blocks on I/O and failures
// surface through OnError and Flush. A snapshot older than one already
// accepted is dropped without error.
//
// Cancelling ctx does not abort a write that has been accepted.
func (s *Saver) Request(ctx context.Context, version uint64, notes []core.Note) error {
	ctx = context.WithoutCancel(ctx)
	snap := snapshot{version: version, notes: notes}

	s.mu.Lock()
	s.requested++
	if version < s.newest {
		s.skipped++
		s.mu.Unlock()
		s.logger.Debug("stale save dropped", "version", version)
		return nil
	}
	s.newest = version
	if s.sync {
		s.mu.Unlock()
		return s.write(ctx, snap)
	}
	if s.running {
		s.pending = &snap
		s.mu.Unlock()
		s.logger.Debug("save coalesced", "version", version, "count", len(notes))
		return nil
	}
	s.running = true
	s.idle = make(chan struct{})
	s.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return s.loop(ctx, snap)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("saver stopped", "error", err)
	}))
	return nil
}

func (s *Saver) loop(ctx context.Context, snap snapshot) (err error) {
	done := false
	defer func() {
		if done {
			return
		}
		if r := recover(); r != nil {
			err = fmt.Errorf("saver panic: %v", r)
		}
		s.mu.Lock()
		s.pending = nil
		s.finish()
		s.mu.Unlock()
	}()

	for {
		_ = s.write(ctx, snap)

		s.mu.Lock()
		if s.pending == nil {
			s.finish()
			s.mu.Unlock()
			done = true
			return nil
		}
		snap = *s.pending
		s.pending = nil
		s.mu.Unlock()
	}
}

// finish marks the saver idle. Callers hold s.mu.
func (s *Saver) finish() {
	s.running = false
	close(s.idle)
}

func (s *Saver) write(ctx context.Context, snap snapshot) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if snap.version < s.written {
		s.mu.Lock()
		s.skipped++
		s.mu.Unlock()
		return nil
	}
	err := s.w.Save(ctx, snap.notes)
	if err == nil {
		s.written = snap.version
	}

	s.mu.Lock()
	if err != nil {
		s.failed++
		s.lastErr = err
	} else {
		now := time.Now()
		s.completed++
		s.lastErr = nil
		s.lastSave = &now
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to save notes", "error", err)
		if s.onError != nil && !s.sync {
			s.onError(err)
		}
	}
	return err
}

// Flush waits until no write is in flight or pending and returns the
// error of the last write, if it failed.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Completed returns the number of successful writes.
func (s *Saver) Completed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}
