// Package lifecycle bridges faitout event channels to lifecycle sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"
)

type source[E lifecycle.Event] struct {
	events <-chan E
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that re-emits events from a typed
// channel, such as store events or file watcher events.
func NewSource[E lifecycle.Event](events <-chan E) lifecycle.Source {
	return &source[E]{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *source[E]) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until the input closes or ctx is done. The
// forwarding goroutine is tracked by lifecycle.Go.
func (s *source[E]) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

// StoreEvents adapts a store subscription to a channel. The returned
// cancel unsubscribes; the channel is left open. Events are dropped when
// the channel buffer is full so the store never blocks on a slow reader.
func StoreEvents[E any](subscribe func(func(E)) func(), buffer int) (<-chan E, func()) {
	ch := make(chan E, buffer)
	done := make(chan struct{})
	unsubscribe := subscribe(func(e E) {
		select {
		case <-done:
		case ch <- e:
		default:
		}
	})
	return ch, func() {
		unsubscribe()
		close(done)
	}
}
