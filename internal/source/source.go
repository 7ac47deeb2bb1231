// Package source turns platform keyboard input into keys.Event streams.
//
// Every emitted event carries a full held-set snapshot, so consumers replace
// rather than patch their held state. Events from one source are totally
// ordered by channel delivery.
package source

import (
	"sync"

	"kbmirror/internal/keys"
)

// Source is a stream of key events.
type Source interface {
	// Events returns the event channel. It is closed when the source
	// stops.
	Events() <-chan keys.Event

	// Close stops the source and closes the event channel.
	Close() error
}

// Simulated is an in-memory Source driven by Push. It maintains its own
// held set so snapshots behave like a real device's.
type Simulated struct {
	mu     sync.Mutex
	held   keys.Set
	events chan keys.Event
	closed bool
}

// NewSimulated creates a simulated source with room for buffer pending
// events.
func NewSimulated(buffer int) *Simulated {
	return &Simulated{
		held:   keys.NewSet(),
		events: make(chan keys.Event, buffer),
	}
}

// Push records an edge for key and emits the event with the updated
// snapshot. Pushing onto a closed source is a no-op.
func (s *Simulated) Push(key keys.LogicalKey, edge keys.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if edge == keys.EdgeDown {
		s.held.Add(key)
	} else {
		s.held.Remove(key)
	}
	s.events <- keys.Event{Key: key, Edge: edge, Held: s.held.Clone()}
}

// Events returns the event channel.
func (s *Simulated) Events() <-chan keys.Event { return s.events }

// Close closes the event channel.
func (s *Simulated) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}
