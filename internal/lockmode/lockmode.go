// Package lockmode reports the platform's view of sticky lock keys.
//
// A lock mode (caps lock, num lock) is platform-level state independent of
// how long the key is physically held. When the platform can report it, the
// reading is authoritative and overrides any locally guessed state; when it
// cannot, Reading.Supported is false and the tracker falls back to a toggle
// heuristic.
package lockmode

import "sync"

// Reading is one report of a lock key's true state. Supported=false means
// the platform cannot report it and Active carries no meaning.
type Reading struct {
	Supported bool
	Active    bool
}

// Source produces lock-mode readings on demand. Read never blocks for long;
// a source that loses its backing device reports Supported=false rather
// than returning an error, since an unreadable lock state and an
// unsupported one degrade the same way.
type Source interface {
	// Read returns the latest caps-lock reading.
	Read() Reading

	// Close releases the underlying device, if any.
	Close() error
}

// Simulated is a Source for tests, driven entirely by Set.
type Simulated struct {
	mu      sync.Mutex
	reading Reading
}

// NewSimulated creates a simulated source that initially reports
// Supported=false.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Set installs the reading returned by subsequent Reads.
func (s *Simulated) Set(r Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reading = r
}

// Read returns the last value passed to Set.
func (s *Simulated) Read() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reading
}

// Close is a no-op.
func (s *Simulated) Close() error { return nil }
