// Package indicator publishes the caps-lock indicator to the desktop so
// panel applets can track lock state without the mirror window open.
package indicator

// Publisher broadcasts indicator changes.
type Publisher interface {
	// Publish announces the current caps indicator value. Repeated
	// identical values are not re-broadcast.
	Publish(capsOn bool)

	// Close tears the publisher down.
	Close() error
}

// Noop is a Publisher that discards updates, used where no desktop bus is
// available or publishing is disabled.
type Noop struct{}

// Publish discards the update.
func (Noop) Publish(bool) {}

// Close is a no-op.
func (Noop) Close() error { return nil }
