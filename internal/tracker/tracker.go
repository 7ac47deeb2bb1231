// Package tracker reconciles keyboard input into a single visual press set.
//
// Three sources of truth feed the tracker and can contradict each other:
//   - the hardware held-key set, carried as a full snapshot on every event
//   - the platform lock-mode reading, authoritative when supported
//   - locally synthesized transient pulses, time-bounded visual overrides
//
// The tracker merges them so that no indicator is ever left looking stuck:
// held state is replaced wholesale on every event, lock state always yields
// to a platform reading, and suppressed keys (caps lock) only ever flash for
// the pulse window regardless of how long they are physically held.
//
// All mutations run under one mutex; events must be applied in arrival
// order, since each event's snapshot supersedes all prior held state and
// re-ordering could resurrect a stale held key.
package tracker

import (
	"sync"
	"time"

	"kbmirror/internal/keys"
	"kbmirror/internal/lockmode"
)

// DefaultPulseDuration is how long a transient pulse keeps a suppressed key
// visually pressed.
const DefaultPulseDuration = 120 * time.Millisecond

// LockState is the reconciled caps-lock state.
type LockState int

const (
	// LockUnknown holds only until the first lock reading or fallback
	// toggle arrives; it renders as indicator-off.
	LockUnknown LockState = iota
	LockOff
	LockOn
)

// String returns "unknown", "off" or "on".
func (s LockState) String() string {
	switch s {
	case LockOff:
		return "off"
	case LockOn:
		return "on"
	default:
		return "unknown"
	}
}

// Config configures a Tracker.
type Config struct {
	// PulseDuration is the transient pulse length. Zero means
	// DefaultPulseDuration.
	PulseDuration time.Duration

	// Suppressed are the keys whose raw physical-hold state is never
	// shown; only their pulse state is. Nil means caps lock only.
	Suppressed []keys.LogicalKey

	// CapsKey is the logical key carrying the lock role. Empty means
	// keys.CapsLock.
	CapsKey keys.LogicalKey

	// LockSource, when set, is queried once per key event; its reading
	// overrides local lock state whenever it reports Supported.
	LockSource lockmode.Source

	// Clock overrides time.Now, for tests.
	Clock func() time.Time

	// Notify, when set, is called after every state change, outside the
	// tracker lock. Hosts use it to request a redraw.
	Notify func()
}

// Tracker owns the reconciliation state. Create with New, dispose with
// Close; a closed tracker ignores late timer callbacks instead of mutating
// freed state.
type Tracker struct {
	mu sync.Mutex

	pulseDuration time.Duration
	suppressed    keys.Set
	capsKey       keys.LogicalKey
	lockSource    lockmode.Source
	clock         func() time.Time
	notify        func()

	held        keys.Set
	lock        LockState
	lastReading *lockmode.Reading

	pulses map[keys.LogicalKey]time.Time
	timers map[keys.LogicalKey]*time.Timer

	closed bool
}

// New creates a Tracker.
func New(cfg Config) *Tracker {
	t := &Tracker{
		pulseDuration: cfg.PulseDuration,
		capsKey:       cfg.CapsKey,
		lockSource:    cfg.LockSource,
		clock:         cfg.Clock,
		notify:        cfg.Notify,
		held:          keys.NewSet(),
		pulses:        make(map[keys.LogicalKey]time.Time),
		timers:        make(map[keys.LogicalKey]*time.Timer),
	}
	if t.pulseDuration <= 0 {
		t.pulseDuration = DefaultPulseDuration
	}
	if t.capsKey == "" {
		t.capsKey = keys.CapsLock
	}
	if t.clock == nil {
		t.clock = time.Now
	}
	if cfg.Suppressed == nil {
		t.suppressed = keys.NewSet(t.capsKey)
	} else {
		t.suppressed = keys.NewSet(cfg.Suppressed...)
	}
	return t
}

// HandleEvent applies one key event. The event's held-set snapshot replaces
// the tracker's held set wholesale, then lock state is reconciled: a
// supported platform reading always wins; the Down-edge toggle is the
// degraded path used only when no usable reading exists. Every Down edge of
// a suppressed key restarts its pulse, whether or not lock state changed,
// so the visual clicks once per physical press.
func (t *Tracker) HandleEvent(evt keys.Event) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}

	t.held = evt.Held.Clone()

	if t.lockSource != nil {
		r := t.lockSource.Read()
		t.lastReading = &r
	}

	capsDown := evt.Key == t.capsKey && evt.Edge == keys.EdgeDown

	switch {
	case t.lastReading != nil && t.lastReading.Supported:
		t.applyReadingLocked(*t.lastReading)
	case capsDown:
		t.toggleLocked()
	}

	if evt.Edge == keys.EdgeDown && t.suppressed.Has(evt.Key) {
		t.startPulseLocked(evt.Key)
	}

	t.mu.Unlock()
	t.notifyChanged()
}

// ApplyLockReading feeds a reading that arrived independently of any key
// event (a platform push). The same override rule applies: a supported
// reading replaces local state immediately, an unsupported one is only
// remembered.
func (t *Tracker) ApplyLockReading(r lockmode.Reading) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.lastReading = &r
	if r.Supported {
		t.applyReadingLocked(r)
	}
	t.mu.Unlock()
	t.notifyChanged()
}

// ExpirePulse clears the pulse for key if its stored deadline has elapsed.
// Timer callbacks land here; so can a stale timer that fired after the
// pulse was restarted, in which case the deadline is still in the future
// and the call is a no-op.
func (t *Tracker) ExpirePulse(key keys.LogicalKey) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	deadline, ok := t.pulses[key]
	if !ok || t.clock().Before(deadline) {
		t.mu.Unlock()
		return
	}
	delete(t.pulses, key)
	delete(t.timers, key)
	t.mu.Unlock()
	t.notifyChanged()
}

// VisualPressSet returns the keys currently rendered as pressed: the held
// set minus suppressed keys, plus any suppressed key with a live pulse. A
// pulse past its deadline does not count even if its timer has not fired
// yet.
func (t *Tracker) VisualPressSet() keys.Set {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	visual := keys.NewSet()
	for k := range t.held {
		if !t.suppressed.Has(k) {
			visual.Add(k)
		}
	}
	for k, deadline := range t.pulses {
		if t.suppressed.Has(k) && now.Before(deadline) {
			visual.Add(k)
		}
	}
	return visual
}

// CapsIndicator reports whether the lock indicator renders lit.
func (t *Tracker) CapsIndicator() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lock == LockOn
}

// CapsState returns the reconciled lock state.
func (t *Tracker) CapsState() LockState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lock
}

// Held returns a copy of the current hardware held set.
func (t *Tracker) Held() keys.Set {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held.Clone()
}

// SetPulseDuration changes the duration of subsequently started pulses.
// Live pulses keep their original deadline. Non-positive values are
// ignored.
func (t *Tracker) SetPulseDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pulseDuration = d
}

// Close cancels all outstanding pulse timers and marks the tracker
// disposed. Late timer callbacks become no-ops.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	for k, timer := range t.timers {
		timer.Stop()
		delete(t.timers, k)
	}
	for k := range t.pulses {
		delete(t.pulses, k)
	}
}

// applyReadingLocked sets lock state from a supported platform reading.
func (t *Tracker) applyReadingLocked(r lockmode.Reading) {
	if r.Active {
		t.lock = LockOn
	} else {
		t.lock = LockOff
	}
}

// toggleLocked flips the fallback lock state. The first flip out of
// LockUnknown seeds the state as on.
func (t *Tracker) toggleLocked() {
	if t.lock == LockOn {
		t.lock = LockOff
	} else {
		t.lock = LockOn
	}
}

// startPulseLocked starts or restarts the pulse for key. Restarting stops
// the previous timer first so an early stale expiry cannot clear the fresh
// pulse.
func (t *Tracker) startPulseLocked(key keys.LogicalKey) {
	if timer, ok := t.timers[key]; ok {
		timer.Stop()
	}
	t.pulses[key] = t.clock().Add(t.pulseDuration)
	t.timers[key] = time.AfterFunc(t.pulseDuration, func() {
		t.ExpirePulse(key)
	})
}

func (t *Tracker) notifyChanged() {
	if t.notify != nil {
		t.notify()
	}
}
