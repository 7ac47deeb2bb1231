// Package keys defines the logical key identifiers and key events shared by
// the tracker, the catalog, and the input sources.
//
// A LogicalKey names a key role ("left-shift", "caps-lock"), independent of
// physical position or scan code. Equality is identity. Input sources are
// free to emit LogicalKeys outside the enumerated set below; such keys are
// tracked in held-set snapshots but can never match a catalog trigger.
package keys

// LogicalKey identifies a key role.
type LogicalKey string

// Key roles used by the built-in catalog.
const (
	Escape LogicalKey = "escape"

	F1  LogicalKey = "f1"
	F2  LogicalKey = "f2"
	F3  LogicalKey = "f3"
	F4  LogicalKey = "f4"
	F5  LogicalKey = "f5"
	F6  LogicalKey = "f6"
	F7  LogicalKey = "f7"
	F8  LogicalKey = "f8"
	F9  LogicalKey = "f9"
	F10 LogicalKey = "f10"
	F11 LogicalKey = "f11"
	F12 LogicalKey = "f12"

	Grave  LogicalKey = "grave"
	Digit1 LogicalKey = "digit-1"
	Digit2 LogicalKey = "digit-2"
	Digit3 LogicalKey = "digit-3"
	Digit4 LogicalKey = "digit-4"
	Digit5 LogicalKey = "digit-5"
	Digit6 LogicalKey = "digit-6"
	Digit7 LogicalKey = "digit-7"
	Digit8 LogicalKey = "digit-8"
	Digit9 LogicalKey = "digit-9"
	Digit0 LogicalKey = "digit-0"
	Minus  LogicalKey = "minus"
	Equal  LogicalKey = "equal"

	Backspace LogicalKey = "backspace"
	Tab       LogicalKey = "tab"

	Q LogicalKey = "q"
	W LogicalKey = "w"
	E LogicalKey = "e"
	R LogicalKey = "r"
	T LogicalKey = "t"
	Y LogicalKey = "y"
	U LogicalKey = "u"
	I LogicalKey = "i"
	O LogicalKey = "o"
	P LogicalKey = "p"

	BracketLeft  LogicalKey = "bracket-left"
	BracketRight LogicalKey = "bracket-right"
	Backslash    LogicalKey = "backslash"

	CapsLock LogicalKey = "caps-lock"

	A LogicalKey = "a"
	S LogicalKey = "s"
	D LogicalKey = "d"
	F LogicalKey = "f"
	G LogicalKey = "g"
	H LogicalKey = "h"
	J LogicalKey = "j"
	K LogicalKey = "k"
	L LogicalKey = "l"

	Semicolon LogicalKey = "semicolon"
	Quote     LogicalKey = "quote"
	Enter     LogicalKey = "enter"

	ShiftLeft LogicalKey = "left-shift"

	Z LogicalKey = "z"
	X LogicalKey = "x"
	C LogicalKey = "c"
	V LogicalKey = "v"
	B LogicalKey = "b"
	N LogicalKey = "n"
	M LogicalKey = "m"

	Comma      LogicalKey = "comma"
	Period     LogicalKey = "period"
	Slash      LogicalKey = "slash"
	ShiftRight LogicalKey = "right-shift"

	CtrlLeft   LogicalKey = "left-ctrl"
	SuperLeft  LogicalKey = "left-super"
	AltLeft    LogicalKey = "left-alt"
	Space      LogicalKey = "space"
	AltRight   LogicalKey = "right-alt"
	SuperRight LogicalKey = "right-super"
	Menu       LogicalKey = "menu"
	CtrlRight  LogicalKey = "right-ctrl"

	ArrowUp    LogicalKey = "arrow-up"
	ArrowDown  LogicalKey = "arrow-down"
	ArrowLeft  LogicalKey = "arrow-left"
	ArrowRight LogicalKey = "arrow-right"
)

// Edge is a Down or Up transition of a key.
type Edge int

const (
	EdgeDown Edge = iota
	EdgeUp
)

// String returns "down" or "up".
func (e Edge) String() string {
	if e == EdgeDown {
		return "down"
	}
	return "up"
}

// Event is a single key transition together with the authoritative snapshot
// of all keys held at event time. Snapshots, not deltas: a consumer that
// replaces its held set with Held on every event can never leave a key
// stuck after a missed edge.
type Event struct {
	Key  LogicalKey
	Edge Edge
	Held Set
}

// Set is a set of logical keys.
type Set map[LogicalKey]struct{}

// NewSet builds a Set from the given keys.
func NewSet(ks ...LogicalKey) Set {
	s := make(Set, len(ks))
	for _, k := range ks {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set.
func (s Set) Has(k LogicalKey) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k.
func (s Set) Add(k LogicalKey) { s[k] = struct{}{} }

// Remove deletes k.
func (s Set) Remove(k LogicalKey) { delete(s, k) }

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
