// Package keyspec declares the static key-cap catalog: what each cap weighs
// within its row, which logical keys activate it, and its opaque legend
// payload. The catalog carries no logic beyond lookup and construction; the
// tracker decides what is pressed and the layout engine decides how wide.
package keyspec

import (
	"kbmirror/internal/keys"
)

// CapKind tags the closed set of key-cap variants. The layout engine and
// trigger matching treat all kinds uniformly through Weight and Triggers;
// kind only matters to legend interpretation, which lives in the host.
type CapKind int

const (
	// CapStandard is a plain key cap.
	CapStandard CapKind = iota
	// CapFunction is a function-row cap.
	CapFunction
	// CapSpace is the space bar.
	CapSpace
	// CapStacked holds two independent sub-roles in one visual slot, e.g.
	// up/down arrows. Each sub-role's triggers match independently.
	CapStacked
)

// Legend is the cap's display payload. The core never interprets it; it is
// handed through to the rendering layer as-is.
type Legend struct {
	Primary string `json:"primary"`
	Shifted string `json:"shifted,omitempty"`
}

// SubCap is one sub-role of a stacked cap.
type SubCap struct {
	Legend   Legend            `json:"legend"`
	Triggers []keys.LogicalKey `json:"triggers"`
}

// KeySpec describes one key cap. Immutable once constructed. A spec with an
// empty trigger set (and no stacked sub-roles) can never render pressed;
// that is how decorative caps are expressed.
type KeySpec struct {
	Kind     CapKind           `json:"kind"`
	Weight   float64           `json:"weight"`
	Legend   Legend            `json:"legend"`
	Triggers []keys.LogicalKey `json:"triggers,omitempty"`
	Stack    []SubCap          `json:"stack,omitempty"`
}

// Pressed reports whether any of the cap's triggers, including stacked
// sub-role triggers, is in the visual press set.
func (s KeySpec) Pressed(visual keys.Set) bool {
	for _, k := range s.Triggers {
		if visual.Has(k) {
			return true
		}
	}
	for i := range s.Stack {
		if s.SubPressed(i, visual) {
			return true
		}
	}
	return false
}

// SubPressed reports whether stacked sub-role i is pressed. Out-of-range
// indices report false.
func (s KeySpec) SubPressed(i int, visual keys.Set) bool {
	if i < 0 || i >= len(s.Stack) {
		return false
	}
	for _, k := range s.Stack[i].Triggers {
		if visual.Has(k) {
			return true
		}
	}
	return false
}

// Row is an ordered sequence of key caps sharing one inter-key gap.
type Row struct {
	Keys []KeySpec `json:"keys"`
}

// Weights returns the row's ordered weight list for the layout engine.
func (r Row) Weights() []float64 {
	ws := make([]float64, len(r.Keys))
	for i, k := range r.Keys {
		ws[i] = k.Weight
	}
	return ws
}

// Catalog is a full board: ordered rows of key caps.
type Catalog struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

func std(weight float64, primary string, triggers ...keys.LogicalKey) KeySpec {
	return KeySpec{Kind: CapStandard, Weight: weight, Legend: Legend{Primary: primary}, Triggers: triggers}
}

func shifted(weight float64, primary, shift string, triggers ...keys.LogicalKey) KeySpec {
	return KeySpec{Kind: CapStandard, Weight: weight, Legend: Legend{Primary: primary, Shifted: shift}, Triggers: triggers}
}

func fn(primary string, trigger keys.LogicalKey) KeySpec {
	return KeySpec{Kind: CapFunction, Weight: 1, Legend: Legend{Primary: primary}, Triggers: []keys.LogicalKey{trigger}}
}

// ANSI returns the built-in catalog: a standard ANSI board with a stacked
// up/down arrow cap in the bottom row. Weights follow the usual keyboard
// unit conventions (1u letters, 6.25u space bar).
func ANSI() Catalog {
	return Catalog{
		Name: "ansi",
		Rows: []Row{
			{Keys: []KeySpec{
				fn("Esc", keys.Escape),
				fn("F1", keys.F1), fn("F2", keys.F2), fn("F3", keys.F3), fn("F4", keys.F4),
				fn("F5", keys.F5), fn("F6", keys.F6), fn("F7", keys.F7), fn("F8", keys.F8),
				fn("F9", keys.F9), fn("F10", keys.F10), fn("F11", keys.F11), fn("F12", keys.F12),
			}},
			{Keys: []KeySpec{
				shifted(1, "`", "~", keys.Grave),
				shifted(1, "1", "!", keys.Digit1),
				shifted(1, "2", "@", keys.Digit2),
				shifted(1, "3", "#", keys.Digit3),
				shifted(1, "4", "$", keys.Digit4),
				shifted(1, "5", "%", keys.Digit5),
				shifted(1, "6", "^", keys.Digit6),
				shifted(1, "7", "&", keys.Digit7),
				shifted(1, "8", "*", keys.Digit8),
				shifted(1, "9", "(", keys.Digit9),
				shifted(1, "0", ")", keys.Digit0),
				shifted(1, "-", "_", keys.Minus),
				shifted(1, "=", "+", keys.Equal),
				std(2, "Backspace", keys.Backspace),
			}},
			{Keys: []KeySpec{
				std(1.5, "Tab", keys.Tab),
				std(1, "Q", keys.Q), std(1, "W", keys.W), std(1, "E", keys.E),
				std(1, "R", keys.R), std(1, "T", keys.T), std(1, "Y", keys.Y),
				std(1, "U", keys.U), std(1, "I", keys.I), std(1, "O", keys.O),
				std(1, "P", keys.P),
				shifted(1, "[", "{", keys.BracketLeft),
				shifted(1, "]", "}", keys.BracketRight),
				shifted(1.5, "\\", "|", keys.Backslash),
			}},
			{Keys: []KeySpec{
				std(1.75, "Caps", keys.CapsLock),
				std(1, "A", keys.A), std(1, "S", keys.S), std(1, "D", keys.D),
				std(1, "F", keys.F), std(1, "G", keys.G), std(1, "H", keys.H),
				std(1, "J", keys.J), std(1, "K", keys.K), std(1, "L", keys.L),
				shifted(1, ";", ":", keys.Semicolon),
				shifted(1, "'", "\"", keys.Quote),
				std(2.25, "Enter", keys.Enter),
			}},
			{Keys: []KeySpec{
				std(2.25, "Shift", keys.ShiftLeft),
				std(1, "Z", keys.Z), std(1, "X", keys.X), std(1, "C", keys.C),
				std(1, "V", keys.V), std(1, "B", keys.B), std(1, "N", keys.N),
				std(1, "M", keys.M),
				shifted(1, ",", "<", keys.Comma),
				shifted(1, ".", ">", keys.Period),
				shifted(1, "/", "?", keys.Slash),
				std(2.75, "Shift", keys.ShiftRight),
			}},
			{Keys: []KeySpec{
				std(1.25, "Ctrl", keys.CtrlLeft),
				std(1.25, "Super", keys.SuperLeft),
				std(1.25, "Alt", keys.AltLeft),
				{Kind: CapSpace, Weight: 6.25, Triggers: []keys.LogicalKey{keys.Space}},
				std(1.25, "Alt", keys.AltRight),
				std(1.25, "Ctrl", keys.CtrlRight),
				std(1, "←", keys.ArrowLeft),
				{
					Kind:   CapStacked,
					Weight: 1,
					Stack: []SubCap{
						{Legend: Legend{Primary: "↑"}, Triggers: []keys.LogicalKey{keys.ArrowUp}},
						{Legend: Legend{Primary: "↓"}, Triggers: []keys.LogicalKey{keys.ArrowDown}},
					},
				},
				std(1, "→", keys.ArrowRight),
			}},
		},
	}
}
