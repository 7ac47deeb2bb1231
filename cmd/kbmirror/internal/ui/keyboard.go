// Package ui renders the on-screen keyboard. It is a thin host over the
// core: per frame it queries the tracker's visual press set and indicator,
// asks the layout engine for the row geometry, and paints.
package ui

import (
	"image"
	"sync/atomic"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"kbmirror/cmd/kbmirror/internal/theme"
	"kbmirror/internal/keys"
	"kbmirror/internal/keyspec"
	"kbmirror/internal/logging"
	"kbmirror/internal/rowlayout"
	"kbmirror/internal/tracker"
)

// Keyboard is the board widget.
type Keyboard struct {
	theme   *theme.Theme
	catalog keyspec.Catalog
	tracker *tracker.Tracker
	capsKey keys.LogicalKey

	// gapPx is hot-reloadable from the config watcher.
	gapPx atomic.Value // float64

	layoutWarned bool
}

// NewKeyboard creates the widget.
func NewKeyboard(t *theme.Theme, catalog keyspec.Catalog, tr *tracker.Tracker, gapPx float64) *Keyboard {
	k := &Keyboard{
		theme:   t,
		catalog: catalog,
		tracker: tr,
		capsKey: keys.CapsLock,
	}
	k.gapPx.Store(gapPx)
	return k
}

// SetGap updates the inter-key gap for subsequent frames.
func (k *Keyboard) SetGap(gapPx float64) {
	k.gapPx.Store(gapPx)
}

// Layout renders the board.
func (k *Keyboard) Layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, k.theme.Palette.Background)

	visual := k.tracker.VisualPressSet()
	capsOn := k.tracker.CapsIndicator()

	pad := gtx.Dp(k.theme.Config.Padding)
	rowHeight := gtx.Dp(k.theme.Config.RowHeight)
	gap := k.gapPx.Load().(float64)
	boardWidth := float64(gtx.Constraints.Max.X - 2*pad)

	y := pad
	for _, row := range k.catalog.Rows {
		widths, err := rowlayout.Split(row.Weights(), gap, boardWidth)
		if err != nil {
			// Window narrower than the row's gap space. Caller
			// precondition; skip the row rather than painting garbage.
			if !k.layoutWarned {
				logging.Warn("row layout failed", "error", err)
				k.layoutWarned = true
			}
			continue
		}

		x := float64(pad)
		for i, spec := range row.Keys {
			k.layoutCap(gtx, spec, visual, capsOn, int(x), y, int(widths[i]), rowHeight)
			x += widths[i] + gap
		}
		y += rowHeight + int(gap)
	}

	return layout.Dimensions{Size: gtx.Constraints.Max}
}

func (k *Keyboard) layoutCap(gtx layout.Context, spec keyspec.KeySpec, visual keys.Set, capsOn bool, x, y, w, h int) {
	if spec.Kind == keyspec.CapStacked {
		// Two sub-roles stacked in one slot, each matched independently.
		half := (h - gtx.Dp(2)) / 2
		for i := range spec.Stack {
			sub := spec.Stack[i]
			subY := y + i*(half+gtx.Dp(2))
			k.paintCap(gtx, sub.Legend.Primary, spec.SubPressed(i, visual), false, x, subY, w, half)
		}
		return
	}

	indicator := capsOn && k.isCapsCap(spec)
	k.paintCap(gtx, spec.Legend.Primary, spec.Pressed(visual), indicator, x, y, w, h)
}

func (k *Keyboard) isCapsCap(spec keyspec.KeySpec) bool {
	for _, trig := range spec.Triggers {
		if trig == k.capsKey {
			return true
		}
	}
	return false
}

func (k *Keyboard) paintCap(gtx layout.Context, legend string, pressed, indicator bool, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}

	defer op.Offset(image.Pt(x, y)).Push(gtx.Ops).Pop()

	fill := k.theme.Palette.Cap
	legendColor := k.theme.Palette.Legend
	if pressed {
		fill = k.theme.Palette.CapPressed
		legendColor = k.theme.Palette.LegendLit
	}

	radius := gtx.Dp(k.theme.Config.CornerRadius)
	rect := clip.UniformRRect(image.Rect(0, 0, w, h), radius).Op(gtx.Ops)
	paint.FillShape(gtx.Ops, fill, rect)

	if indicator {
		dot := gtx.Dp(unit.Dp(6))
		inset := gtx.Dp(unit.Dp(5))
		circle := clip.Ellipse{
			Min: image.Pt(w-inset-dot, inset),
			Max: image.Pt(w-inset, inset+dot),
		}.Op(gtx.Ops)
		paint.FillShape(gtx.Ops, k.theme.Palette.Indicator, circle)
	}

	if legend == "" {
		return
	}
	gtx.Constraints = layout.Exact(image.Pt(w, h))
	lbl := material.Label(k.theme.Theme, k.theme.Config.FontLegend, legend)
	lbl.Color = legendColor
	layout.Center.Layout(gtx, lbl.Layout)
}
