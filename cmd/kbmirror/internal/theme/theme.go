// Package theme carries the visual constants of the mirror window. The
// core never sees these; they are host-side payload.
package theme

import (
	"image/color"

	"gioui.org/unit"
	"gioui.org/widget/material"
)

// Palette defines the board colors.
type Palette struct {
	Background color.NRGBA
	Cap        color.NRGBA
	CapPressed color.NRGBA
	Legend     color.NRGBA
	LegendLit  color.NRGBA
	Indicator  color.NRGBA
}

// Config defines the board metrics.
type Config struct {
	CornerRadius unit.Dp
	RowHeight    unit.Dp
	Padding      unit.Dp
	FontLegend   unit.Sp
}

// Theme wraps the material theme with board-specific styling.
type Theme struct {
	*material.Theme
	Palette Palette
	Config  Config
}

// New creates the default dark board theme.
func New(mtheme *material.Theme) *Theme {
	return &Theme{
		Theme: mtheme,
		Palette: Palette{
			Background: color.NRGBA{R: 0x16, G: 0x18, B: 0x1d, A: 0xff},
			Cap:        color.NRGBA{R: 0x2a, G: 0x2d, B: 0x35, A: 0xff},
			CapPressed: color.NRGBA{R: 0x5a, G: 0x8d, B: 0xee, A: 0xff},
			Legend:     color.NRGBA{R: 0xc9, G: 0xcc, B: 0xd4, A: 0xff},
			LegendLit:  color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
			Indicator:  color.NRGBA{R: 0x6f, G: 0xd6, B: 0x7a, A: 0xff},
		},
		Config: Config{
			CornerRadius: 5,
			RowHeight:    52,
			Padding:      10,
			FontLegend:   13,
		},
	}
}
