// Package rowlayout distributes a row's pixel width across weighted key caps.
//
// The engine is a pure function: same inputs always produce the same widths,
// on every platform. Every element except the last is rounded to whole
// pixels; the last element absorbs the accumulated rounding error so that
// the emitted widths plus the fixed inter-element gaps cover the total width
// exactly. Rounding each width independently would let sub-pixel error pile
// up across a row and misalign the right edge.
package rowlayout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when the caller violates a layout
// precondition: an empty row, a non-positive weight, a negative gap, or a
// total width too small for the fixed gaps. The engine never clamps widths
// to zero or negative values to hide a bad call.
var ErrInvalidInput = errors.New("rowlayout: invalid input")

// Split maps ordered weights onto ordered pixel widths for a row of
// totalWidth pixels with a fixed gap between consecutive elements (N-1 gaps
// for N elements).
//
// Non-final widths are rounded half away from zero (math.Round); the choice
// only matters for exact sub-pixel ties. The final width is the remaining
// space, so sum(widths) + gap*(N-1) == totalWidth holds by construction.
// The final width can go non-positive when totalWidth is pathologically
// small for the number of elements; keeping rows wide enough is a caller
// precondition, not a case the engine papers over.
func Split(weights []float64, gap, totalWidth float64) ([]float64, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: empty weight list", ErrInvalidInput)
	}
	if gap < 0 {
		return nil, fmt.Errorf("%w: negative gap %v", ErrInvalidInput, gap)
	}

	var sum float64
	for i, w := range weights {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight %v at index %d", ErrInvalidInput, w, i)
		}
		sum += w
	}

	gaps := gap * float64(len(weights)-1)
	if totalWidth < gaps {
		return nil, fmt.Errorf("%w: total width %v below gap space %v", ErrInvalidInput, totalWidth, gaps)
	}

	available := totalWidth - gaps
	unit := available / sum

	widths := make([]float64, len(weights))
	var emitted float64
	for i, w := range weights[:len(weights)-1] {
		widths[i] = math.Round(unit * w)
		emitted += widths[i]
	}
	widths[len(weights)-1] = available - emitted
	return widths, nil
}
