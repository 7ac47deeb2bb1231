package rowlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitProportional(t *testing.T) {
	widths, err := Split([]float64{1, 1, 2}, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, []float64{24, 24, 48}, widths)
}

func TestSplitLastAbsorbsRemainder(t *testing.T) {
	widths, err := Split([]float64{1, 1, 1}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 4}, widths)
}

func TestSplitSingleElement(t *testing.T) {
	widths, err := Split([]float64{2.5}, 6, 137)
	require.NoError(t, err)
	assert.Equal(t, []float64{137}, widths)
}

func TestSplitExactness(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
		gap     float64
		total   float64
	}{
		{"even", []float64{1, 1, 1, 1}, 4, 400},
		{"uneven", []float64{1.5, 1, 1, 1, 1, 2.25}, 3, 611},
		{"wide space row", []float64{1.25, 1.25, 1.25, 6.25, 1.25, 1.25, 1.25, 1.25}, 4, 720},
		{"fractional total", []float64{1, 2, 3}, 2.5, 333.5},
		{"many small", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, 2, 977},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			widths, err := Split(tc.weights, tc.gap, tc.total)
			require.NoError(t, err)
			require.Len(t, widths, len(tc.weights))

			var sum float64
			for _, w := range widths {
				sum += w
			}
			sum += tc.gap * float64(len(tc.weights)-1)
			assert.Equal(t, tc.total, sum, "widths plus gaps must cover the total exactly")
		})
	}
}

func TestSplitDeterminism(t *testing.T) {
	weights := []float64{1.5, 1, 2.75, 1, 6.25, 1, 1.25}

	first, err := Split(weights, 4, 853)
	require.NoError(t, err)
	second, err := Split(weights, 4, 853)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSplitInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
		gap     float64
		total   float64
	}{
		{"empty", nil, 0, 100},
		{"zero weight", []float64{1, 0, 1}, 0, 100},
		{"negative weight", []float64{1, -2, 1}, 0, 100},
		{"negative gap", []float64{1, 1}, -1, 100},
		{"total below gaps", []float64{1, 1, 1}, 10, 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Split(tc.weights, tc.gap, tc.total)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
