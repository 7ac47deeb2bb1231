package keyspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbmirror/internal/keys"
)

func TestANSICatalogSanity(t *testing.T) {
	c := ANSI()
	require.NotEmpty(t, c.Rows)

	capsFound := false
	stackedFound := false
	for _, row := range c.Rows {
		require.NotEmpty(t, row.Keys)
		for _, spec := range row.Keys {
			assert.Greater(t, spec.Weight, 0.0)
			for _, trig := range spec.Triggers {
				if trig == keys.CapsLock {
					capsFound = true
				}
			}
			if spec.Kind == CapStacked {
				stackedFound = true
				assert.Len(t, spec.Stack, 2)
			}
		}
	}
	assert.True(t, capsFound, "caps-lock cap present")
	assert.True(t, stackedFound, "stacked arrow cap present")
}

func TestRowWeights(t *testing.T) {
	row := Row{Keys: []KeySpec{
		{Weight: 1.5}, {Weight: 1}, {Weight: 6.25},
	}}
	assert.Equal(t, []float64{1.5, 1, 6.25}, row.Weights())
}

func TestPressedMatching(t *testing.T) {
	spec := KeySpec{Weight: 2.25, Triggers: []keys.LogicalKey{keys.ShiftLeft}}

	assert.True(t, spec.Pressed(keys.NewSet(keys.ShiftLeft, keys.A)))
	assert.False(t, spec.Pressed(keys.NewSet(keys.ShiftRight)))
	assert.False(t, spec.Pressed(keys.NewSet()))
}

func TestDecorativeCapNeverPressed(t *testing.T) {
	spec := KeySpec{Weight: 1, Legend: Legend{Primary: "logo"}}
	assert.False(t, spec.Pressed(keys.NewSet(keys.A, keys.CapsLock, keys.Space)))
}

func TestStackedSubRolesMatchIndependently(t *testing.T) {
	spec := KeySpec{
		Kind:   CapStacked,
		Weight: 1,
		Stack: []SubCap{
			{Triggers: []keys.LogicalKey{keys.ArrowUp}},
			{Triggers: []keys.LogicalKey{keys.ArrowDown}},
		},
	}

	visual := keys.NewSet(keys.ArrowDown)
	assert.False(t, spec.SubPressed(0, visual))
	assert.True(t, spec.SubPressed(1, visual))
	assert.True(t, spec.Pressed(visual))

	assert.False(t, spec.SubPressed(2, visual), "out of range is false")
	assert.False(t, spec.SubPressed(-1, visual))
}

func TestParseValidCatalog(t *testing.T) {
	data := []byte(`{
		"name": "compact",
		"rows": [
			{"keys": [
				{"kind": "standard", "weight": 1, "legend": {"primary": "A"}, "triggers": ["a"]},
				{"weight": 2, "legend": {"primary": "Enter"}, "triggers": ["enter"]}
			]},
			{"keys": [
				{"kind": "stacked", "weight": 1, "stack": [
					{"legend": {"primary": "up"}, "triggers": ["arrow-up"]},
					{"legend": {"primary": "dn"}, "triggers": ["arrow-down"]}
				]}
			]}
		]
	}`)

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "compact", c.Name)
	require.Len(t, c.Rows, 2)
	assert.Equal(t, CapStandard, c.Rows[0].Keys[0].Kind)
	assert.Equal(t, keys.LogicalKey("a"), c.Rows[0].Keys[0].Triggers[0])
	assert.Equal(t, CapStacked, c.Rows[1].Keys[0].Kind)
}

func TestParseRejectsMalformedCatalogs(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no rows", `{"name": "x"}`},
		{"empty rows", `{"rows": []}`},
		{"missing weight", `{"rows": [{"keys": [{"triggers": ["a"]}]}]}`},
		{"zero weight", `{"rows": [{"keys": [{"weight": 0}]}]}`},
		{"bad kind", `{"rows": [{"keys": [{"weight": 1, "kind": "round"}]}]}`},
		{"not json", `{rows}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestCapKindRoundTrip(t *testing.T) {
	for _, k := range []CapKind{CapStandard, CapFunction, CapSpace, CapStacked} {
		data, err := k.MarshalJSON()
		require.NoError(t, err)

		var back CapKind
		require.NoError(t, back.UnmarshalJSON(data))
		assert.Equal(t, k, back)
	}
}
