package stats

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbmirror/internal/keys"
	"kbmirror/internal/keyspec"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stats", "presses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndCounts(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Record("layout-a", keys.A))
	require.NoError(t, s.Record("layout-a", keys.A))
	require.NoError(t, s.Record("layout-a", keys.Space))
	require.NoError(t, s.Record("layout-b", keys.A))

	counts, err := s.Counts("layout-a")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), counts[keys.A])
	assert.Equal(t, uint64(1), counts[keys.Space])
	assert.Len(t, counts, 2, "layout-b counts stay separate")
}

func TestCountsEmptyLayout(t *testing.T) {
	s := openTestStore(t)

	counts, err := s.Counts("nothing-recorded")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestFingerprintStability(t *testing.T) {
	a, err := Fingerprint(keyspec.ANSI())
	require.NoError(t, err)
	b, err := Fingerprint(keyspec.ANSI())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := keyspec.Catalog{Name: "tiny", Rows: []keyspec.Row{
		{Keys: []keyspec.KeySpec{{Weight: 1, Triggers: []keys.LogicalKey{keys.A}}}},
	}}
	c, err := Fingerprint(other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
