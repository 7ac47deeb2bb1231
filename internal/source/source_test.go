package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbmirror/internal/keys"
)

func TestSimulatedSnapshots(t *testing.T) {
	s := NewSimulated(8)
	defer s.Close()

	s.Push(keys.A, keys.EdgeDown)
	s.Push(keys.S, keys.EdgeDown)
	s.Push(keys.A, keys.EdgeUp)

	evt := <-s.Events()
	assert.Equal(t, keys.A, evt.Key)
	assert.Equal(t, keys.EdgeDown, evt.Edge)
	assert.True(t, evt.Held.Has(keys.A))

	evt = <-s.Events()
	assert.Equal(t, keys.S, evt.Key)
	assert.True(t, evt.Held.Has(keys.A))
	assert.True(t, evt.Held.Has(keys.S))

	evt = <-s.Events()
	assert.Equal(t, keys.EdgeUp, evt.Edge)
	assert.False(t, evt.Held.Has(keys.A))
	assert.True(t, evt.Held.Has(keys.S))
}

func TestSimulatedSnapshotsAreIndependent(t *testing.T) {
	s := NewSimulated(8)
	defer s.Close()

	s.Push(keys.A, keys.EdgeDown)
	first := <-s.Events()

	s.Push(keys.A, keys.EdgeUp)
	<-s.Events()

	// The earlier snapshot must not see later mutations.
	assert.True(t, first.Held.Has(keys.A))
}

func TestSimulatedCloseEndsStream(t *testing.T) {
	s := NewSimulated(1)
	require.NoError(t, s.Close())

	_, open := <-s.Events()
	assert.False(t, open)

	// Pushing after close must not panic.
	s.Push(keys.A, keys.EdgeDown)
	require.NoError(t, s.Close())
}
