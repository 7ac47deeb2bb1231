//go:build linux

package source

import (
	"fmt"
	"sync"
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbmirror/internal/keys"
)

func newTestEvdev(buffer int) *Evdev {
	return &Evdev{
		held:   keys.NewSet(),
		events: make(chan keys.Event, buffer),
		done:   make(chan struct{}),
	}
}

func TestLogicalKeyKnownCodes(t *testing.T) {
	assert.Equal(t, keys.A, logicalKey(evdev.KEY_A))
	assert.Equal(t, keys.CapsLock, logicalKey(evdev.KEY_CAPSLOCK))
	assert.Equal(t, keys.Space, logicalKey(evdev.KEY_SPACE))
	assert.Equal(t, keys.ArrowLeft, logicalKey(evdev.KEY_LEFT))
}

func TestLogicalKeyUnknownCodeSynthesized(t *testing.T) {
	assert.Equal(t, keys.LogicalKey("key-code-705"), logicalKey(evdev.EvCode(705)))
	assert.Equal(t, keys.LogicalKey("key-code-0"), logicalKey(evdev.EvCode(0)))
}

// Two devices emitting concurrently must still produce a channel order
// consistent with the held-set history: the i-th received snapshot contains
// exactly the keys of the first i events.
func TestEmitSnapshotsArriveInHeldOrder(t *testing.T) {
	const perDevice = 100

	e := newTestEvdev(2 * perDevice)

	var wg sync.WaitGroup
	for _, prefix := range []string{"a", "b"} {
		wg.Add(1)
		go func(prefix string) {
			defer wg.Done()
			for i := 0; i < perDevice; i++ {
				key := keys.LogicalKey(fmt.Sprintf("%s-%d", prefix, i))
				assert.True(t, e.emit(key, keys.EdgeDown))
			}
		}(prefix)
	}
	wg.Wait()
	close(e.events)

	seen := keys.NewSet()
	for evt := range e.events {
		seen.Add(evt.Key)
		assert.True(t, evt.Held.Has(evt.Key))
		assert.Equal(t, len(seen), len(evt.Held), "snapshot out of order for %s", evt.Key)
		for k := range seen {
			assert.True(t, evt.Held.Has(k))
		}
	}
	assert.Equal(t, 2*perDevice, len(seen))
}

func TestEmitUpEdgeRemovesFromSnapshot(t *testing.T) {
	e := newTestEvdev(4)

	require.True(t, e.emit(keys.A, keys.EdgeDown))
	require.True(t, e.emit(keys.B, keys.EdgeDown))
	require.True(t, e.emit(keys.A, keys.EdgeUp))

	<-e.events
	<-e.events
	evt := <-e.events
	assert.Equal(t, keys.EdgeUp, evt.Edge)
	assert.False(t, evt.Held.Has(keys.A))
	assert.True(t, evt.Held.Has(keys.B))
}

// Close must unblock an emitter stuck on a full event channel.
func TestCloseUnblocksPendingEmit(t *testing.T) {
	e := newTestEvdev(0)

	blocked := make(chan bool)
	go func() {
		blocked <- e.emit(keys.A, keys.EdgeDown)
	}()

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	select {
	case sent := <-blocked:
		assert.False(t, sent)
	case <-time.After(2 * time.Second):
		t.Fatal("emit did not return after Close")
	}
}
