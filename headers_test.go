package fetchengo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderStoreCaseInsensitive(t *testing.T) {
	store := newHeaderStore(Headers{"content-type": "application/json"})

	assert.True(t, store.has("Content-Type"))
	assert.True(t, store.has("CONTENT-TYPE"))

	store.add(Headers{"X-TOKEN": "abc"})
	assert.True(t, store.has("x-token"))

	// Same name, different case: overwrite, not duplicate.
	store.add(Headers{"x-token": "def"})
	snap := store.snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, "def", snap["X-Token"])

	store.remove("X-Token", "Content-Type")
	assert.False(t, store.has("x-token"))
	assert.False(t, store.has("content-type"))
}

func TestHeaderSnapshotIsACopy(t *testing.T) {
	store := newHeaderStore(Headers{"X-A": "1"})
	snap := store.snapshot()

	store.add(Headers{"X-B": "2"})
	assert.Len(t, snap, 1, "earlier snapshot is unaffected")

	snap["X-C"] = "3"
	assert.False(t, store.has("X-C"), "mutating the snapshot never leaks back")
}

func TestMergeHeadersOverrideWins(t *testing.T) {
	merged := mergeHeaders(
		Headers{"X-A": "default", "X-B": "default"},
		Headers{"x-a": "override", "X-C": "extra"},
	)
	assert.Equal(t, Headers{"X-A": "override", "X-B": "default", "X-C": "extra"}, merged)
}

func TestClientHeaderMutatorsEmitEvents(t *testing.T) {
	client, err := New(Config{BaseURL: "https://api.example.com", Type: PayloadJSON})
	require.NoError(t, err)

	rec := &eventRecorder{}
	client.On(EventHeaderAdd, rec.record)
	client.On(EventHeaderRemove, rec.record)

	client.AddHeader(Headers{"X-A": "1"})
	assert.True(t, client.HasHeader("X-A"))
	assert.True(t, client.HasHeader("x-a"))

	client.RemoveHeader("x-a")
	assert.False(t, client.HasHeader("X-A"))

	// Reads stay silent.
	client.HasHeader("X-A")

	events := rec.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, EventHeaderAdd, events[0].Type)
	assert.Equal(t, EventHeaderRemove, events[1].Type)
}
