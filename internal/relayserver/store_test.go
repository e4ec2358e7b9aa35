package relayserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	return store
}

func TestStoreAddAndList(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add("https://push.example/1", `{"endpoint":"https://push.example/1"}`))
	require.NoError(t, store.Add("https://push.example/2", `{"endpoint":"https://push.example/2"}`))

	subs, err := store.All()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "https://push.example/1", subs[0].Endpoint)
	assert.Equal(t, "https://push.example/2", subs[1].Endpoint)
}

func TestStoreAllowsDuplicates(t *testing.T) {
	store := newTestStore(t)
	data := `{"endpoint":"https://push.example/dup"}`

	require.NoError(t, store.Add("https://push.example/dup", data))
	require.NoError(t, store.Add("https://push.example/dup", data))

	n, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestStoreRemoveExact(t *testing.T) {
	store := newTestStore(t)
	keep := `{"endpoint":"https://push.example/keep"}`
	drop := `{"endpoint":"https://push.example/drop"}`

	require.NoError(t, store.Add("https://push.example/keep", keep))
	require.NoError(t, store.Add("https://push.example/drop", drop))
	require.NoError(t, store.Add("https://push.example/drop", drop))

	removed, err := store.RemoveExact(drop)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed, "every exact match is removed")

	subs, err := store.All()
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, keep, subs[0].Data)
}

func TestStoreRemoveExactNoMatch(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Add("https://push.example/1", `{"endpoint":"https://push.example/1"}`))

	removed, err := store.RemoveExact(`{"endpoint":"https://push.example/other"}`)
	require.NoError(t, err)
	assert.Zero(t, removed)

	n, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
