package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save([]byte("first")))
	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	// Saves overwrite atomically.
	require.NoError(t, store.Save([]byte("second")))
	data, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	assert.NoError(t, store.Close())
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := NewBoltStore(path, "engine-a")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save([]byte("payload")))
	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestBoltStoreKeysAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	a, err := NewBoltStore(path, "engine-a")
	require.NoError(t, err)
	require.NoError(t, a.Save([]byte("a-state")))
	require.NoError(t, a.Close())

	b, err := NewBoltStore(path, "engine-b")
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Load()
	assert.ErrorIs(t, err, ErrNotFound, "engine-b must not see engine-a's snapshot")
}
