package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadHas(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.False(t, store.Has("forecaster_a1"))

	_, err = store.Load("forecaster_a1")
	assert.Error(t, err)

	require.NoError(t, store.Save("forecaster_a1", []byte(`{"slope":1.5}`)))
	assert.True(t, store.Has("forecaster_a1"))

	data, err := store.Load("forecaster_a1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"slope":1.5}`), data)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("categorizer", []byte("v1")))
	require.NoError(t, store.Save("categorizer", []byte("v2")))

	data, err := store.Load("categorizer")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("categorizer", []byte("v1")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "categorizer.json", entries[0].Name())
}

func TestFileStore_KeysDoNotCollide(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("forecaster_a1", []byte("one")))
	require.NoError(t, store.Save("forecaster_a2", []byte("two")))

	one, err := store.Load("forecaster_a1")
	require.NoError(t, err)
	two, err := store.Load("forecaster_a2")
	require.NoError(t, err)

	assert.NotEqual(t, one, two)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")

	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_EmptyDirRejected(t *testing.T) {
	_, err := NewFileStore("  ")
	assert.Error(t, err)
}
