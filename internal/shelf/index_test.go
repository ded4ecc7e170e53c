package shelf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenIndexOnDisk(t *testing.T) {
	dir := t.TempDir()
	idxPath := filepath.Join(dir, "shelf.bleve")

	idx, err := OpenIndex(idxPath)
	require.NoError(t, err)

	require.NoError(t, idx.Reindex([]Book{
		{Title: "Les Misérables", Author: "Victor Hugo"},
		{Title: "Notre-Dame de Paris", Author: "Victor Hugo"},
	}))
	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	require.NoError(t, idx.Close())

	fi, err := os.Stat(idxPath)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	// Reopening keeps the documents.
	idx, err = OpenIndex(idxPath)
	require.NoError(t, err)
	defer idx.Close()

	keys, err := idx.Search("hugo", 10)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestStoreReindexesOnOpen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shelf.db")

	store, err := Open(dbPath, nil)
	require.NoError(t, err)
	_, err = store.Add(Book{Title: "Le Horla", Author: "Guy de Maupassant"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	idx, err := NewMemIndex()
	require.NoError(t, err)
	store, err = Open(dbPath, idx)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Find("horla", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Guy de Maupassant", got[0].Author)
}
