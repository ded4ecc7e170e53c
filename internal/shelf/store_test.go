package shelf

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/discovery"
)

func setupTestStore(t *testing.T, withIndex bool) *Store {
	t.Helper()
	var idx *Index
	if withIndex {
		var err error
		idx, err = NewMemIndex()
		require.NoError(t, err)
	}
	store, err := Open(filepath.Join(t.TempDir(), "shelf.db"), idx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AddAndIsOwned(t *testing.T) {
	store := setupTestStore(t, false)

	added, err := store.Add(Book{Title: "L'Étranger", Author: "Albert Camus"})
	require.NoError(t, err)
	assert.True(t, added)

	assert.True(t, store.IsOwned("L'Étranger", "Albert Camus"))
	assert.False(t, store.IsOwned("l'étranger", "Albert Camus"), "ownership is exact")
	assert.False(t, store.IsOwned("L'Étranger", "A. Camus"))

	added, err = store.Add(Book{Title: " L'Étranger ", Author: "Albert Camus"})
	require.NoError(t, err)
	assert.False(t, added, "duplicate after trimming")
	assert.Equal(t, 1, store.Len())

	_, err = store.Add(Book{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestStore_AddFromItemMatchesOwnershipQuery(t *testing.T) {
	store := setupTestStore(t, false)

	item := catalog.Item{ID: "v1", Title: "Anonyme", PageCount: intPtr(90)}
	_, err := store.Add(FromItem(item))
	require.NoError(t, err)

	assert.True(t, store.IsOwned(item.Title, discovery.JoinAuthors(item.Authors)))

	co := catalog.Item{ID: "v2", Title: "Duo", Authors: []string{"A", "B"}}
	_, err = store.Add(FromItem(co))
	require.NoError(t, err)
	assert.True(t, store.IsOwned("Duo", "A, B"))

	got := discovery.Apply([]catalog.Item{item, co, {ID: "v3", Title: "Autre"}},
		discovery.FilterCriteria{HideOwned: true}, store)
	require.Len(t, got, 1)
	assert.Equal(t, "v3", got[0].ID)
}

func TestStore_GetListRemove(t *testing.T) {
	store := setupTestStore(t, false)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	for _, b := range []Book{
		{Title: "zazie dans le métro", Author: "Raymond Queneau"},
		{Title: "Bel-Ami", Author: "Guy de Maupassant", PageCount: 420},
		{Title: "Candide", Author: "Voltaire"},
	} {
		_, err := store.Add(b)
		require.NoError(t, err)
	}

	books, err := store.List()
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, []string{"Bel-Ami", "Candide", "zazie dans le métro"},
		[]string{books[0].Title, books[1].Title, books[2].Title})

	b, err := store.Get("Bel-Ami", "Guy de Maupassant")
	require.NoError(t, err)
	assert.Equal(t, 420, b.PageCount)
	assert.True(t, b.AddedAt.Equal(fixed))

	require.NoError(t, store.Remove("Candide", "Voltaire"))
	assert.False(t, store.IsOwned("Candide", "Voltaire"))
	assert.ErrorIs(t, store.Remove("Candide", "Voltaire"), ErrNotFound)

	_, err = store.Get("Candide", "Voltaire")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ReopenRestoresOwnership(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	_, err = store.Add(Book{Title: "Germinal", Author: "Émile Zola"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path, nil)
	require.NoError(t, err)
	defer store.Close()
	assert.True(t, store.IsOwned("Germinal", "Émile Zola"))
	assert.Equal(t, 1, store.Len())
}

func TestStore_FindWithoutIndex(t *testing.T) {
	store := setupTestStore(t, false)
	_, _ = store.Add(Book{Title: "Le Petit Prince", Author: "Antoine de Saint-Exupéry"})
	_, _ = store.Add(Book{Title: "Vol de nuit", Author: "Antoine de Saint-Exupéry"})
	_, _ = store.Add(Book{Title: "Nana", Author: "Émile Zola"})

	got, err := store.Find("saint-ex", 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.Find("prince", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Le Petit Prince", got[0].Title)
}

func TestStore_FindWithIndex(t *testing.T) {
	store := setupTestStore(t, true)
	_, _ = store.Add(Book{Title: "Dune", Author: "Frank Herbert", Categories: []string{"Science fiction"}})
	_, _ = store.Add(Book{Title: "Fondation", Author: "Isaac Asimov", Categories: []string{"Science fiction"}})
	_, _ = store.Add(Book{Title: "Madame Bovary", Author: "Gustave Flaubert", Description: "Roman réaliste"})

	got, err := store.Find("herbert", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Dune", got[0].Title)

	got, err = store.Find("science", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.Find("bov", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Madame Bovary", got[0].Title)

	require.NoError(t, store.Remove("Dune", "Frank Herbert"))
	got, err = store.Find("herbert", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = store.Find("x", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func intPtr(n int) *int { return &n }

func TestStore_LockedDatabaseTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.db")

	first, err := Open(path, nil)
	require.NoError(t, err)
	defer first.Close()

	_, err = OpenWithTimeout(path, nil, 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening database")
}
