package discovery

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/folio/internal/catalog"
)

func TestOrder_MissingPagesSortLast(t *testing.T) {
	items := []catalog.Item{
		{ID: "unknown"},
		{ID: "p150", PageCount: pages(150)},
	}

	assert.Equal(t, []string{"p150", "unknown"}, ids(Order(items, SortPagesAsc)))
	assert.Equal(t, []string{"p150", "unknown"}, ids(Order(items, SortPagesDesc)))
}

func TestOrder_Modes(t *testing.T) {
	items := []catalog.Item{
		{ID: "a", PageCount: pages(300), PublishedDate: "2001", AverageRating: rating(3.5)},
		{ID: "b", PageCount: pages(120), PublishedDate: "2020-05"},
		{ID: "c", PublishedDate: "n.d.", AverageRating: rating(4.8)},
		{ID: "d", PageCount: pages(800), PublishedDate: "1950", AverageRating: rating(4.1)},
	}

	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortRelevance, []string{"a", "b", "c", "d"}},
		{SortPagesAsc, []string{"b", "a", "d", "c"}},
		{SortPagesDesc, []string{"d", "a", "b", "c"}},
		{SortDateDesc, []string{"b", "a", "d", "c"}},
		{SortRatingDesc, []string{"c", "d", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Order(items, tt.mode)))
		})
	}
}

func TestOrder_Stable(t *testing.T) {
	// Every item in a group shares the key of every mode.
	var items []catalog.Item
	for _, group := range []struct {
		prefix string
		pc     *int
		date   string
		rating *float64
	}{
		{"x", pages(250), "2010", rating(4)},
		{"y", nil, "", nil},
		{"z", pages(250), "2010", rating(4)},
		{"w", pages(90), "1990", rating(2)},
	} {
		for i := 0; i < 4; i++ {
			it := book(group.prefix + string(rune('0'+i)))
			it.PageCount = group.pc
			it.PublishedDate = group.date
			it.AverageRating = group.rating
			items = append(items, it)
		}
	}

	for _, mode := range SortModes {
		t.Run(string(mode), func(t *testing.T) {
			out := Order(items, mode)
			require.Len(t, out, len(items))
			pos := make(map[string]int, len(out))
			for i, it := range out {
				pos[it.ID] = i
			}
			for i := range items {
				for j := i + 1; j < len(items); j++ {
					a, b := items[i], items[j]
					if sameKey(a, b, mode) {
						assert.Less(t, pos[a.ID], pos[b.ID], "%s before %s", a.ID, b.ID)
					}
				}
			}
		})
	}
}

func sameKey(a, b catalog.Item, mode SortMode) bool {
	switch mode {
	case SortPagesAsc:
		return pagesOr(a, -1) == pagesOr(b, -1)
	case SortPagesDesc:
		return pagesOr(a, 0) == pagesOr(b, 0)
	case SortDateDesc:
		return yearOrZero(a) == yearOrZero(b)
	case SortRatingDesc:
		return ratingOrZero(a) == ratingOrZero(b)
	default:
		return true
	}
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	items := []catalog.Item{
		{ID: "a", PageCount: pages(300)},
		{ID: "b", PageCount: pages(100)},
	}
	before := slices.Clone(items)

	out := Order(items, SortPagesAsc)
	assert.Equal(t, []string{"b", "a"}, ids(out))
	assert.Equal(t, before, items)

	rel := Order(items, SortRelevance)
	rel[0].ID = "changed"
	assert.Equal(t, "a", items[0].ID)

	assert.NotNil(t, Order(nil, SortRelevance))
}

func TestParseSortMode(t *testing.T) {
	for _, m := range SortModes {
		got, err := ParseSortMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseSortMode(" Rating-Desc ")
	require.NoError(t, err)
	assert.Equal(t, SortRatingDesc, got)

	got, err = ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortRelevance, got)

	_, err = ParseSortMode("alphabetical")
	assert.Error(t, err)

	assert.Equal(t, SortPagesAsc, SortRelevance.Next())
	assert.Equal(t, SortRelevance, SortRatingDesc.Next())
}
