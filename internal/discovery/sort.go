package discovery

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/pders01/folio/internal/catalog"
)

type SortMode string

const (
	SortRelevance  SortMode = "relevance"
	SortPagesAsc   SortMode = "pages-asc"
	SortPagesDesc  SortMode = "pages-desc"
	SortDateDesc   SortMode = "date-desc"
	SortRatingDesc SortMode = "rating-desc"
)

// SortModes lists every mode in display order.
var SortModes = []SortMode{SortRelevance, SortPagesAsc, SortPagesDesc, SortDateDesc, SortRatingDesc}

func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return SortRelevance, nil
	}
	if slices.Contains(SortModes, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

func (m SortMode) Next() SortMode {
	return cycle(SortModes, m)
}

func (m SortMode) Label() string {
	switch m {
	case SortPagesAsc:
		return "pages ↑"
	case SortPagesDesc:
		return "pages ↓"
	case SortDateDesc:
		return "newest first"
	case SortRatingDesc:
		return "best rated"
	default:
		return "relevance"
	}
}

// Order returns a stably sorted copy of items. Relevance keeps retrieval order.
func Order(items []catalog.Item, mode SortMode) []catalog.Item {
	out := slices.Clone(items)
	if out == nil {
		out = []catalog.Item{}
	}

	var compare func(a, b catalog.Item) int
	switch mode {
	case SortPagesAsc:
		compare = func(a, b catalog.Item) int {
			return cmp.Compare(pagesOr(a, math.MaxInt), pagesOr(b, math.MaxInt))
		}
	case SortPagesDesc:
		compare = func(a, b catalog.Item) int {
			return cmp.Compare(pagesOr(b, 0), pagesOr(a, 0))
		}
	case SortDateDesc:
		compare = func(a, b catalog.Item) int {
			return cmp.Compare(yearOrZero(b), yearOrZero(a))
		}
	case SortRatingDesc:
		compare = func(a, b catalog.Item) int {
			return cmp.Compare(ratingOrZero(b), ratingOrZero(a))
		}
	default:
		return out
	}

	slices.SortStableFunc(out, compare)
	return out
}

func pagesOr(it catalog.Item, missing int) int {
	if it.PageCount == nil {
		return missing
	}
	return *it.PageCount
}

func yearOrZero(it catalog.Item) int {
	y, _ := PublicationYear(it.PublishedDate)
	return y
}

func ratingOrZero(it catalog.Item) float64 {
	if it.AverageRating == nil {
		return 0
	}
	return *it.AverageRating
}
