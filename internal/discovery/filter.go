package discovery

import (
	"fmt"
	"strings"

	"github.com/pders01/folio/internal/catalog"
)

// UnknownAuthor stands in for an empty author list when asking the shelf.
const UnknownAuthor = "Unknown author"

// Ownership answers whether the reader already has a book.
type Ownership interface {
	IsOwned(title, author string) bool
}

// OwnershipFunc adapts a function to Ownership.
type OwnershipFunc func(title, author string) bool

func (f OwnershipFunc) IsOwned(title, author string) bool {
	return f(title, author)
}

type LengthBucket string

const (
	LengthAll    LengthBucket = "all"
	LengthShort  LengthBucket = "short"
	LengthMedium LengthBucket = "medium"
	LengthLong   LengthBucket = "long"
)

var lengthBuckets = []LengthBucket{LengthAll, LengthShort, LengthMedium, LengthLong}

type PeriodBucket string

const (
	PeriodAll    PeriodBucket = "all"
	PeriodRecent PeriodBucket = "recent"
	PeriodModern PeriodBucket = "modern"
	PeriodOlder  PeriodBucket = "older"
)

var periodBuckets = []PeriodBucket{PeriodAll, PeriodRecent, PeriodModern, PeriodOlder}

// FilterCriteria is the client-side narrowing applied to a collection.
type FilterCriteria struct {
	Length    LengthBucket
	Period    PeriodBucket
	HideOwned bool
}

// DefaultCriteria keeps everything.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Length: LengthAll, Period: PeriodAll}
}

// Active reports whether any predicate can drop an item.
func (c FilterCriteria) Active() bool {
	return (c.Length != "" && c.Length != LengthAll) ||
		(c.Period != "" && c.Period != PeriodAll) ||
		c.HideOwned
}

func ParseLengthBucket(s string) (LengthBucket, error) {
	b := LengthBucket(strings.ToLower(strings.TrimSpace(s)))
	if b == "" {
		return LengthAll, nil
	}
	for _, known := range lengthBuckets {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown length filter %q (want all, short, medium or long)", s)
}

func ParsePeriodBucket(s string) (PeriodBucket, error) {
	b := PeriodBucket(strings.ToLower(strings.TrimSpace(s)))
	if b == "" {
		return PeriodAll, nil
	}
	for _, known := range periodBuckets {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown period filter %q (want all, recent, modern or older)", s)
}

// Next cycles through the buckets in display order.
func (b LengthBucket) Next() LengthBucket {
	return cycle(lengthBuckets, b)
}

func (b PeriodBucket) Next() PeriodBucket {
	return cycle(periodBuckets, b)
}

func (b LengthBucket) Label() string {
	switch b {
	case LengthShort:
		return "< 200 pages"
	case LengthMedium:
		return "200-400 pages"
	case LengthLong:
		return "> 400 pages"
	default:
		return "any length"
	}
}

func (b PeriodBucket) Label() string {
	switch b {
	case PeriodRecent:
		return "2015+"
	case PeriodModern:
		return "1980-2014"
	case PeriodOlder:
		return "before 1980"
	default:
		return "any period"
	}
}

func cycle[T comparable](all []T, cur T) T {
	for i, v := range all {
		if v == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// JoinAuthors renders an author list the way the shelf stores it.
func JoinAuthors(authors []string) string {
	if len(authors) == 0 {
		return UnknownAuthor
	}
	return strings.Join(authors, ", ")
}

// PublicationYear reads the year from the first four characters of a
// published date such as "2019", "2019-04" or "2019-04-02".
func PublicationYear(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year := 0
	for i := 0; i < 4; i++ {
		c := date[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		year = year*10 + int(c-'0')
	}
	return year, true
}

// MatchLength applies the page-count bucket. Unknown page counts only pass "all".
func MatchLength(item catalog.Item, b LengthBucket) bool {
	if b == "" || b == LengthAll {
		return true
	}
	if item.PageCount == nil {
		return false
	}
	pc := *item.PageCount
	switch b {
	case LengthShort:
		return pc > 0 && pc < 200
	case LengthMedium:
		return pc >= 200 && pc <= 400
	case LengthLong:
		return pc > 400
	}
	return false
}

// MatchPeriod applies the publication-year bucket. Unknown years only pass "all".
func MatchPeriod(item catalog.Item, b PeriodBucket) bool {
	if b == "" || b == PeriodAll {
		return true
	}
	year, ok := PublicationYear(item.PublishedDate)
	if !ok {
		return false
	}
	switch b {
	case PeriodRecent:
		return year >= 2015
	case PeriodModern:
		return year >= 1980 && year <= 2014
	case PeriodOlder:
		return year < 1980
	}
	return false
}

// Predicate keeps an item when it returns true.
type Predicate func(catalog.Item) bool

// Predicates returns the independent checks for criteria. A nil owned owns nothing.
func Predicates(c FilterCriteria, owned Ownership) []Predicate {
	preds := []Predicate{
		func(it catalog.Item) bool { return MatchLength(it, c.Length) },
		func(it catalog.Item) bool { return MatchPeriod(it, c.Period) },
	}
	if c.HideOwned && owned != nil {
		preds = append(preds, func(it catalog.Item) bool {
			return !owned.IsOwned(it.Title, JoinAuthors(it.Authors))
		})
	}
	return preds
}

// Apply keeps the items that pass every predicate, in input order. The input
// slice is never modified and the result never aliases it.
func Apply(items []catalog.Item, c FilterCriteria, owned Ownership) []catalog.Item {
	return Keep(items, Predicates(c, owned)...)
}

// Keep filters items through preds joined by AND.
func Keep(items []catalog.Item, preds ...Predicate) []catalog.Item {
	out := make([]catalog.Item, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}
