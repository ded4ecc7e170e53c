package discovery

import "github.com/pders01/folio/internal/catalog"

// Collection is the raw working set of one successful search. It is replaced
// wholesale, never edited in place.
type Collection struct {
	Items []catalog.Item
	// ReportedTotal is the remote's own count. Display only.
	ReportedTotal int
	FetchCap      int
}

// EmptyCollection is the state before any search and after a blank submit.
func EmptyCollection(fetchCap int) *Collection {
	return &Collection{FetchCap: fetchCap}
}

// Len is safe on a nil collection.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// Find looks an item up by ID.
func (c *Collection) Find(id string) (catalog.Item, bool) {
	if c == nil {
		return catalog.Item{}, false
	}
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return catalog.Item{}, false
}
