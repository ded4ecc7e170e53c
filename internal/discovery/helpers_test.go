package discovery

import (
	"context"
	"fmt"
	"sync"

	"github.com/pders01/folio/internal/catalog"
)

// fakeTransport records requests and answers them through respond.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []catalog.Request
	respond func(call int, req catalog.Request) (*catalog.Response, error)
}

func (f *fakeTransport) Search(ctx context.Context, req catalog.Request) (*catalog.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	call := len(f.calls)
	f.mu.Unlock()
	return f.respond(call, req)
}

func (f *fakeTransport) Calls() []catalog.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]catalog.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// pagedTransport serves a fixed corpus honoring startIndex and maxResults.
func pagedTransport(corpus []catalog.Item, total int) *fakeTransport {
	return &fakeTransport{respond: func(_ int, req catalog.Request) (*catalog.Response, error) {
		start := min(req.StartIndex, len(corpus))
		end := min(start+req.MaxResults, len(corpus))
		return &catalog.Response{TotalItems: total, Items: corpus[start:end]}, nil
	}}
}

// fullBatchTransport always returns exactly n items, whatever was asked.
func fullBatchTransport(n, total int) *fakeTransport {
	return &fakeTransport{respond: func(call int, req catalog.Request) (*catalog.Response, error) {
		items := make([]catalog.Item, n)
		for i := range items {
			items[i] = book(fmt.Sprintf("c%d-%d", call, i))
		}
		return &catalog.Response{TotalItems: total, Items: items}, nil
	}}
}

func book(id string) catalog.Item {
	return catalog.Item{ID: id, Title: "Title " + id}
}

func books(n int, prefix string) []catalog.Item {
	out := make([]catalog.Item, n)
	for i := range out {
		out[i] = book(fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

func pages(n int) *int { return &n }

func rating(r float64) *float64 { return &r }

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

type ownedSet map[string]bool

func (o ownedSet) IsOwned(title, author string) bool {
	return o[title+"|"+author]
}
