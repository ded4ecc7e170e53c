package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/debuglog"
)

var (
	// ErrTransport marks a failed catalog call. The message is user-facing.
	ErrTransport = errors.New("catalog search failed")
	// ErrSuperseded marks a run that a newer submission replaced.
	ErrSuperseded = errors.New("search superseded")
)

// FetchError reports which batch of a run failed.
type FetchError struct {
	Batch      int
	StartIndex int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// Fetcher accumulates catalog pages up to a cap.
type Fetcher struct {
	transport catalog.Transport
	perCall   int
	log       *debuglog.FieldLogger
}

// NewFetcher clamps perCall into [1, catalog.MaxResultsPerCall]; zero means
// the maximum.
func NewFetcher(transport catalog.Transport, perCall int) *Fetcher {
	if perCall <= 0 || perCall > catalog.MaxResultsPerCall {
		perCall = catalog.MaxResultsPerCall
	}
	return &Fetcher{
		transport: transport,
		perCall:   perCall,
		log:       debuglog.WithFields(map[string]any{"component": "fetcher"}),
	}
}

// PerCall is the page size requested from the transport.
func (f *Fetcher) PerCall() int {
	return f.perCall
}

// Run requests successive pages until the remote runs dry, fetchCap items are
// held, or the cursor passes the reported total. live is consulted before
// each page is kept and before the result is returned; once it reports false
// the run ends with ErrSuperseded.
func (f *Fetcher) Run(ctx context.Context, d Directives, fetchCap int, live func() bool) (*Collection, error) {
	if live == nil {
		live = func() bool { return true }
	}
	if fetchCap <= 0 {
		if !live() {
			return nil, ErrSuperseded
		}
		return EmptyCollection(0), nil
	}

	items := make([]catalog.Item, 0, fetchCap)
	startIndex := 0
	reported := 0

	for batch := 1; ; batch++ {
		want := min(f.perCall, fetchCap-len(items))
		resp, err := f.transport.Search(ctx, catalog.Request{
			Query:      d.Text,
			MaxResults: want,
			StartIndex: startIndex,
			Language:   d.Language,
			OrderBy:    string(d.OrderBy),
		})
		if !live() {
			f.log.Debugf("batch %d discarded: run superseded", batch)
			return nil, ErrSuperseded
		}
		if err != nil {
			f.log.Warnf("batch %d at %d failed: %v", batch, startIndex, err)
			return nil, &FetchError{Batch: batch, StartIndex: startIndex, Err: err}
		}

		got := len(resp.Items)
		items = append(items, resp.Items...)
		startIndex += got
		reported = resp.TotalItems
		f.log.Debugf("batch %d: requested=%d got=%d held=%d total=%d", batch, want, got, len(items), reported)

		if got < want || len(items) >= fetchCap || startIndex >= reported {
			break
		}
	}

	if !live() {
		return nil, ErrSuperseded
	}
	if len(items) > fetchCap {
		items = items[:fetchCap]
	}
	return &Collection{Items: items, ReportedTotal: reported, FetchCap: fetchCap}, nil
}
