package discovery

import "fmt"

// ViewState tells an empty page apart from an emptied one.
type ViewState int

const (
	StateIdle ViewState = iota
	StateNoResults
	StateFilteredOut
	StateResults
)

func (s ViewState) String() string {
	switch s {
	case StateNoResults:
		return "no-results"
	case StateFilteredOut:
		return "filtered-out"
	case StateResults:
		return "results"
	default:
		return "idle"
	}
}

// View is everything a presentation layer needs for one render.
type View struct {
	State         ViewState
	Query         string
	Criteria      FilterCriteria
	Sort          SortMode
	Page          Page
	Filtered      int
	Raw           int
	ReportedTotal int
	Label         string
	Loading       bool
	Err           error
}

// Label renders the pagination line. It is empty until a search has run.
func Label(hasSearched bool, page Page, filtered, raw int) string {
	if !hasSearched {
		return ""
	}
	base := fmt.Sprintf("Page %d of %d · %d results", page.Index+1, page.TotalPages, filtered)
	if filtered != raw {
		return fmt.Sprintf("%s (of %d raw results)", base, raw)
	}
	return base
}

func stateFor(hasSearched bool, filtered, raw int) ViewState {
	switch {
	case !hasSearched:
		return StateIdle
	case raw == 0:
		return StateNoResults
	case filtered == 0:
		return StateFilteredOut
	default:
		return StateResults
	}
}
