package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/folio/internal/discovery"
)

// StatusKind picks the color of the status bar message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgSearching     = "Searching…"
	MsgNoLink        = "No link for this book"
	MsgNothingToAdd  = "Select a book first"
	MsgAlreadyShelf  = "Already on your shelf"
	MsgNoShelf       = "Shelf is not available"
	MsgOpeningLink   = "Opening in browser…"
	MsgIdle          = "Press ctrl+s to search or ctrl+p for presets"
	MsgUnknownPreset = "Unknown preset"
)

func MsgShelved(title string) string {
	return fmt.Sprintf("Added '%s' to your shelf", strings.TrimSpace(title))
}

func MsgNoResultsFor(query string) string {
	return fmt.Sprintf("No results for '%s'", strings.TrimSpace(query))
}

func MsgFilteredOut(raw int) string {
	if raw == 1 {
		return "The only result is hidden by your filters"
	}
	return fmt.Sprintf("All %d results are hidden by your filters", raw)
}

// MsgFilters summarizes the active criteria and sort for the header.
func MsgFilters(c discovery.FilterCriteria, sort discovery.SortMode) string {
	owned := "owned shown"
	if c.HideOwned {
		owned = "owned hidden"
	}
	return strings.Join([]string{
		c.Length.Label(),
		c.Period.Label(),
		"sort: " + sort.Label(),
		owned,
	}, " · ")
}
