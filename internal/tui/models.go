package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/discovery"
)

type View int

const (
	ViewResults View = iota
	ViewQuery
	ViewPresets
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewQuery:
		return "query"
	case ViewPresets:
		return "presets"
	case ViewDetail:
		return "detail"
	default:
		return "results"
	}
}

type resultItem struct {
	item  catalog.Item
	owned bool
}

func (i resultItem) Title() string {
	title := i.item.Title
	if title == "" {
		title = "(untitled)"
	}
	if i.owned {
		return OwnedItemStyle.Render("✓ " + title)
	}
	return title
}

func (i resultItem) Description() string {
	parts := []string{discovery.JoinAuthors(i.item.Authors)}
	if year, ok := discovery.PublicationYear(i.item.PublishedDate); ok {
		parts = append(parts, fmt.Sprintf("%d", year))
	}
	if i.item.PageCount != nil {
		parts = append(parts, fmt.Sprintf("%d p.", *i.item.PageCount))
	}
	if i.item.AverageRating != nil {
		parts = append(parts, fmt.Sprintf("★ %.1f", *i.item.AverageRating))
	}
	return lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(strings.Join(parts, " • "))
}

func (i resultItem) FilterValue() string { return i.item.Title }

type presetItem struct {
	preset discovery.Preset
}

func (i presetItem) Title() string { return i.preset.Label }

func (i presetItem) Description() string {
	desc := i.preset.Query
	if i.preset.Sort != nil {
		desc += " • " + i.preset.Sort.Label()
	}
	return desc
}

func (i presetItem) FilterValue() string { return i.preset.Label }

type searchDoneMsg struct {
	outcome discovery.Outcome
}

type shelfAddedMsg struct {
	title string
	added bool
	err   error
}

type detailRenderedMsg struct {
	id      string
	content string
}

type linkOpenedMsg struct {
	err error
}

type statusClearMsg struct {
	seq int
}

type errorMsg struct {
	err error
}
