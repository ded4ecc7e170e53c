package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/discovery"
	"github.com/pders01/folio/internal/shelf"
)

// submitQuery registers a new submission and starts its fetch in the
// background. A blank query clears the results without fetching.
func (a *App) submitQuery(query string) tea.Cmd {
	t, run := a.session.Begin(query)
	a.refreshResults()
	if !run {
		return nil
	}
	return tea.Batch(a.spinner.Tick, a.runSearch(t))
}

func (a *App) selectPreset(id string) tea.Cmd {
	t, run, err := a.session.BeginPreset(id)
	if err != nil {
		return a.setStatus(err.Error(), StatusError)
	}
	a.input.SetValue(a.session.Query())
	a.refreshResults()
	if !run {
		return nil
	}
	return tea.Batch(a.spinner.Tick, a.runSearch(t))
}

// runSearch executes t off the UI goroutine. The outcome goes back through
// Update, where stale generations are dropped.
func (a *App) runSearch(t discovery.Ticket) tea.Cmd {
	ctx := a.ctx
	session := a.session
	return func() tea.Msg {
		return searchDoneMsg{outcome: session.Execute(ctx, t)}
	}
}

func (a *App) showDetail(item catalog.Item) tea.Cmd {
	a.detail = &item
	a.view = ViewDetail
	a.viewport.SetContent(muted("Loading…"))
	owned := a.isOwned(item)
	maxDesc := a.config.UI.Detail.MaxDescriptionLength

	r, rendererErr := a.getRenderer()

	return func() tea.Msg {
		md := detailMarkdown(item, owned, maxDesc)
		if rendererErr != nil {
			return detailRenderedMsg{id: item.ID, content: md}
		}
		out, err := r.Render(md)
		if err != nil {
			return detailRenderedMsg{id: item.ID, content: md}
		}
		return detailRenderedMsg{id: item.ID, content: out}
	}
}

func detailMarkdown(item catalog.Item, owned bool, maxDesc int) string {
	var b strings.Builder

	title := item.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if item.Subtitle != "" {
		fmt.Fprintf(&b, "*%s*\n\n", item.Subtitle)
	}
	fmt.Fprintf(&b, "**%s**\n\n", discovery.JoinAuthors(item.Authors))

	var facts []string
	if item.Publisher != "" {
		facts = append(facts, "Publisher: "+item.Publisher)
	}
	if item.PublishedDate != "" {
		facts = append(facts, "Published: "+item.PublishedDate)
	}
	if item.PageCount != nil {
		facts = append(facts, fmt.Sprintf("Pages: %d", *item.PageCount))
	}
	if item.AverageRating != nil {
		facts = append(facts, fmt.Sprintf("Rating: %.1f/5 (%d ratings)", *item.AverageRating, item.RatingsCount))
	}
	if len(item.Categories) > 0 {
		facts = append(facts, "Categories: "+strings.Join(item.Categories, ", "))
	}
	if owned {
		facts = append(facts, "On your shelf")
	}
	for _, f := range facts {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	if len(facts) > 0 {
		b.WriteString("\n")
	}

	if item.InfoURL != "" {
		fmt.Fprintf(&b, "[More information](%s)\n\n", item.InfoURL)
	}

	b.WriteString("---\n\n")
	desc := strings.TrimSpace(item.Description)
	if desc == "" {
		desc = "_No description available._"
	} else if maxDesc > 0 {
		desc = clip(desc, maxDesc)
	}
	b.WriteString(desc)
	b.WriteString("\n")
	return b.String()
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	d := a.config.UI.Detail
	maxWidth := d.WordWrapMaxWidth
	if maxWidth <= 0 {
		maxWidth = 100
	}
	minWidth := d.WordWrapMinWidth
	if minWidth <= 0 {
		minWidth = 40
	}

	wordWrapWidth := (a.width * 9) / 10
	wordWrapWidth = min(max(wordWrapWidth, minWidth), maxWidth)
	if a.width > 0 && a.width < minWidth+10 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) addToShelf(item catalog.Item) tea.Cmd {
	if a.shelf == nil {
		return a.setStatus(MsgNoShelf, StatusWarn)
	}
	store := a.shelf
	return func() tea.Msg {
		added, err := store.Add(shelf.FromItem(item))
		return shelfAddedMsg{title: item.Title, added: added, err: err}
	}
}

var errNoLauncher = errors.New("no launcher configured")

func (a *App) openLink(url string) tea.Cmd {
	if strings.TrimSpace(url) == "" {
		return a.setStatus(MsgNoLink, StatusWarn)
	}
	launcher := a.launcher
	status := a.setStatus(MsgOpeningLink+" "+clipMiddle(url, 48), StatusInfo)
	return tea.Batch(status, func() tea.Msg {
		if launcher == nil {
			return linkOpenedMsg{err: errNoLauncher}
		}
		return linkOpenedMsg{err: launcher.Open(url)}
	})
}
