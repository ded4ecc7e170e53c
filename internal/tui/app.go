package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/config"
	"github.com/pders01/folio/internal/discovery"
	"github.com/pders01/folio/internal/media"
	"github.com/pders01/folio/internal/shelf"
)

const statusTTL = 4 * time.Second

// chrome is the number of lines taken by the header and the status bar.
const chrome = 6

type App struct {
	ctx        context.Context
	config     *config.Config
	session    *discovery.Session
	shelf      *shelf.Store
	launcher   *media.Launcher
	keyHandler *KeyHandler

	input      textinput.Model
	resultList list.Model
	presetList list.Model
	viewport   viewport.Model
	spinner    spinner.Model
	help       help.Model

	view         View
	detail       *catalog.Item
	showFullHelp bool
	width        int
	height       int

	status     string
	statusKind StatusKind
	statusSeq  int

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

// NewApp wires the explorer. store and launcher may be nil; the matching
// actions then report that they are unavailable.
func NewApp(ctx context.Context, cfg *config.Config, session *discovery.Session, store *shelf.Store, launcher *media.Launcher) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	ApplyTheme(cfg.UI.Colors)

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.SetShowTitle(false)
	resultList.SetShowStatusBar(false)
	resultList.SetFilteringEnabled(false)
	resultList.SetShowHelp(false)
	resultList.DisableQuitKeybindings()

	presets := session.Presets().All()
	presetItems := make([]list.Item, len(presets))
	for i, p := range presets {
		presetItems[i] = presetItem{preset: p}
	}
	presetList := list.New(presetItems, list.NewDefaultDelegate(), 0, 0)
	presetList.Title = "› presets"
	presetList.SetShowStatusBar(false)
	presetList.SetFilteringEnabled(false)
	presetList.SetShowHelp(false)
	presetList.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "Search books… (language:fr, orderBy=newest)"
	ti.CharLimit = 256
	ti.SetValue(session.Query())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		ctx:        ctx,
		config:     cfg,
		session:    session,
		shelf:      store,
		launcher:   launcher,
		input:      ti,
		resultList: resultList,
		presetList: presetList,
		viewport:   viewport.New(0, 0),
		spinner:    sp,
		help:       help.New(),
		view:       ViewResults,
	}
	app.keyHandler = NewKeyHandler(app, cfg)
	app.refreshResults()

	return app
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if strings.TrimSpace(a.session.Query()) != "" {
		cmds = append(cmds, a.submitQuery(a.session.Query()))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case searchDoneMsg:
		if a.session.Complete(msg.outcome) {
			a.refreshResults()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.session.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case shelfAddedMsg:
		switch {
		case msg.err != nil:
			return a, a.setStatus("shelf: "+msg.err.Error(), StatusError)
		case !msg.added:
			return a, a.setStatus(MsgAlreadyShelf, StatusWarn)
		}
		a.refreshResults()
		return a, a.setStatus(MsgShelved(msg.title), StatusSuccess)

	case detailRenderedMsg:
		if a.view == ViewDetail && a.detail != nil && a.detail.ID == msg.id {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}
		return a, nil

	case linkOpenedMsg:
		if msg.err != nil {
			return a, a.setStatus(msg.err.Error(), StatusError)
		}
		return a, nil

	case statusClearMsg:
		if msg.seq == a.statusSeq {
			a.clearStatus()
		}
		return a, nil

	case errorMsg:
		return a, a.setStatus(msg.err.Error(), StatusError)
	}

	var cmd tea.Cmd
	switch a.view {
	case ViewQuery:
		a.input, cmd = a.input.Update(msg)
	case ViewPresets:
		a.presetList, cmd = a.presetList.Update(msg)
	case ViewDetail:
		a.viewport, cmd = a.viewport.Update(msg)
	default:
		a.resultList, cmd = a.resultList.Update(msg)
	}
	return a, cmd
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	bodyHeight := max(height-chrome, 3)
	a.resultList.SetSize(width, bodyHeight)
	a.presetList.SetSize(width, bodyHeight)
	a.viewport.Width = width
	a.viewport.Height = bodyHeight
	a.help.Width = width

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = max(width-4, 1)
	}
	a.input.Width = inputWidth
}

// refreshResults rebuilds the visible list from the session view.
func (a *App) refreshResults() {
	v := a.session.View()
	items := make([]list.Item, len(v.Page.Visible))
	for i, it := range v.Page.Visible {
		items[i] = resultItem{item: it, owned: a.isOwned(it)}
	}
	a.resultList.SetItems(items)
	if len(items) > 0 && a.resultList.Index() >= len(items) {
		a.resultList.Select(0)
	}
}

func (a *App) isOwned(it catalog.Item) bool {
	if a.shelf == nil {
		return false
	}
	return a.shelf.IsOwned(it.Title, discovery.JoinAuthors(it.Authors))
}

func (a *App) selectedItem() (catalog.Item, bool) {
	if i, ok := a.resultList.SelectedItem().(resultItem); ok {
		return i.item, true
	}
	return catalog.Item{}, false
}

func (a *App) setStatus(text string, kind StatusKind) tea.Cmd {
	a.status = text
	a.statusKind = kind
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

func (a *App) View() string {
	v := a.session.View()

	query := v.Query
	if strings.TrimSpace(query) == "" {
		query = "(no query)"
	}
	header := headerBlock(query, MsgFilters(v.Criteria, v.Sort), a.width)

	bodyHeight := max(a.height-chrome, 3)
	var body string
	switch a.view {
	case ViewQuery:
		body = centered(a.width, bodyHeight, lipgloss.JoinVertical(
			lipgloss.Center,
			TitleStyle.Render("› search"),
			"",
			queryBox(a.input),
			"",
			HelpStyle.Render("language:xx and orderBy=newest|relevance are understood"),
		))
	case ViewPresets:
		body = a.presetList.View()
	case ViewDetail:
		body = a.viewport.View()
	default:
		body = a.resultsBody(v, bodyHeight)
	}

	content := lipgloss.NewStyle().
		Width(a.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width, 1)))
	return lipgloss.JoinVertical(lipgloss.Top, header, content, separator, a.statusBar(v))
}

func (a *App) resultsBody(v discovery.View, height int) string {
	if v.Loading && v.State != discovery.StateResults {
		return centered(a.width, height, a.spinner.View()+" "+MsgSearching)
	}

	switch v.State {
	case discovery.StateIdle:
		return centered(a.width, height, GetWelcomeMessage())
	case discovery.StateNoResults:
		return centered(a.width, height, muted(MsgNoResultsFor(v.Query)))
	case discovery.StateFilteredOut:
		return centered(a.width, height, muted(MsgFilteredOut(v.Raw)))
	}

	label := PageLabelStyle.Render(v.Label)
	if v.ReportedTotal > v.Raw {
		label += muted(fmt.Sprintf(" · %d in catalog", v.ReportedTotal))
	}
	if v.Loading {
		label += "  " + a.spinner.View() + " " + muted(MsgSearching)
	}
	return lipgloss.JoinVertical(lipgloss.Top, label, a.resultList.View())
}

func (a *App) statusBar(v discovery.View) string {
	var line string
	switch {
	case v.Err != nil:
		line = ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", v.Err))
	case a.status != "":
		line = statusStyle(a.statusKind).Render(a.status)
	}

	a.help.ShowAll = a.showFullHelp && a.view == ViewResults
	helpView := a.help.View(a.keyHandler.HelpForCurrentView())

	if line == "" {
		return StatusBarStyle.Width(a.width).Render(helpView)
	}
	return StatusBarStyle.Width(a.width).Render(lipgloss.JoinVertical(lipgloss.Top, line, helpView))
}
