package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/folio/internal/config"
)

type keyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	Search     key.Binding
	Presets    key.Binding
	Length     key.Binding
	Period     key.Binding
	Sort       key.Binding
	HideOwned  key.Binding
	AddToShelf key.Binding
	OpenLink   key.Binding
	Select     key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Back       key.Binding
	Help       key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	b := cfg.Keys.Bindings
	mod := func(k string) string {
		if cfg.Keys.Modifier == "" {
			return k
		}
		return cfg.Keys.Modifier + "+" + k
	}
	bind := func(help string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}

	return keyMap{
		Quit:       bind("quit", b.Quit),
		ForceQuit:  bind("quit", "ctrl+c"),
		Search:     bind("search", mod(b.Search)),
		Presets:    bind("presets", mod(b.Presets)),
		Length:     bind("length", mod(b.Length)),
		Period:     bind("period", mod(b.Period)),
		Sort:       bind("sort", mod(b.Sort)),
		HideOwned:  bind("hide owned", mod(b.HideOwned)),
		AddToShelf: bind("add to shelf", mod(b.AddToShelf)),
		OpenLink:   bind("open link", mod(b.OpenLink)),
		Select:     bind("details", "enter"),
		NextPage:   bind("next page", "right", "pgdown", "n"),
		PrevPage:   bind("prev page", "left", "pgup", "b"),
		Back:       bind("back", b.Back),
		Help:       bind("help", b.Help),
	}
}

// viewKeys adapts a binding set to help.KeyMap.
type viewKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (v viewKeys) ShortHelp() []key.Binding  { return v.short }
func (v viewKeys) FullHelp() [][]key.Binding { return v.full }

type KeyHandler struct {
	app  *App
	keys keyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, keys: newKeyMap(cfg)}
}

// HelpForCurrentView returns the bindings shown in the status bar.
func (kh *KeyHandler) HelpForCurrentView() viewKeys {
	k := kh.keys
	switch kh.app.view {
	case ViewQuery:
		submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search"))
		return viewKeys{
			short: []key.Binding{submit, k.Back},
			full:  [][]key.Binding{{submit, k.Back, k.ForceQuit}},
		}
	case ViewPresets:
		choose := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run preset"))
		return viewKeys{
			short: []key.Binding{choose, k.Back},
			full:  [][]key.Binding{{choose, k.Back, k.ForceQuit}},
		}
	case ViewDetail:
		return viewKeys{
			short: []key.Binding{k.AddToShelf, k.OpenLink, k.Back},
			full:  [][]key.Binding{{k.AddToShelf, k.OpenLink, k.Back, k.Quit}},
		}
	default:
		return viewKeys{
			short: []key.Binding{k.Search, k.Presets, k.PrevPage, k.NextPage, k.Select, k.Help},
			full: [][]key.Binding{
				{k.Search, k.Presets, k.Select, k.Quit},
				{k.Length, k.Period, k.Sort, k.HideOwned},
				{k.PrevPage, k.NextPage, k.AddToShelf, k.OpenLink},
			},
		}
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.keys.ForceQuit) {
		return kh.app, tea.Quit
	}

	switch kh.app.view {
	case ViewQuery:
		return kh.handleQueryKeys(msg)
	case ViewPresets:
		return kh.handlePresetKeys(msg)
	case ViewDetail:
		return kh.handleDetailKeys(msg)
	default:
		return kh.handleResultKeys(msg)
	}
}

func (kh *KeyHandler) handleQueryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "esc":
		a.input.Blur()
		a.view = ViewResults
		return a, nil
	case "enter":
		a.input.Blur()
		a.view = ViewResults
		return a, a.submitQuery(a.input.Value())
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.session.SetQuery(a.input.Value())
	return a, cmd
}

func (kh *KeyHandler) handlePresetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Back):
		a.view = ViewResults
		return a, nil
	case msg.String() == "enter":
		item, ok := a.presetList.SelectedItem().(presetItem)
		if !ok {
			return a, nil
		}
		a.view = ViewResults
		return a, a.selectPreset(item.preset.ID)
	}

	var cmd tea.Cmd
	a.presetList, cmd = a.presetList.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Back):
		a.view = ViewResults
		a.detail = nil
		return a, nil
	case key.Matches(msg, kh.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, kh.keys.AddToShelf):
		if a.detail != nil {
			return a, a.addToShelf(*a.detail)
		}
		return a, nil
	case key.Matches(msg, kh.keys.OpenLink):
		if a.detail != nil {
			return a, a.openLink(a.detail.InfoURL)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	k := kh.keys
	s := a.session

	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit

	case key.Matches(msg, k.Back):
		s.ClearErr()
		a.clearStatus()
		a.showFullHelp = false
		return a, nil

	case key.Matches(msg, k.Help):
		a.showFullHelp = !a.showFullHelp
		return a, nil

	case key.Matches(msg, k.Search):
		a.view = ViewQuery
		a.input.SetValue(s.Query())
		a.input.CursorEnd()
		return a, a.input.Focus()

	case key.Matches(msg, k.Presets):
		if s.Presets().Len() == 0 {
			return a, a.setStatus(MsgUnknownPreset, StatusWarn)
		}
		a.view = ViewPresets
		return a, nil

	case key.Matches(msg, k.Length):
		s.SetLength(s.Criteria().Length.Next())
		a.refreshResults()
		return a, nil

	case key.Matches(msg, k.Period):
		s.SetPeriod(s.Criteria().Period.Next())
		a.refreshResults()
		return a, nil

	case key.Matches(msg, k.Sort):
		s.SetSort(s.Sort().Next())
		a.refreshResults()
		return a, nil

	case key.Matches(msg, k.HideOwned):
		s.SetHideOwned(!s.Criteria().HideOwned)
		a.refreshResults()
		return a, nil

	case key.Matches(msg, k.NextPage):
		s.NextPage()
		a.refreshResults()
		return a, nil

	case key.Matches(msg, k.PrevPage):
		s.PreviousPage()
		a.refreshResults()
		return a, nil

	case key.Matches(msg, k.Select):
		item, ok := a.selectedItem()
		if !ok {
			return a, nil
		}
		return a, a.showDetail(item)

	case key.Matches(msg, k.AddToShelf):
		item, ok := a.selectedItem()
		if !ok {
			return a, a.setStatus(MsgNothingToAdd, StatusWarn)
		}
		return a, a.addToShelf(item)

	case key.Matches(msg, k.OpenLink):
		item, ok := a.selectedItem()
		if !ok {
			return a, nil
		}
		return a, a.openLink(item.InfoURL)
	}

	var cmd tea.Cmd
	a.resultList, cmd = a.resultList.Update(msg)
	return a, cmd
}
