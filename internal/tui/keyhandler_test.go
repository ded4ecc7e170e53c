package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/folio/internal/config"
)

func TestKeyMap_UsesModifier(t *testing.T) {
	cfg := config.TestConfig()
	km := newKeyMap(cfg)

	assert.Equal(t, []string{"ctrl+s"}, km.Search.Keys())
	assert.Equal(t, []string{"ctrl+a"}, km.AddToShelf.Keys())
	assert.Equal(t, []string{"q"}, km.Quit.Keys(), "quit is a bare key")
	assert.Equal(t, []string{"esc"}, km.Back.Keys())
}

func TestKeyMap_CustomBindings(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	cfg.Keys.Bindings.Search = "f"

	km := newKeyMap(cfg)
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f"), Alt: true}, km.Search))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, km.Search))

	cfg.Keys.Modifier = ""
	km = newKeyMap(cfg)
	assert.Equal(t, []string{"f"}, km.Search.Keys())
}

func TestKeyHandler_HelpPerView(t *testing.T) {
	env := newTestEnv(t, &stubTransport{}, "")
	kh := env.app.keyHandler

	tests := []struct {
		view View
		want string
	}{
		{ViewResults, "search"},
		{ViewQuery, "search"},
		{ViewPresets, "run preset"},
		{ViewDetail, "add to shelf"},
	}
	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			env.app.view = tt.view
			var helps []string
			for _, b := range kh.HelpForCurrentView().ShortHelp() {
				helps = append(helps, b.Help().Desc)
			}
			assert.Contains(t, helps, tt.want)
			assert.NotEmpty(t, kh.HelpForCurrentView().FullHelp())
		})
	}
}

func TestKeyHandler_HelpToggle(t *testing.T) {
	env := newTestEnv(t, &stubTransport{}, "")
	a := env.app

	press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, a.showFullHelp)
	assert.Contains(t, a.View(), "hide owned")

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.showFullHelp)
}
