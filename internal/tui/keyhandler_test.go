package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/config"
)

func TestKeyHandler_ModifierKey(t *testing.T) {
	app, _ := newTestApp(t, nil)

	assert.NotNil(t, app.keyHandler)
	assert.Equal(t, "ctrl+", app.keyHandler.modifierKey)
	assert.Equal(t, "ctrl+t", app.keyHandler.action("t"))
	assert.Equal(t, "esc", app.keyHandler.back())
}

func TestKeyHandler_CustomBindings(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	cfg.Keys.Bindings.Genres = "y"
	app, err := NewApp(&memStore{}, cfg)
	assert.NoError(t, err)

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.Equal(t, ViewBrowse, app.view, "the default chord is no longer bound")

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}, Alt: true})
	assert.Equal(t, ViewGenres, app.view)
}

func TestKeyHandler_QuitKeyTypesWhileSearching(t *testing.T) {
	app, _ := newTestApp(t, nil)
	press(app, typed("/")...)

	cmd := press(app, typed("q")...)
	assert.Equal(t, "q", app.searchInput.Value())
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}
}

func TestKeyHandler_EscLeavesSearchBox(t *testing.T) {
	app, _ := newTestApp(t, nil)
	press(app, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.True(t, app.searchInput.Focused())

	press(app, keyEsc)
	assert.False(t, app.searchInput.Focused())
	assert.Equal(t, ViewBrowse, app.view)
}

func TestKeyHandler_GenresReachableWhileTyping(t *testing.T) {
	app, _ := newTestApp(t, nil)
	press(app, tea.KeyMsg{Type: tea.KeyCtrlF})
	press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.Equal(t, ViewGenres, app.view)
}

func TestKeyHandler_HelpPerView(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*App)
		want  []string
	}{
		{
			name:  "browse",
			setup: func(a *App) {},
			want:  []string{"/: search", "ctrl+g: genres", "ctrl+w: wishlist"},
		},
		{
			name:  "browse while typing",
			setup: func(a *App) { a.searchInput.Focus() },
			want:  []string{"enter: search now", "esc: done"},
		},
		{
			name: "detail",
			setup: func(a *App) {
				a.view = ViewDetail
				a.current = &catalog.Book{ID: "x", Title: "X"}
			},
			want: []string{"ctrl+t: wishlist ♥", "ctrl+l: similar", "esc: back"},
		},
		{
			name:  "genres",
			setup: func(a *App) { a.view = ViewGenres },
			want:  []string{"enter: select"},
		},
		{
			name:  "wishlist",
			setup: func(a *App) { a.view = ViewWishlist },
			want:  []string{"/: filter", "ctrl+t: remove", "ctrl+b: buy"},
		},
		{
			name:  "similar",
			setup: func(a *App) { a.view = ViewSimilar },
			want:  []string{"enter: details"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t, nil)
			tt.setup(app)
			help := app.keyHandler.GetHelpForCurrentView()
			for _, w := range tt.want {
				assert.Contains(t, help, w)
			}
		})
	}
}
