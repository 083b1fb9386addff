package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/folio/internal/browse"
	"github.com/pders01/folio/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	bindings    config.KeyBindings
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, bindings: cfg.Keys.Bindings, modifierKey: modifierKey}
}

// action returns the chord for a modifier binding, e.g. "ctrl+t".
func (kh *KeyHandler) action(binding string) string {
	return kh.modifierKey + binding
}

func (kh *KeyHandler) back() string {
	if kh.bindings.Back == "" {
		return "esc"
	}
	return kh.bindings.Back
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kh.app.err = nil

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewBrowse:
		return kh.app.searchInput.Focused()
	case ViewWishlist:
		return kh.app.filterInput.Focused()
	case ViewGenres:
		return kh.app.genreList.SettingFilter()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return kh.app.quit()
	case kh.action(kh.bindings.Genres):
		return kh.app, kh.app.openGenres()
	case kh.action(kh.bindings.Retry):
		return kh.app, kh.app.retry()
	}

	if kh.app.view == ViewGenres {
		// the list owns its filter prompt
		return kh.delegateToCharm(msg)
	}

	switch key {
	case kh.back(), "tab", "down":
		kh.blurInputs()
		return kh.app, nil
	case "enter":
		return kh.handleTextInputEnter()
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) blurInputs() {
	kh.app.searchInput.Blur()
	kh.app.filterInput.Blur()
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	kh.blurInputs()
	switch kh.app.view {
	case ViewBrowse:
		// Enter skips the rest of the quiet period
		if term, ok := kh.app.debouncer.Flush(); ok {
			return kh.app, kh.app.setTerm(term)
		}
		return kh.app, nil
	default:
		return kh.app, nil
	}
}

// delegateToTextInput passes the key to the focused text input
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewBrowse:
		prev := sanitizeSearchInput(kh.app.searchInput.Value())
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)

		newVal := sanitizeSearchInput(kh.app.searchInput.Value())
		if newVal != prev {
			seq := kh.app.debouncer.Input(newVal)
			wait := kh.app.debouncer.Window()
			return kh.app, tea.Batch(cmd, tea.Tick(wait, func(time.Time) tea.Msg { return searchDebounceFireMsg{seq: seq} }))
		}
		return kh.app, cmd

	case ViewWishlist:
		prev := sanitizeSearchInput(kh.app.filterInput.Value())
		kh.app.filterInput, cmd = kh.app.filterInput.Update(msg)
		if sanitizeSearchInput(kh.app.filterInput.Value()) != prev {
			kh.app.wishList.ResetSelected()
			return kh.app, tea.Batch(cmd, kh.app.refreshWishlist())
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", kh.bindings.Quit:
		model, cmd := kh.app.quit()
		return model, cmd, true
	case kh.back():
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.action(kh.bindings.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.action(kh.bindings.Genres):
		return kh.app, kh.app.openGenres(), true
	case kh.action(kh.bindings.Wishlist):
		return kh.app, kh.app.openWishlist(), true
	}

	switch kh.app.view {
	case ViewBrowse:
		return kh.handleBrowseCustomKeys(key)
	case ViewDetail:
		return kh.handleDetailCustomKeys(key)
	case ViewWishlist:
		return kh.handleWishlistCustomKeys(key)
	case ViewSimilar:
		return kh.handleSimilarCustomKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleBrowseCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "/", "i":
		kh.app.searchInput.Focus()
		return kh.app, nil, true
	case kh.action(kh.bindings.Retry):
		return kh.app, kh.app.retry(), true
	case kh.action(kh.bindings.Toggle):
		if i, ok := kh.app.resultList.SelectedItem().(bookItem); ok {
			return kh.app, kh.app.toggleWishlist(i.book), true
		}
		return kh.app, nil, true
	case kh.action(kh.bindings.Buy):
		if i, ok := kh.app.resultList.SelectedItem().(bookItem); ok {
			return kh.app, kh.app.buy(i.book), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	book := kh.app.current
	if book == nil {
		return kh.app, nil, false
	}
	switch key {
	case kh.action(kh.bindings.Toggle):
		return kh.app, kh.app.toggleWishlist(*book), true
	case kh.action(kh.bindings.Buy):
		return kh.app, kh.app.buy(*book), true
	case kh.action(kh.bindings.Similar):
		return kh.app, kh.app.openSimilar(*book), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleWishlistCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "/", "i":
		kh.app.filterInput.Focus()
		return kh.app, nil, true
	case kh.action(kh.bindings.Toggle):
		if i, ok := kh.app.wishList.SelectedItem().(bookItem); ok {
			return kh.app, kh.app.toggleWishlist(i.book), true
		}
		return kh.app, nil, true
	case kh.action(kh.bindings.Buy):
		if i, ok := kh.app.wishList.SelectedItem().(bookItem); ok {
			return kh.app, kh.app.buy(i.book), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleSimilarCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == kh.action(kh.bindings.Toggle) {
		if i, ok := kh.app.similarList.SelectedItem().(bookItem); ok {
			return kh.app, kh.app.toggleWishlist(i.book), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	enter := msg.String() == "enter"

	switch kh.app.view {
	case ViewBrowse:
		kh.app.resultList, cmd = kh.app.resultList.Update(msg)
		if enter {
			if i, ok := kh.app.resultList.SelectedItem().(bookItem); ok {
				return kh.app, tea.Batch(cmd, kh.app.openDetail(i.book))
			}
		}
		return kh.app, tea.Batch(cmd, kh.app.checkSentinel())

	case ViewGenres:
		filtering := kh.app.genreList.SettingFilter()
		kh.app.genreList, cmd = kh.app.genreList.Update(msg)
		if enter && !filtering {
			if i, ok := kh.app.genreList.SelectedItem().(genreItem); ok {
				kh.app.history = nil
				kh.app.view = ViewBrowse
				return kh.app, tea.Batch(cmd, kh.app.setGenre(i.name))
			}
		}
		return kh.app, cmd

	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	case ViewWishlist:
		kh.app.wishList, cmd = kh.app.wishList.Update(msg)
		if enter {
			if i, ok := kh.app.wishList.SelectedItem().(bookItem); ok {
				return kh.app, tea.Batch(cmd, kh.app.openDetail(i.book))
			}
		}
		return kh.app, cmd

	case ViewSimilar:
		kh.app.similarList, cmd = kh.app.similarList.Update(msg)
		if enter {
			if i, ok := kh.app.similarList.SelectedItem().(bookItem); ok {
				return kh.app, tea.Batch(cmd, kh.app.openDetail(i.book))
			}
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// navigateBack returns to the previous view, quitting from the browse root
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	app := kh.app
	if n := len(app.history); n > 0 {
		f := app.history[n-1]
		app.history = app.history[:n-1]
		return app, app.restore(f)
	}
	if app.view == ViewBrowse {
		return app.quit()
	}
	app.view = ViewBrowse
	return app, nil
}

// enterSearchMode jumps to the browse view with the search box focused
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.history = nil
	kh.app.view = ViewBrowse
	kh.app.searchInput.Focus()
	kh.app.searchInput.CursorEnd()
	return kh.app, nil
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	b := kh.bindings
	switch kh.app.view {
	case ViewBrowse:
		if kh.app.searchInput.Focused() {
			return []string{"enter: search now", "tab: results", kh.back() + ": done"}
		}
		help := []string{"/: search", kh.action(b.Genres) + ": genres", kh.action(b.Wishlist) + ": wishlist"}
		if len(kh.app.resultList.Items()) > 0 {
			help = append(help, kh.action(b.Toggle)+": wishlist ♥")
		}
		if kh.app.machine.State().Status == browse.Error {
			help = append(help, kh.action(b.Retry)+": retry")
		}
		return help

	case ViewGenres:
		return []string{"enter: select", kh.back() + ": back"}

	case ViewDetail:
		help := []string{kh.action(b.Toggle) + ": wishlist ♥"}
		if kh.app.current != nil && kh.app.wishlist.Contains(kh.app.current.ID) {
			help = append(help, kh.action(b.Buy)+": buy")
		}
		return append(help, kh.action(b.Similar)+": similar", kh.back()+": back")

	case ViewWishlist:
		if kh.app.filterInput.Focused() {
			return []string{"type to filter", "tab: results", kh.back() + ": done"}
		}
		return []string{"/: filter", "enter: details", kh.action(b.Toggle) + ": remove", kh.action(b.Buy) + ": buy", kh.back() + ": back"}

	case ViewSimilar:
		return []string{"enter: details", kh.action(b.Toggle) + ": wishlist ♥", kh.back() + ": back"}

	default:
		return []string{}
	}
}
