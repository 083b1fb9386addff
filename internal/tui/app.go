package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/folio/internal/browse"
	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/config"
	"github.com/pders01/folio/internal/debuglog"
	"github.com/pders01/folio/internal/launcher"
	"github.com/pders01/folio/internal/search"
	"github.com/pders01/folio/internal/storage"
	"github.com/pders01/folio/internal/wishlist"
)

const (
	statusTTL = 3 * time.Second
	// header, search box, footer, separator and status bar
	browseChrome   = 8
	wishlistChrome = 6
	plainChrome    = 3
)

// Catalog is the remote side of the browser.
type Catalog interface {
	Fetch(ctx context.Context, query string, offset, pageSize int) (*catalog.ResultPage, error)
	Similar(ctx context.Context, book catalog.Book) ([]catalog.Book, error)
}

// Buyer opens purchase links for a title.
type Buyer interface {
	Buy(title string) (string, error)
	StorefrontName() string
}

// Store persists the wishlist and the last browse criteria.
type Store interface {
	wishlist.Persister
	SaveSession(session storage.Session) error
	LoadSession() (*storage.Session, error)
}

type App struct {
	config       *config.Config
	store        Store
	catalog      Catalog
	buyer        Buyer
	wishlist     *wishlist.Wishlist
	searchEngine search.Searcher
	keyHandler   *KeyHandler

	machine   *browse.Machine
	trigger   browse.Trigger
	debouncer *browse.Debouncer
	initial   browse.Criteria
	shown     int // len(resultList.Items()) after the last sync

	resultList  list.Model
	genreList   list.Model
	wishList    list.Model
	similarList list.Model
	searchInput textinput.Model
	filterInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model

	view            View
	history         []frame
	current         *catalog.Book
	renderedID      string
	renderingDetail bool
	similarFor      *catalog.Book
	similarLoading  bool
	spinning        bool

	width      int
	height     int
	err        error
	status     string
	statusKind StatusKind
	statusSeq  uint64

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	log             *debuglog.FieldLogger
}

// NewApp wires the browser against store and the remote catalog described
// by cfg. The last saved criteria are restored when present.
func NewApp(store Store, cfg *config.Config) (*App, error) {
	wl, err := wishlist.New(store)
	if err != nil {
		return nil, err
	}

	engine, err := search.New(cfg.Search, wl)
	if err != nil {
		return nil, wrapErr("creating search engine", err)
	}

	log := debuglog.For("tui")
	criteria := browse.DefaultCriteria()
	session, err := store.LoadSession()
	switch {
	case err == nil && session != nil:
		criteria.Term = sanitizeSearchInput(session.Term)
		if catalog.IsGenre(session.Genre) {
			criteria.Genre = session.Genre
		}
		log.Debugf("restored session term=%q genre=%q", criteria.Term, criteria.Genre)
	case err != nil && !errors.Is(err, storage.ErrNoSession):
		log.Warnf("loading session: %v", err)
	}

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.SetShowTitle(false)
	resultList.SetShowStatusBar(false)
	resultList.SetFilteringEnabled(false)
	resultList.SetShowHelp(false)
	resultList.DisableQuitKeybindings()

	genreList := list.New(genreItems(criteria.Genre), list.NewDefaultDelegate(), 0, 0)
	genreList.Title = "› genres"
	genreList.SetShowStatusBar(false)
	genreList.SetFilteringEnabled(true)
	genreList.SetShowHelp(true)
	genreList.DisableQuitKeybindings()

	wishList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	wishList.Title = "› wishlist"
	wishList.SetShowStatusBar(false)
	wishList.SetFilteringEnabled(false)
	wishList.SetShowHelp(false)
	wishList.DisableQuitKeybindings()

	similarList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	similarList.Title = "› similar books"
	similarList.SetShowStatusBar(false)
	similarList.SetFilteringEnabled(false)
	similarList.SetShowHelp(false)
	similarList.DisableQuitKeybindings()

	si := textinput.New()
	si.Placeholder = "Search by title..."
	si.Prompt = "⌕ "
	si.CharLimit = 256
	si.SetValue(criteria.Term)

	fi := textinput.New()
	fi.Placeholder = "Filter wishlist..."
	fi.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	app := &App{
		config:       cfg,
		store:        store,
		catalog:      catalog.NewClient(cfg),
		buyer:        launcher.NewLauncher(cfg),
		wishlist:     wl,
		searchEngine: engine,
		machine:      browse.NewMachine(cfg.Browse.PageSize),
		debouncer:    browse.NewDebouncer(cfg.DebounceWindow(), criteria.Term),
		initial:      criteria,
		resultList:   resultList,
		genreList:    genreList,
		wishList:     wishList,
		similarList:  similarList,
		searchInput:  si,
		filterInput:  fi,
		viewport:     viewport.New(0, 0),
		spinner:      sp,
		view:         ViewBrowse,
		log:          log,
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app, nil
}

// Close releases the search index, if the engine holds one.
func (a *App) Close() error {
	if c, ok := a.searchEngine.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.Detail.WordWrapMaxWidth
	if maxWidth <= 0 {
		maxWidth = 120
	}
	minWidth := a.config.UI.Detail.WordWrapMinWidth
	if minWidth <= 0 {
		minWidth = 40
	}

	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > maxWidth {
		wordWrapWidth = maxWidth
	}
	if wordWrapWidth < minWidth {
		wordWrapWidth = minWidth
	}
	if a.width < 50 {
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

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.apply(browse.CriteriaChanged{Criteria: a.initial}),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		if a.view == ViewDetail && a.current != nil {
			return a, a.renderDetail(*a.current)
		}
		return a, a.checkSentinel()

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.view == ViewDetail {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}

	case searchDebounceFireMsg:
		if term, ok := a.debouncer.Fire(msg.seq); ok {
			return a, a.setTerm(term)
		}

	case pageLoadedMsg:
		if msg.err != nil {
			return a, a.apply(browse.PageFailed{Tag: msg.tag, Err: msg.err})
		}
		return a, a.apply(browse.PageLoaded{Tag: msg.tag, Page: msg.page})

	case detailRenderedMsg:
		if a.view == ViewDetail && a.current != nil && a.current.ID == msg.id {
			a.viewport.SetContent(msg.content)
			if a.renderedID != msg.id {
				a.viewport.GotoTop()
			}
			a.renderedID = msg.id
			a.renderingDetail = false
		}

	case similarLoadedMsg:
		if a.similarFor == nil || a.similarFor.ID != msg.id {
			return a, nil
		}
		a.similarLoading = false
		if msg.err != nil {
			a.err = wrapErr("loading similar books", msg.err)
			a.similarList.SetItems([]list.Item{})
			return a, nil
		}
		return a, a.similarList.SetItems(a.bookItems(msg.books))

	case wishlistFilteredMsg:
		if msg.query == sanitizeSearchInput(a.filterInput.Value()) {
			return a, a.wishList.SetItems(a.bookItems(msg.books))
		}

	case linkOpenedMsg:
		return a, a.flash(MsgOpened(msg.storefront, truncateMiddle(msg.url, max(a.width-30, 20))), StatusSuccess)

	case statusClearMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}

	case spinner.TickMsg:
		if a.loading() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		a.spinning = false

	case errorMsg:
		a.err = msg.err
	}

	return a, nil
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.resultList.SetSize(width, max(height-browseChrome, 3))
	a.genreList.SetSize(width, max(height-plainChrome, 3))
	a.wishList.SetSize(width, max(height-wishlistChrome, 3))
	a.similarList.SetSize(width, max(height-plainChrome, 3))
	a.viewport.Width = width
	a.viewport.Height = max(height-plainChrome, 1)
	a.searchInput.Width = a.inputWidth()
	a.filterInput.Width = a.inputWidth()
}

func (a *App) inputWidth() int {
	w := a.width - 8 // border, padding and margins
	if w < 10 {
		w = max(a.width-4, 1)
	}
	return w
}

// apply feeds ev to the browse machine and issues the fetch it asks for.
func (a *App) apply(ev browse.Event) tea.Cmd {
	before := a.machine.State().Offset
	req := a.machine.Apply(ev)
	cmds := []tea.Cmd{a.syncResults()}
	if st := a.machine.State(); st.Offset > before && !st.Status.Loading() {
		// A page landed, possibly empty or all duplicates, so the
		// sentinel may still be in view without the list growing.
		a.trigger.Rearm()
		cmds = append(cmds, a.checkSentinel())
	}
	if req != nil {
		cmds = append(cmds, a.fetchPage(*req), a.startSpinner())
	}
	return tea.Batch(cmds...)
}

// syncResults mirrors the machine's results into the result list.
func (a *App) syncResults() tea.Cmd {
	results := a.machine.State().Results
	if len(results) == a.shown {
		return nil
	}
	if len(results) < a.shown {
		a.resultList.ResetSelected()
	}
	cmd := a.resultList.SetItems(a.bookItems(results))
	a.shown = len(results)
	return cmd
}

// checkSentinel requests the next page when the end of the result list
// comes into view.
func (a *App) checkSentinel() tea.Cmd {
	n := len(a.resultList.Items())
	visible := browse.SentinelVisible(a.resultList.Index(), n, a.config.Browse.PrefetchMargin)
	if !visible && n > 0 && a.height > 0 && a.resultList.Paginator.TotalPages <= 1 {
		// everything fits on screen, so the end is already showing
		visible = true
	}
	if !a.trigger.Observe(visible) {
		return nil
	}
	return a.apply(browse.LoadMore{})
}

func (a *App) setTerm(term string) tea.Cmd {
	c := a.machine.State().Criteria
	c.Term = term
	return a.apply(browse.CriteriaChanged{Criteria: c})
}

func (a *App) setGenre(genre string) tea.Cmd {
	c := a.machine.State().Criteria
	c.Genre = genre
	a.genreList.SetItems(genreItems(genre))
	return a.apply(browse.CriteriaChanged{Criteria: c})
}

func (a *App) retry() tea.Cmd {
	return a.apply(browse.Retry{})
}

func (a *App) loading() bool {
	return a.machine.State().Status.Loading() || a.similarLoading || a.renderingDetail
}

func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) flash(text string, kind StatusKind) tea.Cmd {
	a.statusSeq++
	seq := a.statusSeq
	a.status = text
	a.statusKind = kind
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

// push records the current view so navigateBack can return to it.
func (a *App) push() {
	f := frame{view: a.view}
	switch a.view {
	case ViewDetail:
		f.book = a.current
	case ViewSimilar:
		f.book = a.similarFor
	}
	a.history = append(a.history, f)
}

func (a *App) restore(f frame) tea.Cmd {
	switch f.view {
	case ViewDetail:
		if f.book != nil {
			return a.showDetail(*f.book)
		}
	case ViewSimilar:
		if f.book != nil {
			return a.showSimilar(*f.book)
		}
	case ViewWishlist:
		a.view = ViewWishlist
		return a.refreshWishlist()
	}
	a.view = f.view
	return nil
}

func (a *App) openDetail(book catalog.Book) tea.Cmd {
	a.push()
	return a.showDetail(book)
}

func (a *App) showDetail(book catalog.Book) tea.Cmd {
	b := book
	a.current = &b
	a.view = ViewDetail
	if a.renderedID != b.ID {
		a.renderingDetail = true
		a.viewport.SetContent("")
	}
	return tea.Batch(a.renderDetail(b), a.startSpinner())
}

func (a *App) openSimilar(book catalog.Book) tea.Cmd {
	a.push()
	return a.showSimilar(book)
}

func (a *App) showSimilar(book catalog.Book) tea.Cmd {
	b := book
	a.view = ViewSimilar
	a.similarList.Title = "› similar to " + truncateEnd(b.Title, max(a.width-16, 10))
	if a.similarFor != nil && a.similarFor.ID == b.ID && !a.similarLoading {
		a.similarList.SetItems(a.bookItems(itemBooks(a.similarList.Items())))
		return nil
	}
	a.similarFor = &b
	a.similarLoading = true
	a.similarList.SetItems([]list.Item{})
	a.similarList.ResetSelected()
	return tea.Batch(a.loadSimilar(b), a.startSpinner())
}

func (a *App) openWishlist() tea.Cmd {
	if a.view == ViewWishlist {
		return nil
	}
	a.push()
	a.view = ViewWishlist
	a.filterInput.Reset()
	a.filterInput.Blur()
	a.wishList.ResetSelected()

	status := fmt.Sprintf("Wishlist: %d books", a.wishlist.Len())
	if ds, ok := a.searchEngine.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			status += fmt.Sprintf(" • idx: %d docs", n)
		}
	}
	return tea.Batch(a.refreshWishlist(), a.flash(status, StatusInfo))
}

func (a *App) openGenres() tea.Cmd {
	if a.view == ViewGenres {
		return nil
	}
	a.push()
	a.view = ViewGenres
	a.genreList.ResetFilter()
	genre := a.machine.State().Criteria.Genre
	for i, g := range catalog.Genres {
		if g == genre {
			a.genreList.Select(i)
		}
	}
	return nil
}

// refreshWishlist re-lists the wishlist under the current filter.
func (a *App) refreshWishlist() tea.Cmd {
	query := sanitizeSearchInput(a.filterInput.Value())
	if len(query) < 2 {
		return a.wishList.SetItems(a.bookItems(a.wishlist.Items()))
	}
	return a.filterWishlist(query)
}

// toggleWishlist flips membership of book and refreshes everything that
// shows the mark.
func (a *App) toggleWishlist(book catalog.Book) tea.Cmd {
	added, err := a.wishlist.Toggle(book)
	if err != nil {
		a.err = wrapErr("updating wishlist", err)
		return nil
	}
	if l, ok := a.searchEngine.(search.UpdateListener); ok {
		l.OnSourceChanged(a.wishlist.Items())
	}

	cmds := []tea.Cmd{
		a.flash(MsgWishlistToggled(book.Title, added), StatusSuccess),
		a.resultList.SetItems(a.bookItems(a.machine.State().Results)),
		a.similarList.SetItems(a.bookItems(itemBooks(a.similarList.Items()))),
	}
	switch a.view {
	case ViewWishlist:
		cmds = append(cmds, a.refreshWishlist())
	case ViewDetail:
		if a.current != nil {
			cmds = append(cmds, a.renderDetail(*a.current))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) saveSession() {
	c := a.machine.State().Criteria
	if err := a.store.SaveSession(storage.Session{Term: c.Term, Genre: c.Genre}); err != nil {
		a.log.Warnf("saving session: %v", err)
	}
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.saveSession()
	return a, tea.Quit
}

func (a *App) bookItems(books []catalog.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b, wished: a.wishlist.Contains(b.ID)}
	}
	return items
}

func itemBooks(items []list.Item) []catalog.Book {
	books := make([]catalog.Book, 0, len(items))
	for _, it := range items {
		if bi, ok := it.(bookItem); ok {
			books = append(books, bi.book)
		}
	}
	return books
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewBrowse:
		content = a.browseView()
	case ViewGenres:
		content = a.genreList.View()
	case ViewDetail:
		if a.renderingDetail {
			content = renderCentered(a.width, a.height-plainChrome,
				a.spinner.View()+" "+renderMuted("Loading book…"))
		} else {
			content = a.viewport.View()
		}
	case ViewWishlist:
		content = a.wishlistView()
	case ViewSimilar:
		content = a.similarView()
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separator := SeparatorStyle.Render("─" + strings.Repeat("─", max(a.width-2, 0)))
		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

func (a *App) browseView() string {
	st := a.machine.State()
	header := renderHeader(CompactLogo+" browse", a.browseSubtitle(st), a.width)
	input := renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.inputWidth())
	bodyHeight := max(a.height-browseChrome, 3)

	var body string
	switch {
	case st.Status == browse.Idle:
		body = renderCentered(a.width, bodyHeight, GetWelcomeMessage(a.keyHandler.action(a.config.Keys.Bindings.Search)))
	case len(st.Results) > 0:
		body = a.resultList.View()
	case st.Status == browse.LoadingInitial:
		body = renderCentered(a.width, bodyHeight, a.spinner.View()+" "+renderMuted(MsgLoadingBooks))
	case st.Status == browse.Error:
		body = renderCentered(a.width, bodyHeight, lipgloss.JoinVertical(lipgloss.Center,
			ErrorMessageStyle.Render("✗ "+fetchErrorText(st)),
			"",
			renderHelp(a.keyHandler.action(a.config.Keys.Bindings.Retry)+": retry"),
		))
	default:
		body = renderCentered(a.width, bodyHeight, renderMuted(MsgNoBooks))
	}

	return lipgloss.JoinVertical(lipgloss.Top, header, input, body, a.browseFooter(st))
}

func (a *App) browseSubtitle(st browse.State) string {
	parts := []string{"genre: " + st.Criteria.Genre}
	if len(st.Results) > 0 {
		parts = append(parts, MsgBrowseSummary(len(st.Results), st.Total))
	}
	parts = append(parts, fmt.Sprintf("♥ %d", a.wishlist.Len()))
	return strings.Join(parts, " • ")
}

// browseFooter is the row under the results: the sentinel's place.
func (a *App) browseFooter(st browse.State) string {
	if len(st.Results) == 0 {
		return ""
	}
	switch st.Status {
	case browse.LoadingMore:
		return a.spinner.View() + " " + renderMuted(MsgLoadingMore)
	case browse.Error:
		return ErrorMessageStyle.Render("✗ "+fetchErrorText(st)) +
			renderMuted(" • "+a.keyHandler.action(a.config.Keys.Bindings.Retry)+": retry")
	case browse.Exhausted:
		return renderMuted(MsgNoMoreBooks)
	default:
		return ""
	}
}

func (a *App) wishlistView() string {
	input := renderInputFrame(a.filterInput.View(), a.filterInput.Focused(), a.inputWidth())
	height := max(a.height-wishlistChrome, 3)

	var body string
	switch {
	case a.wishlist.Len() == 0:
		body = renderCentered(a.width, height, renderMuted(MsgEmptyWishlist(a.keyHandler.action(a.config.Keys.Bindings.Toggle))))
	case len(a.wishList.Items()) == 0:
		body = renderCentered(a.width, height, renderMuted(MsgNoResults))
	default:
		body = a.wishList.View()
	}
	return lipgloss.JoinVertical(lipgloss.Top, input, body)
}

func (a *App) similarView() string {
	height := max(a.height-plainChrome, 3)
	switch {
	case a.similarLoading:
		return renderCentered(a.width, height, a.spinner.View()+" "+renderMuted(MsgLoadingSimilar))
	case len(a.similarList.Items()) == 0:
		return renderCentered(a.width, height, renderMuted(MsgNoSimilar))
	default:
		return a.similarList.View()
	}
}

func (a *App) getCustomStatusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()

	if a.err != nil {
		return StatusBarStyle.Width(a.width).
			Render(ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	var parts []string
	if a.status != "" {
		parts = append(parts, a.statusKind.style().Render(a.status))
	}
	if len(commands) > 0 {
		parts = append(parts, strings.Join(commands, " • "))
	}
	if len(parts) == 0 {
		return ""
	}
	return StatusBarStyle.Width(a.width).Render(strings.Join(parts, " • "))
}

type bookItem struct {
	book   catalog.Book
	wished bool
}

func (i bookItem) Title() string {
	title := i.book.Title
	if title == "" {
		title = "Untitled"
	}
	if i.wished {
		return WishedItemStyle.Render("♥ " + title)
	}
	return title
}

func (i bookItem) Description() string {
	desc := i.book.AuthorLine()
	if year := publishedYear(i.book.PublishedDate); year != "" {
		desc += " • " + year
	}
	return lipgloss.NewStyle().Foreground(MutedColor).Render(truncateEnd(desc, 80))
}

func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.AuthorLine() }

func publishedYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

type genreItem struct {
	name     string
	selected bool
}

func (i genreItem) Title() string {
	if i.selected {
		return HeaderStyle.Render("● " + i.name)
	}
	return i.name
}

func (i genreItem) Description() string {
	if i.name == catalog.AllGenres {
		return renderMuted("no subject filter")
	}
	return renderMuted("subject:" + strings.ToLower(i.name))
}

func (i genreItem) FilterValue() string { return i.name }

func genreItems(selected string) []list.Item {
	items := make([]list.Item, len(catalog.Genres))
	for i, g := range catalog.Genres {
		items[i] = genreItem{name: g, selected: g == selected}
	}
	return items
}

type pageLoadedMsg struct {
	tag  browse.Tag
	page *catalog.ResultPage
	err  error
}

type searchDebounceFireMsg struct {
	seq uint64
}

type detailRenderedMsg struct {
	id      string
	content string
}

type similarLoadedMsg struct {
	id    string
	books []catalog.Book
	err   error
}

type wishlistFilteredMsg struct {
	query string
	books []catalog.Book
}

type linkOpenedMsg struct {
	storefront string
	url        string
}

type statusClearMsg struct {
	seq uint64
}

type errorMsg struct {
	err error
}
