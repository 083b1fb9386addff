package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/folio/internal/browse"
	"github.com/pders01/folio/internal/catalog"
)

// fetchPage runs req against the catalog. The reply carries req.Tag so a
// reply to a superseded request can be recognised and dropped.
func (a *App) fetchPage(req browse.FetchRequest) tea.Cmd {
	client := a.catalog
	return func() tea.Msg {
		page, err := client.Fetch(context.Background(), req.Query, req.Offset, req.PageSize)
		return pageLoadedMsg{tag: req.Tag, page: page, err: err}
	}
}

func (a *App) loadSimilar(book catalog.Book) tea.Cmd {
	client := a.catalog
	return func() tea.Msg {
		books, err := client.Similar(context.Background(), book)
		return similarLoadedMsg{id: book.ID, books: books, err: err}
	}
}

func (a *App) renderDetail(book catalog.Book) tea.Cmd {
	md := detailMarkdown(book, detailOptions{
		wished:    a.wishlist.Contains(book.ID),
		maxDesc:   a.config.UI.Detail.MaxDescriptionLength,
		toggleKey: a.keyHandler.action(a.config.Keys.Bindings.Toggle),
		buyKey:    a.keyHandler.action(a.config.Keys.Bindings.Buy),
		store:     a.buyer.StorefrontName(),
	})

	r, err := a.getRenderer()
	return func() tea.Msg {
		if err != nil {
			return detailRenderedMsg{id: book.ID, content: "Error initializing renderer: " + err.Error()}
		}
		rendered, err := r.Render(md)
		if err != nil {
			return detailRenderedMsg{id: book.ID, content: fmt.Sprintf("Failed to render book: %s\n\n%s", err, md)}
		}
		return detailRenderedMsg{id: book.ID, content: rendered}
	}
}

type detailOptions struct {
	wished    bool
	maxDesc   int
	toggleKey string
	buyKey    string
	store     string
}

// detailMarkdown lays out a book for the detail view. Missing fields fall
// back to the catalog placeholders.
func detailMarkdown(book catalog.Book, opts detailOptions) string {
	var b strings.Builder

	title := book.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Authors:** %s\n\n", book.AuthorLine())
	fmt.Fprintf(&b, "**ISBN-13:** %s\n\n", book.ISBN13())

	if book.Publisher != "" || book.PublishedDate != "" {
		published := strings.TrimSpace(book.Publisher + " " + parenthesize(book.PublishedDate))
		fmt.Fprintf(&b, "**Published:** %s\n\n", published)
	}
	if book.PageCount > 0 {
		fmt.Fprintf(&b, "**Pages:** %d\n\n", book.PageCount)
	}
	if len(book.Categories) > 0 {
		fmt.Fprintf(&b, "**Categories:** %s\n\n", strings.Join(book.Categories, ", "))
	}
	if book.AverageRating > 0 {
		fmt.Fprintf(&b, "**Rating:** %.1f/5 (%d ratings)\n\n", book.AverageRating, book.RatingsCount)
	}
	fmt.Fprintf(&b, "**Cover:** %s\n\n", book.ThumbnailURL())

	b.WriteString("---\n\n")

	desc := plainDescription(book.DescriptionText())
	if opts.maxDesc > 0 {
		desc = truncateEnd(desc, opts.maxDesc)
	}
	b.WriteString(desc)
	b.WriteString("\n\n---\n\n")

	if opts.wished {
		fmt.Fprintf(&b, "♥ **In your wishlist** • %s: remove • %s: buy on %s\n", opts.toggleKey, opts.buyKey, opts.store)
	} else {
		fmt.Fprintf(&b, "♡ Not in your wishlist • %s: add\n", opts.toggleKey)
	}
	return b.String()
}

func parenthesize(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}

// filterWishlist runs query against the wishlist search engine.
func (a *App) filterWishlist(query string) tea.Cmd {
	engine := a.searchEngine
	return func() tea.Msg {
		results, err := engine.Search(query, 0)
		if err != nil {
			return errorMsg{err: wrapErr("filtering wishlist", err)}
		}
		books := make([]catalog.Book, 0, len(results))
		for _, r := range results {
			books = append(books, r.Book)
		}
		return wishlistFilteredMsg{query: query, books: books}
	}
}

// buy opens the storefront search for book. Only wishlisted books can be
// bought.
func (a *App) buy(book catalog.Book) tea.Cmd {
	if !a.wishlist.Contains(book.ID) {
		return a.flash(MsgBuyNeedsWish, StatusWarn)
	}
	buyer := a.buyer
	return func() tea.Msg {
		target, err := buyer.Buy(book.Title)
		if err != nil {
			return errorMsg{err: wrapErr("opening storefront", err)}
		}
		return linkOpenedMsg{storefront: buyer.StorefrontName(), url: target}
	}
}
