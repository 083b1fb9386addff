package tui

import "github.com/pders01/folio/internal/catalog"

type View int

const (
	ViewBrowse View = iota
	ViewGenres
	ViewDetail
	ViewWishlist
	ViewSimilar
)

func (v View) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewGenres:
		return "genres"
	case ViewDetail:
		return "detail"
	case ViewWishlist:
		return "wishlist"
	case ViewSimilar:
		return "similar"
	default:
		return "unknown"
	}
}

// frame is one entry of the back stack. book is set for detail views.
type frame struct {
	view View
	book *catalog.Book
}
