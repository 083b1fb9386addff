package search

import "github.com/pders01/folio/internal/catalog"

// Searcher defines the minimal search API used by the TUI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// Source is the collection being searched. The wishlist implements it.
type Source interface {
	Items() []catalog.Book
	Get(id string) (catalog.Book, bool)
}

// UpdateListener can be implemented by search engines that maintain
// an external index and want to be notified about data changes.
type UpdateListener interface {
	OnSourceChanged(books []catalog.Book)
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts, etc.
type DebugStatser interface {
	DocCount() (int, error)
}
