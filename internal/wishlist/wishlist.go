package wishlist

import (
	"fmt"
	"sync"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/debuglog"
)

// Persister stores the whole wishlist as one value.
type Persister interface {
	LoadWishlist() ([]catalog.Book, error)
	SaveWishlist(books []catalog.Book) error
}

// Wishlist is an insertion-ordered set of books keyed by ID. Every
// mutation writes the complete set through the Persister before returning.
// It is safe for concurrent use; search commands read it off the UI loop.
type Wishlist struct {
	store Persister

	mu    sync.RWMutex
	books []catalog.Book
	index map[string]int
	// last removal, so an immediate re-add restores the prior order
	removedID  string
	removedPos int
	log        *debuglog.FieldLogger
}

// New restores the wishlist from store.
func New(store Persister) (*Wishlist, error) {
	loaded, err := store.LoadWishlist()
	if err != nil {
		return nil, fmt.Errorf("loading wishlist: %w", err)
	}

	w := &Wishlist{
		store: store,
		index: make(map[string]int, len(loaded)),
		log:   debuglog.For("wishlist"),
	}
	for _, b := range loaded {
		if b.ID == "" {
			continue
		}
		if _, dup := w.index[b.ID]; dup {
			continue
		}
		w.index[b.ID] = len(w.books)
		w.books = append(w.books, b)
	}
	w.log.Debugf("restored %d books", len(w.books))
	return w, nil
}

// Toggle adds book if absent, removes it otherwise, and persists the
// result. On a write failure the in-memory set is left unchanged.
func (w *Wishlist) Toggle(book catalog.Book) (added bool, err error) {
	if book.ID == "" {
		return false, fmt.Errorf("book has no identifier")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	next, added, pos := w.toggled(book)
	if err := w.store.SaveWishlist(next); err != nil {
		return false, fmt.Errorf("saving wishlist: %w", err)
	}

	w.books = next
	w.reindex()
	if added {
		w.removedID = ""
	} else {
		w.removedID, w.removedPos = book.ID, pos
	}
	w.log.With("id", book.ID).Debugf("toggled, added=%t", added)
	return added, nil
}

func (w *Wishlist) toggled(book catalog.Book) ([]catalog.Book, bool, int) {
	next := make([]catalog.Book, 0, len(w.books)+1)

	if pos, ok := w.index[book.ID]; ok {
		next = append(next, w.books[:pos]...)
		next = append(next, w.books[pos+1:]...)
		return next, false, pos
	}

	pos := len(w.books)
	if w.removedID == book.ID && w.removedPos <= len(w.books) {
		pos = w.removedPos
	}
	next = append(next, w.books[:pos]...)
	next = append(next, book)
	next = append(next, w.books[pos:]...)
	return next, true, pos
}

func (w *Wishlist) reindex() {
	w.index = make(map[string]int, len(w.books))
	for i, b := range w.books {
		w.index[b.ID] = i
	}
}

func (w *Wishlist) Contains(id string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.index[id]
	return ok
}

// Get returns the stored copy of a book.
func (w *Wishlist) Get(id string) (catalog.Book, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	pos, ok := w.index[id]
	if !ok {
		return catalog.Book{}, false
	}
	return w.books[pos], true
}

// Items returns the books in insertion order.
func (w *Wishlist) Items() []catalog.Book {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]catalog.Book, len(w.books))
	copy(out, w.books)
	return out
}

func (w *Wishlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.books)
}
