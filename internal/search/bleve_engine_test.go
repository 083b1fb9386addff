package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/wishlist"
)

func TestBleveEngineIndexesAndSearches(t *testing.T) {
	dir := t.TempDir()
	idxPath := filepath.Join(dir, "index.bleve")

	source := testBooks()
	eng, err := NewBleveEngine(source, idxPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	count, err := eng.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	res, err := eng.Search("Herbert", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "dune", res[0].Book.ID)

	// prefix match on title
	res, err = eng.Search("hobb", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	assert.Equal(t, "hobbit", res[0].Book.ID)

	res, err = eng.Search("x", 10)
	require.NoError(t, err)
	assert.Empty(t, res)

	fi, err := os.Stat(idxPath)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestBleveEngineFollowsSourceChanges(t *testing.T) {
	source := testBooks()
	eng, err := NewBleveEngine(source, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	remaining := source[1:]
	eng.source = remaining
	eng.OnSourceChanged(remaining)

	count, err := eng.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	res, err := eng.Search("herbert", 0)
	require.NoError(t, err)
	assert.Empty(t, res, "removed book is no longer indexed")

	res, err = eng.Search("fantasy", 0)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestBleveEngineReopensExistingIndex(t *testing.T) {
	idxPath := filepath.Join(t.TempDir(), "index.bleve")

	eng, err := NewBleveEngine(testBooks(), idxPath)
	require.NoError(t, err)
	require.NoError(t, eng.Close())

	// Reopen with a smaller source; stale documents are pruned
	smaller := testBooks()[:1]
	eng, err = NewBleveEngine(smaller, idxPath)
	require.NoError(t, err)
	defer eng.Close()

	count, err := eng.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type memPersister struct {
	books []catalog.Book
}

func (p *memPersister) LoadWishlist() ([]catalog.Book, error) { return p.books, nil }

func (p *memPersister) SaveWishlist(books []catalog.Book) error {
	p.books = books
	return nil
}

func TestBleveEngineSearchWhileWishlistChanges(t *testing.T) {
	books := make([]catalog.Book, 20)
	for i := range books {
		books[i] = catalog.Book{ID: fmt.Sprintf("dune-%02d", i), Title: fmt.Sprintf("Dune part %d", i)}
	}
	wl, err := wishlist.New(&memPersister{books: books})
	require.NoError(t, err)

	eng, err := NewBleveEngine(wl, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if _, searchErr := eng.Search("dune", 0); searchErr != nil {
				t.Errorf("search failed: %v", searchErr)
				return
			}
		}
	}()

	for i := 0; i < 40; i++ {
		_, err := wl.Toggle(books[i%len(books)])
		require.NoError(t, err)
		eng.OnSourceChanged(wl.Items())
	}
	close(done)
	wg.Wait()

	res, err := eng.Search("dune", 0)
	require.NoError(t, err)
	assert.Len(t, res, len(books))
}
