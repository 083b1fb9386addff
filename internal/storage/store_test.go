package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/folio/internal/catalog"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewStore(dbPath, time.Second)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func TestStore_LoadWishlist_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	books, err := store.LoadWishlist()
	if err != nil {
		t.Fatalf("failed to load wishlist: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected empty wishlist, got %d books", len(books))
	}
}

func TestStore_SaveAndLoadWishlist(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	books := []catalog.Book{
		{
			ID:          "zyTCAlFPjgYC",
			Title:       "The Google Story",
			Authors:     []string{"David A. Vise", "Mark Malseed"},
			Identifiers: []catalog.Identifier{{Type: "ISBN_13", Identifier: "9780553804577"}},
			PageCount:   207,
		},
		{ID: "abc", Title: "Untitled"},
	}

	if err := store.SaveWishlist(books); err != nil {
		t.Fatalf("failed to save wishlist: %v", err)
	}

	loaded, err := store.LoadWishlist()
	if err != nil {
		t.Fatalf("failed to load wishlist: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 books, got %d", len(loaded))
	}
	if loaded[0].ID != "zyTCAlFPjgYC" || loaded[1].ID != "abc" {
		t.Errorf("order not preserved: %s, %s", loaded[0].ID, loaded[1].ID)
	}
	if loaded[0].ISBN13() != "9780553804577" {
		t.Errorf("expected ISBN-13 to round-trip, got %s", loaded[0].ISBN13())
	}
	if loaded[0].AuthorLine() != "David A. Vise, Mark Malseed" {
		t.Errorf("unexpected authors %q", loaded[0].AuthorLine())
	}
}

func TestStore_SaveWishlist_ReplacesWholeSet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SaveWishlist([]catalog.Book{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveWishlist([]catalog.Book{{ID: "b"}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadWishlist()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ID != "b" {
		t.Errorf("expected only b, got %+v", loaded)
	}
}

func TestStore_SaveWishlist_NilIsEmptyArray(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SaveWishlist(nil); err != nil {
		t.Fatal(err)
	}
	data, err := store.WishlistBytes()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}
}

func TestStore_WishlistSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := NewStore(dbPath, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveWishlist([]catalog.Book{{ID: "kept", Title: "Kept"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = NewStore(dbPath, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	loaded, err := store.LoadWishlist()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].Title != "Kept" {
		t.Errorf("wishlist lost across reopen: %+v", loaded)
	}
}

func TestStore_CorruptWishlist(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(wishlistBucket).Put(wishlistKey, []byte("not json"))
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.LoadWishlist(); err == nil {
		t.Error("expected error for corrupt wishlist, got nil")
	}
}

func TestStore_Session(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := store.LoadSession(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	if err := store.SaveSession(Session{Term: "dune", Genre: "Science Fiction"}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	session, err := store.LoadSession()
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	if session.Term != "dune" || session.Genre != "Science Fiction" {
		t.Errorf("unexpected session %+v", session)
	}
	if session.SavedAt.IsZero() {
		t.Error("expected SavedAt to be set")
	}
}

func TestStore_LockTimeout(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "locked.db")

	first, err := NewStore(dbPath, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	if _, err := NewStore(dbPath, 50*time.Millisecond); err == nil {
		t.Error("expected second open to time out while the file is locked")
	}
}
