package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/folio/internal/catalog"
)

var (
	wishlistBucket = []byte("wishlist")
	metaBucket     = []byte("metadata")

	wishlistKey = []byte("books")
	sessionKey  = []byte("session")
)

// ErrNoSession is returned when no session has been saved yet.
var ErrNoSession = errors.New("no saved session")

const defaultTimeout = 1 * time.Second

type Store struct {
	db *bolt.DB
}

// NewStore opens the database at dbPath. timeout bounds the wait for the
// file lock held by another folio process.
func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{wishlistBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LoadWishlist returns the stored wishlist, or nil if none was saved.
func (s *Store) LoadWishlist() ([]catalog.Book, error) {
	var books []catalog.Book
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(wishlistBucket).Get(wishlistKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &books)
	})
	if err != nil {
		return nil, fmt.Errorf("reading wishlist: %w", err)
	}
	return books, nil
}

// SaveWishlist replaces the stored wishlist with books.
func (s *Store) SaveWishlist(books []catalog.Book) error {
	if books == nil {
		books = []catalog.Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encoding wishlist: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(wishlistBucket).Put(wishlistKey, data)
	})
}

// WishlistBytes returns the raw serialized wishlist.
func (s *Store) WishlistBytes() ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(wishlistBucket).Get(wishlistKey); data != nil {
			out = append([]byte(nil), data...)
		}
		return nil
	})
	return out, err
}

func (s *Store) SaveSession(session Session) error {
	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now()
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(sessionKey, data)
	})
}

func (s *Store) LoadSession() (*Session, error) {
	var session Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get(sessionKey)
		if data == nil {
			return ErrNoSession
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}
