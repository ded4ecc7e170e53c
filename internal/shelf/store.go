package shelf

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/folio/internal/debuglog"
)

var (
	booksBucket = []byte("books")
	metaBucket  = []byte("metadata")
)

var (
	ErrNotFound   = errors.New("book not found")
	ErrEmptyTitle = errors.New("book title cannot be empty")
)

// Store is a bbolt-backed reading shelf. It answers ownership questions from
// an in-memory key set so lookups never touch the disk.
type Store struct {
	db    *bolt.DB
	index *Index

	mu    sync.RWMutex
	owned map[string]struct{}

	now func() time.Time
	log *debuglog.FieldLogger
}

// Open opens or creates the shelf database. The index may be nil.
func Open(dbPath string, index *Index) (*Store, error) {
	return OpenWithTimeout(dbPath, index, time.Second)
}

// OpenWithTimeout is Open with a custom wait for the database file lock.
func OpenWithTimeout(dbPath string, index *Index, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{booksBucket, metaBucket} {
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

	s := &Store{
		db:    db,
		index: index,
		owned: make(map[string]struct{}),
		now:   time.Now,
		log:   debuglog.WithFields(map[string]any{"component": "shelf"}),
	}

	books, err := s.List()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading shelf: %w", err)
	}
	for _, b := range books {
		s.owned[b.Key()] = struct{}{}
	}
	if index != nil {
		if err := index.Reindex(books); err != nil {
			db.Close()
			return nil, fmt.Errorf("indexing shelf: %w", err)
		}
	}
	s.log.Debugf("opened %s with %d books", dbPath, len(books))
	return s, nil
}

// Close closes the database and the index.
func (s *Store) Close() error {
	var errs []error
	if s.index != nil {
		errs = append(errs, s.index.Close())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

// IsOwned reports whether a book with exactly this title and author is shelved.
func (s *Store) IsOwned(title, author string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.owned[bookKey(title, author)]
	return ok
}

// Add shelves book. It reports false when the book was already there.
func (s *Store) Add(book Book) (bool, error) {
	book = book.Normalize()
	if book.Title == "" {
		return false, ErrEmptyTitle
	}
	if s.IsOwned(book.Title, book.Author) {
		return false, nil
	}
	if book.AddedAt.IsZero() {
		book.AddedAt = s.now()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(book)
		if err != nil {
			return err
		}
		return tx.Bucket(booksBucket).Put([]byte(book.Key()), data)
	})
	if err != nil {
		return false, fmt.Errorf("saving book: %w", err)
	}

	s.mu.Lock()
	s.owned[book.Key()] = struct{}{}
	s.mu.Unlock()

	if s.index != nil {
		if err := s.index.Add(book); err != nil {
			s.log.Warnf("indexing %q failed: %v", book.Title, err)
		}
	}
	s.log.Infof("added %q by %s", book.Title, book.Author)
	return true, nil
}

// Remove deletes the book with this title and author.
func (s *Store) Remove(title, author string) error {
	key := bookKey(title, author)
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(booksBucket)
		if b.Get([]byte(key)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.owned, key)
	s.mu.Unlock()

	if s.index != nil {
		if err := s.index.Delete(key); err != nil {
			s.log.Warnf("unindexing %q failed: %v", title, err)
		}
	}
	return nil
}

// Get returns the book with this title and author.
func (s *Store) Get(title, author string) (*Book, error) {
	var book Book
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(booksBucket).Get([]byte(bookKey(title, author)))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &book)
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns every book ordered by title, then author, case-insensitively.
func (s *Store) List() ([]Book, error) {
	var books []Book
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(booksBucket).ForEach(func(_ []byte, v []byte) error {
			var b Book
			if err := json.Unmarshal(v, &b); err != nil {
				return err
			}
			books = append(books, b)
			return nil
		})
	})
	sort.SliceStable(books, func(i, j int) bool {
		ti, tj := strings.ToLower(books[i].Title), strings.ToLower(books[j].Title)
		if ti != tj {
			return ti < tj
		}
		return strings.ToLower(books[i].Author) < strings.ToLower(books[j].Author)
	})
	return books, err
}

// Len is the number of shelved books.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.owned)
}

// Find runs a full-text query over the shelf. Without an index it falls back
// to a case-insensitive substring match on title and author.
func (s *Store) Find(query string, limit int) ([]Book, error) {
	if s.index != nil {
		keys, err := s.index.Search(query, limit)
		if err != nil {
			return nil, err
		}
		out := make([]Book, 0, len(keys))
		for _, key := range keys {
			title, author, _ := strings.Cut(key, "\x1f")
			b, err := s.Get(title, author)
			if err != nil {
				continue
			}
			out = append(out, *b)
		}
		return out, nil
	}

	books, err := s.List()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
