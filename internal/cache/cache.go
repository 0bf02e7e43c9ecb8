// Package cache provides a Badger-backed store for raw API responses.
// Re-running a build against a warm cache costs no remote quota for the
// documents already seen.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultTTL bounds how long a cached response is trusted. Scopus
// records change rarely; a month keeps re-runs cheap without pinning
// stale metadata forever.
const DefaultTTL = 30 * 24 * time.Hour

// Store is an embedded key-value cache of response bodies.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the entry lifetime. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithLogger sets the logger for cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens (creating if needed) a cache directory.
func Open(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	options := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	return newStore(db, opts...), nil
}

// OpenInMemory opens a cache that lives only for the process (testing).
func OpenInMemory(opts ...Option) (*Store, error) {
	options := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory cache: %w", err)
	}
	return newStore(db, opts...), nil
}

func newStore(db *badger.DB, opts ...Option) *Store {
	s := &Store{db: db, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Get returns the cached body for key, if present and unexpired.
func (s *Store) Get(key string) ([]byte, bool) {
	var body []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return body, true
}

// Set stores body under key.
func (s *Store) Set(key string, body []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), body)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes key from the cache. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
