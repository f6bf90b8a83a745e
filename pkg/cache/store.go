package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// cacheFileName is the name of the cache database inside the cache dir.
const cacheFileName = "akcli.cache"

var (
	// ErrCacheMiss indicates the requested key was not found or is expired.
	ErrCacheMiss = errors.New("cache miss")
)

// database is the persisted document: fingerprint -> serialized entry.
type database map[string]*Entry

// Store is a file-backed cache of API response snapshots. The whole
// database is a single JSON document that every operation reads and
// rewrites in full. There is no cross-process locking; concurrent writers
// race with last-writer-wins semantics.
type Store struct {
	path       string
	defaultTTL time.Duration
}

// NewStore creates a store under dir, creating the directory and an empty
// database file on first use. defaultTTL is the lifetime applied to entries
// committed by the request pipeline.
func NewStore(dir string, defaultTTL time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	path := filepath.Join(dir, cacheFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("initialize cache file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat cache file: %w", err)
	}

	return &Store{path: path, defaultTTL: defaultTTL}, nil
}

// Path returns the location of the cache database file.
func (s *Store) Path() string {
	return s.path
}

// DefaultTTL returns the lifetime applied to new pipeline entries.
func (s *Store) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Get retrieves an entry by key. As a side effect it sweeps every expired
// entry out of the database and writes the swept document back, even when
// nothing expired. Returns ErrCacheMiss if the key is absent or expired.
func (s *Store) Get(key string) (*Entry, error) {
	db, err := s.load()
	if err != nil {
		return nil, err
	}

	// Grab the entry before the sweep so an expired hit is still
	// distinguishable from a plain miss.
	entry := db[key]

	if err := s.sweep(db); err != nil {
		return nil, err
	}

	if entry == nil || entry.IsExpired() {
		cacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	cacheHits.Inc()
	return entry, nil
}

// Set inserts or overwrites entry under its key and persists the database.
func (s *Store) Set(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	db, err := s.load()
	if err != nil {
		return err
	}

	db[entry.Key] = entry
	return s.save(db)
}

// Delete removes an entry. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	db, err := s.load()
	if err != nil {
		return err
	}

	delete(db, key)
	return s.save(db)
}

// sweep removes expired entries and persists the swept database
// unconditionally.
func (s *Store) sweep(db database) error {
	for key, entry := range db {
		if entry.IsExpired() {
			delete(db, key)
			cacheEvictions.Inc()
		}
	}
	return s.save(db)
}

// load reads the full database. Malformed on-disk data is a fatal read
// error: the file is only ever written by this store, so corruption means
// something external tampered with it.
func (s *Store) load() (database, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		cacheErrors.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("read cache database: %w", err)
	}

	var db database
	if err := json.Unmarshal(raw, &db); err != nil {
		cacheErrors.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("parse cache database %s: %w", s.path, err)
	}

	if db == nil {
		db = database{}
	}
	return db, nil
}

// save writes the full database back to disk.
func (s *Store) save(db database) error {
	raw, err := json.MarshalIndent(db, "", "    ")
	if err != nil {
		cacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("marshal cache database: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		cacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("write cache database: %w", err)
	}
	return nil
}
