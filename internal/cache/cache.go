// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists the most recently served batch and the theme
// preference in a small bbolt database. Cache trouble never blocks the
// load path: a store that failed to open degrades to a no-op, and corrupt
// or expired entries read as absent.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pdiddy/gallery-engine/pkg/types"
)

const (
	dbFile     = "gallery.db"
	defaultTTL = time.Hour

	// batchKey is versioned; bumping it orphans entries written by an
	// incompatible item layout instead of mis-decoding them.
	batchKey = "batch:v2"
	themeKey = "theme"
)

var (
	bucketGallery = []byte("gallery")
	bucketPrefs   = []byte("prefs")
)

// Valid theme preference values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// entry is the persisted batch envelope.
type entry struct {
	FetchedAt time.Time           `json:"fetched_at"`
	Items     []types.ArtworkItem `json:"items"`
}

// Store is the local cache. A nil db (open failure, or Open("")) makes
// every operation a silent no-op.
type Store struct {
	db  *bolt.DB
	ttl time.Duration
}

// Open creates or opens the cache database under dir. An empty dir returns
// a memory-less no-op store.
func Open(dir string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if dir == "" {
		return &Store{ttl: ttl}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, dbFile), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketGallery, bucketPrefs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache buckets: %w", err)
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveBatch persists items with the current timestamp, overwriting any
// prior entry.
func (s *Store) SaveBatch(items types.Batch) error {
	return s.saveBatchAt(items, time.Now())
}

func (s *Store) saveBatchAt(items types.Batch, now time.Time) error {
	if s.db == nil {
		return nil
	}
	data, err := json.Marshal(entry{FetchedAt: now, Items: items})
	if err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGallery).Put([]byte(batchKey), data)
	})
}

// LoadBatch returns the cached batch when a fresh entry exists. Missing,
// corrupt, and expired entries all read as absent.
func (s *Store) LoadBatch() (types.Batch, bool) {
	return s.loadBatchAt(time.Now())
}

func (s *Store) loadBatchAt(now time.Time) (types.Batch, bool) {
	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketGallery).Get([]byte(batchKey)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if now.Sub(e.FetchedAt) >= s.ttl {
		return nil, false
	}
	if len(e.Items) == 0 {
		return nil, false
	}
	return e.Items, true
}

// ClearBatch removes the persisted batch.
func (s *Store) ClearBatch() error {
	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGallery).Delete([]byte(batchKey))
	})
}

// SaveTheme persists the display preference. Only "light" and "dark" are
// accepted.
func (s *Store) SaveTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q (want %q or %q)", theme, ThemeLight, ThemeDark)
	}
	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put([]byte(themeKey), []byte(theme))
	})
}

// Theme returns the persisted preference, false when unset or invalid.
func (s *Store) Theme() (string, bool) {
	if s.db == nil {
		return "", false
	}
	var theme string
	s.db.View(func(tx *bolt.Tx) error {
		theme = string(tx.Bucket(bucketPrefs).Get([]byte(themeKey)))
		return nil
	})
	if theme != ThemeLight && theme != ThemeDark {
		return "", false
	}
	return theme, true
}
