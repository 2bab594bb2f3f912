// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records every artwork the gallery has served, so past
// finds can be looked up again after the session ends.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/gallery-engine/pkg/types"
)

const dbFile = "history.db"

// Store manages the served-artwork SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at dir/history.db and
// creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS artworks (
			id INTEGER PRIMARY KEY,
			title TEXT,
			artist TEXT,
			date TEXT,
			medium TEXT,
			culture TEXT,
			image TEXT,
			object_url TEXT,
			first_seen TEXT NOT NULL,
			last_seen TEXT NOT NULL,
			seen_count INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_last_seen ON artworks(last_seen)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Entry is one history row: the artwork plus when and how often it was served.
type Entry struct {
	Item      types.ArtworkItem `json:"item" yaml:"item"`
	FirstSeen time.Time         `json:"first_seen" yaml:"first_seen"`
	LastSeen  time.Time         `json:"last_seen" yaml:"last_seen"`
	SeenCount int               `json:"seen_count" yaml:"seen_count"`
}

// Record upserts every item of the batch in one transaction, bumping
// seen_count and last_seen for artworks served before.
func (s *Store) Record(ctx context.Context, items types.Batch) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO artworks (id, title, artist, date, medium, culture, image, object_url, first_seen, last_seen, seen_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		 ON CONFLICT(id) DO UPDATE SET
			last_seen=excluded.last_seen,
			seen_count=seen_count+1`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, item := range items {
		_, err := stmt.ExecContext(ctx,
			item.ID, item.Title, item.Artist, item.Date, item.Medium,
			item.Culture, item.Image, item.ObjectURL, now, now)
		if err != nil {
			return fmt.Errorf("recording artwork %d: %w", item.ID, err)
		}
	}
	return tx.Commit()
}

// Recent returns the most recently served artworks, newest first. A limit
// of zero uses the configured default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, artist, date, medium, culture, image, object_url,
		        first_seen, last_seen, seen_count
		 FROM artworks ORDER BY last_seen DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Search fuzzy-matches term against title and artist of everything served,
// best matches first.
func (s *Store) Search(ctx context.Context, term string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, artist, date, medium, culture, image, object_url,
		        first_seen, last_seen, seen_count
		 FROM artworks`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	type scored struct {
		entry Entry
		rank  int
	}
	var matches []scored
	for _, e := range entries {
		haystack := e.Item.Title + " " + e.Item.Artist
		ranks := fuzzy.RankFindNormalizedFold(term, []string{haystack})
		if len(ranks) == 0 {
			continue
		}
		matches = append(matches, scored{entry: e, rank: ranks[0].Distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})
	if len(matches) > s.maxResults {
		matches = matches[:s.maxResults]
	}

	out := make([]Entry, len(matches))
	for i, m := range matches {
		out[i] = m.entry
	}
	return out, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var firstSeen, lastSeen string
		err := rows.Scan(&e.Item.ID, &e.Item.Title, &e.Item.Artist, &e.Item.Date,
			&e.Item.Medium, &e.Item.Culture, &e.Item.Image, &e.Item.ObjectURL,
			&firstSeen, &lastSeen, &e.SeenCount)
		if err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.FirstSeen, _ = time.Parse(time.RFC3339, firstSeen)
		e.LastSeen, _ = time.Parse(time.RFC3339, lastSeen)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
