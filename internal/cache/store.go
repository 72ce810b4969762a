// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps upstream responses in a local SQLite database so
// repeated queries do not hit the xmlapi: search hits per query, game
// records per object id, and raw cover bytes per URL.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// Store manages the cache database.
type Store struct {
	db  *sql.DB
	ttl time.Duration

	// now is replaced in tests.
	now func() time.Time
}

// Open opens or creates the cache database at cfg.Path and creates the
// schema if it does not exist. A non-positive TTL never expires entries.
func Open(cfg types.CacheConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("cache path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, ttl: cfg.TTL, now: time.Now}
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

// schemaVersion is stored in PRAGMA user_version. Version 2 keys game
// records by variant; older game tables are dropped.
const schemaVersion = 2

func (s *Store) createSchema() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	statements := []string{}
	if version < schemaVersion {
		statements = append(statements, `DROP TABLE IF EXISTS games`)
	}
	statements = append(statements,
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			variant TEXT NOT NULL DEFAULT '',
			ids TEXT NOT NULL,
			searched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_query ON searches(query, variant, searched_at)`,
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT NOT NULL,
			variant TEXT NOT NULL DEFAULT '',
			record TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (id, variant)
		)`,
		`CREATE TABLE IF NOT EXISTS covers (
			url TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,
		fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion),
	)
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// cutoff returns the oldest timestamp still considered fresh.
func (s *Store) cutoff() int64 {
	if s.ttl <= 0 {
		return 0
	}
	return s.now().Add(-s.ttl).UnixNano()
}

// Variant returns the cache variant for cfg: every setting that changes
// search hits or record contents for the same query.
func Variant(cfg types.FetchConfig) string {
	return fmt.Sprintf("max=%d;exact=%t;html=%t;base=%s",
		cfg.MaxResults, cfg.Exact, cfg.HTMLDescription, strings.TrimRight(cfg.BaseURL, "/"))
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// LookupSearch returns the ids of the most recent fresh search for query.
func (s *Store) LookupSearch(ctx context.Context, query, variant string) ([]string, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT ids FROM searches WHERE query = ? AND variant = ? AND searched_at >= ?
		 ORDER BY searched_at DESC LIMIT 1`,
		normalizeQuery(query), variant, s.cutoff(),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("looking up search: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false, fmt.Errorf("decoding cached ids: %w", err)
	}
	return ids, true, nil
}

// SaveSearch records a search run and returns its id.
func (s *Store) SaveSearch(ctx context.Context, query, variant string, ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding ids: %w", err)
	}
	runID := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO searches (id, query, variant, ids, searched_at) VALUES (?, ?, ?, ?, ?)`,
		runID, normalizeQuery(query), variant, string(idsJSON), s.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("saving search: %w", err)
	}
	return runID, nil
}

// LookupGames returns the fresh cached records among ids for variant,
// keyed by id.
func (s *Store) LookupGames(ctx context.Context, variant string, ids []string) (map[string]types.Game, error) {
	found := make(map[string]types.Game, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+2)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, variant, s.cutoff())

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, record FROM games WHERE id IN (`+placeholders+`) AND variant = ? AND fetched_at >= ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("looking up games: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, record string
		if err := rows.Scan(&id, &record); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		var g types.Game
		if err := json.Unmarshal([]byte(record), &g); err != nil {
			return nil, fmt.Errorf("decoding cached game %s: %w", id, err)
		}
		found[id] = g
	}
	return found, rows.Err()
}

// SaveGames upserts records for variant. Attached images are not stored
// here; covers are cached separately by URL.
func (s *Store) SaveGames(ctx context.Context, variant string, games []types.Game) error {
	if len(games) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO games (id, variant, record, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id, variant) DO UPDATE SET record=excluded.record, fetched_at=excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := s.now().UnixNano()
	for _, g := range games {
		record, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("encoding game %s: %w", g.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, g.ID, variant, string(record), now); err != nil {
			return fmt.Errorf("saving game %s: %w", g.ID, err)
		}
	}
	return tx.Commit()
}

// LookupCover returns fresh cached image bytes for url.
func (s *Store) LookupCover(ctx context.Context, url string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM covers WHERE url = ? AND fetched_at >= ?`, url, s.cutoff(),
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("looking up cover: %w", err)
	}
	return data, true, nil
}

// SaveCover upserts image bytes for url.
func (s *Store) SaveCover(ctx context.Context, url string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO covers (url, data, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET data=excluded.data, fetched_at=excluded.fetched_at`,
		url, data, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving cover: %w", err)
	}
	return nil
}
