// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Stats counts cached rows.
type Stats struct {
	Searches   int   `json:"searches" yaml:"searches"`
	Games      int   `json:"games" yaml:"games"`
	Covers     int   `json:"covers" yaml:"covers"`
	CoverBytes int64 `json:"cover_bytes" yaml:"cover_bytes"`
}

// Stats returns row counts for every table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT count(*) FROM searches),
		(SELECT count(*) FROM games),
		(SELECT count(*) FROM covers),
		(SELECT coalesce(sum(length(data)), 0) FROM covers)`,
	).Scan(&st.Searches, &st.Games, &st.Covers, &st.CoverBytes)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return st, nil
}

// Clear deletes every cached row.
func (s *Store) Clear(ctx context.Context) error {
	for _, table := range []string{"searches", "games", "covers"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Prune deletes rows older than the TTL and returns how many were removed.
// With no TTL nothing expires.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.cutoff()
	var total int64
	for _, q := range []string{
		`DELETE FROM searches WHERE searched_at < ?`,
		`DELETE FROM games WHERE fetched_at < ?`,
		`DELETE FROM covers WHERE fetched_at < ?`,
	} {
		res, err := s.db.ExecContext(ctx, q, cutoff)
		if err != nil {
			return total, fmt.Errorf("pruning cache: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// SearchRecord is one entry of the search history.
type SearchRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Query      string    `json:"query" yaml:"query"`
	IDs        []string  `json:"ids" yaml:"ids"`
	SearchedAt time.Time `json:"searched_at" yaml:"searched_at"`
}

// History returns the most recent searches, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, ids, searched_at FROM searches ORDER BY searched_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var r SearchRecord
		var ids string
		var at int64
		if err := rows.Scan(&r.ID, &r.Query, &ids, &at); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &r.IDs); err != nil {
			return nil, fmt.Errorf("decoding history ids: %w", err)
		}
		r.SearchedAt = time.Unix(0, at).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// FormatHistory writes records as a human-readable table.
func FormatHistory(records []SearchRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No searches cached.")
		return
	}
	fmt.Fprintf(w, "%-20s  %-36s  %-30s  %s\n", "When", "Run", "Query", "Hits")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		query := r.Query
		if runes := []rune(query); len(runes) > 30 {
			query = string(runes[:27]) + "..."
		}
		fmt.Fprintf(w, "%-20s  %-36s  %-30s  %d\n",
			r.SearchedAt.Format("2006-01-02 15:04:05"), r.ID, query, len(r.IDs))
	}
}
