// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch runs the query pipeline: name search, batch detail lookup,
// and per-record cover download. Every step runs sequentially.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bgg-tellico/internal/bgg"
	"github.com/pdiddy/bgg-tellico/internal/imaging"
	"github.com/pdiddy/bgg-tellico/internal/tellico"
	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// Source is the upstream the pipeline reads from. *bgg.Client implements it
// directly; the cache package wraps it.
type Source interface {
	Search(ctx context.Context, query string) ([]string, error)
	Details(ctx context.Context, ids []string) ([]types.Game, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Output holds the assembled records and cover statistics.
type Output struct {
	Query         string       `json:"query" yaml:"query"`
	Games         []types.Game `json:"games" yaml:"games"`
	CoversFetched int          `json:"covers_fetched" yaml:"covers_fetched"`
	CoversSkipped int          `json:"covers_skipped" yaml:"covers_skipped"`

	// Artists carries the artist-field setting through to the Tellico writer.
	Artists bool `json:"-" yaml:"-"`
}

// Run executes the pipeline for query. An empty search result returns an
// empty Output without calling Details. Cover failures never fail the run.
func Run(ctx context.Context, query string, src Source, cfg types.FetchConfig, w io.Writer) (Output, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Output{}, fmt.Errorf("query is empty: provide a game name to search for")
	}
	if w == nil {
		w = io.Discard
	}

	ids, err := src.Search(ctx, query)
	if err != nil {
		return Output{Query: query, Artists: cfg.Artists}, err
	}
	if cfg.Verbose {
		fmt.Fprintf(w, "search %q: %d match(es)\n", query, len(ids))
	}
	return assemble(ctx, query, ids, src, cfg, w)
}

// RunIDs skips the name search and fetches the records for BoardGameGeek
// ids directly. Ids must be decimal numbers.
func RunIDs(ctx context.Context, ids []string, src Source, cfg types.FetchConfig, w io.Writer) (Output, error) {
	if w == nil {
		w = io.Discard
	}
	var clean []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return Output{}, fmt.Errorf("invalid BoardGameGeek id %q", id)
		}
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return Output{}, fmt.Errorf("no ids given")
	}
	return assemble(ctx, "id:"+strings.Join(clean, ","), clean, src, cfg, w)
}

// assemble fetches details for ids and attaches covers in sequence.
func assemble(ctx context.Context, query string, ids []string, src Source, cfg types.FetchConfig, w io.Writer) (Output, error) {
	out := Output{Query: query, Artists: cfg.Artists}
	if len(ids) == 0 {
		return out, nil
	}

	games, err := src.Details(ctx, ids)
	if err != nil {
		return out, err
	}
	games = OrderByIDs(ids, games)

	for i := range games {
		if i > 0 && cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(cfg.RequestDelay):
			}
		}
		if attachCover(ctx, src, &games[i], cfg, w) {
			out.CoversFetched++
		} else {
			out.CoversSkipped++
		}
	}

	out.Games = games
	return out, nil
}

// OrderByIDs returns games in the order of ids. Records whose id was not
// requested keep their relative order after the requested ones; a second
// record with the same id is dropped.
func OrderByIDs(ids []string, games []types.Game) []types.Game {
	byID := make(map[string]int, len(games))
	for i, g := range games {
		if _, dup := byID[g.ID]; !dup {
			byID[g.ID] = i
		}
	}

	ordered := make([]types.Game, 0, len(games))
	used := make(map[int]bool, len(games))
	for _, id := range ids {
		if i, ok := byID[id]; ok && !used[i] {
			ordered = append(ordered, games[i])
			used[i] = true
		}
	}
	for i, g := range games {
		if !used[i] && byID[g.ID] == i {
			ordered = append(ordered, g)
			used[i] = true
		}
	}
	return ordered
}

// attachCover downloads and embeds the cover for g. It reports whether an
// image was attached; every failure is silent unless cfg.Verbose is set.
func attachCover(ctx context.Context, src Source, g *types.Game, cfg types.FetchConfig, w io.Writer) bool {
	coverURL, ok := bgg.CoverURL(*g, cfg.ImageSize, cfg.ImageHosts)
	if !ok {
		if cfg.Verbose && cfg.ImageSize != types.ImageNone {
			fmt.Fprintf(w, "  no usable cover for %s\n", g.ID)
		}
		return false
	}

	data, err := src.FetchImage(ctx, coverURL)
	if err != nil {
		if cfg.Verbose {
			fmt.Fprintf(w, "  warning: cover for %s: %v\n", g.ID, err)
		}
		return false
	}

	data, err = imaging.NormalizeJPEG(data, cfg.MaxImageWidth, cfg.MaxImageHeight)
	if err != nil {
		if cfg.Verbose {
			fmt.Fprintf(w, "  warning: cover for %s: %v\n", g.ID, err)
		}
		return false
	}

	g.Image = &types.Image{
		ID:     types.CoverFilename(g.ID),
		Format: "JPEG",
		Data:   data,
	}
	return true
}

// Output formats accepted by Write.
const (
	OutputTellico = "tellico"
	OutputJSON    = "json"
	OutputYAML    = "yaml"
)

// Write encodes out in the named format; an empty format means Tellico XML.
func Write(format string, out Output, w io.Writer) error {
	switch format {
	case "", OutputTellico:
		return tellico.Write(w, out.Games, tellico.Options{Artists: out.Artists})
	case OutputJSON:
		return FormatJSON(out, w)
	case OutputYAML:
		return FormatYAML(out, w)
	}
	return fmt.Errorf("unknown output format %q (want tellico, json, or yaml)", format)
}

// FormatJSON writes the records as indented JSON.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FormatYAML writes the records as YAML.
func FormatYAML(out Output, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
