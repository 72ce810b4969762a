// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/bgg-tellico/internal/fetch"
	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// Cached serves fetch.Source calls from the Store and falls through to
// Upstream on a miss. Cache read or write failures are reported on Log
// and never fail the call.
type Cached struct {
	Store    *Store
	Upstream fetch.Source

	// Variant separates searches and records whose contents depend on
	// settings; build it with the Variant function.
	Variant string

	Log io.Writer
}

var _ fetch.Source = (*Cached)(nil)

func (c *Cached) warnf(format string, args ...any) {
	if c.Log != nil {
		fmt.Fprintf(c.Log, "warning: cache: "+format+"\n", args...)
	}
}

// Search returns cached ids for query when fresh.
func (c *Cached) Search(ctx context.Context, query string) ([]string, error) {
	ids, ok, err := c.Store.LookupSearch(ctx, query, c.Variant)
	if err != nil {
		c.warnf("%v", err)
	}
	if ok {
		return ids, nil
	}

	ids, err = c.Upstream.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if _, err := c.Store.SaveSearch(ctx, query, c.Variant, ids); err != nil {
		c.warnf("%v", err)
	}
	return ids, nil
}

// Details asks Upstream only for ids without a fresh record. Records
// always come back in the order of ids, whether they were cached or not;
// upstream records for ids that were not requested follow at the end.
func (c *Cached) Details(ctx context.Context, ids []string) ([]types.Game, error) {
	hits, err := c.Store.LookupGames(ctx, c.Variant, ids)
	if err != nil {
		c.warnf("%v", err)
		hits = map[string]types.Game{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := hits[id]; !ok {
			missing = append(missing, id)
		}
	}

	var fetched []types.Game
	if len(missing) > 0 {
		fetched, err = c.Upstream.Details(ctx, missing)
		if err != nil {
			return nil, err
		}
		if err := c.Store.SaveGames(ctx, c.Variant, fetched); err != nil {
			c.warnf("%v", err)
		}
	}

	games := fetched
	for _, id := range ids {
		if g, ok := hits[id]; ok {
			games = append(games, g)
		}
	}
	return fetch.OrderByIDs(ids, games), nil
}

// FetchImage returns cached cover bytes for url when fresh.
func (c *Cached) FetchImage(ctx context.Context, url string) ([]byte, error) {
	data, ok, err := c.Store.LookupCover(ctx, url)
	if err != nil {
		c.warnf("%v", err)
	}
	if ok {
		return data, nil
	}

	data, err = c.Upstream.FetchImage(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := c.Store.SaveCover(ctx, url, data); err != nil {
		c.warnf("%v", err)
	}
	return data, nil
}
