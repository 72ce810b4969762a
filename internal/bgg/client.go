// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bgg talks to the BoardGameGeek xmlapi: a name search that yields
// object ids, a batch detail call that yields game records, and plain image
// downloads for cover links.
package bgg

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/bgg-tellico/internal/httputil"
	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// DefaultBaseURL is the xmlapi root used when the config leaves it empty.
const DefaultBaseURL = "https://boardgamegeek.com/xmlapi"

// DefaultUserAgent identifies the plugin to the upstream.
const DefaultUserAgent = "BoardGameGeek plugin for Tellico"

// Client queries the xmlapi. The zero value is not usable; HTTP must be set.
type Client struct {
	HTTP   *http.Client
	Config types.FetchConfig

	// Log receives warnings; nil discards them.
	Log io.Writer
}

// NewClient returns a Client whose HTTP timeout comes from cfg.
func NewClient(cfg types.FetchConfig, log io.Writer) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
		Log:    log,
	}
}

func (c *Client) baseURL() string {
	if c.Config.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.Config.BaseURL, "/")
}

func (c *Client) httpConfig() types.HTTPConfig {
	h := c.Config.HTTPConfig
	if h.UserAgent == "" {
		h.UserAgent = DefaultUserAgent
	}
	return h
}

func (c *Client) warnf(format string, args ...any) {
	if c.Log == nil {
		return
	}
	fmt.Fprintf(c.Log, "warning: "+format+"\n", args...)
}

// Search looks games up by name and returns their object ids sorted in
// ascending numeric order. With Exact set only exact title matches are
// returned. MaxResults, when positive, truncates the sorted list.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	reqURL := c.baseURL() + "/search?search=" + url.QueryEscape(query)
	if c.Config.Exact {
		reqURL += "&exact=1"
	}

	resp, err := httputil.Get(ctx, c.HTTP, reqURL, c.httpConfig())
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	var doc searchDoc
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	if msg, ok := doc.upstreamError(); ok {
		return nil, fmt.Errorf("search rejected upstream: %s", msg)
	}

	return sortedIDs(doc.Games, c.Config.MaxResults)
}

// sortedIDs orders the search hits by numeric object id. A non-numeric id
// is an error.
func sortedIDs(hits []searchHit, max int) ([]string, error) {
	type keyed struct {
		n  int
		id string
	}
	keys := make([]keyed, 0, len(hits))
	for _, h := range hits {
		id := strings.TrimSpace(h.ObjectID)
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("invalid object id %q in search response", h.ObjectID)
		}
		keys = append(keys, keyed{n: n, id: id})
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].n < keys[j].n })

	if max > 0 && len(keys) > max {
		keys = keys[:max]
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = k.id
	}
	return ids, nil
}

// Details fetches the full records for ids in one request. A non-200
// response yields an empty result set rather than an error. Records
// without a name are dropped; the rest keep the upstream order.
func (c *Client) Details(ctx context.Context, ids []string) ([]types.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	reqURL := c.baseURL() + "/boardgame/" + strings.Join(ids, ",")

	resp, err := httputil.Get(ctx, c.HTTP, reqURL, c.httpConfig())
	if err != nil {
		return nil, fmt.Errorf("detail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warnf("detail request returned HTTP %d", resp.StatusCode)
		return nil, nil
	}

	var doc detailDoc
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing detail response: %w", err)
	}
	if msg, ok := doc.upstreamError(); ok {
		c.warnf("detail request rejected upstream: %s", msg)
		return nil, nil
	}

	games := make([]types.Game, 0, len(doc.Games))
	for _, dg := range doc.Games {
		g, ok, err := dg.toGame(c.Config.HTMLDescription)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", dg.ObjectID, err)
		}
		if ok {
			games = append(games, g)
		}
	}
	return games, nil
}

// FetchImage downloads an image. Any non-200 status is an error.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	resp, err := httputil.Get(ctx, c.HTTP, imageURL, c.httpConfig())
	if err != nil {
		return nil, fmt.Errorf("image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image returned HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}
