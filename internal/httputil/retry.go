// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the request helpers used for every upstream call.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// NewRequest builds a GET request carrying the configured User-Agent and,
// when an API key is set, a bearer Authorization header.
func NewRequest(ctx context.Context, url string, cfg types.HTTPConfig) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}
	return req, nil
}

// retryable reports whether the upstream asked us to come back later:
// 429 when rate limited, 202 when the request was queued for processing.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusAccepted
}

// DoWithRetry executes req and retries while the server answers 429 or 202.
// The delay starts at RetryBaseDelay and doubles each attempt.
//
// When maxRetries is 0 the default (5) is used. The body of each retried
// response is drained and closed before sleeping. If the context is
// cancelled during a wait the function returns ctx.Err(). After exhausting
// retries the last response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// Get is NewRequest followed by DoWithRetry.
func Get(ctx context.Context, client *http.Client, url string, cfg types.HTTPConfig) (*http.Response, error) {
	req, err := NewRequest(ctx, url, cfg)
	if err != nil {
		return nil, err
	}
	return DoWithRetry(ctx, client, req, cfg.MaxRetries)
}
