// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings for every upstream request.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with every request
	// (e.g. "BoardGameGeek plugin for Tellico 1.0").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// APIKey, when set, is sent as a bearer token.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// MaxRetries bounds retries on rate-limited or queued responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ImageSize selects which upstream cover link is fetched.
type ImageSize string

const (
	ImageNone  ImageSize = "none"
	ImageSmall ImageSize = "small"
	ImageLarge ImageSize = "large"
)

// ParseImageSize validates s; an empty string selects ImageSmall.
func ParseImageSize(s string) (ImageSize, error) {
	switch ImageSize(s) {
	case "":
		return ImageSmall, nil
	case ImageNone, ImageSmall, ImageLarge:
		return ImageSize(s), nil
	}
	return "", fmt.Errorf("unknown image size %q (want none, small, or large)", s)
}

// FetchConfig holds settings for one query pipeline run.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the xmlapi root (default "https://boardgamegeek.com/xmlapi").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Exact restricts the name search to exact title matches.
	Exact bool `json:"exact" yaml:"exact" mapstructure:"exact"`

	// MaxResults caps the number of ids passed to the detail call; 0 means no cap.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// ImageSize selects thumbnail (small), full image (large), or no cover.
	ImageSize ImageSize `json:"image_size" yaml:"image_size" mapstructure:"image_size"`

	// ImageHosts lists the hosts cover links must match before being fetched.
	ImageHosts []string `json:"image_hosts" yaml:"image_hosts" mapstructure:"image_hosts"`

	// MaxImageWidth and MaxImageHeight bound embedded covers; 0 disables the bound.
	MaxImageWidth  int `json:"max_image_width" yaml:"max_image_width" mapstructure:"max_image_width"`
	MaxImageHeight int `json:"max_image_height" yaml:"max_image_height" mapstructure:"max_image_height"`

	// Artists adds the optional artist field to the document header and
	// fills it from the upstream artist credits.
	Artists bool `json:"artists" yaml:"artists" mapstructure:"artists"`

	// HTMLDescription keeps upstream description markup instead of flattening it.
	HTMLDescription bool `json:"html_description" yaml:"html_description" mapstructure:"html_description"`

	// RequestDelay is the pause between consecutive cover downloads.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// Verbose writes progress and skipped-cover notes to the log writer.
	Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
}

// CacheConfig holds settings for the local response cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long cached searches, records, and covers stay fresh.
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// ServeConfig holds settings for the HTTP serve mode.
type ServeConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists CORS origins.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// Config groups all settings loaded from file, environment, and flags.
type Config struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Cache CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache"`
	Serve ServeConfig `json:"serve" yaml:"serve" mapstructure:"serve"`
}
