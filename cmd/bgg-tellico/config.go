// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bgg-tellico/internal/bgg"
	"github.com/pdiddy/bgg-tellico/internal/cache"
	"github.com/pdiddy/bgg-tellico/internal/fetch"
	"github.com/pdiddy/bgg-tellico/internal/secrets"
	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// setDefaults registers every key so file, environment, and flag values
// all reach viper.Unmarshal.
func setDefaults() {
	viper.SetDefault("format", fetch.OutputTellico)

	viper.SetDefault("fetch.base_url", bgg.DefaultBaseURL)
	viper.SetDefault("fetch.user_agent", bgg.DefaultUserAgent+" "+version)
	viper.SetDefault("fetch.api_key", "")
	viper.SetDefault("fetch.timeout", 60*time.Second)
	viper.SetDefault("fetch.max_retries", 5)
	viper.SetDefault("fetch.max_results", 0)
	viper.SetDefault("fetch.exact", false)
	viper.SetDefault("fetch.artists", false)
	viper.SetDefault("fetch.image_size", string(types.ImageSmall))
	viper.SetDefault("fetch.image_hosts", bgg.DefaultImageHosts)
	viper.SetDefault("fetch.max_image_width", 0)
	viper.SetDefault("fetch.max_image_height", 0)
	viper.SetDefault("fetch.html_description", false)
	viper.SetDefault("fetch.request_delay", time.Duration(0))
	viper.SetDefault("fetch.verbose", false)

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.path", defaultCachePath())
	viper.SetDefault("cache.ttl", 24*time.Hour)

	viper.SetDefault("serve.addr", ":8080")
	viper.SetDefault("serve.allowed_origins", []string{"*"})
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".cache", "bgg-tellico", "cache.db")
	}
	return filepath.Join(dir, "bgg-tellico", "cache.db")
}

// loadConfig unmarshals viper state and resolves the API token.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	size, err := types.ParseImageSize(string(cfg.Fetch.ImageSize))
	if err != nil {
		return cfg, err
	}
	cfg.Fetch.ImageSize = size
	if cfg.Fetch.MaxResults < 0 {
		return cfg, fmt.Errorf("max results must not be negative, got %d", cfg.Fetch.MaxResults)
	}
	cfg.Fetch.APIKey = secrets.APIKey(cfg.Fetch.APIKey, loadedSecrets)
	return cfg, nil
}

// openSource builds the upstream client, wrapped in the cache unless it
// is disabled or cannot be opened. The returned close function is never nil.
func openSource(cmd *cobra.Command, cfg types.Config, log io.Writer) (fetch.Source, func()) {
	client := bgg.NewClient(cfg.Fetch, log)

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if noCache || !cfg.Cache.Enabled {
		return client, func() {}
	}

	store, err := cache.Open(cfg.Cache)
	if err != nil {
		fmt.Fprintf(log, "warning: cache disabled: %v\n", err)
		return client, func() {}
	}
	src := &cache.Cached{
		Store:    store,
		Upstream: client,
		Variant:  cache.Variant(cfg.Fetch),
		Log:      log,
	}
	return src, func() { store.Close() }
}
