// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bgg-tellico/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local response cache",
	Long: `Cache manages the SQLite database that keeps search hits, game records,
and cover images between runs. Entries older than the configured TTL are
refetched on the next query and removed by prune.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached row counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return printStructured(cmd, os.Stdout, st, func(w io.Writer) {
			fmt.Fprintf(w, "Searches:    %d\n", st.Searches)
			fmt.Fprintf(w, "Games:       %d\n", st.Games)
			fmt.Fprintf(w, "Covers:      %d (%d bytes)\n", st.Covers, st.CoverBytes)
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Cache cleared.")
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete entries older than the TTL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Prune(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Pruned %d entries.\n", n)
		return nil
	},
}

var cacheHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return printStructured(cmd, os.Stdout, records, func(w io.Writer) {
			cache.FormatHistory(records, w)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{cacheStatsCmd, cacheHistoryCmd} {
		c.Flags().Bool("json", false, "output as JSON")
		c.Flags().Bool("yaml", false, "output as YAML")
	}
	cacheHistoryCmd.Flags().Int("limit", 20, "number of searches to list")

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cachePruneCmd, cacheHistoryCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openStore() (*cache.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.Open(cfg.Cache)
}

// printStructured writes v as JSON or YAML when the matching flag is set,
// and falls back to the human-readable form otherwise.
func printStructured(cmd *cobra.Command, w io.Writer, v any, human func(io.Writer)) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	switch {
	case asJSON && asYAML:
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case asYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	human(w)
	return nil
}
