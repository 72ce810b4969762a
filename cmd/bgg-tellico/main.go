// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bgg-tellico CLI: a Tellico
// external data source that searches BoardGameGeek by name and prints a
// Tellico XML collection on stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bgg-tellico/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd runs one query and writes the collection to stdout.
var rootCmd = &cobra.Command{
	Use:   "bgg-tellico <query> | --id <bggid>",
	Short: "Search BoardGameGeek and print a Tellico collection",
	Long: `bgg-tellico searches the BoardGameGeek xmlapi for board games whose name
matches the query, fetches their details and cover images, and prints one
Tellico XML document on stdout. Tellico runs it as an external data source
with the search text as the only argument.

With --exact only exact title matches are returned. With --id the search
is skipped and the given BoardGameGeek ids are fetched directly, which is
how an existing entry is refreshed from its bggid field.

Other output formats (json, yaml) are available for scripting, and the
serve subcommand exposes the same pipeline over HTTP.`,
	Args: queryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadEnvFile(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 && viper.GetBool("fetch.verbose") {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
	RunE: runQuery,
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./bgg-tellico.yaml or ~/.config/bgg-tellico/bgg-tellico.yaml)")
	pf.Bool("verbose", false, "report progress and skipped covers on stderr")
	pf.Bool("no-cache", false, "bypass the local response cache")
	viper.BindPFlag("fetch.verbose", pf.Lookup("verbose"))

	f := rootCmd.Flags()
	f.String("format", "tellico", "output format: tellico, json, yaml")
	f.String("image-size", "small", "cover to embed: none, small, large")
	f.Int("max-results", 0, "maximum number of games to fetch (0 = no limit)")
	f.Bool("html-description", false, "keep description markup instead of plain text")
	f.Bool("exact", false, "match the title exactly instead of by keyword")
	f.Bool("artist", false, "add the optional artist field")
	f.StringSlice("id", nil, "fetch these BoardGameGeek ids instead of searching (repeatable or comma-separated)")
	viper.BindPFlag("format", f.Lookup("format"))
	viper.BindPFlag("fetch.image_size", f.Lookup("image-size"))
	viper.BindPFlag("fetch.max_results", f.Lookup("max-results"))
	viper.BindPFlag("fetch.html_description", f.Lookup("html-description"))
	viper.BindPFlag("fetch.exact", f.Lookup("exact"))
	viper.BindPFlag("fetch.artists", f.Lookup("artist"))
}

// queryArgs requires exactly one query, or none when --id is given.
func queryArgs(cmd *cobra.Command, args []string) error {
	ids, _ := cmd.Flags().GetStringSlice("id")
	if len(ids) > 0 {
		if len(args) > 0 {
			return fmt.Errorf("--id and a query are mutually exclusive")
		}
		return nil
	}
	return cobra.ExactArgs(1)(cmd, args)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bgg-tellico")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bgg-tellico"))
		}
	}

	viper.SetEnvPrefix("BGG_TELLICO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("fetch.verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
