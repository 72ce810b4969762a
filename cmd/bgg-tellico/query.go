// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bgg-tellico/internal/fetch"
)

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, closeSrc := openSource(cmd, cfg, os.Stderr)
	defer closeSrc()

	var out fetch.Output
	if ids, _ := cmd.Flags().GetStringSlice("id"); len(ids) > 0 {
		out, err = fetch.RunIDs(cmd.Context(), ids, src, cfg.Fetch, os.Stderr)
	} else {
		out, err = fetch.Run(cmd.Context(), args[0], src, cfg.Fetch, os.Stderr)
	}
	if err != nil {
		return err
	}
	if cfg.Fetch.Verbose {
		fmt.Fprintf(os.Stderr, "%d game(s), %d cover(s) embedded, %d skipped\n",
			len(out.Games), out.CoversFetched, out.CoversSkipped)
	}

	w := bufio.NewWriter(os.Stdout)
	if err := fetch.Write(viper.GetString("format"), out, w); err != nil {
		return err
	}
	return w.Flush()
}
