// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gallery-engine/internal/fetcher"
	"github.com/pdiddy/gallery-engine/internal/history"
	"github.com/pdiddy/gallery-engine/internal/session"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse artwork batches interactively",
	Long: `Browse starts a gallery session and serves batches in a read loop.
The first batch comes from the local cache when it is still fresh; behind the
scenes a prefetch buffer keeps the next batches ready, so stepping forward is
usually instant.

Press enter for the next batch, q to quit.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().Int("count", 0, "batch size (default 12)")

	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg := galleryConfig(cmd)
	if count, _ := cmd.Flags().GetInt("count"); count > 0 {
		cfg.Fetch.BatchSize = count
	}

	store := openCache(cfg)
	defer store.Close()

	hist, err := history.NewStore(cfg.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		hist = nil
	}
	if hist != nil {
		defer hist.Close()
	}

	s := session.New(cfg, httpClient(cfg), store, hist, os.Stderr)
	defer s.Close()

	res, err := s.Start(context.Background())
	if err != nil {
		return fmt.Errorf("could not load artworks: %w", err)
	}
	fetcher.FormatTable(res, os.Stdout)

	fmt.Fprint(os.Stdout, "\n[enter] next batch  [q] quit > ")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			break
		}

		res, err := s.Next(context.Background())
		if err != nil {
			return fmt.Errorf("could not load artworks: %w", err)
		}
		fetcher.FormatTable(res, os.Stdout)
		fmt.Fprint(os.Stdout, "\n[enter] next batch  [q] quit > ")
	}
	return scanner.Err()
}
