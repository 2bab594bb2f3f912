// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gallery-engine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the served-artwork history",
	Long: `History lists the artworks this gallery has served, newest first.
Use --search for fuzzy matching on title and artist, or --export to dump
the full history as YAML.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("search", "", "fuzzy search term over title and artist")
	historyCmd.Flags().Int("limit", 0, "maximum rows to list (0 = default)")
	historyCmd.Flags().Bool("export", false, "write the full history as YAML to stdout")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := galleryConfig(cmd)
	term, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")
	export, _ := cmd.Flags().GetBool("export")

	if limit > 0 {
		cfg.History.MaxResults = limit
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	if export {
		return store.Export(ctx, os.Stdout)
	}

	var entries []history.Entry
	if term != "" {
		entries, err = store.Search(ctx, term)
	} else {
		entries, err = store.Recent(ctx, cfg.History.MaxResults)
	}
	if err != nil {
		return err
	}

	formatHistory(entries)
	return nil
}

func formatHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No history yet.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-40s  %-24s  %-16s  %s\n",
		"ID", "Title", "Artist", "Last Seen", "Seen")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-8d  %-40s  %-24s  %-16s  %d\n",
			e.Item.ID, truncate(e.Item.Title, 40), truncate(e.Item.Artist, 24),
			e.LastSeen.Format("2006-01-02 15:04"), e.SeenCount)
	}

	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
}

// truncate shortens s to max display runes without splitting a multibyte
// character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
