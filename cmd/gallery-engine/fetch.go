// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gallery-engine/internal/fetcher"
	"github.com/pdiddy/gallery-engine/internal/history"
	"github.com/pdiddy/gallery-engine/internal/museum"
	"github.com/pdiddy/gallery-engine/internal/pool"
	"github.com/pdiddy/gallery-engine/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one batch of artworks",
	Long: `Fetch samples the id pool, retrieves detail records, and prints one
display-ready batch. The batch is persisted to the local cache and recorded
in the viewing history.

Use --save to also write a per-artwork YAML snapshot under the data
directory.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("count", 0, "batch size (default 12)")
	fetchCmd.Flags().Bool("json", false, "output the batch as JSON")
	fetchCmd.Flags().Bool("save", false, "write per-artwork YAML snapshots")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := galleryConfig(cmd)
	count, _ := cmd.Flags().GetInt("count")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")

	client := museum.NewClient(httpClient(cfg), cfg.Museum)
	f := fetcher.New(pool.New(client), client, cfg.Fetch)

	res, err := f.FetchBatch(context.Background(), count, os.Stderr)
	if err != nil {
		return fmt.Errorf("could not load artworks: %w", err)
	}

	persistBatch(cfg, res.Items)

	if save {
		dir, err := saveSnapshots(cfg, res.Items)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d snapshot(s) to %s\n", len(res.Items), dir)
	}

	if jsonOutput {
		return fetcher.FormatJSON(res, os.Stdout)
	}
	fetcher.FormatTable(res, os.Stdout)
	return nil
}

// persistBatch updates the cache and the history store. Failures degrade to
// warnings; a served batch is never lost to local I/O.
func persistBatch(cfg types.GalleryConfig, items types.Batch) {
	store := openCache(cfg)
	defer store.Close()
	if err := store.SaveBatch(items); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache save failed: %v\n", err)
	}

	hist, err := history.NewStore(cfg.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer hist.Close()
	if err := hist.Record(context.Background(), items); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history record failed: %v\n", err)
	}
}

// saveSnapshots writes one YAML file per artwork under <data-dir>/snapshots.
func saveSnapshots(cfg types.GalleryConfig, items types.Batch) (string, error) {
	dir := filepath.Join(filepath.Dir(cfg.Cache.Dir), "snapshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	for _, item := range items {
		data, err := yaml.Marshal(item)
		if err != nil {
			return "", fmt.Errorf("marshaling artwork %d: %w", item.ID, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%d.yaml", item.ID))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("writing snapshot %s: %w", path, err)
		}
	}
	return dir, nil
}
