// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gallery-engine/internal/museum"
	"github.com/pdiddy/gallery-engine/internal/pool"
)

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "Inspect the artwork id pool",
	Long: `Ids loads the id pool for the configured query and prints its size.
Use --sample to draw a random handful of ids, or --refresh to note that the
pool is rebuilt per invocation (the pool lives for one process).`,
	RunE: runIDs,
}

func init() {
	idsCmd.Flags().Int("sample", 0, "print n randomly sampled ids")
	idsCmd.Flags().Bool("refresh", false, "invalidate and re-run the search before reporting")

	rootCmd.AddCommand(idsCmd)
}

func runIDs(cmd *cobra.Command, args []string) error {
	cfg := galleryConfig(cmd)
	sampleN, _ := cmd.Flags().GetInt("sample")
	refresh, _ := cmd.Flags().GetBool("refresh")

	client := museum.NewClient(httpClient(cfg), cfg.Museum)
	p := pool.New(client)

	ids, err := p.IDs(context.Background())
	if err != nil {
		return fmt.Errorf("could not load id pool: %w", err)
	}

	if refresh {
		p.Invalidate()
		ids, err = p.IDs(context.Background())
		if err != nil {
			return fmt.Errorf("could not refresh id pool: %w", err)
		}
	}

	fmt.Fprintf(os.Stdout, "%d artwork ids for query %q\n", len(ids), cfg.Museum.Query)

	if sampleN > 0 {
		sampled := p.Sample(ids, sampleN, nil)
		fmt.Fprintf(os.Stdout, "sample: %v\n", sampled)
	}
	return nil
}
