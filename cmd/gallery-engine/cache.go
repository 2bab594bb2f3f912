// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gallery-engine/internal/fetcher"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local batch cache",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached batch if it is still fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := galleryConfig(cmd)
		store := openCache(cfg)
		defer store.Close()

		items, ok := store.LoadBatch()
		if !ok {
			fmt.Fprintln(os.Stdout, "Cache is empty or expired.")
			return nil
		}
		fetcher.FormatTable(fetcher.Result{Items: items, Requested: len(items)}, os.Stdout)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := galleryConfig(cmd)
		store := openCache(cfg)
		defer store.Close()

		if err := store.ClearBatch(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
