// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gallery-engine/internal/cache"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Get or set the persisted theme preference",
	Long: `Theme prints the persisted display preference, or sets it when an
argument is given. The preference survives across sessions alongside the
batch cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	cfg := galleryConfig(cmd)
	store := openCache(cfg)
	defer store.Close()

	if len(args) == 0 {
		theme, ok := store.Theme()
		if !ok {
			theme = cache.ThemeLight
		}
		fmt.Fprintln(os.Stdout, theme)
		return nil
	}

	if err := store.SaveTheme(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Theme set to %s.\n", args[0])
	return nil
}
