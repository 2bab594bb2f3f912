// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetcher

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes a batch as a human-readable table to w.
func FormatTable(res Result, w io.Writer) {
	if len(res.Items) == 0 {
		fmt.Fprintln(w, "No artworks found.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-44s  %-24s  %-14s  %s\n",
		"ID", "Title", "Artist", "Date", "Medium")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, item := range res.Items {
		fmt.Fprintf(w, "%-8d  %-44s  %-24s  %-14s  %s\n",
			item.ID,
			truncate(item.Title, 44),
			truncate(item.Artist, 24),
			truncate(item.Date, 14),
			truncate(item.Medium, 24))
	}

	fmt.Fprintf(w, "\n%d of %d artworks", len(res.Items), res.Requested)
	if res.Partial() {
		fmt.Fprintf(w, " (partial batch after %d rounds, %d candidates dropped)",
			res.Rounds, res.Dropped)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the batch items as indented JSON to w.
func FormatJSON(res Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Items)
}

// truncate shortens s to max display runes. Titles and artist names are
// frequently non-ASCII, so byte slicing would split a rune mid-sequence.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
