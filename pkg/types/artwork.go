// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the gallery-engine
// pipeline: artwork records, batches, and the per-stage configuration
// structs consumed by the CLI.
package types

// Fallback display literals used when a museum record omits a field.
const (
	FallbackTitle   = "Untitled"
	FallbackArtist  = "Unknown artist"
	FallbackDate    = "Date unknown"
	FallbackMedium  = "Medium unknown"
	FallbackCulture = "Culture unknown"
)

// ArtworkItem is one displayable artwork record, normalized from a museum
// object. Every constructed item carries at least one image candidate;
// records with no resolvable image are rejected by the mapper and never
// reach display.
type ArtworkItem struct {
	// ID is the museum's object identifier, unique within a session.
	ID int `json:"id" yaml:"id"`

	// Title is the artwork title, or FallbackTitle when absent.
	Title string `json:"title" yaml:"title"`

	// Artist is the display name of the artist, or FallbackArtist.
	Artist string `json:"artist" yaml:"artist"`

	// Date is the object date string, or FallbackDate.
	Date string `json:"date" yaml:"date"`

	// Medium describes the physical medium, or FallbackMedium.
	Medium string `json:"medium" yaml:"medium"`

	// Culture names the originating culture, or FallbackCulture.
	Culture string `json:"culture" yaml:"culture"`

	// CreditLine, Classification, Department, and Period are secondary
	// detail-view strings. They carry no fallback and may be empty.
	CreditLine     string `json:"credit_line,omitempty" yaml:"credit_line,omitempty"`
	Classification string `json:"classification,omitempty" yaml:"classification,omitempty"`
	Department     string `json:"department,omitempty" yaml:"department,omitempty"`
	Period         string `json:"period,omitempty" yaml:"period,omitempty"`

	// Image is the primary display URL, always Images[0] and always
	// https-normalized.
	Image string `json:"image" yaml:"image"`

	// Images is the ordered, de-duplicated sequence of fallback candidate
	// URLs: small primary, "large"-tagged additional images, full primary,
	// then the remaining additional images. Never empty.
	Images []string `json:"images" yaml:"images"`

	// ObjectURL is the canonical museum detail-page link.
	ObjectURL string `json:"object_url" yaml:"object_url"`
}

// Batch is an ordered group of artworks produced and image-gated together.
// A batch is never mutated after construction.
type Batch []ArtworkItem
