// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package museum

import (
	"fmt"
	"strings"

	"github.com/pdiddy/gallery-engine/pkg/types"
)

// ItemFromObject normalizes a collection record into a displayable artwork.
// The second return value is false when the record yields no resolvable
// image; such records are dropped, never displayed.
//
// Image candidates are ordered for sequential fallback: the small primary
// image first, then "large"-tagged additional variants, then the full
// primary image, then the remaining additional images. The list is
// de-duplicated and https-normalized, so Image == Images[0] always holds.
func ItemFromObject(rec *ObjectRecord) (types.ArtworkItem, bool) {
	images := imageCandidates(rec)
	if len(images) == 0 {
		return types.ArtworkItem{}, false
	}

	objectURL := rec.ObjectURL
	if objectURL == "" {
		objectURL = fmt.Sprintf("%s/%d", objectPageBase, rec.ObjectID)
	}

	return types.ArtworkItem{
		ID:             rec.ObjectID,
		Title:          orFallback(rec.Title, types.FallbackTitle),
		Artist:         orFallback(rec.ArtistDisplayName, types.FallbackArtist),
		Date:           orFallback(rec.ObjectDate, types.FallbackDate),
		Medium:         orFallback(rec.Medium, types.FallbackMedium),
		Culture:        orFallback(rec.Culture, types.FallbackCulture),
		CreditLine:     strings.TrimSpace(rec.CreditLine),
		Classification: strings.TrimSpace(rec.Classification),
		Department:     strings.TrimSpace(rec.Department),
		Period:         strings.TrimSpace(rec.Period),
		Image:          images[0],
		Images:         images,
		ObjectURL:      objectURL,
	}, true
}

// imageCandidates builds the ordered, deduplicated fallback list.
func imageCandidates(rec *ObjectRecord) []string {
	var large, rest []string
	for _, u := range rec.AdditionalImages {
		if strings.Contains(strings.ToLower(u), "large") {
			large = append(large, u)
		} else {
			rest = append(rest, u)
		}
	}

	ordered := make([]string, 0, len(rec.AdditionalImages)+2)
	ordered = append(ordered, rec.PrimaryImageSmall)
	ordered = append(ordered, large...)
	ordered = append(ordered, rec.PrimaryImage)
	ordered = append(ordered, rest...)

	seen := make(map[string]struct{}, len(ordered))
	var out []string
	for _, u := range ordered {
		u = secureURL(strings.TrimSpace(u))
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// secureURL rewrites plain-http image links to https. The image CDN serves
// both schemes but mixed-scheme links break embedding.
func secureURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

func orFallback(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}
