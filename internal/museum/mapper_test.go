// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package museum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gallery-engine/pkg/types"
)

func TestItemFromObject_CandidateOrderAndDedup(t *testing.T) {
	rec := &ObjectRecord{
		ObjectID:          10,
		Title:             "Study of Clouds",
		ArtistDisplayName: "J. Constable",
		PrimaryImage:      "https://img.example.org/original/1.jpg",
		PrimaryImageSmall: "https://img.example.org/web-large/1.jpg",
		AdditionalImages: []string{
			"https://img.example.org/web-large/2.jpg",
			"https://img.example.org/original/2.jpg",
			"https://img.example.org/web-large/1.jpg", // duplicate of small primary
		},
		ObjectURL: "https://museum.example.org/art/10",
	}

	item, ok := ItemFromObject(rec)
	require.True(t, ok)

	assert.Equal(t, []string{
		"https://img.example.org/web-large/1.jpg",
		"https://img.example.org/web-large/2.jpg",
		"https://img.example.org/original/1.jpg",
		"https://img.example.org/original/2.jpg",
	}, item.Images)
	assert.Equal(t, item.Images[0], item.Image)
}

func TestItemFromObject_HTTPSNormalization(t *testing.T) {
	rec := &ObjectRecord{
		ObjectID:          11,
		PrimaryImage:      "http://img.example.org/original/1.jpg",
		PrimaryImageSmall: "http://img.example.org/web-large/1.jpg",
	}

	item, ok := ItemFromObject(rec)
	require.True(t, ok)
	for _, u := range item.Images {
		assert.Contains(t, u, "https://")
	}
}

func TestItemFromObject_NoImageIsDropped(t *testing.T) {
	rec := &ObjectRecord{ObjectID: 12, Title: "A manuscript page"}
	_, ok := ItemFromObject(rec)
	assert.False(t, ok)
}

func TestItemFromObject_Fallbacks(t *testing.T) {
	rec := &ObjectRecord{
		ObjectID:     13,
		PrimaryImage: "https://img.example.org/original/13.jpg",
	}

	item, ok := ItemFromObject(rec)
	require.True(t, ok)
	assert.Equal(t, types.FallbackTitle, item.Title)
	assert.Equal(t, types.FallbackArtist, item.Artist)
	assert.Equal(t, types.FallbackDate, item.Date)
	assert.Equal(t, types.FallbackMedium, item.Medium)
	assert.Equal(t, types.FallbackCulture, item.Culture)
	assert.Equal(t, "https://www.metmuseum.org/art/collection/search/13", item.ObjectURL)
}

func TestItemFromObject_KeepsObjectURL(t *testing.T) {
	rec := &ObjectRecord{
		ObjectID:     14,
		PrimaryImage: "https://img.example.org/original/14.jpg",
		ObjectURL:    "https://museum.example.org/art/14",
	}

	item, ok := ItemFromObject(rec)
	require.True(t, ok)
	assert.Equal(t, "https://museum.example.org/art/14", item.ObjectURL)
}
