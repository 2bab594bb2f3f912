// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gallery-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{Dir: t.TempDir(), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func batchOf(items ...types.ArtworkItem) types.Batch {
	return types.Batch(items)
}

func art(id int, title, artist string) types.ArtworkItem {
	return types.ArtworkItem{
		ID:     id,
		Title:  title,
		Artist: artist,
		Image:  "https://img.example.org/web-large/a.jpg",
		Images: []string{"https://img.example.org/web-large/a.jpg"},
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Record(ctx, batchOf(
		art(1, "Irises", "Vincent van Gogh"),
		art(2, "Water Lilies", "Claude Monet"),
	))
	require.NoError(t, err)

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, 1, e.SeenCount)
		assert.False(t, e.FirstSeen.IsZero())
	}
}

func TestRecord_RepeatBumpsSeenCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := art(7, "The Gulf Stream", "Winslow Homer")
	require.NoError(t, s.Record(ctx, batchOf(item)))
	require.NoError(t, s.Record(ctx, batchOf(item)))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].SeenCount)
	assert.Equal(t, "The Gulf Stream", entries[0].Item.Title)
}

func TestRecent_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, batchOf(
		art(1, "One", "A"), art(2, "Two", "B"), art(3, "Three", "C"),
	)))

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSearch_FuzzyMatchesTitleAndArtist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, batchOf(
		art(1, "Wheat Field with Cypresses", "Vincent van Gogh"),
		art(2, "The Dance Class", "Edgar Degas"),
	)))

	byTitle, err := s.Search(ctx, "cypresses")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, 1, byTitle[0].Item.ID)

	byArtist, err := s.Search(ctx, "degas")
	require.NoError(t, err)
	require.Len(t, byArtist, 1)
	assert.Equal(t, 2, byArtist[0].Item.ID)

	none, err := s.Search(ctx, "vermeer")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExport_YAML(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, batchOf(art(1, "Irises", "Vincent van Gogh"))))

	var buf bytes.Buffer
	require.NoError(t, s.Export(ctx, &buf))
	assert.Contains(t, buf.String(), "Irises")
	assert.Contains(t, buf.String(), "seen_count: 1")
}

func TestRecord_EmptyBatchIsNoOp(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Record(context.Background(), nil))
}
