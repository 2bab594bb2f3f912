// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gallery-engine/internal/cache"
	"github.com/pdiddy/gallery-engine/pkg/types"
)

// museumServer fakes the collection API plus the image CDN. While slow is
// set, object lookups block until the request is cancelled.
type museumServer struct {
	*httptest.Server
	searchCalls int32
	objectCalls int32
	slow        int32
}

func newMuseumServer(t *testing.T, ids []int) *museumServer {
	t.Helper()
	ms := &museumServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ms.searchCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		fmt.Fprintf(w, `{"total": %d, "objectIDs": [%s]}`, len(ids), strings.Join(parts, ","))
	})
	mux.HandleFunc("/objects/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ms.objectCalls, 1)
		if atomic.LoadInt32(&ms.slow) == 1 {
			<-r.Context().Done()
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/objects/")
		img := "https://" + r.Host + "/img/" + id + ".jpg"
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"objectID": %s, "title": "Artwork %s", "primaryImageSmall": %q, "primaryImage": %q}`,
			id, id, img, img)
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpegbytes"))
	})

	ms.Server = httptest.NewTLSServer(mux)
	t.Cleanup(ms.Close)
	return ms
}

func testGalleryConfig(baseURL string) types.GalleryConfig {
	return types.GalleryConfig{
		Museum: types.MuseumConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   5 * time.Second,
				UserAgent: "gallery-engine/test",
			},
			BaseURL:        baseURL,
			Query:          "test",
			MaxRetries:     1,
			RetryBaseDelay: time.Millisecond,
		},
		Fetch:    types.FetchConfig{BatchSize: 2, Concurrency: 4, MaxRounds: 3},
		Gate:     types.GateConfig{MinReady: 1, Timeout: 500 * time.Millisecond},
		Prefetch: types.PrefetchConfig{TargetBatches: 1},
	}
}

func noopCache(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open("", time.Hour)
	require.NoError(t, err)
	return s
}

func TestNext_ServesABatch(t *testing.T) {
	ms := newMuseumServer(t, []int{1, 2, 3, 4, 5, 6})
	s := New(testGalleryConfig(ms.URL), ms.Client(), noopCache(t), nil, io.Discard)
	defer s.Close()

	res, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	for _, item := range res.Items {
		assert.NotEmpty(t, item.Images)
		assert.Equal(t, item.Images[0], item.Image)
	}
}

func TestNext_NewLoadCancelsPriorLoad(t *testing.T) {
	ms := newMuseumServer(t, []int{1, 2, 3, 4, 5, 6})
	s := New(testGalleryConfig(ms.URL), ms.Client(), noopCache(t), nil, io.Discard)
	defer s.Close()

	atomic.StoreInt32(&ms.slow, 1)

	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Next(context.Background())
		firstErr <- err
	}()

	// Let the first load reach its blocked object lookups.
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&ms.objectCalls) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.NotZero(t, atomic.LoadInt32(&ms.objectCalls), "first load never started")

	atomic.StoreInt32(&ms.slow, 0)

	// The newer load supersedes the older one.
	res, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	select {
	case err := <-firstErr:
		// The abandoned load fails with a cancellation error and produces
		// no render; it must not masquerade as a real failure.
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded load never returned")
	}
}

func TestStart_ServesFreshCacheWithoutNetwork(t *testing.T) {
	ms := newMuseumServer(t, []int{1, 2, 3})

	cacheStore, err := cache.Open(t.TempDir(), time.Hour)
	require.NoError(t, err)
	defer cacheStore.Close()

	cached := types.Batch{{ID: 42, Title: "Cached", Image: "x", Images: []string{"x"}}}
	require.NoError(t, cacheStore.SaveBatch(cached))

	s := New(testGalleryConfig(ms.URL), ms.Client(), cacheStore, nil, io.Discard)
	defer s.Close()

	res, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, res.Items)
}

func TestNext_RefillsBuffer(t *testing.T) {
	ms := newMuseumServer(t, []int{1, 2, 3, 4, 5, 6, 7, 8})
	s := New(testGalleryConfig(ms.URL), ms.Client(), noopCache(t), nil, io.Discard)
	defer s.Close()

	_, err := s.Next(context.Background())
	require.NoError(t, err)

	deadline := time.Now().Add(3 * time.Second)
	for s.Buffer().Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 1, s.Buffer().Len())

	// The prefetched batch is served instantly.
	res, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestNext_EmptyPoolSurfacesError(t *testing.T) {
	ms := newMuseumServer(t, nil)
	s := New(testGalleryConfig(ms.URL), ms.Client(), noopCache(t), nil, io.Discard)
	defer s.Close()

	_, err := s.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ms.searchCalls))
}
