// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package museum

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gallery-engine/internal/httputil"
	"github.com/pdiddy/gallery-engine/pkg/types"
)

const sampleObjectJSON = `{
  "objectID": 436535,
  "title": "Wheat Field with Cypresses",
  "artistDisplayName": "Vincent van Gogh",
  "objectDate": "1889",
  "primaryImage": "https://images.example.org/original/DT1567.jpg",
  "primaryImageSmall": "https://images.example.org/web-large/DT1567.jpg",
  "additionalImages": [],
  "medium": "Oil on canvas",
  "creditLine": "Purchase, 1993",
  "classification": "Paintings",
  "department": "European Paintings",
  "culture": "",
  "period": "",
  "objectURL": "https://www.metmuseum.org/art/collection/search/436535"
}`

func testConfig(baseURL string) types.MuseumConfig {
	return types.MuseumConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "gallery-engine/test",
		},
		BaseURL:        baseURL,
		Query:          "sunflowers",
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
	}
}

func TestSearchIDs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("hasImages"))
		assert.Equal(t, "sunflowers", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total": 3, "objectIDs": [1, 2, 3]}`)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), testConfig(ts.URL))
	ids, err := c.SearchIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestObject(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/objects/436535", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleObjectJSON)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), testConfig(ts.URL))
	rec, err := c.Object(context.Background(), 436535)
	require.NoError(t, err)
	assert.Equal(t, 436535, rec.ObjectID)
	assert.Equal(t, "Vincent van Gogh", rec.ArtistDisplayName)
	assert.Equal(t, "Oil on canvas", rec.Medium)
}

func TestObject_RetriesTransientFailures(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleObjectJSON)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), testConfig(ts.URL))
	rec, err := c.Object(context.Background(), 436535)
	require.NoError(t, err)
	assert.Equal(t, 436535, rec.ObjectID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestObject_ExhaustedRetriesSurfaceStatus(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), testConfig(ts.URL))
	_, err := c.Object(context.Background(), 1)

	var statusErr *httputil.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	// 1 initial + 2 retries.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_SendsAPIKeyWhenConfigured(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sekrit", r.Header.Get("X-Api-Key"))
		// The gateway path sends the same headers as the direct one.
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total": 0, "objectIDs": []}`)
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.APIKey = "sekrit"
	c := NewClient(ts.Client(), cfg)
	_, err := c.SearchIDs(context.Background())
	require.NoError(t, err)
}
