// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package museum is the client for the Met collection API: the search
// endpoint that yields the candidate id universe and the object endpoint
// that yields one detail record.
package museum

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/gallery-engine/internal/httputil"
	"github.com/pdiddy/gallery-engine/pkg/types"
)

// defaultBaseURL is the public Met collection API root. Config can override
// it to route through an intermediary with the same path shapes.
const defaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

// objectPageBase builds the canonical detail-page link for records that
// carry no objectURL of their own.
const objectPageBase = "https://www.metmuseum.org/art/collection/search"

// Client queries the collection API. Every request goes through the retry
// policy; the API occasionally sheds load with transient failures.
type Client struct {
	HTTP *http.Client
	cfg  types.MuseumConfig
}

// NewClient returns a Client for cfg. A zero BaseURL means the public
// endpoint.
func NewClient(httpClient *http.Client, cfg types.MuseumConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = 250 * time.Millisecond
	}
	return &Client{HTTP: httpClient, cfg: cfg}
}

// SearchIDs fetches the object-id universe for the configured query,
// restricted to records that have images.
func (c *Client) SearchIDs(ctx context.Context) ([]int, error) {
	params := url.Values{
		"hasImages": {"true"},
		"q":         {c.cfg.Query},
	}
	reqURL := c.cfg.BaseURL + "/search?" + params.Encode()

	resp, err := httputil.WithRetry(ctx, func(ctx context.Context) (*searchResponse, error) {
		var sr searchResponse
		if err := c.fetch(ctx, reqURL, &sr); err != nil {
			return nil, err
		}
		return &sr, nil
	}, c.cfg.MaxRetries, c.cfg.RetryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("collection search: %w", err)
	}
	return resp.ObjectIDs, nil
}

// Object fetches the detail record for one object id.
func (c *Client) Object(ctx context.Context, id int) (*ObjectRecord, error) {
	reqURL := fmt.Sprintf("%s/objects/%d", c.cfg.BaseURL, id)

	rec, err := httputil.WithRetry(ctx, func(ctx context.Context) (*ObjectRecord, error) {
		var r ObjectRecord
		if err := c.fetch(ctx, reqURL, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}, c.cfg.MaxRetries, c.cfg.RetryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", id, err)
	}
	return rec, nil
}

func (c *Client) fetch(ctx context.Context, reqURL string, v any) error {
	if c.cfg.APIKey == "" {
		return httputil.FetchJSON(ctx, c.HTTP, reqURL, c.cfg.UserAgent, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	return httputil.DoJSON(c.HTTP, req, v)
}

// Collection API JSON structures.
type searchResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// ObjectRecord mirrors the collection API's object endpoint response,
// limited to the fields the gallery consumes.
type ObjectRecord struct {
	ObjectID          int      `json:"objectID"`
	Title             string   `json:"title"`
	ArtistDisplayName string   `json:"artistDisplayName"`
	ObjectDate        string   `json:"objectDate"`
	PrimaryImage      string   `json:"primaryImage"`
	PrimaryImageSmall string   `json:"primaryImageSmall"`
	AdditionalImages  []string `json:"additionalImages"`
	Medium            string   `json:"medium"`
	CreditLine        string   `json:"creditLine"`
	Classification    string   `json:"classification"`
	Department        string   `json:"department"`
	Culture           string   `json:"culture"`
	Period            string   `json:"period"`
	ObjectURL         string   `json:"objectURL"`
}
