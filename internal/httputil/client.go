// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the single-attempt JSON fetch and the retry
// policy shared by stages that talk to the collection API.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// StatusError reports a non-2xx response from a single request attempt.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// TransportError reports a connection-level failure before any HTTP status
// was received.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Cancelled reports whether err stems from a cancelled or expired context.
// Superseded requests fail this way; callers abandon them without surfacing
// an error to the user. A *TransportError is never cancellation, even when
// the underlying failure is a client-level timeout whose error text matches
// context.DeadlineExceeded.
func Cancelled(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// FetchJSON performs one GET request and decodes the response body into v.
// It does no retrying. Non-2xx responses yield a *StatusError, connection
// failures a *TransportError, and a cancelled ctx surfaces as the context's
// error (detectable via Cancelled).
func FetchJSON(ctx context.Context, client *http.Client, url, userAgent string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	return DoJSON(client, req, v)
}

// DoJSON executes a prebuilt request and decodes the JSON response into v,
// with the same single-attempt classification as FetchJSON. Callers that
// need extra headers build the request themselves and come through here.
func DoJSON(client *http.Client, req *http.Request, v any) error {
	resp, err := client.Do(req)
	if err != nil {
		// Only the request's own context decides cancellation. A
		// client-level timeout also matches context.DeadlineExceeded but
		// leaves the context live; that is a transport failure.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return &TransportError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL, err)
	}
	return nil
}
