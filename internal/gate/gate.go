// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gate bounds perceived startup latency: a batch is held back only
// until enough of its images are known displayable, never longer than a
// fixed timeout.
package gate

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/gallery-engine/pkg/types"
)

const (
	defaultTimeout = 5 * time.Second

	// preloadReadLimit bounds how much of an image body a preload pulls.
	// Reaching the CDN and seeing 2xx is the readiness signal; the full
	// bytes are the display layer's problem.
	preloadReadLimit = 32 * 1024
)

// Preloader checks whether one image URL is displayable. Implementations
// report ok or not ok; a preload never errors.
type Preloader interface {
	Preload(ctx context.Context, url string) bool
}

// HTTPPreloader verifies an image by fetching a bounded prefix of it.
type HTTPPreloader struct {
	Client    *http.Client
	UserAgent string
}

// Preload reports whether url answered 2xx.
func (p *HTTPPreloader) Preload(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}
	io.CopyN(io.Discard, resp.Body, preloadReadLimit)
	return true
}

// AwaitReady preloads the primary image of every item concurrently and
// returns the number of ready images once any of these happens, whichever
// first: minReady preloads came back ok, the timeout elapsed, every preload
// settled, or ctx was cancelled. There is no failure mode; a batch whose
// images never load simply proceeds at the timeout.
//
// Preloads that lose the race are not cancelled. They settle in the
// background and do not affect the returned count.
func AwaitReady(ctx context.Context, p Preloader, items types.Batch, minReady int, timeout time.Duration) int {
	if len(items) == 0 {
		return 0
	}
	if minReady <= 0 {
		minReady = (len(items) + 1) / 2
	}
	if minReady > len(items) {
		minReady = len(items)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	results := make(chan bool, len(items))
	for _, item := range items {
		go func(url string) {
			results <- p.Preload(ctx, url)
		}(item.Image)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	ready, settled := 0, 0
	for {
		select {
		case ok := <-results:
			settled++
			if ok {
				ready++
			}
			if ready >= minReady || settled == len(items) {
				return ready
			}
		case <-timer.C:
			return ready
		case <-ctx.Done():
			return ready
		}
	}
}
