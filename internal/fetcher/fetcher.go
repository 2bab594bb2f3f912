// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetcher assembles display-ready artwork batches: it samples
// candidate ids, fetches detail records under a concurrency cap, and
// normalizes survivors into artworks.
package fetcher

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/gallery-engine/internal/httputil"
	"github.com/pdiddy/gallery-engine/internal/museum"
	"github.com/pdiddy/gallery-engine/internal/pool"
	"github.com/pdiddy/gallery-engine/pkg/types"
)

const (
	defaultBatchSize   = 12
	defaultConcurrency = 10
	defaultMaxRounds   = 3

	// Oversampling bounds. The raw id universe mixes text, video, and
	// other imageless records, so each round requests far more candidates
	// than the batch needs rather than serializing lookups.
	oversampleFactor = 10
	oversampleFloor  = 60
	oversampleCap    = 100
)

// ObjectClient fetches one detail record. Implemented by the museum client.
type ObjectClient interface {
	Object(ctx context.Context, id int) (*museum.ObjectRecord, error)
}

// Result holds one assembled batch and its assembly statistics. A batch
// that came up short after the round budget is still a success; Partial
// distinguishes it from a full one.
type Result struct {
	// Items is the assembled batch, length <= Requested.
	Items types.Batch

	// Requested is the batch size that was asked for.
	Requested int

	// Rounds is the number of sampling rounds used.
	Rounds int

	// Dropped counts candidates lost to fetch failures or missing images.
	Dropped int
}

// Partial reports whether the round budget ran out before the batch filled.
func (r Result) Partial() bool {
	return len(r.Items) < r.Requested
}

// Fetcher builds batches from a shared id pool and an object client.
type Fetcher struct {
	pool    *pool.Pool
	objects ObjectClient
	cfg     types.FetchConfig
}

// New returns a Fetcher. Zero config fields take defaults.
func New(p *pool.Pool, objects ObjectClient, cfg types.FetchConfig) *Fetcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = defaultMaxRounds
	}
	return &Fetcher{pool: p, objects: objects, cfg: cfg}
}

// BatchSize returns the configured default batch size.
func (f *Fetcher) BatchSize() int { return f.cfg.BatchSize }

// FetchBatch assembles up to count artworks. Each round samples an
// oversampled candidate set excluding ids already attempted in this call,
// fetches detail records chunk by chunk under the concurrency cap, and
// keeps records that map to a displayable artwork. Individual lookup
// failures drop the candidate silently; the batch just comes up short and
// a later round compensates.
//
// FetchBatch errors only when the id pool itself is empty or the context
// is cancelled. Progress lines go to w.
func (f *Fetcher) FetchBatch(ctx context.Context, count int, w io.Writer) (Result, error) {
	if count <= 0 {
		count = f.cfg.BatchSize
	}

	res := Result{Requested: count}
	attempted := make(map[int]struct{})

	for round := 0; round < f.cfg.MaxRounds && len(res.Items) < count; round++ {
		ids, err := f.pool.IDs(ctx)
		if err != nil {
			if round > 0 && !httputil.Cancelled(err) {
				break // keep what earlier rounds accumulated
			}
			return res, err
		}

		want := max(count*oversampleFactor, oversampleFloor)
		want = min(want, oversampleCap)

		candidates := f.pool.Sample(ids, want, attempted)
		if len(candidates) == 0 {
			break // universe exhausted for this call
		}
		for _, id := range candidates {
			attempted[id] = struct{}{}
		}
		res.Rounds = round + 1

		if err := f.fetchCandidates(ctx, candidates, count, &res); err != nil {
			return res, err
		}

		if len(res.Items) < count {
			fmt.Fprintf(w, "round %d: %d/%d artworks ready\n", round+1, len(res.Items), count)
		}
	}

	return res, nil
}

// fetchCandidates walks candidates chunk by chunk, fetching each chunk
// concurrently, and appends displayable artworks to res until count is
// reached. The chunk size is the cap on simultaneously outstanding detail
// requests.
func (f *Fetcher) fetchCandidates(ctx context.Context, candidates []int, count int, res *Result) error {
	for start := 0; start < len(candidates) && len(res.Items) < count; start += f.cfg.Concurrency {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+f.cfg.Concurrency, len(candidates))
		chunk := candidates[start:end]

		type lookup struct {
			rec *museum.ObjectRecord
			err error
		}
		results := make([]lookup, len(chunk))

		done := make(chan int, len(chunk))
		for i, id := range chunk {
			go func(i, id int) {
				rec, err := f.objects.Object(ctx, id)
				results[i] = lookup{rec: rec, err: err}
				done <- i
			}(i, id)
		}
		for range chunk {
			<-done
		}

		for _, l := range results {
			if l.err != nil {
				if httputil.Cancelled(l.err) {
					return l.err
				}
				res.Dropped++
				continue
			}
			item, ok := museum.ItemFromObject(l.rec)
			if !ok {
				res.Dropped++
				continue
			}
			if len(res.Items) < count {
				res.Items = append(res.Items, item)
			}
		}
	}
	return nil
}
