// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pool caches the candidate object-id universe for one search query
// and samples from it without replacement.
package pool

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrEmptyPool reports that the search yielded zero candidate ids. This is
// terminal for the current fetch operation; it is not retried here.
var ErrEmptyPool = errors.New("id pool: search returned no object ids")

// Searcher fetches the id universe. Implemented by the museum client.
type Searcher interface {
	SearchIDs(ctx context.Context) ([]int, error)
}

// Pool lazily fetches and caches the id universe for the session lifetime.
// The cache is reset only by an explicit Invalidate call.
type Pool struct {
	searcher Searcher

	mu       sync.Mutex
	ids      []int
	loaded   bool
	inflight chan struct{} // closed when the current search settles
	rng      *rand.Rand
}

// New returns an unloaded Pool backed by searcher.
func New(searcher Searcher) *Pool {
	seed := uint64(time.Now().UnixNano())
	return &Pool{
		searcher: searcher,
		rng:      rand.New(rand.NewPCG(seed, seed>>32)),
	}
}

// NewSeeded returns a Pool with a deterministic sampling sequence. Tests use
// this to make sampling reproducible.
func NewSeeded(searcher Searcher, seed uint64) *Pool {
	return &Pool{
		searcher: searcher,
		rng:      rand.New(rand.NewPCG(seed, seed+1)),
	}
}

// IDs returns the cached id universe, performing the search request on the
// first call only. Concurrent first calls share a single in-flight search.
// An empty result is ErrEmptyPool and is not cached, so a later call gets a
// fresh chance.
func (p *Pool) IDs(ctx context.Context) ([]int, error) {
	for {
		p.mu.Lock()
		if p.loaded {
			ids := p.ids
			p.mu.Unlock()
			return ids, nil
		}
		if p.inflight != nil {
			wait := p.inflight
			p.mu.Unlock()
			select {
			case <-wait:
				// Loaded now, or the flight failed and this caller
				// takes over as the next leader.
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		flight := make(chan struct{})
		p.inflight = flight
		p.mu.Unlock()

		// Search outside the lock; a request can take seconds.
		ids, err := p.searcher.SearchIDs(ctx)

		p.mu.Lock()
		p.inflight = nil
		if err == nil && len(ids) > 0 {
			p.ids = ids
			p.loaded = true
		}
		p.mu.Unlock()
		close(flight)

		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, ErrEmptyPool
		}
		return ids, nil
	}
}

// Loaded reports whether the universe has been fetched.
func (p *Pool) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Size returns the number of cached ids, zero when unloaded.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}

// Invalidate drops the cached universe. The next IDs call searches again.
func (p *Pool) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = nil
	p.loaded = false
}

// Sample draws up to n ids uniformly without replacement, excluding the
// given already-seen set. The result has size min(n, eligible) and contains
// no duplicates and no excluded id.
func (p *Pool) Sample(ids []int, n int, excluding map[int]struct{}) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sample(p.rng, ids, n, excluding)
}

func sample(rng *rand.Rand, ids []int, n int, excluding map[int]struct{}) []int {
	eligible := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, skip := excluding[id]; skip {
			continue
		}
		eligible = append(eligible, id)
	}

	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if n > len(eligible) {
		n = len(eligible)
	}
	return eligible[:n]
}
