// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the state a browsing run carries: the id pool, the
// current logical load's cancellation, the prefetch buffer, and the cache
// and history handles. One Session corresponds to one gallery lifetime.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/pdiddy/gallery-engine/internal/cache"
	"github.com/pdiddy/gallery-engine/internal/fetcher"
	"github.com/pdiddy/gallery-engine/internal/gate"
	"github.com/pdiddy/gallery-engine/internal/history"
	"github.com/pdiddy/gallery-engine/internal/museum"
	"github.com/pdiddy/gallery-engine/internal/pool"
	"github.com/pdiddy/gallery-engine/internal/prefetch"
	"github.com/pdiddy/gallery-engine/pkg/types"
)

// Session wires the gallery core together. The id pool lives for the
// session; the current load's cancel func is swapped on every new logical
// load so at most one foreground load is ever in flight.
type Session struct {
	cfg       types.GalleryConfig
	pool      *pool.Pool
	fetcher   *fetcher.Fetcher
	preloader gate.Preloader
	buffer    *prefetch.Buffer
	cache     *cache.Store
	history   *history.Store
	logw      io.Writer

	// bg is the background context for prefetch builders; foreground
	// cancellation must not touch them.
	bg     context.Context
	stopBg context.CancelFunc

	mu         sync.Mutex
	cancelLoad context.CancelFunc
}

// New assembles a Session. historyStore may be nil to disable recording;
// cacheStore may be a no-op store.
func New(cfg types.GalleryConfig, httpClient *http.Client, cacheStore *cache.Store, historyStore *history.Store, logw io.Writer) *Session {
	if logw == nil {
		logw = io.Discard
	}

	client := museum.NewClient(httpClient, cfg.Museum)
	p := pool.New(client)

	s := &Session{
		cfg:     cfg,
		pool:    p,
		fetcher: fetcher.New(p, client, cfg.Fetch),
		preloader: &gate.HTTPPreloader{
			Client:    httpClient,
			UserAgent: cfg.Museum.UserAgent,
		},
		cache:   cacheStore,
		history: historyStore,
		logw:    logw,
	}
	s.bg, s.stopBg = context.WithCancel(context.Background())
	s.buffer = prefetch.New(cfg.Prefetch.TargetBatches, s.buildBatch, logw)
	return s
}

// Pool exposes the session's id pool for inspection commands.
func (s *Session) Pool() *pool.Pool { return s.pool }

// Buffer exposes the prefetch buffer for inspection.
func (s *Session) Buffer() *prefetch.Buffer { return s.buffer }

// Start serves the opening batch: the cached one when still fresh,
// otherwise a fresh foreground load. Either way the buffer starts refilling.
func (s *Session) Start(ctx context.Context) (fetcher.Result, error) {
	if items, ok := s.cache.LoadBatch(); ok {
		s.Refill()
		return fetcher.Result{Items: items, Requested: len(items)}, nil
	}
	return s.Next(ctx)
}

// Next serves the next batch: a ready prefetched one when available, else a
// synchronous fetch under a fresh load context that cancels any prior load.
// The served batch is persisted to the cache and recorded in history, and a
// background refill is triggered.
func (s *Session) Next(ctx context.Context) (fetcher.Result, error) {
	if items, ok := s.buffer.TakeReady(); ok {
		s.persist(items)
		s.Refill()
		return fetcher.Result{Items: items, Requested: len(items)}, nil
	}

	loadCtx := s.newLoadContext(ctx)
	res, err := s.fetcher.FetchBatch(loadCtx, s.fetcher.BatchSize(), s.logw)
	if err != nil {
		// A superseded load is abandoned, not reported: the caller sees
		// the cancellation error and surfaces nothing to the user.
		return res, err
	}
	if len(res.Items) == 0 {
		return res, fmt.Errorf("no displayable artworks found")
	}

	gate.AwaitReady(loadCtx, s.preloader, res.Items, s.cfg.Gate.MinReady, s.cfg.Gate.Timeout)

	s.persist(res.Items)
	s.Refill()
	return res, nil
}

// CancelLoad cancels the current foreground load, if any.
func (s *Session) CancelLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
}

// Refill tops the prefetch buffer back up in the background.
func (s *Session) Refill() {
	s.buffer.Fill(s.bg)
}

// Close cancels background work and any in-flight foreground load. The
// cache and history stores belong to the caller and stay open.
func (s *Session) Close() {
	s.CancelLoad()
	s.stopBg()
}

// newLoadContext cancels the previous logical load and derives a context
// for the new one, so requests from a superseded load fail fast with a
// cancellation error.
func (s *Session) newLoadContext(parent context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancelLoad = cancel
	return ctx
}

// buildBatch is the prefetch builder: a full detail fetch followed by the
// image gate, on the background context.
func (s *Session) buildBatch(ctx context.Context) (types.Batch, error) {
	res, err := s.fetcher.FetchBatch(ctx, s.fetcher.BatchSize(), io.Discard)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("no displayable artworks found")
	}
	gate.AwaitReady(ctx, s.preloader, res.Items, s.cfg.Gate.MinReady, s.cfg.Gate.Timeout)
	return res.Items, nil
}

// persist saves the served batch to the cache and history. Neither store
// may block or fail the serve path; trouble degrades to a warning.
func (s *Session) persist(items types.Batch) {
	if err := s.cache.SaveBatch(items); err != nil {
		fmt.Fprintf(s.logw, "warning: cache write failed: %v\n", err)
	}
	if s.history != nil {
		if err := s.history.Record(context.Background(), items); err != nil {
			fmt.Fprintf(s.logw, "warning: history write failed: %v\n", err)
		}
	}
}
