// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prefetch keeps a small stock of ready batches ahead of user
// navigation so the next page of the gallery is served without waiting on
// the network.
package prefetch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/gallery-engine/pkg/types"
)

const defaultTarget = 2

// Builder constructs one ready batch: detail fetch followed by the image
// gate. Builders run on whatever context Fill received; the session hands
// the buffer a background context so foreground cancellation leaves
// prefetch work alone.
type Builder func(ctx context.Context) (types.Batch, error)

// Buffer maintains up to target ready batches, refilling in the
// background as they are consumed. ready batches are served FIFO.
// Invariant: |ready| + pending never exceeds target.
type Buffer struct {
	target int
	build  Builder
	logw   io.Writer

	mu      sync.Mutex
	ready   []types.Batch
	pending int
	filling bool
}

// New returns a Buffer holding at most target batches. Dropped-task
// warnings go to logw.
func New(target int, build Builder, logw io.Writer) *Buffer {
	if target <= 0 {
		target = defaultTarget
	}
	if logw == nil {
		logw = io.Discard
	}
	return &Buffer{target: target, build: build, logw: logw}
}

// Fill tops the buffer up to target, launching one builder task per missing
// batch. Calling Fill while a previous call is still launching is a no-op,
// and the ready+pending arithmetic keeps concurrent fills from ever
// over-provisioning. A failed task is logged and dropped; the next Fill
// replaces it.
func (b *Buffer) Fill(ctx context.Context) {
	b.mu.Lock()
	if b.filling {
		b.mu.Unlock()
		return
	}
	b.filling = true
	launch := b.target - len(b.ready) - b.pending
	b.pending += launch
	b.filling = false
	b.mu.Unlock()

	for i := 0; i < launch; i++ {
		go b.run(ctx)
	}
}

func (b *Buffer) run(ctx context.Context) {
	batch, err := b.build(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending--
	if err != nil {
		fmt.Fprintf(b.logw, "warning: prefetch batch dropped: %v\n", err)
		return
	}
	b.ready = append(b.ready, batch)
}

// TakeReady pops the oldest ready batch without blocking. The caller falls
// back to a synchronous fetch when none is ready, and should Fill again
// afterward to replenish.
func (b *Buffer) TakeReady() (types.Batch, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.ready) == 0 {
		return nil, false
	}
	batch := b.ready[0]
	b.ready = b.ready[1:]
	return batch, true
}

// Len returns the number of ready batches.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ready)
}

// Pending returns the number of in-flight builder tasks.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Target returns the configured capacity.
func (b *Buffer) Target() int { return b.target }
