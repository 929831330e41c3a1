// Package platform defines the scheduling boundary with the host platform.
//
// The runtime needs exactly two primitives from a platform: a way to post a
// callback onto the main thread, and a way to run work on a background pool.
// Window systems, event sources and rendering backends integrate elsewhere.
package platform

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Dispatcher supplies the two executor primitives.
type Dispatcher interface {
	// PostMain queues fn to run on the main thread, after all previously
	// posted callbacks. It never runs fn inline.
	PostMain(fn func())
	// PostBackground runs fn on the background pool.
	PostBackground(fn func())
}

// PoolDispatcher is a host-independent Dispatcher: a serialized main queue
// drained by RunMain plus a semaphore-bounded background pool.
type PoolDispatcher struct {
	main chan func()
	sem  *semaphore.Weighted
}

// NewPoolDispatcher returns a dispatcher whose background pool runs at most
// workers goroutines at once.
func NewPoolDispatcher(workers int64) *PoolDispatcher {
	return &PoolDispatcher{
		main: make(chan func(), 1024),
		sem:  semaphore.NewWeighted(workers),
	}
}

// PostMain queues fn for the main loop.
func (d *PoolDispatcher) PostMain(fn func()) {
	d.main <- fn
}

// PostBackground runs fn on the bounded pool.
func (d *PoolDispatcher) PostBackground(fn func()) {
	go func() {
		if err := d.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer d.sem.Release(1)
		fn()
	}()
}

// RunMain drains main-thread callbacks until ctx is cancelled. Each callback
// runs to completion before the next begins.
func (d *PoolDispatcher) RunMain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-d.main:
			fn()
		}
	}
}

// DrainMain runs queued main-thread callbacks until the queue is empty.
// Useful for tests and single-stepped frame loops.
func (d *PoolDispatcher) DrainMain() {
	for {
		select {
		case fn := <-d.main:
			fn()
		default:
			return
		}
	}
}

// TestDispatcher runs everything inline on the calling goroutine,
// collapsing both executors into deterministic synchronous calls.
type TestDispatcher struct{}

// PostMain runs fn immediately.
func (TestDispatcher) PostMain(fn func()) { fn() }

// PostBackground runs fn immediately.
func (TestDispatcher) PostBackground(fn func()) { fn() }
