package ui

import (
	"context"

	"github.com/go-verve/verve/pkg/platform"
)

// ForegroundExecutor serializes all entity mutation and tree traversal onto
// the one logical main thread. A posted unit runs to completion before any
// other foreground unit begins.
type ForegroundExecutor struct {
	dispatcher platform.Dispatcher
}

// Post queues fn on the main thread.
func (f *ForegroundExecutor) Post(fn func()) {
	f.dispatcher.PostMain(fn)
}

// BackgroundExecutor runs work on the platform's thread pool. Background
// work has no access to entity state; results come back through a Task
// observed on the foreground.
type BackgroundExecutor struct {
	dispatcher platform.Dispatcher
}

// Post runs fn on the background pool.
func (b *BackgroundExecutor) Post(fn func()) {
	b.dispatcher.PostBackground(fn)
}

// Task is the future-like handle for one unit of background work.
type Task[T any] struct {
	done   chan struct{}
	value  T
	err    error
	cancel context.CancelFunc
}

// Spawn runs fn on the app's background pool and returns its task. The fn's
// context is cancelled by Task.Cancel; a cancelled task that never ran
// commits no side effects.
func Spawn[T any](app *App, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task[T]{done: make(chan struct{}), cancel: cancel}
	app.Background().Post(func() {
		defer close(t.done)
		if ctx.Err() != nil {
			t.err = ctx.Err()
			return
		}
		t.value, t.err = fn(ctx)
	})
	return t
}

// Cancel requests cancellation. Cancelling a pending task is a well-defined
// no-op: the task resolves with context.Canceled and nothing else commits.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Await blocks until the task resolves or ctx is done. Only background code
// may block; foreground code observes tasks with OnReady instead.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-t.done:
		return t.value, t.err
	}
}

// OnReady delivers the task's result to the foreground thread once it
// resolves. The callback runs as its own foreground unit.
func OnReady[T any](app *App, t *Task[T], fn func(T, error)) {
	app.Background().Post(func() {
		<-t.done
		app.Foreground().Post(func() {
			fn(t.value, t.err)
		})
	})
}
