package platform

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolDispatcherMainQueueOrder(t *testing.T) {
	d := NewPoolDispatcher(2)

	var order []int
	for i := 0; i < 5; i++ {
		d.PostMain(func() { order = append(order, i) })
	}
	d.DrainMain()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order, "main units run to completion in post order")
}

func TestPoolDispatcherRunMainStopsOnCancel(t *testing.T) {
	d := NewPoolDispatcher(1)
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{})
	d.PostMain(func() {
		close(ran)
		cancel()
	})

	done := make(chan struct{})
	go func() {
		d.RunMain(ctx)
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("main callback never ran")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunMain did not stop after cancel")
	}
}

func TestPoolDispatcherBackgroundCompletes(t *testing.T) {
	d := NewPoolDispatcher(4)

	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		d.PostBackground(func() {
			defer wg.Done()
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("background work did not complete")
	}
	require.Equal(t, 32, count)
}

func TestTestDispatcherRunsInline(t *testing.T) {
	var d TestDispatcher
	ran := 0
	d.PostMain(func() { ran++ })
	d.PostBackground(func() { ran++ })
	assert.Equal(t, 2, ran)
}
