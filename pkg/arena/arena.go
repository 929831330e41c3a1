// Package arena provides a frame-scoped bump allocator for ephemeral element
// tree nodes.
//
// An Arena hands out generation-checked handles. Clear invalidates every
// handle issued since the previous Clear in one step; the backing storage is
// reused, not freed. Arenas are owned by exactly one frame context and are
// never shared across goroutines.
package arena

import (
	"fmt"
	"reflect"

	"github.com/go-verve/verve/pkg/errors"
)

// Arena is a bump allocator whose entire contents are invalidated together.
type Arena struct {
	capacity int
	used     int
	gen      uint64
	items    []any
}

// New returns an arena with the given capacity in bytes.
func New(capacity int) *Arena {
	return &Arena{capacity: capacity}
}

// Len returns the number of bytes currently allocated.
func (a *Arena) Len() int {
	return a.used
}

// Cap returns the total capacity in bytes.
func (a *Arena) Cap() int {
	return a.capacity
}

// Clear invalidates every handle issued since the previous Clear. The item
// table is truncated in place so the next frame reuses its storage.
func (a *Arena) Clear() {
	a.used = 0
	a.items = a.items[:0]
	a.gen++
}

// Grow raises the arena's capacity. Outstanding handles stay valid; Grow is
// the fallback for callers that hit ErrArenaFull between frames.
func (a *Arena) Grow(capacity int) {
	if capacity > a.capacity {
		a.capacity = capacity
	}
}

// Box is an owning handle to a value allocated in an arena. Its validity ends
// at the arena's next Clear.
type Box[T any] struct {
	arena *Arena
	gen   uint64
	index int
}

// Ref is a non-owning view derived from a Box, with the same validity window.
type Ref[T any] struct {
	arena *Arena
	gen   uint64
	get   func() *T
}

// Alloc constructs a value in the arena and returns an owning handle. It
// fails with a capacity error when the value's size would exceed the
// remaining capacity; the caller may Grow the arena or reject the frame.
func Alloc[T any](a *Arena, build func() *T) (Box[T], error) {
	size := int(reflect.TypeOf((*T)(nil)).Elem().Size())
	if a.used+size > a.capacity {
		return Box[T]{}, errors.Capacity("arena.Alloc",
			fmt.Errorf("%w: need %d bytes, %d of %d available",
				errors.ErrArenaFull, size, a.capacity-a.used, a.capacity))
	}
	a.used += size
	a.items = append(a.items, build())
	return Box[T]{arena: a, gen: a.gen, index: len(a.items) - 1}, nil
}

// Adopt wraps an already-built heap value in a Box without consuming
// capacity. It is the overflow fallback: a frame can complete on heap
// storage while the caller grows the arena for the next frame. The returned
// handle is generation-checked like any other.
func Adopt[T any](a *Arena, value *T) Box[T] {
	a.items = append(a.items, value)
	return Box[T]{arena: a, gen: a.gen, index: len(a.items) - 1}
}

// MustAlloc is Alloc for callers that treat overflow as fatal.
func MustAlloc[T any](a *Arena, build func() *T) Box[T] {
	box, err := Alloc(a, build)
	if err != nil {
		panic(err)
	}
	return box
}

// Get returns the boxed value. It panics if the owning arena has been
// cleared since the box was issued.
func (b Box[T]) Get() *T {
	b.check()
	return b.arena.items[b.index].(*T)
}

// Valid reports whether the box still belongs to the arena's live generation.
func (b Box[T]) Valid() bool {
	return b.arena != nil && b.gen == b.arena.gen
}

func (b Box[T]) check() {
	if b.arena == nil {
		panic("arena: use of zero Box")
	}
	if b.gen != b.arena.gen {
		panic("arena: use of Box after Clear")
	}
}

// Map re-views the box's allocation as a related type without reallocating.
// The returned Ref shares the box's validity window.
func Map[T, U any](b Box[T], view func(*T) *U) Ref[U] {
	b.check()
	return Ref[U]{
		arena: b.arena,
		gen:   b.gen,
		get:   func() *U { return view(b.arena.items[b.index].(*T)) },
	}
}

// Get returns the viewed value, panicking if the arena has been cleared.
func (r Ref[T]) Get() *T {
	if r.arena == nil {
		panic("arena: use of zero Ref")
	}
	if r.gen != r.arena.gen {
		panic("arena: use of Ref after Clear")
	}
	return r.get()
}

// Valid reports whether the ref still belongs to the arena's live generation.
func (r Ref[T]) Valid() bool {
	return r.arena != nil && r.gen == r.arena.gen
}
