package entity

import (
	"fmt"
	"reflect"

	"github.com/go-verve/verve/pkg/errors"
)

// Entity is a strong, reference-counted handle to state of type T. Multiple
// strong handles may share one state instance; the instance lives exactly as
// long as at least one strong handle exists. Go has no destructors, so
// ownership is explicit: Clone adds a reference and Release drops one.
type Entity[T any] struct {
	id    ID
	store *Store
	life  *life
}

// EntityID returns the handle's id.
func (e Entity[T]) EntityID() ID {
	return e.id
}

// Clone returns a new strong handle to the same state.
func (e Entity[T]) Clone() Entity[T] {
	if e.life != nil && !e.life.dead {
		e.life.strong++
	}
	return e
}

// Release drops this strong reference. Dropping the last one runs the
// registered release callbacks in registration order, then frees the slot.
func (e Entity[T]) Release() {
	if e.store != nil && e.life != nil {
		e.store.release(e.id, e.life)
	}
}

// Downgrade returns a weak handle that does not keep the state alive.
func (e Entity[T]) Downgrade() WeakEntity[T] {
	return WeakEntity[T]{id: e.id, store: e.store, life: e.life}
}

// IsReleased reports whether the state behind this handle is gone.
func (e Entity[T]) IsReleased() bool {
	return e.life == nil || e.life.dead
}

// Erase returns a type-erased handle sharing this handle's reference.
func (e Entity[T]) Erase() AnyEntity {
	return AnyEntity{id: e.id, store: e.store, life: e.life, typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// WeakEntity is a non-owning reference: an id plus the shared liveness
// record, never the state itself. It guarantees nothing beyond id stability.
type WeakEntity[T any] struct {
	id    ID
	store *Store
	life  *life
}

// EntityID returns the referenced id, which stays valid forever.
func (w WeakEntity[T]) EntityID() ID {
	return w.id
}

// Upgrade attempts to obtain a strong handle. It fails once the strong count
// has reached zero, and before the referenced reservation has been inserted.
// A successful upgrade adds a strong reference the caller must Release.
func (w WeakEntity[T]) Upgrade() (Entity[T], bool) {
	if w.life == nil || w.life.dead || w.life.strong == 0 {
		return Entity[T]{}, false
	}
	if typ, ok := w.store.typeOf(w.id); !ok || typ != reflect.TypeOf((*T)(nil)).Elem() {
		return Entity[T]{}, false
	}
	w.life.strong++
	return Entity[T]{id: w.id, store: w.store, life: w.life}, true
}

// Erase returns a type-erased weak handle.
func (w WeakEntity[T]) Erase() AnyWeakEntity {
	return AnyWeakEntity{id: w.id, store: w.store, life: w.life, typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// AnyEntity is a type-erased strong handle. The runtime type tag is checked
// on downcast; a mismatch is a reportable failure, not undefined behavior.
type AnyEntity struct {
	id    ID
	store *Store
	life  *life
	typ   reflect.Type
}

// EntityID returns the handle's id.
func (a AnyEntity) EntityID() ID {
	return a.id
}

// Type returns the runtime type tag of the referenced state.
func (a AnyEntity) Type() reflect.Type {
	return a.typ
}

// Clone returns a new strong type-erased handle.
func (a AnyEntity) Clone() AnyEntity {
	if a.life != nil && !a.life.dead {
		a.life.strong++
	}
	return a
}

// Release drops this strong reference.
func (a AnyEntity) Release() {
	if a.store != nil && a.life != nil {
		a.store.release(a.id, a.life)
	}
}

// Downgrade returns a type-erased weak handle.
func (a AnyEntity) Downgrade() AnyWeakEntity {
	return AnyWeakEntity{id: a.id, store: a.store, life: a.life, typ: a.typ}
}

// Downcast recovers the typed handle. On tag mismatch the typed zero handle
// is returned along with ErrTypeMismatch; the erased handle is unchanged.
func Downcast[T any](a AnyEntity) (Entity[T], error) {
	if a.typ != reflect.TypeOf((*T)(nil)).Elem() {
		return Entity[T]{}, errors.Identity("entity.Downcast",
			fmt.Errorf("%w: have %v, want %v", errors.ErrTypeMismatch, a.typ, reflect.TypeOf((*T)(nil)).Elem()))
	}
	return Entity[T]{id: a.id, store: a.store, life: a.life}, nil
}

// AnyWeakEntity is a type-erased weak handle.
type AnyWeakEntity struct {
	id    ID
	store *Store
	life  *life
	typ   reflect.Type
}

// EntityID returns the referenced id.
func (a AnyWeakEntity) EntityID() ID {
	return a.id
}

// Upgrade attempts to obtain a strong type-erased handle.
func (a AnyWeakEntity) Upgrade() (AnyEntity, bool) {
	if a.life == nil || a.life.dead || a.life.strong == 0 {
		return AnyEntity{}, false
	}
	a.life.strong++
	return AnyEntity{id: a.id, store: a.store, life: a.life, typ: a.typ}, true
}

// DowncastWeak recovers the typed weak handle, checking the type tag.
func DowncastWeak[T any](a AnyWeakEntity) (WeakEntity[T], error) {
	if a.typ != reflect.TypeOf((*T)(nil)).Elem() {
		return WeakEntity[T]{}, errors.Identity("entity.DowncastWeak",
			fmt.Errorf("%w: have %v, want %v", errors.ErrTypeMismatch, a.typ, reflect.TypeOf((*T)(nil)).Elem()))
	}
	return WeakEntity[T]{id: a.id, store: a.store, life: a.life}, nil
}

// Read invokes fn with immutable access to the entity's state and returns
// fn's result. Reading a released entity is a recoverable identity error.
// Reading an entity whose state is leased to an in-flight update panics.
func Read[T, R any](s *Store, e Entity[T], fn func(*T) R) (R, error) {
	value, err := s.lease(e.id)
	if err != nil {
		var zero R
		return zero, err
	}
	defer s.endLease(e.id, value)
	return fn(value.(*T)), nil
}

// Update invokes fn with mutable access to the entity's state, marks the
// entity dirty for redraw scheduling, and returns fn's result. Reentrant
// updates of the same entity panic.
func Update[T, R any](s *Store, e Entity[T], fn func(*T) R) (R, error) {
	value, err := s.lease(e.id)
	if err != nil {
		var zero R
		return zero, err
	}
	defer func() {
		s.endLease(e.id, value)
		s.MarkDirty(e.id)
	}()
	return fn(value.(*T)), nil
}
