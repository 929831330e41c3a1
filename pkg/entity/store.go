// Package entity implements the registry that owns all long-lived typed UI
// state.
//
// State lives in a Store and is reached through reference-counted handles.
// Entity is the strong, owning handle; WeakEntity carries only the id and a
// pointer to the shared liveness record, never the state itself. Ids are
// process-unique and never recycled, so a stale handle is always detectably
// stale rather than silently aliased to newer state.
//
// The store is single-writer: all access happens on the one logical
// foreground thread of control, so no locking is exposed. The one disallowed
// shape is reentrant access to an entity whose state is currently leased out
// to an update, which panics.
package entity

import (
	"fmt"
	"reflect"

	"github.com/go-verve/verve/pkg/errors"
)

// ID uniquely identifies an entity for the lifetime of the process.
type ID uint64

// life is the liveness record shared by every handle to one entity. Weak
// handles keep it reachable after the slot is freed so upgrades fail cleanly.
type life struct {
	strong int
	dead   bool
}

type slot struct {
	value    any // the *T, absent while leased out to an update
	typ      reflect.Type
	leased   bool
	life     *life
	releases []func()
}

// Store owns every entity slot. A Store belongs to exactly one App.
type Store struct {
	nextID  ID
	slots   map[ID]*slot
	onDirty func(ID)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{slots: make(map[ID]*slot)}
}

// SetDirtyHook registers the callback invoked whenever an entity is marked
// dirty. The owning app uses it to schedule redraws.
func (s *Store) SetDirtyHook(fn func(ID)) {
	s.onDirty = fn
}

// MarkDirty flags the entity for redraw scheduling.
func (s *Store) MarkDirty(id ID) {
	if s.onDirty != nil {
		s.onDirty(id)
	}
}

// Count returns the number of live slots.
func (s *Store) Count() int {
	return len(s.slots)
}

// Reservation is a pre-allocated id with no backing state yet. It lets state
// that must reference its own id be constructed before the state exists.
// A reservation is consumed exactly once by Insert; consuming it twice
// panics, and never consuming it leaks the id permanently (ids are cheap
// and unbounded).
type Reservation struct {
	id       ID
	life     *life
	consumed bool
}

// EntityID returns the reserved id.
func (r *Reservation) EntityID() ID {
	return r.id
}

// Reserve allocates an id with no backing state.
func (s *Store) Reserve() *Reservation {
	s.nextID++
	return &Reservation{id: s.nextID, life: &life{}}
}

// ReservedWeak returns a weak handle to a reservation's id. The handle fails
// to upgrade until the reservation is inserted, and succeeds afterward.
func ReservedWeak[T any](s *Store, r *Reservation) WeakEntity[T] {
	return WeakEntity[T]{id: r.id, store: s, life: r.life}
}

// Insert consumes a reservation, building the state with the reserved id.
func Insert[T any](s *Store, r *Reservation, build func(id ID) *T) Entity[T] {
	if r.consumed {
		panic(fmt.Sprintf("entity: reservation for id %d consumed twice", r.id))
	}
	r.consumed = true
	r.life.strong = 1
	s.slots[r.id] = &slot{
		value: build(r.id),
		typ:   reflect.TypeOf((*T)(nil)).Elem(),
		life:  r.life,
	}
	return Entity[T]{id: r.id, store: s, life: r.life}
}

// New reserves an id and inserts state for it in one step.
func New[T any](s *Store, build func(id ID) *T) Entity[T] {
	return Insert(s, s.Reserve(), build)
}

// OnRelease registers a callback to run when the entity's last strong handle
// is released. Callbacks run synchronously, in registration order, exactly
// once. The returned cancel func deregisters the callback and is idempotent;
// cancelling after the entity has been released is a no-op.
func (s *Store) OnRelease(id ID, fn func()) func() {
	sl, ok := s.slots[id]
	if !ok {
		return func() {}
	}
	idx := len(sl.releases)
	sl.releases = append(sl.releases, fn)
	cancelled := false
	return func() {
		if cancelled {
			return
		}
		cancelled = true
		if live, ok := s.slots[id]; ok && idx < len(live.releases) {
			live.releases[idx] = nil
		}
	}
}

// lease checks the entity's state out of its slot for the duration of an
// update or read. Leasing a released entity is a recoverable identity error;
// leasing an entity that is already leased is the reentrancy violation and
// panics.
func (s *Store) lease(id ID) (any, error) {
	sl, ok := s.slots[id]
	if !ok {
		return nil, errors.Identity("entity.lease",
			fmt.Errorf("%w: id %d", errors.ErrReleased, id))
	}
	if sl.leased {
		panic(fmt.Sprintf("entity: reentrant access to entity %d while it is being updated", id))
	}
	sl.leased = true
	value := sl.value
	sl.value = nil
	return value, nil
}

// endLease returns leased state to its slot.
func (s *Store) endLease(id ID, value any) {
	sl, ok := s.slots[id]
	if !ok {
		// Released from inside its own update; nothing to restore into.
		return
	}
	sl.leased = false
	sl.value = value
}

// release drops one strong reference. When the count reaches zero the
// registered release callbacks run in registration order, then the slot is
// freed. The id is never reused.
func (s *Store) release(id ID, l *life) {
	if l.dead || l.strong == 0 {
		return
	}
	l.strong--
	if l.strong > 0 {
		return
	}
	l.dead = true
	sl, ok := s.slots[id]
	if !ok {
		return
	}
	releases := sl.releases
	sl.releases = nil
	for _, fn := range releases {
		if fn != nil {
			fn()
		}
	}
	delete(s.slots, id)
}

// Access leases the entity's state for the duration of fn without marking
// the entity dirty. The frame loop uses it to render views; rendering may
// mutate view-local state but is not itself a reason to redraw.
func (s *Store) Access(id ID, fn func(value any)) error {
	value, err := s.lease(id)
	if err != nil {
		return err
	}
	defer s.endLease(id, value)
	fn(value)
	return nil
}

func (s *Store) typeOf(id ID) (reflect.Type, bool) {
	sl, ok := s.slots[id]
	if !ok {
		return nil, false
	}
	return sl.typ, true
}
