package ui

import (
	"github.com/go-verve/verve/pkg/entity"
)

// Context is the scoped capability object handed to an entity's build and
// update closures: the App plus "the entity currently being updated". It is
// valid only for the duration of the call that produced it and must not be
// stored.
type Context[T any] struct {
	app  *App
	id   entity.ID
	weak entity.WeakEntity[T]
}

// App returns the enclosing app.
func (cx *Context[T]) App() *App {
	return cx.app
}

// EntityID returns the id of the entity being updated.
func (cx *Context[T]) EntityID() entity.ID {
	return cx.id
}

// WeakEntity returns a weak handle to the entity being updated. During a
// build closure the handle upgrades only once insertion completes.
func (cx *Context[T]) WeakEntity() entity.WeakEntity[T] {
	return cx.weak
}

// Notify marks the entity dirty and fires its observers synchronously, in
// registration order.
func (cx *Context[T]) Notify() {
	cx.app.notifyEntity(cx.id)
}

// Emit fires the entity's event listeners with the given event.
func (cx *Context[T]) Emit(event any) {
	cx.app.emitEvent(cx.id, event)
}

// Observe registers an observer on another entity; see App.Observe.
func (cx *Context[T]) Observe(target entityHandle, fn func(*App)) *Subscription {
	return cx.app.Observe(target, fn)
}

// Reserve pre-allocates an entity id with no backing state, for state that
// must reference its own id before it exists.
func (app *App) Reserve() *entity.Reservation {
	return app.store.Reserve()
}

// NewEntity builds new state and inserts it into the store. The build
// closure receives the entity's Context; its weak handle becomes
// upgradeable as soon as insertion completes.
func NewEntity[T any](app *App, build func(cx *Context[T]) *T) entity.Entity[T] {
	return InsertReserved(app, app.Reserve(), build)
}

// InsertReserved consumes a reservation, building state for the reserved id.
func InsertReserved[T any](app *App, res *entity.Reservation, build func(cx *Context[T]) *T) entity.Entity[T] {
	cx := &Context[T]{
		app:  app,
		id:   res.EntityID(),
		weak: entity.ReservedWeak[T](app.store, res),
	}
	e := entity.Insert(app.store, res, func(entity.ID) *T {
		return build(cx)
	})
	app.store.OnRelease(e.EntityID(), func() {
		app.dropSubscribers(e.EntityID())
	})
	return e
}

// Update invokes fn with mutable access to the entity's state and a scoped
// Context, and returns fn's result. The entity is marked dirty on success.
// Updating a released entity is a recoverable identity error; reentrant
// updates of the same entity panic.
func Update[T, R any](app *App, e entity.Entity[T], fn func(state *T, cx *Context[T]) R) (R, error) {
	cx := &Context[T]{app: app, id: e.EntityID(), weak: e.Downgrade()}
	return entity.Update(app.store, e, func(state *T) R {
		return fn(state, cx)
	})
}

// Read invokes fn with immutable access to the entity's state.
func Read[T, R any](app *App, e entity.Entity[T], fn func(state *T) R) (R, error) {
	return entity.Read(app.store, e, fn)
}

// ObserveRelease registers fn to run when the entity's last strong handle is
// released.
func (app *App) ObserveRelease(target entityHandle, fn func()) *Subscription {
	cancel := app.store.OnRelease(target.EntityID(), fn)
	return &Subscription{cancel: cancel}
}
