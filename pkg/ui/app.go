// Package ui is the runtime core: the App owning all long-lived entity
// state, scoped Contexts arbitrating access to it, and Windows running the
// per-frame element tree protocol.
//
// Everything in this package executes on one logical foreground thread of
// control; see pkg/platform for how work reaches that thread.
package ui

import (
	"log/slog"
	"reflect"

	"github.com/go-verve/verve/pkg/entity"
	"github.com/go-verve/verve/pkg/errors"
	"github.com/go-verve/verve/pkg/platform"
)

// App owns the entity store, the global-singleton-by-type registry, the
// subscription registries and the two executors. One App per process
// lifetime; globals die with it.
type App struct {
	store      *entity.Store
	globals    map[reflect.Type]any
	observers  *subscriberSet
	listeners  *subscriberSet
	foreground *ForegroundExecutor
	background *BackgroundExecutor
	windows    []*Window
	log        *slog.Logger
}

// NewApp returns an app scheduling through the given dispatcher.
func NewApp(dispatcher platform.Dispatcher) *App {
	app := &App{
		store:      entity.NewStore(),
		globals:    make(map[reflect.Type]any),
		observers:  newSubscriberSet(),
		listeners:  newSubscriberSet(),
		foreground: &ForegroundExecutor{dispatcher: dispatcher},
		background: &BackgroundExecutor{dispatcher: dispatcher},
		log:        slog.Default(),
	}
	app.store.SetDirtyHook(app.markDirty)
	return app
}

// SetLogger replaces the app's logger.
func (app *App) SetLogger(log *slog.Logger) {
	app.log = log
}

// Logger returns the app's logger.
func (app *App) Logger() *slog.Logger {
	return app.log
}

// Store exposes the entity store for the typed access helpers.
func (app *App) Store() *entity.Store {
	return app.store
}

// Foreground returns the serializing main-thread executor.
func (app *App) Foreground() *ForegroundExecutor {
	return app.foreground
}

// Background returns the pooled executor.
func (app *App) Background() *BackgroundExecutor {
	return app.background
}

// markDirty flags every window for redraw when an entity changes.
func (app *App) markDirty(entity.ID) {
	for _, w := range app.windows {
		w.dirty = true
	}
}

// entityHandle is any strong or weak handle carrying an entity id.
type entityHandle interface {
	EntityID() entity.ID
}

// Observe registers fn to run whenever the target entity notifies.
// Callbacks fire synchronously, in registration order, within the Notify
// call that triggered them.
func (app *App) Observe(target entityHandle, fn func(*App)) *Subscription {
	return app.observers.add(target.EntityID(), func(any) { fn(app) })
}

// notifyEntity marks the entity dirty and fires its observers.
func (app *App) notifyEntity(id entity.ID) {
	app.store.MarkDirty(id)
	app.observers.fire(id, nil)
}

// emitEvent fires the entity's event listeners with the payload.
func (app *App) emitEvent(id entity.ID, event any) {
	app.listeners.fire(id, event)
}

// dropSubscribers discards all registrations for a released entity.
func (app *App) dropSubscribers(id entity.ID) {
	app.observers.drop(id)
	app.listeners.drop(id)
}

// Subscribe registers fn for events of type E emitted by the target entity.
// Events of other types pass it by.
func Subscribe[E any](app *App, target entityHandle, fn func(event E, app *App)) *Subscription {
	return app.listeners.add(target.EntityID(), func(payload any) {
		if event, ok := payload.(E); ok {
			fn(event, app)
		}
	})
}

// SetGlobal stores the app-wide instance for type G, replacing any previous
// one.
func SetGlobal[G any](app *App, value G) {
	app.globals[reflect.TypeOf((*G)(nil)).Elem()] = value
}

// Global returns the app-wide instance for type G.
func Global[G any](app *App) (G, bool) {
	value, ok := app.globals[reflect.TypeOf((*G)(nil)).Elem()]
	if !ok {
		var zero G
		return zero, false
	}
	return value.(G), true
}

// DefaultGlobal returns the instance for type G, initializing it with init
// on first use.
func DefaultGlobal[G any](app *App, init func() G) G {
	if value, ok := Global[G](app); ok {
		return value
	}
	value := init()
	SetGlobal(app, value)
	return value
}

// UpdateGlobal mutates the instance for type G in place. It fails with
// ErrNoGlobal when none is present.
func UpdateGlobal[G any](app *App, fn func(*G)) error {
	key := reflect.TypeOf((*G)(nil)).Elem()
	value, ok := app.globals[key]
	if !ok {
		return errors.Identity("ui.UpdateGlobal", errors.ErrNoGlobal)
	}
	typed := value.(G)
	fn(&typed)
	app.globals[key] = typed
	return nil
}
