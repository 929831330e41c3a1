package ui

import (
	"fmt"
	"sort"

	"github.com/go-verve/verve/pkg/arena"
	"github.com/go-verve/verve/pkg/entity"
	"github.com/go-verve/verve/pkg/errors"
	"github.com/go-verve/verve/pkg/geometry"
	"github.com/go-verve/verve/pkg/keymap"
	"github.com/go-verve/verve/pkg/layout"
	"github.com/go-verve/verve/pkg/scene"
)

// defaultArenaCapacity sizes a fresh window's frame arena. A window that
// overflows it grows by doubling between frames.
const defaultArenaCapacity = 1 << 20

// View is implemented by entity state that can render itself into an
// element tree. Render runs once per frame while the entity's state is
// leased to the walk.
type View interface {
	Render(w *Window) AnyElement
}

// deferredDraw is an element whose paint phase was rescheduled during
// prepaint to run after the main tree, ordered by ascending priority then
// registration order.
type deferredDraw struct {
	element  AnyElement
	priority int
	seq      int
}

// Window runs the per-frame element tree protocol for one platform window:
// it owns the frame arena, the layout tree handle, the scene, and the focus
// and hitbox registries.
type Window struct {
	app          *App
	arena        *arena.Arena
	scene        *scene.Scene
	layoutEngine layout.Engine
	renderer     scene.Renderer
	size         geometry.Size
	dirty        bool

	arenaOverflow bool

	root      entity.AnyEntity
	viewStack []entity.ID

	paintOffset geometry.Point
	deferred    []deferredDraw
	deferredSeq int

	elementStates map[ElementID]any

	buildingHitboxes []Hitbox
	frameHitboxes    []Hitbox
	nextHitboxID     uint64
	mousePosition    geometry.Point

	focused        FocusHandle
	nextFocusID    uint64
	focusObservers *focusObserverSet

	matcher           keymap.Matcher
	actions           map[string][]func()
	buildingContexts  []keymap.Context
	frameContexts     []keymap.Context
	pendingKeystrokes []keymap.Keystroke
}

// NewWindow creates a window drawing at the given size through the layout
// engine and renderer. The renderer may be nil for headless use; Scene then
// retains the frame's command stream for inspection.
func (app *App) NewWindow(size geometry.Size, engine layout.Engine, renderer scene.Renderer) *Window {
	w := &Window{
		app:            app,
		arena:          arena.New(defaultArenaCapacity),
		scene:          &scene.Scene{},
		layoutEngine:   engine,
		renderer:       renderer,
		size:           size,
		elementStates:  make(map[ElementID]any),
		focusObservers: newFocusObserverSet(),
		actions:        make(map[string][]func()),
	}
	app.windows = append(app.windows, w)
	return w
}

// App returns the owning app.
func (w *Window) App() *App {
	return w.app
}

// Size returns the window's logical size.
func (w *Window) Size() geometry.Size {
	return w.size
}

// Resize updates the window's logical size and flags a redraw.
func (w *Window) Resize(size geometry.Size) {
	w.size = size
	w.dirty = true
}

// NeedsRedraw reports whether any entity mutation occurred since the last
// completed frame.
func (w *Window) NeedsRedraw() bool {
	return w.dirty
}

// Scene returns the most recently drawn frame's command stream.
func (w *Window) Scene() *scene.Scene {
	return w.scene
}

// LayoutEngine returns the solver this window's elements register with.
func (w *Window) LayoutEngine() layout.Engine {
	return w.layoutEngine
}

// SetRoot designates the entity whose Render produces the element tree. The
// window holds its own strong reference until the root changes.
func (w *Window) SetRoot(root entity.AnyEntity) {
	if w.root != (entity.AnyEntity{}) {
		w.root.Release()
	}
	w.root = root.Clone()
	w.dirty = true
}

// Draw produces one frame: clear the arena, render the root entity into an
// arena-allocated tree, walk the three phases, paint deferred elements,
// publish the hitbox and key-context registries, and hand the scene to the
// renderer.
func (w *Window) Draw() error {
	if w.root == (entity.AnyEntity{}) {
		return errors.Resource("ui.Draw", fmt.Errorf("window has no root view"))
	}

	if w.arenaOverflow {
		w.arena.Grow(w.arena.Cap() * 2)
		w.arenaOverflow = false
	}
	w.arena.Clear()
	w.scene.Reset()
	w.layoutEngine.Clear()
	w.buildingHitboxes = w.buildingHitboxes[:0]
	w.buildingContexts = w.buildingContexts[:0]
	w.deferred = nil
	w.deferredSeq = 0
	w.paintOffset = geometry.Point{}

	var root AnyElement
	var rendered bool
	err := w.app.store.Access(w.root.EntityID(), func(value any) {
		view, ok := value.(View)
		if !ok {
			return
		}
		w.WithView(w.root.EntityID(), func() {
			root = view.Render(w)
		})
		rendered = true
	})
	if err != nil {
		return err
	}
	if !rendered {
		return errors.Resource("ui.Draw",
			fmt.Errorf("root entity %d does not implement View", w.root.EntityID()))
	}

	layoutRoot := root.RequestLayout(w)
	w.layoutEngine.Compute(layoutRoot, w.size)

	root.Prepaint(w)
	w.prepaintDeferred()

	root.Paint(w)
	w.paintDeferred()

	if err := w.scene.Finish(); err != nil {
		return err
	}

	// Publish this frame's registries; queries now reflect exactly the
	// most recently completed frame.
	w.frameHitboxes = append(w.frameHitboxes[:0], w.buildingHitboxes...)
	w.frameContexts = append(w.frameContexts[:0], w.buildingContexts...)
	w.dirty = false

	if w.renderer != nil {
		w.scene.Replay(w.renderer)
	}
	return nil
}

// DeferDraw reschedules the element's paint to run after the main tree.
// Lower priorities paint first; equal priorities keep registration order.
// Valid only during the prepaint phase.
func (w *Window) DeferDraw(element AnyElement, priority int) {
	w.deferred = append(w.deferred, deferredDraw{
		element:  element,
		priority: priority,
		seq:      w.deferredSeq,
	})
	w.deferredSeq++
}

// prepaintDeferred runs the prepaint phase of deferred elements in their
// final paint order, so hitboxes they register land above the main tree's.
// A deferred element may defer further subtrees; the queue drains until
// empty.
func (w *Window) prepaintDeferred() {
	for start := 0; start < len(w.deferred); {
		batch := w.deferred[start:]
		sort.SliceStable(batch, func(i, j int) bool {
			if batch[i].priority != batch[j].priority {
				return batch[i].priority < batch[j].priority
			}
			return batch[i].seq < batch[j].seq
		})
		end := len(w.deferred)
		for i := start; i < end; i++ {
			w.deferred[i].element.Prepaint(w)
		}
		start = end
	}
}

// paintDeferred paints deferred elements strictly after the main tree.
func (w *Window) paintDeferred() {
	for _, d := range w.deferred {
		d.element.Paint(w)
	}
}

// WithView records the entity being rendered for the duration of fn, so
// nested input handling and stable-identity lookups scope correctly. The
// previous binding is restored on return.
func (w *Window) WithView(id entity.ID, fn func()) {
	w.viewStack = append(w.viewStack, id)
	defer func() {
		w.viewStack = w.viewStack[:len(w.viewStack)-1]
	}()
	fn()
}

// CurrentView returns the entity currently being rendered.
func (w *Window) CurrentView() (entity.ID, bool) {
	if len(w.viewStack) == 0 {
		return 0, false
	}
	return w.viewStack[len(w.viewStack)-1], true
}

// ElementState returns the persistent state for a stable element identity,
// initializing it on first use. State survives across frames even though
// the element nodes themselves are reallocated.
func ElementState[T any](w *Window, id ElementID, init func() *T) *T {
	key := w.scopedElementID(id)
	if state, ok := w.elementStates[key]; ok {
		if typed, ok := state.(*T); ok {
			return typed
		}
	}
	state := init()
	w.elementStates[key] = state
	return state
}

// scopedElementID namespaces a stable identity by the view rendering it, so
// two views using the same local id do not collide.
func (w *Window) scopedElementID(id ElementID) ElementID {
	if view, ok := w.CurrentView(); ok {
		return ElementID(fmt.Sprintf("%d/%s", view, id))
	}
	return id
}
