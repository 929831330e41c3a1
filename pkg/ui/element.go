package ui

import (
	"fmt"

	"github.com/go-verve/verve/pkg/arena"
	"github.com/go-verve/verve/pkg/geometry"
	"github.com/go-verve/verve/pkg/layout"
)

// ElementID is an optional stable identity correlating per-element
// persistent state (scroll offsets, caret positions) across frames, even
// though the element node itself is reallocated every frame.
type ElementID string

// Element is one node of the per-frame tree. The three phases run in order,
// depth-first, each carrying typed state forward:
//
//  1. RequestLayout registers the node with the external layout solver,
//     children first, and returns the solver node plus layout-phase state.
//  2. Prepaint receives the resolved bounds and computes whatever painting
//     needs from final geometry: hitbox registration, deferred scheduling.
//  3. Paint emits draw commands into the window's scene.
type Element[L, P any] interface {
	RequestLayout(w *Window) (layout.NodeID, L)
	Prepaint(bounds geometry.Bounds, layoutState L, w *Window) P
	Paint(bounds geometry.Bounds, layoutState L, prepaintState P, w *Window)
}

type elementPhase int

const (
	phaseStart elementPhase = iota
	phaseRequested
	phasePrepainted
	phasePainted
)

func (p elementPhase) String() string {
	switch p {
	case phaseStart:
		return "start"
	case phaseRequested:
		return "layout requested"
	case phasePrepainted:
		return "prepainted"
	case phasePainted:
		return "painted"
	default:
		return "unknown"
	}
}

// erasedElement drives one element through its phases with the typed states
// captured in closures.
type erasedElement struct {
	phase    elementPhase
	layoutID layout.NodeID
	request  func(w *Window) layout.NodeID
	prepaint func(bounds geometry.Bounds, w *Window)
	paint    func(bounds geometry.Bounds, w *Window)
}

// AnyElement is the type-erased element handle the tree walk operates on.
// The handle is arena-backed: it dies with the frame that produced it.
type AnyElement struct {
	box arena.Box[erasedElement]
}

// Erase wraps a typed element for the tree walk, allocating its phase
// record in the window's frame arena.
func Erase[L, P any](w *Window, el Element[L, P]) AnyElement {
	var layoutState L
	var prepaintState P
	box, err := arena.Alloc(w.arena, func() *erasedElement { return &erasedElement{} })
	if err != nil {
		// The frame arena overflowed; grow for the next frame and fall
		// back to a heap node so this frame still completes.
		w.app.log.Warn("frame arena overflow", "capacity", w.arena.Cap())
		w.arenaOverflow = true
		heap := &erasedElement{}
		box = arena.Adopt(w.arena, heap)
	}
	node := box.Get()
	node.request = func(w *Window) layout.NodeID {
		id, state := el.RequestLayout(w)
		layoutState = state
		return id
	}
	node.prepaint = func(bounds geometry.Bounds, w *Window) {
		prepaintState = el.Prepaint(bounds, layoutState, w)
	}
	node.paint = func(bounds geometry.Bounds, w *Window) {
		el.Paint(bounds, layoutState, prepaintState, w)
	}
	return AnyElement{box: box}
}

// RequestLayout runs the first phase and returns the solver node id.
func (e AnyElement) RequestLayout(w *Window) layout.NodeID {
	node := e.box.Get()
	if node.phase != phaseStart {
		panic(fmt.Sprintf("ui: RequestLayout on element in phase %q", node.phase))
	}
	node.layoutID = node.request(w)
	node.phase = phaseRequested
	return node.layoutID
}

// LayoutID returns the solver node registered during RequestLayout.
func (e AnyElement) LayoutID() layout.NodeID {
	return e.box.Get().layoutID
}

// Prepaint runs the second phase against the node's resolved bounds.
func (e AnyElement) Prepaint(w *Window) {
	node := e.box.Get()
	if node.phase != phaseRequested {
		panic(fmt.Sprintf("ui: Prepaint on element in phase %q", node.phase))
	}
	node.prepaint(w.layoutEngine.Bounds(node.layoutID), w)
	node.phase = phasePrepainted
}

// Paint runs the final phase, emitting draw commands.
func (e AnyElement) Paint(w *Window) {
	node := e.box.Get()
	if node.phase != phasePrepainted {
		panic(fmt.Sprintf("ui: Paint on element in phase %q", node.phase))
	}
	node.paint(w.layoutEngine.Bounds(node.layoutID), w)
	node.phase = phasePainted
}
