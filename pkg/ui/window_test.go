package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-verve/verve/pkg/geometry"
	"github.com/go-verve/verve/pkg/keymap"
	"github.com/go-verve/verve/pkg/layout"
	"github.com/go-verve/verve/pkg/scene"
	"github.com/go-verve/verve/pkg/ui"
	"github.com/go-verve/verve/pkg/uitest"
)

func newTestWindow(size geometry.Size) (*ui.App, *ui.Window, *uitest.RecordingRenderer) {
	return uitest.NewWindow(size)
}

// box is a minimal test element: it registers a hitbox over its bounds
// during prepaint, paints one quad, and walks its children depth-first.
// Children listed in deferPriority are handed to the deferred-draw queue
// instead of painting inline.
type box struct {
	name          string
	style         layout.Style
	opaque        bool
	children      []*box
	deferPriority map[int]int

	paintLog *[]string
	hitboxes map[string]ui.Hitbox
}

func (b *box) RequestLayout(w *ui.Window) (layout.NodeID, []ui.AnyElement) {
	kids := make([]ui.AnyElement, len(b.children))
	ids := make([]layout.NodeID, len(b.children))
	for i, child := range b.children {
		kids[i] = ui.Erase(w, child)
		ids[i] = kids[i].RequestLayout(w)
	}
	return w.LayoutEngine().RequestNode(b.style, ids...), kids
}

func (b *box) Prepaint(bounds geometry.Bounds, kids []ui.AnyElement, w *ui.Window) []ui.AnyElement {
	if b.hitboxes != nil {
		b.hitboxes[b.name] = w.InsertHitbox(bounds, b.opaque)
	}
	for i, kid := range kids {
		if priority, ok := b.deferPriority[i]; ok {
			w.DeferDraw(kid, priority)
			continue
		}
		kid.Prepaint(w)
	}
	return kids
}

func (b *box) Paint(bounds geometry.Bounds, kids, _ []ui.AnyElement, w *ui.Window) {
	if b.paintLog != nil {
		*b.paintLog = append(*b.paintLog, b.name)
	}
	w.PaintQuad(scene.Quad{Bounds: bounds})
	for i, kid := range kids {
		if _, ok := b.deferPriority[i]; ok {
			continue
		}
		kid.Paint(w)
	}
}

// rootView adapts a build func into a renderable entity.
type rootView struct {
	build func(w *ui.Window) ui.AnyElement
}

func (v *rootView) Render(w *ui.Window) ui.AnyElement {
	return v.build(w)
}

func drawTree(t *testing.T, root *box) (*ui.App, *ui.Window, *uitest.RecordingRenderer) {
	t.Helper()
	app, w, renderer := newTestWindow(geometry.Size{Width: 100, Height: 100})
	view := ui.NewEntity(app, func(*ui.Context[rootView]) *rootView {
		return &rootView{build: func(w *ui.Window) ui.AnyElement {
			return ui.Erase(w, root)
		}}
	})
	w.SetRoot(view.Erase())
	require.NoError(t, w.Draw())
	return app, w, renderer
}

func overlappingBounds() layout.Style {
	return layout.FixedStyle(10, 10)
}

func TestHitTestTopmostWins(t *testing.T) {
	var log []string
	hitboxes := map[string]ui.Hitbox{}
	root := &box{
		name:     "root",
		style:    layout.FixedStyle(100, 100),
		paintLog: &log,
		hitboxes: hitboxes,
		children: []*box{
			{name: "A", style: overlappingBounds(), paintLog: &log, hitboxes: hitboxes},
			{name: "B", style: overlappingBounds(), paintLog: &log, hitboxes: hitboxes},
			{name: "C", style: overlappingBounds(), paintLog: &log, hitboxes: hitboxes},
		},
	}
	_, w, _ := drawTree(t, root)

	assert.Equal(t, []string{"root", "A", "B", "C"}, log)

	hit, ok := w.TopHit(geometry.Point{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, hitboxes["C"].ID, hit.ID, "last painted wins")
}

func TestHitTestOpaqueBeatsLaterTransparent(t *testing.T) {
	hitboxes := map[string]ui.Hitbox{}
	root := &box{
		name:     "root",
		style:    layout.FixedStyle(100, 100),
		children: []*box{
			{name: "A", style: overlappingBounds(), hitboxes: hitboxes},
			{name: "B", style: overlappingBounds(), opaque: true, hitboxes: hitboxes},
			{name: "C", style: overlappingBounds(), hitboxes: hitboxes},
		},
	}
	_, w, _ := drawTree(t, root)

	hit, ok := w.TopHit(geometry.Point{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, hitboxes["B"].ID, hit.ID,
		"opaque B wins over later-painted transparent C")

	// Hover propagates through transparent C to opaque B, but A beneath
	// the opaque hitbox is blocked.
	w.UpdateMousePosition(geometry.Point{X: 5, Y: 5})
	assert.True(t, hitboxes["C"].IsHovered(w))
	assert.True(t, hitboxes["B"].IsHovered(w))
	assert.False(t, hitboxes["A"].IsHovered(w))
}

func TestHitTestOpaqueTopmost(t *testing.T) {
	hitboxes := map[string]ui.Hitbox{}
	root := &box{
		name:  "root",
		style: layout.FixedStyle(100, 100),
		children: []*box{
			{name: "B", style: overlappingBounds(), opaque: true, hitboxes: hitboxes},
			{name: "C", style: overlappingBounds(), opaque: true, hitboxes: hitboxes},
		},
	}
	_, w, _ := drawTree(t, root)

	hit, ok := w.TopHit(geometry.Point{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, hitboxes["C"].ID, hit.ID, "paint order is the sole tie-break")
}

func TestHitTestReflectsLatestFrameOnly(t *testing.T) {
	hitboxes := map[string]ui.Hitbox{}
	leaf := &box{name: "leaf", style: overlappingBounds(), hitboxes: hitboxes}
	root := &box{name: "root", style: layout.FixedStyle(100, 100), children: []*box{leaf}}
	_, w, _ := drawTree(t, root)

	first := hitboxes["leaf"]
	require.True(t, first.Bounds.Contains(geometry.Point{X: 5, Y: 5}))

	// Move the leaf and redraw; the old frame's hitbox must be gone.
	leaf.style.Margin = geometry.Edges{Left: 50, Top: 50}
	require.NoError(t, w.Draw())

	w.UpdateMousePosition(geometry.Point{X: 5, Y: 5})
	assert.False(t, first.IsHovered(w), "stale entries from the previous frame are never consulted")

	hit, ok := w.TopHit(geometry.Point{X: 55, Y: 55})
	require.True(t, ok)
	assert.Equal(t, hitboxes["leaf"].ID, hit.ID)
}

func TestDeferredElementsPaintByPriority(t *testing.T) {
	var log []string
	root := &box{
		name:     "root",
		style:    layout.FixedStyle(100, 100),
		paintLog: &log,
		// Children 1 and 2 are deferred; 2 registers first with the
		// higher priority.
		deferPriority: map[int]int{1: 10, 2: 5},
		children: []*box{
			{name: "A", style: overlappingBounds(), paintLog: &log},
			{name: "D10", style: overlappingBounds(), paintLog: &log},
			{name: "D5", style: overlappingBounds(), paintLog: &log},
			{name: "B", style: overlappingBounds(), paintLog: &log},
		},
	}
	drawTree(t, root)

	assert.Equal(t, []string{"root", "A", "B", "D5", "D10"}, log,
		"deferred paint strictly after the main tree, ascending priority")
}

func TestDeferredEqualPriorityKeepsRegistrationOrder(t *testing.T) {
	var log []string
	root := &box{
		name:          "root",
		style:         layout.FixedStyle(100, 100),
		paintLog:      &log,
		deferPriority: map[int]int{0: 5, 1: 5, 2: 5},
		children: []*box{
			{name: "first", style: overlappingBounds(), paintLog: &log},
			{name: "second", style: overlappingBounds(), paintLog: &log},
			{name: "third", style: overlappingBounds(), paintLog: &log},
		},
	}
	drawTree(t, root)

	assert.Equal(t, []string{"root", "first", "second", "third"}, log)
}

func TestDeferredHitboxesLandAboveMainTree(t *testing.T) {
	hitboxes := map[string]ui.Hitbox{}
	root := &box{
		name:          "root",
		style:         layout.FixedStyle(100, 100),
		deferPriority: map[int]int{0: 1},
		children: []*box{
			{name: "overlay", style: overlappingBounds(), hitboxes: hitboxes},
			{name: "content", style: overlappingBounds(), hitboxes: hitboxes},
		},
	}
	_, w, _ := drawTree(t, root)

	hit, ok := w.TopHit(geometry.Point{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, hitboxes["overlay"].ID, hit.ID,
		"deferred overlay hit-tests above normally painted content")
}

func TestSceneReplayedToRenderer(t *testing.T) {
	root := &box{
		name:  "root",
		style: layout.FixedStyle(100, 100),
		children: []*box{
			{name: "A", style: overlappingBounds()},
		},
	}
	_, _, renderer := drawTree(t, root)

	assert.Len(t, renderer.Quads, 2)
	assert.True(t, renderer.Balanced())
}

func TestRedrawScheduling(t *testing.T) {
	app, w, _ := newTestWindow(geometry.Size{Width: 100, Height: 100})
	view := ui.NewEntity(app, func(*ui.Context[rootView]) *rootView {
		return &rootView{build: func(w *ui.Window) ui.AnyElement {
			return ui.Erase(w, &box{name: "root", style: layout.FixedStyle(10, 10)})
		}}
	})
	w.SetRoot(view.Erase())

	require.True(t, w.NeedsRedraw(), "new root requires a first frame")
	require.NoError(t, w.Draw())
	assert.False(t, w.NeedsRedraw())

	state := ui.NewEntity(app, func(*ui.Context[model]) *model { return &model{} })
	_, err := ui.Update(app, state, func(m *model, cx *ui.Context[model]) any {
		m.value++
		return nil
	})
	require.NoError(t, err)
	assert.True(t, w.NeedsRedraw(), "entity mutation flags the window dirty")
}

func TestElementStatePersistsAcrossFrames(t *testing.T) {
	app, w, _ := newTestWindow(geometry.Size{Width: 100, Height: 100})

	type scrollState struct {
		offset float64
	}
	view := ui.NewEntity(app, func(*ui.Context[rootView]) *rootView {
		return &rootView{build: func(w *ui.Window) ui.AnyElement {
			state := ui.ElementState(w, "scroll", func() *scrollState { return &scrollState{} })
			state.offset += 10
			return ui.Erase(w, &box{name: "root", style: layout.FixedStyle(10, 10)})
		}}
	})
	w.SetRoot(view.Erase())

	require.NoError(t, w.Draw())
	require.NoError(t, w.Draw())
	require.NoError(t, w.Draw())

	// Read the state back the same way the element would.
	var got float64
	w.WithView(view.EntityID(), func() {
		got = ui.ElementState(w, "scroll", func() *scrollState { return &scrollState{} }).offset
	})
	assert.Equal(t, float64(30), got, "stable identity correlates state across reallocated nodes")
}

func TestFocusTransitionNotifiesOldBeforeNew(t *testing.T) {
	_, w, _ := newTestWindow(geometry.Size{Width: 100, Height: 100})

	h1 := w.NewFocusHandle()
	h2 := w.NewFocusHandle()

	var order []string
	w.ObserveFocus(h1, func(focused bool) {
		if focused {
			order = append(order, "h1-in")
		} else {
			order = append(order, "h1-out")
		}
	})
	w.ObserveFocus(h2, func(focused bool) {
		if focused {
			order = append(order, "h2-in")
		} else {
			order = append(order, "h2-out")
		}
	})

	w.Focus(h1)
	require.Equal(t, []string{"h1-in"}, order)
	require.True(t, h1.IsFocused(w))

	order = nil
	w.Focus(h2)
	assert.Equal(t, []string{"h1-out", "h2-in"}, order, "focus out before focus in, once each")
	assert.False(t, h1.IsFocused(w))
	assert.True(t, h2.IsFocused(w))

	order = nil
	w.Focus(h2)
	assert.Empty(t, order, "refocusing the focused handle is a no-op")

	w.Blur()
	assert.Equal(t, []string{"h2-out"}, order)
	_, ok := w.FocusedID()
	assert.False(t, ok)
}

func TestReleasedFocusHandleReportsUnfocused(t *testing.T) {
	_, w, _ := newTestWindow(geometry.Size{Width: 100, Height: 100})

	h := w.NewFocusHandle()
	w.Focus(h)
	require.True(t, h.IsFocused(w))

	h.Release()
	assert.False(t, h.IsFocused(w), "stale focus degrades gracefully")
	_, ok := w.FocusedID()
	assert.False(t, ok)
}

// scriptedMatcher is a canned external keymap matcher.
type scriptedMatcher struct {
	gotContexts  []keymap.Context
	gotSequences [][]keymap.Keystroke
}

func (m *scriptedMatcher) Match(contexts []keymap.Context, pending []keymap.Keystroke) keymap.Result {
	m.gotContexts = append([]keymap.Context(nil), contexts...)
	seq := append([]keymap.Keystroke(nil), pending...)
	m.gotSequences = append(m.gotSequences, seq)
	if len(seq) == 1 && seq[0] == "ctrl-k" {
		return keymap.Result{Pending: true}
	}
	if len(seq) == 2 && seq[0] == "ctrl-k" && seq[1] == "ctrl-d" {
		return keymap.Result{Action: "editor.duplicate"}
	}
	return keymap.Result{}
}

func TestKeyDispatchThreadsContextsAndPendingState(t *testing.T) {
	app, w, _ := newTestWindow(geometry.Size{Width: 100, Height: 100})
	matcher := &scriptedMatcher{}
	w.SetKeymapMatcher(matcher)

	view := ui.NewEntity(app, func(*ui.Context[rootView]) *rootView {
		return &rootView{build: func(w *ui.Window) ui.AnyElement {
			var el ui.AnyElement
			w.WithKeyContext("workspace", func() {
				w.WithKeyContext("editor", func() {
					el = ui.Erase(w, &box{name: "root", style: layout.FixedStyle(10, 10)})
				})
			})
			return el
		}}
	})
	w.SetRoot(view.Erase())
	require.NoError(t, w.Draw())

	dispatched := 0
	w.RegisterAction("editor.duplicate", func() { dispatched++ })

	pending := w.DispatchKeystroke("ctrl-k")
	assert.True(t, pending, "prefix of a multi-key binding stays pending")
	assert.Equal(t, 0, dispatched)

	pending = w.DispatchKeystroke("ctrl-d")
	assert.False(t, pending)
	assert.Equal(t, 1, dispatched)
	assert.Equal(t, []keymap.Context{"workspace", "editor"}, matcher.gotContexts,
		"context layers arrive outermost first")

	// A non-matching keystroke clears the pending sequence.
	w.DispatchKeystroke("escape")
	assert.Equal(t, []keymap.Keystroke{"escape"}, matcher.gotSequences[len(matcher.gotSequences)-1])
}
