package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-verve/verve/pkg/geometry"
	"github.com/go-verve/verve/pkg/layout"
	"github.com/go-verve/verve/pkg/ui"
)

func TestElementPhaseOrderEnforced(t *testing.T) {
	app, w, _ := newTestWindow(geometry.Size{Width: 100, Height: 100})

	var stray ui.AnyElement
	view := ui.NewEntity(app, func(*ui.Context[rootView]) *rootView {
		return &rootView{build: func(w *ui.Window) ui.AnyElement {
			stray = ui.Erase(w, &box{name: "stray", style: layout.FixedStyle(5, 5)})
			return ui.Erase(w, &box{name: "root", style: layout.FixedStyle(10, 10)})
		}}
	})
	w.SetRoot(view.Erase())
	require.NoError(t, w.Draw())

	// The stray element never went through RequestLayout, so later phases
	// must refuse to run.
	assert.Panics(t, func() { stray.Prepaint(w) })
	assert.Panics(t, func() { stray.Paint(w) })
}

func TestFrameNodesDieWithTheFrame(t *testing.T) {
	app, w, _ := newTestWindow(geometry.Size{Width: 100, Height: 100})

	var captured []ui.AnyElement
	view := ui.NewEntity(app, func(*ui.Context[rootView]) *rootView {
		return &rootView{build: func(w *ui.Window) ui.AnyElement {
			el := ui.Erase(w, &box{name: "root", style: layout.FixedStyle(10, 10)})
			captured = append(captured, el)
			return el
		}}
	})
	w.SetRoot(view.Erase())

	require.NoError(t, w.Draw())
	require.NoError(t, w.Draw())

	// The first frame's node was invalidated by the second frame's arena
	// clear; the current frame's node is still live.
	assert.Panics(t, func() { captured[0].LayoutID() })
	assert.NotPanics(t, func() { captured[1].LayoutID() })
}

func TestScopedPaintStateUnwindsOnPanic(t *testing.T) {
	_, w, _ := newTestWindow(geometry.Size{Width: 100, Height: 100})

	func() {
		defer func() { recover() }()
		w.WithOpacity(0.5, func() {
			w.WithClip(geometry.BoundsFromLTWH(0, 0, 10, 10), func() {
				panic("paint failure")
			})
		})
	}()

	require.NoError(t, w.Scene().Finish(),
		"layers pushed by scoped helpers must pop on every exit path")
}
