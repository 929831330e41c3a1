// Package uitest provides the stub collaborators package tests drive the
// runtime with: a fixed-geometry layout solver, a command-recording
// renderer, and app/window fixtures on the inline test dispatcher.
package uitest

import (
	"github.com/go-verve/verve/pkg/geometry"
	"github.com/go-verve/verve/pkg/layout"
	"github.com/go-verve/verve/pkg/platform"
	"github.com/go-verve/verve/pkg/scene"
	"github.com/go-verve/verve/pkg/ui"
)

// LayoutStub is a trivial layout.Engine: a node's origin comes from its
// margin's left/top, its size from the style (or the available space for
// fill sizing). No flex solving happens; tests choose geometry explicitly.
type LayoutStub struct {
	styles    map[layout.NodeID]layout.Style
	bounds    map[layout.NodeID]geometry.Bounds
	children  map[layout.NodeID][]layout.NodeID
	nextID    layout.NodeID
	available geometry.Size
}

// NewLayoutStub returns an empty stub solver.
func NewLayoutStub() *LayoutStub {
	s := &LayoutStub{}
	s.Clear()
	return s
}

// RequestNode registers a node bottom-up.
func (s *LayoutStub) RequestNode(style layout.Style, children ...layout.NodeID) layout.NodeID {
	s.nextID++
	id := s.nextID
	s.styles[id] = style
	s.children[id] = children
	return id
}

// Compute resolves every registered node against the available space.
func (s *LayoutStub) Compute(root layout.NodeID, available geometry.Size) {
	s.available = available
	for id, style := range s.styles {
		size := geometry.Size{Width: style.Width, Height: style.Height}
		if style.WidthSizing == layout.SizingFill {
			size.Width = available.Width
		}
		if style.HeightSizing == layout.SizingFill {
			size.Height = available.Height
		}
		s.bounds[id] = geometry.Bounds{
			Origin: geometry.Point{X: style.Margin.Left, Y: style.Margin.Top},
			Size:   size,
		}
	}
}

// Bounds returns a node's resolved bounds.
func (s *LayoutStub) Bounds(id layout.NodeID) geometry.Bounds {
	return s.bounds[id]
}

// Clear drops all nodes.
func (s *LayoutStub) Clear() {
	s.styles = make(map[layout.NodeID]layout.Style)
	s.bounds = make(map[layout.NodeID]geometry.Bounds)
	s.children = make(map[layout.NodeID][]layout.NodeID)
	s.nextID = 0
}

// RecordingRenderer captures replayed commands for assertions.
type RecordingRenderer struct {
	Calls  []string
	Quads  []scene.Quad
	Layers []scene.Layer
	depth  int
}

func (r *RecordingRenderer) PushLayer(layer scene.Layer) {
	r.depth++
	r.Layers = append(r.Layers, layer)
	r.Calls = append(r.Calls, "push")
}

func (r *RecordingRenderer) PopLayer() {
	r.depth--
	r.Calls = append(r.Calls, "pop")
}

func (r *RecordingRenderer) DrawQuad(q scene.Quad) {
	r.Quads = append(r.Quads, q)
	r.Calls = append(r.Calls, "quad")
}

func (r *RecordingRenderer) DrawShadow(scene.Shadow)       { r.Calls = append(r.Calls, "shadow") }
func (r *RecordingRenderer) DrawUnderline(scene.Underline) { r.Calls = append(r.Calls, "underline") }
func (r *RecordingRenderer) DrawGlyphRun(scene.GlyphRun)   { r.Calls = append(r.Calls, "glyphs") }
func (r *RecordingRenderer) DrawPath(scene.Path)           { r.Calls = append(r.Calls, "path") }
func (r *RecordingRenderer) DrawImage(scene.Image)         { r.Calls = append(r.Calls, "image") }
func (r *RecordingRenderer) DrawSurface(scene.Surface)     { r.Calls = append(r.Calls, "surface") }

// Balanced reports whether every pushed layer was popped during replay.
func (r *RecordingRenderer) Balanced() bool {
	return r.depth == 0
}

// NewApp returns an app on the inline test dispatcher.
func NewApp() *ui.App {
	return ui.NewApp(platform.TestDispatcher{})
}

// NewWindow returns an app plus a window wired to a stub solver and a
// recording renderer.
func NewWindow(size geometry.Size) (*ui.App, *ui.Window, *RecordingRenderer) {
	app := NewApp()
	renderer := &RecordingRenderer{}
	w := app.NewWindow(size, NewLayoutStub(), renderer)
	return app, w, renderer
}
