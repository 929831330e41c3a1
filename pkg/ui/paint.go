package ui

import (
	"github.com/go-verve/verve/pkg/geometry"
	"github.com/go-verve/verve/pkg/scene"
)

// The scoped paint helpers push a layer on entry and pop it on every exit
// path, including panics out of the nested callback, so the command stream
// stays balanced without manual push/pop pairing.

// WithOffset paints fn's commands translated by offset. Hitboxes registered
// inside fn are translated too.
func (w *Window) WithOffset(offset geometry.Point, fn func()) {
	w.scene.PushLayer(scene.Layer{Offset: offset, Opacity: 1})
	prev := w.paintOffset
	w.paintOffset = prev.Add(offset)
	defer func() {
		w.paintOffset = prev
		w.scene.PopLayer()
	}()
	fn()
}

// WithClip clips fn's commands to bounds.
func (w *Window) WithClip(bounds geometry.Bounds, fn func()) {
	w.scene.PushLayer(scene.Layer{Clip: bounds, HasClip: true, Opacity: 1})
	defer w.scene.PopLayer()
	fn()
}

// WithOpacity multiplies the opacity of fn's commands.
func (w *Window) WithOpacity(opacity float64, fn func()) {
	w.scene.PushLayer(scene.Layer{Opacity: opacity})
	defer w.scene.PopLayer()
	fn()
}

// WithContentMask masks fn's commands to the given bounds.
func (w *Window) WithContentMask(mask geometry.Bounds, fn func()) {
	w.scene.PushLayer(scene.Layer{ContentMask: &mask, Opacity: 1})
	defer w.scene.PopLayer()
	fn()
}

// WithLayer opens an explicit layer scope for fn's commands.
func (w *Window) WithLayer(layer scene.Layer, fn func()) {
	w.scene.PushLayer(layer)
	defer w.scene.PopLayer()
	fn()
}

// PaintQuad emits a quad in window coordinates.
func (w *Window) PaintQuad(quad scene.Quad) {
	w.scene.Quad(quad)
}

// PaintShadow emits a box shadow.
func (w *Window) PaintShadow(shadow scene.Shadow) {
	w.scene.Shadow(shadow)
}

// PaintUnderline emits an underline or strikethrough.
func (w *Window) PaintUnderline(underline scene.Underline) {
	w.scene.Underline(underline)
}

// PaintGlyphRun emits a run of shaped glyphs.
func (w *Window) PaintGlyphRun(run scene.GlyphRun) {
	w.scene.GlyphRun(run)
}

// PaintPath emits a filled path.
func (w *Window) PaintPath(path scene.Path) {
	w.scene.Path(path)
}

// PaintImage emits a decoded image.
func (w *Window) PaintImage(img scene.Image) {
	w.scene.Image(img)
}

// PaintSurface emits a platform surface placeholder.
func (w *Window) PaintSurface(surface scene.Surface) {
	w.scene.Surface(surface)
}
