// Package scene accumulates the per-frame draw-command stream.
//
// Commands are recorded as typed op structs in paint order and replayed onto
// a Renderer, the external GPU boundary. Layer scoping (clip, offset,
// opacity, content mask) is part of the stream itself: a push op opens a
// scope and the matching pop op closes it, so a renderer can maintain its
// own stack while replaying.
package scene

import (
	"fmt"

	"github.com/go-verve/verve/pkg/geometry"
)

// Color is a straight-alpha RGBA color with float components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Opaque reports whether the color has full alpha.
func (c Color) Opaque() bool {
	return c.A >= 1
}

// Layer describes one scoped paint state: an offset applied to descendant
// commands, a clip, an opacity multiplier and an optional content mask.
type Layer struct {
	Offset      geometry.Point
	Clip        geometry.Bounds
	HasClip     bool
	Opacity     float64
	ContentMask *geometry.Bounds
}

// Renderer consumes a replayed draw-command stream. Implementations are
// external; commands arrive in correct paint order with scoping resolved
// into balanced push/pop pairs.
type Renderer interface {
	PushLayer(layer Layer)
	PopLayer()
	DrawQuad(quad Quad)
	DrawShadow(shadow Shadow)
	DrawUnderline(underline Underline)
	DrawGlyphRun(run GlyphRun)
	DrawPath(path Path)
	DrawImage(img Image)
	DrawSurface(surface Surface)
}

// Scene is the ordered command stream for one frame.
type Scene struct {
	ops   []sceneOp
	depth int
}

// Reset drops all recorded commands, reusing backing storage.
func (s *Scene) Reset() {
	s.ops = s.ops[:0]
	s.depth = 0
}

// Len returns the number of recorded commands.
func (s *Scene) Len() int {
	return len(s.ops)
}

// Replay walks the command stream in paint order.
func (s *Scene) Replay(r Renderer) {
	for _, op := range s.ops {
		op.execute(r)
	}
}

// Finish validates that every pushed layer was popped. An unbalanced stream
// is a programming error in an element's paint phase.
func (s *Scene) Finish() error {
	if s.depth != 0 {
		return fmt.Errorf("scene: %d unbalanced layer push(es)", s.depth)
	}
	return nil
}

func (s *Scene) append(op sceneOp) {
	s.ops = append(s.ops, op)
}

// PushLayer records the start of a scoped layer.
func (s *Scene) PushLayer(layer Layer) {
	s.depth++
	s.append(opPushLayer{layer: layer})
}

// PopLayer records the end of the innermost scoped layer.
func (s *Scene) PopLayer() {
	if s.depth == 0 {
		panic("scene: PopLayer without matching PushLayer")
	}
	s.depth--
	s.append(opPopLayer{})
}

// Quad appends a quad command.
func (s *Scene) Quad(quad Quad) {
	s.append(opQuad{quad: quad})
}

// Shadow appends a shadow command.
func (s *Scene) Shadow(shadow Shadow) {
	s.append(opShadow{shadow: shadow})
}

// Underline appends an underline or strikethrough command.
func (s *Scene) Underline(underline Underline) {
	s.append(opUnderline{underline: underline})
}

// GlyphRun appends a glyph run command.
func (s *Scene) GlyphRun(run GlyphRun) {
	s.append(opGlyphRun{run: run})
}

// Path appends a path command.
func (s *Scene) Path(path Path) {
	s.append(opPath{path: path})
}

// Image appends an image command.
func (s *Scene) Image(img Image) {
	s.append(opImage{img: img})
}

// Surface appends a platform surface command.
func (s *Scene) Surface(surface Surface) {
	s.append(opSurface{surface: surface})
}

type sceneOp interface {
	execute(r Renderer)
}

type opPushLayer struct {
	layer Layer
}

func (op opPushLayer) execute(r Renderer) {
	r.PushLayer(op.layer)
}

type opPopLayer struct{}

func (opPopLayer) execute(r Renderer) {
	r.PopLayer()
}

type opQuad struct {
	quad Quad
}

func (op opQuad) execute(r Renderer) {
	r.DrawQuad(op.quad)
}

type opShadow struct {
	shadow Shadow
}

func (op opShadow) execute(r Renderer) {
	r.DrawShadow(op.shadow)
}

type opUnderline struct {
	underline Underline
}

func (op opUnderline) execute(r Renderer) {
	r.DrawUnderline(op.underline)
}

type opGlyphRun struct {
	run GlyphRun
}

func (op opGlyphRun) execute(r Renderer) {
	r.DrawGlyphRun(op.run)
}

type opPath struct {
	path Path
}

func (op opPath) execute(r Renderer) {
	r.DrawPath(op.path)
}

type opImage struct {
	img Image
}

func (op opImage) execute(r Renderer) {
	r.DrawImage(op.img)
}

type opSurface struct {
	surface Surface
}

func (op opSurface) execute(r Renderer) {
	r.DrawSurface(op.surface)
}
