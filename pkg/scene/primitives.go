package scene

import (
	"image"

	"golang.org/x/image/math/fixed"

	"github.com/go-verve/verve/pkg/geometry"
)

// Quad is a filled rectangle with optional rounded corners and border.
type Quad struct {
	Bounds       geometry.Bounds
	Background   Color
	Corners      geometry.Corners
	BorderWidths geometry.Edges
	BorderColor  Color
}

// Shadow is a box shadow painted behind content.
type Shadow struct {
	Bounds     geometry.Bounds
	Corners    geometry.Corners
	Color      Color
	BlurRadius float64
	Spread     float64
	Offset     geometry.Point
}

// UnderlineStyle selects the line decoration variant.
type UnderlineStyle int

const (
	// UnderlineSolid is a plain underline.
	UnderlineSolid UnderlineStyle = iota
	// UnderlineWavy is a squiggle underline.
	UnderlineWavy
	// UnderlineStrikethrough strikes through the text.
	UnderlineStrikethrough
)

// Underline is an underline or strikethrough decoration.
type Underline struct {
	Origin    geometry.Point
	Width     float64
	Thickness float64
	Color     Color
	Style     UnderlineStyle
}

// Glyph is one shaped glyph positioned in 26.6 fixed point, the format the
// external shaper and rasterizer exchange.
type Glyph struct {
	ID       uint32
	Position fixed.Point26_6
}

// GlyphRun is a run of shaped glyphs sharing one font and color. Shaping
// itself is external; the runtime only carries the run through the stream.
type GlyphRun struct {
	Origin   geometry.Point
	FontID   int
	FontSize fixed.Int26_6
	Color    Color
	Glyphs   []Glyph
}

// PathVerb is one path-building step.
type PathVerb int

const (
	// VerbMoveTo starts a new contour.
	VerbMoveTo PathVerb = iota
	// VerbLineTo adds a straight segment.
	VerbLineTo
	// VerbQuadTo adds a quadratic Bezier segment.
	VerbQuadTo
	// VerbClose closes the contour.
	VerbClose
)

// PathSegment is one verb plus its control points.
type PathSegment struct {
	Verb    PathVerb
	Point   geometry.Point
	Control geometry.Point
}

// Path is an arbitrary filled path.
type Path struct {
	Segments []PathSegment
	Color    Color
}

// Image draws a decoded image into the given bounds.
type Image struct {
	Bounds  geometry.Bounds
	Data    image.Image
	Corners geometry.Corners
	Opacity float64
}

// Surface reserves bounds for an external platform surface (video frame,
// native view) composited by the renderer.
type Surface struct {
	Bounds geometry.Bounds
	ID     uint64
}
