// Package geometry provides the 2D primitives shared by layout, paint and
// hit testing.
package geometry

import "math"

// Point represents a 2D point or vector in pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Add returns the component-wise sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the component-wise difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Size represents width and height dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
}

// IsEmpty reports whether the size has no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Bounds represents a rectangle as an origin plus a size.
type Bounds struct {
	Origin Point
	Size   Size
}

// BoundsFromLTWH constructs Bounds from left, top, width, height values.
func BoundsFromLTWH(left, top, width, height float64) Bounds {
	return Bounds{
		Origin: Point{X: left, Y: top},
		Size:   Size{Width: width, Height: height},
	}
}

// Right returns the x coordinate of the right edge.
func (b Bounds) Right() float64 {
	return b.Origin.X + b.Size.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (b Bounds) Bottom() float64 {
	return b.Origin.Y + b.Size.Height
}

// Center returns the center point of the bounds.
func (b Bounds) Center() Point {
	return Point{
		X: b.Origin.X + b.Size.Width*0.5,
		Y: b.Origin.Y + b.Size.Height*0.5,
	}
}

// Contains reports whether the point lies inside the bounds. Points on the
// left/top edges are inside; points on the right/bottom edges are not.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Origin.X && p.X < b.Right() &&
		p.Y >= b.Origin.Y && p.Y < b.Bottom()
}

// Intersects reports whether two bounds overlap.
func (b Bounds) Intersects(other Bounds) bool {
	return b.Origin.X < other.Right() && other.Origin.X < b.Right() &&
		b.Origin.Y < other.Bottom() && other.Origin.Y < b.Bottom()
}

// Intersect returns the overlapping region of two bounds.
// Returns empty bounds if they don't overlap.
func (b Bounds) Intersect(other Bounds) Bounds {
	left := math.Max(b.Origin.X, other.Origin.X)
	top := math.Max(b.Origin.Y, other.Origin.Y)
	right := math.Min(b.Right(), other.Right())
	bottom := math.Min(b.Bottom(), other.Bottom())
	if left >= right || top >= bottom {
		return Bounds{}
	}
	return BoundsFromLTWH(left, top, right-left, bottom-top)
}

// Union returns the smallest bounds containing both inputs.
func (b Bounds) Union(other Bounds) Bounds {
	if b.Size.IsEmpty() {
		return other
	}
	if other.Size.IsEmpty() {
		return b
	}
	left := math.Min(b.Origin.X, other.Origin.X)
	top := math.Min(b.Origin.Y, other.Origin.Y)
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())
	return BoundsFromLTWH(left, top, right-left, bottom-top)
}

// Translate returns the bounds shifted by the given offset.
func (b Bounds) Translate(offset Point) Bounds {
	return Bounds{Origin: b.Origin.Add(offset), Size: b.Size}
}

// Inset returns the bounds shrunk by amount on every edge. A negative amount
// grows the bounds.
func (b Bounds) Inset(amount float64) Bounds {
	return BoundsFromLTWH(
		b.Origin.X+amount,
		b.Origin.Y+amount,
		b.Size.Width-2*amount,
		b.Size.Height-2*amount,
	)
}

// Edges represents per-side lengths (padding, margin, borders).
type Edges struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformEdges returns edges with the same value on every side.
func UniformEdges(value float64) Edges {
	return Edges{Top: value, Right: value, Bottom: value, Left: value}
}

// Corners represents per-corner radii for rounded rectangles.
type Corners struct {
	TopLeft     float64
	TopRight    float64
	BottomRight float64
	BottomLeft  float64
}

// UniformCorners returns corners with the same radius everywhere.
func UniformCorners(radius float64) Corners {
	return Corners{TopLeft: radius, TopRight: radius, BottomRight: radius, BottomLeft: radius}
}
