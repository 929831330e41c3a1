// Package layout defines the contract between the element tree and the
// external geometry solver.
//
// The runtime builds solver nodes bottom-up during request-layout, asks the
// solver to compute the whole tree once, and queries resolved bounds
// top-down during prepaint and paint. The concrete flex/grid algorithm lives
// behind the Engine interface.
package layout

import "github.com/go-verve/verve/pkg/geometry"

// NodeID identifies one node in the solver's layout tree for one frame.
type NodeID int

// InvalidNode is the zero NodeID; the solver never returns it.
const InvalidNode NodeID = 0

// Sizing describes how one axis of a node is sized.
type Sizing int

const (
	// SizingAuto lets the solver choose from content.
	SizingAuto Sizing = iota
	// SizingFixed uses the style's explicit pixel value.
	SizingFixed
	// SizingFill expands into the available space.
	SizingFill
)

// Style is the input record handed to the solver for one node. It is
// deliberately small; the declarative style-builder surface that produces
// richer records is out of scope.
type Style struct {
	WidthSizing  Sizing
	HeightSizing Sizing
	Width        float64
	Height       float64
	Margin       geometry.Edges
	Padding      geometry.Edges
}

// FixedStyle returns a style with explicit pixel dimensions.
func FixedStyle(width, height float64) Style {
	return Style{
		WidthSizing:  SizingFixed,
		HeightSizing: SizingFixed,
		Width:        width,
		Height:       height,
	}
}

// Engine is the external layout solver boundary.
type Engine interface {
	// RequestNode registers a node with the given style and already
	// registered children, returning its id. Called bottom-up during the
	// request-layout phase.
	RequestNode(style Style, children ...NodeID) NodeID

	// Compute solves the tree rooted at root within the available space.
	// Called once per frame between request-layout and prepaint.
	Compute(root NodeID, available geometry.Size)

	// Bounds returns the resolved bounds of a node after Compute. Queried
	// top-down during prepaint and paint.
	Bounds(id NodeID) geometry.Bounds

	// Clear drops all nodes at the start of a frame.
	Clear()
}
