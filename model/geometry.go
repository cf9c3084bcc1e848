package model

import "math"

// Rect represents an axis-aligned rectangle in page space.
// The origin is the top-left corner of the page and Y grows downward.
type Rect struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// NewRect creates a rectangle from two corners in any order
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Top returns the top edge Y coordinate
func (r Rect) Top() float64 {
	return r.Y0
}

// Bottom returns the bottom edge Y coordinate
func (r Rect) Bottom() float64 {
	return r.Y1
}

// IsEmpty returns true if the rectangle has zero area
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Union returns the smallest rectangle containing both rectangles.
// The zero Rect does not contribute to the union.
func (r Rect) Union(other Rect) Rect {
	if r == (Rect{}) {
		return other
	}
	if other == (Rect{}) {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Intersects checks if two rectangles overlap
func (r Rect) Intersects(other Rect) bool {
	return !(r.X1 < other.X0 ||
		r.X0 > other.X1 ||
		r.Y1 < other.Y0 ||
		r.Y0 > other.Y1)
}
