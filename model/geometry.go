package model

import "math"

// Point represents a 2D point in page coordinates.
type Point struct {
	X, Y float64
}

// BBox represents an axis-aligned bounding box in page coordinates.
// Pages are rasters, so the coordinate system is y-down: (X0, Y0) is the
// top-left corner and (X1, Y1) the bottom-right, with X1 >= X0 and Y1 >= Y0.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// NewBBox creates a bounding box from two corner coordinates, normalizing
// them so that X0 <= X1 and Y0 <= Y1.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the box.
func (b BBox) Area() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Width() * b.Height()
}

// Center returns the center point of the box.
func (b BBox) Center() Point {
	return Point{
		X: (b.X0 + b.X1) / 2,
		Y: (b.Y0 + b.Y1) / 2,
	}
}

// IsValid returns true if the corners are properly ordered.
// A degenerate (zero width or height) box is still valid.
func (b BBox) IsValid() bool {
	return b.X1 >= b.X0 && b.Y1 >= b.Y0
}

// IsEmpty returns true if the box has no area.
func (b BBox) IsEmpty() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// ContainsPoint checks whether a point lies inside the box (inclusive).
func (b BBox) ContainsPoint(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 &&
		p.Y >= b.Y0 && p.Y <= b.Y1
}

// Contains checks whether other lies entirely inside the box.
func (b BBox) Contains(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 &&
		other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// Intersects checks whether two boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 ||
		b.X0 > other.X1 ||
		b.Y1 < other.Y0 ||
		b.Y0 > other.Y1)
}

// Intersection returns the overlapping region of two boxes, or the zero
// box if they do not overlap.
func (b BBox) Intersection(other BBox) BBox {
	r := BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
	if r.X1 < r.X0 || r.Y1 < r.Y0 {
		return BBox{}
	}
	return r
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// IoU returns the intersection-over-union overlap metric (0 to 1).
func (b BBox) IoU(other BBox) float64 {
	inter := b.Intersection(other).Area()
	if inter == 0 {
		return 0
	}
	union := b.Area() + other.Area() - inter
	if union == 0 {
		return 0
	}
	return inter / union
}

// OverlapRatio returns the intersection area divided by the smaller of the
// two box areas (0 to 1). This is the strict-containment overlap metric:
// a small box fully inside a large one scores 1 regardless of size ratio.
func (b BBox) OverlapRatio(other BBox) float64 {
	inter := b.Intersection(other).Area()
	if inter == 0 {
		return 0
	}
	minArea := math.Min(b.Area(), other.Area())
	if minArea == 0 {
		return 0
	}
	return inter / minArea
}

// ContainmentOf returns the fraction of other's area covered by b (0 to 1).
func (b BBox) ContainmentOf(other BBox) float64 {
	area := other.Area()
	if area == 0 {
		// Degenerate boxes fall back to center containment.
		if b.ContainsPoint(other.Center()) {
			return 1
		}
		return 0
	}
	return b.Intersection(other).Area() / area
}

// Expand grows the box by a margin on all sides.
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X0: b.X0 - margin,
		Y0: b.Y0 - margin,
		X1: b.X1 + margin,
		Y1: b.Y1 + margin,
	}
}

// HorizontalOverlap returns the length of the overlap of the two boxes'
// projections onto the x-axis, or 0 if the projections are disjoint.
func (b BBox) HorizontalOverlap(other BBox) float64 {
	lo := math.Max(b.X0, other.X0)
	hi := math.Min(b.X1, other.X1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// VerticalOverlap returns the length of the overlap of the two boxes'
// projections onto the y-axis, or 0 if the projections are disjoint.
func (b BBox) VerticalOverlap(other BBox) float64 {
	lo := math.Max(b.Y0, other.Y0)
	hi := math.Min(b.Y1, other.Y1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}
