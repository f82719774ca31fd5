package model

import "math"

// BBox represents a rectangular area in page coordinate space.
// The origin is the top-left corner of the page; Y grows downward.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the X coordinate of the right edge.
func (b BBox) Right() float64 {
	return b.X + b.W
}

// Bottom returns the Y coordinate of the bottom edge.
func (b BBox) Bottom() float64 {
	return b.Y + b.H
}

// CenterY returns the vertical center of the box.
func (b BBox) CenterY() float64 {
	return b.Y + b.H/2
}

// VerticalOverlap returns the height of the Y-range shared by both boxes,
// or 0 when they do not overlap vertically.
func (b BBox) VerticalOverlap(other BBox) float64 {
	top := math.Max(b.Y, other.Y)
	bottom := math.Min(b.Bottom(), other.Bottom())
	if bottom <= top {
		return 0
	}
	return bottom - top
}

// SameRow reports whether two boxes sit on the same visual row: their
// Y-ranges overlap by more than half of the smaller height.
func (b BBox) SameRow(other BBox) bool {
	overlap := b.VerticalOverlap(other)
	if overlap <= 0 {
		return false
	}
	smaller := math.Min(b.H, other.H)
	if smaller <= 0 {
		return false
	}
	return overlap > smaller/2
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.X, other.X)
	y := math.Min(b.Y, other.Y)
	r := math.Max(b.Right(), other.Right())
	bt := math.Max(b.Bottom(), other.Bottom())
	return BBox{X: x, Y: y, W: r - x, H: bt - y}
}

// IsValid reports whether the box has finite coordinates and non-negative
// dimensions. Degenerate geometry is filtered before scoring rather than
// failing the pipeline.
func (b BBox) IsValid() bool {
	for _, v := range []float64{b.X, b.Y, b.W, b.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.W >= 0 && b.H >= 0
}
