// Package geom holds the geometry primitives shared by formatting and rendering.
//
// All coordinates are in PostScript points with the origin at the top-left
// corner of the page and y growing downwards.
package geom

import (
	"fmt"
	"math"
)

// Pt is a length in points (1/72 inch).
type Pt float64

func Mm(v float64) Pt   { return Pt(v * MmToPt) }
func Cm(v float64) Pt   { return Pt(v * 10 * MmToPt) }
func Inch(v float64) Pt { return Pt(v * 72) }

func (p Pt) Millimeters() float64 { return float64(p) * PtToMm }
func (p Pt) Inches() float64      { return float64(p) / 72 }

// Max returns the larger of two lengths.
func Max(a, b Pt) Pt {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of two lengths.
func Min(a, b Pt) Pt {
	if a < b {
		return a
	}
	return b
}

// NonNegative clamps negative lengths to zero.
func NonNegative(p Pt) Pt {
	if p < 0 || math.IsNaN(float64(p)) {
		return 0
	}
	return p
}

// Point is a position on the page.
type Point struct {
	X Pt `json:"x"`
	Y Pt `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  Pt `json:"width"`
	Height Pt `json:"height"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      Pt `json:"x"`
	Y      Pt `json:"y"`
	Width  Pt `json:"width"`
	Height Pt `json:"height"`
}

// R is shorthand for constructing a Rect.
func R(x, y, w, h Pt) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

func (r Rect) Right() Pt    { return r.X + r.Width }
func (r Rect) Bottom() Pt   { return r.Y + r.Height }
func (r Rect) Size() Size   { return Size{Width: r.Width, Height: r.Height} }
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Inset shrinks the rectangle by the given amounts, never below zero size.
func (r Rect) Inset(left, top, right, bottom Pt) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  NonNegative(r.Width - left - right),
		Height: NonNegative(r.Height - top - bottom),
	}
}

// Offset moves the rectangle.
func (r Rect) Offset(dx, dy Pt) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Contains reports whether p lies inside r (right/bottom edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}
