// Package geometry converts between viewport space (pixels of the visible
// container) and natural image space (pixels of the decoded image).
//
// The image is laid out centered in its container, multiplied by scale and
// then translated by offset. Every function here is pure.
package geometry

import (
	"image"
	"math"
)

// Point is a position in either viewport or natural space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scaled multiplies both dimensions by f.
func (s Size) Scaled(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

// IsZero reports whether either dimension is not positive.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the rectangle dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Confirmable reports whether the rectangle is at least one pixel in both axes.
func (r Rect) Confirmable() bool {
	return r.Width >= 1 && r.Height >= 1
}

// RectFromPoints returns the bounding box of a and b. Width and height are
// never negative.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// ClampToBounds intersects r with [0,bounds.Width] x [0,bounds.Height].
func (r Rect) ClampToBounds(bounds Size) Rect {
	x0 := clamp(r.X, 0, bounds.Width)
	y0 := clamp(r.Y, 0, bounds.Height)
	x1 := clamp(r.X+r.Width, 0, bounds.Width)
	y1 := clamp(r.Y+r.Height, 0, bounds.Height)
	return Rect{X: x0, Y: y0, Width: math.Max(0, x1-x0), Height: math.Max(0, y1-y0)}
}

// ScaleAxes maps r into a space scaled by sx horizontally and sy vertically.
func (r Rect) ScaleAxes(sx, sy float64) Rect {
	return Rect{X: r.X * sx, Y: r.Y * sy, Width: r.Width * sx, Height: r.Height * sy}
}

// Pixels rounds both edges to the nearest pixel so that two rectangles built
// from the same float rect always cover the same integer region.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}

// ContainFit is the factor that fits natural into fraction of the container
// without upscaling, like an object-contain image capped at its natural size.
func ContainFit(container, natural Size, fraction float64) float64 {
	if natural.IsZero() || container.IsZero() {
		return 1
	}
	if fraction <= 0 {
		fraction = 1
	}
	fit := math.Min(container.Width*fraction/natural.Width, container.Height*fraction/natural.Height)
	return math.Min(1, fit)
}

// imageOrigin is the viewport position of the image's top-left corner.
func imageOrigin(container Rect, natural Size, scale float64, offset Point) Point {
	scaled := natural.Scaled(scale)
	c := container.Center()
	return Point{
		X: c.X - scaled.Width/2 + offset.X,
		Y: c.Y - scaled.Height/2 + offset.Y,
	}
}

// ToNaturalPoint maps a viewport point to natural image coordinates. scale is
// the number of viewport pixels per natural pixel. The result is clamped into
// [0,natural.Width] x [0,natural.Height].
func ToNaturalPoint(p Point, container Rect, natural Size, scale float64, offset Point) Point {
	if scale <= 0 {
		scale = 1
	}
	o := imageOrigin(container, natural, scale, offset)
	return Point{
		X: clamp((p.X-o.X)/scale, 0, natural.Width),
		Y: clamp((p.Y-o.Y)/scale, 0, natural.Height),
	}
}

// ToViewportPoint is the inverse of ToNaturalPoint for points inside the image.
func ToViewportPoint(n Point, container Rect, natural Size, scale float64, offset Point) Point {
	if scale <= 0 {
		scale = 1
	}
	o := imageOrigin(container, natural, scale, offset)
	return Point{X: o.X + n.X*scale, Y: o.Y + n.Y*scale}
}

// MaxOverscroll is how far the content may be panned in each direction.
func MaxOverscroll(container, scaled Size) Point {
	return Point{
		X: math.Max(0, (scaled.Width-container.Width)/2),
		Y: math.Max(0, (scaled.Height-container.Height)/2),
	}
}

// ClampOffset bounds a pan offset so the scaled image never leaves the
// container by more than half its overflow in either axis.
func ClampOffset(candidate Point, container, scaled Size) Point {
	limit := MaxOverscroll(container, scaled)
	return Point{
		X: clamp(candidate.X, -limit.X, limit.X),
		Y: clamp(candidate.Y, -limit.Y, limit.Y),
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
