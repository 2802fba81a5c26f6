// Package geom provides the planar and spatial primitives used by the
// placement engine: points, rectangles, 3-vectors and footprints.
//
// Everything here is a value type. Functions never mutate their inputs, so
// footprints can be shared freely between validators and rules.
package geom

import "math"

// Epsilon is the tolerance used for boundary and collinearity tests.
const Epsilon = 1e-9

// Point is a position in the XY plane.
type Point struct {
	X float64 `json:"x" bson:"x" msgpack:"x"`
	Y float64 `json:"y" bson:"y" msgpack:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Rotate rotates p around the origin by deg degrees (counter-clockwise).
func (p Point) Rotate(deg float64) Point {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
}

// Vec3 is a position, size or rotation in 3D.
type Vec3 struct {
	X float64 `json:"x" bson:"x" msgpack:"x"`
	Y float64 `json:"y" bson:"y" msgpack:"y"`
	Z float64 `json:"z" bson:"z" msgpack:"z"`
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// XY projects v onto the plane.
func (v Vec3) XY() Point { return Point{v.X, v.Y} }

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Array returns the components as a fixed-size array.
func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// Rect is an axis-aligned rectangle. Min holds the smaller coordinates.
type Rect struct {
	Min Point `json:"min" bson:"min" msgpack:"min"`
	Max Point `json:"max" bson:"max" msgpack:"max"`
}

// NewRect builds a rectangle from two opposite corners in any order.
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		Min: Point{math.Min(x1, x2), math.Min(y1, y2)},
		Max: Point{math.Max(x1, x2), math.Max(y1, y2)},
	}
}

// CenteredRect returns the rectangle centered on c with the given half extents.
func CenteredRect(c Point, halfX, halfY float64) Rect {
	return Rect{
		Min: Point{c.X - halfX, c.Y - halfY},
		Max: Point{c.X + halfX, c.Y + halfY},
	}
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// HalfExtent returns half the width and half the height of r.
func (r Rect) HalfExtent() (float64, float64) {
	return r.Width() / 2, r.Height() / 2
}

// Translate shifts r by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Contains reports whether p lies inside r or on its edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X-Epsilon && p.X <= r.Max.X+Epsilon &&
		p.Y >= r.Min.Y-Epsilon && p.Y <= r.Max.Y+Epsilon
}

// Overlap returns the area shared by r and o.
func (r Rect) Overlap(o Rect) float64 {
	w := math.Min(r.Max.X, o.Max.X) - math.Max(r.Min.X, o.Min.X)
	h := math.Min(r.Max.Y, o.Max.Y) - math.Max(r.Min.Y, o.Min.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Corners returns the four corners counter-clockwise, starting at Min.
func (r Rect) Corners() []Point {
	return []Point{
		r.Min,
		{r.Max.X, r.Min.Y},
		r.Max,
		{r.Min.X, r.Max.Y},
	}
}
