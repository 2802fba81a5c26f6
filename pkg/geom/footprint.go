package geom

import "math"

// Kind distinguishes the shape of a Footprint.
type Kind int

const (
	KindPoint   Kind = iota // a single position
	KindPolygon             // a closed, filled ring
	KindPath                // an open or closed polyline with no interior
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindPolygon:
		return "polygon"
	case KindPath:
		return "path"
	default:
		return "unknown"
	}
}

// Footprint is the planar projection of an object or of a static boundary.
// Rules only ever look at footprints, never at full 3D geometry.
type Footprint struct {
	Kind   Kind
	Points []Point
}

// PointFootprint returns a footprint consisting of p alone.
func PointFootprint(p Point) Footprint {
	return Footprint{Kind: KindPoint, Points: []Point{p}}
}

// PolygonFootprint returns a filled polygon through pts. The ring is closed
// implicitly; do not repeat the first vertex.
func PolygonFootprint(pts ...Point) Footprint {
	return Footprint{Kind: KindPolygon, Points: append([]Point(nil), pts...)}
}

// PathFootprint returns a polyline through pts.
func PathFootprint(pts ...Point) Footprint {
	return Footprint{Kind: KindPath, Points: append([]Point(nil), pts...)}
}

// RectFootprint returns r as a filled polygon.
func RectFootprint(r Rect) Footprint {
	return PolygonFootprint(r.Corners()...)
}

// RingFootprint returns the outline of r as a closed path. Unlike
// RectFootprint, a point strictly inside r is not at distance zero from it.
func RingFootprint(r Rect) Footprint {
	c := r.Corners()
	return PathFootprint(append(c, c[0])...)
}

// BoxFootprint returns the rectangle of half extents (hx, hy) centered on c
// and rotated by deg degrees.
func BoxFootprint(c Point, hx, hy, deg float64) Footprint {
	local := []Point{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}}
	pts := make([]Point, len(local))
	for i, p := range local {
		pts[i] = p.Rotate(deg).Add(c)
	}
	return Footprint{Kind: KindPolygon, Points: pts}
}

// Bounds returns the axis-aligned bounding box of f.
func (f Footprint) Bounds() Rect {
	if len(f.Points) == 0 {
		return Rect{}
	}
	r := Rect{Min: f.Points[0], Max: f.Points[0]}
	for _, p := range f.Points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Within reports whether every vertex of f lies inside r or on its edge.
func (f Footprint) Within(r Rect) bool {
	for _, p := range f.Points {
		if !r.Contains(p) {
			return false
		}
	}
	return len(f.Points) > 0
}

// Intersects reports whether f and the rectangle r share at least one point.
func (f Footprint) Intersects(r Rect) bool {
	return Distance(f, RectFootprint(r)) <= Epsilon
}

// Distance returns the minimum planar distance between a and b. Overlapping
// or touching footprints are at distance zero; a point inside a polygon is
// at distance zero from it.
func Distance(a, b Footprint) float64 {
	if len(a.Points) == 0 || len(b.Points) == 0 {
		return math.Inf(1)
	}
	if a.containsAny(b.Points) || b.containsAny(a.Points) {
		return 0
	}

	sa, sb := a.segments(), b.segments()
	for _, s := range sa {
		for _, t := range sb {
			if segmentsIntersect(s[0], s[1], t[0], t[1]) {
				return 0
			}
		}
	}

	d := math.Inf(1)
	for _, p := range a.Points {
		for _, q := range b.Points {
			d = math.Min(d, p.Dist(q))
		}
		for _, t := range sb {
			d = math.Min(d, pointSegmentDist(p, t[0], t[1]))
		}
	}
	for _, q := range b.Points {
		for _, s := range sa {
			d = math.Min(d, pointSegmentDist(q, s[0], s[1]))
		}
	}
	return d
}

func (f Footprint) segments() [][2]Point {
	n := len(f.Points)
	switch {
	case f.Kind == KindPoint || n < 2:
		return nil
	case f.Kind == KindPolygon:
		segs := make([][2]Point, n)
		for i := range f.Points {
			segs[i] = [2]Point{f.Points[i], f.Points[(i+1)%n]}
		}
		return segs
	default:
		segs := make([][2]Point, n-1)
		for i := 0; i < n-1; i++ {
			segs[i] = [2]Point{f.Points[i], f.Points[i+1]}
		}
		return segs
	}
}

func (f Footprint) containsAny(pts []Point) bool {
	if f.Kind != KindPolygon || len(f.Points) < 3 {
		return false
	}
	for _, p := range pts {
		if f.containsPoint(p) {
			return true
		}
	}
	return false
}

// containsPoint is a ray-casting test that treats the boundary as inside.
func (f Footprint) containsPoint(p Point) bool {
	n := len(f.Points)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := f.Points[i], f.Points[j]
		if pointSegmentDist(p, a, b) <= Epsilon {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func pointSegmentDist(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Scale(t)))
}

func orientation(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > Epsilon && d2 < -Epsilon) || (d1 < -Epsilon && d2 > Epsilon)) &&
		((d3 > Epsilon && d4 < -Epsilon) || (d3 < -Epsilon && d4 > Epsilon)) {
		return true
	}
	return pointSegmentDist(p1, q1, q2) <= Epsilon ||
		pointSegmentDist(p2, q1, q2) <= Epsilon ||
		pointSegmentDist(q1, p1, p2) <= Epsilon ||
		pointSegmentDist(q2, p1, p2) <= Epsilon
}
