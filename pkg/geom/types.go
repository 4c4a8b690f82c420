package geom

import "math"

// Epsilon is the fixed coordinate tolerance used for point equality,
// ring closure, and near-zero-area checks (spec.md §4.1).
const Epsilon = 1e-6

// Point is a 2D coordinate in site-local metric units (metres).
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z-component of the 2D cross product p × q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Norm returns the Euclidean length of p treated as a vector.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Norm() }

// Unit returns p normalized to unit length; the zero vector maps to itself.
func (p Point) Unit() Point {
	n := p.Norm()
	if n < Epsilon {
		return Point{}
	}
	return Point{p.X / n, p.Y / n}
}

// AlmostEqual reports whether p and q are within Epsilon of each other.
func (p Point) AlmostEqual(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// Ring is an ordered sequence of points. By convention the stored slice
// does NOT repeat the first point at the end; Closed() constructs the
// explicitly-closed form when needed for rendering or export.
type Ring []Point

// Closed returns the ring with the first point repeated at the end.
func (r Ring) Closed() Ring {
	if len(r) == 0 || r[0].AlmostEqual(r[len(r)-1]) {
		return r
	}
	out := make(Ring, len(r)+1)
	copy(out, r)
	out[len(r)] = r[0]
	return out
}

// SignedArea returns the shoelace signed area; positive for
// counter-clockwise winding.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// Area returns the unsigned area of the ring.
func (r Ring) Area() float64 { return math.Abs(r.SignedArea()) }

// CCW returns the ring reordered to counter-clockwise winding.
func (r Ring) CCW() Ring {
	if r.SignedArea() < 0 {
		return r.Reversed()
	}
	return r
}

// Reversed returns a copy of the ring with point order reversed.
func (r Ring) Reversed() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Centroid returns the area-weighted centroid of the ring.
func (r Ring) Centroid() Point {
	n := len(r)
	if n == 0 {
		return Point{}
	}
	if n < 3 {
		// Degenerate ring: average the points rather than divide by zero area.
		var sx, sy float64
		for _, p := range r {
			sx += p.X
			sy += p.Y
		}
		return Point{sx / float64(n), sy / float64(n)}
	}
	var cx, cy, a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := r[i].X*r[j].Y - r[j].X*r[i].Y
		cx += (r[i].X + r[j].X) * cross
		cy += (r[i].Y + r[j].Y) * cross
		a += cross
	}
	a /= 2
	if math.Abs(a) < Epsilon {
		var sx, sy float64
		for _, p := range r {
			sx += p.X
			sy += p.Y
		}
		return Point{sx / float64(n), sy / float64(n)}
	}
	return Point{cx / (6 * a), cy / (6 * a)}
}

// Bounds is an axis-aligned bounding rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the x-extent of the bounds.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the y-extent of the bounds.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Point {
	return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

// Overlaps reports whether b and o share any area.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Union returns the smallest Bounds enclosing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

func boundsOf(r Ring) Bounds {
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range r {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Polygon is an outer ring plus zero or more inner rings (holes).
// Invariants (spec.md §3): rings are simple, holes lie strictly inside
// the outer ring, and no holes touch.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// NewPolygon builds a Polygon from an outer ring and holes, normalizing
// winding (outer CCW, holes CW) the way most 2D kernels expect.
func NewPolygon(outer Ring, holes ...Ring) Polygon {
	p := Polygon{Outer: outer.CCW()}
	for _, h := range holes {
		if h.SignedArea() > 0 {
			h = h.Reversed()
		}
		p.Holes = append(p.Holes, h)
	}
	return p
}

// Area returns outer area minus the area of each hole.
func (p Polygon) Area() float64 {
	a := p.Outer.Area()
	for _, h := range p.Holes {
		a -= h.Area()
	}
	if a < 0 {
		return 0
	}
	return a
}

// Centroid returns the area-weighted centroid of the outer ring,
// adjusted to subtract hole contributions.
func (p Polygon) Centroid() Point {
	outerArea := p.Outer.SignedArea()
	cx := p.Outer.Centroid()
	if len(p.Holes) == 0 {
		return cx
	}
	sx := cx.X * outerArea
	sy := cx.Y * outerArea
	total := outerArea
	for _, h := range p.Holes {
		ha := h.SignedArea()
		hc := h.Centroid()
		sx -= hc.X * ha
		sy -= hc.Y * ha
		total -= ha
	}
	if math.Abs(total) < Epsilon {
		return cx
	}
	return Point{sx / total, sy / total}
}

// Bounds returns the axis-aligned bounding rectangle of the outer ring.
func (p Polygon) Bounds() Bounds { return boundsOf(p.Outer) }

// Empty reports whether the polygon has no usable outer ring.
func (p Polygon) Empty() bool { return len(p.Outer) < 3 }

// Perimeter returns the perimeter length of the outer ring.
func (p Polygon) Perimeter() float64 {
	n := len(p.Outer)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += p.Outer[i].Distance(p.Outer[j])
	}
	return total
}
