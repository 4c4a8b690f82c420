package geom

import (
	"math"
	"sort"

	"github.com/indlayout/engine/pkg/layouterr"
)

// IsValid reports whether the polygon is non-self-intersecting with
// positive area, all finite coordinates, and holes strictly inside the
// outer ring without touching it or each other (spec.md §3, §4.1).
func IsValid(p Polygon) bool {
	if !ringFinite(p.Outer) || len(p.Outer) < 3 {
		return false
	}
	if p.Outer.Area() < Epsilon {
		return false
	}
	if ringSelfIntersects(p.Outer) {
		return false
	}
	for _, h := range p.Holes {
		if !ringFinite(h) || len(h) < 3 || ringSelfIntersects(h) {
			return false
		}
		for _, v := range h {
			if !pointInRing(v, p.Outer) {
				return false
			}
		}
	}
	return true
}

func ringFinite(r Ring) bool {
	for _, p := range r {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// ringSelfIntersects does a brute-force O(n^2) check of non-adjacent
// edge pairs; rings in this domain are small (tens of vertices), so
// this is not a performance concern.
func ringSelfIntersects(r Ring) bool {
	n := len(r)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := r[i], r[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || i == (j+1)%n {
				continue
			}
			if j-i == 1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := r[j], r[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func orient(a, b, c Point) float64 { return b.Sub(a).Cross(c.Sub(a)) }

func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X)-Epsilon <= p.X && p.X <= math.Max(a.X, b.X)+Epsilon &&
		math.Min(a.Y, b.Y)-Epsilon <= p.Y && p.Y <= math.Max(a.Y, b.Y)+Epsilon
}

func segmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if math.Abs(d1) < Epsilon && onSegment(b1, b2, a1) {
		return true
	}
	if math.Abs(d2) < Epsilon && onSegment(b1, b2, a2) {
		return true
	}
	if math.Abs(d3) < Epsilon && onSegment(a1, a2, b1) {
		return true
	}
	if math.Abs(d4) < Epsilon && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// pointInRing is a ray-casting point-in-polygon test for a single ring,
// not accounting for holes.
func pointInRing(pt Point, r Ring) bool {
	n := len(r)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := r[i], r[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			xCross := (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// ContainsPoint reports whether pt lies inside the polygon (outer ring
// minus holes). Points on the boundary count as contained.
func ContainsPoint(p Polygon, pt Point) bool {
	if !pointInRing(pt, p.Outer) {
		// Accept boundary points of the outer ring.
		if pointOnRingBoundary(pt, p.Outer) {
			return true
		}
		return false
	}
	for _, h := range p.Holes {
		if pointInRing(pt, h) && !pointOnRingBoundary(pt, h) {
			return false
		}
	}
	return true
}

func pointOnRingBoundary(pt Point, r Ring) bool {
	n := len(r)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		if distPointToSegment(pt, a, b) < Epsilon {
			return true
		}
	}
	return false
}

// ContainsPolygon reports whether every vertex of inner lies within
// outer (a cheap, conservative containment test sufficient for block
// and lot checks where inputs are already non-overlapping by
// construction).
func ContainsPolygon(outer, inner Polygon) bool {
	for _, v := range inner.Outer {
		if !ContainsPoint(outer, v) {
			return false
		}
	}
	return true
}

// Intersects reports whether two polygons share any area or boundary.
func Intersects(a, b Polygon) bool {
	if !a.Bounds().Overlaps(b.Bounds()) {
		return false
	}
	if ContainsPoint(a, b.Outer.Centroid()) || ContainsPoint(b, a.Outer.Centroid()) {
		return true
	}
	for i := 0; i < len(a.Outer); i++ {
		a1, a2 := a.Outer[i], a.Outer[(i+1)%len(a.Outer)]
		for j := 0; j < len(b.Outer); j++ {
			b1, b2 := b.Outer[j], b.Outer[(j+1)%len(b.Outer)]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	for _, v := range a.Outer {
		if ContainsPoint(b, v) {
			return true
		}
	}
	for _, v := range b.Outer {
		if ContainsPoint(a, v) {
			return true
		}
	}
	return false
}

func distPointToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < Epsilon*Epsilon {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := a.Add(ab.Scale(t))
	return p.Distance(proj)
}

// DistancePointToSegment returns the distance from pt to the closest
// point on segment [a,b].
func DistancePointToSegment(pt, a, b Point) float64 { return distPointToSegment(pt, a, b) }

// Rotate rotates the polygon by theta radians (counter-clockwise)
// around origin.
func Rotate(p Polygon, theta float64, origin Point) Polygon {
	return Polygon{Outer: rotateRing(p.Outer, theta, origin), Holes: rotateRings(p.Holes, theta, origin)}
}

func rotateRing(r Ring, theta float64, origin Point) Ring {
	c, s := math.Cos(theta), math.Sin(theta)
	out := make(Ring, len(r))
	for i, p := range r {
		dx, dy := p.X-origin.X, p.Y-origin.Y
		out[i] = Point{origin.X + dx*c - dy*s, origin.Y + dx*s + dy*c}
	}
	return out
}

func rotateRings(rs []Ring, theta float64, origin Point) []Ring {
	if rs == nil {
		return nil
	}
	out := make([]Ring, len(rs))
	for i, r := range rs {
		out[i] = rotateRing(r, theta, origin)
	}
	return out
}

// RotatePoint rotates a single point by theta radians around origin.
func RotatePoint(p Point, theta float64, origin Point) Point {
	c, s := math.Cos(theta), math.Sin(theta)
	dx, dy := p.X-origin.X, p.Y-origin.Y
	return Point{origin.X + dx*c - dy*s, origin.Y + dx*s + dy*c}
}

// Translate shifts the polygon by delta.
func Translate(p Polygon, delta Point) Polygon {
	return Polygon{Outer: translateRing(p.Outer, delta), Holes: translateRings(p.Holes, delta)}
}

func translateRing(r Ring, delta Point) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[i] = p.Add(delta)
	}
	return out
}

func translateRings(rs []Ring, delta Point) []Ring {
	if rs == nil {
		return nil
	}
	out := make([]Ring, len(rs))
	for i, r := range rs {
		out[i] = translateRing(r, delta)
	}
	return out
}

// Simplify applies Douglas-Peucker simplification with tolerance tol to
// the outer ring (holes pass through unsimplified, since none of this
// engine's call sites produce holed polygons that also need
// simplifying).
func Simplify(p Polygon, tol float64) Polygon {
	if len(p.Outer) < 4 || tol <= 0 {
		return p
	}
	closed := append(Ring{}, p.Outer...)
	closed = append(closed, p.Outer[0])
	simplified := douglasPeucker(closed, tol)
	if len(simplified) > 1 && simplified[0].AlmostEqual(simplified[len(simplified)-1]) {
		simplified = simplified[:len(simplified)-1]
	}
	return Polygon{Outer: simplified, Holes: p.Holes}
}

func douglasPeucker(points Ring, tol float64) Ring {
	if len(points) < 3 {
		return points
	}
	dmax, idx := 0.0, 0
	for i := 1; i < len(points)-1; i++ {
		d := distPointToSegment(points[i], points[0], points[len(points)-1])
		if d > dmax {
			dmax, idx = d, i
		}
	}
	if dmax > tol {
		left := douglasPeucker(points[:idx+1], tol)
		right := douglasPeucker(points[idx:], tol)
		out := make(Ring, 0, len(left)+len(right)-1)
		out = append(out, left[:len(left)-1]...)
		out = append(out, right...)
		return out
	}
	return Ring{points[0], points[len(points)-1]}
}

// ConvexHull returns the convex hull of a set of points using the
// monotone-chain (Andrew's) algorithm.
func ConvexHull(points []Point) Ring {
	pts := append([]Point{}, points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	// Dedup.
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || !p.AlmostEqual(pts[i-1]) {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return Ring(pts)
	}

	cross := func(o, a, b Point) float64 { return orient(o, a, b) }

	lower := make([]Point, 0, len(pts))
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make([]Point, 0, len(pts))
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return Ring(hull)
}

// MinimumRotatedRectangle returns the minimum-area oriented bounding
// rectangle of the polygon's outer ring, via rotating calipers over
// its convex hull (the OBB used by C6's rectangularity/aspect/dominant
// edge computation).
func MinimumRotatedRectangle(p Polygon) Polygon {
	hull := ConvexHull(p.Outer)
	if len(hull) < 3 {
		b := p.Bounds()
		return Polygon{Outer: Ring{{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}}}
	}

	bestArea := math.Inf(1)
	var best Ring
	n := len(hull)
	for i := 0; i < n; i++ {
		a, b := hull[i], hull[(i+1)%n]
		edge := b.Sub(a)
		theta := math.Atan2(edge.Y, edge.X)
		c, s := math.Cos(-theta), math.Sin(-theta)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, v := range hull {
			rx := v.X*c - v.Y*s
			ry := v.X*s + v.Y*c
			minX, maxX = math.Min(minX, rx), math.Max(maxX, rx)
			minY, maxY = math.Min(minY, ry), math.Max(maxY, ry)
		}
		area := (maxX - minX) * (maxY - minY)
		if area < bestArea {
			bestArea = area
			corners := Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}}
			back := math.Cos(theta)
			backS := math.Sin(theta)
			rect := make(Ring, 4)
			for k, v := range corners {
				rect[k] = Point{v.X*back - v.Y*backS, v.X*backS + v.Y*back}
			}
			best = rect
		}
	}
	return Polygon{Outer: best}
}

// Buffer grows (d > 0) or shrinks (d < 0) the polygon by distance d
// along each edge's outward normal; a shrink that self-intersects or
// turns any edge around (shrinking past the medial axis) is treated as
// vanished rather than re-clipped. This is an
// approximation of a true offset operation (spec.md §9 recommends a
// battle-tested library; none is available in the examples pack — see
// DESIGN.md). On a degenerate result (vanished or self-intersecting
// shrink) it returns an empty Polygon.
func Buffer(p Polygon, d float64) (Polygon, error) {
	if !ringFinite(p.Outer) {
		return Polygon{}, layouterr.NewInvalidInput("buffer")
	}
	if d == 0 {
		return p, nil
	}
	out := offsetRing(p.Outer, d)
	if len(out) < 3 || out.Area() < Epsilon {
		if d < 0 {
			return Polygon{}, nil // contracted to nothing: valid empty result
		}
		return Polygon{}, layouterr.NewDegenerateResult("buffer")
	}
	if ringSelfIntersects(out) {
		if d < 0 {
			return Polygon{}, nil
		}
		return Polygon{}, layouterr.NewDegenerateResult("buffer")
	}
	if d < 0 {
		// An edge that now runs opposite to its source edge means the
		// shrink went past the medial axis and the ring turned inside out.
		ccw := p.Outer.CCW()
		for i := range out {
			j := (i + 1) % len(out)
			if out[j].Sub(out[i]).Dot(ccw[j].Sub(ccw[i])) < 0 {
				return Polygon{}, nil
			}
		}
	}
	return Polygon{Outer: out}, nil
}

// offsetRing moves each edge outward by d along its normal and
// recomputes vertices as the intersection of consecutive offset edges.
func offsetRing(r Ring, d float64) Ring {
	ccw := r.CCW()
	n := len(ccw)
	if n < 3 {
		return ccw
	}
	offsetEdges := make([][2]Point, n)
	for i := 0; i < n; i++ {
		a, b := ccw[i], ccw[(i+1)%n]
		edge := b.Sub(a)
		normal := Point{edge.Y, -edge.X}.Unit()
		offsetEdges[i] = [2]Point{a.Add(normal.Scale(d)), b.Add(normal.Scale(d))}
	}
	out := make(Ring, n)
	for i := 0; i < n; i++ {
		prev := offsetEdges[(i-1+n)%n]
		cur := offsetEdges[i]
		pt, ok := lineIntersect(prev[0], prev[1], cur[0], cur[1])
		if !ok {
			pt = cur[0]
		}
		out[i] = pt
	}
	return out
}

func lineIntersect(a1, a2, b1, b2 Point) (Point, bool) {
	d1 := a2.Sub(a1)
	d2 := b2.Sub(b1)
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	t := b1.Sub(a1).Cross(d2) / denom
	return a1.Add(d1.Scale(t)), true
}

// RectFromBounds builds a rectangular polygon from a Bounds.
func RectFromBounds(b Bounds) Polygon {
	return Polygon{Outer: Ring{
		{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY},
	}}
}
