package geom

import (
	"math"
	"testing"
)

func square(x0, y0, side float64) Polygon {
	return Polygon{Outer: Ring{
		{x0, y0}, {x0 + side, y0}, {x0 + side, y0 + side}, {x0, y0 + side},
	}}
}

func TestRingArea(t *testing.T) {
	r := Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := r.Area(); math.Abs(got-100) > Epsilon {
		t.Fatalf("Area() = %v, want 100", got)
	}
}

func TestCentroidOfSquare(t *testing.T) {
	p := square(0, 0, 10)
	c := p.Centroid()
	if !c.AlmostEqual(Point{5, 5}) {
		t.Fatalf("Centroid() = %v, want (5,5)", c)
	}
}

func TestPolygonAreaWithHole(t *testing.T) {
	outer := Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	hole := Ring{{2, 2}, {4, 2}, {4, 4}, {2, 4}}
	p := NewPolygon(outer, hole)
	if got, want := p.Area(), 96.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("Area() = %v, want %v", got, want)
	}
}

func TestIsValidRejectsSelfIntersecting(t *testing.T) {
	bowtie := Polygon{Outer: Ring{{0, 0}, {10, 10}, {10, 0}, {0, 10}}}
	if IsValid(bowtie) {
		t.Fatalf("expected bowtie polygon to be invalid")
	}
}

func TestContainsPoint(t *testing.T) {
	p := square(0, 0, 10)
	if !ContainsPoint(p, Point{5, 5}) {
		t.Fatalf("expected (5,5) inside square")
	}
	if ContainsPoint(p, Point{15, 5}) {
		t.Fatalf("expected (15,5) outside square")
	}
}

func TestContainsPointWithHole(t *testing.T) {
	outer := Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	hole := Ring{{2, 2}, {4, 2}, {4, 4}, {2, 4}}
	p := NewPolygon(outer, hole)
	if ContainsPoint(p, Point{3, 3}) {
		t.Fatalf("expected (3,3) to be inside the hole, not the polygon")
	}
	if !ContainsPoint(p, Point{1, 1}) {
		t.Fatalf("expected (1,1) inside the polygon")
	}
}

func TestRotateTranslateRoundTrip(t *testing.T) {
	p := square(0, 0, 10)
	center := p.Centroid()
	rotated := Rotate(p, math.Pi/4, center)
	back := Rotate(rotated, -math.Pi/4, center)
	for i := range p.Outer {
		if !p.Outer[i].AlmostEqual(back.Outer[i]) {
			t.Fatalf("round trip mismatch at vertex %d: %v != %v", i, p.Outer[i], back.Outer[i])
		}
	}
}

func TestMinimumRotatedRectangleOfAxisAlignedSquareIsItself(t *testing.T) {
	p := square(0, 0, 10)
	obb := MinimumRotatedRectangle(p)
	if math.Abs(obb.Area()-100) > 1e-6 {
		t.Fatalf("OBB area = %v, want 100", obb.Area())
	}
}

func TestIntersectionOfOverlappingSquares(t *testing.T) {
	a := square(0, 0, 10)
	b := square(5, 5, 10)
	inter, err := Intersection(a, b)
	if err != nil {
		t.Fatalf("Intersection error: %v", err)
	}
	if math.Abs(inter.Area()-25) > 1e-6 {
		t.Fatalf("Intersection area = %v, want 25", inter.Area())
	}
}

func TestIntersectionOfDisjointSquaresIsEmpty(t *testing.T) {
	a := square(0, 0, 10)
	b := square(100, 100, 10)
	inter, err := Intersection(a, b)
	if err != nil {
		t.Fatalf("Intersection error: %v", err)
	}
	if !inter.Empty() {
		t.Fatalf("expected empty intersection, got area %v", inter.Area())
	}
}

func TestDifferenceOfContainedHoleCarvesItOut(t *testing.T) {
	a := square(0, 0, 10)
	b := square(2, 2, 2)
	diff, err := Difference(a, b)
	if err != nil {
		t.Fatalf("Difference error: %v", err)
	}
	if math.Abs(diff.Area()-96) > 1e-6 {
		t.Fatalf("Difference area = %v, want 96", diff.Area())
	}
}

func TestBufferShrinkToNothingIsEmptyNotError(t *testing.T) {
	p := square(0, 0, 2)
	shrunk, err := Buffer(p, -10)
	if err != nil {
		t.Fatalf("Buffer error: %v", err)
	}
	if !shrunk.Empty() {
		t.Fatalf("expected empty result from over-shrinking buffer")
	}
}

func TestBufferGrowIncreasesArea(t *testing.T) {
	p := square(0, 0, 10)
	grown, err := Buffer(p, 1)
	if err != nil {
		t.Fatalf("Buffer error: %v", err)
	}
	if grown.Area() <= p.Area() {
		t.Fatalf("expected grown area > original, got %v vs %v", grown.Area(), p.Area())
	}
}

func TestConvexHullOfSquareWithInteriorPoint(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("expected hull of 4 points, got %d", len(hull))
	}
}

func TestDistancePointToSegment(t *testing.T) {
	d := DistancePointToSegment(Point{5, 5}, Point{0, 0}, Point{10, 0})
	if math.Abs(d-5) > 1e-9 {
		t.Fatalf("distance = %v, want 5", d)
	}
}
