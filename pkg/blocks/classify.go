package blocks

import (
	"github.com/indlayout/engine/pkg/geom"
)

// Classification tags a block's intended use (spec.md §3, §9 — a
// tagged variant rather than a polygon with a free-text label).
type Classification int

const (
	Commercial Classification = iota
	Green
	Utility
	Discard
)

func (c Classification) String() string {
	switch c {
	case Commercial:
		return "commercial"
	case Green:
		return "green"
	case Utility:
		return "utility"
	case Discard:
		return "discard"
	default:
		return "unknown"
	}
}

// Block is a classified candidate carved from the site by Stage 1,
// carrying the shape metrics the classifier and the subdivision solver
// (C7/C8) both need.
type Block struct {
	Polygon            geom.Polygon
	Area               float64
	Perimeter          float64
	Rectangularity     float64 // area(block) / area(OBB)
	Aspect             float64 // longer OBB edge / shorter OBB edge
	DominantEdgeVector geom.Point
	Class              Classification
}

// Config holds the thresholds used by the classification decision
// table (spec.md §4.6, §6).
type Config struct {
	MinLotArea             float64
	RectangularityMinimum  float64
	AspectMaximum          float64
	SiteBoundaryTouchEps   float64 // distance under which an edge "touches" the site boundary
}

// DefaultConfig returns the thresholds named in spec.md §4.6.
func DefaultConfig() Config {
	return Config{
		MinLotArea:            1000,
		RectangularityMinimum: 0.65,
		AspectMaximum:         4.0,
		SiteBoundaryTouchEps:  geom.Epsilon * 1e4, // 1 cm
	}
}

// Classify computes a block's shape metrics and applies the
// first-match-wins decision table from spec.md §4.6.
func Classify(poly geom.Polygon, site geom.Polygon, cfg Config) Block {
	obb := geom.MinimumRotatedRectangle(poly)
	area := poly.Area()
	obbArea := obb.Area()

	rectangularity := 1.0
	if obbArea > geom.Epsilon {
		rectangularity = area / obbArea
	}

	w, l := obbEdgeLengths(obb)
	aspect := 1.0
	if w > geom.Epsilon {
		aspect = l / w
	}

	b := Block{
		Polygon:            poly,
		Area:               area,
		Perimeter:          poly.Perimeter(),
		Rectangularity:     rectangularity,
		Aspect:             aspect,
		DominantEdgeVector: dominantEdge(obb),
	}

	switch {
	case area < cfg.MinLotArea:
		b.Class = Discard
	case rectangularity < cfg.RectangularityMinimum || aspect > cfg.AspectMaximum:
		b.Class = Green
	case touchesSiteBoundaryOnSingleShortEdge(poly, site, cfg.SiteBoundaryTouchEps):
		b.Class = Utility
	default:
		b.Class = Commercial
	}
	return b
}

// AestheticScore is the optional tie-break metric from spec.md §4.6.
func (b Block) AestheticScore() float64 {
	aspect := b.Aspect
	if aspect < geom.Epsilon {
		aspect = geom.Epsilon
	}
	return 0.7*b.Rectangularity + 0.3/aspect
}

// obbEdgeLengths returns (shorter, longer) adjacent edge lengths of a
// 4-point oriented rectangle.
func obbEdgeLengths(obb geom.Polygon) (shorter, longer float64) {
	if len(obb.Outer) < 4 {
		return 0, 0
	}
	e1 := obb.Outer[0].Distance(obb.Outer[1])
	e2 := obb.Outer[1].Distance(obb.Outer[2])
	if e1 <= e2 {
		return e1, e2
	}
	return e2, e1
}

// dominantEdge returns the unit vector along the longer OBB edge
// (spec.md §4.6's "front edge").
func dominantEdge(obb geom.Polygon) geom.Point {
	if len(obb.Outer) < 4 {
		return geom.Point{X: 1, Y: 0}
	}
	e1 := obb.Outer[1].Sub(obb.Outer[0])
	e2 := obb.Outer[2].Sub(obb.Outer[1])
	if e1.Norm() >= e2.Norm() {
		return e1.Unit()
	}
	return e2.Unit()
}

// touchesSiteBoundaryOnSingleShortEdge reports whether exactly one
// edge of poly lies on the site boundary (within eps) and that edge is
// shorter than the block's own perimeter average edge length — the
// heuristic spec.md §4.6 uses to flag narrow frontage utility plots.
func touchesSiteBoundaryOnSingleShortEdge(poly, site geom.Polygon, eps float64) bool {
	n := len(poly.Outer)
	if n < 3 {
		return false
	}
	avgEdge := poly.Perimeter() / float64(n)

	touching := 0
	for i := 0; i < n; i++ {
		a, b := poly.Outer[i], poly.Outer[(i+1)%n]
		mid := geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		if edgeOnBoundary(mid, site, eps) {
			edgeLen := a.Distance(b)
			if edgeLen < avgEdge {
				touching++
			} else {
				return false
			}
		}
	}
	return touching == 1
}

func edgeOnBoundary(mid geom.Point, site geom.Polygon, eps float64) bool {
	n := len(site.Outer)
	for i := 0; i < n; i++ {
		a, b := site.Outer[i], site.Outer[(i+1)%n]
		if geom.DistancePointToSegment(mid, a, b) < eps {
			return true
		}
	}
	return false
}
