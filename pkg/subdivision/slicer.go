package subdivision

import (
	"math"
	"time"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/layouterr"
)

// Lot is an axis-oriented rectangle inside a block, re-oriented back
// to the global frame (spec.md §3).
type Lot struct {
	Polygon  geom.Polygon
	Width    float64
	Depth    float64
	Area     float64
	Centroid geom.Point
	BlockID  string
}

// Slice implements C8: it rotates block so dominantEdge aligns with
// +x, solves C7 for the rotated frame's frontage/depth, emits lot
// rectangles, rotates them back, and clips each to block, discarding
// any lot whose clipped area falls below 0.9 of its unclipped
// rectangle area (spec.md §4.8 step 7).
func Slice(blockID string, block geom.Polygon, dominantEdge geom.Point, cfg Config, deadline time.Time) ([]Lot, error) {
	centroid := block.Centroid()
	theta := math.Atan2(dominantEdge.Y, dominantEdge.X)

	rotated := geom.Rotate(block, -theta, centroid)
	b := rotated.Bounds()
	L, D := b.Width(), b.Height()

	result, err := Solve(blockID, L, D, cfg, deadline)
	if err != nil {
		return nil, err
	}
	if result.LotDepth <= 0 {
		return nil, &layouterr.SolverError{BlockID: blockID, Err: layouterr.ErrNoFeasibleSolution}
	}

	var lots []Lot
	x := b.MinX
	yStart := b.MinY + cfg.Setback
	for _, w := range result.Widths {
		rectRotated := geom.Polygon{Outer: geom.Ring{
			{x, yStart}, {x + w, yStart}, {x + w, yStart + result.LotDepth}, {x, yStart + result.LotDepth},
		}}
		global := geom.Rotate(rectRotated, theta, centroid)

		clipped, err := geom.Intersection(global, block)
		rectArea := rectRotated.Area()
		if err == nil && !clipped.Empty() && clipped.Area() >= 0.9*rectArea {
			lots = append(lots, Lot{
				Polygon:  clipped,
				Width:    w,
				Depth:    result.LotDepth,
				Area:     clipped.Area(),
				Centroid: clipped.Centroid(),
				BlockID:  blockID,
			})
		}
		x += w
	}
	return lots, nil
}
