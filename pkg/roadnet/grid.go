package roadnet

import (
	"fmt"
	"math"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/rng"
)

// GridGenerator implements C3: a lattice of congruent rectangular
// tiles, rotated around the site centroid, clipped to the site. Each
// clipped tile is a candidate Block; the grid lines between tiles,
// widened by the configured road width, form the road network.
//
// The gene vector (spec.md §4.3's "extended gene set") is
// [spacingX, spacingY, angleDegrees, offsetX, offsetY].
type GridGenerator struct{}

// Name identifies this generator in the Stage 1 registry.
func (g *GridGenerator) Name() string { return "grid" }

// GeneLength is the number of genes GridGenerator.Generate expects.
const GeneLength = 5

// Generate tiles the site with a lattice of rectangles sized and
// rotated per params, shrinks each clipped tile inward by half the
// internal road width to leave room for roads, and emits the
// grid-line centrelines as the road network.
func (g *GridGenerator) Generate(site geom.Site, params []float64, r *rng.RNG, cfg Config) (*Result, error) {
	if len(params) != GeneLength {
		return nil, fmt.Errorf("roadnet: grid generator expects %d genes, got %d", GeneLength, len(params))
	}
	spacingX, spacingY, angleDeg, ox, oy := params[0], params[1], params[2], params[3], params[4]
	if spacingX <= 0 || spacingY <= 0 {
		return nil, fmt.Errorf("roadnet: spacing must be > 0")
	}
	angle := angleDeg * math.Pi / 180

	center := site.Centroid()
	radius := site.BoundingRadius()

	// Lattice large enough to cover the bounding circle after rotation.
	nx := int(math.Ceil((2*radius)/spacingX)) + 2
	ny := int(math.Ceil((2*radius)/spacingY)) + 2

	startX := center.X - float64(nx)*spacingX/2 + ox
	startY := center.Y - float64(ny)*spacingY/2 + oy

	var blocks []geom.Polygon
	var vLines, hLines [][2]geom.Point

	for i := 0; i <= nx; i++ {
		x := startX + float64(i)*spacingX
		a := geom.RotatePoint(geom.Point{X: x, Y: startY}, angle, center)
		b := geom.RotatePoint(geom.Point{X: x, Y: startY + float64(ny)*spacingY}, angle, center)
		vLines = append(vLines, [2]geom.Point{a, b})
	}
	for j := 0; j <= ny; j++ {
		y := startY + float64(j)*spacingY
		a := geom.RotatePoint(geom.Point{X: startX, Y: y}, angle, center)
		b := geom.RotatePoint(geom.Point{X: startX + float64(nx)*spacingX, Y: y}, angle, center)
		hLines = append(hLines, [2]geom.Point{a, b})
	}

	halfRoad := cfg.RoadInternalWidth / 2
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			x0 := startX + float64(i)*spacingX
			y0 := startY + float64(j)*spacingY
			tile := geom.Polygon{Outer: geom.Ring{
				{x0, y0}, {x0 + spacingX, y0}, {x0 + spacingX, y0 + spacingY}, {x0, y0 + spacingY},
			}}
			tile = geom.Rotate(tile, angle, center)

			clipped, err := geom.Intersection(tile, site.Polygon)
			if err != nil || clipped.Empty() {
				continue
			}
			shrunk, err := geom.Buffer(clipped, -halfRoad)
			if err != nil || shrunk.Empty() {
				continue
			}
			if shrunk.Area() < cfg.MinBlockArea/4 {
				// Too sliver-thin to be worth keeping as a candidate;
				// the block classifier (C6) would discard it anyway.
				continue
			}
			blocks = append(blocks, shrunk)
		}
	}

	var segments []RoadSegment
	for _, ln := range vLines {
		segments = append(segments, buildSegment(ln, cfg.RoadInternalWidth, RoadInternal))
	}
	for _, ln := range hLines {
		segments = append(segments, buildSegment(ln, cfg.RoadInternalWidth, RoadInternal))
	}

	return &Result{Roads: Network{Segments: segments}, Blocks: blocks}, nil
}

func buildSegment(line [2]geom.Point, width float64, class RoadClass) RoadSegment {
	pts := []geom.Point{line[0], line[1]}
	return RoadSegment{
		Centerline: pts,
		Width:      width,
		Class:      class,
		Footprint:  geom.PolylineBuffer(pts, width),
	}
}
