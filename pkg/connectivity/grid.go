package connectivity

import (
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/roadnet"
)

// Grid is a rasterized occupancy grid over a road network: cells on
// or within a road half-width are road cells (spec.md §4.9).
type Grid struct {
	originX, originY float64
	cellSize         float64
	width, height    int
	road             []bool
}

// NewGrid rasterizes network onto a grid covering bounds at the given
// cell resolution (default 1 m per spec.md §4.9).
func NewGrid(bounds geom.Bounds, cellSize float64, network roadnet.Network) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	width := int(bounds.Width()/cellSize) + 1
	height := int(bounds.Height()/cellSize) + 1
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	g := &Grid{
		originX:  bounds.MinX,
		originY:  bounds.MinY,
		cellSize: cellSize,
		width:    width,
		height:   height,
		road:     make([]bool, width*height),
	}

	for _, seg := range network.Segments {
		g.rasterizeSegment(seg)
	}
	return g
}

func (g *Grid) toCell(p geom.Point) (int, int) {
	return int((p.X - g.originX) / g.cellSize), int((p.Y - g.originY) / g.cellSize)
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int { return y*g.width + x }

// IsRoad reports whether cell (x, y) is a road cell.
func (g *Grid) IsRoad(x, y int) bool {
	if !g.inBounds(x, y) {
		return false
	}
	return g.road[g.index(x, y)]
}

// setRoad marks a cell as road, silently ignoring out-of-bounds
// requests.
func (g *Grid) setRoad(x, y int) {
	if g.inBounds(x, y) {
		g.road[g.index(x, y)] = true
	}
}

// rasterizeSegment draws the segment's footprint by scanning its
// bounding box and testing containment, then widens with a Bresenham
// pass down the centreline to guarantee connectivity even when the
// footprint is thinner than one cell.
func (g *Grid) rasterizeSegment(seg roadnet.RoadSegment) {
	if !seg.Footprint.Empty() {
		b := seg.Footprint.Bounds()
		x0, y0 := g.toCell(geom.Point{X: b.MinX, Y: b.MinY})
		x1, y1 := g.toCell(geom.Point{X: b.MaxX, Y: b.MaxY})
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if !g.inBounds(x, y) {
					continue
				}
				center := geom.Point{X: g.originX + (float64(x)+0.5)*g.cellSize, Y: g.originY + (float64(y)+0.5)*g.cellSize}
				if geom.ContainsPoint(seg.Footprint, center) {
					g.setRoad(x, y)
				}
			}
		}
	}
	for i := 0; i+1 < len(seg.Centerline); i++ {
		g.drawLine(seg.Centerline[i], seg.Centerline[i+1])
	}
}

// drawLine rasterizes a segment centreline with Bresenham's algorithm.
func (g *Grid) drawLine(a, b geom.Point) {
	x0, y0 := g.toCell(a)
	x1, y1 := g.toCell(b)

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		g.setRoad(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
