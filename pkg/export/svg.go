package export

import (
	"bytes"
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"
	"github.com/indlayout/engine/pkg/blocks"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/infra"
	"github.com/indlayout/engine/pkg/layout"
	"github.com/indlayout/engine/pkg/roadnet"
	"github.com/indlayout/engine/pkg/subdivision"
)

// SVGOptions configures SVG visualization export.
type SVGOptions struct {
	Width      int    // Canvas width in pixels
	Height     int    // Canvas height in pixels
	Margin     int    // Canvas margin in pixels (default: 60)
	ShowRoads  bool   // Draw road footprints
	ShowBlocks bool   // Draw classified block outlines
	ShowLots   bool   // Draw subdivided lots, colored by owning block's class
	ShowInfra  bool   // Draw MST/redundancy edges, transformers, drainage arrows
	ShowLegend bool   // Show legend explaining colors
	ShowStats  bool   // Show layout statistics in the header
	Title      string // Optional title for the visualization
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1200,
		Height:     900,
		Margin:     60,
		ShowRoads:  true,
		ShowBlocks: true,
		ShowLots:   true,
		ShowInfra:  true,
		ShowLegend: true,
		ShowStats:  true,
		Title:      "Estate Layout",
	}
}

// ExportSVG generates an SVG visualization of a Layout: the site
// boundary, road footprints, classified blocks, subdivided lots, and
// Stage 3 infrastructure (MST edges, transformers, drainage arrows).
// Returns the SVG as a byte slice or an error if generation fails.
func ExportSVG(l *layout.Layout, opts SVGOptions) ([]byte, error) {
	if l == nil {
		return nil, fmt.Errorf("layout cannot be nil")
	}

	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	proj := newProjector(l.Site.Bounds(), opts)

	drawPolygonOutline(canvas, proj, l.Site.Polygon, "stroke:#e2e8f0;stroke-width:2;fill:none")

	if opts.ShowBlocks {
		drawBlocks(canvas, proj, l.Blocks)
	}
	if opts.ShowRoads {
		drawRoads(canvas, proj, l.Roads)
	}
	if opts.ShowLots {
		drawLots(canvas, proj, l.Lots, l.LotClass)
	}
	if opts.ShowInfra {
		drawInfra(canvas, proj, l)
	}
	if opts.ShowLegend {
		drawLegend(canvas, opts)
	}
	if opts.Title != "" || opts.ShowStats {
		drawHeader(canvas, l, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile generates an SVG visualization and saves it to a file.
// The file is created with 0644 permissions (readable by all, writable by owner).
func SaveSVGToFile(l *layout.Layout, filepath string, opts SVGOptions) error {
	data, err := ExportSVG(l, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// projector maps site-frame coordinates (metres, y-up) onto canvas
// pixels (y-down), preserving aspect ratio within the margin.
type projector struct {
	bounds geom.Bounds
	scale  float64
	margin int
	height int
}

func newProjector(bounds geom.Bounds, opts SVGOptions) projector {
	drawWidth := float64(opts.Width - 2*opts.Margin)
	drawHeight := float64(opts.Height - 2*opts.Margin)
	scale := 1.0
	if bounds.Width() > 0 && bounds.Height() > 0 {
		scale = math.Min(drawWidth/bounds.Width(), drawHeight/bounds.Height())
	}
	return projector{bounds: bounds, scale: scale, margin: opts.Margin, height: opts.Height}
}

func (p projector) point(pt geom.Point) (int, int) {
	x := p.margin + int((pt.X-p.bounds.MinX)*p.scale)
	y := p.height - p.margin - int((pt.Y-p.bounds.MinY)*p.scale)
	return x, y
}

func (p projector) ring(r geom.Ring) ([]int, []int) {
	xs := make([]int, len(r))
	ys := make([]int, len(r))
	for i, pt := range r {
		xs[i], ys[i] = p.point(pt)
	}
	return xs, ys
}

func drawPolygonOutline(canvas *svg.SVG, proj projector, poly geom.Polygon, style string) {
	if poly.Empty() {
		return
	}
	xs, ys := proj.ring(poly.Outer)
	canvas.Polygon(xs, ys, style)
	for _, hole := range poly.Holes {
		hx, hy := proj.ring(hole)
		canvas.Polygon(hx, hy, "fill:#1a1a2e;stroke:#e2e8f0;stroke-width:1")
	}
}

// blockColor maps a classification to a stable fill color.
func blockColor(c blocks.Classification) string {
	switch c {
	case blocks.Commercial:
		return "#4299e1" // Blue
	case blocks.Green:
		return "#48bb78" // Green
	case blocks.Utility:
		return "#ed8936" // Orange
	case blocks.Discard:
		return "#4a5568" // Gray
	default:
		return "#718096"
	}
}

func drawBlocks(canvas *svg.SVG, proj projector, blockList []blocks.Block) {
	for _, b := range blockList {
		if b.Polygon.Empty() {
			continue
		}
		xs, ys := proj.ring(b.Polygon.Outer)
		color := blockColor(b.Class)
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;opacity:0.2;stroke:%s;stroke-width:1.5", color, color))
	}
}

// roadStyle returns the stroke color and width for a road class.
func roadStyle(class roadnet.RoadClass) (string, int) {
	if class == roadnet.RoadMain {
		return "#e2e8f0", 3
	}
	return "#718096", 2
}

func drawRoads(canvas *svg.SVG, proj projector, network roadnet.Network) {
	for _, seg := range network.Segments {
		if len(seg.Centerline) < 2 {
			continue
		}
		color, width := roadStyle(seg.Class)
		for i := 0; i+1 < len(seg.Centerline); i++ {
			x1, y1 := proj.point(seg.Centerline[i])
			x2, y2 := proj.point(seg.Centerline[i+1])
			canvas.Line(x1, y1, x2, y2, fmt.Sprintf("stroke:%s;stroke-width:%d;opacity:0.9", color, width))
		}
	}
}

func drawLots(canvas *svg.SVG, proj projector, lots []subdivision.Lot, classes []blocks.Classification) {
	for i, l := range lots {
		if l.Polygon.Empty() {
			continue
		}
		color := "#718096"
		if i < len(classes) {
			color = blockColor(classes[i])
		}
		xs, ys := proj.ring(l.Polygon.Outer)
		canvas.Polygon(xs, ys, fmt.Sprintf("stroke:%s;stroke-width:1;fill:%s;opacity:0.35", color, color))
	}
}

// drawInfra renders Stage 3 infrastructure: MST/redundancy edges as
// lines between lot centroids, transformers as circles sized by load,
// and drainage vectors as short arrows toward the WWTP.
func drawInfra(canvas *svg.SVG, proj projector, l *layout.Layout) {
	drawEdgeSet(canvas, proj, l.MSTNodes, l.MSTEdges, "stroke:#f6e05e;stroke-width:1.5;opacity:0.8")
	drawEdgeSet(canvas, proj, l.MSTNodes, l.RedundancyEdges, "stroke:#f6e05e;stroke-width:1;stroke-dasharray:4,3;opacity:0.5")

	for _, t := range l.Transformers {
		x, y := proj.point(t.Location)
		radius := 4 + int(math.Min(t.Load/50, 12))
		canvas.Circle(x, y, radius, "fill:#f56565;stroke:#fff;stroke-width:1;opacity:0.9")
	}

	for _, d := range l.DrainageArrows {
		x1, y1 := proj.point(d.Origin)
		tip := geom.Point{X: d.Origin.X + d.Direction.X*d.Length, Y: d.Origin.Y + d.Direction.Y*d.Length}
		x2, y2 := proj.point(tip)
		canvas.Line(x1, y1, x2, y2, "stroke:#4299e1;stroke-width:1;opacity:0.7")
	}
}

func drawEdgeSet(canvas *svg.SVG, proj projector, nodes []geom.Point, edges []infra.Edge, style string) {
	for _, e := range edges {
		if e.From < 0 || e.From >= len(nodes) || e.To < 0 || e.To >= len(nodes) {
			continue
		}
		x1, y1 := proj.point(nodes[e.From])
		x2, y2 := proj.point(nodes[e.To])
		canvas.Line(x1, y1, x2, y2, style)
	}
}

// drawLegend renders a legend explaining block and infrastructure colors.
func drawLegend(canvas *svg.SVG, opts SVGOptions) {
	legendX := opts.Width - opts.Margin - 170
	legendY := opts.Margin + 20

	canvas.Rect(legendX-10, legendY-15, 180, 230,
		"fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	canvas.Text(legendX, legendY, "Blocks", "font-size:14px;font-weight:bold;fill:#e2e8f0")
	legendY += 25

	entries := []struct {
		name  string
		color string
	}{
		{"Commercial", blockColor(blocks.Commercial)},
		{"Green", blockColor(blocks.Green)},
		{"Utility", blockColor(blocks.Utility)},
		{"Discard", blockColor(blocks.Discard)},
	}
	for _, e := range entries {
		canvas.Rect(legendX, legendY-8, 16, 12, fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1", e.color))
		canvas.Text(legendX+25, legendY+2, e.name, "font-size:11px;fill:#cbd5e0")
		legendY += 20
	}

	legendY += 10
	canvas.Text(legendX, legendY, "Infrastructure", "font-size:14px;font-weight:bold;fill:#e2e8f0")
	legendY += 20
	canvas.Line(legendX, legendY, legendX+30, legendY, "stroke:#f6e05e;stroke-width:2")
	canvas.Text(legendX+35, legendY+4, "MST", "font-size:11px;fill:#cbd5e0")
	legendY += 18
	canvas.Circle(legendX+8, legendY, 6, "fill:#f56565;stroke:#fff;stroke-width:1")
	canvas.Text(legendX+25, legendY+4, "Transformer", "font-size:11px;fill:#cbd5e0")
	legendY += 18
	canvas.Line(legendX, legendY, legendX+30, legendY, "stroke:#4299e1;stroke-width:1")
	canvas.Text(legendX+35, legendY+4, "Drainage", "font-size:11px;fill:#cbd5e0")
}

// drawHeader renders title and statistics at the top of the visualization.
func drawHeader(canvas *svg.SVG, l *layout.Layout, opts SVGOptions) {
	headerY := 25
	if opts.Title != "" {
		canvas.Text(opts.Width/2, headerY, opts.Title,
			"text-anchor:middle;font-size:20px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
		headerY += 30
	}
	if opts.ShowStats {
		stats := fmt.Sprintf("Blocks: %d | Lots: %d | Transformers: %d | Status: %s",
			len(l.Blocks), len(l.Lots), len(l.Transformers), l.Status)
		canvas.Text(opts.Width/2, headerY, stats,
			"text-anchor:middle;font-size:12px;fill:#a0aec0;font-family:monospace")

		if len(l.Warnings) > 0 {
			headerY += 18
			canvas.Text(opts.Width/2, headerY, fmt.Sprintf("%d warning(s)", len(l.Warnings)),
				"text-anchor:middle;font-size:11px;fill:#f6ad55;font-family:monospace")
		}
	}
}
