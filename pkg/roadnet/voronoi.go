package roadnet

import (
	"fmt"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/rng"
	"github.com/indlayout/engine/pkg/spatial"
)

// VoronoiGenerator implements C4: seeds are sampled inside the site and
// relaxed with Lloyd's algorithm toward a centroidal Voronoi
// tessellation (CVT); each cell becomes a candidate block and shared
// cell edges become internal roads. Optional straight user-supplied
// main roads are subtracted from every cell before the internal-road
// derivation (spec.md §4.4).
//
// The gene vector is ignored (its length is not checked): Voronoi mode is
// driven entirely by Config and the RNG, since seed count and Lloyd
// iteration count are configuration, not evolved parameters (spec.md
// §4.4 notes CVT params are typically fixed per run rather than
// optimized).
type VoronoiGenerator struct{}

// Name identifies this generator in the Stage 1 registry.
func (g *VoronoiGenerator) Name() string { return "voronoi" }

// Generate computes a Lloyd-relaxed Voronoi tessellation of site,
// subtracts any configured main roads, and derives internal roads from
// shared cell edges.
func (g *VoronoiGenerator) Generate(site geom.Site, params []float64, r *rng.RNG, cfg Config) (*Result, error) {
	n := cfg.VoronoiSeedCount
	if n <= 0 {
		return nil, fmt.Errorf("roadnet: voronoi generator requires VoronoiSeedCount > 0")
	}

	seeds := sampleSeeds(site, n, r)
	for i := 0; i < cfg.VoronoiLloydIterations; i++ {
		seeds = lloydStep(seeds, site.Polygon)
	}

	cells := make([]geom.Polygon, len(seeds))
	for i := range seeds {
		cells[i] = computeCell(i, seeds, site.Polygon)
	}

	var mainSegments []RoadSegment
	for _, line := range cfg.VoronoiMainRoads {
		pts := []geom.Point{line[0], line[1]}
		footprint := geom.PolylineBuffer(pts, cfg.VoronoiMainRoadWidth)
		mainSegments = append(mainSegments, RoadSegment{
			Centerline: pts,
			Width:      cfg.VoronoiMainRoadWidth,
			Class:      RoadMain,
			Footprint:  footprint,
		})
		for i, c := range cells {
			d, err := geom.Difference(c, footprint)
			if err == nil {
				cells[i] = d
			}
		}
	}

	halfRoad := cfg.RoadInternalWidth / 2
	var blocks []geom.Polygon
	for _, c := range cells {
		if c.Empty() {
			continue
		}
		shrunk, err := geom.Buffer(c, -halfRoad)
		if err != nil || shrunk.Empty() {
			continue
		}
		if shrunk.Area() < cfg.MinBlockArea/4 {
			continue
		}
		blocks = append(blocks, shrunk)
	}

	segments := append(mainSegments, internalRoadsFromCells(cells, cfg.RoadInternalWidth)...)

	return &Result{Roads: Network{Segments: segments}, Blocks: blocks}, nil
}

// sampleSeeds rejection-samples n points uniformly within site's
// bounds, keeping only those inside the site polygon.
func sampleSeeds(site geom.Site, n int, r *rng.RNG) []geom.Point {
	b := site.Bounds()
	seeds := make([]geom.Point, 0, n)
	for attempts := 0; len(seeds) < n && attempts < n*200+1000; attempts++ {
		p := geom.Point{
			X: r.Float64Range(b.MinX, b.MaxX),
			Y: r.Float64Range(b.MinY, b.MaxY),
		}
		if geom.ContainsPoint(site.Polygon, p) {
			seeds = append(seeds, p)
		}
	}
	return seeds
}

// lloydStep recomputes each seed as the centroid of its current cell.
func lloydStep(seeds []geom.Point, boundary geom.Polygon) []geom.Point {
	next := make([]geom.Point, len(seeds))
	for i := range seeds {
		cell := computeCell(i, seeds, boundary)
		if cell.Empty() {
			next[i] = seeds[i]
			continue
		}
		next[i] = cell.Centroid()
	}
	return next
}

// computeCell returns the Voronoi cell of seeds[i] clipped to boundary,
// built by successively clipping boundary's outer ring against the
// perpendicular-bisector half-plane of every other seed.
func computeCell(i int, seeds []geom.Point, boundary geom.Polygon) geom.Polygon {
	ring := boundary.Outer
	s := seeds[i]
	for j, o := range seeds {
		if j == i {
			continue
		}
		ring = clipHalfPlaneToward(ring, s, o)
		if len(ring) == 0 {
			return geom.Polygon{}
		}
	}
	return geom.Polygon{Outer: ring.CCW()}
}

// clipHalfPlaneToward clips ring to the half-plane of points strictly
// closer to s than to o (a Sutherland-Hodgman pass against the
// perpendicular bisector of segment s-o).
func clipHalfPlaneToward(ring geom.Ring, s, o geom.Point) geom.Ring {
	mid := geom.Point{X: (s.X + o.X) / 2, Y: (s.Y + o.Y) / 2}
	normal := o.Sub(s)

	inside := func(p geom.Point) bool {
		return p.Sub(mid).Dot(normal) <= geom.Epsilon
	}
	intersect := func(a, b geom.Point) geom.Point {
		d := b.Sub(a)
		denom := d.Dot(normal)
		if denom == 0 {
			return a
		}
		t := mid.Sub(a).Dot(normal) / denom
		return a.Add(d.Scale(t))
	}

	n := len(ring)
	if n == 0 {
		return nil
	}
	var out geom.Ring
	for idx := 0; idx < n; idx++ {
		cur := ring[idx]
		prev := ring[(idx+n-1)%n]
		curIn := inside(cur)
		prevIn := inside(prev)
		if curIn {
			if !prevIn {
				out = append(out, intersect(prev, cur))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, intersect(prev, cur))
		}
	}
	return out
}

// internalRoadsFromCells derives one road segment per edge shared by
// two distinct cells, deduplicated so each boundary contributes a
// single segment. Candidate cell pairs are narrowed with an R-tree
// over cell envelopes before the exact edge-matching predicate runs,
// so a dense tessellation never pays for a full O(n^2) cell scan.
func internalRoadsFromCells(cells []geom.Polygon, width float64) []RoadSegment {
	type edge struct{ a, b geom.Point }
	edgesOf := func(p geom.Polygon) []edge {
		r := p.Outer
		n := len(r)
		es := make([]edge, 0, n)
		for i := 0; i < n; i++ {
			es = append(es, edge{r[i], r[(i+1)%n]})
		}
		return es
	}
	const edgeTol = geom.Epsilon * 10
	near := func(a, b geom.Point) bool { return a.Distance(b) < edgeTol }
	matches := func(e1, e2 edge) bool {
		return (near(e1.a, e2.a) && near(e1.b, e2.b)) || (near(e1.a, e2.b) && near(e1.b, e2.a))
	}

	entries := make([]spatial.Entry, 0, len(cells))
	for i, c := range cells {
		if c.Empty() {
			continue
		}
		entries = append(entries, spatial.Entry{Index: i, Box: c.Bounds()})
	}
	index := spatial.Build(entries)

	var segments []RoadSegment
	for i, cell := range cells {
		if cell.Empty() {
			continue
		}
		ei := edgesOf(cell)
		for _, j := range index.QueryEnvelope(cell.Bounds()) {
			if j <= i || cells[j].Empty() {
				continue
			}
			ej := edgesOf(cells[j])
			for _, e1 := range ei {
				for _, e2 := range ej {
					if matches(e1, e2) {
						segments = append(segments, buildSegment([2]geom.Point{e1.a, e1.b}, width, RoadInternal))
					}
				}
			}
		}
	}
	return segments
}
