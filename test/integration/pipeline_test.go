package integration

import (
	"context"
	"testing"

	"github.com/indlayout/engine/pkg/blocks"
	"github.com/indlayout/engine/pkg/connectivity"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/infra"
	"github.com/indlayout/engine/pkg/layout"
	"github.com/indlayout/engine/pkg/roadnet"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.NewPolygon(geom.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}})
}

// TestUnitSquareGridMode covers spec.md §8 scenario 1: a 100x100 m
// site in grid mode should carve at least one commercial block
// covering most of the site, with enough lots and utilization to
// match the scenario's thresholds.
func TestUnitSquareGridMode(t *testing.T) {
	site, err := geom.NewSite(square(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("NewSite: %v", err)
	}

	cfg := layout.DefaultConfig()
	cfg.Seed = 42
	cfg.LayoutMethod = layout.MethodGrid
	cfg.SpacingMin = 20
	cfg.SpacingMax = 30
	cfg.PopulationSize = 50
	cfg.Generations = 20
	cfg.TargetLotWidth = 10
	cfg.SetbackDistance = 6

	gen := layout.NewGenerator()
	result, err := gen.Generate(context.Background(), &cfg, site)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	commercialArea := 0.0
	for _, b := range result.Blocks {
		if b.Class == blocks.Commercial {
			commercialArea += b.Area
		}
	}
	if commercialArea < 0.8*site.Area() {
		t.Errorf("expected commercial coverage >= 80%% of site, got %.1f%%", 100*commercialArea/site.Area())
	}
	if len(result.Lots) < 40 {
		t.Errorf("expected >= 40 lots, got %d", len(result.Lots))
	}
	if result.Metrics == nil || result.Metrics.UtilizationRatio < 0.55 {
		var got float64
		if result.Metrics != nil {
			got = result.Metrics.UtilizationRatio
		}
		t.Errorf("expected utilization >= 0.55, got %.3f", got)
	}
}

// TestThinRectangleGridMode covers spec.md §8 scenario 2: a 200x30 m
// site should yield no lot out of the configured width bounds and no
// discarded blocks.
func TestThinRectangleGridMode(t *testing.T) {
	site, err := geom.NewSite(square(0, 0, 200, 30))
	if err != nil {
		t.Fatalf("NewSite: %v", err)
	}

	cfg := layout.DefaultConfig()
	cfg.Seed = 99
	cfg.LayoutMethod = layout.MethodGrid
	cfg.SpacingMin = 20
	cfg.SpacingMax = 30
	cfg.PopulationSize = 30
	cfg.Generations = 15
	cfg.TargetLotWidth = 10
	cfg.MinLotWidth = 6
	cfg.MaxLotWidth = 20

	gen := layout.NewGenerator()
	result, err := gen.Generate(context.Background(), &cfg, site)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, l := range result.Lots {
		if l.Width < cfg.MinLotWidth-1e-6 || l.Width > cfg.MaxLotWidth+1e-6 {
			t.Errorf("lot %s width %.2f outside [%.1f, %.1f]", l.BlockID, l.Width, cfg.MinLotWidth, cfg.MaxLotWidth)
		}
	}

	discarded := 0
	for _, b := range result.Blocks {
		if b.Class == blocks.Discard {
			discarded++
		}
	}
	if discarded != 0 {
		t.Errorf("expected zero discarded blocks, got %d", discarded)
	}
}

// TestLShapeVoronoiMode covers spec.md §8 scenario 3: an L-shaped site
// (200x200 outer, 100x100 notch removed) in Voronoi mode should
// produce at least 5 blocks, none crossing the notch, with a
// deterministic road network length across repeated seeded runs.
func TestLShapeVoronoiMode(t *testing.T) {
	outer := geom.Ring{{0, 0}, {200, 0}, {200, 200}, {100, 200}, {100, 100}, {0, 100}}
	notch, err := geom.NewSite(geom.NewPolygon(geom.Ring{{0, 100}, {100, 100}, {100, 200}, {0, 200}}))
	if err != nil {
		t.Fatalf("NewSite(notch): %v", err)
	}
	site, err := geom.NewSite(geom.NewPolygon(outer))
	if err != nil {
		t.Fatalf("NewSite: %v", err)
	}

	cfg := layout.DefaultConfig()
	cfg.Seed = 7
	cfg.LayoutMethod = layout.MethodVoronoi

	gen := layout.NewGenerator()
	a, err := gen.Generate(context.Background(), &cfg, site)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(a.Blocks) < 5 {
		t.Errorf("expected >= 5 blocks, got %d", len(a.Blocks))
	}
	for _, b := range a.Blocks {
		if geom.Intersects(b.Polygon, notch.Polygon) && notchOverlapArea(b.Polygon, notch.Polygon) > 1e-3 {
			t.Errorf("block %+v overlaps the notch it should have been clipped against", b.Polygon.Bounds())
		}
	}

	b, err := gen.Generate(context.Background(), &cfg, site)
	if err != nil {
		t.Fatalf("Generate (repeat): %v", err)
	}
	if a.Roads.TotalLength() != b.Roads.TotalLength() {
		t.Errorf("expected deterministic road length across seeded runs, got %.4f vs %.4f",
			a.Roads.TotalLength(), b.Roads.TotalLength())
	}
}

func notchOverlapArea(a, notch geom.Polygon) float64 {
	overlap, err := geom.Intersection(a, notch)
	if err != nil {
		return 0
	}
	return overlap.Area()
}

// TestAStarPathfindingCrossingRoads covers spec.md §8 scenario 5: a
// 50x50 grid with roads at x=25 and y=25. A plot at (10, 10) should
// reach a road cell; a plot isolated far outside the search radius
// should be unreachable.
func TestAStarPathfindingCrossingRoads(t *testing.T) {
	network := roadnet.Network{
		Segments: []roadnet.RoadSegment{
			{Centerline: []geom.Point{{25, 0}, {25, 50}}, Width: 4, Class: roadnet.RoadMain},
			{Centerline: []geom.Point{{0, 25}, {50, 25}}, Width: 4, Class: roadnet.RoadMain},
		},
	}
	grid := connectivity.NewGrid(geom.Bounds{MinX: 0, MinY: 0, MaxX: 50, MaxY: 50}, 1, network)

	reachable, path := connectivity.Reachable(grid, geom.Point{X: 10, Y: 10}, 30, connectivity.EightConnected)
	if !reachable {
		t.Fatal("expected (10,10) to reach a road cell")
	}
	if path == nil || len(path.Cells) == 0 {
		t.Error("expected a non-empty path to the nearest road cell")
	}

	reachable, _ = connectivity.Reachable(grid, geom.Point{X: 49, Y: 49}, 1, connectivity.FourConnected)
	if reachable {
		t.Error("expected a plot outside the search radius of any road to be unreachable")
	}
}

// TestMSTOverTenLotCentroids covers spec.md §8 scenario 6: 10 points
// uniformly inside a 100x100 area should yield exactly 9 tree edges,
// plus ceil(0.15*10) = 2 redundancy edges.
func TestMSTOverTenLotCentroids(t *testing.T) {
	nodes := []geom.Point{
		{X: 10, Y: 10}, {X: 20, Y: 80}, {X: 30, Y: 40}, {X: 40, Y: 10}, {X: 50, Y: 90},
		{X: 60, Y: 30}, {X: 70, Y: 70}, {X: 80, Y: 20}, {X: 90, Y: 60}, {X: 95, Y: 95},
	}
	cfg := infra.Config{MaxEdgeDistance: 500, LoopRedundancyRatio: 0.15}

	net, err := infra.BuildMST(nodes, cfg)
	if err != nil {
		t.Fatalf("BuildMST: %v", err)
	}
	if len(net.TreeEdges) != len(nodes)-1 {
		t.Errorf("expected %d tree edges, got %d", len(nodes)-1, len(net.TreeEdges))
	}
	if len(net.RedundancyEdges) != 2 {
		t.Errorf("expected 2 redundancy edges, got %d", len(net.RedundancyEdges))
	}
}
