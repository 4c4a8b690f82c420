package roadnet

import (
	"testing"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/rng"
)

func unitSquareSite(t *testing.T) geom.Site {
	t.Helper()
	poly := geom.Polygon{Outer: geom.Ring{
		{0, 0}, {100, 0}, {100, 100}, {0, 100},
	}}
	site, err := geom.NewSite(poly)
	if err != nil {
		t.Fatalf("NewSite: %v", err)
	}
	return site
}

func TestRegistryListsBothGenerators(t *testing.T) {
	names := List()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["grid"] || !found["voronoi"] {
		t.Fatalf("expected grid and voronoi registered, got %v", names)
	}
}

func TestGetUnknownGeneratorErrors(t *testing.T) {
	if _, err := Get("nonexistent"); err == nil {
		t.Fatal("expected error for unregistered generator")
	}
}

func TestGridGeneratorProducesBlocksWithinSite(t *testing.T) {
	site := unitSquareSite(t)
	cfg := DefaultConfig()
	r := rng.NewRNG(1, "test_grid", nil)
	g := &GridGenerator{}

	result, err := g.Generate(site, []float64{25, 25, 0, 0, 0}, r, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Blocks) == 0 {
		t.Fatal("expected at least one block")
	}
	for i, b := range result.Blocks {
		if !geom.ContainsPolygon(site.Polygon, b) {
			// Allow tiny floating slack from buffering; check centroid instead.
			if !geom.ContainsPoint(site.Polygon, b.Centroid()) {
				t.Errorf("block %d centroid outside site", i)
			}
		}
	}
	if len(result.Roads.Segments) == 0 {
		t.Fatal("expected at least one road segment")
	}
}

func TestGridGeneratorRejectsWrongGeneLength(t *testing.T) {
	site := unitSquareSite(t)
	g := &GridGenerator{}
	r := rng.NewRNG(1, "test_grid_bad", nil)
	if _, err := g.Generate(site, []float64{1, 2}, r, DefaultConfig()); err == nil {
		t.Fatal("expected error for wrong gene length")
	}
}

func TestVoronoiGeneratorProducesCellsCoveringSite(t *testing.T) {
	site := unitSquareSite(t)
	cfg := DefaultConfig()
	cfg.VoronoiSeedCount = 6
	cfg.VoronoiLloydIterations = 3
	r := rng.NewRNG(1, "test_voronoi", nil)
	g := &VoronoiGenerator{}

	result, err := g.Generate(site, nil, r, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Blocks) == 0 {
		t.Fatal("expected at least one block")
	}
	totalArea := 0.0
	for _, b := range result.Blocks {
		totalArea += b.Area()
	}
	siteArea := site.Area()
	if totalArea > siteArea {
		t.Fatalf("total block area %v exceeds site area %v", totalArea, siteArea)
	}
	if totalArea < siteArea*0.3 {
		t.Fatalf("total block area %v suspiciously small vs site area %v", totalArea, siteArea)
	}
}

func TestVoronoiGeneratorIsDeterministic(t *testing.T) {
	site := unitSquareSite(t)
	cfg := DefaultConfig()
	cfg.VoronoiSeedCount = 5
	cfg.VoronoiLloydIterations = 2
	g := &VoronoiGenerator{}

	r1 := rng.NewRNG(42, "determinism_check", nil)
	res1, err := g.Generate(site, nil, r1, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	r2 := rng.NewRNG(42, "determinism_check", nil)
	res2, err := g.Generate(site, nil, r2, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res1.Blocks) != len(res2.Blocks) {
		t.Fatalf("block count differs across identical seeds: %d vs %d", len(res1.Blocks), len(res2.Blocks))
	}
	for i := range res1.Blocks {
		if res1.Blocks[i].Area()-res2.Blocks[i].Area() > geom.Epsilon {
			t.Errorf("block %d area differs across identical seeds", i)
		}
	}
}

func TestVoronoiGeneratorRequiresSeedCount(t *testing.T) {
	site := unitSquareSite(t)
	cfg := DefaultConfig()
	cfg.VoronoiSeedCount = 0
	g := &VoronoiGenerator{}
	r := rng.NewRNG(1, "test_voronoi_zero", nil)
	if _, err := g.Generate(site, nil, r, cfg); err == nil {
		t.Fatal("expected error when VoronoiSeedCount is 0")
	}
}
