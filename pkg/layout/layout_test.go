package layout

import (
	"context"
	"testing"
	"time"

	"github.com/indlayout/engine/pkg/geom"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.NewPolygon(geom.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}})
}

func TestConfigValidateAcceptsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got: %v", err)
	}
}

func TestConfigValidateRejectsBadSpacing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpacingMin = 100
	cfg.SpacingMax = 10
	if err := cfg.Validate(); err == nil {
		t.Error("expected spacing_min > spacing_max to fail validation")
	}
}

func TestConfigHashIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	h1 := cfg.Hash()
	h2 := cfg.Hash()
	if string(h1) != string(h2) {
		t.Error("expected Hash to be deterministic for an unchanged config")
	}

	other := cfg
	other.Seed = 43
	if string(cfg.Hash()) == string(other.Hash()) {
		t.Error("expected different seeds to hash differently")
	}
}

func TestConfigRoundTripsThroughYAML(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	data, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err := LoadConfigFromBytes(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Seed != cfg.Seed || loaded.LayoutMethod != cfg.LayoutMethod {
		t.Errorf("expected round-tripped config to match, got %+v", loaded)
	}
}

func TestDecideMethodAutoPicksGridForSmallSite(t *testing.T) {
	cfg := DefaultConfig()
	site, err := geom.NewSite(square(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m := decideMethod(&cfg, site); m != MethodGrid {
		t.Errorf("expected grid for a small site, got %v", m)
	}
}

func TestDecideMethodAutoPicksVoronoiForLargeSite(t *testing.T) {
	cfg := DefaultConfig()
	site, err := geom.NewSite(square(0, 0, 300, 300)) // 90,000 m^2
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m := decideMethod(&cfg, site); m != MethodVoronoi {
		t.Errorf("expected voronoi for a large site, got %v", m)
	}
}

func TestDecideMethodHonoursExplicitOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LayoutMethod = MethodVoronoi
	site, err := geom.NewSite(square(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m := decideMethod(&cfg, site); m != MethodVoronoi {
		t.Errorf("expected explicit override to win, got %v", m)
	}
}

func TestGenerateProducesLayoutForUnitSquare(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 123
	cfg.LayoutMethod = MethodGrid
	cfg.PopulationSize = 8
	cfg.Generations = 3
	cfg.SpacingMin = 10
	cfg.SpacingMax = 20

	site, err := geom.NewSite(square(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gen := NewGenerator()
	result, err := gen.Generate(context.Background(), &cfg, site)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metrics == nil {
		t.Fatal("expected metrics to be computed")
	}
	if result.Status == StatusFailed {
		t.Errorf("expected a non-failed layout, got warnings: %v", result.Warnings)
	}
}

func TestGenerateIsDeterministicGivenSameSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.LayoutMethod = MethodGrid
	cfg.PopulationSize = 8
	cfg.Generations = 3
	cfg.SpacingMin = 10
	cfg.SpacingMax = 20

	site, err := geom.NewSite(square(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gen := NewGenerator()
	a, err := gen.Generate(context.Background(), &cfg, site)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := gen.Generate(context.Background(), &cfg, site)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a.Blocks) != len(b.Blocks) || len(a.Lots) != len(b.Lots) {
		t.Fatalf("expected identical block/lot counts across replays, got %d/%d vs %d/%d",
			len(a.Blocks), len(a.Lots), len(b.Blocks), len(b.Lots))
	}
	if *a.Metrics != *b.Metrics {
		t.Errorf("expected identical metrics across replays, got %+v vs %+v", a.Metrics, b.Metrics)
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpacingMin = -1
	site, err := geom.NewSite(square(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gen := NewGenerator()
	if _, err := gen.Generate(context.Background(), &cfg, site); err == nil {
		t.Error("expected invalid config to be rejected before generation")
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	cfg := DefaultConfig()
	site, err := geom.NewSite(square(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := NewGenerator()
	if _, err := gen.Generate(ctx, &cfg, site); err == nil {
		t.Error("expected a cancelled context to stop generation")
	}
}

func TestGenerateHonoursVoronoiMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 5
	cfg.LayoutMethod = MethodVoronoi

	site, err := geom.NewSite(square(0, 0, 500, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gen := NewGenerator()
	result, err := gen.Generate(ctx, &cfg, site)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Blocks) == 0 {
		t.Error("expected voronoi mode to produce at least one block")
	}
}
