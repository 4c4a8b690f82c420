package layout

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/validation"
)

// TestPropertyUtilizationRatioStaysInUnitInterval checks P2: for any
// valid rectangular site, utilization_ratio = total_commercial_area /
// site_area lands in [0, 1], since a block's area can never exceed the
// site it was carved from.
func TestPropertyUtilizationRatioStaysInUnitInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.Float64Range(30, 300).Draw(t, "width")
		height := rapid.Float64Range(30, 300).Draw(t, "height")
		seed := rapid.Uint64().Draw(t, "seed")

		site, err := geom.NewSite(square(0, 0, width, height))
		if err != nil {
			t.Fatalf("NewSite: %v", err)
		}

		cfg := DefaultConfig()
		cfg.Seed = seed
		cfg.LayoutMethod = MethodGrid
		cfg.PopulationSize = 6
		cfg.Generations = 2
		cfg.SpacingMin = 10
		cfg.SpacingMax = 20

		gen := NewGenerator()
		result, err := gen.Generate(context.Background(), &cfg, site)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if result.Metrics == nil {
			t.Fatal("expected metrics to be computed")
		}
		if result.Metrics.UtilizationRatio < 0 || result.Metrics.UtilizationRatio > 1 {
			t.Fatalf("utilization_ratio out of [0,1]: %v (width=%v height=%v seed=%v)",
				result.Metrics.UtilizationRatio, width, height, seed)
		}
	})
}

// TestPropertyReplayIsDeterministic checks I7: identical site, config,
// and seed must reproduce identical metrics and block/lot counts
// across repeated runs.
func TestPropertyReplayIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		side := rapid.Float64Range(50, 200).Draw(t, "side")
		seed := rapid.Uint64Range(1, 1<<32).Draw(t, "seed")

		site, err := geom.NewSite(square(0, 0, side, side))
		if err != nil {
			t.Fatalf("NewSite: %v", err)
		}

		cfg := DefaultConfig()
		cfg.Seed = seed
		cfg.LayoutMethod = MethodGrid
		cfg.PopulationSize = 6
		cfg.Generations = 2
		cfg.SpacingMin = 10
		cfg.SpacingMax = 20

		gen := NewGenerator()
		a, err := gen.Generate(context.Background(), &cfg, site)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		b, err := gen.Generate(context.Background(), &cfg, site)
		if err != nil {
			t.Fatalf("Generate (replay): %v", err)
		}

		if len(a.Blocks) != len(b.Blocks) || len(a.Lots) != len(b.Lots) {
			t.Fatalf("replay produced different block/lot counts: %d/%d vs %d/%d",
				len(a.Blocks), len(a.Lots), len(b.Blocks), len(b.Lots))
		}
		if err := validation.ReplayMatches(a.Metrics, b.Metrics); err != nil {
			t.Fatalf("replay metrics diverged: %v", err)
		}
	})
}
