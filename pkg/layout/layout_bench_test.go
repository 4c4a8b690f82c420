package layout

import (
	"context"
	"testing"

	"github.com/indlayout/engine/pkg/geom"
)

// BenchmarkGenerate exercises the full pipeline (Stage 1 NSGA-II search
// through Stage 3 infrastructure planning) end to end.
func BenchmarkGenerate(b *testing.B) {
	cases := []struct {
		name string
		side float64
	}{
		{"Small_100m", 100},
		{"Medium_300m", 300},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			site, err := geom.NewSite(square(0, 0, tc.side, tc.side))
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			cfg := DefaultConfig()
			cfg.Seed = 1
			cfg.PopulationSize = 16
			cfg.Generations = 5

			gen := NewGenerator()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := gen.Generate(context.Background(), &cfg, site); err != nil {
					b.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}
