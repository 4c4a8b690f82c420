package optimize

import (
	"testing"
	"time"

	"github.com/indlayout/engine/pkg/rng"
)

// BenchmarkRun benchmarks a full NSGA-II run against the two-objective
// sphere function at population/generation sizes representative of
// C5's grid-search usage.
func BenchmarkRun(b *testing.B) {
	tests := []struct {
		name        string
		population  int
		generations int
	}{
		{"pop20_gen20", 20, 20},
		{"pop50_gen50", 50, 50},
		{"pop100_gen100", 100, 100},
	}

	bounds := []Bounds{{Min: -2, Max: 2}, {Min: -2, Max: 2}}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			cfg := DefaultConfig(bounds)
			cfg.PopulationSize = tt.population
			cfg.Generations = tt.generations

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r := rng.NewRNG(uint64(1000+i), "bench_nsga2", nil)
				result, err := Run(cfg, sphereFitness, r, time.Time{})
				if err != nil {
					b.Fatalf("Run failed: %v", err)
				}
				if len(result.Front) == 0 {
					b.Fatal("expected non-empty Pareto front")
				}
			}
		})
	}
}

// BenchmarkFastNonDominatedSort benchmarks the sorting step in
// isolation, since it dominates per-generation cost at large
// population sizes.
func BenchmarkFastNonDominatedSort(b *testing.B) {
	sizes := []int{20, 100, 500}

	for _, n := range sizes {
		b.Run(populationLabel(n), func(b *testing.B) {
			pop := make([]*Individual, n)
			for i := range pop {
				x := float64(i%10) - 5
				y := float64((i/10)%10) - 5
				pop[i] = &Individual{
					Genes:      []float64{x, y},
					Objectives: []float64{x*x + y*y, (x-1)*(x-1) + (y-1)*(y-1)},
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				fastNonDominatedSort(pop, false)
			}
		})
	}
}

func populationLabel(n int) string {
	switch n {
	case 20:
		return "pop20"
	case 100:
		return "pop100"
	case 500:
		return "pop500"
	default:
		return "pop"
	}
}
