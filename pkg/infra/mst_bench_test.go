package infra

import (
	"testing"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/rng"
)

// BenchmarkBuildMST benchmarks Kruskal's-algorithm tree construction
// plus redundancy-edge selection over lot-centroid counts representative
// of C10's per-estate utility network sizes.
func BenchmarkBuildMST(b *testing.B) {
	tests := []struct {
		name  string
		nodes int
	}{
		{"10_lots", 10},
		{"50_lots", 50},
		{"200_lots", 200},
		{"500_lots", 500},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			nodes := randomNodes(tt.nodes, 4242)
			cfg := Config{MaxEdgeDistance: 1000, LoopRedundancyRatio: 0.15}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				net, err := BuildMST(nodes, cfg)
				if err != nil {
					b.Fatalf("BuildMST failed: %v", err)
				}
				if len(net.TreeEdges) != len(nodes)-1 {
					b.Fatalf("unexpected tree edge count: got %d, want %d", len(net.TreeEdges), len(nodes)-1)
				}
			}
		})
	}
}

func randomNodes(n int, seed uint64) []geom.Point {
	r := rng.NewRNG(seed, "bench_mst", nil)
	nodes := make([]geom.Point, n)
	for i := range nodes {
		nodes[i] = geom.Point{X: r.Float64() * 1000, Y: r.Float64() * 1000}
	}
	return nodes
}
