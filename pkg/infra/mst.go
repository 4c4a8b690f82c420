package infra

import (
	"math"
	"sort"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/layouterr"
)

// Edge is a weighted connection between two node indices (lot
// centroids, spec.md §3's ConnectivityGraph).
type Edge struct {
	From, To int
	Weight   float64
}

// Network is the result of C10: the MST tree edges plus any
// redundancy edges added for loop fault-tolerance.
type Network struct {
	TreeEdges       []Edge
	RedundancyEdges []Edge
	TotalLength     float64
}

// Config holds C10's parameters (spec.md §4.10, §6).
type Config struct {
	MaxEdgeDistance     float64 // default 500 m
	LoopRedundancyRatio float64 // default 0.15
}

// DefaultConfig returns spec.md §6's defaults.
func DefaultConfig() Config {
	return Config{MaxEdgeDistance: 500, LoopRedundancyRatio: 0.15}
}

// BuildMST constructs the candidate graph over nodes (edges under
// MaxEdgeDistance, weight = Euclidean distance), extracts the MST via
// Kruskal's algorithm with union-find, and adds the
// ceil(LoopRedundancyRatio * n) shortest non-tree edges that close a
// ring (spec.md §4.10).
func BuildMST(nodes []geom.Point, cfg Config) (*Network, error) {
	n := len(nodes)
	if n == 0 {
		return &Network{}, nil
	}
	if n == 1 {
		return &Network{}, nil
	}

	var candidates []Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := nodes[i].Distance(nodes[j])
			if d <= cfg.MaxEdgeDistance {
				candidates = append(candidates, Edge{From: i, To: j, Weight: d})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Weight < candidates[j].Weight })

	parent := make([]int, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}
	union := func(u, v int) {
		ru, rv := find(u), find(v)
		if ru == rv {
			return
		}
		if rank[ru] < rank[rv] {
			parent[ru] = rv
		} else {
			parent[rv] = ru
			if rank[ru] == rank[rv] {
				rank[ru]++
			}
		}
	}

	var tree []Edge
	var nonTree []Edge
	total := 0.0
	for _, e := range candidates {
		if find(e.From) != find(e.To) {
			union(e.From, e.To)
			tree = append(tree, e)
			total += e.Weight
		} else {
			nonTree = append(nonTree, e)
		}
	}

	if len(tree) < n-1 {
		components := connectedComponents(parent, n)
		return nil, &layouterr.NetworkError{ConnectedComponents: components, Err: layouterr.ErrDisconnected}
	}

	redundancyCount := int(math.Ceil(cfg.LoopRedundancyRatio * float64(n)))
	var redundancy []Edge
	for _, e := range nonTree {
		if len(redundancy) >= redundancyCount {
			break
		}
		redundancy = append(redundancy, e)
		total += e.Weight
	}

	return &Network{TreeEdges: tree, RedundancyEdges: redundancy, TotalLength: total}, nil
}

func connectedComponents(parent []int, n int) [][]int {
	groups := make(map[int][]int)
	find := func(u int) int {
		for parent[u] != u {
			u = parent[u]
		}
		return u
	}
	for i := 0; i < n; i++ {
		root := find(i)
		groups[root] = append(groups[root], i)
	}
	roots := make([]int, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	sort.Ints(roots)
	components := make([][]int, 0, len(groups))
	for _, r := range roots {
		components = append(components, groups[r])
	}
	return components
}
