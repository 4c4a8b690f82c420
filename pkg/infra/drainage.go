package infra

import (
	"container/heap"
	"math"

	"github.com/indlayout/engine/pkg/geom"
)

// DrainageMode selects C12's simple (straight-line) or network
// (shortest-path along the road graph) drainage direction computation
// (spec.md §4.12).
type DrainageMode int

const (
	// DrainageSimple points each lot toward the WWTP in a straight line.
	DrainageSimple DrainageMode = iota
	// DrainageNetwork routes along the road network graph via Dijkstra
	// and reports the direction of the first hop on the shortest path.
	DrainageNetwork
)

// DrainageVector is a lot's drainage arrow: its origin, unit flow
// direction, and drawn length.
type DrainageVector struct {
	Origin    geom.Point
	Direction geom.Point // unit vector
	Length    float64    // arrow_length, scaled by config
}

// DrainageConfig holds C12's parameters.
type DrainageConfig struct {
	Mode        DrainageMode
	ArrowLength float64 // default 5 m
}

// DefaultDrainageConfig returns spec.md §6's defaults.
func DefaultDrainageConfig() DrainageConfig {
	return DrainageConfig{Mode: DrainageSimple, ArrowLength: 5}
}

// WWTPLocation picks the waste-water treatment plant location: the
// lowest-elevation point among candidates if elevations are known,
// otherwise the site centroid (spec.md §4.12).
func WWTPLocation(site geom.Site, elevations map[geom.Point]float64) geom.Point {
	if len(elevations) == 0 {
		return site.Centroid()
	}
	var lowest geom.Point
	best := math.Inf(1)
	for p, e := range elevations {
		if e < best {
			best = e
			lowest = p
		}
	}
	return lowest
}

// PlanDrainage computes a drainage vector per lot centroid.
//
// In DrainageSimple mode each vector points straight from the lot
// centroid toward wwtp. In DrainageNetwork mode, graph must describe
// the road network's node/edge structure (node indices correspond to
// the graphNodes slice) and wwtpNode is the index of the node nearest
// the WWTP; Dijkstra computes the shortest path from wwtpNode to every
// reachable node, and each lot's direction follows the first edge of
// its own shortest path back to the plant (the reverse of the
// predecessor chain Dijkstra builds from the source).
func PlanDrainage(lots []geom.Point, wwtp geom.Point, cfg DrainageConfig, graphNodes []geom.Point, graph []Edge, wwtpNode int) []DrainageVector {
	if cfg.Mode == DrainageNetwork && len(graphNodes) > 0 {
		return planDrainageNetwork(lots, wwtp, cfg, graphNodes, graph, wwtpNode)
	}
	return planDrainageSimple(lots, wwtp, cfg)
}

func planDrainageSimple(lots []geom.Point, wwtp geom.Point, cfg DrainageConfig) []DrainageVector {
	vectors := make([]DrainageVector, len(lots))
	for i, l := range lots {
		dir := unitVector(l, wwtp)
		vectors[i] = DrainageVector{Origin: l, Direction: dir, Length: cfg.ArrowLength}
	}
	return vectors
}

func planDrainageNetwork(lots []geom.Point, wwtp geom.Point, cfg DrainageConfig, graphNodes []geom.Point, graph []Edge, wwtpNode int) []DrainageVector {
	predecessor, _ := dijkstra(graphNodes, graph, wwtpNode)

	vectors := make([]DrainageVector, len(lots))
	for i, l := range lots {
		nearestNode := nearestGraphNode(l, graphNodes)
		firstHop := firstHopTowardSource(nearestNode, predecessor)
		var dir geom.Point
		if firstHop == nearestNode {
			dir = unitVector(l, wwtp)
		} else {
			dir = unitVector(graphNodes[nearestNode], graphNodes[firstHop])
		}
		vectors[i] = DrainageVector{Origin: l, Direction: dir, Length: cfg.ArrowLength}
	}
	return vectors
}

// firstHopTowardSource returns node's predecessor on the Dijkstra tree
// rooted at the source, i.e. the neighbour adjacent to node on its own
// shortest path to the source. It returns node itself when node is the
// source or unreachable.
func firstHopTowardSource(node int, predecessor map[int]int) int {
	prev, ok := predecessor[node]
	if !ok {
		return node
	}
	return prev
}

func nearestGraphNode(p geom.Point, nodes []geom.Point) int {
	best, bestDist := 0, math.Inf(1)
	for i, n := range nodes {
		if d := p.Distance(n); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func unitVector(from, to geom.Point) geom.Point {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < geom.Epsilon {
		return geom.Point{}
	}
	return geom.Point{X: dx / length, Y: dy / length}
}

// dijkstra runs single-source shortest path from source over the graph
// described by nodes/edges (an undirected weighted graph), returning
// each reachable node's predecessor and distance, using a
// container/heap frontier matching the pack's Dijkstra idiom.
func dijkstra(nodes []geom.Point, edges []Edge, source int) (map[int]int, map[int]float64) {
	adj := make(map[int][]Edge, len(nodes))
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e)
		adj[e.To] = append(adj[e.To], Edge{From: e.To, To: e.From, Weight: e.Weight})
	}

	dist := map[int]float64{source: 0}
	predecessor := map[int]int{}
	visited := map[int]bool{}

	pq := &distHeap{}
	heap.Init(pq)
	heap.Push(pq, &distItem{node: source, dist: 0})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*distItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		for _, e := range adj[cur.node] {
			nd := dist[cur.node] + e.Weight
			if existing, ok := dist[e.To]; !ok || nd < existing {
				dist[e.To] = nd
				predecessor[e.To] = cur.node
				heap.Push(pq, &distItem{node: e.To, dist: nd})
			}
		}
	}
	return predecessor, dist
}

type distItem struct {
	node int
	dist float64
}

type distHeap []*distItem

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x interface{}) { *h = append(*h, x.(*distItem)) }
func (h *distHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
