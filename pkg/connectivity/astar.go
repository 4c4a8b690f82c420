package connectivity

import (
	"container/heap"
	"math"

	"github.com/indlayout/engine/pkg/geom"
)

// Connectivity selects 4-connected (Manhattan heuristic) or
// 8-connected (diagonal heuristic) neighbour expansion (spec.md
// §4.9).
type Connectivity int

const (
	FourConnected Connectivity = iota
	EightConnected
)

type cell struct{ x, y int }

// Path is the sequence of grid cells A* found from start to the
// nearest road cell, in order.
type Path struct {
	Cells []cell
}

// Reachable runs A* from the cell nearest p (within searchRadius
// cells) to the nearest road cell, per spec.md §4.9. It reports
// whether a road cell was reached and, if so, the path taken.
func Reachable(g *Grid, p geom.Point, searchRadius int, conn Connectivity) (bool, *Path) {
	sx, sy := g.toCell(p)
	if searchRadius <= 0 {
		searchRadius = 100
	}
	if g.IsRoad(sx, sy) {
		return true, &Path{Cells: []cell{{sx, sy}}}
	}

	start := cell{sx, sy}
	neighbors := fourNeighbors
	heuristic := manhattan
	if conn == EightConnected {
		neighbors = eightNeighbors
		heuristic = diagonal
	}
	goals := nearbyRoadCells(g, start, searchRadius)
	if len(goals) == 0 {
		return false, nil
	}

	open := &priorityQueue{}
	heap.Init(open)
	heap.Push(open, &pqItem{cell: start, priority: 0})

	gScore := map[cell]float64{start: 0}
	cameFrom := map[cell]cell{}
	visited := map[cell]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqItem).cell
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if g.IsRoad(cur.x, cur.y) {
			return true, reconstructPath(cameFrom, cur)
		}
		if chebyshev(start, cur) > searchRadius {
			continue
		}

		for _, n := range neighbors(cur) {
			if !g.inBounds(n.x, n.y) || visited[n] {
				continue
			}
			stepCost := 1.0
			if n.x != cur.x && n.y != cur.y {
				stepCost = math.Sqrt2
			}
			tentative := gScore[cur] + stepCost
			if existing, ok := gScore[n]; !ok || tentative < existing {
				gScore[n] = tentative
				cameFrom[n] = cur
				h := nearestGoalDistance(n, goals, heuristic)
				heap.Push(open, &pqItem{cell: n, priority: tentative + h})
			}
		}
	}
	return false, nil
}

// nearbyRoadCells collects every road cell within searchRadius of
// start once, up front, so the per-node heuristic below doesn't
// re-scan the grid on every A* expansion.
func nearbyRoadCells(g *Grid, start cell, searchRadius int) []cell {
	var goals []cell
	for dy := -searchRadius; dy <= searchRadius; dy++ {
		for dx := -searchRadius; dx <= searchRadius; dx++ {
			x, y := start.x+dx, start.y+dy
			if g.IsRoad(x, y) {
				goals = append(goals, cell{x, y})
			}
		}
	}
	return goals
}

// nearestGoalDistance is the standard multi-target admissible
// heuristic: the minimum of h(from, goal) over every known goal cell.
func nearestGoalDistance(from cell, goals []cell, h func(a, b cell) float64) float64 {
	best := math.Inf(1)
	for _, g := range goals {
		if d := h(from, g); d < best {
			best = d
		}
	}
	return best
}

func manhattan(a, b cell) float64 {
	return float64(absInt(a.x-b.x) + absInt(a.y-b.y))
}

func diagonal(a, b cell) float64 {
	dx, dy := absInt(a.x-b.x), absInt(a.y-b.y)
	lo, hi := dx, dy
	if lo > hi {
		lo, hi = hi, lo
	}
	return float64(hi) + (math.Sqrt2-1)*float64(lo)
}

func chebyshev(a, b cell) int {
	dx, dy := absInt(a.x-b.x), absInt(a.y-b.y)
	if dx > dy {
		return dx
	}
	return dy
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func fourNeighbors(c cell) []cell {
	return []cell{{c.x + 1, c.y}, {c.x - 1, c.y}, {c.x, c.y + 1}, {c.x, c.y - 1}}
}

func eightNeighbors(c cell) []cell {
	return []cell{
		{c.x + 1, c.y}, {c.x - 1, c.y}, {c.x, c.y + 1}, {c.x, c.y - 1},
		{c.x + 1, c.y + 1}, {c.x + 1, c.y - 1}, {c.x - 1, c.y + 1}, {c.x - 1, c.y - 1},
	}
}

func reconstructPath(cameFrom map[cell]cell, end cell) *Path {
	path := []cell{end}
	cur := end
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// Reverse into start-to-end order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return &Path{Cells: path}
}

type pqItem struct {
	cell     cell
	priority float64
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index, pq[j].index = i, j }
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
