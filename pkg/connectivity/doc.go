// Package connectivity rasterizes the road network onto a grid and
// runs A* to confirm every lot can reach a road cell.
//
// Grid rasterization uses bounds-checked cell access and a Bresenham
// centerline draw over a road/open-space occupancy grid. A* runs
// against a container/heap priority queue with the standard
// admissible-heuristic formulation.
package connectivity
