// Package infra implements Stage 3: the MST utility network (C10),
// k-means transformer placement (C11), and drainage vector
// computation (C12).
//
// # Grounding
//
// The MST builder's union-find (path compression + union by rank,
// iterative find, sort-edges-then-union loop, disconnection detected
// by a final edge-count check) is ported from
// katalvlaran-lvlath/prim_kruskal.Kruskal almost directly, adapted
// from lvlath's string-keyed core.Graph to integer lot-centroid
// indices. Dijkstra for C12's network mode follows the same pack
// repo's single-source shortest-path idiom (container/heap frontier,
// deterministic distance/predecessor maps). K-means (C11) has no
// precedent in the pack; it is implemented directly against the
// standard Lloyd's-algorithm-with-k-means++-seeding formulation, using
// the stage-derived seeded generator for both seeding and any tie-break.
package infra
