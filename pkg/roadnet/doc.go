// Package roadnet produces Stage 1 of the pipeline: a road network and
// the candidate blocks it carves from a site. Two interchangeable
// generators are provided — Grid and Voronoi — selected through a
// small plugin registry (Register/Get/List), each validating its own
// Config and implementing the same deterministic contract: given the
// same site and RNG state, Generate produces an identical Result.
package roadnet
