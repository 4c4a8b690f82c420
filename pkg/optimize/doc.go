// Package optimize implements an NSGA-II-style multi-objective
// evolutionary search over Stage 1 gene vectors (grid spacing/angle, or
// explicit facility placement). It produces a Pareto front of
// non-dominated individuals after a bounded number of generations.
//
// The generation loop uses deterministic sorted iteration, an explicit
// seeded rng.RNG threaded through every stochastic step, and a config
// struct with tunable thresholds. Parallel fitness results are sorted
// by gene hash and written back to their own individuals before
// ranking, so results never depend on goroutine scheduling order.
//
// Fast non-dominated sorting, crowding distance, SBX crossover, and
// polynomial mutation are implemented directly against the NSGA-II
// paper's standard formulation.
package optimize
