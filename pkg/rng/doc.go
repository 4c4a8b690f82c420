// Package rng provides deterministic random number generation for the
// layout engine.
//
// # Overview
//
// The RNG type ensures reproducible layouts by deriving stage-specific
// seeds from a master seed. This allows each pipeline stage (Stage 1
// road/grid search, Stage 3 k-means transformer placement, ...) to have
// an independent random sequence while the overall run stays
// deterministic for a given (site, config, seed) triple.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: top-level seed for the entire pipeline run
//   - stageName: pipeline stage identifier (e.g., "grid_optimizer")
//   - configHash: hash of the configuration record
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism)
//  2. Different stages get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Worker splitting
//
// C5's fitness evaluation is embarrassingly parallel across individuals
// (spec.md §5). Split derives one independent sub-RNG per worker from a
// stage RNG so that parallel workers never share mutable RNG state and
// the same worker index always gets the same sequence regardless of
// how work happens to be scheduled across goroutines.
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Each goroutine must use its own
// RNG instance, obtained via NewRNG or Split before spawning goroutines.
package rng
