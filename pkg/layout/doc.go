// Package layout ties every stage of the estate layout pipeline
// together behind a single Generate call: Config describes one run's
// tunables and hashes to a reproducible RNG seed; Layout is the
// resulting record of roads, classified blocks, subdivided lots, and
// planned infrastructure; DefaultGenerator sequences road/block
// generation (pkg/roadnet, pkg/blocks), subdivision and connectivity
// validation (pkg/subdivision, pkg/connectivity), infrastructure
// planning (pkg/infra), and final invariant checking (pkg/validation).
package layout
