// Package validation checks a finished layout against the invariants
// and quantified properties every Layout must satisfy, and computes
// the summary metrics the orchestrator (C13) attaches to its output.
//
// # Hard constraints
//
// Hard constraints must hold for a Layout to be considered valid:
//
//   - AreaCoverage (I1): blocks plus road footprints account for the
//     whole site, within an area tolerance.
//   - LotContainment (I2): every lot lies strictly inside exactly one
//     block.
//   - NoLotOverlap (I3): no two lots share more than a negligible
//     intersection area.
//   - CommercialLotBounds (I4): every commercial lot's frontage and
//     area fall within the configured bounds.
//   - NetworkSpanning (I5): the MST tree edge count matches
//     nodes − components; the redundancy-edge count is reported but
//     not checked.
//   - TransformerCapacity (I6): no transformer's served load exceeds
//     its capacity.
//
// I7 (deterministic replay) is not a per-Layout check; it is exercised
// by running the pipeline twice with the same seed and comparing
// output, which belongs to the orchestrator's and the property tests'
// responsibility rather than this package's.
//
// # Metrics
//
// Report.Metrics summarises the Layout: utilization ratio, total green
// area, MST length, average lot area, and the count of discarded
// blocks (spec.md §3).
//
// # Staging
//
// DefaultValidator.Validate runs hard checks first, then soft checks
// and metrics, and sets Passed from the accumulated hard-check errors
// only: a site that trips a soft warning still reports Passed if every
// hard invariant holds.
package validation
