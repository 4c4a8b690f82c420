// Package export serializes a completed Layout (pkg/layout) to JSON
// for machine consumption and to SVG for human review.
package export
