// Package spatial implements an R-tree over polygon envelopes, used to
// cut candidate sets from O(n) to O(log n) before any exact geometric
// predicate runs.
//
// Entries are sorted by box center before the tree is packed, and
// QueryEnvelope returns indices in ascending order, so query results
// are stable run-to-run for a fixed input regardless of map iteration
// order elsewhere in the pipeline.
package spatial
