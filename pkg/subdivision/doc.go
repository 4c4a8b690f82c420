// Package subdivision implements C7 (the lot-width solver) and C8
// (the orthogonal slicer): splitting a commercial block into
// near-uniform lots along its dominant edge.
//
// # Search strategy
//
// C7 runs a bounded, deadline-checked search over candidate lot
// widths: try each candidate, keep the best found within the time
// budget, and fall back cleanly on exhaustion rather than blocking
// indefinitely for an exact optimum.
package subdivision
