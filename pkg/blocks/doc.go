// Package blocks implements C6: classification of candidate blocks
// produced by Stage 1 into commercial, green, utility, or discard
// tags, using the minimum rotated rectangle's shape metrics.
//
// # Grounding
//
// The first-match-wins decision table returns a Classification tag
// directly rather than a pass/fail result, since a block's shape
// metrics map onto one of several use tags rather than a single
// boolean constraint.
package blocks
