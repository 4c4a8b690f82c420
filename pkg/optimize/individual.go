package optimize

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Individual is a single candidate solution: a gene vector plus the
// objective values and constraint violation computed for it.
type Individual struct {
	Genes      []float64
	Objectives []float64
	// Violation is the sum of positive constraint violations (spec.md
	// §4.5's g_i). Zero or negative means feasible.
	Violation float64

	Rank     int
	Crowding float64
}

// Feasible reports whether the individual satisfies all hard
// constraints (Violation <= 0).
func (ind *Individual) Feasible() bool { return ind.Violation <= 0 }

// geneHash computes a stable FNV-1a hash over the raw bits of the gene
// vector. Used both as the post-evaluation collection order (spec.md
// §5: "results are collected and then sorted deterministically by
// gene hash before NSGA-II ranking") and as the tie-break when two
// individuals share (rank, crowding) (spec.md §9 open question).
func geneHash(genes []float64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, g := range genes {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(g))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// dominates reports whether ind Pareto-dominates other. When
// hardConstraints is set, the NSGA-II constraint-domination rule
// applies first (spec.md §4.5): a feasible individual dominates any
// infeasible one; between two infeasible individuals, the one with
// the smaller total violation dominates. Otherwise (or once both are
// feasible) standard objective dominance applies: no worse in every
// objective and strictly better in at least one, all minimised.
func (ind *Individual) dominates(other *Individual, hardConstraints bool) bool {
	if hardConstraints {
		indFeasible, otherFeasible := ind.Feasible(), other.Feasible()
		switch {
		case indFeasible && !otherFeasible:
			return true
		case !indFeasible && otherFeasible:
			return false
		case !indFeasible && !otherFeasible:
			return ind.Violation < other.Violation
		}
	}

	strictlyBetter := false
	for k := range ind.Objectives {
		if ind.Objectives[k] > other.Objectives[k] {
			return false
		}
		if ind.Objectives[k] < other.Objectives[k] {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}
