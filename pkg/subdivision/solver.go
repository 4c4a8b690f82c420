package subdivision

import (
	"math"
	"time"

	"github.com/indlayout/engine/pkg/layouterr"
)

// Config holds C7's parameters (spec.md §4.7, §6). Widths are in
// metres; internally the solver scales to centimetres (×100) so the
// equality-sum constraint can be enforced exactly in integers.
type Config struct {
	TargetWidth float64
	MinWidth    float64
	MaxWidth    float64
	Setback     float64 // default 6 m
	Penalty     float64 // default 50
	TimeLimit   time.Duration
}

// DefaultConfig returns the defaults named in spec.md §4.7/§6.
func DefaultConfig() Config {
	return Config{
		TargetWidth: 15,
		MinWidth:    10,
		MaxWidth:    25,
		Setback:     6,
		Penalty:     50,
		TimeLimit:   5 * time.Second,
	}
}

// Result is the solved partition of one block's frontage.
type Result struct {
	Widths    []float64 // metres, sums to L within centimetre rounding
	LotDepth  float64   // D - 2*setback
	Objective float64
	Partial   bool // best-so-far returned because the deadline hit
}

// Solve partitions a frontage of length L (metres) into k integer-
// centimetre widths bounded by [MinWidth, MaxWidth] summing exactly to
// L, minimising total deviation from TargetWidth (spec.md §4.7).
//
// The search tries every lot count k in the feasible range
// [ceil(L/MaxWidth), floor(L/MinWidth)], each resolved in O(1) by
// distributing L's centimetre remainder evenly across k lots, and
// keeps the k with the lowest penalised deviation. The search stops
// early (returning Partial=true with the best k found so far) if
// deadline passes before every candidate k is tried — in practice this
// is O(L) single-pass work and will not approach a 5 s budget for any
// realistic frontage, but the deadline is still honoured per spec.md
// §5's explicit-Deadline-parameter convention.
func Solve(blockID string, L, D float64, cfg Config, deadline time.Time) (*Result, error) {
	totalCents := int(math.Round(L * 100))
	minCents := int(math.Round(cfg.MinWidth * 100))
	maxCents := int(math.Round(cfg.MaxWidth * 100))
	if minCents <= 0 || maxCents < minCents || totalCents <= 0 {
		return nil, &layouterr.SolverError{BlockID: blockID, Err: layouterr.ErrNoFeasibleSolution}
	}

	kMin := ceilDiv(totalCents, maxCents)
	kMax := totalCents / minCents
	if kMin < 1 {
		kMin = 1
	}
	if kMax < kMin {
		return nil, &layouterr.SolverError{BlockID: blockID, Err: layouterr.ErrNoFeasibleSolution}
	}

	targetCents := cfg.TargetWidth * 100

	bestK := -1
	bestObjective := math.Inf(1)
	partial := false

	for k := kMin; k <= kMax; k++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			partial = true
			break
		}
		widthsCents := distributeRemainder(totalCents, k)
		deviation := 0.0
		for _, wc := range widthsCents {
			deviation += math.Abs(float64(wc)-targetCents) * cfg.Penalty
		}
		objective := deviation // the "maximise sum - deviation*penalty" term's sum part is constant given the equality constraint, so minimising deviation alone is equivalent
		if objective < bestObjective {
			bestObjective = objective
			bestK = k
		}
	}

	if bestK < 0 {
		return nil, &layouterr.SolverError{BlockID: blockID, Err: layouterr.ErrNoFeasibleSolution}
	}

	widthsCents := distributeRemainder(totalCents, bestK)
	widths := make([]float64, bestK)
	for i, wc := range widthsCents {
		widths[i] = float64(wc) / 100
	}

	return &Result{
		Widths:    widths,
		LotDepth:  D - 2*cfg.Setback,
		Objective: bestObjective,
		Partial:   partial,
	}, nil
}

// distributeRemainder splits totalCents into k parts as evenly as
// possible: the first (totalCents mod k) parts get one extra
// centimetre so the parts sum exactly to totalCents.
func distributeRemainder(totalCents, k int) []int {
	base := totalCents / k
	remainder := totalCents % k
	widths := make([]int, k)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
