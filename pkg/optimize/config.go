package optimize

import "fmt"

// FitnessFunc evaluates one gene vector and returns its objective
// values (all minimised) plus the sum of positive constraint
// violations (0 or negative means feasible). Implementations must be
// pure and deterministic: the same genes must always yield the same
// result, since evaluation may run concurrently across a worker pool
// (spec.md §5).
type FitnessFunc func(genes []float64) (objectives []float64, violation float64, err error)

// Config holds C5's tunable parameters (spec.md §4.5, §6).
type Config struct {
	PopulationSize int
	Generations    int
	GeneBounds     []Bounds

	CrossoverProb float64 // default 0.9
	MutationProb  float64 // default 1/n_genes; 0 triggers the default
	SBXEta        float64 // default 15
	MutationEta   float64 // default 20

	HardConstraints bool // apply NSGA-II constraint-domination

	// EarlyStopThreshold/EarlyStopWindow implement spec.md's proposed
	// (and here, wired-in) early-stop rule: stop when the best
	// objective's improvement over EarlyStopWindow generations falls
	// below EarlyStopThreshold (see DESIGN.md open-question decision).
	EarlyStopThreshold float64
	EarlyStopWindow    int
}

// DefaultConfig returns the defaults named in spec.md §4.5/§6.
func DefaultConfig(geneBounds []Bounds) Config {
	mutationProb := 0.0
	if len(geneBounds) > 0 {
		mutationProb = 1 / float64(len(geneBounds))
	}
	return Config{
		PopulationSize:     50,
		Generations:        100,
		GeneBounds:         geneBounds,
		CrossoverProb:      0.9,
		MutationProb:       mutationProb,
		SBXEta:             15,
		MutationEta:        20,
		HardConstraints:    false,
		EarlyStopThreshold: 0.01,
		EarlyStopWindow:    10,
	}
}

// Validate checks config bounds, accumulating every violation found
// rather than stopping at the first.
func (c Config) Validate() error {
	var violations []string
	if c.PopulationSize < 2 {
		violations = append(violations, "population_size must be >= 2")
	}
	if c.Generations < 1 {
		violations = append(violations, "generations must be >= 1")
	}
	if len(c.GeneBounds) == 0 {
		violations = append(violations, "gene_bounds must be non-empty")
	}
	for i, b := range c.GeneBounds {
		if b.Max < b.Min {
			violations = append(violations, fmt.Sprintf("gene %d: max < min", i))
		}
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		violations = append(violations, "crossover_prob must be in [0, 1]")
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		violations = append(violations, "mutation_prob must be in [0, 1]")
	}
	if len(violations) > 0 {
		return fmt.Errorf("optimize: invalid config: %v", violations)
	}
	return nil
}
