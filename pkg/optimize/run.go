package optimize

import (
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/indlayout/engine/pkg/layouterr"
	"github.com/indlayout/engine/pkg/rng"
)

// Result is the outcome of a Run: the final Pareto front (rank 0 of
// the last generation) plus whether the search stopped early because
// the deadline passed before the generation budget was exhausted.
type Result struct {
	Front       []*Individual
	Generations int
	Partial     bool
}

// Run executes the NSGA-II loop (spec.md §4.5) to completion, to the
// early-stop condition, or to deadline, whichever comes first.
// Fitness evaluation for a generation's unevaluated individuals is
// farmed out to a worker pool sized to cpu_count (spec.md §5); results
// are collected and re-sorted by gene hash before ranking so that two
// runs with the same seed produce an identical Pareto front regardless
// of goroutine completion order.
func Run(cfg Config, fitness FitnessFunc, r *rng.RNG, deadline time.Time) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &layouterr.OptimizerError{Op: "run", Err: err}
	}
	if cfg.MutationProb == 0 {
		cfg.MutationProb = 1 / float64(len(cfg.GeneBounds))
	}

	pop := initializePopulation(cfg, r)
	if err := evaluatePopulation(pop, fitness); err != nil {
		return nil, &layouterr.OptimizerError{Op: "initial evaluation", Err: err}
	}
	fronts := fastNonDominatedSort(pop, cfg.HardConstraints)
	for _, f := range fronts {
		crowdingDistance(f)
	}

	bestHistory := make([]float64, 0, cfg.Generations)
	partial := false

	generation := 0
	for ; generation < cfg.Generations; generation++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			partial = true
			break
		}

		mutationRate := annealedMutationRate(cfg.MutationProb, generation, cfg.Generations)
		offspring := makeOffspring(pop, cfg, mutationRate, r)
		if err := evaluatePopulation(offspring, fitness); err != nil {
			return nil, &layouterr.OptimizerError{Op: "offspring evaluation", Err: err}
		}

		combined := append(append([]*Individual{}, pop...), offspring...)
		pop = truncateByFront(combined, cfg.PopulationSize, cfg.HardConstraints)

		best := bestObjectiveSum(pop)
		bestHistory = append(bestHistory, best)
		if earlyStopTriggered(bestHistory, cfg.EarlyStopThreshold, cfg.EarlyStopWindow) {
			generation++
			break
		}
	}

	fronts = fastNonDominatedSort(pop, cfg.HardConstraints)
	for _, f := range fronts {
		crowdingDistance(f)
	}
	front := fronts[0]

	if cfg.HardConstraints {
		anyFeasible := false
		for _, ind := range front {
			if ind.Feasible() {
				anyFeasible = true
				break
			}
		}
		if !anyFeasible {
			return nil, &layouterr.OptimizerError{Op: "run", Err: layouterr.ErrNoFeasibleSolution}
		}
	}

	return &Result{Front: front, Generations: generation, Partial: partial}, nil
}

func initializePopulation(cfg Config, r *rng.RNG) []*Individual {
	pop := make([]*Individual, cfg.PopulationSize)
	for i := range pop {
		genes := make([]float64, len(cfg.GeneBounds))
		for g, b := range cfg.GeneBounds {
			genes[g] = r.Float64Range(b.Min, b.Max)
		}
		pop[i] = &Individual{Genes: genes}
	}
	return pop
}

func makeOffspring(pop []*Individual, cfg Config, mutationRate float64, r *rng.RNG) []*Individual {
	offspring := make([]*Individual, 0, len(pop))
	for len(offspring) < len(pop) {
		p1 := tournamentSelect(pop, r)
		p2 := tournamentSelect(pop, r)

		var c1Genes, c2Genes []float64
		if r.Float64() < cfg.CrossoverProb {
			c1Genes, c2Genes = sbxCrossover(p1.Genes, p2.Genes, cfg.GeneBounds, cfg.SBXEta, r)
		} else {
			c1Genes = append([]float64{}, p1.Genes...)
			c2Genes = append([]float64{}, p2.Genes...)
		}
		polynomialMutation(c1Genes, cfg.GeneBounds, cfg.MutationEta, mutationRate, r)
		polynomialMutation(c2Genes, cfg.GeneBounds, cfg.MutationEta, mutationRate, r)

		offspring = append(offspring, &Individual{Genes: c1Genes}, &Individual{Genes: c2Genes})
	}
	return offspring[:len(pop)]
}

// evaluatePopulation fills in Objectives/Violation for every
// individual in pop via a worker pool of size cpu_count. The collected
// results are sorted by gene hash and written back to each result's own
// index, so pop keeps its order and the outcome does not depend on
// scheduling (spec.md §5).
func evaluatePopulation(pop []*Individual, fitness FitnessFunc) error {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(pop) {
		workers = len(pop)
	}

	type outcome struct {
		index      int
		objectives []float64
		violation  float64
		err        error
	}

	jobs := make(chan int)
	results := make(chan outcome, len(pop))

	for w := 0; w < workers; w++ {
		go func() {
			for idx := range jobs {
				objectives, violation, err := fitness(pop[idx].Genes)
				results <- outcome{index: idx, objectives: objectives, violation: violation, err: err}
			}
		}()
	}
	go func() {
		for i := range pop {
			jobs <- i
		}
		close(jobs)
	}()

	collected := make([]outcome, 0, len(pop))
	var firstErr error
	for i := 0; i < len(pop); i++ {
		o := <-results
		if o.err != nil && firstErr == nil {
			firstErr = o.err
		}
		collected = append(collected, o)
	}
	if firstErr != nil {
		return firstErr
	}

	// Sort by gene hash for a deterministic assignment order, then
	// apply sequentially (spec.md §5: "use sequential reductions").
	sort.Slice(collected, func(i, j int) bool {
		return geneHash(pop[collected[i].index].Genes) < geneHash(pop[collected[j].index].Genes)
	})
	for _, o := range collected {
		pop[o.index].Objectives = o.objectives
		pop[o.index].Violation = o.violation
	}
	return nil
}

func bestObjectiveSum(pop []*Individual) float64 {
	best := 0.0
	first := true
	for _, ind := range pop {
		if ind.Rank != 0 {
			continue
		}
		sum := 0.0
		for _, o := range ind.Objectives {
			sum += o
		}
		if first || sum < best {
			best = sum
			first = false
		}
	}
	return best
}

// earlyStopTriggered implements spec.md §4.5 step 8's wired-in
// early-stop rule (see DESIGN.md): stop when, over the last window
// generations, the best objective sum improved by less than threshold
// relative to its value window generations ago.
func earlyStopTriggered(history []float64, threshold float64, window int) bool {
	if window <= 0 || len(history) <= window {
		return false
	}
	past := history[len(history)-1-window]
	current := history[len(history)-1]
	if past == 0 {
		return false
	}
	improvement := (past - current) / math.Abs(past)
	return improvement < threshold
}
