package optimize

import (
	"math"
	"sort"

	"github.com/indlayout/engine/pkg/rng"
)

// fastNonDominatedSort partitions pop into Pareto fronts (spec.md
// §4.5 step 2), setting Rank on every individual (0 = first front).
// Returns the fronts in rank order.
func fastNonDominatedSort(pop []*Individual, hardConstraints bool) [][]*Individual {
	n := len(pop)
	dominatedBy := make([][]int, n) // indices this individual dominates
	dominationCount := make([]int, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if pop[i].dominates(pop[j], hardConstraints) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if pop[j].dominates(pop[i], hardConstraints) {
				dominationCount[i]++
			}
		}
	}

	var fronts [][]*Individual
	var currentFront []int
	for i := 0; i < n; i++ {
		if dominationCount[i] == 0 {
			pop[i].Rank = 0
			currentFront = append(currentFront, i)
		}
	}

	rank := 0
	for len(currentFront) > 0 {
		front := make([]*Individual, 0, len(currentFront))
		var next []int
		for _, i := range currentFront {
			front = append(front, pop[i])
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					pop[j].Rank = rank + 1
					next = append(next, j)
				}
			}
		}
		fronts = append(fronts, front)
		currentFront = next
		rank++
	}
	return fronts
}

// crowdingDistance assigns Crowding on every individual in front
// (spec.md §4.5 step 3): the sum, over each objective, of the
// normalised distance to its neighbours when the front is sorted by
// that objective. Boundary individuals get +Inf so they are always
// preserved.
func crowdingDistance(front []*Individual) {
	n := len(front)
	if n == 0 {
		return
	}
	for _, ind := range front {
		ind.Crowding = 0
	}
	if n <= 2 {
		for _, ind := range front {
			ind.Crowding = math.Inf(1)
		}
		return
	}
	numObjectives := len(front[0].Objectives)
	for m := 0; m < numObjectives; m++ {
		sort.Slice(front, func(a, b int) bool { return front[a].Objectives[m] < front[b].Objectives[m] })
		lo, hi := front[0].Objectives[m], front[n-1].Objectives[m]
		front[0].Crowding = math.Inf(1)
		front[n-1].Crowding = math.Inf(1)
		span := hi - lo
		if span < 1e-12 {
			continue
		}
		for i := 1; i < n-1; i++ {
			front[i].Crowding += (front[i+1].Objectives[m] - front[i-1].Objectives[m]) / span
		}
	}
}

// betterRanked reports whether a is preferred over b by the NSGA-II
// crowded-comparison operator: lower rank wins; ties broken by larger
// crowding distance; remaining ties broken by gene hash for a stable,
// reproducible result (spec.md §9 open question).
func betterRanked(a, b *Individual) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	if a.Crowding != b.Crowding {
		return a.Crowding > b.Crowding
	}
	return geneHash(a.Genes) < geneHash(b.Genes)
}

// tournamentSelect runs a size-3 tournament (spec.md §4.5 step 4),
// picking the best-ranked of three individuals drawn with replacement.
func tournamentSelect(pop []*Individual, r *rng.RNG) *Individual {
	best := pop[r.Intn(len(pop))]
	for i := 0; i < 2; i++ {
		challenger := pop[r.Intn(len(pop))]
		if betterRanked(challenger, best) {
			best = challenger
		}
	}
	return best
}

// truncateByFront sorts combined into fronts and appends whole fronts
// to the next generation until adding one more would exceed size; the
// final partially-included front is truncated by crowding distance
// (spec.md §4.5 step 7, "elitist μ+λ").
func truncateByFront(combined []*Individual, size int, hardConstraints bool) []*Individual {
	fronts := fastNonDominatedSort(combined, hardConstraints)
	next := make([]*Individual, 0, size)
	for _, front := range fronts {
		crowdingDistance(front)
		if len(next)+len(front) <= size {
			next = append(next, front...)
			continue
		}
		remaining := size - len(next)
		sort.Slice(front, func(i, j int) bool { return betterRanked(front[i], front[j]) })
		next = append(next, front[:remaining]...)
		break
	}
	return next
}
