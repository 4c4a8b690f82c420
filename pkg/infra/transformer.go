package infra

import (
	"math"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/rng"
)

// Demand is a lot's electrical load, in kW, located at its centroid
// (spec.md §4.11).
type Demand struct {
	Location geom.Point
	Power    float64
}

// TransformerConfig holds C11's parameters.
type TransformerConfig struct {
	Capacity       float64 // kVA per transformer, default 1000
	TransformerCost float64
	CableCostPerM   float64
	LoadBalanceWeight float64 // lambda term on cluster-load variance
	ConvergenceEps    float64 // metres, default 0.1
	MaxIterations     int
}

// DefaultTransformerConfig returns spec.md §6's defaults.
func DefaultTransformerConfig() TransformerConfig {
	return TransformerConfig{
		Capacity:          1000,
		TransformerCost:   1,
		CableCostPerM:     1,
		LoadBalanceWeight: 0.1,
		ConvergenceEps:    0.1,
		MaxIterations:     100,
	}
}

// Transformer is a placed transformer serving a cluster of demands.
type Transformer struct {
	Location geom.Point
	Load     float64
	Members  []int // indices into the Demand slice passed to PlaceTransformers
}

// PlaceTransformers runs capacity-constrained k-means (k-means++ seeding,
// Lloyd's algorithm) to site transformers, searching cluster counts in
// [ceil(totalLoad/capacity), 2*ceil(totalLoad/capacity)] and keeping the
// k that minimises
//
//	k*TransformerCost + sum(distance*CableCostPerM) + lambda*Var(clusterLoads)
//
// breaking capacity violations by re-running with the next k (spec.md
// §4.11).
func PlaceTransformers(demands []Demand, cfg TransformerConfig, r *rng.RNG) ([]Transformer, error) {
	if len(demands) == 0 {
		return nil, nil
	}
	total := 0.0
	for _, d := range demands {
		total += d.Power
	}
	kMin := int(math.Ceil(total / cfg.Capacity))
	if kMin < 1 {
		kMin = 1
	}
	kMax := 2 * kMin
	if kMax > len(demands) {
		kMax = len(demands)
	}
	if kMin > kMax {
		kMin = kMax
	}

	var best []Transformer
	bestCost := math.Inf(1)
	for k := kMin; k <= kMax; k++ {
		clusters, feasible := kMeansCapacityConstrained(demands, k, cfg, r)
		if !feasible {
			continue
		}
		cost := transformerSolutionCost(clusters, demands, k, cfg)
		if cost < bestCost {
			bestCost = cost
			best = clusters
		}
	}
	if best == nil {
		// No k in range satisfied capacity; fall back to the largest k,
		// which gives every cluster the best chance of fitting.
		clusters, _ := kMeansCapacityConstrained(demands, kMax, cfg, r)
		best = clusters
	}
	return best, nil
}

func kMeansCapacityConstrained(demands []Demand, k int, cfg TransformerConfig, r *rng.RNG) ([]Transformer, bool) {
	if k >= len(demands) {
		// Degenerate: one demand per transformer.
		clusters := make([]Transformer, len(demands))
		for i, d := range demands {
			clusters[i] = Transformer{Location: d.Location, Load: d.Power, Members: []int{i}}
		}
		return clusters, true
	}

	centers := kMeansPlusPlusSeed(demands, k, r)
	assignment := make([]int, len(demands))

	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = 100
	}

	for iter := 0; iter < maxIter; iter++ {
		for i, d := range demands {
			assignment[i] = nearestCenter(d.Location, centers)
		}

		newCenters := make([]geom.Point, k)
		counts := make([]int, k)
		for i, d := range demands {
			c := assignment[i]
			newCenters[c].X += d.Location.X
			newCenters[c].Y += d.Location.Y
			counts[c]++
		}
		maxMove := 0.0
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				newCenters[c] = centers[c]
				continue
			}
			newCenters[c] = geom.Point{X: newCenters[c].X / float64(counts[c]), Y: newCenters[c].Y / float64(counts[c])}
			if d := newCenters[c].Distance(centers[c]); d > maxMove {
				maxMove = d
			}
		}
		centers = newCenters
		if maxMove < cfg.ConvergenceEps {
			break
		}
	}

	clusters := make([]Transformer, k)
	for c := range clusters {
		clusters[c].Location = centers[c]
	}
	feasible := true
	for i, d := range demands {
		c := assignment[i]
		clusters[c].Load += d.Power
		clusters[c].Members = append(clusters[c].Members, i)
	}
	for _, c := range clusters {
		if c.Load > cfg.Capacity {
			feasible = false
		}
	}
	return clusters, feasible
}

// kMeansPlusPlusSeed picks k initial centres using the k-means++
// weighted-distance scheme, drawing from the supplied deterministic RNG.
func kMeansPlusPlusSeed(demands []Demand, k int, r *rng.RNG) []geom.Point {
	centers := make([]geom.Point, 0, k)
	first := demands[r.Intn(len(demands))].Location
	centers = append(centers, first)

	for len(centers) < k {
		weights := make([]float64, len(demands))
		for i, d := range demands {
			best := math.Inf(1)
			for _, c := range centers {
				if dist := d.Location.Distance(c); dist*dist < best {
					best = dist * dist
				}
			}
			weights[i] = best
		}
		idx := r.WeightedChoice(weights)
		if idx < 0 {
			idx = r.Intn(len(demands))
		}
		centers = append(centers, demands[idx].Location)
	}
	return centers
}

func nearestCenter(p geom.Point, centers []geom.Point) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centers {
		if d := p.Distance(c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func transformerSolutionCost(clusters []Transformer, demands []Demand, k int, cfg TransformerConfig) float64 {
	cost := float64(k) * cfg.TransformerCost
	loads := make([]float64, 0, len(clusters))
	for _, c := range clusters {
		loads = append(loads, c.Load)
		for _, idx := range c.Members {
			cost += demands[idx].Location.Distance(c.Location) * cfg.CableCostPerM
		}
	}
	cost += cfg.LoadBalanceWeight * variance(loads)
	return cost
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	v := 0.0
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return v / float64(len(xs))
}
