package optimize

import (
	"math"

	"github.com/indlayout/engine/pkg/rng"
)

// Bounds is the inclusive [Min, Max] range of one gene.
type Bounds struct {
	Min, Max float64
}

func clamp(v float64, b Bounds) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// sbxCrossover applies simulated binary crossover (spec.md §4.5 step
// 5, η=15 by convention) to two parent gene vectors, returning two
// children. Genes outside [0, crossoverProb) per-pair draw are passed
// through unchanged as SBX itself only perturbs with probability 0.5
// per gene once crossover is triggered for the pair.
func sbxCrossover(p1, p2 []float64, bounds []Bounds, eta float64, r *rng.RNG) ([]float64, []float64) {
	n := len(p1)
	c1 := make([]float64, n)
	c2 := make([]float64, n)
	for i := 0; i < n; i++ {
		x1, x2 := p1[i], p2[i]
		if r.Float64() > 0.5 || math.Abs(x1-x2) < 1e-12 {
			c1[i], c2[i] = x1, x2
			continue
		}
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		b := bounds[i]
		u := r.Float64()

		beta := 1.0
		if u <= 0.5 {
			beta = math.Pow(2*u, 1/(eta+1))
		} else {
			beta = math.Pow(1/(2*(1-u)), 1/(eta+1))
		}

		child1 := 0.5 * ((1 + beta) * x1 + (1 - beta) * x2)
		child2 := 0.5 * ((1 - beta) * x1 + (1 + beta) * x2)

		c1[i] = clamp(child1, b)
		c2[i] = clamp(child2, b)
	}
	return c1, c2
}

// polynomialMutation applies polynomial mutation in place (spec.md
// §4.5 step 6, η=20 by convention) with per-gene probability prob,
// which is annealed by the caller as generations progress.
func polynomialMutation(genes []float64, bounds []Bounds, eta, prob float64, r *rng.RNG) {
	for i, g := range genes {
		if r.Float64() > prob {
			continue
		}
		b := bounds[i]
		span := b.Max - b.Min
		if span < 1e-12 {
			continue
		}
		delta1 := (g - b.Min) / span
		delta2 := (b.Max - g) / span
		u := r.Float64()
		var deltaq float64
		mutPow := 1 / (eta + 1)
		if u < 0.5 {
			xy := 1 - delta1
			val := 2*u + (1-2*u)*math.Pow(xy, eta+1)
			deltaq = math.Pow(val, mutPow) - 1
		} else {
			xy := 1 - delta2
			val := 2*(1-u) + 2*(u-0.5)*math.Pow(xy, eta+1)
			deltaq = 1 - math.Pow(val, mutPow)
		}
		genes[i] = clamp(g+deltaq*span, b)
	}
}

// annealedMutationRate implements spec.md §4.5 step 6's annealing
// schedule: rate · (1 − g/G)².
func annealedMutationRate(base float64, generation, totalGenerations int) float64 {
	if totalGenerations <= 0 {
		return base
	}
	frac := 1 - float64(generation)/float64(totalGenerations)
	if frac < 0 {
		frac = 0
	}
	return base * frac * frac
}
