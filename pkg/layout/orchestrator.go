package layout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/indlayout/engine/pkg/blocks"
	"github.com/indlayout/engine/pkg/connectivity"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/infra"
	"github.com/indlayout/engine/pkg/layouterr"
	"github.com/indlayout/engine/pkg/optimize"
	"github.com/indlayout/engine/pkg/rng"
	"github.com/indlayout/engine/pkg/roadnet"
	"github.com/indlayout/engine/pkg/subdivision"
	"github.com/indlayout/engine/pkg/validation"
)

// autoAreaThreshold is spec.md §4.13's auto-mode cutoff: sites larger
// than this switch from grid/NSGA-II to Voronoi/CVT generation.
const autoAreaThreshold = 50000.0

// Generator is the main entry point for procedural estate layout
// generation. Implementations must be deterministic: the same Config,
// seed, and site must produce an identical Layout.
type Generator interface {
	// Generate lays out site according to cfg. Context cancellation
	// stops generation and returns the context's error; a stage-level
	// deadline derived from the context's own deadline is honoured
	// cooperatively by the optimizer and the subdivision solver.
	Generate(ctx context.Context, cfg *Config, site geom.Site) (*Layout, error)
}

// DefaultGenerator implements Generator, orchestrating the pipeline's
// three stages: road network + block classification (C3/C4/C6), lot
// subdivision with connectivity validation (C7/C8/C9), and
// infrastructure planning (C10/C11/C12), followed by validation (I1-I6).
type DefaultGenerator struct {
	validator validation.Validator
}

// NewGenerator creates a generator using the standard validator.
func NewGenerator() Generator {
	return &DefaultGenerator{validator: validation.NewValidator()}
}

// NewGeneratorWithValidator creates a generator with a custom
// validator, e.g. for tests that want to inspect intermediate reports.
func NewGeneratorWithValidator(v validation.Validator) Generator {
	return &DefaultGenerator{validator: v}
}

// Generate runs the full pipeline (spec.md §4.13).
func (g *DefaultGenerator) Generate(ctx context.Context, cfg *Config, site geom.Site) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &layouterr.PipelineError{Stage: "config", Err: err}
	}

	deadline := time.Time{}
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}

	configHash := cfg.Hash()
	roadRNG := rng.NewRNG(cfg.Seed, "roadnet", configHash)
	optimizeRNG := rng.NewRNG(cfg.Seed, "optimize", configHash)
	transformerRNG := rng.NewRNG(cfg.Seed, "transformer", configHash)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	var warnings []string
	partial := false

	// Stage 1: road network + block classification (C3/C4/C6).
	roadResult, blockCfg, stage1Partial, err := g.runStage1(site, cfg, roadRNG, optimizeRNG, deadline)
	if err != nil {
		return nil, &layouterr.PipelineError{Stage: "stage1", Err: err}
	}
	if stage1Partial {
		partial = true
		warnings = append(warnings, "stage1: optimizer reached its deadline before the generation budget was exhausted")
	}

	blockList := make([]blocks.Block, len(roadResult.Blocks))
	for i, poly := range roadResult.Blocks {
		blockList[i] = blocks.Classify(poly, site.Polygon, blockCfg)
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Stage 2: subdivision (C7/C8) and connectivity validation (C9).
	subCfg := subdivision.Config{
		TargetWidth: cfg.TargetLotWidth,
		MinWidth:    cfg.MinLotWidth,
		MaxWidth:    cfg.MaxLotWidth,
		Setback:     cfg.SetbackDistance,
		Penalty:     50,
		TimeLimit:   time.Duration(cfg.SolverTimeLimitSec * float64(time.Second)),
	}

	var lots []subdivision.Lot
	var lotClass []blocks.Classification
	for i, b := range blockList {
		if b.Class != blocks.Commercial {
			continue
		}
		blockID := fmt.Sprintf("block-%d", i)
		blockLots, err := subdivision.Slice(blockID, b.Polygon, b.DominantEdgeVector, subCfg, deadline)
		if err != nil {
			// A single infeasible block is recovered, not fatal
			// (spec.md §7): it is left unsubdivided and its area
			// still counts toward the block's own classification.
			warnings = append(warnings, fmt.Sprintf("block %s: %v", blockID, err))
			partial = true
			continue
		}
		for _, l := range blockLots {
			lots = append(lots, l)
			lotClass = append(lotClass, b.Class)
		}
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	unreachable := validateConnectivity(site, roadResult.Roads, lots, lotClass)
	for _, idx := range unreachable {
		lotClass[idx] = blocks.Green
		warnings = append(warnings, fmt.Sprintf("lot %d unreachable from road network, reclassified green", idx))
	}
	if len(unreachable) > 0 {
		partial = true
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Stage 3: infrastructure (C10/C11/C12).
	var activeLots []subdivision.Lot
	for i, l := range lots {
		if lotClass[i] == blocks.Commercial {
			activeLots = append(activeLots, l)
		}
	}

	nodes := make([]geom.Point, len(activeLots))
	for i, l := range activeLots {
		nodes[i] = l.Centroid
	}

	mstCfg := infra.Config{MaxEdgeDistance: 500, LoopRedundancyRatio: cfg.LoopRedundancyRatio}
	var network *infra.Network
	if len(nodes) > 1 {
		net, err := infra.BuildMST(nodes, mstCfg)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("infrastructure network: %v", err))
			partial = true
			network = &infra.Network{}
		} else {
			network = net
		}
	} else {
		network = &infra.Network{}
	}

	demands := make([]infra.Demand, len(activeLots))
	powerPerLot := cfg.TransformerCapacityKVA / cfg.LotsPerTransformer
	for i, l := range activeLots {
		demands[i] = infra.Demand{Location: l.Centroid, Power: powerPerLot}
	}
	transformerCfg := infra.TransformerConfig{
		Capacity:          cfg.TransformerCapacityKVA,
		TransformerCost:   1,
		CableCostPerM:     1,
		LoadBalanceWeight: 0.1,
		ConvergenceEps:    0.1,
		MaxIterations:     100,
	}
	transformers, err := infra.PlaceTransformers(demands, transformerCfg, transformerRNG)
	if err != nil {
		return nil, &layouterr.PipelineError{Stage: "stage3-transformers", Err: err}
	}

	wwtp := infra.WWTPLocation(site, nil)
	lotPoints := make([]geom.Point, len(activeLots))
	for i, l := range activeLots {
		lotPoints[i] = l.Centroid
	}
	drainage := infra.PlanDrainage(lotPoints, wwtp, infra.DefaultDrainageConfig(), nil, nil, 0)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Validation (I1-I6; I7 is exercised by replaying the pipeline).
	inputs := validation.Inputs{
		Site:            site,
		Roads:           roadResult.Roads,
		Blocks:          blockList,
		Lots:            lots,
		LotClass:        lotClass,
		Network:         network,
		NodeCount:       len(nodes),
		Components:      estimateComponents(network, len(nodes)),
		Transformers:    transformers,
		LotBounds: validation.CommercialLotBoundsConfig{
			MinLotWidth: cfg.MinLotWidth,
			MaxLotWidth: cfg.MaxLotWidth,
			MinLotArea:  blockCfg.MinLotArea,
		},
		TransformerCap:  cfg.TransformerCapacityKVA,
		RedundancyRatio: cfg.LoopRedundancyRatio,
		BlockConfig:     blockCfg,
	}
	report, err := g.validator.Validate(ctx, inputs)
	if err != nil {
		return nil, &layouterr.PipelineError{Stage: "validation", Err: err}
	}
	warnings = append(warnings, report.Warnings...)

	status := StatusOK
	if !report.Passed {
		status = StatusFailed
		warnings = append(warnings, report.Errors...)
	} else if partial {
		status = StatusPartial
	}

	out := &Layout{
		Site:            site,
		Roads:           roadResult.Roads,
		Blocks:          blockList,
		Lots:            lots,
		LotClass:        lotClass,
		MSTNodes:        nodes,
		MSTEdges:        network.TreeEdges,
		RedundancyEdges: network.RedundancyEdges,
		Transformers:    transformers,
		DrainageArrows:  drainage,
		Metrics:         report.Metrics,
		Status:          status,
		Warnings:        warnings,
	}
	return out, nil
}

// runStage1 picks grid or voronoi generation per decideMethod and runs
// it, driving the grid generator's gene vector through NSGA-II (C5)
// when grid mode is selected.
func (g *DefaultGenerator) runStage1(site geom.Site, cfg *Config, roadRNG, optimizeRNG *rng.RNG, deadline time.Time) (*roadnet.Result, blocks.Config, bool, error) {
	blockCfg := blocks.DefaultConfig()

	roadCfg := roadnet.DefaultConfig()
	roadCfg.SpacingMin = cfg.SpacingMin
	roadCfg.SpacingMax = cfg.SpacingMax
	roadCfg.AngleMin = cfg.AngleMin
	roadCfg.AngleMax = cfg.AngleMax
	roadCfg.RoadMainWidth = cfg.RoadMainWidth
	roadCfg.RoadInternalWidth = cfg.RoadInternalWidth
	roadCfg.MinBlockArea = blockCfg.MinLotArea

	method := decideMethod(cfg, site)

	if method == MethodVoronoi {
		gen, err := roadnet.Get("voronoi")
		if err != nil {
			return nil, blockCfg, false, err
		}
		result, err := gen.Generate(site, nil, roadRNG, roadCfg)
		if err != nil {
			return nil, blockCfg, false, err
		}
		return result, blockCfg, false, nil
	}

	gen, err := roadnet.Get("grid")
	if err != nil {
		return nil, blockCfg, false, err
	}

	half := cfg.SpacingMax / 2
	geneBounds := []optimize.Bounds{
		{Min: cfg.SpacingMin, Max: cfg.SpacingMax},
		{Min: cfg.SpacingMin, Max: cfg.SpacingMax},
		{Min: cfg.AngleMin, Max: cfg.AngleMax},
		{Min: -half, Max: half},
		{Min: -half, Max: half},
	}

	const usableRectangularityMin = 0.75

	fitness := func(genes []float64) ([]float64, float64, error) {
		result, err := gen.Generate(site, genes, roadRNG, roadCfg)
		if err != nil {
			return nil, 1e9, nil
		}
		if len(result.Blocks) == 0 {
			return []float64{0, 0}, 1, nil
		}
		usableArea := 0.0
		fragmentCount := 0.0
		for _, poly := range result.Blocks {
			b := blocks.Classify(poly, site.Polygon, blockCfg)
			if b.Rectangularity >= usableRectangularityMin {
				usableArea += b.Area
			}
			if b.Area < blockCfg.MinLotArea {
				fragmentCount++
			}
		}
		// Objective 1: maximise usable commercial area (area of blocks
		// with rectangularity >= 0.75), minimised via its negative.
		// Objective 2: minimise fragmentation (count of undersized blocks).
		return []float64{-usableArea, fragmentCount}, 0, nil
	}

	optCfg := optimize.DefaultConfig(geneBounds)
	optCfg.PopulationSize = cfg.PopulationSize
	optCfg.Generations = cfg.Generations
	optCfg.CrossoverProb = cfg.CrossoverProb
	optCfg.MutationProb = cfg.MutationProb

	optResult, err := optimize.Run(optCfg, fitness, optimizeRNG, deadline)
	if err != nil {
		return nil, blockCfg, false, err
	}

	best := selectBest(optResult.Front)
	if best == nil {
		return nil, blockCfg, false, &layouterr.OptimizerError{Op: "select-best", Err: layouterr.ErrNoFeasibleSolution}
	}

	result, err := gen.Generate(site, best.Genes, roadRNG, roadCfg)
	if err != nil {
		return nil, blockCfg, false, err
	}
	return result, blockCfg, optResult.Partial, nil
}

// decideMethod implements spec.md §4.13's auto-mode rule: sites larger
// than autoAreaThreshold use Voronoi/CVT generation; smaller sites (or
// an explicit non-auto method) use the grid/NSGA-II pipeline. This
// Config carries no internal-road-constraint field, so the rule's
// "and no internal road constraints" clause is vacuously true here.
func decideMethod(cfg *Config, site geom.Site) Method {
	if cfg.LayoutMethod != MethodAuto {
		return cfg.LayoutMethod
	}
	if site.Area() > autoAreaThreshold {
		return MethodVoronoi
	}
	return MethodGrid
}

// selectBest picks the front member with the lowest first objective
// among feasible individuals, falling back to the lowest-violation
// individual if none are feasible.
func selectBest(front []*optimize.Individual) *optimize.Individual {
	if len(front) == 0 {
		return nil
	}
	sorted := make([]*optimize.Individual, len(front))
	copy(sorted, front)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Feasible() != sorted[j].Feasible() {
			return sorted[i].Feasible()
		}
		if !sorted[i].Feasible() {
			return sorted[i].Violation < sorted[j].Violation
		}
		if len(sorted[i].Objectives) > 0 && len(sorted[j].Objectives) > 0 {
			return sorted[i].Objectives[0] < sorted[j].Objectives[0]
		}
		return sorted[i].Violation < sorted[j].Violation
	})
	return sorted[0]
}

// validateConnectivity runs C9's A* reachability check for every lot
// centroid against the road network and returns the indices of lots
// that could not reach a road cell within the search radius.
func validateConnectivity(site geom.Site, roads roadnet.Network, lots []subdivision.Lot, lotClass []blocks.Classification) []int {
	if len(lots) == 0 {
		return nil
	}
	grid := connectivity.NewGrid(site.Bounds(), 1, roads)
	var unreachable []int
	for i, l := range lots {
		if lotClass[i] == blocks.Green || lotClass[i] == blocks.Discard {
			continue
		}
		ok, _ := connectivity.Reachable(grid, l.Centroid, 200, connectivity.EightConnected)
		if !ok {
			unreachable = append(unreachable, i)
		}
	}
	return unreachable
}

// estimateComponents reports how many connected components the
// network spans: 1 if every requested node landed in the tree, or the
// node count itself as a conservative upper bound when the network is
// empty because BuildMST reported disconnection (the precise count
// lives in the NetworkError this orchestrator already turned into a
// warning, so validation only needs I5's edge-count check to fire).
func estimateComponents(network *infra.Network, nodeCount int) int {
	if nodeCount <= 1 {
		return nodeCount
	}
	if len(network.TreeEdges) == nodeCount-1 {
		return 1
	}
	return nodeCount
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
