package validation

import (
	"fmt"
	"math"

	"github.com/indlayout/engine/pkg/blocks"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/infra"
	"github.com/indlayout/engine/pkg/roadnet"
	"github.com/indlayout/engine/pkg/spatial"
	"github.com/indlayout/engine/pkg/subdivision"
)

// AreaEpsilonRatio bounds I1's area-coverage tolerance as a fraction
// of site area (spec.md §8: "within ε in area").
const AreaEpsilonRatio = 1e-3

// CheckAreaCoverage is I1: the sum of block areas plus road footprint
// areas (both already disjoint by construction) must equal the site
// area within AreaEpsilonRatio.
func CheckAreaCoverage(site geom.Site, blockPolys []geom.Polygon, roads roadnet.Network) ConstraintResult {
	covered := 0.0
	for _, b := range blockPolys {
		covered += b.Area()
	}
	for _, seg := range roads.Segments {
		clipped, err := geom.Intersection(seg.Footprint, site.Polygon)
		if err == nil {
			covered += clipped.Area()
		}
	}

	tolerance := site.Area() * AreaEpsilonRatio
	diff := math.Abs(covered - site.Area())
	satisfied := diff <= tolerance

	details := fmt.Sprintf("covered area %.2f vs site area %.2f (diff %.2f, tolerance %.2f)", covered, site.Area(), diff, tolerance)
	return newHardResult("AreaCoverage", "union(blocks, roads) == site", satisfied, details)
}

// CheckLotContainment is I2: every lot must be strictly contained in
// exactly one block.
func CheckLotContainment(lots []subdivision.Lot, blockPolys []geom.Polygon) ConstraintResult {
	var violations []string
	for _, lot := range lots {
		containingCount := 0
		for _, b := range blockPolys {
			if geom.ContainsPolygon(b, lot.Polygon) {
				containingCount++
			}
		}
		if containingCount != 1 {
			violations = append(violations, fmt.Sprintf("lot at %v contained in %d blocks (want 1)", lot.Centroid, containingCount))
		}
	}

	satisfied := len(violations) == 0
	details := "every lot contained in exactly one block"
	if !satisfied {
		details = fmt.Sprintf("%d containment violations: %v", len(violations), violations)
	}
	return newHardResult("LotContainment", "lot.containedInExactlyOneBlock()", satisfied, details)
}

// CheckNoLotOverlap is I3: pairwise lot intersection area must be
// negligible relative to total lot area. Candidate pairs are narrowed
// with an R-tree over lot envelopes before the exact intersection
// predicate runs, so a site with thousands of lots never pays for a
// full O(n^2) polygon-intersection scan.
func CheckNoLotOverlap(lots []subdivision.Lot) ConstraintResult {
	totalLotArea := 0.0
	entries := make([]spatial.Entry, len(lots))
	for i, l := range lots {
		totalLotArea += l.Area
		entries[i] = spatial.Entry{Index: i, Box: l.Polygon.Bounds()}
	}
	tolerance := totalLotArea * AreaEpsilonRatio
	index := spatial.Build(entries)

	var violations []string
	for i := range lots {
		for _, j := range index.QueryEnvelope(lots[i].Polygon.Bounds()) {
			if j <= i {
				continue
			}
			if !geom.Intersects(lots[i].Polygon, lots[j].Polygon) {
				continue
			}
			overlap, err := geom.Intersection(lots[i].Polygon, lots[j].Polygon)
			if err != nil {
				continue
			}
			if overlap.Area() > tolerance {
				violations = append(violations, fmt.Sprintf("lot %d/%d overlap area %.3f", i, j, overlap.Area()))
			}
		}
	}

	satisfied := len(violations) == 0
	details := "no significant lot overlaps"
	if !satisfied {
		details = fmt.Sprintf("%d overlap violations: %v", len(violations), violations)
	}
	return newHardResult("NoLotOverlap", "forall i!=j: area(lot_i & lot_j) <= eps*total", satisfied, details)
}

// CommercialLotBoundsConfig holds I4's thresholds (spec.md §6).
type CommercialLotBoundsConfig struct {
	MinLotWidth float64
	MaxLotWidth float64
	MinLotArea  float64
}

// CheckCommercialLotBounds is I4: every commercial lot must satisfy
// MinLotWidth <= frontage <= MaxLotWidth and area >= MinLotArea.
// lotClass reports the owning block's classification for each lot,
// aligned by index with lots.
func CheckCommercialLotBounds(lots []subdivision.Lot, lotClass []blocks.Classification, cfg CommercialLotBoundsConfig) ConstraintResult {
	var violations []string
	for i, lot := range lots {
		if i >= len(lotClass) || lotClass[i] != blocks.Commercial {
			continue
		}
		if lot.Width < cfg.MinLotWidth || lot.Width > cfg.MaxLotWidth {
			violations = append(violations, fmt.Sprintf("lot %d frontage %.2f outside [%.2f, %.2f]", i, lot.Width, cfg.MinLotWidth, cfg.MaxLotWidth))
		}
		if lot.Area < cfg.MinLotArea {
			violations = append(violations, fmt.Sprintf("lot %d area %.2f below minimum %.2f", i, lot.Area, cfg.MinLotArea))
		}
	}

	satisfied := len(violations) == 0
	details := "every commercial lot within frontage and area bounds"
	if !satisfied {
		details = fmt.Sprintf("%d bound violations: %v", len(violations), violations)
	}
	return newHardResult("CommercialLotBounds", "min_lot_width<=frontage<=max_lot_width && area>=min_lot_area", satisfied, details)
}

// CheckNetworkSpanning is I5: the MST's tree edge count must equal
// nodeCount - components. The redundancy edge count and the
// ceil(redundancyRatio*nodeCount) target are reported in Details only;
// they do not affect Satisfied.
func CheckNetworkSpanning(net *infra.Network, nodeCount int, components int, redundancyRatio float64) ConstraintResult {
	if net == nil {
		return newHardResult("NetworkSpanning", "treeEdges == nodes - components", nodeCount <= 1,
			"no network computed (disconnected or trivial node set)")
	}

	wantTreeEdges := nodeCount - components
	satisfied := len(net.TreeEdges) == wantTreeEdges

	wantRedundancy := int(math.Ceil(redundancyRatio * float64(nodeCount)))
	details := fmt.Sprintf("tree edges %d (want %d), redundancy edges %d (target >= %d when the graph admits it)",
		len(net.TreeEdges), wantTreeEdges, len(net.RedundancyEdges), wantRedundancy)
	return newHardResult("NetworkSpanning", "|treeEdges| == |nodes| - |components|", satisfied, details)
}

// CheckTransformerCapacity is I6: every transformer's served load must
// not exceed capacity.
func CheckTransformerCapacity(transformers []infra.Transformer, capacity float64) ConstraintResult {
	var violations []string
	for i, t := range transformers {
		if t.Load > capacity {
			violations = append(violations, fmt.Sprintf("transformer %d load %.2f exceeds capacity %.2f", i, t.Load, capacity))
		}
	}

	satisfied := len(violations) == 0
	details := "every transformer within capacity"
	if !satisfied {
		details = fmt.Sprintf("%d capacity violations: %v", len(violations), violations)
	}
	return newHardResult("TransformerCapacity", "forall t: t.load <= capacity", satisfied, details)
}

// CheckCommercialBlockShape is P3 as a soft observational check:
// commercial blocks should satisfy the classifier's own thresholds (a
// redundant but cheap sanity check since C6 enforces this at
// classification time already).
func CheckCommercialBlockShape(bs []blocks.Block, cfg blocks.Config) ConstraintResult {
	var violations []string
	for i, b := range bs {
		if b.Class != blocks.Commercial {
			continue
		}
		if b.Rectangularity < cfg.RectangularityMinimum || b.Aspect > cfg.AspectMaximum {
			violations = append(violations, fmt.Sprintf("block %d rectangularity=%.2f aspect=%.2f", i, b.Rectangularity, b.Aspect))
		}
	}
	score := 1.0
	if len(bs) > 0 {
		score = 1.0 - float64(len(violations))/float64(len(bs))
	}
	details := fmt.Sprintf("%d/%d commercial blocks meet shape thresholds", len(bs)-len(violations), len(bs))
	return newSoftResult("CommercialBlockShape", "rectangularity>=0.65 && aspect<=4.0", score, details)
}
