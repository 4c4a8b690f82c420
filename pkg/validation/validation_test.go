package validation

import (
	"context"
	"testing"

	"github.com/indlayout/engine/pkg/blocks"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/infra"
	"github.com/indlayout/engine/pkg/roadnet"
	"github.com/indlayout/engine/pkg/subdivision"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.NewPolygon(geom.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}})
}

func TestCheckAreaCoverageAcceptsExactPartition(t *testing.T) {
	sitePoly := square(0, 0, 100, 100)
	site, err := geom.NewSite(sitePoly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two blocks that exactly tile the site; no roads.
	blockPolys := []geom.Polygon{square(0, 0, 100, 50), square(0, 50, 100, 100)}

	result := CheckAreaCoverage(site, blockPolys, roadnet.Network{})
	if !result.Satisfied {
		t.Errorf("expected area coverage satisfied, got: %s", result.Details)
	}
}

func TestCheckAreaCoverageRejectsGap(t *testing.T) {
	sitePoly := square(0, 0, 100, 100)
	site, err := geom.NewSite(sitePoly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only 40% of the site is covered.
	blockPolys := []geom.Polygon{square(0, 0, 100, 40)}

	result := CheckAreaCoverage(site, blockPolys, roadnet.Network{})
	if result.Satisfied {
		t.Error("expected area coverage to fail when 60% of the site is uncovered")
	}
}

func TestCheckLotContainmentDetectsEscapedLot(t *testing.T) {
	blockPolys := []geom.Polygon{square(0, 0, 50, 50)}
	lots := []subdivision.Lot{
		{Polygon: square(10, 10, 20, 20), Centroid: geom.Point{X: 15, Y: 15}},
		{Polygon: square(100, 100, 120, 120), Centroid: geom.Point{X: 110, Y: 110}}, // outside all blocks
	}

	result := CheckLotContainment(lots, blockPolys)
	if result.Satisfied {
		t.Error("expected containment check to fail for a lot outside every block")
	}
}

func TestCheckNoLotOverlapDetectsOverlap(t *testing.T) {
	a := subdivision.Lot{Polygon: square(0, 0, 10, 10), Area: 100}
	b := subdivision.Lot{Polygon: square(5, 5, 15, 15), Area: 100}
	result := CheckNoLotOverlap([]subdivision.Lot{a, b})
	if result.Satisfied {
		t.Error("expected overlap check to fail for overlapping lots")
	}
}

func TestCheckNoLotOverlapAcceptsDisjointLots(t *testing.T) {
	a := subdivision.Lot{Polygon: square(0, 0, 10, 10), Area: 100}
	b := subdivision.Lot{Polygon: square(10, 0, 20, 10), Area: 100}
	result := CheckNoLotOverlap([]subdivision.Lot{a, b})
	if !result.Satisfied {
		t.Errorf("expected disjoint lots to pass, got: %s", result.Details)
	}
}

func TestCheckCommercialLotBoundsFlagsNarrowFrontage(t *testing.T) {
	lots := []subdivision.Lot{{Width: 2, Area: 5000}}
	classes := []blocks.Classification{blocks.Commercial}
	cfg := CommercialLotBoundsConfig{MinLotWidth: 10, MaxLotWidth: 30, MinLotArea: 1000}

	result := CheckCommercialLotBounds(lots, classes, cfg)
	if result.Satisfied {
		t.Error("expected narrow-frontage commercial lot to fail")
	}
}

func TestCheckCommercialLotBoundsIgnoresNonCommercial(t *testing.T) {
	lots := []subdivision.Lot{{Width: 2, Area: 10}}
	classes := []blocks.Classification{blocks.Green}
	cfg := CommercialLotBoundsConfig{MinLotWidth: 10, MaxLotWidth: 30, MinLotArea: 1000}

	result := CheckCommercialLotBounds(lots, classes, cfg)
	if !result.Satisfied {
		t.Errorf("expected non-commercial lot to be ignored, got: %s", result.Details)
	}
}

func TestCheckNetworkSpanningMatchesTreeEdgeCount(t *testing.T) {
	net := &infra.Network{TreeEdges: make([]infra.Edge, 4)}
	result := CheckNetworkSpanning(net, 5, 1, 0.15)
	if !result.Satisfied {
		t.Errorf("expected 4 tree edges for 5 nodes/1 component, got: %s", result.Details)
	}
}

func TestCheckNetworkSpanningDetectsMismatch(t *testing.T) {
	net := &infra.Network{TreeEdges: make([]infra.Edge, 2)}
	result := CheckNetworkSpanning(net, 5, 1, 0.15)
	if result.Satisfied {
		t.Error("expected mismatch between tree edge count and nodes-components")
	}
}

func TestCheckTransformerCapacityDetectsOverload(t *testing.T) {
	transformers := []infra.Transformer{{Load: 300}}
	result := CheckTransformerCapacity(transformers, 250)
	if result.Satisfied {
		t.Error("expected overloaded transformer to fail capacity check")
	}
}

func TestDefaultValidatorProducesPassingReport(t *testing.T) {
	sitePoly := square(0, 0, 100, 100)
	site, err := geom.NewSite(sitePoly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blockPoly := square(0, 0, 100, 100)
	block := blocks.Block{Polygon: blockPoly, Area: blockPoly.Area(), Class: blocks.Commercial, Rectangularity: 1, Aspect: 1}
	lot := subdivision.Lot{Polygon: square(10, 10, 20, 20), Width: 10, Area: 100, Centroid: geom.Point{X: 15, Y: 15}}

	in := Inputs{
		Site:            site,
		Blocks:          []blocks.Block{block},
		Lots:            []subdivision.Lot{lot},
		LotClass:        []blocks.Classification{blocks.Commercial},
		Network:         &infra.Network{TreeEdges: make([]infra.Edge, 0)},
		NodeCount:       1,
		Components:      1,
		Transformers:    nil,
		LotBounds:       CommercialLotBoundsConfig{MinLotWidth: 5, MaxLotWidth: 30, MinLotArea: 50},
		TransformerCap:  250,
		RedundancyRatio: 0.15,
		BlockConfig:     blocks.DefaultConfig(),
	}

	v := NewValidator()
	report, err := v.Validate(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Passed {
		t.Errorf("expected report to pass, errors: %v", report.Errors)
	}
	if report.Metrics == nil {
		t.Fatal("expected metrics to be computed")
	}
	if report.Metrics.UtilizationRatio <= 0 {
		t.Errorf("expected positive utilization ratio, got %v", report.Metrics.UtilizationRatio)
	}
}

func TestReplayMatchesDetectsDivergence(t *testing.T) {
	a := &Metrics{UtilizationRatio: 0.5}
	b := &Metrics{UtilizationRatio: 0.6}
	if err := ReplayMatches(a, b); err == nil {
		t.Error("expected ReplayMatches to report a mismatch")
	}
	if err := ReplayMatches(a, a); err != nil {
		t.Errorf("expected identical metrics to match, got: %v", err)
	}
}
