package subdivision

import (
	"math"
	"testing"
	"time"

	"github.com/indlayout/engine/pkg/geom"
)

func TestSolveExactSumAndBounds(t *testing.T) {
	cfg := DefaultConfig()
	result, err := Solve("block-1", 100, 50, cfg, time.Time{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	sum := 0.0
	for _, w := range result.Widths {
		if w < cfg.MinWidth-1e-9 || w > cfg.MaxWidth+1e-9 {
			t.Errorf("width %v out of bounds [%v, %v]", w, cfg.MinWidth, cfg.MaxWidth)
		}
		sum += w
	}
	if math.Abs(sum-100) > 0.01 {
		t.Errorf("widths sum to %v, want 100", sum)
	}
	if result.LotDepth != 50-2*cfg.Setback {
		t.Errorf("LotDepth = %v, want %v", result.LotDepth, 50-2*cfg.Setback)
	}
}

func TestSolveWidthsNearTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetWidth = 15
	result, err := Solve("block-2", 150, 50, cfg, time.Time{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(result.Widths) != 10 {
		t.Errorf("expected 10 lots of ~15m for a 150m frontage, got %d", len(result.Widths))
	}
}

func TestSolveInfeasibleWhenFrontageTooShort(t *testing.T) {
	cfg := DefaultConfig() // MinWidth 10
	_, err := Solve("block-3", 5, 50, cfg, time.Time{})
	if err == nil {
		t.Fatal("expected infeasibility error for frontage shorter than one minimum-width lot")
	}
}

func TestSliceProducesLotsWithinBlock(t *testing.T) {
	block := geom.Polygon{Outer: geom.Ring{
		{0, 0}, {100, 0}, {100, 40}, {0, 40},
	}}
	cfg := DefaultConfig()
	cfg.Setback = 2
	lots, err := Slice("block-4", block, geom.Point{X: 1, Y: 0}, cfg, time.Time{})
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if len(lots) == 0 {
		t.Fatal("expected at least one lot")
	}
	for i, lot := range lots {
		if !geom.ContainsPoint(block, lot.Centroid) {
			t.Errorf("lot %d centroid outside block", i)
		}
	}
}

func TestSliceRotatedBlockRoundTrip(t *testing.T) {
	block := geom.Polygon{Outer: geom.Ring{
		{0, 0}, {100, 0}, {100, 40}, {0, 40},
	}}
	cfg := DefaultConfig()
	cfg.Setback = 2

	straightLots, err := Slice("block-5a", block, geom.Point{X: 1, Y: 0}, cfg, time.Time{})
	if err != nil {
		t.Fatalf("Slice straight: %v", err)
	}

	theta := math.Pi / 6
	rotatedBlock := geom.Rotate(block, theta, block.Centroid())
	rotatedEdge := geom.RotatePoint(geom.Point{X: 1, Y: 0}, theta, geom.Point{})
	rotatedLots, err := Slice("block-5b", rotatedBlock, rotatedEdge, cfg, time.Time{})
	if err != nil {
		t.Fatalf("Slice rotated: %v", err)
	}

	if len(straightLots) != len(rotatedLots) {
		t.Errorf("lot count differs after rotation: %d vs %d", len(straightLots), len(rotatedLots))
	}
	totalStraight, totalRotated := 0.0, 0.0
	for _, l := range straightLots {
		totalStraight += l.Area
	}
	for _, l := range rotatedLots {
		totalRotated += l.Area
	}
	if math.Abs(totalStraight-totalRotated) > 1 {
		t.Errorf("total lot area differs after rotation: %v vs %v", totalStraight, totalRotated)
	}
}
