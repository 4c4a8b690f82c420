package validation

import (
	"context"
	"fmt"

	"github.com/indlayout/engine/pkg/blocks"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/infra"
	"github.com/indlayout/engine/pkg/roadnet"
	"github.com/indlayout/engine/pkg/subdivision"
)

// Inputs collects everything a Validate call needs about one finished
// pipeline run. The orchestrator (C13) builds this from its own
// working state once Stage 3 completes.
type Inputs struct {
	Site         geom.Site
	Roads        roadnet.Network
	Blocks       []blocks.Block
	Lots         []subdivision.Lot
	LotClass     []blocks.Classification // owning block's class, aligned by index with Lots
	Network      *infra.Network
	NodeCount    int
	Components   int
	Transformers []infra.Transformer

	LotBounds       CommercialLotBoundsConfig
	TransformerCap  float64
	RedundancyRatio float64
	BlockConfig     blocks.Config
}

// Validator checks a finished Layout's inputs against every invariant
// and computes its summary metrics.
type Validator interface {
	Validate(ctx context.Context, in Inputs) (*Report, error)
}

// DefaultValidator is the standard Validator implementation.
type DefaultValidator struct{}

// NewValidator returns the standard Validator.
func NewValidator() Validator { return &DefaultValidator{} }

// Validate runs every hard constraint, then every soft constraint,
// then computes metrics, then derives Passed from whether any Errors
// were recorded.
func (v *DefaultValidator) Validate(ctx context.Context, in Inputs) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	report := NewReport()

	blockPolys := make([]geom.Polygon, len(in.Blocks))
	for i, b := range in.Blocks {
		blockPolys[i] = b.Polygon
	}

	v.checkHardConstraints(in, blockPolys, report)
	v.checkSoftConstraints(in, report)

	report.Metrics = ComputeMetrics(in.Site, in.Blocks, in.Lots, in.Network)
	report.Passed = len(report.Errors) == 0

	return report, nil
}

func (v *DefaultValidator) checkHardConstraints(in Inputs, blockPolys []geom.Polygon, report *Report) {
	record := func(r ConstraintResult) {
		report.HardResults = append(report.HardResults, r)
		if !r.Satisfied {
			report.Errors = append(report.Errors, r.Details)
		}
	}

	record(CheckAreaCoverage(in.Site, blockPolys, in.Roads))
	record(CheckLotContainment(in.Lots, blockPolys))
	record(CheckNoLotOverlap(in.Lots))
	record(CheckCommercialLotBounds(in.Lots, in.LotClass, in.LotBounds))
	record(CheckNetworkSpanning(in.Network, in.NodeCount, in.Components, in.RedundancyRatio))
	record(CheckTransformerCapacity(in.Transformers, in.TransformerCap))
}

func (v *DefaultValidator) checkSoftConstraints(in Inputs, report *Report) {
	report.SoftResults = append(report.SoftResults, CheckCommercialBlockShape(in.Blocks, in.BlockConfig))
}

// ReplayMatches is I7's deterministic-replay check: two reports for
// the same pipeline run, seed, and config must describe identical
// metrics. It is exposed here rather than in the orchestrator so
// property tests can call it directly.
func ReplayMatches(a, b *Metrics) error {
	if a == nil || b == nil {
		return fmt.Errorf("validation: ReplayMatches called with a nil Metrics")
	}
	if *a != *b {
		return fmt.Errorf("validation: replay mismatch: %+v != %+v", *a, *b)
	}
	return nil
}
