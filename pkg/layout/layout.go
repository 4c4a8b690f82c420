package layout

import (
	"github.com/indlayout/engine/pkg/blocks"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/infra"
	"github.com/indlayout/engine/pkg/roadnet"
	"github.com/indlayout/engine/pkg/subdivision"
	"github.com/indlayout/engine/pkg/validation"
)

// Status summarizes whether a Layout fully satisfies its hard
// constraints, was salvaged from a partial run, or failed outright
// (spec.md §7).
type Status int

const (
	// StatusOK means every hard constraint held and no stage hit its
	// deadline.
	StatusOK Status = iota
	// StatusPartial means the pipeline produced a usable Layout but a
	// stage returned early or gave up on part of the site (time-limit
	// exceeded, a block left unsubdivided because no feasible lot
	// partition was found, lots re-classified as green for
	// disconnection, or an infrastructure network that could not be
	// built).
	StatusPartial
	// StatusFailed means validation's hard constraints did not hold;
	// the Layout is still returned (per spec.md §7's "never discard a
	// completed geometric result") but callers should not treat it as
	// usable without inspecting Warnings/Errors.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Layout is the complete output of one orchestrator run (spec.md §3):
// the input site, the road network and classified blocks Stage 1
// produced, the lots Stage 2 subdivided, the infrastructure Stage 3
// planned, and the summary metrics and status/warnings validation
// attached.
type Layout struct {
	Site   geom.Site
	Roads  roadnet.Network
	Blocks []blocks.Block

	Lots     []subdivision.Lot
	LotClass []blocks.Classification // owning block's class, aligned by index with Lots

	// MSTNodes are the lot centroids MSTEdges/RedundancyEdges index into.
	MSTNodes        []geom.Point
	MSTEdges        []infra.Edge
	RedundancyEdges []infra.Edge

	Transformers    []infra.Transformer
	DrainageArrows  []infra.DrainageVector

	Metrics  *validation.Metrics
	Status   Status
	Warnings []string
}
