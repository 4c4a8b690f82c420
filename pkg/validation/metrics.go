package validation

import (
	"github.com/indlayout/engine/pkg/blocks"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/infra"
	"github.com/indlayout/engine/pkg/subdivision"
)

// ComputeMetrics builds the summary metrics attached to every Layout
// (spec.md §3).
func ComputeMetrics(site geom.Site, bs []blocks.Block, lots []subdivision.Lot, net *infra.Network) *Metrics {
	m := &Metrics{}

	for _, b := range bs {
		switch b.Class {
		case blocks.Commercial:
			m.TotalCommercialArea += b.Area
		case blocks.Green:
			m.TotalGreenArea += b.Area
		case blocks.Discard:
			m.DiscardedBlockCount++
		}
	}

	if site.Area() > 0 {
		m.UtilizationRatio = m.TotalCommercialArea / site.Area()
	}

	if net != nil {
		m.MSTLength = net.TotalLength
	}

	if len(lots) > 0 {
		totalLotArea := 0.0
		for _, l := range lots {
			totalLotArea += l.Area
		}
		m.AverageLotArea = totalLotArea / float64(len(lots))
	}

	return m
}

// UtilizationRatio is P2's quantity in isolation, exposed for direct
// property-test assertions without building a full Metrics record.
func UtilizationRatio(totalCommercialArea, siteArea float64) float64 {
	if siteArea <= 0 {
		return 0
	}
	return totalCommercialArea / siteArea
}
