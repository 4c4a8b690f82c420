package geom

import "github.com/indlayout/engine/pkg/layouterr"

// Site is the top-level input polygon: immutable for the lifetime of a
// pipeline run (spec.md §3). It precomputes bounds, area, and centroid
// once since every downstream stage queries them repeatedly.
type Site struct {
	Polygon  Polygon
	bounds   Bounds
	area     float64
	centroid Point
}

// NewSite validates poly and, if valid, returns an immutable Site.
func NewSite(poly Polygon) (Site, error) {
	if !IsValid(poly) {
		return Site{}, layouterr.NewInvalidInput("site")
	}
	return Site{
		Polygon:  poly,
		bounds:   poly.Bounds(),
		area:     poly.Area(),
		centroid: poly.Centroid(),
	}, nil
}

// Bounds returns the site's axis-aligned bounding rectangle.
func (s Site) Bounds() Bounds { return s.bounds }

// Area returns the site's polygon area.
func (s Site) Area() float64 { return s.area }

// Centroid returns the site's area-weighted centroid.
func (s Site) Centroid() Point { return s.centroid }

// BoundingRadius returns the radius of the smallest circle centered at
// the centroid that encloses the site's bounding box — used by C3 to
// size the grid lattice before rotation (spec.md §4.3).
func (s Site) BoundingRadius() float64 {
	c := s.centroid
	corners := []Point{
		{s.bounds.MinX, s.bounds.MinY}, {s.bounds.MaxX, s.bounds.MinY},
		{s.bounds.MaxX, s.bounds.MaxY}, {s.bounds.MinX, s.bounds.MaxY},
	}
	r := 0.0
	for _, p := range corners {
		if d := c.Distance(p); d > r {
			r = d
		}
	}
	return r
}
