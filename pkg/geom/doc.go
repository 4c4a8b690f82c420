// Package geom implements a 2D geometry kernel: polygon validity,
// area/centroid/bounds, buffering, boolean ops, rotation,
// simplification, the minimum rotated rectangle, and containment and
// intersection predicates.
//
// It is built directly on standard algorithms (shoelace area, ray
// casting, rotating calipers, Sutherland-Hodgman clipping, with a
// centroid triangle fan for concave clip polygons) using only the
// standard library.
//
// # Numeric policy
//
// Coordinates are float64. Epsilon is the fixed tolerance used
// throughout for point equality, ring closure, and near-zero-area
// checks.
//
// # Scope of boolean operations
//
// Intersection/Difference/Union operate on simple (non-self-intersecting)
// polygons. Holes are supported by Area/Centroid/Contains (outer ring
// minus holes) but NOT by the boolean operators, which act on the
// outer ring only — a polygon with holes passed to Intersection etc.
// returns a GeometryError wrapping ErrInvalidGeometry. Grid tiles and
// Voronoi cells are hole-free, and road footprints are subtracted from
// a hole-free site, so the boolean operators never need to support
// holes themselves.
package geom
