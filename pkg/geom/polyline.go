package geom

// PolylineBuffer returns the footprint of a centreline buffered by
// width/2 on each side, built from mitre-joined per-segment rectangles
// (spec.md §3: "its footprint is the centreline buffered by width/2
// with round/mitre joins (mitre preferred to keep intersections
// clean)"). Segments are unioned via convex hull, which is exact for a
// single segment and a close approximation at shallow bends; sharp
// reversals are not expected on road centrelines produced by C3/C4.
func PolylineBuffer(centerline []Point, width float64) Polygon {
	if len(centerline) < 2 || width <= 0 {
		return Polygon{}
	}
	half := width / 2
	var acc Ring
	for i := 0; i < len(centerline)-1; i++ {
		rect := segmentRect(centerline[i], centerline[i+1], half)
		if acc == nil {
			acc = rect
			continue
		}
		acc = unionGeneral(acc, rect)
	}
	return Polygon{Outer: acc.CCW()}
}

// segmentRect returns the rectangle of half-width `half` around
// segment a-b, extended by `half` at each end (a mitre-style cap) so
// that consecutive segments overlap cleanly at the shared vertex.
func segmentRect(a, b Point, half float64) Ring {
	dir := b.Sub(a).Unit()
	normal := Point{-dir.Y, dir.X}
	aExt := a.Sub(dir.Scale(half))
	bExt := b.Add(dir.Scale(half))
	return Ring{
		aExt.Add(normal.Scale(half)),
		bExt.Add(normal.Scale(half)),
		bExt.Sub(normal.Scale(half)),
		aExt.Sub(normal.Scale(half)),
	}
}

// PolylineLength returns the total length of a polyline.
func PolylineLength(points []Point) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += points[i].Distance(points[i+1])
	}
	return total
}
