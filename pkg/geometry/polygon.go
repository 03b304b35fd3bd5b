package geometry

import "math"

// PointInPolygon tests if a point is inside a polygon using ray casting.
// A horizontal ray is cast to the right; parity of edge crossings decides.
// Edge convention: the test on each edge is half-open ((pi.Y > p.Y) !=
// (pj.Y > p.Y)), so a point exactly on a horizontal bottom edge counts
// inside while one on a horizontal top edge counts outside. The convention
// is stable across frames, which is all the hover logic needs.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// SegmentHit describes the closest approach of a point to a segment.
type SegmentHit struct {
	Distance float64 // distance from the query point to the closest point
	Closest  Point2D // closest point on the segment
	Param    float64 // position along the segment in [0, 1]
}

// SegmentDistance computes the distance from p to the segment a-b by
// projecting p onto the segment and clamping the projection to [0, 1].
// A zero-length segment degenerates to the distance to a.
func SegmentDistance(p, a, b Point2D) SegmentHit {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy

	param := 0.0
	if lenSq > 0 {
		param = ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
		param = math.Max(0, math.Min(1, param))
	}

	closest := Point2D{X: a.X + param*dx, Y: a.Y + param*dy}
	return SegmentHit{
		Distance: p.Distance(closest),
		Closest:  closest,
		Param:    param,
	}
}

// DistanceToPath returns the minimum distance from p to any segment of the
// open polyline, and the index of the nearest segment's start vertex.
// Returns index -1 when the path has fewer than two vertices.
func DistanceToPath(p Point2D, path []Point2D) (float64, int) {
	if len(path) < 2 {
		return math.Inf(1), -1
	}
	best := math.Inf(1)
	bestIdx := -1
	for i := 0; i < len(path)-1; i++ {
		hit := SegmentDistance(p, path[i], path[i+1])
		if hit.Distance < best {
			best = hit.Distance
			bestIdx = i
		}
	}
	return best, bestIdx
}

// PathLength returns the total length of the polyline.
func PathLength(points []Point2D) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}

// PointAlongPath walks the polyline to the given arc length and returns the
// interpolated point and the tangent angle (radians) of the segment it
// falls on. Zero-length segments are skipped. Returns ok=false when the
// path is shorter than two vertices.
func PointAlongPath(points []Point2D, target float64) (Point2D, float64, bool) {
	if len(points) < 2 {
		return Point2D{}, 0, false
	}

	var travelled float64
	lastAngle := 0.0
	haveAngle := false
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		dx := b.X - a.X
		dy := b.Y - a.Y
		segLen := math.Hypot(dx, dy)
		if segLen == 0 {
			continue
		}
		lastAngle = math.Atan2(dy, dx)
		haveAngle = true
		if travelled+segLen >= target {
			ratio := (target - travelled) / segLen
			return Point2D{X: a.X + dx*ratio, Y: a.Y + dy*ratio}, lastAngle, true
		}
		travelled += segLen
	}

	if !haveAngle {
		// All segments degenerate.
		return points[len(points)-1], 0, false
	}
	return points[len(points)-1], lastAngle, true
}
