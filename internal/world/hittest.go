package world

import (
	"map-editor/pkg/geometry"
)

// Visibility decides whether a category participates in rendering and
// hit-testing. It is consulted on every query, never cached.
type Visibility func(Category) bool

// ShowAll is the permissive visibility filter.
func ShowAll(Category) bool { return true }

// EntityAt returns the topmost visible entity under the world point, or
// nil. Entities are tested back-to-front (most recently added first) so
// overlapping entities resolve to the one drawn on top. tol is the hit
// tolerance in world units (a screen-pixel tolerance divided by the
// current pixels-per-unit).
func (m *Model) EntityAt(p geometry.Point2D, tol float64, visible Visibility) *Entity {
	if visible == nil {
		visible = ShowAll
	}
	for i := len(m.entities) - 1; i >= 0; i-- {
		e := m.entities[i]
		if !visible(e.Category) || len(e.Vertices) == 0 {
			continue
		}
		if !e.Bounds().Expand(tol).Contains(p) {
			continue
		}
		if hitEntity(e, p, tol) {
			return e
		}
	}
	return nil
}

func hitEntity(e *Entity, p geometry.Point2D, tol float64) bool {
	if e.Category.SingleVertex() {
		return p.Distance(e.Vertices[0]) <= tol
	}
	if e.Closed && e.Category.Fills() && len(e.Vertices) >= 3 {
		if geometry.PointInPolygon(p, e.Vertices) {
			return true
		}
		// Close misses on the boundary still count, consistent with the
		// stroke being drawn on top of the fill.
	}
	dist, idx := geometry.DistanceToPath(p, e.Ring())
	return idx >= 0 && dist <= tol
}

// VertexNear returns the index of the draft vertex within radius world
// units of p, or -1. The first match wins, matching the original editor's
// behavior when vertices overlap.
func (d *Draft) VertexNear(p geometry.Point2D, radius float64) int {
	for i, v := range d.Vertices {
		if p.Distance(v) <= radius {
			return i
		}
	}
	return -1
}

// EdgeNear returns the index of the draft edge whose segment passes
// within radius world units of p, together with the projected point on
// it. Returns -1 when no edge qualifies. Vertex hits take priority over
// edge hits; callers check VertexNear first.
func (d *Draft) EdgeNear(p geometry.Point2D, radius float64) (int, geometry.Point2D) {
	if len(d.Vertices) < 2 {
		return -1, geometry.Point2D{}
	}
	for i := 0; i < len(d.Vertices)-1; i++ {
		hit := geometry.SegmentDistance(p, d.Vertices[i], d.Vertices[i+1])
		if hit.Distance <= radius {
			return i, hit.Closest
		}
	}
	return -1, geometry.Point2D{}
}
