package world

import (
	"image/color"

	"map-editor/pkg/geometry"
)

// Entity is one persisted vector object on the map. Vertices are in world
// coordinates; order defines the path or boundary. Entities are immutable
// outside an edit session and are identified by their Label.
type Entity struct {
	Label       string
	Description string
	Category    Category
	Vertices    []geometry.Point2D
	Stroke      color.RGBA
	Fill        color.RGBA
	Closed      bool

	// Rail endpoints: labels of the stations this line connects.
	// Lookup-by-name relations, never ownership.
	FromStation string
	ToStation   string
}

// Bounds returns the axis-aligned bounding box of the entity's vertices.
func (e *Entity) Bounds() geometry.Rect {
	return geometry.BoundingBox(e.Vertices)
}

// Anchor is the point rail endpoints snap to: the single vertex for a
// station, the centroid otherwise.
func (e *Entity) Anchor() geometry.Point2D {
	if len(e.Vertices) == 0 {
		return geometry.Point2D{}
	}
	if e.Category.SingleVertex() {
		return e.Vertices[0]
	}
	return geometry.Centroid(e.Vertices)
}

// Ring returns the vertex list with the closing vertex appended when the
// entity is closed, for path walks that need the last segment.
func (e *Entity) Ring() []geometry.Point2D {
	if !e.Closed || len(e.Vertices) < 3 {
		return e.Vertices
	}
	ring := make([]geometry.Point2D, len(e.Vertices)+1)
	copy(ring, e.Vertices)
	ring[len(ring)-1] = e.Vertices[0]
	return ring
}

// LinkEndpoint reports whether the category can serve as a rail endpoint.
func (e *Entity) LinkEndpoint() bool {
	return e.Category == CategoryStation || e.Category == CategoryZone
}

// Draft is the one entity under active construction or re-editing, plus
// the transient editing state the renderer and state machine share.
type Draft struct {
	Entity

	ActiveVertex int // vertex being dragged, -1 if none
	HoverVertex  int // vertex under the pointer, -1 if none
	HoverEdge    int // edge under the pointer (index of its start vertex), -1 if none

	// EdgePoint is the projected insert position on HoverEdge, valid only
	// while HoverEdge >= 0.
	EdgePoint geometry.Point2D

	// SnapStation is the label of the station the active vertex snapped
	// to during the current drag, empty if none.
	SnapStation string

	// origin is non-nil when the draft reopened a persisted entity; used
	// to restore it on cancel and to exempt it from label uniqueness.
	origin *Entity
}

// ClearHover resets all transient pointer feedback.
func (d *Draft) ClearHover() {
	d.HoverVertex = -1
	d.HoverEdge = -1
	d.EdgePoint = geometry.Point2D{}
}
