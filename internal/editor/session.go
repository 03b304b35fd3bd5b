// Package editor turns raw pointer events into view pans and geometry
// edits. The session is the single owner of gesture classification:
// everything else sees only its outcome (a pan, a vertex edit, an
// inspect request).
package editor

import (
	"time"

	"map-editor/internal/tiles"
	"map-editor/internal/view"
	"map-editor/internal/world"
	"map-editor/pkg/geometry"
)

// Gesture thresholds, in screen pixels and wall time. A release counts
// as a click only when BOTH hold; either alone means the pointer was
// dragging or panning.
const (
	ClickMaxDuration = 200 * time.Millisecond
	ClickMaxMovePx   = 20.0

	VertexRadiusPx = 15.0
	EdgeRadiusPx   = 12.0
	InspectTolPx   = 15.0

	// SnapRadius is in world units so rail endpoints attach at a fixed
	// map distance, not a fixed screen distance.
	SnapRadius = 10.0
)

// State identifies what the pointer is currently doing.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateDraggingVertex
	StatePanning
	StateLinkSelecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateDraggingVertex:
		return "dragging-vertex"
	case StatePanning:
		return "panning"
	case StateLinkSelecting:
		return "link-selecting"
	}
	return "unknown"
}

// LinkSlot names which rail endpoint a link-select picks.
type LinkSlot int

const (
	LinkFrom LinkSlot = iota
	LinkTo
)

// Session drives the geometry model and the view from pointer input.
// All methods must be called from the event loop.
type Session struct {
	model   *world.Model
	view    *view.View
	pyramid *tiles.Pyramid

	width, height float64

	state   State
	visible func() world.Visibility

	pointerDown bool
	downPos     geometry.Point2D
	downTime    time.Time
	lastPos     geometry.Point2D
	maxMove     float64

	dragVertex   int
	pendingEdge  int
	pendingPoint geometry.Point2D
	linkSlot     LinkSlot

	fling flingTracker

	// OnInspect receives the topmost entity under a click outside an
	// edit session, or nil for a click on empty map.
	OnInspect func(*world.Entity)

	// OnChanged signals that model or view state moved and a redraw is
	// due.
	OnChanged func()

	// OnFling receives the release velocity of a fast pan, in screen
	// pixels per second.
	OnFling func(vx, vy float64)
}

// NewSession wires a session over the shared model, view and pyramid.
// The visible callback is consulted on every hit-test so external
// layer toggles are never stale.
func NewSession(m *world.Model, v *view.View, p *tiles.Pyramid, visible func() world.Visibility) *Session {
	if visible == nil {
		visible = func() world.Visibility { return world.ShowAll }
	}
	return &Session{
		model:       m,
		view:        v,
		pyramid:     p,
		visible:     visible,
		dragVertex:  -1,
		pendingEdge: -1,
	}
}

// Resize records the viewport size the camera math depends on.
func (s *Session) Resize(width, height float64) {
	s.width = width
	s.height = height
}

// State returns the current gesture state.
func (s *Session) State() State { return s.state }

// Model returns the geometry model the session edits.
func (s *Session) Model() *world.Model { return s.model }

func (s *Session) camera() view.Camera {
	return s.view.Camera(s.pyramid.LevelFor(s.view.Zoom()), s.width, s.height, 1)
}

func (s *Session) changed() {
	if s.OnChanged != nil {
		s.OnChanged()
	}
}

// Begin opens a fresh draft and enters drawing mode.
func (s *Session) Begin(cat world.Category, label string, closed bool) *world.Draft {
	d := s.model.BeginDraft(cat, cat.DefaultStroke(), cat.DefaultFill(), label, closed)
	s.state = StateDrawing
	s.changed()
	return d
}

// Edit reopens a persisted entity as the draft.
func (s *Session) Edit(e *world.Entity) *world.Draft {
	d := s.model.EditEntity(e)
	s.state = StateDrawing
	s.changed()
	return d
}

// Finish validates and commits the draft. On failure the draft stays
// open so the user can correct it.
func (s *Session) Finish() (*world.Entity, error) {
	e, err := s.model.FinishDraft()
	if err != nil {
		return nil, err
	}
	s.state = StateIdle
	s.changed()
	return e, nil
}

// Cancel discards the draft (restoring the original when re-editing)
// and returns to idle. Safe to call in any state.
func (s *Session) Cancel() {
	s.model.CancelDraft()
	s.state = StateIdle
	s.pointerDown = false
	s.dragVertex = -1
	s.pendingEdge = -1
	s.changed()
}

// BeginLinkSelect switches into endpoint picking for the draft rail:
// the next click on a station or zone fills the given slot.
func (s *Session) BeginLinkSelect(slot LinkSlot) {
	if !s.model.Editing() {
		return
	}
	s.linkSlot = slot
	s.state = StateLinkSelecting
	s.changed()
}

// PointerDown starts gesture tracking and decides between vertex drag,
// pending edge insert, and pan.
func (s *Session) PointerDown(pos geometry.Point2D, t time.Time) {
	s.pointerDown = true
	s.downPos = pos
	s.downTime = t
	s.lastPos = pos
	s.maxMove = 0
	s.pendingEdge = -1
	s.fling.reset()
	s.fling.add(t, pos)

	cam := s.camera()
	wp := cam.ScreenToWorld(pos)

	if d := s.model.Draft(); d != nil && s.state != StateLinkSelecting {
		if idx := d.VertexNear(wp, VertexRadiusPx/cam.PPU); idx >= 0 {
			s.state = StateDraggingVertex
			s.dragVertex = idx
			d.ActiveVertex = idx
			s.changed()
			return
		}
		if idx, p := d.EdgeNear(wp, EdgeRadiusPx/cam.PPU); idx >= 0 {
			// Insert happens only if the release still classifies as a
			// click; until then the gesture may turn into a pan.
			s.pendingEdge = idx
			s.pendingPoint = p
		}
	}
	if s.state != StateLinkSelecting {
		s.state = StatePanning
	}
}

// PointerMove updates the active drag or pan and tracks movement for
// click classification.
func (s *Session) PointerMove(pos geometry.Point2D, t time.Time) {
	if !s.pointerDown {
		s.Hover(pos)
		return
	}
	if d := pos.Distance(s.downPos); d > s.maxMove {
		s.maxMove = d
	}
	delta := pos.Sub(s.lastPos)
	s.lastPos = pos
	s.fling.add(t, pos)

	cam := s.camera()
	switch s.state {
	case StateDraggingVertex:
		wp := cam.ScreenToWorld(pos)
		s.moveDraftVertex(wp)
		s.changed()
	case StatePanning, StateLinkSelecting:
		s.view.PanWorld(-delta.X/cam.PPU, -delta.Y/cam.PPU)
		s.changed()
	}
}

// PointerUp classifies the gesture and applies its click semantics.
func (s *Session) PointerUp(pos geometry.Point2D, t time.Time) {
	if !s.pointerDown {
		return
	}
	s.pointerDown = false
	if d := pos.Distance(s.downPos); d > s.maxMove {
		s.maxMove = d
	}
	click := t.Sub(s.downTime) <= ClickMaxDuration && s.maxMove <= ClickMaxMovePx

	cam := s.camera()
	wp := cam.ScreenToWorld(pos)
	wasPanning := s.state == StatePanning || s.state == StateLinkSelecting

	switch s.state {
	case StateDraggingVertex:
		if click {
			// The pointer never really moved: a tap on a vertex deletes
			// it rather than ending a zero-length drag.
			s.model.RemoveVertex(s.dragVertex)
		}
		s.dragVertex = -1
		if d := s.model.Draft(); d != nil {
			d.ActiveVertex = -1
			d.SnapStation = ""
		}
		s.state = StateDrawing

	case StateLinkSelecting:
		// Only a click resolves link mode; a pan keeps it open so an
		// off-screen station stays reachable.
		if click {
			s.pickLinkTarget(wp, cam)
			s.state = StateDrawing
		}

	case StatePanning:
		if click {
			if s.model.Editing() {
				s.clickWhileDrawing(wp)
				s.state = StateDrawing
			} else {
				s.state = StateIdle
				if s.OnInspect != nil {
					s.OnInspect(s.model.EntityAt(wp, InspectTolPx/cam.PPU, s.visible()))
				}
			}
		} else {
			if s.model.Editing() {
				s.state = StateDrawing
			} else {
				s.state = StateIdle
			}
		}
	}
	s.pendingEdge = -1

	if wasPanning && !click && s.OnFling != nil {
		if vx, vy, ok := s.fling.velocity(t); ok {
			s.OnFling(vx, vy)
		}
	}
	s.changed()
}

// Hover refreshes the draft's vertex/edge feedback while no button is
// down.
func (s *Session) Hover(pos geometry.Point2D) {
	d := s.model.Draft()
	if d == nil {
		return
	}
	cam := s.camera()
	wp := cam.ScreenToWorld(pos)

	prevV, prevE := d.HoverVertex, d.HoverEdge
	d.ClearHover()
	if idx := d.VertexNear(wp, VertexRadiusPx/cam.PPU); idx >= 0 {
		d.HoverVertex = idx
	} else if idx, p := d.EdgeNear(wp, EdgeRadiusPx/cam.PPU); idx >= 0 {
		d.HoverEdge = idx
		d.EdgePoint = p
	}
	if d.HoverVertex != prevV || d.HoverEdge != prevE {
		s.changed()
	}
}

func (s *Session) clickWhileDrawing(wp geometry.Point2D) {
	d := s.model.Draft()
	if d == nil {
		return
	}
	if s.pendingEdge >= 0 {
		s.model.InsertVertexAfter(s.pendingEdge, s.pendingPoint)
		return
	}
	s.model.AppendVertex(s.snapAppend(d, wp))
}

// snapAppend attaches a terminal rail vertex to a nearby station or
// zone and records the link, leaving other categories untouched.
func (s *Session) snapAppend(d *world.Draft, wp geometry.Point2D) geometry.Point2D {
	if d.Category != world.CategoryRail {
		return wp
	}
	target := s.model.NearestEndpoint(wp, SnapRadius)
	if target == nil {
		return wp
	}
	if len(d.Vertices) == 0 {
		d.FromStation = target.Label
	} else {
		d.ToStation = target.Label
	}
	return target.Anchor()
}

func (s *Session) moveDraftVertex(wp geometry.Point2D) {
	d := s.model.Draft()
	if d == nil {
		return
	}
	idx := s.dragVertex
	terminal := idx == 0 || idx == len(d.Vertices)-1
	if d.Category == world.CategoryRail && terminal {
		if target := s.model.NearestEndpoint(wp, SnapRadius); target != nil {
			d.SnapStation = target.Label
			if idx == 0 {
				d.FromStation = target.Label
			} else {
				d.ToStation = target.Label
			}
			s.model.MoveVertex(idx, target.Anchor())
			return
		}
		d.SnapStation = ""
	}
	s.model.MoveVertex(idx, wp)
}

func (s *Session) pickLinkTarget(wp geometry.Point2D, cam view.Camera) {
	hit := s.model.EntityAt(wp, InspectTolPx/cam.PPU, s.visible())
	if hit == nil || !hit.LinkEndpoint() {
		return
	}
	d := s.model.Draft()
	if d == nil {
		return
	}
	if s.linkSlot == LinkFrom {
		d.FromStation = hit.Label
	} else {
		d.ToStation = hit.Label
	}
}
