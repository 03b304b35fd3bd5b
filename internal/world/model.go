package world

import (
	"fmt"
	"image/color"

	"map-editor/pkg/geometry"

	"github.com/google/uuid"
)

// ValidationReason codes a FinishDraft failure.
type ValidationReason int

const (
	ReasonTooFewVertices ValidationReason = iota
	ReasonMissingLabel
	ReasonDuplicateLabel
)

func (r ValidationReason) String() string {
	switch r {
	case ReasonTooFewVertices:
		return "too few vertices"
	case ReasonMissingLabel:
		return "missing label"
	case ReasonDuplicateLabel:
		return "duplicate label"
	default:
		return "invalid"
	}
}

// ValidationError is returned by FinishDraft when the draft cannot become
// a persisted entity. The draft is left intact so the user can correct it.
type ValidationError struct {
	Reason ValidationReason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Reason.String()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Model owns the persisted entity collection and the single draft.
// All mutation happens synchronously from the event loop; the model has
// no locking of its own.
type Model struct {
	entities []*Entity
	draft    *Draft
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{}
}

// Entities returns the persisted entities in insertion order (bottom to
// top in draw order). Callers must not mutate the returned slice.
func (m *Model) Entities() []*Entity {
	return m.entities
}

// Add inserts an already-validated entity, e.g. from a loaded file.
func (m *Model) Add(e *Entity) {
	m.entities = append(m.entities, e)
}

// Replace swaps the persisted entity set, discarding any open draft.
func (m *Model) Replace(entities []*Entity) {
	m.entities = entities
	m.draft = nil
}

// FindByLabel returns the entity with the given label, or nil.
func (m *Model) FindByLabel(label string) *Entity {
	if label == "" {
		return nil
	}
	for _, e := range m.entities {
		if e.Label == label {
			return e
		}
	}
	return nil
}

// Draft returns the current draft, or nil when not editing.
func (m *Model) Draft() *Draft {
	return m.draft
}

// Editing reports whether a draft is open.
func (m *Model) Editing() bool {
	return m.draft != nil
}

// BeginDraft opens a new empty draft of the given category. Any previous
// draft is discarded.
func (m *Model) BeginDraft(cat Category, stroke, fill color.RGBA, label string, closed bool) *Draft {
	m.draft = &Draft{
		Entity: Entity{
			Label:    label,
			Category: cat,
			Stroke:   stroke,
			Fill:     fill,
			Closed:   closed && cat.AutoClose(),
		},
		ActiveVertex: -1,
		HoverVertex:  -1,
		HoverEdge:    -1,
	}
	return m.draft
}

// EditEntity reopens a persisted entity as the draft. The entity leaves
// the persisted set until the draft is finished or cancelled.
func (m *Model) EditEntity(e *Entity) *Draft {
	for i, cand := range m.entities {
		if cand == e {
			m.entities = append(m.entities[:i], m.entities[i+1:]...)
			break
		}
	}
	clone := *e
	clone.Vertices = append([]geometry.Point2D(nil), e.Vertices...)
	m.draft = &Draft{
		Entity:       clone,
		ActiveVertex: -1,
		HoverVertex:  -1,
		HoverEdge:    -1,
		origin:       e,
	}
	return m.draft
}

// AppendVertex adds a vertex at the end of the draft path. For
// single-vertex categories a second vertex is rejected silently.
func (m *Model) AppendVertex(p geometry.Point2D) {
	if m.draft == nil {
		return
	}
	if m.draft.Category.SingleVertex() && len(m.draft.Vertices) >= 1 {
		return
	}
	m.draft.Vertices = append(m.draft.Vertices, p)
}

// MoveVertex sets the position of an existing draft vertex.
func (m *Model) MoveVertex(index int, p geometry.Point2D) {
	if m.draft == nil || index < 0 || index >= len(m.draft.Vertices) {
		return
	}
	m.draft.Vertices[index] = p
}

// InsertVertexAfter inserts p after the vertex at index, so inserting
// after 0 on [A,B] yields [A,p,B].
func (m *Model) InsertVertexAfter(index int, p geometry.Point2D) {
	if m.draft == nil || index < 0 || index >= len(m.draft.Vertices) {
		return
	}
	v := m.draft.Vertices
	v = append(v, geometry.Point2D{})
	copy(v[index+2:], v[index+1:])
	v[index+1] = p
	m.draft.Vertices = v
}

// RemoveVertex deletes the vertex at index; later indices renumber down.
func (m *Model) RemoveVertex(index int) {
	if m.draft == nil || index < 0 || index >= len(m.draft.Vertices) {
		return
	}
	m.draft.Vertices = append(m.draft.Vertices[:index], m.draft.Vertices[index+1:]...)
	m.draft.ClearHover()
	if m.draft.ActiveVertex == index {
		m.draft.ActiveVertex = -1
	} else if m.draft.ActiveVertex > index {
		m.draft.ActiveVertex--
	}
}

// CancelDraft discards the draft. A reopened entity returns unchanged to
// the persisted set.
func (m *Model) CancelDraft() {
	if m.draft == nil {
		return
	}
	if m.draft.origin != nil {
		m.entities = append(m.entities, m.draft.origin)
	}
	m.draft = nil
}

// FinishDraft validates the draft and moves it into the persisted set.
// On failure the draft is retained so the user can correct it.
func (m *Model) FinishDraft() (*Entity, error) {
	d := m.draft
	if d == nil {
		return nil, &ValidationError{Reason: ReasonTooFewVertices, Detail: "no draft open"}
	}

	cat := d.Category
	min := cat.MinVertices(d.Closed)
	if len(d.Vertices) < min {
		return nil, &ValidationError{
			Reason: ReasonTooFewVertices,
			Detail: fmt.Sprintf("%s needs at least %d, have %d", cat, min, len(d.Vertices)),
		}
	}
	if cat.SingleVertex() && len(d.Vertices) != 1 {
		return nil, &ValidationError{
			Reason: ReasonTooFewVertices,
			Detail: fmt.Sprintf("%s needs exactly 1 vertex, have %d", cat, len(d.Vertices)),
		}
	}

	if d.Label == "" {
		if cat.RequiresLabel() {
			return nil, &ValidationError{
				Reason: ReasonMissingLabel,
				Detail: fmt.Sprintf("a %s is a rail endpoint and needs a name", cat),
			}
		}
		d.Label = placeholderLabel()
	}
	if other := m.FindByLabel(d.Label); other != nil {
		return nil, &ValidationError{
			Reason: ReasonDuplicateLabel,
			Detail: fmt.Sprintf("%q already exists", d.Label),
		}
	}

	e := d.Entity
	e.Vertices = append([]geometry.Point2D(nil), d.Vertices...)
	out := &e
	m.entities = append(m.entities, out)
	m.draft = nil
	return out, nil
}

// NearestEndpoint returns the closest station or zone whose anchor lies
// within radius world units of p, or nil.
func (m *Model) NearestEndpoint(p geometry.Point2D, radius float64) *Entity {
	var best *Entity
	bestDist := radius
	for _, e := range m.entities {
		if !e.LinkEndpoint() || len(e.Vertices) == 0 {
			continue
		}
		d := p.Distance(e.Anchor())
		if d <= bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

func placeholderLabel() string {
	return "unnamed-" + uuid.NewString()[:8]
}
