package world

import (
	"errors"
	"testing"

	"map-editor/pkg/geometry"
)

func beginRoadDraft(m *Model) *Draft {
	return m.BeginDraft(CategoryRoad, CategoryRoad.DefaultStroke(), CategoryRoad.DefaultFill(), "", false)
}

func TestAppendVertex(t *testing.T) {
	m := NewModel()
	beginRoadDraft(m)

	m.AppendVertex(geometry.Point2D{X: 1, Y: 2})
	m.AppendVertex(geometry.Point2D{X: 3, Y: 4})
	if got := len(m.Draft().Vertices); got != 2 {
		t.Fatalf("vertex count = %d, want 2", got)
	}
}

func TestAppendVertexSingleVertexCategory(t *testing.T) {
	m := NewModel()
	m.BeginDraft(CategoryStation, CategoryStation.DefaultStroke(), CategoryStation.DefaultFill(), "Central", false)

	m.AppendVertex(geometry.Point2D{X: 1, Y: 1})
	m.AppendVertex(geometry.Point2D{X: 2, Y: 2}) // rejected silently
	if got := len(m.Draft().Vertices); got != 1 {
		t.Fatalf("station vertex count = %d, want 1", got)
	}
	if m.Draft().Vertices[0] != (geometry.Point2D{X: 1, Y: 1}) {
		t.Errorf("kept vertex = %v, want the first one", m.Draft().Vertices[0])
	}
}

func TestRemoveVertexRenumbers(t *testing.T) {
	m := NewModel()
	beginRoadDraft(m)
	a := geometry.Point2D{X: 0, Y: 0}
	b := geometry.Point2D{X: 1, Y: 1}
	c := geometry.Point2D{X: 2, Y: 2}
	m.AppendVertex(a)
	m.AppendVertex(b)
	m.AppendVertex(c)

	m.RemoveVertex(1)

	v := m.Draft().Vertices
	if len(v) != 2 || v[0] != a || v[1] != c {
		t.Fatalf("vertices = %v, want [%v %v]", v, a, c)
	}
}

func TestInsertVertexAfter(t *testing.T) {
	m := NewModel()
	beginRoadDraft(m)
	a := geometry.Point2D{X: 0, Y: 0}
	b := geometry.Point2D{X: 10, Y: 0}
	p := geometry.Point2D{X: 5, Y: 0}
	m.AppendVertex(a)
	m.AppendVertex(b)

	m.InsertVertexAfter(0, p)

	v := m.Draft().Vertices
	if len(v) != 3 || v[0] != a || v[1] != p || v[2] != b {
		t.Fatalf("vertices = %v, want [A p B]", v)
	}
}

func TestMoveVertex(t *testing.T) {
	m := NewModel()
	beginRoadDraft(m)
	m.AppendVertex(geometry.Point2D{X: 0, Y: 0})

	m.MoveVertex(0, geometry.Point2D{X: 7, Y: 8})
	if got := m.Draft().Vertices[0]; got != (geometry.Point2D{X: 7, Y: 8}) {
		t.Errorf("vertex = %v, want (7,8)", got)
	}

	// Out-of-range indices are ignored.
	m.MoveVertex(5, geometry.Point2D{X: 1, Y: 1})
	m.MoveVertex(-1, geometry.Point2D{X: 1, Y: 1})
	if got := len(m.Draft().Vertices); got != 1 {
		t.Errorf("vertex count = %d, want 1", got)
	}
}

func TestFinishDraftRoadValidation(t *testing.T) {
	m := NewModel()
	beginRoadDraft(m)
	m.AppendVertex(geometry.Point2D{X: 0, Y: 0})

	_, err := m.FinishDraft()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonTooFewVertices {
		t.Fatalf("error = %v, want too few vertices", err)
	}
	if !m.Editing() {
		t.Fatal("failed finish must keep the draft")
	}

	m.AppendVertex(geometry.Point2D{X: 10, Y: 0})
	e, err := m.FinishDraft()
	if err != nil {
		t.Fatalf("finish with 2 vertices: %v", err)
	}
	if m.Editing() {
		t.Error("successful finish must clear the draft")
	}
	if len(m.Entities()) != 1 || m.Entities()[0] != e {
		t.Error("entity not moved into persisted set")
	}
}

func TestFinishDraftClosedAreaValidation(t *testing.T) {
	m := NewModel()
	m.BeginDraft(CategoryArea, CategoryArea.DefaultStroke(), CategoryArea.DefaultFill(), "Forest", true)
	m.AppendVertex(geometry.Point2D{X: 0, Y: 0})
	m.AppendVertex(geometry.Point2D{X: 10, Y: 0})

	_, err := m.FinishDraft()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonTooFewVertices {
		t.Fatalf("closed area with 2 vertices: error = %v, want too few vertices", err)
	}

	m.AppendVertex(geometry.Point2D{X: 5, Y: 10})
	if _, err := m.FinishDraft(); err != nil {
		t.Fatalf("closed area with 3 vertices: %v", err)
	}
}

func TestFinishDraftStationLabelRequired(t *testing.T) {
	m := NewModel()
	m.BeginDraft(CategoryStation, CategoryStation.DefaultStroke(), CategoryStation.DefaultFill(), "", false)
	m.AppendVertex(geometry.Point2D{X: 0, Y: 0})

	_, err := m.FinishDraft()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonMissingLabel {
		t.Fatalf("error = %v, want missing label", err)
	}

	m.Draft().Label = "Central"
	if _, err := m.FinishDraft(); err != nil {
		t.Fatalf("finish named station: %v", err)
	}
}

func TestFinishDraftDuplicateLabel(t *testing.T) {
	m := NewModel()
	beginRoadDraft(m)
	m.Draft().Label = "Main Street"
	m.AppendVertex(geometry.Point2D{X: 0, Y: 0})
	m.AppendVertex(geometry.Point2D{X: 1, Y: 0})
	if _, err := m.FinishDraft(); err != nil {
		t.Fatal(err)
	}

	beginRoadDraft(m)
	m.Draft().Label = "Main Street"
	m.AppendVertex(geometry.Point2D{X: 0, Y: 5})
	m.AppendVertex(geometry.Point2D{X: 1, Y: 5})

	_, err := m.FinishDraft()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonDuplicateLabel {
		t.Fatalf("error = %v, want duplicate label", err)
	}
}

func TestFinishDraftPlaceholderLabel(t *testing.T) {
	m := NewModel()
	beginRoadDraft(m)
	m.AppendVertex(geometry.Point2D{X: 0, Y: 0})
	m.AppendVertex(geometry.Point2D{X: 1, Y: 0})

	e, err := m.FinishDraft()
	if err != nil {
		t.Fatal(err)
	}
	if e.Label == "" {
		t.Error("finished unnamed entity should get a placeholder label")
	}
}

func TestEditEntityRoundTrip(t *testing.T) {
	m := NewModel()
	beginRoadDraft(m)
	m.Draft().Label = "Ring Road"
	m.AppendVertex(geometry.Point2D{X: 0, Y: 0})
	m.AppendVertex(geometry.Point2D{X: 1, Y: 0})
	e, err := m.FinishDraft()
	if err != nil {
		t.Fatal(err)
	}

	// Reopen, mutate, cancel: persisted entity must be unchanged.
	m.EditEntity(e)
	if len(m.Entities()) != 0 {
		t.Fatal("edited entity should leave the persisted set")
	}
	m.MoveVertex(0, geometry.Point2D{X: 99, Y: 99})
	m.CancelDraft()
	if len(m.Entities()) != 1 {
		t.Fatal("cancel should restore the entity")
	}
	if m.Entities()[0].Vertices[0] != (geometry.Point2D{X: 0, Y: 0}) {
		t.Error("cancel must not keep draft mutations")
	}

	// Reopen and finish under the same label: no duplicate complaint.
	m.EditEntity(m.Entities()[0])
	m.MoveVertex(0, geometry.Point2D{X: 5, Y: 5})
	if _, err := m.FinishDraft(); err != nil {
		t.Fatalf("re-finish with same label: %v", err)
	}
	if len(m.Entities()) != 1 {
		t.Fatalf("entity count = %d, want 1", len(m.Entities()))
	}
}

func TestNearestEndpoint(t *testing.T) {
	m := NewModel()
	m.Add(&Entity{
		Label:    "Central",
		Category: CategoryStation,
		Vertices: []geometry.Point2D{{X: 100, Y: 100}},
	})
	m.Add(&Entity{
		Label:    "North",
		Category: CategoryStation,
		Vertices: []geometry.Point2D{{X: 100, Y: 200}},
	})
	m.Add(&Entity{
		Label:    "Forest",
		Category: CategoryArea,
		Vertices: []geometry.Point2D{{X: 100, Y: 104}, {X: 101, Y: 104}, {X: 100, Y: 105}},
	})

	got := m.NearestEndpoint(geometry.Point2D{X: 103, Y: 100}, 10)
	if got == nil || got.Label != "Central" {
		t.Fatalf("NearestEndpoint = %v, want Central", got)
	}

	// Areas never act as endpoints, even when closer.
	got = m.NearestEndpoint(geometry.Point2D{X: 100, Y: 104}, 10)
	if got == nil || got.Label != "Central" {
		t.Fatalf("NearestEndpoint = %v, want Central (areas excluded)", got)
	}

	if m.NearestEndpoint(geometry.Point2D{X: 0, Y: 0}, 10) != nil {
		t.Error("far query should find nothing")
	}
}
