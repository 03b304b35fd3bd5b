package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"map-editor/internal/world"
	"map-editor/pkg/geometry"
)

func TestVisibilityToggles(t *testing.T) {
	s := NewState()
	for _, c := range world.Categories() {
		if !s.Visible(c) {
			t.Errorf("%v should start visible", c)
		}
	}

	s.SetVisible(world.CategoryRoad, false)
	if s.Visible(world.CategoryRoad) {
		t.Error("road layer should be hidden")
	}

	vis := s.VisibilityAt(10)
	if vis(world.CategoryRoad) {
		t.Error("filter must honor the layer toggle")
	}
	if !vis(world.CategoryArea) {
		t.Error("other layers stay visible")
	}
}

func TestVisibilityAtHidesRoadsWhenZoomedOut(t *testing.T) {
	s := NewState()

	if s.VisibilityAt(2)(world.CategoryRoad) {
		t.Error("roads should hide below their minimum zoom")
	}
	if !s.VisibilityAt(4)(world.CategoryRoad) {
		t.Error("roads should show above their minimum zoom")
	}
	if !s.VisibilityAt(0.2)(world.CategoryArea) {
		t.Error("areas have no minimum zoom")
	}
}

func TestEventBus(t *testing.T) {
	s := NewState()
	var got []interface{}
	s.On(EventModified, func(data interface{}) { got = append(got, data) })
	s.On(EventModified, func(data interface{}) { got = append(got, data) })

	s.SetModified(true)
	if len(got) != 2 || got[0] != true {
		t.Errorf("listeners got %v", got)
	}
	if !s.Modified {
		t.Error("modified flag not set")
	}
}

func TestGeometrySaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geometry.json")

	s := NewState()
	s.Model.Add(&world.Entity{
		Label:    "harbor",
		Category: world.CategoryArea,
		Closed:   true,
		Vertices: []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
	})

	var events []EventType
	s.On(EventGeometrySaved, func(interface{}) { events = append(events, EventGeometrySaved) })
	s.On(EventGeometryLoaded, func(interface{}) { events = append(events, EventGeometryLoaded) })

	if err := s.SaveGeometry(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.Modified {
		t.Error("save should clear modified")
	}

	s2 := NewState()
	s2.On(EventGeometryLoaded, func(interface{}) { events = append(events, EventGeometryLoaded) })
	if err := s2.LoadGeometry(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := s2.Model.Entities()
	if len(got) != 1 || got[0].Label != "harbor" || len(got[0].Vertices) != 3 {
		t.Fatalf("loaded entities = %+v", got)
	}
	if s2.GeometryPath != path {
		t.Errorf("geometry path = %q", s2.GeometryPath)
	}
	if len(events) != 2 {
		t.Errorf("events = %v", events)
	}
}

func TestLoadGeometryMissingFile(t *testing.T) {
	s := NewState()
	err := s.LoadGeometry(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}
