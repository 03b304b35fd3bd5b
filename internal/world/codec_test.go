package world

import (
	"bytes"
	"strings"
	"testing"

	"map-editor/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func TestDecodeEntities(t *testing.T) {
	data := `[
		{"name":"Forest","category":1,"points":[[0,0],[100,0],[50,80]],
		 "lineColor":"#00ff00","fillColor":"#00ff0033","closePath":true},
		{"name":"Main Street","category":2,"points":[[0,0],[200,0]],
		 "lineColor":"#ffaa00","fillColor":"#ffaa0033"}
	]`

	entities, err := DecodeEntities(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != 2 {
		t.Fatalf("entity count = %d, want 2", len(entities))
	}

	forest := entities[0]
	if forest.Category != CategoryArea || !forest.Closed || len(forest.Vertices) != 3 {
		t.Errorf("forest = %+v", forest)
	}
	if forest.Fill.A != 0x33 {
		t.Errorf("fill alpha = %d, want 0x33", forest.Fill.A)
	}

	road := entities[1]
	if road.Category != CategoryRoad || road.Closed {
		t.Errorf("road = %+v", road)
	}
}

func TestDecodeEntitiesMalformedRecords(t *testing.T) {
	data := `[
		{"name":"no points","category":1},
		{"name":"weird","category":99,"points":[[1,2]],"lineColor":"nonsense"}
	]`

	entities, err := DecodeEntities(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != 2 {
		t.Fatalf("entity count = %d, want 2", len(entities))
	}

	if len(entities[0].Vertices) != 0 {
		t.Error("missing points should yield an empty vertex list")
	}
	if entities[1].Category != CategoryRoad {
		t.Errorf("unknown category = %v, want road fallback", entities[1].Category)
	}
	if entities[1].Stroke != CategoryRoad.DefaultStroke() {
		t.Error("bad color should fall back to the category default")
	}
}

func TestDecodeEntitiesBrokenStream(t *testing.T) {
	if _, err := DecodeEntities(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for broken stream")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := NewModel()
	m.BeginDraft(CategoryRail, CategoryRail.DefaultStroke(), CategoryRail.DefaultFill(), "East Line", false)
	m.AppendVertex(pt(0, 0))
	m.AppendVertex(pt(100, 50))
	m.Draft().FromStation = "Central"
	m.Draft().ToStation = "East"
	if _, err := m.FinishDraft(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeEntities(&buf, m.Entities()); err != nil {
		t.Fatal(err)
	}

	back, err := DecodeEntities(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 {
		t.Fatalf("entity count = %d, want 1", len(back))
	}
	got := back[0]
	if got.Label != "East Line" || got.Category != CategoryRail ||
		got.FromStation != "Central" || got.ToStation != "East" ||
		len(got.Vertices) != 2 {
		t.Errorf("round trip = %+v", got)
	}
}
