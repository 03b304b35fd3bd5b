package canvas

import (
	"image"
	"testing"

	"map-editor/internal/tiles"
	"map-editor/internal/view"
	"map-editor/internal/world"
	"map-editor/pkg/colorutil"
	"map-editor/pkg/geometry"
)

// testFrame renders at zoom 1 on the finest level into a 200x200 image,
// so one pixel is one world unit and the origin lands at (100, 100).
func testFrame() Frame {
	v := view.New()
	level := tiles.DefaultPyramid().LevelFor(v.Zoom())
	return Frame{
		Cam:          v.Camera(level, 200, 200, 1),
		Zoom:         v.Zoom(),
		Scale:        1,
		Visible:      world.ShowAll,
		ShowDraft:    true,
		MaxTileIndex: 50,
	}
}

func renderModel(t *testing.T, f Frame, m *world.Model) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	Render(img, f, nil, m)
	return img
}

func TestRenderFillsClosedArea(t *testing.T) {
	m := world.NewModel()
	m.Add(&world.Entity{
		Label:    "",
		Category: world.CategoryArea,
		Closed:   true,
		Stroke:   colorutil.Red,
		Fill:     colorutil.Green,
		Vertices: []geometry.Point2D{{X: -20, Y: -20}, {X: 20, Y: -20}, {X: 20, Y: 20}, {X: -20, Y: 20}},
	})

	img := renderModel(t, testFrame(), m)
	if got := img.RGBAAt(100, 100); got != colorutil.Green {
		t.Errorf("interior pixel = %v, want fill", got)
	}
	if got := img.RGBAAt(10, 10); got != backgroundColor {
		t.Errorf("exterior pixel = %v, want background", got)
	}
}

func TestRenderSkipsDegenerateEntities(t *testing.T) {
	m := world.NewModel()
	m.Add(&world.Entity{Category: world.CategoryRoad, Stroke: colorutil.Red,
		Vertices: []geometry.Point2D{{X: 0, Y: 0}}})
	m.Add(&world.Entity{Category: world.CategoryArea, Vertices: nil})

	img := renderModel(t, testFrame(), m)
	if got := img.RGBAAt(100, 100); got != backgroundColor {
		t.Errorf("degenerate entities should not draw, got %v", got)
	}
}

func TestRenderDuplicateVerticesDoNotPanic(t *testing.T) {
	m := world.NewModel()
	m.Add(&world.Entity{
		Label:    "loop road",
		Category: world.CategoryRoad,
		Stroke:   colorutil.Red,
		Vertices: []geometry.Point2D{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 40, Y: 0}},
	})
	renderModel(t, testFrame(), m) // label tangent must cope with the zero-length segment
}

func TestRenderStationMarker(t *testing.T) {
	m := world.NewModel()
	m.Add(&world.Entity{
		Label:    "hq",
		Category: world.CategoryStation,
		Stroke:   colorutil.Red,
		Vertices: []geometry.Point2D{{X: 0, Y: 0}},
	})

	img := renderModel(t, testFrame(), m)
	if got := img.RGBAAt(100, 100); got != colorutil.Red {
		t.Errorf("station center = %v, want marker color", got)
	}
}

func TestRenderHonorsVisibilityFilter(t *testing.T) {
	m := world.NewModel()
	m.Add(&world.Entity{
		Category: world.CategoryRoad,
		Stroke:   colorutil.Red,
		Vertices: []geometry.Point2D{{X: -40, Y: 0}, {X: 40, Y: 0}},
	})

	f := testFrame()
	f.Visible = func(c world.Category) bool { return c != world.CategoryRoad }
	img := renderModel(t, f, m)
	if got := img.RGBAAt(100, 100); got != backgroundColor {
		t.Errorf("hidden road still drawn: %v", got)
	}

	f.Visible = world.ShowAll
	img = renderModel(t, f, m)
	if got := img.RGBAAt(100, 100); got != colorutil.Red {
		t.Errorf("visible road missing: %v", got)
	}
}

func TestRenderDraftBlink(t *testing.T) {
	m := world.NewModel()
	m.BeginDraft(world.CategoryRoad, colorutil.Red, colorutil.Red, "r", false)
	m.AppendVertex(geometry.Point2D{X: -50, Y: 0})
	m.AppendVertex(geometry.Point2D{X: 50, Y: 0})

	f := testFrame()
	f.Elapsed = 0 // blink on
	img := renderModel(t, f, m)
	if got := img.RGBAAt(150, 100); got != colorutil.Yellow {
		t.Errorf("trailing vertex marker = %v, want blinking yellow", got)
	}

	f.Elapsed = blinkPeriod // blink off
	img = renderModel(t, f, m)
	if got := img.RGBAAt(150, 100); got == colorutil.Yellow {
		t.Error("trailing marker should be hidden in the off phase")
	}
}

func TestRenderLinkTargetsRinged(t *testing.T) {
	m := world.NewModel()
	m.Add(&world.Entity{
		Label:    "hq",
		Category: world.CategoryStation,
		Stroke:   colorutil.Red,
		Vertices: []geometry.Point2D{{X: 0, Y: 0}},
	})
	m.Add(&world.Entity{
		Category: world.CategoryRoad,
		Stroke:   colorutil.Red,
		Vertices: []geometry.Point2D{{X: -60, Y: 40}, {X: 60, Y: 40}},
	})

	f := testFrame()
	f.LinkSelecting = true
	img := renderModel(t, f, m)
	// Ring edge sits linkMarkerPx/2 right of the station anchor.
	if got := img.RGBAAt(109, 100); got != colorutil.Cyan {
		t.Errorf("link ring pixel = %v, want cyan", got)
	}
	// Roads are not pickable endpoints and get no ring.
	if got := img.RGBAAt(109, 140); got == colorutil.Cyan {
		t.Error("road should not be ringed as a link target")
	}

	f.LinkSelecting = false
	img = renderModel(t, f, m)
	if got := img.RGBAAt(109, 100); got == colorutil.Cyan {
		t.Error("link ring drawn outside link selection")
	}
}

func TestRenderSnapRingOnDraggedRailTerminal(t *testing.T) {
	m := world.NewModel()
	d := m.BeginDraft(world.CategoryRail, colorutil.Red, colorutil.Red, "line", false)
	m.AppendVertex(geometry.Point2D{X: -50, Y: 0})
	m.AppendVertex(geometry.Point2D{X: 30, Y: 0})
	d.ActiveVertex = 1
	d.SnapStation = "central"

	img := renderModel(t, testFrame(), m)
	// Ring edge sits snapRingPx/2 right of the snapped vertex (130, 100).
	if got := img.RGBAAt(138, 100); got != colorutil.Green {
		t.Errorf("snap ring pixel = %v, want green", got)
	}

	d.SnapStation = ""
	img = renderModel(t, testFrame(), m)
	if got := img.RGBAAt(138, 100); got == colorutil.Green {
		t.Error("ring drawn without a snap target")
	}
}

func TestRenderDraftHiddenWhenProvisionalOff(t *testing.T) {
	m := world.NewModel()
	m.BeginDraft(world.CategoryRoad, colorutil.Red, colorutil.Red, "r", false)
	m.AppendVertex(geometry.Point2D{X: -50, Y: 0})
	m.AppendVertex(geometry.Point2D{X: 50, Y: 0})

	f := testFrame()
	f.ShowDraft = false
	img := renderModel(t, f, m)
	if got := img.RGBAAt(100, 100); got != backgroundColor {
		t.Errorf("draft drawn despite provisional toggle: %v", got)
	}
}
