package canvas

import (
	"image"
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"map-editor/internal/app"
	"map-editor/internal/editor"
	"map-editor/internal/tiles"
	"map-editor/internal/view"
	"map-editor/internal/world"
	"map-editor/pkg/colorutil"
	"map-editor/pkg/geometry"
)

func newTestCanvas(t *testing.T) (*MapCanvas, *app.State, *view.View, *editor.Session) {
	t.Helper()
	test.NewApp()

	st := app.NewState()
	v := view.New()
	p := tiles.DefaultPyramid()
	sess := editor.NewSession(st.Model, v, p, nil)
	mc := NewMapCanvas(st, v, p, nil, sess)
	return mc, st, v, sess
}

func TestWheelZoomAdditiveStep(t *testing.T) {
	mc, _, v, _ := newTestCanvas(t)

	mc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 1}})
	if z := v.Zoom(); math.Abs(z-1.3) > 1e-9 {
		t.Errorf("zoom after wheel up = %v, want 1.3", z)
	}

	mc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -1}})
	mc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -1}})
	if z := v.Zoom(); math.Abs(z-0.7) > 1e-9 {
		t.Errorf("zoom after wheel down = %v, want 0.7", z)
	}
}

// The frame must reflect link-selection mode so pickable endpoints are
// marked on screen.
func TestDrawRingsLinkTargets(t *testing.T) {
	mc, st, _, sess := newTestCanvas(t)
	st.Model.Add(&world.Entity{
		Label:    "hub",
		Category: world.CategoryStation,
		Stroke:   colorutil.Red,
		Vertices: []geometry.Point2D{{X: 0, Y: 0}},
	})
	mc.Resize(fyne.NewSize(200, 200))

	sess.Begin(world.CategoryRail, "line", false)
	sess.BeginLinkSelect(editor.LinkTo)

	img := mc.draw(200, 200).(*image.RGBA)
	if got := img.RGBAAt(109, 100); got != colorutil.Cyan {
		t.Errorf("link ring pixel = %v, want cyan while picking", got)
	}

	sess.Cancel()
	img = mc.draw(200, 200).(*image.RGBA)
	if got := img.RGBAAt(109, 100); got == colorutil.Cyan {
		t.Error("link ring drawn outside link selection")
	}
}
