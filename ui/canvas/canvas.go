package canvas

import (
	"image"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"map-editor/internal/app"
	"map-editor/internal/editor"
	"map-editor/internal/tiles"
	"map-editor/internal/view"
	"map-editor/pkg/geometry"
)

// Wheel zoom moves in fixed additive steps, matching the feel of the
// tile sets' source maps.
const wheelZoomStep = 0.3

// MapCanvas is the interactive map widget: it renders the tile pyramid
// with the vector overlay and feeds pointer input to the edit session.
type MapCanvas struct {
	widget.BaseWidget

	state   *app.State
	view    *view.View
	pyramid *tiles.Pyramid
	cache   *tiles.Cache
	session *editor.Session

	raster *fynecanvas.Raster
	epoch  time.Time

	pointer    geometry.Point2D
	hasPointer bool

	flingGen atomic.Int64

	// OnPointer receives the world coordinate under the cursor on every
	// pointer move, for the status readout.
	OnPointer func(world geometry.Point2D)
}

// NewMapCanvas wires the canvas over the shared state. The session's
// fling callback is claimed by the canvas to drive inertial panning.
func NewMapCanvas(st *app.State, v *view.View, pyramid *tiles.Pyramid, cache *tiles.Cache, session *editor.Session) *MapCanvas {
	mc := &MapCanvas{
		state:   st,
		view:    v,
		pyramid: pyramid,
		cache:   cache,
		session: session,
		epoch:   time.Now(),
	}
	mc.raster = fynecanvas.NewRaster(mc.draw)
	mc.raster.ScaleMode = fynecanvas.ImageScalePixels
	mc.ExtendBaseWidget(mc)

	session.OnFling = mc.startFling

	// The trailing draft vertex blinks; repaint on the blink period
	// while an edit session is open.
	go func() {
		for range time.Tick(blinkPeriod) {
			if st.Model.Editing() && st.ShowProvisional() {
				mc.Refresh()
			}
		}
	}()
	return mc
}

// CreateRenderer implements fyne.Widget.
func (mc *MapCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(mc.raster)
}

// Refresh repaints the map.
func (mc *MapCanvas) Refresh() {
	mc.raster.Refresh()
}

// draw is the raster drawing function. w and h are device pixels; the
// widget size is in points, and the ratio is the display scale.
func (mc *MapCanvas) draw(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}

	size := mc.Size()
	scale := 1.0
	if size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	mc.session.Resize(float64(size.Width), float64(size.Height))

	zoom := mc.view.Zoom()
	level := mc.pyramid.LevelFor(zoom)
	f := Frame{
		Cam:           mc.view.Camera(level, float64(w), float64(h), scale),
		Zoom:          zoom,
		Scale:         scale,
		Visible:       mc.state.VisibilityAt(zoom),
		ShowDraft:     mc.state.ShowProvisional(),
		Elapsed:       time.Since(mc.epoch),
		LinkSelecting: mc.session.State() == editor.StateLinkSelecting,
		Pointer:       mc.pointer.Scale(scale),
		HasPointer:    mc.hasPointer,
		MaxTileIndex:  mc.state.MaxTileIndex,
	}
	Render(img, f, mc.cache, mc.state.Model)
	return img
}

// MouseDown implements desktop.Mouseable.
func (mc *MapCanvas) MouseDown(ev *desktop.MouseEvent) {
	mc.flingGen.Add(1) // grabbing the map stops any glide
	mc.session.PointerDown(pointOf(ev.Position), time.Now())
}

// MouseUp implements desktop.Mouseable.
func (mc *MapCanvas) MouseUp(ev *desktop.MouseEvent) {
	mc.session.PointerUp(pointOf(ev.Position), time.Now())
}

// MouseIn implements desktop.Hoverable.
func (mc *MapCanvas) MouseIn(ev *desktop.MouseEvent) {
	mc.pointer = pointOf(ev.Position)
	mc.hasPointer = true
}

// MouseMoved implements desktop.Hoverable.
func (mc *MapCanvas) MouseMoved(ev *desktop.MouseEvent) {
	mc.pointer = pointOf(ev.Position)
	mc.hasPointer = true
	mc.session.PointerMove(pointOf(ev.Position), time.Now())
	if mc.OnPointer != nil {
		mc.OnPointer(mc.worldAt(mc.pointer))
	}
	if mc.state.Model.Editing() {
		mc.Refresh()
	}
}

// MouseOut implements desktop.Hoverable.
func (mc *MapCanvas) MouseOut() {
	mc.hasPointer = false
}

// Dragged implements fyne.Draggable.
func (mc *MapCanvas) Dragged(ev *fyne.DragEvent) {
	mc.pointer = pointOf(ev.Position)
	mc.session.PointerMove(pointOf(ev.Position), time.Now())
}

// DragEnd implements fyne.Draggable.
func (mc *MapCanvas) DragEnd() {}

// Scrolled implements fyne.Scrollable: wheel zooms about the cursor.
func (mc *MapCanvas) Scrolled(ev *fyne.ScrollEvent) {
	zoom := mc.view.Zoom()
	if ev.Scrolled.DY > 0 {
		zoom += wheelZoomStep
	} else if ev.Scrolled.DY < 0 {
		zoom -= wheelZoomStep
	} else {
		return
	}
	size := mc.Size()
	mc.view.ZoomAt(pointOf(ev.Position), float64(size.Width), float64(size.Height), zoom, mc.pyramid)
	mc.state.Emit(app.EventViewChanged, mc.view.Zoom())
	mc.Refresh()
}

// startFling glides the view after a fast pan release, decaying until
// the speed drops away or the user grabs the map again.
func (mc *MapCanvas) startFling(vx, vy float64) {
	gen := mc.flingGen.Add(1)
	fl := editor.NewFling(vx, vy)

	go func() {
		const tick = 16 * time.Millisecond
		for range time.Tick(tick) {
			if mc.flingGen.Load() != gen {
				return
			}
			dx, dy, done := fl.Step(tick)

			zoom := mc.view.Zoom()
			ppu := view.PixelsPerUnit(zoom, mc.pyramid.LevelFor(zoom))
			mc.view.PanWorld(-dx/ppu, -dy/ppu)
			mc.Refresh()
			if done {
				return
			}
		}
	}()
}

// worldAt maps a widget position in points to world coordinates.
func (mc *MapCanvas) worldAt(pos geometry.Point2D) geometry.Point2D {
	size := mc.Size()
	if size.Width == 0 || size.Height == 0 {
		return geometry.Point2D{}
	}
	level := mc.pyramid.LevelFor(mc.view.Zoom())
	cam := mc.view.Camera(level, float64(size.Width), float64(size.Height), 1)
	return cam.ScreenToWorld(pos)
}

func pointOf(p fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
}
