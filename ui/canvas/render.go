// Package canvas provides the map canvas widget: tile rendering, vector
// overlays, and pointer interaction.
package canvas

import (
	"image"
	"image/color"
	"math"
	"sort"
	"time"

	xdraw "golang.org/x/image/draw"

	"map-editor/internal/tiles"
	"map-editor/internal/view"
	"map-editor/internal/world"
	"map-editor/pkg/colorutil"
	"map-editor/pkg/geometry"
)

// Marker and blink constants, in screen pixels and wall time.
const (
	vertexMarkerPx = 8
	stationBoxPx   = 10
	edgeMarkerPx   = 6
	snapRingPx     = 16
	linkMarkerPx   = 18
	blinkPeriod    = 500 * time.Millisecond
)

var backgroundColor = color.RGBA{R: 0x20, G: 0x24, B: 0x28, A: 0xFF}

// Frame bundles everything one render pass needs. It is rebuilt from
// live state on every draw so visibility toggles and viewport changes
// are never stale.
type Frame struct {
	Cam       view.Camera
	Zoom      float64
	Scale     float64 // device pixels per point
	Visible   world.Visibility
	ShowDraft bool
	Elapsed   time.Duration

	// LinkSelecting marks pickable rail endpoints while the session
	// waits for a station choice.
	LinkSelecting bool

	// Pointer is the cursor in device pixels, used for the rubber line
	// while drawing.
	Pointer    geometry.Point2D
	HasPointer bool

	MaxTileIndex int
}

// Render draws one complete frame into img: background, visible tiles,
// persisted entities, then the draft with its markers.
func Render(img *image.RGBA, f Frame, cache *tiles.Cache, m *world.Model) {
	p := painter{img: img}
	p.fill(backgroundColor)

	drawTiles(img, f, cache)

	for _, e := range m.Entities() {
		if f.Visible(e.Category) {
			drawEntity(&p, f, e, false)
		}
	}

	if f.LinkSelecting {
		drawLinkTargets(&p, f, m)
	}

	if d := m.Draft(); d != nil && f.ShowDraft {
		drawDraft(&p, f, d)
	}
}

// drawLinkTargets rings every entity a rail endpoint may attach to, so
// the user can see what is pickable while choosing a station.
func drawLinkTargets(p *painter, f Frame, m *world.Model) {
	half := linkMarkerPx * f.Scale / 2
	thickness := scaledPx(1.5, f.Scale)
	for _, e := range m.Entities() {
		if !e.LinkEndpoint() || !f.Visible(e.Category) || len(e.Vertices) == 0 {
			continue
		}
		c := f.Cam.WorldToScreen(e.Anchor())
		p.rect(c.X-half, c.Y-half, c.X+half, c.Y+half, colorutil.Cyan, thickness)
	}
}

func drawTiles(img *image.RGBA, f Frame, cache *tiles.Cache) {
	if cache == nil {
		return
	}
	r := f.Cam.VisibleTiles(f.MaxTileIndex)
	size := f.Cam.TileSizePx()
	upt := float64(f.Cam.Level.UnitsPerTile)

	for ty := r.MinY; ty <= r.MaxY; ty++ {
		for tx := r.MinX; tx <= r.MaxX; tx++ {
			tile := cache.Get(tiles.Key{Source: f.Cam.Level.SourceID, X: tx, Y: ty})
			if tile == nil {
				continue
			}
			origin := f.Cam.WorldToScreen(geometry.Point2D{X: float64(tx) * upt, Y: float64(ty) * upt})
			dst := image.Rect(
				int(math.Round(origin.X)),
				int(math.Round(origin.Y)),
				int(math.Round(origin.X+size)),
				int(math.Round(origin.Y+size)),
			)
			xdraw.NearestNeighbor.Scale(img, dst, tile, tile.Bounds(), xdraw.Src, nil)
		}
	}
}

// drawEntity renders one entity: fill, stroke, marker, label. Entities
// with fewer than two vertices are skipped, except single-vertex
// stations which draw as a fixed-size square.
func drawEntity(p *painter, f Frame, e *world.Entity, provisional bool) {
	if e.Category.SingleVertex() {
		if len(e.Vertices) == 1 {
			drawStation(p, f, e)
		}
		return
	}
	if len(e.Vertices) < 2 {
		return
	}

	pts := make([]geometry.Point2D, len(e.Vertices))
	for i, v := range e.Vertices {
		pts[i] = f.Cam.WorldToScreen(v)
	}

	closed := e.Closed || (provisional && e.Category.AutoClose() && len(pts) >= 3)
	if closed && e.Category.Fills() && len(pts) >= 3 {
		p.fillPolygon(pts, e.Fill)
	}

	thickness := strokePx(e.Category, f.Scale)
	last := len(pts) - 1
	for i := 0; i < last; i++ {
		p.line(pts[i], pts[i+1], e.Stroke, thickness, false)
	}
	if closed && len(pts) >= 3 {
		p.line(pts[last], pts[0], e.Stroke, thickness, false)
	}

	drawEntityLabel(p, f, e)
}

func drawStation(p *painter, f Frame, e *world.Entity) {
	c := f.Cam.WorldToScreen(e.Vertices[0])
	half := stationBoxPx * f.Scale / 2
	p.fillRect(c.X-half, c.Y-half, c.X+half, c.Y+half, e.Stroke)
	if e.Label != "" {
		p.label(e.Label, geometry.Point2D{X: c.X, Y: c.Y + 3*half}, 0, colorutil.White, fontScale(f.Scale))
	}
}

func drawEntityLabel(p *painter, f Frame, e *world.Entity) {
	if e.Label == "" {
		return
	}
	if e.Category.LabelAlongPath() {
		half := geometry.PathLength(e.Vertices) / 2
		at, angle, ok := geometry.PointAlongPath(e.Vertices, half)
		if !ok {
			return
		}
		// Keep the text upright whichever way the path runs.
		if angle > math.Pi/2 {
			angle -= math.Pi
		} else if angle < -math.Pi/2 {
			angle += math.Pi
		}
		p.label(e.Label, f.Cam.WorldToScreen(at), angle, colorutil.White, fontScale(f.Scale))
		return
	}
	anchor := f.Cam.WorldToScreen(geometry.Centroid(e.Vertices))
	p.label(e.Label, anchor, 0, colorutil.White, fontScale(f.Scale))
}

func drawDraft(p *painter, f Frame, d *world.Draft) {
	drawEntity(p, f, &d.Entity, true)

	pts := make([]geometry.Point2D, len(d.Vertices))
	for i, v := range d.Vertices {
		pts[i] = f.Cam.WorldToScreen(v)
	}
	last := len(pts) - 1

	// Rubber line from the last vertex to the pointer.
	if f.HasPointer && last >= 0 && d.ActiveVertex < 0 {
		p.line(pts[last], f.Pointer, colorutil.Cyan, scaledPx(1, f.Scale), true)
	}

	blinkOn := (f.Elapsed/blinkPeriod)%2 == 0
	half := vertexMarkerPx * f.Scale / 2
	for i, sp := range pts {
		var col color.RGBA
		switch {
		case i == d.ActiveVertex:
			col = colorutil.Cyan
		case i == d.HoverVertex:
			col = colorutil.Magenta
		case i == 0:
			col = colorutil.Green
		case i == last:
			if !blinkOn {
				continue
			}
			col = colorutil.Yellow
		default:
			col = colorutil.White
		}
		p.fillRect(sp.X-half, sp.Y-half, sp.X+half, sp.Y+half, col)
	}

	if d.HoverEdge >= 0 {
		ep := f.Cam.WorldToScreen(d.EdgePoint)
		eh := edgeMarkerPx * f.Scale / 2
		p.fillRect(ep.X-eh, ep.Y-eh, ep.X+eh, ep.Y+eh, colorutil.Green)
	}

	// A dragged rail terminal that snapped to a station gets a ring
	// around it so the attachment is visible before release.
	if d.SnapStation != "" && d.ActiveVertex >= 0 && d.ActiveVertex < len(pts) {
		sp := pts[d.ActiveVertex]
		sh := snapRingPx * f.Scale / 2
		p.rect(sp.X-sh, sp.Y-sh, sp.X+sh, sp.Y+sh, colorutil.Green, scaledPx(1.5, f.Scale))
	}
}

func strokePx(cat world.Category, scale float64) int {
	return scaledPx(cat.StrokeWidth(), scale)
}

func scaledPx(w, scale float64) int {
	px := int(math.Round(w * scale))
	if px < 1 {
		px = 1
	}
	return px
}

func fontScale(scale float64) int {
	s := int(math.Round(3 * scale))
	if s < 2 {
		s = 2
	}
	if s > 8 {
		s = 8
	}
	return s
}

// painter draws screen-space primitives into an RGBA image.
type painter struct {
	img *image.RGBA
}

func (p *painter) fill(col color.RGBA) {
	b := p.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p.img.SetRGBA(x, y, col)
		}
	}
}

func (p *painter) fillRect(x1, y1, x2, y2 float64, col color.RGBA) {
	b := p.img.Bounds()
	for y := int(y1); y <= int(y2); y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := int(x1); x <= int(x2); x++ {
			if x >= b.Min.X && x < b.Max.X {
				p.img.SetRGBA(x, y, col)
			}
		}
	}
}

// rect draws an axis-aligned rectangle outline.
func (p *painter) rect(x1, y1, x2, y2 float64, col color.RGBA, thickness int) {
	a := geometry.Point2D{X: x1, Y: y1}
	b := geometry.Point2D{X: x2, Y: y1}
	c := geometry.Point2D{X: x2, Y: y2}
	d := geometry.Point2D{X: x1, Y: y2}
	p.line(a, b, col, thickness, false)
	p.line(b, c, col, thickness, false)
	p.line(c, d, col, thickness, false)
	p.line(d, a, col, thickness, false)
}

// line draws between two screen points using Bresenham's algorithm,
// stamping a thickness x thickness block at each step. When dashed, the
// stroke alternates on and off along its length.
func (p *painter) line(a, b geometry.Point2D, col color.RGBA, thickness int, dashed bool) {
	x1, y1 := int(a.X), int(a.Y)
	x2, y2 := int(b.X), int(b.Y)
	bounds := p.img.Bounds()

	dx := x2 - x1
	if dx < 0 {
		dx = -dx
	}
	dy := y2 - y1
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	step := 0
	for {
		if !dashed || step%12 < 7 {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					px, py := x1+s, y1+t
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						p.img.SetRGBA(px, py, col)
					}
				}
			}
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		step++
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillPolygon fills with the even-odd scanline rule.
func (p *painter) fillPolygon(pts []geometry.Point2D, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	bounds := p.img.Bounds()

	minY, maxY := pts[0].Y, pts[0].Y
	for _, pt := range pts[1:] {
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	n := len(pts)
	for y := int(minY); y <= int(maxY); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		fy := float64(y)
		var xs []float64
		for i := 0; i < n; i++ {
			p1, p2 := pts[i], pts[(i+1)%n]
			if (p1.Y <= fy && p2.Y > fy) || (p2.Y <= fy && p1.Y > fy) {
				t := (fy - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(xs[i]); x <= int(xs[i+1]); x++ {
				if x >= bounds.Min.X && x < bounds.Max.X {
					p.img.SetRGBA(x, y, col)
				}
			}
		}
	}
}

// label draws text centered on a point with the bitmap font, rotated by
// angle radians.
func (p *painter) label(text string, center geometry.Point2D, angle float64, col color.RGBA, scale int) {
	if text == "" {
		return
	}
	charW := 3 * scale
	charH := 5 * scale
	spacing := scale
	totalW := len(text)*charW + (len(text)-1)*spacing

	cosA := math.Cos(angle)
	sinA := math.Sin(angle)
	bounds := p.img.Bounds()

	// Each font pixel stamps a slightly oversized block so rotation
	// leaves no holes.
	stamp := func(lx, ly float64) {
		rx := center.X + lx*cosA - ly*sinA
		ry := center.Y + lx*sinA + ly*cosA
		for dy := 0; dy <= scale; dy++ {
			for dx := 0; dx <= scale; dx++ {
				px := int(rx) + dx
				py := int(ry) + dy
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					p.img.SetRGBA(px, py, col)
				}
			}
		}
	}

	for i, ch := range text {
		pattern := getCharPattern(ch)
		charX := -totalW/2 + i*(charW+spacing)
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if pattern[row]&(1<<(2-c)) != 0 {
					stamp(float64(charX+c*scale), float64(-charH/2+row*scale))
				}
			}
		}
	}
}
