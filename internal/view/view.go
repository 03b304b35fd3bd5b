// Package view owns the viewport state: zoom, pan center, and the
// world-to-screen transform derived from the active tile level.
package view

import (
	"math"
	"sync"

	"map-editor/internal/tiles"
	"map-editor/pkg/geometry"
)

// Default view limits for the ±10,000 unit world.
const (
	DefaultWorldBound = 10000.0
	DefaultZoomMin    = 0.10
	DefaultZoomMax    = 40.0
)

// View is the mutable viewport state. Zoom and center are mutated both
// from event callbacks and from the glide goroutine, so access goes
// through the locked methods below. The limits are set once before the
// window shows and are read-only afterwards.
type View struct {
	mu     sync.Mutex
	zoom   float64
	center geometry.Point2D

	WorldBound float64
	ZoomMin    float64
	ZoomMax    float64
}

// New creates a view at zoom 1 centered on the origin with the default
// limits.
func New() *View {
	return &View{
		zoom:       1,
		WorldBound: DefaultWorldBound,
		ZoomMin:    DefaultZoomMin,
		ZoomMax:    DefaultZoomMax,
	}
}

// Zoom returns the current zoom factor.
func (v *View) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// Center returns the current world-space view center.
func (v *View) Center() geometry.Point2D {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center
}

// SetZoom clamps and applies a zoom factor.
func (v *View) SetZoom(zoom float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setZoomLocked(zoom)
}

func (v *View) setZoomLocked(zoom float64) {
	v.zoom = math.Max(v.ZoomMin, math.Min(v.ZoomMax, zoom))
}

// SetCenter moves the view center, clamped to the world bounds.
func (v *View) SetCenter(c geometry.Point2D) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.center = c
	v.clampLocked()
}

func (v *View) clampLocked() {
	v.center.X = math.Max(-v.WorldBound, math.Min(v.WorldBound, v.center.X))
	v.center.Y = math.Max(-v.WorldBound, math.Min(v.WorldBound, v.center.Y))
}

// PanWorld translates the center by a world-space delta and clamps.
func (v *View) PanWorld(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.center.X += dx
	v.center.Y += dy
	v.clampLocked()
}

// PixelsPerUnit derives the screen pixels covered by one world unit at
// the given zoom on the given level. The tile's pixel size is rounded to
// a whole number of pixels first so adjacent tiles land on the same
// pixel grid and never show seams; the scale is therefore quantized, not
// the raw zoom.
func PixelsPerUnit(zoom float64, level tiles.Level) float64 {
	upt := float64(level.UnitsPerTile)
	tilePx := math.Round(zoom * upt)
	if tilePx < 1 {
		tilePx = 1
	}
	return tilePx / upt
}

// Camera freezes the transform for one frame or one event: viewport size
// plus the quantized scale. scale multiplies the viewport-point transform
// up to device pixels; pass 1 when working in points.
type Camera struct {
	Center geometry.Point2D
	Width  float64
	Height float64
	PPU    float64
	Level  tiles.Level
}

// Camera builds the frame transform for the given level and viewport.
func (v *View) Camera(level tiles.Level, width, height, scale float64) Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cameraLocked(level, width, height, scale)
}

func (v *View) cameraLocked(level tiles.Level, width, height, scale float64) Camera {
	return Camera{
		Center: v.center,
		Width:  width,
		Height: height,
		PPU:    PixelsPerUnit(v.zoom, level) * scale,
		Level:  level,
	}
}

// WorldToScreen maps a world point to screen coordinates.
func (c Camera) WorldToScreen(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: c.Width/2 + (p.X-c.Center.X)*c.PPU,
		Y: c.Height/2 + (p.Y-c.Center.Y)*c.PPU,
	}
}

// ScreenToWorld is the exact inverse of WorldToScreen.
func (c Camera) ScreenToWorld(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: c.Center.X + (p.X-c.Width/2)/c.PPU,
		Y: c.Center.Y + (p.Y-c.Height/2)/c.PPU,
	}
}

// TileSizePx returns the on-screen edge length of one tile.
func (c Camera) TileSizePx() float64 {
	return float64(c.Level.UnitsPerTile) * c.PPU
}

// TileRange is an inclusive range of visible tile indices.
type TileRange struct {
	MinX, MaxX int
	MinY, MaxY int
}

// VisibleTiles projects the viewport corners to world space, converts to
// tile indices, and expands by one tile of margin so edges never flicker
// while panning. Indices with magnitude beyond maxIndex are clipped out
// (finite world).
func (c Camera) VisibleTiles(maxIndex int) TileRange {
	upt := float64(c.Level.UnitsPerTile)
	halfW := c.Width / 2 / c.PPU
	halfH := c.Height / 2 / c.PPU

	r := TileRange{
		MinX: int(math.Floor((c.Center.X-halfW)/upt)) - 1,
		MaxX: int(math.Ceil((c.Center.X+halfW)/upt)) + 1,
		MinY: int(math.Floor((c.Center.Y-halfH)/upt)) - 1,
		MaxY: int(math.Ceil((c.Center.Y+halfH)/upt)) + 1,
	}

	if r.MinX < -maxIndex {
		r.MinX = -maxIndex
	}
	if r.MaxX > maxIndex {
		r.MaxX = maxIndex
	}
	if r.MinY < -maxIndex {
		r.MinY = -maxIndex
	}
	if r.MaxY > maxIndex {
		r.MaxY = maxIndex
	}
	return r
}

// ZoomAt changes the zoom while keeping the world point under the given
// screen position fixed, the way wheel zoom behaves in every map viewer.
// The pyramid is consulted because the level, and with it the quantized
// scale, may change across the zoom step.
func (v *View) ZoomAt(screen geometry.Point2D, width, height, newZoom float64, pyramid *tiles.Pyramid) {
	v.mu.Lock()
	defer v.mu.Unlock()

	before := v.cameraLocked(pyramid.LevelFor(v.zoom), width, height, 1)
	anchor := before.ScreenToWorld(screen)

	v.setZoomLocked(newZoom)

	after := v.cameraLocked(pyramid.LevelFor(v.zoom), width, height, 1)
	v.center.X = anchor.X - (screen.X-width/2)/after.PPU
	v.center.Y = anchor.Y - (screen.Y-height/2)/after.PPU
	v.clampLocked()
}
