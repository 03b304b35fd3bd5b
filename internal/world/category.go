// Package world provides the vector entity model for the map editor:
// categories, persisted entities, the draft under construction, and
// hit-testing against the entity set.
package world

import (
	"image/color"

	"map-editor/pkg/colorutil"
)

// Category classifies a map entity and decides its vertex rules,
// closure, fill, stroke width, and label placement.
type Category int

const (
	CategoryArea    Category = 1 // terrain outline, filled polygon
	CategoryRoad    Category = 2 // open path, thick stroke
	CategoryZone    Category = 3 // small marked zone, translucent fill
	CategoryStation Category = 4 // single-point rail stop, square marker
	CategoryRail    Category = 5 // rail line linking two stations
)

// Categories lists every valid category, in draw-layer order.
func Categories() []Category {
	return []Category{CategoryArea, CategoryRoad, CategoryZone, CategoryStation, CategoryRail}
}

func (c Category) String() string {
	switch c {
	case CategoryArea:
		return "area"
	case CategoryRoad:
		return "road"
	case CategoryZone:
		return "zone"
	case CategoryStation:
		return "station"
	case CategoryRail:
		return "rail"
	default:
		return "unknown"
	}
}

// ParseCategory maps a stored category code to a Category. Unknown codes
// fall back to CategoryRoad, the most permissive line-like default, so a
// malformed record still loads and draws.
func ParseCategory(code int) Category {
	c := Category(code)
	switch c {
	case CategoryArea, CategoryRoad, CategoryZone, CategoryStation, CategoryRail:
		return c
	}
	return CategoryRoad
}

// MinVertices returns the minimum vertex count a finished entity of this
// category needs. Closed shapes need one more vertex than open ones.
func (c Category) MinVertices(closed bool) int {
	switch c {
	case CategoryArea:
		if closed {
			return 3
		}
		return 2
	case CategoryStation:
		return 1
	case CategoryZone:
		return 1
	default: // road, rail
		return 2
	}
}

// SingleVertex reports whether the category holds exactly one vertex.
func (c Category) SingleVertex() bool {
	return c == CategoryStation
}

// AutoClose reports whether the vertex path closes back to the start.
func (c Category) AutoClose() bool {
	return c == CategoryArea || c == CategoryZone
}

// Fills reports whether the interior is filled.
func (c Category) Fills() bool {
	return c == CategoryArea || c == CategoryZone
}

// RequiresLabel reports whether a finished entity must carry a non-empty
// label. Stations do: their label is the identity rail lines link to.
func (c Category) RequiresLabel() bool {
	return c == CategoryStation
}

// LabelAlongPath reports whether the label follows the path midpoint
// tangent instead of sitting at the centroid.
func (c Category) LabelAlongPath() bool {
	return c == CategoryRoad || c == CategoryRail
}

// StrokeWidth returns the base stroke width in screen pixels at zoom 1.
func (c Category) StrokeWidth() float64 {
	switch c {
	case CategoryArea:
		return 2.5
	case CategoryRoad:
		return 6
	case CategoryRail:
		return 3
	default:
		return 2
	}
}

// MinVisibleZoom returns the zoom below which the category hides entirely.
// Roads clutter the coarse levels, so they only appear zoomed in.
func (c Category) MinVisibleZoom() float64 {
	if c == CategoryRoad {
		return 3
	}
	return 0
}

// DefaultStroke returns the default stroke color for new drafts.
func (c Category) DefaultStroke() color.RGBA {
	switch c {
	case CategoryZone:
		return colorutil.ParseHexDefault("#ffffff99", colorutil.White)
	case CategoryRail:
		return colorutil.ParseHexDefault("#8888ff", colorutil.White)
	default:
		return colorutil.Green
	}
}

// DefaultFill returns the default fill color for new drafts.
func (c Category) DefaultFill() color.RGBA {
	switch c {
	case CategoryZone:
		return colorutil.ParseHexDefault("#ffffff33", colorutil.White)
	default:
		return colorutil.WithAlpha(colorutil.Green, 0x33)
	}
}
