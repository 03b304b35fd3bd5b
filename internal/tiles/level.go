// Package tiles provides the multi-resolution tile pyramid: level
// selection, the on-disk tile source, and the asynchronous tile cache.
package tiles

// Level describes one resolution level of the tile pyramid.
type Level struct {
	ResolutionPx int     `yaml:"resolution"`     // tile image edge in pixels
	UnitsPerTile int     `yaml:"units_per_tile"` // world units covered by one tile edge
	ZoomMin      float64 `yaml:"zoom_min"`
	ZoomMax      float64 `yaml:"zoom_max"`
	SourceID     int     `yaml:"source"` // tile directory id
}

// Pyramid is an ordered list of levels, coarsest first.
type Pyramid struct {
	levels []Level
}

// NewPyramid creates a pyramid from levels ordered coarsest to finest.
func NewPyramid(levels []Level) *Pyramid {
	return &Pyramid{levels: levels}
}

// DefaultPyramid returns the standard three-level pyramid for the
// ±10,000 unit world.
func DefaultPyramid() *Pyramid {
	return NewPyramid([]Level{
		{ResolutionPx: 1024, UnitsPerTile: 4096, ZoomMin: 0.10, ZoomMax: 0.30, SourceID: 0},
		{ResolutionPx: 512, UnitsPerTile: 1024, ZoomMin: 0.30, ZoomMax: 0.70, SourceID: 1},
		{ResolutionPx: 256, UnitsPerTile: 256, ZoomMin: 0.70, ZoomMax: 40.0, SourceID: 2},
	})
}

// Levels returns the levels, coarsest first.
func (p *Pyramid) Levels() []Level {
	return p.levels
}

// Finest returns the highest-detail level.
func (p *Pyramid) Finest() Level {
	return p.levels[len(p.levels)-1]
}

// LevelFor returns the first level whose zoom range contains zoom. When
// no range matches, the finest level is returned rather than the
// coarsest, so an out-of-range zoom over-details instead of blurring.
func (p *Pyramid) LevelFor(zoom float64) Level {
	for _, lvl := range p.levels {
		if zoom >= lvl.ZoomMin && zoom <= lvl.ZoomMax {
			return lvl
		}
	}
	return p.Finest()
}
