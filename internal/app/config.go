package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"map-editor/internal/tiles"
)

// Config is the startup configuration, loadable from a YAML file. Zero
// values fall back to the built-in defaults so a partial file works.
type Config struct {
	// TileRoot is the directory holding the tile pyramid folders.
	TileRoot string `yaml:"tile_root"`

	// Levels overrides the built-in tile pyramid when non-empty,
	// ordered coarsest to finest.
	Levels []tiles.Level `yaml:"levels"`

	WorldBound   float64 `yaml:"world_bound"`
	ZoomMin      float64 `yaml:"zoom_min"`
	ZoomMax      float64 `yaml:"zoom_max"`
	MaxTileIndex int     `yaml:"max_tile_index"`
}

// DefaultConfig returns the configuration for the standard ±10,000 unit
// world with its three-level pyramid.
func DefaultConfig() Config {
	return Config{
		TileRoot:     "tiles",
		WorldBound:   10000,
		ZoomMin:      0.10,
		ZoomMax:      40.0,
		MaxTileIndex: 50,
	}
}

// LoadConfig reads a YAML config file, filling unset fields with the
// defaults. A missing file is not an error: the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if file.TileRoot != "" {
		cfg.TileRoot = file.TileRoot
	}
	if len(file.Levels) > 0 {
		cfg.Levels = file.Levels
	}
	if file.WorldBound > 0 {
		cfg.WorldBound = file.WorldBound
	}
	if file.ZoomMin > 0 {
		cfg.ZoomMin = file.ZoomMin
	}
	if file.ZoomMax > 0 {
		cfg.ZoomMax = file.ZoomMax
	}
	if file.MaxTileIndex > 0 {
		cfg.MaxTileIndex = file.MaxTileIndex
	}
	return cfg, nil
}

// Pyramid builds the tile pyramid the config describes.
func (c Config) Pyramid() *tiles.Pyramid {
	if len(c.Levels) > 0 {
		return tiles.NewPyramid(c.Levels)
	}
	return tiles.DefaultPyramid()
}
