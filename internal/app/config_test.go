package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.WorldBound != 10000 || cfg.ZoomMin != 0.10 || cfg.ZoomMax != 40.0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxTileIndex != 50 {
		t.Errorf("max tile index = %d, want 50", cfg.MaxTileIndex)
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	body := "tile_root: /srv/tiles\nzoom_max: 20\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TileRoot != "/srv/tiles" || cfg.ZoomMax != 20 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.WorldBound != 10000 {
		t.Errorf("unset field should keep default, got %v", cfg.WorldBound)
	}
}

func TestLoadConfigCustomLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	body := `levels:
  - resolution: 512
    units_per_tile: 2048
    zoom_min: 0.1
    zoom_max: 1.0
    source: 0
  - resolution: 256
    units_per_tile: 256
    zoom_min: 1.0
    zoom_max: 40.0
    source: 1
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := cfg.Pyramid()
	if len(p.Levels()) != 2 {
		t.Fatalf("levels = %d, want 2", len(p.Levels()))
	}
	if got := p.LevelFor(0.5); got.UnitsPerTile != 2048 {
		t.Errorf("zoom 0.5 resolved to %+v", got)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	if err := os.WriteFile(path, []byte("levels: {not a list"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed YAML should report an error")
	}
}
