package prefs

import (
	"path/filepath"
	"testing"
)

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")

	p := LoadFrom(path)
	p.SetFloat(KeyZoom, 2.5)
	p.SetString(KeyGeometryFile, "world.json")
	p.SetBool("layers.roads", false)
	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	q := LoadFrom(path)
	if got := q.Float(KeyZoom, 1); got != 2.5 {
		t.Errorf("zoom = %v, want 2.5", got)
	}
	if got := q.String(KeyGeometryFile); got != "world.json" {
		t.Errorf("file = %q", got)
	}
	if q.Bool("layers.roads", true) {
		t.Error("bool pref lost")
	}
}

func TestPrefsFallbacks(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if got := p.Float(KeyZoom, 1.5); got != 1.5 {
		t.Errorf("missing float = %v, want fallback", got)
	}
	if p.String("nope") != "" {
		t.Error("missing string should be empty")
	}
	if !p.Bool("nope", true) {
		t.Error("missing bool should fall back")
	}
}
