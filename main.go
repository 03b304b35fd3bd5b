// Map Editor is an interactive tile-map viewer and vector overlay
// editor for a large block-grid world.
package main

import (
	"flag"
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"map-editor/internal/app"
	"map-editor/internal/tiles"
	"map-editor/internal/view"
	"map-editor/pkg/geometry"
	"map-editor/ui/mainwindow"
	"map-editor/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "editor.yaml", "path to the editor config")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Config: %v, continuing with defaults", err)
	}

	userPrefs := prefs.Load()

	state := app.NewState()
	state.MaxTileIndex = cfg.MaxTileIndex

	v := view.New()
	v.WorldBound = cfg.WorldBound
	v.ZoomMin = cfg.ZoomMin
	v.ZoomMax = cfg.ZoomMax
	v.SetZoom(userPrefs.Float(prefs.KeyZoom, 1))
	v.SetCenter(geometry.Point2D{
		X: userPrefs.Float(prefs.KeyCenterX, 0),
		Y: userPrefs.Float(prefs.KeyCenterY, 0),
	})

	pyramid := cfg.Pyramid()
	source := tiles.NewDirSource(cfg.TileRoot)

	// The cache resolves loads on background goroutines; the notify hook
	// is bound to the window's canvas once it exists.
	var redraw func()
	cache := tiles.NewCache(source, func() {
		if redraw != nil {
			redraw()
		}
	})

	fyneApp := fyneapp.NewWithID("io.github.map-editor")
	fyneApp.Settings().SetTheme(&app.MapEditorTheme{})

	win := mainwindow.New(fyneApp, state, v, pyramid, cache, userPrefs)
	redraw = win.RefreshMap

	// Geometry file: command line argument wins, then the last one used.
	geomPath := flag.Arg(0)
	if geomPath == "" {
		geomPath = userPrefs.String(prefs.KeyGeometryFile)
	}
	if geomPath != "" {
		if _, err := os.Stat(geomPath); err == nil {
			if err := state.LoadGeometry(geomPath); err != nil {
				log.Printf("Geometry load failed: %v", err)
			}
		}
	}

	win.SetOnClosed(win.SaveViewPrefs)
	win.ShowAndRun()
}
