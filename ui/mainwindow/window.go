// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"math"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"map-editor/internal/app"
	"map-editor/internal/editor"
	"map-editor/internal/tiles"
	"map-editor/internal/version"
	"map-editor/internal/view"
	"map-editor/internal/world"
	"map-editor/pkg/geometry"
	"map-editor/ui/canvas"
	"map-editor/ui/panels"
	"map-editor/ui/prefs"
)

const prefKeyLastDir = "lastDirectory"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app        fyne.App
	state      *app.State
	view       *view.View
	session    *editor.Session
	canvas     *canvas.MapCanvas
	sidePanel  *panels.SidePanel
	statusBar  *widget.Label
	coordLabel *widget.Label
	zoomSlider *widget.Slider
	cache      *tiles.Cache
	userPrefs  *prefs.Prefs

	selected *world.Entity
}

// New creates the main window over the shared state and wires the edit
// session to the canvas and panels.
func New(fyneApp fyne.App, state *app.State, v *view.View, pyramid *tiles.Pyramid, cache *tiles.Cache, userPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Map Editor")

	mw := &MainWindow{
		Window:    win,
		app:       fyneApp,
		state:     state,
		view:      v,
		cache:     cache,
		userPrefs: userPrefs,
	}

	mw.session = editor.NewSession(state.Model, v, pyramid, func() world.Visibility {
		return state.VisibilityAt(v.Zoom())
	})
	mw.canvas = canvas.NewMapCanvas(state, v, pyramid, cache, mw.session)
	mw.session.OnChanged = mw.canvas.Refresh
	mw.session.OnInspect = mw.onInspect
	mw.canvas.OnPointer = mw.onPointer

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.sidePanel = panels.NewSidePanel(mw.state, mw.session, mw.canvas)
	mw.statusBar = widget.NewLabel("Ready")
	mw.coordLabel = widget.NewLabel("")

	mw.zoomSlider = widget.NewSlider(math.Log(mw.view.ZoomMin), math.Log(mw.view.ZoomMax))
	mw.zoomSlider.Step = 0.01
	mw.zoomSlider.Value = math.Log(mw.view.Zoom())
	mw.zoomSlider.OnChanged = func(v float64) {
		zoom := math.Exp(v)
		if math.Abs(zoom-mw.view.Zoom()) < 1e-6 {
			return
		}
		mw.view.SetZoom(zoom)
		mw.state.Emit(app.EventViewChanged, mw.view.Zoom())
		mw.canvas.Refresh()
	}

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		mw.canvas,
	)
	split.SetOffset(0.22)

	statusRow := container.NewBorder(
		nil, nil, nil,
		container.NewHBox(
			mw.coordLabel,
			container.NewGridWrap(fyne.NewSize(160, 36), mw.zoomSlider),
		),
		mw.statusBar,
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(statusRow),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1280, 800))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Geometry...", mw.onOpenGeometry),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Geometry", mw.onSaveGeometry),
		fyne.NewMenuItem("Save Geometry As...", mw.onSaveGeometryAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Edit Selected Entity", mw.onEditSelected),
		fyne.NewMenuItem("Cancel Draft", mw.onCancelDraft),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.zoomBy(1.25) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.zoomBy(1.0/1.25) }),
		fyne.NewMenuItem("Reset View", mw.onResetView),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventGeometryLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Map Editor - " + filepath.Base(path))
			mw.updateStatus("Loaded " + path)
		}
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventGeometrySaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Map Editor - " + filepath.Base(path))
			mw.updateStatus("Saved " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventViewChanged, func(interface{}) {
		mw.updateStatus(fmt.Sprintf("Zoom %.2f  Center %.0f, %.0f",
			mw.view.Zoom(), mw.view.Center().X, mw.view.Center().Y))
		mw.zoomSlider.Value = math.Log(mw.view.Zoom())
		mw.zoomSlider.Refresh()
	})

	mw.state.On(app.EventEntityFinished, func(data interface{}) {
		if e, ok := data.(*world.Entity); ok {
			mw.selected = e
		}
	})
}

// setupKeys binds keyboard shortcuts: Escape discards the draft.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape && mw.state.Model.Editing() {
			mw.session.Cancel()
			mw.updateStatus("Draft discarded")
		}
	})
}

func (mw *MainWindow) onPointer(wp geometry.Point2D) {
	ready, _, pending := mw.cache.Counts()
	mw.coordLabel.SetText(fmt.Sprintf("%.0f, %.0f · tiles %d (%d loading)",
		wp.X, wp.Y, ready, pending))
}

func (mw *MainWindow) onInspect(e *world.Entity) {
	mw.selected = e
	mw.sidePanel.Editor().ShowEntity(e)
	if e != nil {
		mw.updateStatus("Selected " + e.Label)
	}
}

func (mw *MainWindow) onEditSelected() {
	if mw.selected == nil {
		mw.updateStatus("Nothing selected")
		return
	}
	if mw.state.Model.Editing() {
		mw.updateStatus("Finish or cancel the current draft first")
		return
	}
	mw.sidePanel.Editor().EditEntity(mw.selected)
	mw.selected = nil
}

func (mw *MainWindow) onCancelDraft() {
	if mw.state.Model.Editing() {
		mw.session.Cancel()
		mw.updateStatus("Draft discarded")
	}
}

func (mw *MainWindow) zoomBy(factor float64) {
	mw.view.SetZoom(mw.view.Zoom() * factor)
	mw.state.Emit(app.EventViewChanged, mw.view.Zoom())
	mw.canvas.Refresh()
}

func (mw *MainWindow) onResetView() {
	mw.view.SetZoom(1)
	mw.view.SetCenter(geometry.Point2D{})
	mw.state.Emit(app.EventViewChanged, mw.view.Zoom())
	mw.canvas.Refresh()
}

// RefreshMap repaints the map canvas, e.g. after a tile load lands.
func (mw *MainWindow) RefreshMap() {
	mw.canvas.Refresh()
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

func (mw *MainWindow) onOpenGeometry() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadGeometry(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.userPrefs.SetString(prefs.KeyGeometryFile, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveGeometry() {
	if mw.state.GeometryPath == "" {
		mw.onSaveGeometryAs()
		return
	}
	if err := mw.state.SaveGeometry(mw.state.GeometryPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveGeometryAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveGeometry(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.userPrefs.SetString(prefs.KeyGeometryFile, path)
	}, mw.Window)
	fd.SetFileName("geometry.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// SaveViewPrefs persists the viewport so the next session resumes where
// this one left off.
func (mw *MainWindow) SaveViewPrefs() {
	mw.userPrefs.SetFloat(prefs.KeyZoom, mw.view.Zoom())
	mw.userPrefs.SetFloat(prefs.KeyCenterX, mw.view.Center().X)
	mw.userPrefs.SetFloat(prefs.KeyCenterY, mw.view.Center().Y)
	if err := mw.userPrefs.Save(); err != nil {
		mw.updateStatus("Could not save preferences: " + err.Error())
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Map Editor",
		fmt.Sprintf("Map Editor v%s\n\n"+
			"A tile-map viewer and vector overlay editor.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
