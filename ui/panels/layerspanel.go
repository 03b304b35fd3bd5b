package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"map-editor/internal/app"
	"map-editor/internal/world"
	"map-editor/ui/canvas"
)

// LayersPanel toggles per-category visibility and the provisional
// (draft) layer.
type LayersPanel struct {
	state  *app.State
	canvas *canvas.MapCanvas

	container fyne.CanvasObject
}

// NewLayersPanel creates the layers panel.
func NewLayersPanel(state *app.State, mc *canvas.MapCanvas) *LayersPanel {
	lp := &LayersPanel{state: state, canvas: mc}

	items := []fyne.CanvasObject{widget.NewLabel("Layers")}
	for _, cat := range world.Categories() {
		cat := cat
		check := widget.NewCheck(displayName(cat), func(on bool) {
			state.SetVisible(cat, on)
			mc.Refresh()
		})
		check.SetChecked(state.Visible(cat))
		items = append(items, check)
	}

	provisional := widget.NewCheck("Show draft", func(on bool) {
		state.SetShowProvisional(on)
		mc.Refresh()
	})
	provisional.SetChecked(state.ShowProvisional())
	items = append(items, widget.NewSeparator(), provisional)

	lp.container = container.NewVBox(items...)
	return lp
}

// Container returns the panel container.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.container
}
