package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"map-editor/internal/app"
	"map-editor/internal/editor"
	"map-editor/ui/canvas"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	editorPanel *EditorPanel
	layersPanel *LayersPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, session *editor.Session, mc *canvas.MapCanvas) *SidePanel {
	sp := &SidePanel{state: state}

	sp.editorPanel = NewEditorPanel(state, session, mc)
	sp.layersPanel = NewLayersPanel(state, mc)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Editor", sp.editorPanel.Container()),
		container.NewTabItem("Layers", sp.layersPanel.Container()),
	)
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// Editor returns the editor tab.
func (sp *SidePanel) Editor() *EditorPanel {
	return sp.editorPanel
}
