// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"map-editor/internal/app"
	"map-editor/internal/editor"
	"map-editor/internal/world"
	"map-editor/pkg/colorutil"
	"map-editor/ui/canvas"
)

var categoryNames = []string{"Area", "Road", "Zone", "Station", "Rail"}

func categoryByName(name string) world.Category {
	switch name {
	case "Area":
		return world.CategoryArea
	case "Zone":
		return world.CategoryZone
	case "Station":
		return world.CategoryStation
	case "Rail":
		return world.CategoryRail
	}
	return world.CategoryRoad
}

// EditorPanel drives entity creation and editing: category, colors,
// label, and the finish/cancel controls.
type EditorPanel struct {
	state   *app.State
	session *editor.Session
	canvas  *canvas.MapCanvas

	category *widget.Select
	label    *widget.Entry
	desc     *widget.Entry
	stroke   *widget.Entry
	fill     *widget.Entry
	closed   *widget.Check

	startBtn  *widget.Button
	finishBtn *widget.Button
	cancelBtn *widget.Button
	fromBtn   *widget.Button
	toBtn     *widget.Button

	status *widget.Label

	container fyne.CanvasObject
}

// NewEditorPanel creates the editor panel.
func NewEditorPanel(state *app.State, session *editor.Session, mc *canvas.MapCanvas) *EditorPanel {
	ep := &EditorPanel{
		state:   state,
		session: session,
		canvas:  mc,
	}

	ep.category = widget.NewSelect(categoryNames, func(string) { ep.applyDefaults() })
	ep.category.SetSelected("Area")
	ep.label = widget.NewEntry()
	ep.label.SetPlaceHolder("name")
	ep.desc = widget.NewMultiLineEntry()
	ep.desc.SetPlaceHolder("description")
	ep.stroke = widget.NewEntry()
	ep.fill = widget.NewEntry()
	ep.closed = widget.NewCheck("Closed path", nil)
	ep.applyDefaults()

	ep.startBtn = widget.NewButton("New Entity", ep.onStart)
	ep.finishBtn = widget.NewButton("Finish", ep.onFinish)
	ep.cancelBtn = widget.NewButton("Cancel", ep.onCancel)
	ep.fromBtn = widget.NewButton("Pick From Station", func() { ep.onPickLink(editor.LinkFrom) })
	ep.toBtn = widget.NewButton("Pick To Station", func() { ep.onPickLink(editor.LinkTo) })
	ep.status = widget.NewLabel("")
	ep.status.Wrapping = fyne.TextWrapWord

	ep.setEditing(false)

	form := widget.NewForm(
		widget.NewFormItem("Category", ep.category),
		widget.NewFormItem("Label", ep.label),
		widget.NewFormItem("Description", ep.desc),
		widget.NewFormItem("Stroke", ep.stroke),
		widget.NewFormItem("Fill", ep.fill),
	)

	ep.container = container.NewVBox(
		form,
		ep.closed,
		ep.startBtn,
		container.NewGridWithColumns(2, ep.finishBtn, ep.cancelBtn),
		container.NewGridWithColumns(2, ep.fromBtn, ep.toBtn),
		ep.status,
	)
	return ep
}

// Container returns the panel container.
func (ep *EditorPanel) Container() fyne.CanvasObject {
	return ep.container
}

// ShowEntity fills the status area with a clicked entity's details.
func (ep *EditorPanel) ShowEntity(e *world.Entity) {
	if e == nil {
		ep.status.SetText("")
		return
	}
	text := fmt.Sprintf("%s (%s), %d vertices", e.Label, e.Category, len(e.Vertices))
	if e.Description != "" {
		text += "\n" + e.Description
	}
	if e.Category == world.CategoryRail && (e.FromStation != "" || e.ToStation != "") {
		text += fmt.Sprintf("\n%s -> %s", e.FromStation, e.ToStation)
	}
	ep.status.SetText(text)
}

// EditEntity reopens a persisted entity in the editor.
func (ep *EditorPanel) EditEntity(e *world.Entity) {
	d := ep.session.Edit(e)
	ep.category.SetSelected(displayName(d.Category))
	ep.label.SetText(d.Label)
	ep.desc.SetText(d.Description)
	ep.stroke.SetText(colorutil.FormatHex(d.Stroke))
	ep.fill.SetText(colorutil.FormatHex(d.Fill))
	ep.closed.SetChecked(d.Closed)
	ep.setEditing(true)
	ep.status.SetText("Editing " + d.Label)
	ep.canvas.Refresh()
}

func displayName(c world.Category) string {
	switch c {
	case world.CategoryArea:
		return "Area"
	case world.CategoryZone:
		return "Zone"
	case world.CategoryStation:
		return "Station"
	case world.CategoryRail:
		return "Rail"
	}
	return "Road"
}

func (ep *EditorPanel) applyDefaults() {
	cat := categoryByName(ep.category.Selected)
	ep.stroke.SetText(colorutil.FormatHex(cat.DefaultStroke()))
	ep.fill.SetText(colorutil.FormatHex(cat.DefaultFill()))
	ep.closed.SetChecked(cat.AutoClose())
}

func (ep *EditorPanel) onStart() {
	cat := categoryByName(ep.category.Selected)
	d := ep.session.Begin(cat, ep.label.Text, ep.closed.Checked)
	d.Description = ep.desc.Text
	d.Stroke = colorutil.ParseHexDefault(ep.stroke.Text, cat.DefaultStroke())
	d.Fill = colorutil.ParseHexDefault(ep.fill.Text, cat.DefaultFill())

	ep.setEditing(true)
	ep.status.SetText("Click the map to add points. Escape cancels.")
	ep.canvas.Refresh()
}

func (ep *EditorPanel) onFinish() {
	d := ep.state.Model.Draft()
	if d == nil {
		return
	}
	d.Label = ep.label.Text
	d.Description = ep.desc.Text

	e, err := ep.session.Finish()
	if err != nil {
		ep.status.SetText("Cannot finish: " + err.Error())
		return
	}
	ep.setEditing(false)
	ep.status.SetText("Saved " + e.Label)
	ep.label.SetText("")
	ep.desc.SetText("")
	ep.state.SetModified(true)
	ep.state.Emit(app.EventEntityFinished, e)
	ep.canvas.Refresh()
}

func (ep *EditorPanel) onCancel() {
	ep.session.Cancel()
	ep.setEditing(false)
	ep.status.SetText("Discarded")
	ep.canvas.Refresh()
}

func (ep *EditorPanel) onPickLink(slot editor.LinkSlot) {
	ep.session.BeginLinkSelect(slot)
	ep.status.SetText("Click a station on the map")
}

func (ep *EditorPanel) setEditing(editing bool) {
	if editing {
		ep.startBtn.Disable()
		ep.finishBtn.Enable()
		ep.cancelBtn.Enable()
	} else {
		ep.startBtn.Enable()
		ep.finishBtn.Disable()
		ep.cancelBtn.Disable()
	}
	rail := editing && categoryByName(ep.category.Selected) == world.CategoryRail
	if rail {
		ep.fromBtn.Enable()
		ep.toBtn.Enable()
	} else {
		ep.fromBtn.Disable()
		ep.toBtn.Disable()
	}
}
