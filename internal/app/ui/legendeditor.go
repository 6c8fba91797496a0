package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/mapengine"
)

// LegendArea is the UI area for editing legend sections and their markers.
// New marker positions are picked on the map and arrive through the
// selection inbox.
type LegendArea struct {
	Content fyne.CanvasObject

	sections    *fyne.Container
	pendingName string
	u           *BaseUI
}

func NewLegendArea(u *BaseUI) *LegendArea {
	a := &LegendArea{
		sections: container.NewVBox(),
		u:        u,
	}
	addBtn := widget.NewButton("Add section", a.showAddSectionDialog)
	a.Content = container.NewBorder(
		container.NewVBox(container.NewHBox(addBtn), widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(a.sections),
	)
	return a
}

// Refresh applies a pending map selection and rebuilds the section list.
func (a *LegendArea) Refresh() {
	a.consumeSelection()
	a.sections.RemoveAll()
	for _, section := range a.u.Settings.LegendSections() {
		a.sections.Add(a.makeSection(section))
	}
	a.sections.Refresh()
}

// consumeSelection applies a confirmed map point to the legend.
// A selection with an item id moves that item, one without creates
// a new item with the name captured when the flow started.
func (a *LegendArea) consumeSelection() {
	s, ok := a.u.SelectionInbox.Take()
	if !ok {
		return
	}
	if s.Target.ItemID != "" {
		for _, section := range a.u.Settings.LegendSections() {
			if section.ID != s.Target.SectionID {
				continue
			}
			for _, item := range section.Items {
				if item.ID != s.Target.ItemID {
					continue
				}
				item.X = s.X
				item.Y = s.Y
				a.u.Settings.UpdateLegendItem(section.ID, item.ID, item)
				return
			}
		}
		return
	}
	name := a.pendingName
	if name == "" {
		name = "New marker"
	}
	a.pendingName = ""
	a.u.Settings.AddLegendItem(s.Target.SectionID, app.LegendItem{
		Name: name,
		X:    s.X,
		Y:    s.Y,
	})
}

func (a *LegendArea) makeSection(section app.LegendSection) fyne.CanvasObject {
	title := widget.NewLabel(fmt.Sprintf("%s %s (%d)", section.Icon, section.Name, len(section.Items)))
	title.TextStyle.Bold = true
	editBtn := widget.NewButton("Edit", func() {
		a.showEditSectionDialog(section)
	})
	deleteBtn := widget.NewButton("Delete", func() {
		dialog.NewConfirm(
			"Delete section",
			fmt.Sprintf("Delete %s and all its markers?", section.Name),
			func(confirmed bool) {
				if confirmed {
					a.u.Settings.DeleteLegendSection(section.ID)
				}
			},
			a.u.Window,
		).Show()
	})
	addBtn := widget.NewButton("Add marker", func() {
		a.showAddItemDialog(section)
	})
	items := container.NewVBox()
	for _, item := range section.Items {
		items.Add(a.makeItem(section, item))
	}
	return container.NewVBox(
		container.NewHBox(title, editBtn, deleteBtn, addBtn),
		items,
		widget.NewSeparator(),
	)
}

func (a *LegendArea) makeItem(section app.LegendSection, item app.LegendItem) fyne.CanvasObject {
	label := widget.NewLabel(fmt.Sprintf("%s (%.1f%%, %.1f%%)", item.Name, item.X, item.Y))
	moveBtn := widget.NewButton("Move", func() {
		a.u.MapEngine.StartSelecting(mapengine.SelectionTarget{SectionID: section.ID, ItemID: item.ID})
	})
	deleteBtn := widget.NewButton("Delete", func() {
		a.u.Settings.DeleteLegendItem(section.ID, item.ID)
	})
	return container.NewHBox(label, moveBtn, deleteBtn)
}

func (a *LegendArea) showAddSectionDialog() {
	name := widget.NewEntry()
	icon := widget.NewEntry()
	icon.SetPlaceHolder("Emoji or image URL")
	items := []*widget.FormItem{
		{Text: "Name", Widget: name},
		{Text: "Icon", Widget: icon},
	}
	d := dialog.NewForm("Add section", "Add", "Cancel", items, func(confirmed bool) {
		if !confirmed || name.Text == "" {
			return
		}
		a.u.Settings.AddLegendSection(name.Text, icon.Text)
	}, a.u.Window)
	d.Show()
}

func (a *LegendArea) showEditSectionDialog(section app.LegendSection) {
	name := widget.NewEntry()
	name.SetText(section.Name)
	icon := widget.NewEntry()
	icon.SetText(section.Icon)
	items := []*widget.FormItem{
		{Text: "Name", Widget: name},
		{Text: "Icon", Widget: icon},
	}
	d := dialog.NewForm("Edit section", "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed || name.Text == "" {
			return
		}
		a.u.Settings.UpdateLegendSection(section.ID, name.Text, icon.Text)
	}, a.u.Window)
	d.Show()
}

func (a *LegendArea) showAddItemDialog(section app.LegendSection) {
	name := widget.NewEntry()
	items := []*widget.FormItem{
		{Text: "Name", Widget: name},
	}
	d := dialog.NewForm("Add marker", "Pick on map", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		a.pendingName = name.Text
		a.u.MapEngine.StartSelecting(mapengine.SelectionTarget{SectionID: section.ID})
	}, a.u.Window)
	d.Show()
}
