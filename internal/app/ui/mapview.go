package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ErikKalkoken/trailbuddy/internal/app/mapengine"
)

// MapArea is the UI area that shows the interactive map with marker layers.
type MapArea struct {
	Content fyne.CanvasObject

	top        *widget.Label
	markerPane *fyne.Container
	toggles    *fyne.Container
	confirmBtn *widget.Button
	cancelBtn  *widget.Button
	stopBtn    *widget.Button
	u          *BaseUI
}

func NewMapArea(u *BaseUI) *MapArea {
	a := &MapArea{
		top:        MakeTopLabel(),
		markerPane: container.NewWithoutLayout(),
		toggles:    container.NewVBox(),
		u:          u,
	}
	a.confirmBtn = widget.NewButton("Confirm position", func() {
		if a.u.MapEngine.ConfirmSelection() {
			a.u.LegendArea.Refresh()
		}
	})
	a.cancelBtn = widget.NewButton("Cancel", func() {
		a.u.MapEngine.CancelSelection()
	})
	a.stopBtn = widget.NewButton("Stop selecting", func() {
		a.u.MapEngine.StopSelecting()
	})
	a.confirmBtn.Hide()
	a.cancelBtn.Hide()
	a.stopBtn.Hide()

	img := canvas.NewImageFromFile(u.MapEngine.ImagePath())
	img.FillMode = canvas.ImageFillOriginal
	tap := newTapPane(func(p fyne.Position) {
		a.u.MapEngine.CapturePoint(mapengine.Point{X: float64(p.X), Y: float64(p.Y)})
	})
	mapStack := container.NewStack(img, a.markerPane, tap)
	a.Content = container.NewBorder(
		container.NewVBox(a.top, container.NewHBox(a.confirmBtn, a.cancelBtn, a.stopBtn), widget.NewSeparator()),
		nil,
		container.NewVScroll(a.toggles),
		nil,
		container.NewScroll(mapStack),
	)
	return a
}

func (a *MapArea) Refresh() {
	e := a.u.MapEngine
	switch e.State() {
	case mapengine.Loading, mapengine.Uninitialized:
		a.top.SetText("Loading map...")
		return
	case mapengine.Error:
		a.top.SetText(fmt.Sprintf("Failed to load map: %s", e.Err()))
		return
	}
	if e.IsSelecting() {
		a.top.SetText("Click the map to pick a position")
		a.confirmBtn.Show()
		a.cancelBtn.Show()
		a.stopBtn.Show()
	} else {
		w, h, _ := e.Dimensions()
		a.top.SetText(fmt.Sprintf("Map %dx%d", w, h))
		a.confirmBtn.Hide()
		a.cancelBtn.Hide()
		a.stopBtn.Hide()
	}
	a.refreshMarkers()
	a.refreshToggles()
}

func (a *MapArea) refreshMarkers() {
	a.markerPane.RemoveAll()
	for _, layer := range a.u.MapEngine.Layers() {
		if !layer.Visible {
			continue
		}
		for _, m := range layer.Markers {
			a.markerPane.Add(makeMarker(layer, m))
		}
	}
	if p, ok := a.u.MapEngine.SelectedPoint(); ok {
		cross := canvas.NewText("✕", color.NRGBA{R: 0xd4, G: 0x2c, B: 0x2c, A: 0xff})
		cross.TextSize = 18
		cross.Move(fyne.NewPos(float32(p.X)-9, float32(p.Y)-9))
		a.markerPane.Add(cross)
	}
	a.markerPane.Refresh()
}

func makeMarker(layer mapengine.Layer, m mapengine.Marker) fyne.CanvasObject {
	var o fyne.CanvasObject
	if mapengine.IconKind(layer.Icon) == mapengine.TextMarker && layer.Icon != "" {
		t := canvas.NewText(layer.Icon, theme.Color(theme.ColorNameForeground))
		t.TextSize = 16
		o = t
	} else {
		c := canvas.NewCircle(color.NRGBA{R: 0xd4, G: 0x2c, B: 0x2c, A: 0xff})
		c.Resize(fyne.NewSize(10, 10))
		o = c
	}
	o.Move(fyne.NewPos(float32(m.Pos.X)-8, float32(m.Pos.Y)-8))
	return o
}

func (a *MapArea) refreshToggles() {
	a.toggles.RemoveAll()
	for _, layer := range a.u.MapEngine.Layers() {
		check := widget.NewCheck(fmt.Sprintf("%s %s", layer.Icon, layer.Name), nil)
		check.SetChecked(layer.Visible)
		sectionID := layer.SectionID
		check.OnChanged = func(bool) {
			a.u.MapEngine.ToggleSection(sectionID)
		}
		a.toggles.Add(check)
	}
	a.toggles.Refresh()
}

// tapPane is a transparent widget that reports tap positions.
type tapPane struct {
	widget.BaseWidget
	onTapped func(fyne.Position)
}

func newTapPane(onTapped func(fyne.Position)) *tapPane {
	p := &tapPane{onTapped: onTapped}
	p.ExtendBaseWidget(p)
	return p
}

func (p *tapPane) Tapped(ev *fyne.PointEvent) {
	p.onTapped(ev.Position)
}

func (p *tapPane) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}
