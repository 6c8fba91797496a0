package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
)

// DashboardArea is the UI area that shows the checklist and overall progress.
type DashboardArea struct {
	Content fyne.CanvasObject

	tasks    []app.Task
	bars     map[app.TaskCategory]*widget.ProgressBar
	top      *widget.Label
	taskList *widget.List
	u        *BaseUI
}

func NewDashboardArea(u *BaseUI) *DashboardArea {
	a := &DashboardArea{
		tasks: u.Catalog.Tasks(),
		bars:  make(map[app.TaskCategory]*widget.ProgressBar),
		top:   MakeTopLabel(),
		u:     u,
	}
	a.taskList = a.makeTaskList()
	overview := container.NewVBox()
	for _, category := range app.Categories() {
		bar := widget.NewProgressBar()
		bar.TextFormatter = func() string { return "" }
		a.bars[category] = bar
		overview.Add(container.NewBorder(
			nil, nil, widget.NewLabel(category.String()), nil, bar,
		))
	}
	a.Content = container.NewBorder(
		container.NewVBox(a.top, overview, widget.NewSeparator()),
		nil, nil, nil,
		a.taskList,
	)
	return a
}

func (a *DashboardArea) makeTaskList() *widget.List {
	l := widget.NewList(
		func() int {
			return len(a.tasks)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewCheck("", nil),
				widget.NewLabel("placeholder"),
				layout.NewSpacer(),
				widget.NewCheck("Gold", nil),
				widget.NewLabel("category"),
			)
		},
		func(id widget.ListItemID, co fyne.CanvasObject) {
			if id >= len(a.tasks) {
				return
			}
			task := a.tasks[id]
			hbox := co.(*fyne.Container).Objects
			done := hbox[0].(*widget.Check)
			done.OnChanged = nil
			done.SetChecked(a.u.Progress.IsTaskCompleted(task.ID))
			done.OnChanged = func(bool) {
				a.u.Progress.ToggleTask(task.ID)
			}
			hbox[1].(*widget.Label).SetText(task.Name)
			gold := hbox[3].(*widget.Check)
			gold.OnChanged = nil
			if task.IsMainMission() {
				gold.Show()
				gold.SetChecked(a.u.Progress.HasGoldMedal(task.ID))
				gold.OnChanged = func(bool) {
					a.u.Progress.ToggleGoldMedal(task.ID)
				}
			} else {
				gold.Hide()
			}
			hbox[4].(*widget.Label).SetText(task.Category.String())
		})
	l.OnSelected = func(id widget.ListItemID) {
		defer l.UnselectAll()
		if id >= len(a.tasks) {
			return
		}
		a.showTaskDialog(a.tasks[id])
	}
	return l
}

func (a *DashboardArea) showTaskDialog(task app.Task) {
	items := []*widget.FormItem{
		{Text: "Category", Widget: widget.NewLabel(task.Category.String())},
	}
	if task.Chapter != 0 {
		items = append(items, &widget.FormItem{
			Text: "Chapter", Widget: widget.NewLabel(fmt.Sprint(task.Chapter)),
		})
	}
	if task.Description != "" {
		d := widget.NewLabel(task.Description)
		d.Wrapping = fyne.TextWrapWord
		items = append(items, &widget.FormItem{Text: "Description", Widget: d})
	}
	for _, o := range task.GoldMedalObjectives {
		items = append(items, &widget.FormItem{
			Text: "Gold", Widget: widget.NewLabel(o),
		})
	}
	if task.IsMainMission() {
		items = append(items, &widget.FormItem{
			Widget: widget.NewButton("Mission help", func() {
				a.u.AdvisorArea.ShowMissionHelp(task)
			}),
		})
	}
	ShowFormDialog(task.Name, items, a.u.Window)
}

func (a *DashboardArea) Refresh() {
	completed := 0
	for _, task := range a.tasks {
		if a.u.Progress.IsTaskCompleted(task.ID) {
			completed++
		}
	}
	a.top.SetText(fmt.Sprintf("%d of %d tasks completed", completed, len(a.tasks)))
	for _, cp := range a.u.Progress.CategoryProgress(a.tasks) {
		bar, found := a.bars[cp.Category]
		if !found {
			continue
		}
		bar.SetValue(cp.Percent() / 100)
	}
	a.taskList.Refresh()
}
