// Package ui contains the user interface.
package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ErikKalkoken/trailbuddy/internal/app/advisor"
	"github.com/ErikKalkoken/trailbuddy/internal/app/background"
	"github.com/ErikKalkoken/trailbuddy/internal/app/catalog"
	"github.com/ErikKalkoken/trailbuddy/internal/app/mapengine"
	"github.com/ErikKalkoken/trailbuddy/internal/app/progress"
	"github.com/ErikKalkoken/trailbuddy/internal/app/settings"
)

// BaseUI is the root UI object, which holds the services and all UI areas.
type BaseUI struct {
	Advisor        *advisor.Advisor
	Background     *background.Service
	Catalog        *catalog.Catalog
	MapEngine      *mapengine.Engine
	Progress       *progress.Service
	SelectionInbox *mapengine.Inbox
	Settings       *settings.Service

	FyneApp fyne.App
	Window  fyne.Window

	AdvisorArea   *AdvisorArea
	DashboardArea *DashboardArea
	LegendArea    *LegendArea
	MapArea       *MapArea

	settingsWindow fyne.Window
}

// NewBaseUI constructs the UI. Services must be set before calling Init.
func NewBaseUI(fyneApp fyne.App) *BaseUI {
	u := &BaseUI{
		FyneApp: fyneApp,
	}
	u.Window = fyneApp.NewWindow(u.AppName())
	return u
}

func (u *BaseUI) AppName() string {
	name := u.FyneApp.Metadata().Name
	if name == "" {
		return "Trail Buddy"
	}
	return name
}

// Init builds the areas and wires them to service changes.
// It must be called after all services are set and loaded.
func (u *BaseUI) Init() {
	u.AdvisorArea = NewAdvisorArea(u)
	u.DashboardArea = NewDashboardArea(u)
	u.LegendArea = NewLegendArea(u)
	u.MapArea = NewMapArea(u)

	tabs := container.NewAppTabs(
		container.NewTabItem("Checklist", u.DashboardArea.Content),
		container.NewTabItem("Map", u.MapArea.Content),
		container.NewTabItem("Legend", u.LegendArea.Content),
		container.NewTabItem("Advisor", u.AdvisorArea.Content),
	)
	u.Window.SetContent(tabs)
	u.Window.SetMainMenu(u.makeMenu())
	u.Window.Resize(fyne.Size{Width: 1000, Height: 700})

	u.Progress.Changed.AddListener(func(_ context.Context, _ string) {
		fyne.Do(u.DashboardArea.Refresh)
	})
	u.Settings.Changed.AddListener(func(_ context.Context, aspect string) {
		if aspect == "legendSections" || aspect == "loaded" {
			fyne.Do(u.LegendArea.Refresh)
		}
	})
	u.MapEngine.Updated.AddListener(func(_ context.Context, _ string) {
		fyne.Do(u.MapArea.Refresh)
	})

	u.DashboardArea.Refresh()
	u.LegendArea.Refresh()
	u.MapArea.Refresh()
}

func (u *BaseUI) makeMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Settings...", u.showSettingsWindow),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About...", func() {
			u.showAboutDialog()
		}),
	)
	return fyne.NewMainMenu(fileMenu, helpMenu)
}

// ShowAndRun shows the main window and runs the app loop.
func (u *BaseUI) ShowAndRun() {
	u.Window.ShowAndRun()
}

// MakeTopLabel returns a label for the top of an area.
func MakeTopLabel() *widget.Label {
	l := widget.NewLabel("")
	l.TextStyle.Bold = true
	return l
}
