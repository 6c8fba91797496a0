package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	kxwidget "github.com/ErikKalkoken/fyne-kx/widget"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/settings"
)

type settingsWindow struct {
	content   fyne.CanvasObject
	imageList *fyne.Container
	u         *BaseUI
	window    fyne.Window
}

func (u *BaseUI) showSettingsWindow() {
	if u.settingsWindow != nil {
		u.settingsWindow.Show()
		return
	}
	w := u.FyneApp.NewWindow(fmt.Sprintf("Settings - %s", u.AppName()))
	sw := u.newSettingsWindow()
	sw.window = w
	w.SetContent(sw.content)
	w.Resize(fyne.Size{Width: 700, Height: 500})
	w.SetOnClosed(func() {
		u.settingsWindow = nil
	})
	u.settingsWindow = w
	w.Show()
}

func (u *BaseUI) newSettingsWindow() *settingsWindow {
	sw := &settingsWindow{u: u}
	tabs := container.NewAppTabs(
		container.NewTabItem("Appearance", sw.makeAppearancePage()),
		container.NewTabItem("Background", sw.makeBackgroundPage()),
		container.NewTabItem("Map", sw.makeMapPage()),
	)
	tabs.SetTabLocation(container.TabLocationLeading)
	sw.content = tabs
	return sw
}

func (w *settingsWindow) makeAppearancePage() fyne.CanvasObject {
	themeSwitch := kxwidget.NewSwitch(func(on bool) {
		w.u.Settings.SetUseDefaultTheme(on)
	})
	themeSwitch.SetState(w.u.Settings.UseDefaultTheme())

	logoBtn := widget.NewButton("Choose file...", w.pickLogoFile)
	clearLogoBtn := widget.NewButton("Remove", func() {
		if err := w.u.Settings.UpdateCustomLogo(context.Background(), nil); err != nil {
			ShowErrorDialog("Failed to remove logo", err, w.window)
		}
	})

	form := &widget.Form{
		Items: []*widget.FormItem{
			{
				Text:     "Default theme",
				Widget:   themeSwitch,
				HintText: "Use the standard theme instead of the western styling",
			},
			{
				Text:     "Custom logo",
				Widget:   container.NewHBox(logoBtn, clearLogoBtn),
				HintText: "Replace the app logo with your own image (max 2 MB)",
			},
		},
	}
	return form
}

func (w *settingsWindow) pickLogoFile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			ShowErrorDialog("Failed to open file", err, w.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		content, err := io.ReadAll(io.LimitReader(reader, settings.MaxLogoSize+1))
		if err != nil {
			ShowErrorDialog("Failed to read file", err, w.window)
			return
		}
		if err := w.u.Settings.UpdateCustomLogo(context.Background(), content); err != nil {
			ShowErrorDialog("Failed to set logo", err, w.window)
		}
	}, w.window)
	d.Show()
}

func (w *settingsWindow) makeBackgroundPage() fyne.CanvasObject {
	w.imageList = container.NewVBox()
	w.refreshImageList()

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://...")
	hintEntry := widget.NewEntry()
	hintEntry.SetPlaceHolder("Short description")
	addBtn := widget.NewButton("Add", func() {
		if urlEntry.Text == "" || hintEntry.Text == "" {
			return
		}
		if len(w.u.Settings.BackgroundImages()) >= settings.MaxBackgroundImages {
			ShowErrorDialog(
				"Could not add image",
				fmt.Errorf("at most %d background images are supported", settings.MaxBackgroundImages),
				w.window,
			)
			return
		}
		w.u.Settings.AddImage(app.CustomImage{URL: urlEntry.Text, Hint: hintEntry.Text})
		urlEntry.SetText("")
		hintEntry.SetText("")
		w.refreshImageList()
	})

	frequencies := make([]string, 0)
	for _, f := range settings.Frequencies() {
		frequencies = append(frequencies, string(f))
	}
	frequencySelect := widget.NewSelect(frequencies, func(s string) {
		w.u.Settings.SetShuffleFrequency(settings.ShuffleFrequency(s))
	})
	frequencySelect.SetSelected(string(w.u.Settings.ShuffleFrequency()))

	blurSlider := kxwidget.NewSlider(0, 16)
	blurSlider.SetValue(float64(w.u.Settings.BackgroundBlur()))
	blurSlider.OnChangeEnded = func(v float64) {
		w.u.Settings.SetBackgroundBlur(int(v))
	}

	shuffleBtn := widget.NewButton("Shuffle now", func() {
		w.u.Settings.ForceShuffle()
		w.u.Background.Shuffle(time.Now())
	})

	form := &widget.Form{
		Items: []*widget.FormItem{
			{
				Text:     "Shuffle frequency",
				Widget:   frequencySelect,
				HintText: "How often a new background image is picked",
			},
			{
				Text:     "Blur",
				Widget:   blurSlider,
				HintText: "Blur strength of the background image",
			},
			{
				Text:   "Shuffle",
				Widget: shuffleBtn,
			},
		},
	}
	addBox := container.NewVBox(
		widget.NewLabel("Add image"),
		urlEntry,
		hintEntry,
		addBtn,
	)
	return container.NewVBox(form, widget.NewSeparator(), addBox, w.imageList)
}

func (w *settingsWindow) refreshImageList() {
	w.imageList.RemoveAll()
	for _, img := range w.u.Settings.BackgroundImages() {
		label := widget.NewLabel(fmt.Sprintf("%s (%s)", img.Hint, img.URL))
		label.Truncation = fyne.TextTruncateEllipsis
		url := img.URL
		removeBtn := widget.NewButton("Remove", func() {
			w.u.Settings.RemoveImage(url)
			w.refreshImageList()
		})
		w.imageList.Add(container.NewBorder(nil, nil, nil, removeBtn, label))
	}
	w.imageList.Refresh()
}

func (w *settingsWindow) makeMapPage() fyne.CanvasObject {
	minZoomSlider := kxwidget.NewSlider(-5, 0)
	minZoomSlider.SetValue(float64(w.u.Settings.MinZoom()))
	minZoomSlider.OnChangeEnded = func(v float64) {
		w.u.Settings.SetMinZoom(int(v))
	}
	form := &widget.Form{
		Items: []*widget.FormItem{
			{
				Text:     "Minimum zoom",
				Widget:   minZoomSlider,
				HintText: "How far the map can be zoomed out",
			},
		},
	}
	return form
}
