package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	kxdialog "github.com/ErikKalkoken/fyne-kx/dialog"
)

// ShowFormDialog shows a read-only form dialog with a key handler.
func ShowFormDialog(title string, items []*widget.FormItem, parent fyne.Window) {
	d := dialog.NewCustom(title, "Close", widget.NewForm(items...), parent)
	kxdialog.AddDialogKeyHandler(d, parent)
	d.Show()
}

// ShowErrorDialog shows an error to the user.
func ShowErrorDialog(message string, err error, parent fyne.Window) {
	d := dialog.NewError(fmt.Errorf("%s: %w", message, err), parent)
	kxdialog.AddDialogKeyHandler(d, parent)
	d.Show()
}

func (u *BaseUI) showAboutDialog() {
	info := u.FyneApp.Metadata()
	version := info.Version
	if version == "" {
		version = "dev"
	}
	c := widget.NewLabel(fmt.Sprintf(
		"%s %s\n\nA companion app for tracking your journey to 100%%.",
		u.AppName(), version,
	))
	d := dialog.NewCustom("About", "Close", c, u.Window)
	kxdialog.AddDialogKeyHandler(d, u.Window)
	d.Show()
}
