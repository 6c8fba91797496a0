package ui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
)

const suggestionCount = 3

// AdvisorArea is the UI area that shows suggested next steps.
// Advisor failures are shown inline and never block the rest of the app.
type AdvisorArea struct {
	Content fyne.CanvasObject

	errorLabel *widget.Label
	results    *fyne.Container
	suggestBtn *widget.Button
	u          *BaseUI
}

func NewAdvisorArea(u *BaseUI) *AdvisorArea {
	a := &AdvisorArea{
		errorLabel: widget.NewLabel(""),
		results:    container.NewVBox(),
		u:          u,
	}
	a.errorLabel.Importance = widget.DangerImportance
	a.errorLabel.Wrapping = fyne.TextWrapWord
	a.errorLabel.Hide()
	a.suggestBtn = widget.NewButton("Suggest next steps", a.suggest)
	a.Content = container.NewBorder(
		container.NewVBox(a.suggestBtn, a.errorLabel, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(a.results),
	)
	return a
}

func (a *AdvisorArea) suggest() {
	a.suggestBtn.Disable()
	a.errorLabel.Hide()
	completed := slices.Collect(a.u.Progress.CompletedTasks().All())
	goldMedals := slices.Collect(a.u.Progress.GoldMedalMissions().All())
	go func() {
		suggestions, err := a.u.Advisor.SuggestNextSteps(
			context.Background(), completed, goldMedals, suggestionCount,
		)
		fyne.Do(func() {
			defer a.suggestBtn.Enable()
			if err != nil {
				slog.Error("Failed to fetch suggestions", "error", err)
				a.errorLabel.SetText(fmt.Sprintf("Could not fetch suggestions: %s", err))
				a.errorLabel.Show()
				return
			}
			a.showSuggestions(suggestions)
		})
	}()
}

func (a *AdvisorArea) showSuggestions(suggestions []app.Suggestion) {
	a.results.RemoveAll()
	if len(suggestions) == 0 {
		a.results.Add(widget.NewLabel("No suggestions at the moment."))
	}
	for _, s := range suggestions {
		title := widget.NewLabel(fmt.Sprintf("%s (%s)", s.Task, s.Category))
		title.TextStyle.Bold = true
		meta := widget.NewLabel(fmt.Sprintf(
			"Priority: %s / Difficulty: %s / Est. time: %s",
			s.Priority, s.Difficulty, s.EstimatedTime,
		))
		rationale := widget.NewLabel(s.Rationale)
		rationale.Wrapping = fyne.TextWrapWord
		a.results.Add(container.NewVBox(title, meta, rationale, widget.NewSeparator()))
	}
	a.results.Refresh()
}

// ShowMissionHelp fetches and shows help for one mission in a dialog.
func (a *AdvisorArea) ShowMissionHelp(task app.Task) {
	go func() {
		help, err := a.u.Advisor.MissionHelp(context.Background(), task)
		fyne.Do(func() {
			if err != nil {
				slog.Error("Failed to fetch mission help", "error", err)
				ShowErrorDialog("Could not fetch mission help", err, a.u.Window)
				return
			}
			l := widget.NewLabel(help)
			l.Wrapping = fyne.TextWrapWord
			ShowFormDialog(task.Name, []*widget.FormItem{{Text: "", Widget: l}}, a.u.Window)
		})
	}()
}
