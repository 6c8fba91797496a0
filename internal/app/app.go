// Package app is the root package of all domain related packages.
//
// All entity types are defined in this package.
package app

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrNotFound is returned when an object was not found in storage.
	ErrNotFound = errors.New("object not found")
	// ErrAborted is returned when an operation was aborted, e.g. by a duplicate call.
	ErrAborted = errors.New("operation aborted")
)

// Titler converts a string into a title for english language.
var Titler = cases.Title(language.English)

// TaskCategory is the category of a task in the game checklist.
type TaskCategory uint

const (
	UndefinedCategory TaskCategory = iota
	MainStory
	StrangerMissions
	Challenges
	Collectibles
	Miscellaneous
)

// Categories returns all defined task categories in display order.
func Categories() []TaskCategory {
	return []TaskCategory{MainStory, StrangerMissions, Challenges, Collectibles, Miscellaneous}
}

func (tc TaskCategory) String() string {
	switch tc {
	case MainStory:
		return "Main Story"
	case StrangerMissions:
		return "Stranger Missions"
	case Challenges:
		return "Challenges"
	case Collectibles:
		return "Collectibles"
	case Miscellaneous:
		return "Miscellaneous"
	}
	return "Undefined"
}

// TaskCategoryFromName returns the category matching a display name
// or UndefinedCategory when the name is not recognized.
func TaskCategoryFromName(name string) TaskCategory {
	for _, tc := range Categories() {
		if strings.EqualFold(tc.String(), name) {
			return tc
		}
	}
	return UndefinedCategory
}

// Task is one entry in the static game checklist.
// The core only ever relies on ID and Category. Everything else is content.
type Task struct {
	ID                  string
	Name                string
	Category            TaskCategory
	Chapter             int
	Description         string
	GoldMedalObjectives []string
}

// IsMainMission reports whether gold medal tracking applies to this task.
func (t Task) IsMainMission() bool {
	return t.Category == MainStory
}

// CustomImage is a user provided background image.
type CustomImage struct {
	URL  string `json:"url"`
	Hint string `json:"hint"`
}

// LegendItem is a single named map marker belonging to one legend section.
// X and Y are percentages of the map width and height.
type LegendItem struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// LegendSection is a named, iconified group of map markers.
// Icon can be an emoji literal, an URL or an embedded data URI.
type LegendSection struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Icon  string       `json:"icon"`
	Items []LegendItem `json:"items"`
}

// CategoryProgress is the completion state for one task category.
type CategoryProgress struct {
	Category  TaskCategory
	Completed int
	Total     int
}

// Percent returns the completion of this category in percent.
func (cp CategoryProgress) Percent() float64 {
	if cp.Total == 0 {
		return 0
	}
	return float64(cp.Completed) / float64(cp.Total) * 100
}

// Suggestion is one suggested next step returned by the advisor.
type Suggestion struct {
	Task          string
	Category      string
	Priority      string
	Difficulty    string
	EstimatedTime string
	Rationale     string
}
