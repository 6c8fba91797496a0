// Package catalog provides the built-in checklist of game tasks.
//
// The catalog is embedded at build time and immutable at runtime.
// Progress against it is tracked separately by the progress service.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
)

//go:embed tasks.yaml
var tasksYAML []byte

type taskRecord struct {
	ID                  string   `yaml:"id"`
	Name                string   `yaml:"name"`
	Category            string   `yaml:"category"`
	Chapter             int      `yaml:"chapter"`
	Description         string   `yaml:"description"`
	GoldMedalObjectives []string `yaml:"goldMedalObjectives"`
}

// Catalog is the immutable set of all known tasks.
type Catalog struct {
	tasks []app.Task
	byID  map[string]app.Task
}

// New parses the embedded task data and returns the catalog.
func New() (*Catalog, error) {
	var records []taskRecord
	if err := yaml.Unmarshal(tasksYAML, &records); err != nil {
		return nil, fmt.Errorf("parse task catalog: %w", err)
	}
	c := &Catalog{
		tasks: make([]app.Task, 0, len(records)),
		byID:  make(map[string]app.Task),
	}
	for _, r := range records {
		category := app.TaskCategoryFromName(r.Category)
		if category == app.UndefinedCategory {
			return nil, fmt.Errorf("task %s: unknown category %q", r.ID, r.Category)
		}
		if _, found := c.byID[r.ID]; found {
			return nil, fmt.Errorf("duplicate task id %s", r.ID)
		}
		t := app.Task{
			ID:                  r.ID,
			Name:                r.Name,
			Category:            category,
			Chapter:             r.Chapter,
			Description:         r.Description,
			GoldMedalObjectives: r.GoldMedalObjectives,
		}
		c.tasks = append(c.tasks, t)
		c.byID[r.ID] = t
	}
	return c, nil
}

// Tasks returns all tasks in catalog order.
func (c *Catalog) Tasks() []app.Task {
	return c.tasks
}

// Task returns the task with the given id.
func (c *Catalog) Task(id string) (app.Task, bool) {
	t, found := c.byID[id]
	return t, found
}

// ByCategory returns all tasks of one category in catalog order.
func (c *Catalog) ByCategory(category app.TaskCategory) []app.Task {
	var result []app.Task
	for _, t := range c.tasks {
		if t.Category == category {
			result = append(result, t)
		}
	}
	return result
}

// MainMissions returns all main story missions, which are the tasks
// eligible for gold medals.
func (c *Catalog) MainMissions() []app.Task {
	return c.ByCategory(app.MainStory)
}

// Size returns the number of tasks in the catalog.
func (c *Catalog) Size() int {
	return len(c.tasks)
}
