package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/catalog"
)

func TestCatalog(t *testing.T) {
	c, err := catalog.New()
	require.NoError(t, err)
	t.Run("embedded data parses and is non trivial", func(t *testing.T) {
		assert.Greater(t, c.Size(), 40)
	})
	t.Run("every task has an id, a name and a known category", func(t *testing.T) {
		for _, task := range c.Tasks() {
			assert.NotEmpty(t, task.ID)
			assert.NotEmpty(t, task.Name)
			assert.NotEqual(t, app.UndefinedCategory, task.Category)
		}
	})
	t.Run("task ids are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, task := range c.Tasks() {
			assert.False(t, seen[task.ID], task.ID)
			seen[task.ID] = true
		}
	})
	t.Run("can look up a task by id", func(t *testing.T) {
		task, found := c.Task("main-americans-at-rest")
		require.True(t, found)
		assert.Equal(t, "Americans at Rest", task.Name)
		assert.Equal(t, app.MainStory, task.Category)
		assert.Equal(t, 2, task.Chapter)
	})
	t.Run("unknown id is reported", func(t *testing.T) {
		_, found := c.Task("no-such-task")
		assert.False(t, found)
	})
	t.Run("by category filters and keeps catalog order", func(t *testing.T) {
		challenges := c.ByCategory(app.Challenges)
		require.NotEmpty(t, challenges)
		for _, task := range challenges {
			assert.Equal(t, app.Challenges, task.Category)
		}
		assert.Equal(t, "challenge-bandit", challenges[0].ID)
	})
	t.Run("main missions all carry gold medal objectives", func(t *testing.T) {
		missions := c.MainMissions()
		require.NotEmpty(t, missions)
		for _, m := range missions {
			assert.True(t, m.IsMainMission())
			assert.NotEmpty(t, m.GoldMedalObjectives, m.ID)
		}
	})
	t.Run("every category has at least one task", func(t *testing.T) {
		for _, category := range app.Categories() {
			assert.NotEmpty(t, c.ByCategory(category), category.String())
		}
	})
}
