package settings_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/settings"
	"github.com/ErikKalkoken/trailbuddy/internal/app/storage/testutil"
)

func TestSettingsDefaults(t *testing.T) {
	db, st, _ := testutil.New()
	defer db.Close()
	ctx := context.Background()
	t.Run("fresh session loads all defaults", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := settings.New(st, t.TempDir())
		// when
		s.Load(ctx)
		// then
		assert.Equal(t, settings.Ready, s.State())
		assert.False(t, s.UseDefaultTheme())
		assert.Equal(t, settings.DefaultBackgroundBlur, s.BackgroundBlur())
		assert.Equal(t, settings.DefaultMinZoom, s.MinZoom())
		assert.Equal(t, settings.Pageload, s.ShuffleFrequency())
		assert.Empty(t, s.BackgroundImages())
		sections := s.LegendSections()
		require.Len(t, sections, 1)
		assert.Equal(t, "Legendary Animals", sections[0].Name)
		assert.NotEmpty(t, sections[0].Items)
		_, ok := s.LastShuffleTime()
		assert.False(t, ok)
	})
	t.Run("values are provisional before load", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := settings.New(st, t.TempDir())
		// then
		assert.Equal(t, settings.Uninitialized, s.State())
		assert.False(t, s.IsLoaded())
	})
}

func TestSettingsLoadValidation(t *testing.T) {
	db, st, factory := testutil.New()
	defer db.Close()
	ctx := context.Background()
	newLoaded := func(t *testing.T) *settings.Service {
		s := settings.New(st, t.TempDir())
		s.Load(ctx)
		return s
	}
	t.Run("valid document overwrites defaults", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		factory.CreateDictDocument("settings", map[string]any{
			"backgroundImages": []app.CustomImage{{URL: "https://www.example.com/1.jpg", Hint: "sunset"}},
			"shuffleFrequency": "hourly",
			"backgroundBlur":   9,
			"useDefaultTheme":  true,
			"minZoom":          -4,
			"legendSections": []app.LegendSection{
				{ID: "s1", Name: "Shacks", Icon: "🏚️", Items: []app.LegendItem{}},
			},
		})
		// when
		s := newLoaded(t)
		// then
		assert.Equal(t, settings.ShuffleFrequency("hourly"), s.ShuffleFrequency())
		assert.Equal(t, 9, s.BackgroundBlur())
		assert.True(t, s.UseDefaultTheme())
		assert.Equal(t, -4, s.MinZoom())
		assert.Len(t, s.BackgroundImages(), 1)
		require.Len(t, s.LegendSections(), 1)
		assert.Equal(t, "Shacks", s.LegendSections()[0].Name)
	})
	t.Run("unknown shuffle frequency resets to pageload only", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		factory.CreateDictDocument("settings", map[string]any{
			"shuffleFrequency": "bogus",
			"backgroundBlur":   7,
		})
		// when
		s := newLoaded(t)
		// then
		assert.Equal(t, settings.Pageload, s.ShuffleFrequency())
		assert.Equal(t, 7, s.BackgroundBlur())
	})
	t.Run("non-number blur resets to default", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		factory.CreateDictDocument("settings", map[string]any{"backgroundBlur": "strong"})
		// when
		s := newLoaded(t)
		// then
		assert.Equal(t, settings.DefaultBackgroundBlur, s.BackgroundBlur())
	})
	t.Run("non-bool theme flag resets to default", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		factory.CreateDictDocument("settings", map[string]any{"useDefaultTheme": "yes"})
		// when
		s := newLoaded(t)
		// then
		assert.False(t, s.UseDefaultTheme())
	})
	t.Run("image entry missing hint resets whole collection only", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		factory.CreateDictDocument("settings", map[string]any{
			"backgroundImages": []map[string]string{
				{"url": "https://www.example.com/1.jpg", "hint": "sunset"},
				{"url": "https://www.example.com/2.jpg"},
			},
			"minZoom": -5,
		})
		// when
		s := newLoaded(t)
		// then
		assert.Empty(t, s.BackgroundImages())
		assert.Equal(t, -5, s.MinZoom())
	})
	t.Run("empty legend resets to built-in default", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		factory.CreateDictDocument("settings", map[string]any{"legendSections": []any{}})
		// when
		s := newLoaded(t)
		// then
		sections := s.LegendSections()
		require.Len(t, sections, 1)
		assert.Equal(t, "legendary-animals", sections[0].ID)
		assert.NotEmpty(t, sections[0].Items)
	})
	t.Run("malformed document falls back to all defaults", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		if err := st.SetDictEntry(ctx, "settings", []byte("{not json")); err != nil {
			t.Fatal(err)
		}
		// when
		s := newLoaded(t)
		// then
		assert.Equal(t, settings.Ready, s.State())
		assert.Equal(t, settings.DefaultBackgroundBlur, s.BackgroundBlur())
	})
	t.Run("can load last shuffle time", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		factory.CreateDictDocument("last-shuffle", int64(1700000000000))
		// when
		s := newLoaded(t)
		// then
		v, ok := s.LastShuffleTime()
		assert.True(t, ok)
		assert.Equal(t, int64(1700000000000), v)
	})
}

func TestSettingsImages(t *testing.T) {
	db, st, factory := testutil.New()
	defer db.Close()
	ctx := context.Background()
	newLoaded := func(t *testing.T) *settings.Service {
		s := settings.New(st, t.TempDir())
		s.Load(ctx)
		return s
	}
	t.Run("can add and remove an image", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		img := factory.RandomCustomImage()
		// when
		s.AddImage(img)
		// then
		assert.Equal(t, []app.CustomImage{img}, s.BackgroundImages())
		// when
		s.RemoveImage(img.URL)
		// then
		assert.Empty(t, s.BackgroundImages())
	})
	t.Run("duplicate URL is a no-op", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		img := factory.RandomCustomImage()
		s.AddImage(img)
		// when
		s.AddImage(app.CustomImage{URL: img.URL, Hint: "other"})
		// then
		assert.Equal(t, []app.CustomImage{img}, s.BackgroundImages())
	})
	t.Run("never exceeds the cap", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		for range settings.MaxBackgroundImages {
			s.AddImage(factory.RandomCustomImage())
		}
		// when
		s.AddImage(factory.RandomCustomImage())
		// then
		assert.Len(t, s.BackgroundImages(), settings.MaxBackgroundImages)
	})
	t.Run("removing an unknown URL is a no-op", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		img := factory.RandomCustomImage()
		s.AddImage(img)
		// when
		s.RemoveImage("https://www.example.com/unknown.jpg")
		// then
		assert.Equal(t, []app.CustomImage{img}, s.BackgroundImages())
	})
}

func TestSettingsPersistence(t *testing.T) {
	db, st, factory := testutil.New()
	defer db.Close()
	ctx := context.Background()
	t.Run("mutations persist the whole aggregate", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := settings.New(st, t.TempDir())
		s.Load(ctx)
		// when
		s.SetBackgroundBlur(12)
		// then
		bb, ok, err := st.GetDictEntry(ctx, "settings")
		require.NoError(t, err)
		require.True(t, ok)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(bb, &doc))
		assert.EqualValues(t, 12, doc["backgroundBlur"])
		assert.Equal(t, "pageload", doc["shuffleFrequency"])
	})
	t.Run("mutations before load complete are not persisted", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		factory.CreateDictDocument("settings", map[string]any{"backgroundBlur": 9})
		s := settings.New(st, t.TempDir())
		// when
		s.SetBackgroundBlur(1)
		// then: the durable record was not clobbered
		bb, ok, err := st.GetDictEntry(ctx, "settings")
		require.NoError(t, err)
		require.True(t, ok)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(bb, &doc))
		assert.EqualValues(t, 9, doc["backgroundBlur"])
	})
	t.Run("a loaded session round-trips through storage", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s1 := settings.New(st, t.TempDir())
		s1.Load(ctx)
		img := factory.RandomCustomImage()
		s1.AddImage(img)
		s1.SetShuffleFrequency(settings.Daily)
		s1.SetMinZoom(-3)
		// when
		s2 := settings.New(st, t.TempDir())
		s2.Load(ctx)
		// then
		assert.Equal(t, []app.CustomImage{img}, s2.BackgroundImages())
		assert.Equal(t, settings.Daily, s2.ShuffleFrequency())
		assert.Equal(t, -3, s2.MinZoom())
	})
	t.Run("force shuffle persists the sentinel under its own key", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := settings.New(st, t.TempDir())
		s.Load(ctx)
		// when
		s.ForceShuffle()
		// then
		v, ok := s.LastShuffleTime()
		assert.True(t, ok)
		assert.Zero(t, v)
		bb, ok2, err := st.GetDictEntry(ctx, "last-shuffle")
		require.NoError(t, err)
		require.True(t, ok2)
		assert.Equal(t, "0", string(bb))
	})
}

func TestShuffleFrequency(t *testing.T) {
	t.Run("all defined frequencies are valid", func(t *testing.T) {
		for _, f := range settings.Frequencies() {
			assert.True(t, f.IsValid(), f)
		}
	})
	t.Run("unknown value is invalid", func(t *testing.T) {
		assert.False(t, settings.ShuffleFrequency("bogus").IsValid())
	})
	t.Run("pageload has no interval", func(t *testing.T) {
		assert.Zero(t, settings.Pageload.Interval())
	})
	t.Run("intervals are strictly increasing", func(t *testing.T) {
		ff := settings.Frequencies()
		for i := 2; i < len(ff); i++ {
			assert.Greater(t, ff[i].Interval(), ff[i-1].Interval())
		}
	})
}
