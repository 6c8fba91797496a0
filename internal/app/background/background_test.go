package background_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/background"
	"github.com/ErikKalkoken/trailbuddy/internal/app/settings"
	"github.com/ErikKalkoken/trailbuddy/internal/app/storage/testutil"
)

func TestShouldShuffle(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		last int64
		f    settings.ShuffleFrequency
		want bool
	}{
		{"never shuffled forces a shuffle", 0, settings.Daily, true},
		{"zero sentinel wins over pageload", 0, settings.Pageload, true},
		{"pageload does not reshuffle mid session", now.UnixMilli(), settings.Pageload, false},
		{"interval not yet elapsed", now.Add(-10 * time.Second).UnixMilli(), settings.Every30Seconds, false},
		{"interval elapsed", now.Add(-31 * time.Second).UnixMilli(), settings.Every30Seconds, true},
		{"long interval spans sessions", now.Add(-25 * time.Hour).UnixMilli(), settings.Daily, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, background.ShouldShuffle(tc.last, tc.f, now))
		})
	}
}

func TestShuffle(t *testing.T) {
	db, st, _ := testutil.New()
	defer db.Close()
	ctx := context.Background()
	newLoaded := func(t *testing.T) *settings.Service {
		testutil.TruncateTables(db)
		sv := settings.New(st, t.TempDir())
		sv.Load(ctx)
		return sv
	}
	t.Run("empty collection serves a placeholder", func(t *testing.T) {
		// given
		sv := newLoaded(t)
		s := background.New(sv, &http.Client{})
		// when
		s.Shuffle(time.Now())
		// then
		got, ok := s.Current()
		require.True(t, ok)
		assert.NotEmpty(t, got.URL)
	})
	t.Run("picks from the collection and records the time", func(t *testing.T) {
		// given
		sv := newLoaded(t)
		sv.AddImage(app.CustomImage{URL: "https://img.example.com/a.png", Hint: "sunset"})
		s := background.New(sv, &http.Client{})
		// when
		s.Shuffle(time.Now())
		// then
		got, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, "https://img.example.com/a.png", got.URL)
		last, ok := sv.LastShuffleTime()
		require.True(t, ok)
		assert.Positive(t, last)
	})
	t.Run("avoids an immediate repeat with multiple images", func(t *testing.T) {
		// given
		sv := newLoaded(t)
		sv.AddImage(app.CustomImage{URL: "https://img.example.com/a.png", Hint: "a"})
		sv.AddImage(app.CustomImage{URL: "https://img.example.com/b.png", Hint: "b"})
		s := background.New(sv, &http.Client{})
		s.Shuffle(time.Now())
		for range 20 {
			before, _ := s.Current()
			// when
			s.Shuffle(time.Now())
			// then
			after, _ := s.Current()
			assert.NotEqual(t, before.URL, after.URL)
		}
	})
	t.Run("start shuffles a fresh session", func(t *testing.T) {
		// given
		sv := newLoaded(t)
		sv.AddImage(app.CustomImage{URL: "https://img.example.com/a.png", Hint: "a"})
		s := background.New(sv, &http.Client{})
		defer s.Close()
		// when
		s.Start()
		// then
		_, ok := s.Current()
		assert.True(t, ok)
	})
	t.Run("pageload shuffles at session start despite a recent shuffle", func(t *testing.T) {
		// given
		sv := newLoaded(t)
		sv.AddImage(app.CustomImage{URL: "https://img.example.com/a.png", Hint: "a"})
		sv.SetShuffleFrequency(settings.Pageload)
		sv.SetLastShuffleTime(time.Now().UnixMilli())
		s := background.New(sv, &http.Client{})
		defer s.Close()
		// when
		s.Start()
		// then
		_, ok := s.Current()
		assert.True(t, ok)
	})
	t.Run("force shuffle arms the zero sentinel", func(t *testing.T) {
		// given
		sv := newLoaded(t)
		sv.SetLastShuffleTime(time.Now().UnixMilli())
		// when
		sv.ForceShuffle()
		// then
		last, ok := sv.LastShuffleTime()
		require.True(t, ok)
		assert.True(t, background.ShouldShuffle(last, sv.ShuffleFrequency(), time.Now()))
	})
}

func TestFetchImage(t *testing.T) {
	db, st, _ := testutil.New()
	defer db.Close()
	ctx := context.Background()
	testutil.TruncateTables(db)
	sv := settings.New(st, t.TempDir())
	sv.Load(ctx)
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()
	s := background.New(sv, client)
	pngBytes := func(t *testing.T, w, h int) []byte {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
		return buf.Bytes()
	}
	t.Run("fetches and decodes an image", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder(
			"GET",
			"https://img.example.com/a.png",
			httpmock.NewBytesResponder(200, pngBytes(t, 40, 30)),
		)
		// when
		img, err := s.Image(ctx, "https://img.example.com/a.png")
		// then
		require.NoError(t, err)
		assert.Equal(t, 40, img.Bounds().Dx())
		assert.Equal(t, 30, img.Bounds().Dy())
	})
	t.Run("blur keeps the image dimensions", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder(
			"GET",
			"https://img.example.com/a.png",
			httpmock.NewBytesResponder(200, pngBytes(t, 40, 30)),
		)
		sv.SetBackgroundBlur(8)
		// when
		img, err := s.BlurredImage(ctx, "https://img.example.com/a.png")
		// then
		require.NoError(t, err)
		assert.Equal(t, 40, img.Bounds().Dx())
		assert.Equal(t, 30, img.Bounds().Dy())
	})
	t.Run("http error is returned", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder(
			"GET",
			"https://img.example.com/missing.png",
			httpmock.NewStringResponder(404, "not found"),
		)
		// when
		_, err := s.Image(ctx, "https://img.example.com/missing.png")
		// then
		assert.Error(t, err)
	})
	t.Run("garbage payload is an error", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder(
			"GET",
			"https://img.example.com/bad.png",
			httpmock.NewStringResponder(200, "not an image"),
		)
		// when
		_, err := s.Image(ctx, "https://img.example.com/bad.png")
		// then
		assert.Error(t, err)
	})
}
