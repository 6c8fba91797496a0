// Package background rotates the dashboard background image.
//
// The current image is picked at random from the configured collection.
// Rotation respects the configured shuffle frequency and the persisted
// last shuffle time, so intervals survive restarts.
package background

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/blur"
	"github.com/maniartech/signals"
	"golang.org/x/sync/singleflight"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/settings"
)

// tickInterval is how often the rotation loop re-evaluates.
// Kept short so frequency changes take effect quickly.
const tickInterval = time.Second

// placeholderImages is shown while the user has not configured any images.
var placeholderImages = []app.CustomImage{
	{URL: "https://images.unsplash.com/photo-1533106418989-88406c7cc8ca", Hint: "western landscape"},
	{URL: "https://images.unsplash.com/photo-1508610048659-a06b669e3321", Hint: "mountain sunset"},
	{URL: "https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05", Hint: "foggy hills"},
}

// Service picks and serves the current background image.
// All methods are safe for concurrent use.
type Service struct {
	// Changed is emitted after the current image changed.
	Changed signals.Signal[string]

	sv         *settings.Service
	httpClient *http.Client
	sfg        singleflight.Group

	mu         sync.Mutex
	current    app.CustomImage
	hasCurrent bool
	done       chan struct{}
	closeOnce  sync.Once
}

// New returns a new background service. The given HTTP client is expected
// to cache image downloads.
func New(sv *settings.Service, httpClient *http.Client) *Service {
	return &Service{
		Changed:    signals.New[string](),
		sv:         sv,
		httpClient: httpClient,
		done:       make(chan struct{}),
	}
}

// Current returns the currently shown background image.
// ok is false while the collection is empty and a placeholder should be shown.
func (s *Service) Current() (app.CustomImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasCurrent
}

// Start performs the initial session shuffle and launches the rotation loop.
// The loop runs until Close is called.
func (s *Service) Start() {
	last, ok := s.sv.LastShuffleTime()
	if !ok || last == 0 || s.sv.ShuffleFrequency() == settings.Pageload {
		s.Shuffle(time.Now())
	} else {
		s.shuffleIfDue(time.Now())
	}
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case now := <-ticker.C:
				s.shuffleIfDue(now)
			}
		}
	}()
}

// Close stops the rotation loop.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Service) shuffleIfDue(now time.Time) {
	last, ok := s.sv.LastShuffleTime()
	if !ok {
		last = 0
	}
	if !ShouldShuffle(last, s.sv.ShuffleFrequency(), now) {
		// collection may have changed under a stale current image
		s.ensureCurrentValid()
		return
	}
	s.Shuffle(now)
}

// ShouldShuffle reports whether a new image is due at now.
// lastShuffle is a Unix millisecond timestamp, zero means never shuffled
// and always forces a shuffle.
func ShouldShuffle(lastShuffle int64, f settings.ShuffleFrequency, now time.Time) bool {
	if lastShuffle == 0 {
		return true
	}
	interval := f.Interval()
	if interval == 0 {
		// pageload shuffles at session start only, see Start
		return false
	}
	return now.Sub(time.UnixMilli(lastShuffle)) >= interval
}

// Shuffle picks a new random image from the collection, avoiding an
// immediate repeat when more than one image is configured,
// and records the shuffle time. An empty collection serves the built-in
// placeholder images instead.
func (s *Service) Shuffle(now time.Time) {
	images := s.sv.BackgroundImages()
	if len(images) == 0 {
		images = placeholderImages
	}
	s.mu.Lock()
	next := images[rand.IntN(len(images))]
	if len(images) > 1 {
		for s.hasCurrent && next.URL == s.current.URL {
			next = images[rand.IntN(len(images))]
		}
	}
	s.current = next
	s.hasCurrent = true
	s.mu.Unlock()
	s.sv.SetLastShuffleTime(now.UnixMilli())
	s.Changed.Emit(context.Background(), "current")
}

// ensureCurrentValid replaces the current image when it was
// removed from the collection.
func (s *Service) ensureCurrentValid() {
	images := s.sv.BackgroundImages()
	if len(images) == 0 {
		images = placeholderImages
	}
	s.mu.Lock()
	if !s.hasCurrent {
		s.mu.Unlock()
		s.Shuffle(time.Now())
		return
	}
	for _, img := range images {
		if img.URL == s.current.URL {
			s.mu.Unlock()
			return
		}
	}
	s.mu.Unlock()
	s.Shuffle(time.Now())
}

// Image fetches and decodes the image at url.
// Concurrent fetches of the same url are coalesced.
func (s *Service) Image(ctx context.Context, url string) (image.Image, error) {
	x, err, _ := s.sfg.Do(url, func() (any, error) {
		return s.fetch(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return x.(image.Image), nil
}

// BlurredImage fetches the image at url and applies the configured
// background blur. A blur of zero returns the image unchanged.
func (s *Service) BlurredImage(ctx context.Context, url string) (image.Image, error) {
	img, err := s.Image(ctx, url)
	if err != nil {
		return nil, err
	}
	radius := s.sv.BackgroundBlur()
	if radius <= 0 {
		return img, nil
	}
	return blur.Gaussian(img, float64(radius)), nil
}

func (s *Service) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch background image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch background image: %s: %s", url, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		slog.Warn("background: failed to decode image", "url", url, "error", err)
		return nil, fmt.Errorf("decode background image: %w", err)
	}
	return img, nil
}
