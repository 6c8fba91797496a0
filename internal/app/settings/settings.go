// Package settings maintains the user configuration of the app.
//
// The service holds a single authoritative settings aggregate in memory.
// It is hydrated once from storage at session start, mutated in place through
// the service API and re-serialized to storage after every mutation.
package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/maniartech/signals"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/storage"
)

// Storage keys.
const (
	keySettings    = "settings"
	keyLastShuffle = "last-shuffle"
	keyCustomLogo  = "custom-logo"
)

// Defaults.
const (
	DefaultBackgroundBlur = 4
	DefaultMinZoom        = -2
	MaxBackgroundImages   = 10
)

// State is the load state of the settings service.
type State uint

const (
	Uninitialized State = iota
	Loading
	Ready
	// LoadFailed means storage could not be read and the service is serving defaults.
	LoadFailed
)

// values is the serialized shape of the settings aggregate.
type values struct {
	BackgroundImages []app.CustomImage   `json:"backgroundImages"`
	ShuffleFrequency ShuffleFrequency    `json:"shuffleFrequency"`
	BackgroundBlur   int                 `json:"backgroundBlur"`
	UseDefaultTheme  bool                `json:"useDefaultTheme"`
	MinZoom          int                 `json:"minZoom"`
	LegendSections   []app.LegendSection `json:"legendSections"`
}

func defaults() values {
	return values{
		BackgroundImages: []app.CustomImage{},
		ShuffleFrequency: Pageload,
		BackgroundBlur:   DefaultBackgroundBlur,
		UseDefaultTheme:  false,
		MinZoom:          DefaultMinZoom,
		LegendSections:   DefaultLegendSections(),
	}
}

// Service maintains the settings aggregate and its persistence.
//
// The service is constructed once at application start and handed to consumers
// explicitly. All methods are safe for concurrent use.
type Service struct {
	// Changed is emitted after every mutation with the name of the changed aspect.
	Changed signals.Signal[string]

	st      *storage.Storage
	logoDir string

	mu          sync.Mutex
	state       State
	v           values
	lastShuffle int64 // epoch ms, 0 is the force-shuffle sentinel
	hasShuffle  bool
	lastID      int64
	logo        *LogoHandle

	logoMu sync.Mutex // serializes logo updates with each other
}

// New returns a new settings service.
// logoDir is the directory for transient logo files derived from the stored blob.
func New(st *storage.Storage, logoDir string) *Service {
	s := &Service{
		Changed: signals.New[string](),
		st:      st,
		logoDir: logoDir,
		state:   Uninitialized,
		v:       defaults(),
	}
	return s
}

// State returns the current load state of the service.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsLoaded reports whether the load phase has concluded.
// Values read before that are provisional defaults.
func (s *Service) IsLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoaded()
}

func (s *Service) isLoaded() bool {
	return s.state == Ready || s.state == LoadFailed
}

// Load hydrates the service from storage. It is called once at session start.
//
// Malformed fields in the stored document are reset to their defaults
// field by field. A failing store falls back to all defaults.
// Load never returns an error to the caller.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	if s.state != Uninitialized {
		s.mu.Unlock()
		return
	}
	s.state = Loading
	s.mu.Unlock()

	final := Ready
	v := defaults()
	bb, ok, err := s.st.GetDictEntry(ctx, keySettings)
	if err != nil {
		slog.Error("settings: failed to read from storage, using defaults", "error", err)
		final = LoadFailed
	} else if ok {
		v = validateDocument(bb)
	}

	logo := s.loadLogoHandle(ctx)

	var lastShuffle int64
	var hasShuffle bool
	bb, ok, err = s.st.GetDictEntry(ctx, keyLastShuffle)
	if err != nil {
		slog.Error("settings: failed to read last shuffle time", "error", err)
	} else if ok {
		if err := json.Unmarshal(bb, &lastShuffle); err != nil {
			slog.Warn("settings: malformed last shuffle time ignored", "error", err)
		} else {
			hasShuffle = true
		}
	}

	s.mu.Lock()
	s.v = v
	s.logo = logo
	s.lastShuffle = lastShuffle
	s.hasShuffle = hasShuffle
	s.state = final
	s.mu.Unlock()
	s.Changed.Emit(ctx, "loaded")
}

// validateDocument parses a stored settings document and applies the
// validation and migration rules field by field. Recognized and valid fields
// overwrite the defaults, everything else keeps its default.
func validateDocument(bb []byte) values {
	v := defaults()
	var doc struct {
		BackgroundImages json.RawMessage `json:"backgroundImages"`
		ShuffleFrequency json.RawMessage `json:"shuffleFrequency"`
		BackgroundBlur   json.RawMessage `json:"backgroundBlur"`
		UseDefaultTheme  json.RawMessage `json:"useDefaultTheme"`
		MinZoom          json.RawMessage `json:"minZoom"`
		LegendSections   json.RawMessage `json:"legendSections"`
	}
	if err := json.Unmarshal(bb, &doc); err != nil {
		slog.Warn("settings: malformed document, using defaults", "error", err)
		return v
	}
	if len(doc.ShuffleFrequency) != 0 {
		var f ShuffleFrequency
		if err := json.Unmarshal(doc.ShuffleFrequency, &f); err == nil && f.IsValid() {
			v.ShuffleFrequency = f
		}
	}
	if len(doc.BackgroundBlur) != 0 {
		var n int
		if err := json.Unmarshal(doc.BackgroundBlur, &n); err == nil {
			v.BackgroundBlur = n
		}
	}
	if len(doc.UseDefaultTheme) != 0 {
		var b bool
		if err := json.Unmarshal(doc.UseDefaultTheme, &b); err == nil {
			v.UseDefaultTheme = b
		}
	}
	if len(doc.MinZoom) != 0 {
		var n int
		if err := json.Unmarshal(doc.MinZoom, &n); err == nil {
			v.MinZoom = n
		}
	}
	if len(doc.BackgroundImages) != 0 {
		// The whole collection fails closed when any element is malformed,
		// since partial corruption is indistinguishable from a bad client write.
		var images []app.CustomImage
		if err := json.Unmarshal(doc.BackgroundImages, &images); err == nil {
			valid := true
			for _, img := range images {
				if img.URL == "" || img.Hint == "" {
					valid = false
					break
				}
			}
			if valid {
				v.BackgroundImages = images
			}
		}
	}
	if len(doc.LegendSections) != 0 {
		var sections []app.LegendSection
		if err := json.Unmarshal(doc.LegendSections, &sections); err == nil && len(sections) > 0 {
			v.LegendSections = sections
		}
	}
	return v
}

// persist writes the settings aggregate to storage.
// Must be called with the lock held. Failures are logged and swallowed,
// in-memory state stays authoritative for the session.
func (s *Service) persist() {
	if !s.isLoaded() {
		return // never clobber durable state with defaults
	}
	bb, err := json.Marshal(s.v)
	if err != nil {
		slog.Error("settings: failed to serialize", "error", err)
		return
	}
	if err := s.st.SetDictEntry(context.Background(), keySettings, bb); err != nil {
		slog.Error("settings: failed to persist", "error", err)
	}
}

func (s *Service) emit(aspect string) {
	s.Changed.Emit(context.Background(), aspect)
}

// BackgroundImages returns the configured background images.
func (s *Service) BackgroundImages() []app.CustomImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.v.BackgroundImages)
}

// AddImage appends a background image.
// It is a no-op when the cap is reached or the URL is already present.
func (s *Service) AddImage(image app.CustomImage) {
	s.mu.Lock()
	if len(s.v.BackgroundImages) >= MaxBackgroundImages {
		s.mu.Unlock()
		return
	}
	if slices.ContainsFunc(s.v.BackgroundImages, func(x app.CustomImage) bool {
		return x.URL == image.URL
	}) {
		s.mu.Unlock()
		return
	}
	s.v.BackgroundImages = append(slices.Clone(s.v.BackgroundImages), image)
	s.persist()
	s.mu.Unlock()
	s.emit("backgroundImages")
}

// RemoveImage removes the background image with the given URL if present.
func (s *Service) RemoveImage(url string) {
	s.mu.Lock()
	images := slices.DeleteFunc(slices.Clone(s.v.BackgroundImages), func(x app.CustomImage) bool {
		return x.URL == url
	})
	s.v.BackgroundImages = images
	s.persist()
	s.mu.Unlock()
	s.emit("backgroundImages")
}

// ShuffleFrequency returns the configured shuffle frequency.
func (s *Service) ShuffleFrequency() ShuffleFrequency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.ShuffleFrequency
}

// SetShuffleFrequency sets the shuffle frequency.
// Callers must provide a valid enum value.
func (s *Service) SetShuffleFrequency(f ShuffleFrequency) {
	s.mu.Lock()
	s.v.ShuffleFrequency = f
	s.persist()
	s.mu.Unlock()
	s.emit("shuffleFrequency")
}

// BackgroundBlur returns the configured background blur strength.
func (s *Service) BackgroundBlur() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.BackgroundBlur
}

// SetBackgroundBlur sets the background blur strength.
func (s *Service) SetBackgroundBlur(n int) {
	s.mu.Lock()
	s.v.BackgroundBlur = n
	s.persist()
	s.mu.Unlock()
	s.emit("backgroundBlur")
}

// UseDefaultTheme reports whether the plain default theme is used
// instead of background images.
func (s *Service) UseDefaultTheme() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.UseDefaultTheme
}

// SetUseDefaultTheme sets whether the plain default theme is used.
func (s *Service) SetUseDefaultTheme(b bool) {
	s.mu.Lock()
	s.v.UseDefaultTheme = b
	s.persist()
	s.mu.Unlock()
	s.emit("useDefaultTheme")
}

// MinZoom returns the configured minimum map zoom level.
func (s *Service) MinZoom() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.MinZoom
}

// SetMinZoom sets the minimum map zoom level.
func (s *Service) SetMinZoom(n int) {
	s.mu.Lock()
	s.v.MinZoom = n
	s.persist()
	s.mu.Unlock()
	s.emit("minZoom")
}

// LastShuffleTime returns the time of the last background shuffle in epoch
// milliseconds. ok is false when no shuffle has been recorded yet.
// A value of 0 is the sentinel which forces an immediate reshuffle.
func (s *Service) LastShuffleTime() (t int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastShuffle, s.hasShuffle
}

// SetLastShuffleTime records the time of the last background shuffle.
// It is persisted under its own key, independent of the main aggregate.
func (s *Service) SetLastShuffleTime(t int64) {
	s.mu.Lock()
	s.lastShuffle = t
	s.hasShuffle = true
	loaded := s.isLoaded()
	s.mu.Unlock()
	if loaded {
		bb, err := json.Marshal(t)
		if err != nil {
			slog.Error("settings: failed to serialize shuffle time", "error", err)
			return
		}
		if err := s.st.SetDictEntry(context.Background(), keyLastShuffle, bb); err != nil {
			slog.Error("settings: failed to persist shuffle time", "error", err)
		}
	}
	s.emit("lastShuffle")
}

// ForceShuffle sets the shuffle timestamp to the sentinel which makes the
// background image consumer pick a new image unconditionally.
func (s *Service) ForceShuffle() {
	s.SetLastShuffleTime(0)
}

// nextID returns a fresh id value. IDs are derived from the creation timestamp
// and kept strictly monotonic so they are never reused within a session.
// Must be called with the lock held.
func (s *Service) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
