// Package mapengine maintains the coordinate space of the interactive map.
//
// Marker positions are stored as percentages of the map image's width and
// height, which keeps them valid across image swaps. The engine converts
// between percentage space and the pixel space of the currently loaded image,
// builds per-section marker layers from the legend and drives the interactive
// point selection workflow.
package mapengine

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/ErikKalkoken/go-set"
	"github.com/maniartech/signals"

	"github.com/ErikKalkoken/trailbuddy/internal/app/settings"
)

// State is the lifecycle state of a map engine instance.
type State uint

const (
	Uninitialized State = iota
	Loading
	Ready
	// Error is terminal for this instance. There is no automatic retry.
	Error
)

// Point is a position in the pixel space of the map image.
type Point struct {
	X float64
	Y float64
}

// PercentPoint is a position in percentage space,
// x is % of the image width from the left, y is % of the height from the top.
type PercentPoint struct {
	X float64
	Y float64
}

// Engine maintains the map coordinate space for one map view instance.
// All methods are safe for concurrent use.
type Engine struct {
	// Updated is emitted whenever layers need to be rebuilt,
	// i.e. after legend changes, dimension changes and visibility toggles.
	Updated signals.Signal[string]

	sv          *settings.Service
	imagePath   string
	inbox       *Inbox
	listenerKey string

	mu        sync.Mutex
	state     State
	err       error
	width     int
	height    int
	hidden    set.Set[string]
	selecting bool
	target    SelectionTarget
	selected  *Point
	closed    bool
}

// New returns a new map engine for the image at imagePath.
// Selections confirmed by the user are delivered through inbox.
func New(sv *settings.Service, imagePath string, inbox *Inbox) *Engine {
	e := &Engine{
		Updated:   signals.New[string](),
		sv:        sv,
		imagePath: imagePath,
		inbox:     inbox,
		state:     Uninitialized,
		hidden:    set.Of[string](),
	}
	e.listenerKey = fmt.Sprintf("mapengine-%p", e)
	sv.Changed.AddListener(e.onSettingsChanged, e.listenerKey)
	return e
}

func (e *Engine) onSettingsChanged(ctx context.Context, aspect string) {
	if aspect != "legendSections" && aspect != "minZoom" && aspect != "loaded" {
		return
	}
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return
	}
	e.Updated.Emit(ctx, aspect)
}

// Start begins loading the map image asynchronously.
// The engine becomes Ready when the image dimensions have been resolved.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.state != Uninitialized {
		e.mu.Unlock()
		return
	}
	e.state = Loading
	e.mu.Unlock()
	go func() {
		w, h, err := decodeDimensions(e.imagePath)
		e.mu.Lock()
		if e.closed {
			// completion after teardown is a no-op
			e.mu.Unlock()
			return
		}
		if err != nil {
			slog.Error("mapengine: failed to load map image", "path", e.imagePath, "error", err)
			e.state = Error
			e.err = err
		} else {
			e.state = Ready
			e.width = w
			e.height = h
		}
		e.mu.Unlock()
		e.Updated.Emit(context.Background(), "dimensions")
	}()
}

func decodeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open map image: %w", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode map image %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// ImagePath returns the path of the map image file.
func (e *Engine) ImagePath() string {
	return e.imagePath
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the load error when the engine is in the Error state.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Dimensions returns the native pixel bounds of the coordinate space.
// ok is false until the engine is Ready.
func (e *Engine) Dimensions() (width, height int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Ready {
		return 0, 0, false
	}
	return e.width, e.height, true
}

// MinZoom returns the current minimum zoom of the space.
// It follows the settings live and requires no reinitialization.
func (e *Engine) MinZoom() int {
	return e.sv.MinZoom()
}

// ToPercent converts a pixel point into percentage space
// using the current image dimensions.
func (e *Engine) ToPercent(p Point) (PercentPoint, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Ready || e.width == 0 || e.height == 0 {
		return PercentPoint{}, false
	}
	return PercentPoint{
		X: p.X / float64(e.width) * 100,
		Y: p.Y / float64(e.height) * 100,
	}, true
}

// ToPixel converts a percentage point into pixel space
// using the current image dimensions.
func (e *Engine) ToPixel(pp PercentPoint) (Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Ready {
		return Point{}, false
	}
	return Point{
		X: float64(e.width) * pp.X / 100,
		Y: float64(e.height) * pp.Y / 100,
	}, true
}

// Close tears the instance down and detaches it from the settings service.
// An image load completing afterwards is ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.sv.Changed.RemoveListener(e.listenerKey)
}
