package mapengine

import (
	"context"
	"sync"
)

// SelectionTarget identifies what a confirmed map point is for,
// either a new item in SectionID or an update of an existing ItemID.
type SelectionTarget struct {
	SectionID string
	ItemID    string
}

// Selection is a confirmed map point in percentage space
// together with the target it was picked for.
type Selection struct {
	Target SelectionTarget
	X      float64
	Y      float64
}

// Inbox hands a confirmed selection from the map view to the legend editor.
// A pending selection is consumed exactly once, a new one replaces it.
type Inbox struct {
	mu sync.Mutex
	v  *Selection
}

// NewInbox returns an empty selection inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Put stores s as the pending selection, replacing any previous one.
func (b *Inbox) Put(s Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.v = &s
}

// Take returns the pending selection and clears it.
func (b *Inbox) Take() (Selection, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.v == nil {
		return Selection{}, false
	}
	s := *b.v
	b.v = nil
	return s, true
}

// IsSelecting reports whether the engine is in point selection mode.
func (e *Engine) IsSelecting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selecting
}

// StartSelecting enters point selection mode for target.
// Any previously captured point is discarded.
func (e *Engine) StartSelecting(target SelectionTarget) {
	e.mu.Lock()
	e.selecting = true
	e.target = target
	e.selected = nil
	e.mu.Unlock()
	e.Updated.Emit(context.Background(), "selection")
}

// CapturePoint records a clicked pixel point while selecting.
// The point is clamped to the image bounds. Clicks outside selection mode
// or before the engine is Ready are ignored.
func (e *Engine) CapturePoint(p Point) {
	e.mu.Lock()
	if !e.selecting || e.state != Ready {
		e.mu.Unlock()
		return
	}
	p.X = clamp(p.X, 0, float64(e.width))
	p.Y = clamp(p.Y, 0, float64(e.height))
	e.selected = &p
	e.mu.Unlock()
	e.Updated.Emit(context.Background(), "selection")
}

// SelectedPoint returns the currently captured point in pixel space.
func (e *Engine) SelectedPoint() (Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == nil {
		return Point{}, false
	}
	return *e.selected, true
}

// ConfirmSelection converts the captured point to percentage space,
// delivers it to the inbox and leaves selection mode.
// Without a captured point it reports false and stays in selection mode.
func (e *Engine) ConfirmSelection() bool {
	e.mu.Lock()
	if !e.selecting || e.selected == nil || e.width == 0 || e.height == 0 {
		e.mu.Unlock()
		return false
	}
	s := Selection{
		Target: e.target,
		X:      e.selected.X / float64(e.width) * 100,
		Y:      e.selected.Y / float64(e.height) * 100,
	}
	e.selecting = false
	e.selected = nil
	e.mu.Unlock()
	e.inbox.Put(s)
	e.Updated.Emit(context.Background(), "selection")
	return true
}

// CancelSelection discards the captured point but stays in selection mode,
// keeping the target so the user can pick another point.
// The inbox is left untouched.
func (e *Engine) CancelSelection() {
	e.mu.Lock()
	e.selected = nil
	e.mu.Unlock()
	e.Updated.Emit(context.Background(), "selection")
}

// StopSelecting leaves selection mode without delivering anything.
// The inbox is left untouched.
func (e *Engine) StopSelecting() {
	e.mu.Lock()
	e.selecting = false
	e.selected = nil
	e.mu.Unlock()
	e.Updated.Emit(context.Background(), "selection")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
