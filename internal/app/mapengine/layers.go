package mapengine

import (
	"context"
	"net/url"
	"strings"

	"github.com/ErikKalkoken/go-set"
)

// MarkerKind describes how a section icon is rendered.
type MarkerKind uint

const (
	// TextMarker renders the icon string directly, e.g. an emoji.
	TextMarker MarkerKind = iota
	// ImageMarker renders the icon from an image source.
	ImageMarker
)

// IconKind resolves the rendering kind of a section icon.
// http, https and data URIs render as images, anything else as text.
func IconKind(icon string) MarkerKind {
	if strings.HasPrefix(icon, "data:") {
		return ImageMarker
	}
	u, err := url.Parse(icon)
	if err != nil {
		return TextMarker
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return ImageMarker
	}
	return TextMarker
}

// Marker is one legend item placed in pixel space.
type Marker struct {
	ItemID string
	Name   string
	Pos    Point
}

// Layer is the set of markers of one legend section.
type Layer struct {
	SectionID string
	Name      string
	Icon      string
	Kind      MarkerKind
	Visible   bool
	Markers   []Marker
}

// Layers builds one marker layer per legend section from the current legend
// and the current image dimensions. Positions are always computed fresh,
// they are never cached across dimension or legend changes.
// Layers returns nil until the engine is Ready.
func (e *Engine) Layers() []Layer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Ready {
		return nil
	}
	sections := e.sv.LegendSections()
	layers := make([]Layer, 0, len(sections))
	for _, section := range sections {
		l := Layer{
			SectionID: section.ID,
			Name:      section.Name,
			Icon:      section.Icon,
			Kind:      IconKind(section.Icon),
			Visible:   !e.hidden.Contains(section.ID),
			Markers:   make([]Marker, 0, len(section.Items)),
		}
		for _, it := range section.Items {
			l.Markers = append(l.Markers, Marker{
				ItemID: it.ID,
				Name:   it.Name,
				Pos: Point{
					X: float64(e.width) * it.X / 100,
					Y: float64(e.height) * it.Y / 100,
				},
			})
		}
		layers = append(layers, l)
	}
	return layers
}

// IsSectionVisible reports whether a section's layer is shown.
// Sections are visible by default. Visibility is local to this view instance.
func (e *Engine) IsSectionVisible(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.hidden.Contains(id)
}

// ToggleSection flips the visibility of a section's layer.
func (e *Engine) ToggleSection(id string) {
	e.mu.Lock()
	if e.hidden.Contains(id) {
		e.hidden.Delete(id)
	} else {
		e.hidden.Add(id)
	}
	e.mu.Unlock()
	e.Updated.Emit(context.Background(), "visibility")
}

// HiddenSections returns the ids of all currently hidden sections.
func (e *Engine) HiddenSections() set.Set[string] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return set.Collect(e.hidden.All())
}
