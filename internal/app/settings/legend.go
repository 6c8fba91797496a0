package settings

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
)

// legendaryAnimals is the built-in seed for the default legend section.
// Coordinates are percentage based: y is % from top, x is % from left.
var legendaryAnimals = []app.LegendItem{
	{Name: "Legendary Bharati Grizzly Bear", X: 82, Y: 31},
	{Name: "Legendary White Bison", X: 20, Y: 15},
	{Name: "Legendary Moose", X: 89, Y: 11},
	{Name: "Legendary Beaver", X: 28.5, Y: 44},
	{Name: "Legendary Buck", X: 42.5, Y: 22},
	{Name: "Legendary Bighorn Ram", X: 17.5, Y: 41},
	{Name: "Legendary Wolf", X: 44, Y: 20.5},
	{Name: "Legendary Pronghorn", X: 29.5, Y: 77.5},
	{Name: "Legendary Cougar", X: 10, Y: 61},
	{Name: "Legendary Boar", X: 74, Y: 55},
	{Name: "Legendary Coyote", X: 47, Y: 64},
	{Name: "Legendary Fox", X: 62.5, Y: 50},
	{Name: "Legendary Alligator", X: 73, Y: 79},
	{Name: "Legendary Panther \"Giaguaro\"", X: 79, Y: 84.5},
	{Name: "Legendary Elk", X: 75, Y: 28.5},
	{Name: "Legendary Tatanka Bison", X: 22.5, Y: 82.5},
}

// DefaultLegendSections returns a fresh copy of the built-in legend.
// It is used whenever the durable record is missing, empty or malformed.
func DefaultLegendSections() []app.LegendSection {
	items := make([]app.LegendItem, 0, len(legendaryAnimals))
	for _, a := range legendaryAnimals {
		a.ID = strings.ReplaceAll(strings.ToLower(a.Name), " ", "-")
		items = append(items, a)
	}
	return []app.LegendSection{{
		ID:    "legendary-animals",
		Name:  "Legendary Animals",
		Icon:  "🐾",
		Items: items,
	}}
}

// LegendSections returns the current legend sections in display order.
func (s *Service) LegendSections() []app.LegendSection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.v.LegendSections)
}

// AddLegendSection creates a new empty legend section with a fresh unique id
// and appends it. It returns the id of the new section.
func (s *Service) AddLegendSection(name, icon string) string {
	s.mu.Lock()
	id := fmt.Sprintf("section-%d", s.nextID())
	section := app.LegendSection{
		ID:    id,
		Name:  name,
		Icon:  icon,
		Items: []app.LegendItem{},
	}
	s.v.LegendSections = append(slices.Clone(s.v.LegendSections), section)
	s.persist()
	s.mu.Unlock()
	s.emit("legendSections")
	return id
}

// UpdateLegendSection replaces name and icon of a legend section.
// It is a no-op when the id is not found.
func (s *Service) UpdateLegendSection(sectionID, name, icon string) {
	s.mu.Lock()
	sections := slices.Clone(s.v.LegendSections)
	for i, section := range sections {
		if section.ID == sectionID {
			section.Name = name
			section.Icon = icon
			sections[i] = section
		}
	}
	s.v.LegendSections = sections
	s.persist()
	s.mu.Unlock()
	s.emit("legendSections")
}

// DeleteLegendSection removes a legend section and all its items.
func (s *Service) DeleteLegendSection(sectionID string) {
	s.mu.Lock()
	s.v.LegendSections = slices.DeleteFunc(slices.Clone(s.v.LegendSections), func(x app.LegendSection) bool {
		return x.ID == sectionID
	})
	s.persist()
	s.mu.Unlock()
	s.emit("legendSections")
}

// AddLegendItem appends an item with a fresh unique id to a legend section.
// It is a no-op when the section is not found. It returns the id of the new item.
func (s *Service) AddLegendItem(sectionID string, item app.LegendItem) string {
	s.mu.Lock()
	var id string
	sections := slices.Clone(s.v.LegendSections)
	for i, section := range sections {
		if section.ID != sectionID {
			continue
		}
		id = fmt.Sprintf("item-%d", s.nextID())
		item.ID = id
		section.Items = append(slices.Clone(section.Items), item)
		sections[i] = section
	}
	s.v.LegendSections = sections
	s.persist()
	s.mu.Unlock()
	s.emit("legendSections")
	return id
}

// UpdateLegendItem replaces a legend item wholesale, keeping its id.
// It is a no-op when section or item are not found.
func (s *Service) UpdateLegendItem(sectionID, itemID string, item app.LegendItem) {
	s.mu.Lock()
	sections := slices.Clone(s.v.LegendSections)
	for i, section := range sections {
		if section.ID != sectionID {
			continue
		}
		items := slices.Clone(section.Items)
		for j, x := range items {
			if x.ID == itemID {
				item.ID = itemID
				items[j] = item
			}
		}
		section.Items = items
		sections[i] = section
	}
	s.v.LegendSections = sections
	s.persist()
	s.mu.Unlock()
	s.emit("legendSections")
}

// DeleteLegendItem removes a legend item from a section.
func (s *Service) DeleteLegendItem(sectionID, itemID string) {
	s.mu.Lock()
	sections := slices.Clone(s.v.LegendSections)
	for i, section := range sections {
		if section.ID != sectionID {
			continue
		}
		section.Items = slices.DeleteFunc(slices.Clone(section.Items), func(x app.LegendItem) bool {
			return x.ID == itemID
		})
		sections[i] = section
	}
	s.v.LegendSections = sections
	s.persist()
	s.mu.Unlock()
	s.emit("legendSections")
}
