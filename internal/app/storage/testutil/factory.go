package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"

	"github.com/icrowley/fake"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/storage"
)

// Factory creates test objects in the test database.
type Factory struct {
	st *storage.Storage
}

func NewFactory(st *storage.Storage) Factory {
	f := Factory{st: st}
	return f
}

var sequence atomic.Int64

func nextID() int64 {
	return sequence.Add(1)
}

// RandomLegendItem returns a new legend item with random values.
// Provided args overwrite the generated defaults.
func (f Factory) RandomLegendItem(args ...app.LegendItem) app.LegendItem {
	var it app.LegendItem
	if len(args) > 0 {
		it = args[0]
	}
	if it.ID == "" {
		it.ID = fmt.Sprintf("item-%d", nextID())
	}
	if it.Name == "" {
		it.Name = fake.ProductName()
	}
	if it.X == 0 {
		it.X = rand.Float64() * 100
	}
	if it.Y == 0 {
		it.Y = rand.Float64() * 100
	}
	return it
}

// RandomLegendSection returns a new legend section with random values.
func (f Factory) RandomLegendSection(args ...app.LegendSection) app.LegendSection {
	var s app.LegendSection
	if len(args) > 0 {
		s = args[0]
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("section-%d", nextID())
	}
	if s.Name == "" {
		s.Name = fake.ProductName()
	}
	if s.Icon == "" {
		s.Icon = "📍"
	}
	if s.Items == nil {
		s.Items = []app.LegendItem{f.RandomLegendItem(), f.RandomLegendItem()}
	}
	return s
}

// RandomCustomImage returns a new custom image with random values.
func (f Factory) RandomCustomImage(args ...app.CustomImage) app.CustomImage {
	var img app.CustomImage
	if len(args) > 0 {
		img = args[0]
	}
	if img.URL == "" {
		img.URL = fmt.Sprintf("https://www.example.com/images/%d.jpg", nextID())
	}
	if img.Hint == "" {
		img.Hint = strings.ToLower(fake.Word())
	}
	return img
}

// CreateDictDocument stores an object as JSON under a dictionary key.
func (f Factory) CreateDictDocument(key string, v any) {
	bb, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	if err := f.st.SetDictEntry(context.Background(), key, bb); err != nil {
		panic(err)
	}
}
