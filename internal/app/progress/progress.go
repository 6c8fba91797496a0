// Package progress tracks the completion state of the game checklist.
//
// Completed tasks and gold medal missions are two independent membership sets
// with toggle semantics, persisted as a whole on every mutation.
package progress

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/ErikKalkoken/go-set"
	"github.com/maniartech/signals"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/storage"
)

// Storage keys.
const (
	keyCompleted  = "progress-completed"
	keyGoldMedals = "progress-gold-medals"
)

// State is the load state of the progress service.
type State uint

const (
	Uninitialized State = iota
	Loading
	Ready
	// LoadFailed means storage could not be read and the service started empty.
	LoadFailed
)

// Service maintains the progress aggregate and its persistence.
// All methods are safe for concurrent use.
type Service struct {
	// Changed is emitted after every mutation.
	Changed signals.Signal[string]

	st *storage.Storage

	mu         sync.Mutex
	state      State
	completed  set.Set[string]
	goldMedals set.Set[string]
}

// New returns a new progress service.
func New(st *storage.Storage) *Service {
	s := &Service{
		Changed:    signals.New[string](),
		st:         st,
		state:      Uninitialized,
		completed:  set.Of[string](),
		goldMedals: set.Of[string](),
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
func (s *Service) IsLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoaded()
}

func (s *Service) isLoaded() bool {
	return s.state == Ready || s.state == LoadFailed
}

// Load hydrates the service from storage. It is called once at session start.
// Absent or malformed records yield empty sets. Load never returns an error.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	if s.state != Uninitialized {
		s.mu.Unlock()
		return
	}
	s.state = Loading
	s.mu.Unlock()

	final := Ready
	completed, ok := s.loadSet(ctx, keyCompleted)
	if !ok {
		final = LoadFailed
	}
	goldMedals, ok := s.loadSet(ctx, keyGoldMedals)
	if !ok {
		final = LoadFailed
	}

	s.mu.Lock()
	s.completed = completed
	s.goldMedals = goldMedals
	s.state = final
	s.mu.Unlock()
	s.Changed.Emit(ctx, "loaded")
}

// loadSet reads one persisted membership set.
// Malformed records are treated as absent, a failing store reports ok=false.
func (s *Service) loadSet(ctx context.Context, key string) (set.Set[string], bool) {
	bb, found, err := s.st.GetDictEntry(ctx, key)
	if err != nil {
		slog.Error("progress: failed to read from storage, starting empty", "key", key, "error", err)
		return set.Of[string](), false
	}
	if !found {
		return set.Of[string](), true
	}
	var ids []string
	if err := json.Unmarshal(bb, &ids); err != nil {
		slog.Warn("progress: malformed record treated as absent", "key", key, "error", err)
		return set.Of[string](), true
	}
	return set.Of(ids...), true
}

// CompletedTasks returns the set of completed task ids.
func (s *Service) CompletedTasks() set.Set[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return set.Collect(s.completed.All())
}

// GoldMedalMissions returns the set of missions with a gold medal.
func (s *Service) GoldMedalMissions() set.Set[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return set.Collect(s.goldMedals.All())
}

// IsTaskCompleted reports whether a task is completed.
func (s *Service) IsTaskCompleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed.Contains(id)
}

// HasGoldMedal reports whether a mission has a gold medal.
func (s *Service) HasGoldMedal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goldMedals.Contains(id)
}

// ToggleTask adds a task id to the completed set when absent
// and removes it when present.
func (s *Service) ToggleTask(id string) {
	s.mu.Lock()
	toggle(s.completed, id)
	s.persist()
	s.mu.Unlock()
	s.Changed.Emit(context.Background(), "completedTasks")
}

// ToggleGoldMedal adds a mission id to the gold medal set when absent
// and removes it when present.
func (s *Service) ToggleGoldMedal(id string) {
	s.mu.Lock()
	toggle(s.goldMedals, id)
	s.persist()
	s.mu.Unlock()
	s.Changed.Emit(context.Background(), "goldMedalMissions")
}

func toggle(x set.Set[string], id string) {
	if x.Contains(id) {
		x.Delete(id)
	} else {
		x.Add(id)
	}
}

// persist writes both sets to storage as JSON arrays. Order is not significant.
// Must be called with the lock held. Failures are logged and swallowed,
// in-memory state stays authoritative for the session.
func (s *Service) persist() {
	if !s.isLoaded() {
		return
	}
	ctx := context.Background()
	for key, x := range map[string]set.Set[string]{
		keyCompleted:  s.completed,
		keyGoldMedals: s.goldMedals,
	} {
		bb, err := json.Marshal(slices.Collect(x.All()))
		if err != nil {
			slog.Error("progress: failed to serialize", "key", key, "error", err)
			continue
		}
		if err := s.st.SetDictEntry(ctx, key, bb); err != nil {
			slog.Error("progress: failed to persist", "key", key, "error", err)
		}
	}
}

// CategoryProgress returns the completion state per task category
// for the given catalog in catalog order.
func (s *Service) CategoryProgress(tasks []app.Task) []app.CategoryProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	byCategory := make(map[app.TaskCategory]*app.CategoryProgress)
	result := make([]app.CategoryProgress, len(app.Categories()))
	for i, c := range app.Categories() {
		result[i] = app.CategoryProgress{Category: c}
		byCategory[c] = &result[i]
	}
	for _, t := range tasks {
		cp, found := byCategory[t.Category]
		if !found {
			continue
		}
		cp.Total++
		if s.completed.Contains(t.ID) {
			cp.Completed++
		}
	}
	return result
}
