package memory

import (
	"context"
	"sync"

	id "statlab/pkg/domain"
	audit "statlab/pkg/platform/audit"
)

// InMemoryStore keeps audit events in insertion order. Suitable for
// single-process deployments and tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	byRun  map[id.RunID][]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byRun: make(map[id.RunID][]int)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if !event.RunID.IsNil() {
		s.byRun[event.RunID] = append(s.byRun[event.RunID], len(s.events)-1)
	}
	return nil
}

func (s *InMemoryStore) ListByRun(_ context.Context, runID id.RunID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes := s.byRun[runID]
	events := make([]audit.Event, 0, len(indexes))
	for _, i := range indexes {
		events = append(events, s.events[i])
	}
	return events, nil
}

// ListRecent returns the most recent N events in insertion order.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.events) - limit
	if start < 0 {
		start = 0
	}
	return append([]audit.Event{}, s.events[start:]...), nil
}

// Clear drops all events. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.byRun = make(map[id.RunID][]int)
}
