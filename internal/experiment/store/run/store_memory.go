package run

import (
	"context"
	"sync"

	"statlab/internal/experiment/models"
	"statlab/pkg/domain"
)

// InMemoryRunStore keeps runs in memory. Default store for single-process
// deployments and tests.
type InMemoryRunStore struct {
	mu    sync.RWMutex
	runs  map[domain.RunID]*models.Run
	order []domain.RunID
}

func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{runs: make(map[domain.RunID]*models.Run)}
}

func (s *InMemoryRunStore) Save(_ context.Context, run *models.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

func (s *InMemoryRunStore) FindByID(_ context.Context, id domain.RunID) (*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if run, exists := s.runs[id]; exists {
		return run, nil
	}
	return nil, nil
}

func (s *InMemoryRunStore) List(_ context.Context) ([]*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*models.Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		runs = append(runs, s.runs[s.order[i]])
	}
	return runs, nil
}

func (s *InMemoryRunStore) DeleteAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := len(s.runs)
	s.runs = make(map[domain.RunID]*models.Run)
	s.order = nil
	return deleted, nil
}

func (s *InMemoryRunStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs), nil
}
