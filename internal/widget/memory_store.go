package widget

import (
	"context"
	"sync"

	"github.com/bbernstein/weatherdash/internal/models"
)

// MemoryStore keeps widgets in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	widgets map[string]models.Widget
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		widgets: make(map[string]models.Widget),
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	widgets := make([]models.Widget, 0, len(s.widgets))
	for _, w := range s.widgets {
		widgets = append(widgets, w)
	}
	return widgets, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.widgets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (s *MemoryStore) FindActiveByLocation(ctx context.Context, loc models.Location) (*models.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.widgets {
		if w.IsActive && w.Location.SamePlace(loc) {
			return &w, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Put(ctx context.Context, w models.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.widgets[w.ID] = w
	return nil
}
