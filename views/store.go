package views

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists views. Every lookup is scoped to a project.
type Store interface {
	// Add inserts a new view and sets its timestamps.
	Add(ctx context.Context, view *View) error

	// Get returns a view of a project.
	Get(ctx context.Context, projectID string, id uuid.UUID) (*View, error)

	// ListByProject returns the views of a project, most recently updated first.
	ListByProject(ctx context.Context, projectID string) ([]*View, error)

	// Update replaces a view and refreshes UpdatedAt. CreatedAt is preserved.
	Update(ctx context.Context, view *View) error

	// Delete removes a view.
	Delete(ctx context.Context, projectID string, id uuid.UUID) error
}

// InMemoryStore implements Store with a map guarded by a RWMutex.
type InMemoryStore struct {
	views map[uuid.UUID]*View
	mu    sync.RWMutex
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		views: make(map[uuid.UUID]*View),
	}
}

func (s *InMemoryStore) Add(_ context.Context, view *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.views[view.ID]; exists {
		return fmt.Errorf("view %s: %w", view.ID, ErrViewExists)
	}

	now := time.Now().UTC()
	view.CreatedAt = now
	view.UpdatedAt = now
	stored := *view
	s.views[view.ID] = &stored
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, projectID string, id uuid.UUID) (*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, exists := s.views[id]
	if !exists || view.ProjectID != projectID {
		return nil, notFound(projectID, id)
	}
	out := *view
	return &out, nil
}

func (s *InMemoryStore) ListByProject(_ context.Context, projectID string) ([]*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*View, 0)
	for _, view := range s.views {
		if view.ProjectID == projectID {
			out := *view
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

func (s *InMemoryStore) Update(_ context.Context, view *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.views[view.ID]
	if !exists || existing.ProjectID != view.ProjectID {
		return notFound(view.ProjectID, view.ID)
	}

	view.CreatedAt = existing.CreatedAt
	view.UpdatedAt = time.Now().UTC()
	stored := *view
	s.views[view.ID] = &stored
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, projectID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, exists := s.views[id]
	if !exists || view.ProjectID != projectID {
		return notFound(projectID, id)
	}
	delete(s.views, id)
	return nil
}
