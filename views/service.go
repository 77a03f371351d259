package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lunary-ai/checklogic/checks"
	"github.com/lunary-ai/checklogic/internal/logger"
)

// Input is the data needed to create a view.
type Input struct {
	Name    string         `json:"name"`
	Icon    string         `json:"icon,omitempty"`
	Type    Type           `json:"type"`
	Data    string         `json:"data"`
	Columns map[string]any `json:"columns,omitempty"`
	OwnerID string         `json:"-"`
}

// Service stores views with normalized filters and caches project lists.
type Service struct {
	store Store
	cache Cache
	codec *checks.Codec
}

// NewService creates a service. Filters are normalized with codec before they
// are stored, so a stored view never holds a segment its registry rejects.
func NewService(store Store, cache Cache, codec *checks.Codec) *Service {
	return &Service{store: store, cache: cache, codec: codec}
}

// Normalize decodes wire and encodes it again. dropped is the number of
// segments that did not survive.
func (s *Service) Normalize(wire string) (normalized string, dropped int) {
	g := s.codec.Deserialize(wire)
	normalized = s.codec.Serialize(g)
	return normalized, countSegments(wire) - countSegments(normalized)
}

func countSegments(wire string) int {
	n := 0
	for _, segment := range strings.Split(wire, "&") {
		if segment != "" {
			n++
		}
	}
	return n
}

func (s *Service) normalize(projectID, wire string) string {
	normalized, dropped := s.Normalize(wire)
	logger.DebugDroppedSegments(dropped, "projectId", projectID)
	return normalized
}

// Create validates in and stores a new view in the project.
func (s *Service) Create(ctx context.Context, projectID string, in Input) (*View, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidView)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidView)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidView, in.Type)
	}

	view := &View{
		ID:        uuid.New(),
		ProjectID: projectID,
		OwnerID:   in.OwnerID,
		Name:      in.Name,
		Icon:      in.Icon,
		Type:      in.Type,
		Data:      s.normalize(projectID, in.Data),
		Columns:   in.Columns,
	}
	if err := s.store.Add(ctx, view); err != nil {
		return nil, err
	}

	s.cache.Invalidate(projectID)
	logger.Info("view created", "projectId", projectID, "viewId", view.ID)
	return view, nil
}

func (s *Service) Get(ctx context.Context, projectID string, id uuid.UUID) (*View, error) {
	return s.store.Get(ctx, projectID, id)
}

// List returns the views of a project, served from the cache when possible.
func (s *Service) List(ctx context.Context, projectID string) ([]*View, error) {
	if cached := s.cache.Get(projectID); cached != nil {
		return cached, nil
	}

	list, err := s.store.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(projectID, list)
	return list, nil
}

// Update applies patch to a view.
func (s *Service) Update(ctx context.Context, projectID string, id uuid.UUID, patch Patch) (*View, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidView)
	}

	view, err := s.store.Get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if patch.Data != nil {
		data := s.normalize(projectID, *patch.Data)
		patch.Data = &data
	}
	patch.apply(view)

	if err := s.store.Update(ctx, view); err != nil {
		return nil, err
	}

	s.cache.Invalidate(projectID)
	return view, nil
}

func (s *Service) Delete(ctx context.Context, projectID string, id uuid.UUID) error {
	if err := s.store.Delete(ctx, projectID, id); err != nil {
		return err
	}
	s.cache.Invalidate(projectID)
	return nil
}

// Filters decodes the stored filters of a view.
func (s *Service) Filters(v *View) checks.Group {
	return s.codec.Deserialize(v.Data)
}
