// Package views persists saved filter sets. A view stores its filters as a wire
// string so the same value can be pasted into a URL.
package views

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrViewNotFound is returned when no view matches the project and id.
	ErrViewNotFound = errors.New("view not found")

	// ErrViewExists is returned when adding a view whose id is taken.
	ErrViewExists = errors.New("view already exists")

	// ErrInvalidView wraps validation failures of view input.
	ErrInvalidView = errors.New("invalid view")
)

// Type is the kind of log a view lists.
type Type string

const (
	TypeLLM    Type = "llm"
	TypeThread Type = "thread"
	TypeTrace  Type = "trace"
)

// Valid reports whether t is a known view type.
func (t Type) Valid() bool {
	switch t {
	case TypeLLM, TypeThread, TypeTrace:
		return true
	}
	return false
}

// View is a named, saved filter set.
type View struct {
	ID        uuid.UUID      `json:"id"`
	ProjectID string         `json:"projectId"`
	OwnerID   string         `json:"ownerId,omitempty"`
	Name      string         `json:"name"`
	Icon      string         `json:"icon,omitempty"`
	Type      Type           `json:"type"`
	Data      string         `json:"data"`
	Columns   map[string]any `json:"columns,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Patch lists the fields of a view to change. Nil fields are kept.
type Patch struct {
	Name    *string         `json:"name,omitempty"`
	Icon    *string         `json:"icon,omitempty"`
	Data    *string         `json:"data,omitempty"`
	Columns *map[string]any `json:"columns,omitempty"`
}

// apply copies the set fields of p onto v.
func (p Patch) apply(v *View) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Icon != nil {
		v.Icon = *p.Icon
	}
	if p.Data != nil {
		v.Data = *p.Data
	}
	if p.Columns != nil {
		v.Columns = *p.Columns
	}
}

func notFound(projectID string, id uuid.UUID) error {
	return fmt.Errorf("view %s in project %s: %w", id, projectID, ErrViewNotFound)
}
