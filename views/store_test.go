package views

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStoreInterface(t *testing.T) {
	var _ Store = (*InMemoryStore)(nil)
	var _ Store = (*PostgresStore)(nil)
	var _ Cache = (*InMemoryCache)(nil)
}

func newView(projectID, name string) *View {
	return &View{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      name,
		Type:      TypeLLM,
		Data:      "status=error",
	}
}

func TestInMemoryStoreAddGet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	view := newView("p1", "Errors")

	if err := store.Add(ctx, view); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if view.CreatedAt.IsZero() || !view.CreatedAt.Equal(view.UpdatedAt) {
		t.Errorf("timestamps not set: created %v, updated %v", view.CreatedAt, view.UpdatedAt)
	}

	got, err := store.Get(ctx, "p1", view.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Name != "Errors" || got.Data != "status=error" {
		t.Errorf("Get() = %+v", got)
	}

	if err := store.Add(ctx, view); !errors.Is(err, ErrViewExists) {
		t.Errorf("Add(duplicate) error = %v, want ErrViewExists", err)
	}
}

func TestInMemoryStoreScopesByProject(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	view := newView("p1", "Errors")
	if err := store.Add(ctx, view); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	if _, err := store.Get(ctx, "p2", view.ID); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("Get(other project) error = %v, want ErrViewNotFound", err)
	}
	if err := store.Delete(ctx, "p2", view.ID); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("Delete(other project) error = %v, want ErrViewNotFound", err)
	}

	other := *view
	other.ProjectID = "p2"
	if err := store.Update(ctx, &other); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("Update(other project) error = %v, want ErrViewNotFound", err)
	}
}

func TestInMemoryStoreUpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	view := newView("p1", "Errors")
	if err := store.Add(ctx, view); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	createdAt := view.CreatedAt

	time.Sleep(5 * time.Millisecond)
	updated := *view
	updated.Name = "Failures"
	updated.CreatedAt = time.Time{}
	if err := store.Update(ctx, &updated); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	got, _ := store.Get(ctx, "p1", view.ID)
	if got.Name != "Failures" {
		t.Errorf("Name = %s, want Failures", got.Name)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, createdAt)
	}
	if !got.UpdatedAt.After(createdAt) {
		t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, createdAt)
	}
}

func TestInMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	first := newView("p1", "First")
	second := newView("p1", "Second")
	for _, v := range []*View{first, second, newView("p2", "Elsewhere")} {
		if err := store.Add(ctx, v); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	// Touching the first view moves it to the front.
	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	list, err := store.ListByProject(ctx, "p1")
	if err != nil {
		t.Fatalf("ListByProject() failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].Name != "First" || list[1].Name != "Second" {
		t.Errorf("order = %s, %s; want First, Second", list[0].Name, list[1].Name)
	}

	empty, err := store.ListByProject(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ListByProject(unknown) = %v, %v; want empty list", empty, err)
	}
}

func TestInMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	view := newView("p1", "Errors")
	if err := store.Add(ctx, view); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	view.Name = "changed after add"
	got, _ := store.Get(ctx, "p1", view.ID)
	got.Name = "changed after get"

	again, _ := store.Get(ctx, "p1", view.ID)
	if again.Name != "Errors" {
		t.Errorf("stored view changed to %q", again.Name)
	}
}

func TestInMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	view := newView("p1", "Errors")
	if err := store.Add(ctx, view); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	if err := store.Delete(ctx, "p1", view.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get(ctx, "p1", view.ID); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrViewNotFound", err)
	}
	if err := store.Delete(ctx, "p1", view.ID); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("Delete(deleted) error = %v, want ErrViewNotFound", err)
	}
}

func TestInMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := store.Add(ctx, newView("p1", "v")); err != nil {
				t.Errorf("Add() failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := store.ListByProject(ctx, "p1"); err != nil {
				t.Errorf("ListByProject() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	list, _ := store.ListByProject(ctx, "p1")
	if len(list) != 50 {
		t.Errorf("len(list) = %d, want 50", len(list))
	}
}
