package ownership

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type staticChecker struct {
	owner uuid.UUID
}

func (c staticChecker) CheckOwnership(ctx context.Context, userID uuid.UUID, resourceID uuid.UUID) (bool, error) {
	return userID == c.owner, nil
}

func TestRegistryCheckOwnership(t *testing.T) {
	registry := NewRegistry()
	owner := uuid.New()
	stranger := uuid.New()
	resource := uuid.New()

	registry.RegisterChecker("posts", staticChecker{owner: owner})

	got, err := registry.CheckOwnership(context.Background(), owner, "posts", resource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Errorf("expected owner to pass ownership check")
	}

	got, err = registry.CheckOwnership(context.Background(), stranger, "posts", resource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Errorf("expected stranger to fail ownership check")
	}
}

func TestRegistryUnknownResourceType(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.CheckOwnership(context.Background(), uuid.New(), "themes", uuid.New())
	if err == nil {
		t.Errorf("expected error for unregistered resource type")
	}
}

func TestGetChecker(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterChecker("comments", staticChecker{})

	if _, ok := registry.GetChecker("comments"); !ok {
		t.Errorf("expected registered checker to be found")
	}
	if _, ok := registry.GetChecker("posts"); ok {
		t.Errorf("expected missing checker to not be found")
	}
}
