package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/authz"
)

// Authorizer is an interface for checking permissions
// This is a driven port - the posts module depends on this capability
// but doesn't know how it's implemented
type Authorizer interface {
	Can(ctx context.Context, actor authz.Actor, action authz.Action, ref authz.Ref) (bool, error)
}

// CategoryChecker verifies category existence without coupling the posts
// module to the taxonomy module's internals
type CategoryChecker interface {
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TagChecker verifies tag existence for attach operations
type TagChecker interface {
	// MissingTags returns the subset of ids that do not exist
	MissingTags(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}
