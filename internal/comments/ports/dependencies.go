package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/authz"
)

// Authorizer is an interface for checking permissions
// This is a driven port - the comments module depends on this capability
// but doesn't know how it's implemented
type Authorizer interface {
	Can(ctx context.Context, actor authz.Actor, action authz.Action, ref authz.Ref) (bool, error)
}

// PostChecker verifies post existence without coupling the comments module
// to the posts module's internals
type PostChecker interface {
	PostExists(ctx context.Context, id uuid.UUID) (bool, error)
}
