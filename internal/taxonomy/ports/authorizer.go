package ports

import (
	"context"

	"github.com/inkwell-blog/backend/internal/authz"
)

// Authorizer is an interface for checking permissions
// This is a driven port - the taxonomy module depends on this capability
// but doesn't know how it's implemented
type Authorizer interface {
	Can(ctx context.Context, actor authz.Actor, action authz.Action, ref authz.Ref) (bool, error)
}
