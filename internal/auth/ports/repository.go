package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/auth/domain"
)

// ErrTokenNotFound is returned when no token matches a digest. The PostgreSQL
// implementation translates pgx.ErrNoRows to it.
var ErrTokenNotFound = errors.New("token not found")

// TokenRepository defines the interface for access token persistence
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error

	// FindUserIDByDigest resolves a token digest to its user
	FindUserIDByDigest(ctx context.Context, digest string) (uuid.UUID, error)

	// DeleteForUser revokes every token the user holds
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}
