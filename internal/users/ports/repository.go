package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/users/domain"
)

// Repository errors - these are the canonical errors that repository
// implementations should return. The PostgreSQL implementation translates
// pgx.ErrNoRows and unique-constraint violations to these.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns users newest-first
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// ExistsByEmail checks email uniqueness, optionally excluding one user
	// (for updates against the user's own record)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
}

// PasswordHasher derives and verifies opaque password credentials.
// Hashing mechanics live outside the users module.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(hashed, plaintext string) bool
}
