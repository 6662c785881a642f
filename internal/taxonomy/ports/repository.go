package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/taxonomy/domain"
)

// Repository errors - these are the canonical errors that repository
// implementations should return. The PostgreSQL implementation translates
// pgx.ErrNoRows and unique-constraint violations to these.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category still has posts")
	ErrTagNotFound      = errors.New("tag not found")
	ErrDuplicateName    = errors.New("name already exists")
)

// CategoryPost is the compact view of a post rendered inside a category
type CategoryPost struct {
	ID        uuid.UUID
	Title     string
	Slug      string
	Status    string
	AuthorID  uuid.UUID
	CreatedAt time.Time
}

// CategoryDetail is a category together with its posts
type CategoryDetail struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Posts     []CategoryPost
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// FindDetailByID retrieves a category with its posts
	FindDetailByID(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)

	Update(ctx context.Context, category *domain.Category) error

	// Delete removes the category. Posts referencing it keep the service
	// from deleting; the caller surfaces that as a conflict.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns categories with their posts, newest first
	List(ctx context.Context) ([]*CategoryDetail, error)

	// SlugExists checks name uniqueness through the derived slug,
	// optionally excluding one category (for renames)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

	// Exists reports whether a category id is present
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes the tag and its post associations
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns tags, newest first
	List(ctx context.Context) ([]*domain.Tag, error)

	// SlugExists checks name uniqueness through the derived slug,
	// optionally excluding one tag (for renames)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

	// Missing returns the subset of ids that do not exist
	Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}
