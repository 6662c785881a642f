package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/posts/domain"
)

// Repository errors - these are the canonical errors that repository
// implementations should return. The PostgreSQL implementation translates
// pgx.ErrNoRows and unique-constraint violations to these.
var (
	ErrPostNotFound      = errors.New("post not found")
	ErrSlugAlreadyExists = errors.New("slug already exists")
)

// TagInfo is a lightweight view of a tag attached to a post
type TagInfo struct {
	ID   uuid.UUID
	Name string
	Slug string
}

// CommentInfo is a lightweight view of a comment under a post, joined with
// its author's name
type CommentInfo struct {
	ID        uuid.UUID
	Content   string
	UserID    uuid.UUID
	UserName  string // Joined from users table
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostDetail is a read DTO for a post together with its joined relations.
// List and detail views render from this instead of the bare domain entity.
type PostDetail struct {
	ID           uuid.UUID
	Title        string
	Slug         string
	Description  string
	Status       domain.PostStatus
	AuthorID     uuid.UUID
	AuthorName   string // Joined from users table
	CategoryID   uuid.UUID
	CategoryName string // Joined from categories table
	Tags         []TagInfo
	Comments     []CommentInfo // Loaded on single-post reads only
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SearchFilter contains the search criteria for listing posts. All populated
// fields are combined with AND; matching is case-insensitive substring.
type SearchFilter struct {
	Title        string
	CategoryName string
	AuthorName   string
	TagName      string

	// Pagination
	Limit  int
	Offset int
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// Create saves a new post to the database
	Create(ctx context.Context, post *domain.Post) error

	// FindByID retrieves a post entity by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// FindDetailByID retrieves a post with its joined relations by ID
	FindDetailByID(ctx context.Context, id uuid.UUID) (*PostDetail, error)

	// FindDetailBySlug retrieves a post with its joined relations by slug
	FindDetailBySlug(ctx context.Context, slug string) (*PostDetail, error)

	// Update modifies an existing post
	Update(ctx context.Context, post *domain.Post) error

	// Delete removes a post together with its comments and tag
	// associations in a single transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// Search retrieves post details matching the filter, newest first
	Search(ctx context.Context, filter SearchFilter) ([]*PostDetail, error)

	// Count returns the total number of posts matching the filter
	Count(ctx context.Context, filter SearchFilter) (int, error)

	// ListByAuthor retrieves post details by a specific author, newest first
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*PostDetail, error)

	// SlugExists checks if a slug is already in use
	// Optionally excludes a specific post ID (for updates)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

	// GetPostAuthor retrieves just the author ID for a post (for ownership checks)
	GetPostAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error)

	// ReplaceTags atomically replaces the post's tag set. An empty slice
	// detaches all tags.
	ReplaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
}
