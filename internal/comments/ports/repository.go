package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/comments/domain"
)

// ErrCommentNotFound is the canonical error repository implementations
// return for missing comments. The PostgreSQL implementation translates
// pgx.ErrNoRows to it.
var ErrCommentNotFound = errors.New("comment not found")

// CommentDetail is a comment joined with its author's name for rendering
type CommentDetail struct {
	ID              uuid.UUID
	Content         string
	UserID          uuid.UUID
	UserName        string // Joined from users table
	CommentableType string
	CommentableID   uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*CommentDetail, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns comments across all targets, newest first
	List(ctx context.Context, limit, offset int) ([]*CommentDetail, error)

	// ListForTarget returns the comments under one commentable entity,
	// oldest first so threads read top-down
	ListForTarget(ctx context.Context, commentableType string, commentableID uuid.UUID, limit, offset int) ([]*CommentDetail, error)

	// ListByUser returns a user's own comments, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*CommentDetail, error)
}
