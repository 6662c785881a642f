package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Business rule constants
const MaxContentLength = 1000

// Validation errors
var (
	ErrInvalidContent = errors.New("content is required and must not exceed 1000 characters")
	ErrInvalidUserID  = errors.New("user ID is required")
	ErrInvalidTarget  = errors.New("commentable target is required")
)

// Comment is a remark attached to a commentable entity. The target is
// polymorphic: CommentableType names the resource kind and CommentableID the
// concrete row. Today only posts are commentable, but the shape keeps the
// model open for other targets.
type Comment struct {
	ID              uuid.UUID
	Content         string
	UserID          uuid.UUID
	CommentableType string
	CommentableID   uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewComment creates a new comment with validation. The target is always set
// by the service from the route, never from client input.
func NewComment(content string, userID uuid.UUID, commentableType string, commentableID uuid.UUID) (*Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if commentableType == "" || commentableID == uuid.Nil {
		return nil, ErrInvalidTarget
	}

	now := time.Now()
	return &Comment{
		ID:              uuid.New(),
		Content:         content,
		UserID:          userID,
		CommentableType: commentableType,
		CommentableID:   commentableID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// UpdateContent replaces the comment body with validation
func (c *Comment) UpdateContent(content string) error {
	if err := validateContent(content); err != nil {
		return err
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	return nil
}

func validateContent(content string) error {
	if content == "" || len(content) > MaxContentLength {
		return ErrInvalidContent
	}
	return nil
}
