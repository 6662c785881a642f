package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/platform/validator"
)

// PostStatus represents the publication state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// IsValid checks if the status is a valid value
func (s PostStatus) IsValid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Business rule constants
const (
	MaxTitleLength = 255
	MaxSlugLength  = 255
)

// Validation errors
var (
	ErrInvalidTitle       = errors.New("title is required and must not exceed 255 characters")
	ErrInvalidSlug        = errors.New("slug is invalid or too long")
	ErrInvalidDescription = errors.New("description is required")
	ErrInvalidCategoryID  = errors.New("category ID is required")
	ErrInvalidAuthorID    = errors.New("author ID is required")
	ErrInvalidStatus      = errors.New("status must be draft or published")
)

// Post represents a blog post in the domain. The slug is always derived from
// the title; it never drifts away from it and is never accepted from clients.
type Post struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Description string // Sanitized HTML body
	CategoryID  uuid.UUID
	AuthorID    uuid.UUID
	Status      PostStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPost creates a new post with validation. The author is the actor creating
// the post; callers must never pass a client-supplied author.
func NewPost(title, description string, categoryID, authorID uuid.UUID, status PostStatus) (*Post, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	slug := validator.GenerateSlug(title, MaxSlugLength)
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	if description == "" {
		return nil, ErrInvalidDescription
	}
	if categoryID == uuid.Nil {
		return nil, ErrInvalidCategoryID
	}
	if authorID == uuid.Nil {
		return nil, ErrInvalidAuthorID
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	return &Post{
		ID:          uuid.New(),
		Title:       title,
		Slug:        slug,
		Description: description,
		CategoryID:  categoryID,
		AuthorID:    authorID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateTitle changes the title and re-derives the slug from it.
// Slug uniqueness must be checked by the service layer afterwards.
func (p *Post) UpdateTitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}

	slug := validator.GenerateSlug(title, MaxSlugLength)
	if err := validateSlug(slug); err != nil {
		return err
	}

	p.Title = title
	p.Slug = slug
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateDescription replaces the post body
func (p *Post) UpdateDescription(description string) error {
	if description == "" {
		return ErrInvalidDescription
	}
	p.Description = description
	p.UpdatedAt = time.Now()
	return nil
}

// ChangeCategory moves the post to a different category.
// Category existence must be checked by the service layer.
func (p *Post) ChangeCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return ErrInvalidCategoryID
	}
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	return nil
}

// ChangeStatus moves the post between draft and published
func (p *Post) ChangeStatus(status PostStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

// IsPublished checks if the post is currently published
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// Validation helpers

func validateTitle(title string) error {
	if title == "" || len(title) > MaxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

func validateSlug(slug string) error {
	if err := validator.ValidateSlugFormat(slug, MaxSlugLength); err != nil {
		return ErrInvalidSlug
	}
	return nil
}
