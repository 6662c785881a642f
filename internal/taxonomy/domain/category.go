package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/platform/validator"
)

// Business rule constants
const (
	MaxNameLength = 255
	MaxSlugLength = 255
)

// Validation errors
var (
	ErrInvalidName = errors.New("name is required and must not exceed 255 characters")
	ErrInvalidSlug = errors.New("name does not reduce to a valid slug")
)

// Category groups posts into a single rubric. Every post belongs to exactly
// one category. The slug is derived from the name and doubles as the
// case-insensitive uniqueness key.
type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a new category with validation
func NewCategory(name string) (*Category, error) {
	slug, err := deriveSlug(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename changes the name and re-derives the slug.
// Uniqueness must be checked by the service layer afterwards.
func (c *Category) Rename(name string) error {
	slug, err := deriveSlug(name)
	if err != nil {
		return err
	}
	c.Name = name
	c.Slug = slug
	c.UpdatedAt = time.Now()
	return nil
}

func deriveSlug(name string) (string, error) {
	if name == "" || len(name) > MaxNameLength {
		return "", ErrInvalidName
	}
	slug := validator.GenerateSlug(name, MaxSlugLength)
	if err := validator.ValidateSlugFormat(slug, MaxSlugLength); err != nil {
		return "", ErrInvalidSlug
	}
	return slug, nil
}
