package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a free-form label attachable to any number of posts. It shares the
// category's naming rules: the slug is derived from the name and acts as the
// uniqueness key.
type Tag struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTag creates a new tag with validation
func NewTag(name string) (*Tag, error) {
	slug, err := deriveSlug(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Tag{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename changes the name and re-derives the slug.
// Uniqueness must be checked by the service layer afterwards.
func (t *Tag) Rename(name string) error {
	slug, err := deriveSlug(name)
	if err != nil {
		return err
	}
	t.Name = name
	t.Slug = slug
	t.UpdatedAt = time.Now()
	return nil
}
