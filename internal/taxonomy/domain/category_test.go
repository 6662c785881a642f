package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/backend/internal/taxonomy/domain"
)

func TestNewCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSlug string
		wantErr  error
	}{
		{"simple", "Technology", "technology", nil},
		{"multi word", "Food & Drink", "food-drink", nil},
		{"trailing space collides with trimmed name", "Tech ", "tech", nil},
		{"empty", "", "", domain.ErrInvalidName},
		{"too long", strings.Repeat("x", 256), "", domain.ErrInvalidName},
		{"no slug material", "!!!", "", domain.ErrInvalidSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, err := domain.NewCategory(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, category.Name)
			assert.Equal(t, tt.wantSlug, category.Slug)
		})
	}
}

func TestCategoryRename(t *testing.T) {
	category, err := domain.NewCategory("Old")
	require.NoError(t, err)

	require.NoError(t, category.Rename("New Name"))
	assert.Equal(t, "new-name", category.Slug)

	assert.ErrorIs(t, category.Rename(""), domain.ErrInvalidName)
}

func TestNewTag(t *testing.T) {
	tag, err := domain.NewTag("Golang Tips")
	require.NoError(t, err)
	assert.Equal(t, "golang-tips", tag.Slug)

	_, err = domain.NewTag("")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestSlugNormalizesCaseAndSpacing(t *testing.T) {
	a, err := domain.NewCategory("Tech")
	require.NoError(t, err)
	b, err := domain.NewCategory("tech ")
	require.NoError(t, err)

	assert.Equal(t, a.Slug, b.Slug, "names differing only in case or spacing share a slug")
}
