package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/authz"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/logger"
	"github.com/inkwell-blog/backend/internal/taxonomy/domain"
	"github.com/inkwell-blog/backend/internal/taxonomy/ports"
)

// Error definitions for service operations
var (
	ErrCategoryNotFound = apperror.NotFound(
		apperror.BusinessCodeCategoryNotFound,
		"category not found",
	)

	ErrCategoryInUse = apperror.Conflict(
		apperror.BusinessCodeGeneral,
		"category still has posts attached",
	)

	ErrNameAlreadyExists = apperror.Conflict(
		apperror.BusinessCodeNameAlreadyExists,
		"name already exists",
	)

	ErrEmptyUpdate = apperror.Validation(
		apperror.BusinessCodeEmptyUpdate,
		"no data provided for update",
	)
)

// CategoriesService handles category management. Reads are public; every
// mutation is restricted to admins through the authorization engine.
type CategoriesService struct {
	repo       ports.CategoryRepository
	authorizer ports.Authorizer
	logger     logger.Logger
}

// NewCategoriesService creates a new categories service
func NewCategoriesService(
	repo ports.CategoryRepository,
	authorizer ports.Authorizer,
	logger logger.Logger,
) *CategoriesService {
	return &CategoriesService{
		repo:       repo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// ListCategories returns all categories with their posts, newest first
func (s *CategoriesService) ListCategories(ctx context.Context) ([]*ports.CategoryDetail, error) {
	details, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list categories", "error", err)
		return nil, apperror.Internal(err, "failed to list categories")
	}
	return details, nil
}

// GetCategory retrieves a category with its posts
func (s *CategoriesService) GetCategory(ctx context.Context, id uuid.UUID) (*ports.CategoryDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error(ctx, "failed to find category", "error", err, "categoryID", id)
		return nil, apperror.Internal(err, "failed to retrieve category")
	}
	return detail, nil
}

// CreateCategory creates a new category. Admins only.
func (s *CategoriesService) CreateCategory(ctx context.Context, actor authz.Actor, name string) (*domain.Category, error) {
	if err := s.authorize(ctx, actor, authz.ActionCreate, authz.ClassRef(authz.ResourceCategories),
		"not authorized to create categories"); err != nil {
		return nil, err
	}

	category, err := domain.NewCategory(name)
	if err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.ensureSlugAvailable(ctx, category.Slug, nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, ports.ErrDuplicateName) {
			return nil, ErrNameAlreadyExists
		}
		s.logger.Error(ctx, "failed to create category", "error", err)
		return nil, apperror.Internal(err, "failed to create category")
	}

	s.logger.Info(ctx, "category created", "categoryID", category.ID, "slug", category.Slug, "actorID", actor.ID)
	return category, nil
}

// UpdateCategory renames a category. Admins only.
func (s *CategoriesService) UpdateCategory(ctx context.Context, actor authz.Actor, id uuid.UUID, name *string) (*domain.Category, error) {
	category, err := s.getCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionUpdate,
		authz.InstanceRef(authz.ResourceCategories, id, uuid.Nil),
		"not authorized to update categories"); err != nil {
		return nil, err
	}

	if name == nil {
		return nil, ErrEmptyUpdate
	}

	if err := category.Rename(*name); err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.ensureSlugAvailable(ctx, category.Slug, &id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, ports.ErrDuplicateName) {
			return nil, ErrNameAlreadyExists
		}
		s.logger.Error(ctx, "failed to update category", "error", err, "categoryID", id)
		return nil, apperror.Internal(err, "failed to update category")
	}
	return category, nil
}

// DeleteCategory removes a category. Admins only. Categories that still have
// posts cannot be deleted.
func (s *CategoriesService) DeleteCategory(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if _, err := s.getCategoryByID(ctx, id); err != nil {
		return err
	}

	if err := s.authorize(ctx, actor, authz.ActionDelete,
		authz.InstanceRef(authz.ResourceCategories, id, uuid.Nil),
		"not authorized to delete categories"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrCategoryInUse) {
			return ErrCategoryInUse
		}
		s.logger.Error(ctx, "failed to delete category", "error", err, "categoryID", id)
		return apperror.Internal(err, "failed to delete category")
	}

	s.logger.Info(ctx, "category deleted", "categoryID", id, "actorID", actor.ID)
	return nil
}

// Private helper methods

func (s *CategoriesService) authorize(ctx context.Context, actor authz.Actor, action authz.Action, ref authz.Ref, deniedMsg string) error {
	allowed, err := s.authorizer.Can(ctx, actor, action, ref)
	if err != nil {
		s.logger.Error(ctx, "failed to check authorization", "error", err, "actorID", actor.ID)
		return apperror.Internal(err, "authorization check failed")
	}
	if !allowed {
		return apperror.Forbidden(apperror.BusinessCodePermissionDenied, deniedMsg)
	}
	return nil
}

func (s *CategoriesService) getCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error(ctx, "failed to find category", "error", err, "categoryID", id)
		return nil, apperror.Internal(err, "failed to retrieve category")
	}
	return category, nil
}

// ensureSlugAvailable rejects names whose derived slug is already taken.
// Comparing slugs instead of raw names makes the check case- and
// spacing-insensitive.
func (s *CategoriesService) ensureSlugAvailable(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		s.logger.Error(ctx, "failed to check category slug", "error", err, "slug", slug)
		return apperror.Internal(err, "failed to validate name")
	}
	if exists {
		return ErrNameAlreadyExists
	}
	return nil
}
