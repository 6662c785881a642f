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

// ErrTagNotFound is returned when a tag lookup misses
var ErrTagNotFound = apperror.NotFound(
	apperror.BusinessCodeTagNotFound,
	"tag not found",
)

// TagsService handles tag management. Reads are public; every mutation is
// restricted to admins through the authorization engine.
type TagsService struct {
	repo       ports.TagRepository
	authorizer ports.Authorizer
	logger     logger.Logger
}

// NewTagsService creates a new tags service
func NewTagsService(
	repo ports.TagRepository,
	authorizer ports.Authorizer,
	logger logger.Logger,
) *TagsService {
	return &TagsService{
		repo:       repo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// ListTags returns all tags, newest first
func (s *TagsService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list tags", "error", err)
		return nil, apperror.Internal(err, "failed to list tags")
	}
	return tags, nil
}

// GetTag retrieves a tag by ID
func (s *TagsService) GetTag(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	return s.getTagByID(ctx, id)
}

// CreateTag creates a new tag. Admins only.
func (s *TagsService) CreateTag(ctx context.Context, actor authz.Actor, name string) (*domain.Tag, error) {
	if err := s.authorize(ctx, actor, authz.ActionCreate, authz.ClassRef(authz.ResourceTags),
		"not authorized to create tags"); err != nil {
		return nil, err
	}

	tag, err := domain.NewTag(name)
	if err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.ensureSlugAvailable(ctx, tag.Slug, nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		if errors.Is(err, ports.ErrDuplicateName) {
			return nil, ErrNameAlreadyExists
		}
		s.logger.Error(ctx, "failed to create tag", "error", err)
		return nil, apperror.Internal(err, "failed to create tag")
	}

	s.logger.Info(ctx, "tag created", "tagID", tag.ID, "slug", tag.Slug, "actorID", actor.ID)
	return tag, nil
}

// UpdateTag renames a tag. Admins only.
func (s *TagsService) UpdateTag(ctx context.Context, actor authz.Actor, id uuid.UUID, name *string) (*domain.Tag, error) {
	tag, err := s.getTagByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionUpdate,
		authz.InstanceRef(authz.ResourceTags, id, uuid.Nil),
		"not authorized to update tags"); err != nil {
		return nil, err
	}

	if name == nil {
		return nil, ErrEmptyUpdate
	}

	if err := tag.Rename(*name); err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.ensureSlugAvailable(ctx, tag.Slug, &id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, tag); err != nil {
		if errors.Is(err, ports.ErrDuplicateName) {
			return nil, ErrNameAlreadyExists
		}
		s.logger.Error(ctx, "failed to update tag", "error", err, "tagID", id)
		return nil, apperror.Internal(err, "failed to update tag")
	}
	return tag, nil
}

// DeleteTag removes a tag and detaches it from all posts. Admins only.
func (s *TagsService) DeleteTag(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if _, err := s.getTagByID(ctx, id); err != nil {
		return err
	}

	if err := s.authorize(ctx, actor, authz.ActionDelete,
		authz.InstanceRef(authz.ResourceTags, id, uuid.Nil),
		"not authorized to delete tags"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "failed to delete tag", "error", err, "tagID", id)
		return apperror.Internal(err, "failed to delete tag")
	}

	s.logger.Info(ctx, "tag deleted", "tagID", id, "actorID", actor.ID)
	return nil
}

// Private helper methods

func (s *TagsService) authorize(ctx context.Context, actor authz.Actor, action authz.Action, ref authz.Ref, deniedMsg string) error {
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

func (s *TagsService) getTagByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		s.logger.Error(ctx, "failed to find tag", "error", err, "tagID", id)
		return nil, apperror.Internal(err, "failed to retrieve tag")
	}
	return tag, nil
}

func (s *TagsService) ensureSlugAvailable(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		s.logger.Error(ctx, "failed to check tag slug", "error", err, "slug", slug)
		return apperror.Internal(err, "failed to validate name")
	}
	if exists {
		return ErrNameAlreadyExists
	}
	return nil
}
