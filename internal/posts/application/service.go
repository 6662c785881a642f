package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/inkwell-blog/backend/internal/authz"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/eventbus"
	"github.com/inkwell-blog/backend/internal/platform/events"
	"github.com/inkwell-blog/backend/internal/platform/logger"
	"github.com/inkwell-blog/backend/internal/posts/domain"
	"github.com/inkwell-blog/backend/internal/posts/ports"
)

// Error definitions for service operations
var (
	ErrPostNotFound = apperror.NotFound(
		apperror.BusinessCodePostNotFound,
		"post not found",
	)

	ErrSlugAlreadyExists = apperror.Conflict(
		apperror.BusinessCodeSlugAlreadyExists,
		"a post with this title already exists",
	)

	ErrCategoryNotFound = apperror.Validation(
		apperror.BusinessCodeCategoryNotFound,
		"category does not exist",
	)

	ErrTagNotFound = apperror.Validation(
		apperror.BusinessCodeTagNotFound,
		"one or more tags do not exist",
	)

	ErrEmptyUpdate = apperror.Validation(
		apperror.BusinessCodeEmptyUpdate,
		"no data provided for update",
	)
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// PostsService handles post-related business logic
type PostsService struct {
	repo       ports.PostRepository
	categories ports.CategoryChecker
	tags       ports.TagChecker
	authorizer ports.Authorizer
	eventBus   *eventbus.Bus
	logger     logger.Logger
	sanitizer  *bluemonday.Policy
}

// NewPostsService creates a new posts service
func NewPostsService(
	repo ports.PostRepository,
	categories ports.CategoryChecker,
	tags ports.TagChecker,
	authorizer ports.Authorizer,
	eventBus *eventbus.Bus,
	logger logger.Logger,
) *PostsService {
	// Strict HTML sanitizer for user-generated content
	sanitizer := bluemonday.UGCPolicy()

	return &PostsService{
		repo:       repo,
		categories: categories,
		tags:       tags,
		authorizer: authorizer,
		eventBus:   eventBus,
		logger:     logger,
		sanitizer:  sanitizer,
	}
}

// CreatePostParams contains parameters for creating a new post
type CreatePostParams struct {
	Title       string
	Description string
	CategoryID  uuid.UUID
	Status      domain.PostStatus
	TagIDs      []uuid.UUID
}

// UpdatePostParams contains the optional fields of a partial post update.
// A nil field means "leave unchanged"; a nil TagIDs leaves the tag set alone
// while an empty non-nil slice detaches every tag.
type UpdatePostParams struct {
	Title       *string
	Description *string
	CategoryID  *uuid.UUID
	Status      *domain.PostStatus
	TagIDs      *[]uuid.UUID
}

// CreatePost creates a new blog post authored by the acting user
func (s *PostsService) CreatePost(ctx context.Context, actor authz.Actor, params CreatePostParams) (*ports.PostDetail, error) {
	if err := s.authorize(ctx, actor, authz.ActionCreate, authz.ClassRef(authz.ResourcePosts),
		"not authorized to create posts"); err != nil {
		return nil, err
	}

	if err := s.ensureCategoryExists(ctx, params.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureTagsExist(ctx, params.TagIDs); err != nil {
		return nil, err
	}

	// Sanitize HTML content; the actor becomes the author
	sanitized := s.sanitizer.Sanitize(params.Description)
	post, err := domain.NewPost(params.Title, sanitized, params.CategoryID, actor.ID, params.Status)
	if err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	// The slug derives from the title, so a colliding slug means a
	// colliding title. Report it instead of mutating the slug.
	if err := s.ensureSlugAvailable(ctx, post.Slug, nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, ports.ErrSlugAlreadyExists) {
			return nil, ErrSlugAlreadyExists
		}
		s.logger.Error(ctx, "failed to create post", "error", err)
		return nil, apperror.Internal(err, "failed to create post")
	}

	if len(params.TagIDs) > 0 {
		if err := s.repo.ReplaceTags(ctx, post.ID, params.TagIDs); err != nil {
			s.logger.Error(ctx, "failed to attach tags", "error", err, "postID", post.ID)
			return nil, apperror.Internal(err, "failed to attach tags")
		}
	}

	s.publishPostCreatedEvent(ctx, post, actor.ID)

	return s.getDetailByID(ctx, post.ID)
}

// GetPostBySlug retrieves a post with its relations by slug
func (s *PostsService) GetPostBySlug(ctx context.Context, actor authz.Actor, slug string) (*ports.PostDetail, error) {
	detail, err := s.repo.FindDetailBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error(ctx, "failed to find post by slug", "error", err, "slug", slug)
		return nil, apperror.Internal(err, "failed to retrieve post")
	}

	if err := s.authorize(ctx, actor, authz.ActionView,
		authz.InstanceRef(authz.ResourcePosts, detail.ID, detail.AuthorID),
		"not authorized to view this post"); err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdatePost applies a partial update to a post
func (s *PostsService) UpdatePost(ctx context.Context, actor authz.Actor, id uuid.UUID, params UpdatePostParams) (*ports.PostDetail, error) {
	post, err := s.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionUpdate,
		authz.InstanceRef(authz.ResourcePosts, post.ID, post.AuthorID),
		"not authorized to update this post"); err != nil {
		return nil, err
	}

	if params.Title == nil && params.Description == nil && params.CategoryID == nil &&
		params.Status == nil && params.TagIDs == nil {
		return nil, ErrEmptyUpdate
	}

	if params.Title != nil && *params.Title != post.Title {
		if err := post.UpdateTitle(*params.Title); err != nil {
			return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
		}
		if err := s.ensureSlugAvailable(ctx, post.Slug, &id); err != nil {
			return nil, err
		}
	}

	if params.Description != nil {
		sanitized := s.sanitizer.Sanitize(*params.Description)
		if err := post.UpdateDescription(sanitized); err != nil {
			return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
		}
	}

	if params.CategoryID != nil && *params.CategoryID != post.CategoryID {
		if err := s.ensureCategoryExists(ctx, *params.CategoryID); err != nil {
			return nil, err
		}
		if err := post.ChangeCategory(*params.CategoryID); err != nil {
			return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
		}
	}

	if params.Status != nil {
		if err := post.ChangeStatus(*params.Status); err != nil {
			return nil, apperror.Validation(apperror.BusinessCodeInvalidStatus, err.Error())
		}
	}

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, ports.ErrSlugAlreadyExists) {
			return nil, ErrSlugAlreadyExists
		}
		s.logger.Error(ctx, "failed to update post", "error", err, "postID", id)
		return nil, apperror.Internal(err, "failed to update post")
	}

	if params.TagIDs != nil {
		if err := s.replaceTags(ctx, post.ID, *params.TagIDs); err != nil {
			return nil, err
		}
	}

	s.publishPostUpdatedEvent(ctx, post, actor.ID)

	return s.getDetailByID(ctx, post.ID)
}

// AttachTags replaces the post's tag set with the given tags
func (s *PostsService) AttachTags(ctx context.Context, actor authz.Actor, id uuid.UUID, tagIDs []uuid.UUID) (*ports.PostDetail, error) {
	post, err := s.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionUpdate,
		authz.InstanceRef(authz.ResourcePosts, post.ID, post.AuthorID),
		"not authorized to update this post"); err != nil {
		return nil, err
	}

	if err := s.replaceTags(ctx, post.ID, tagIDs); err != nil {
		return nil, err
	}

	return s.getDetailByID(ctx, post.ID)
}

// DeletePost removes a post together with its comments and tag associations
func (s *PostsService) DeletePost(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	post, err := s.getPostByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, actor, authz.ActionDelete,
		authz.InstanceRef(authz.ResourcePosts, post.ID, post.AuthorID),
		"not authorized to delete this post"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "failed to delete post", "error", err, "postID", id)
		return apperror.Internal(err, "failed to delete post")
	}

	s.publishPostDeletedEvent(ctx, post, actor.ID)
	return nil
}

// SearchPosts retrieves posts matching the filter, newest first
func (s *PostsService) SearchPosts(ctx context.Context, filter ports.SearchFilter) ([]*ports.PostDetail, int, error) {
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	details, err := s.repo.Search(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to search posts", "error", err)
		return nil, 0, apperror.Internal(err, "failed to search posts")
	}

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count posts", "error", err)
		return nil, 0, apperror.Internal(err, "failed to count posts")
	}

	return details, count, nil
}

// ListMyPosts retrieves the acting user's own posts, newest first
func (s *PostsService) ListMyPosts(ctx context.Context, actor authz.Actor, limit, offset int) ([]*ports.PostDetail, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	details, err := s.repo.ListByAuthor(ctx, actor.ID, limit, offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list posts by author", "error", err, "authorID", actor.ID)
		return nil, apperror.Internal(err, "failed to list posts")
	}
	return details, nil
}

// Private helper methods

func (s *PostsService) authorize(ctx context.Context, actor authz.Actor, action authz.Action, ref authz.Ref, deniedMsg string) error {
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

// getPostByID fetches a post and handles not-found errors consistently
func (s *PostsService) getPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error(ctx, "failed to find post", "error", err, "postID", id)
		return nil, apperror.Internal(err, "failed to retrieve post")
	}
	return post, nil
}

func (s *PostsService) getDetailByID(ctx context.Context, id uuid.UUID) (*ports.PostDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error(ctx, "failed to load post detail", "error", err, "postID", id)
		return nil, apperror.Internal(err, "failed to retrieve post")
	}
	return detail, nil
}

func (s *PostsService) ensureSlugAvailable(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		s.logger.Error(ctx, "failed to check slug existence", "error", err, "slug", slug)
		return apperror.Internal(err, "failed to validate slug")
	}
	if exists {
		return ErrSlugAlreadyExists
	}
	return nil
}

func (s *PostsService) ensureCategoryExists(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrCategoryNotFound
	}
	exists, err := s.categories.CategoryExists(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "failed to check category existence", "error", err, "categoryID", id)
		return apperror.Internal(err, "failed to validate category")
	}
	if !exists {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *PostsService) ensureTagsExist(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.tags.MissingTags(ctx, ids)
	if err != nil {
		s.logger.Error(ctx, "failed to check tag existence", "error", err)
		return apperror.Internal(err, "failed to validate tags")
	}
	if len(missing) > 0 {
		return ErrTagNotFound
	}
	return nil
}

func (s *PostsService) replaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := s.ensureTagsExist(ctx, tagIDs); err != nil {
		return err
	}
	if err := s.repo.ReplaceTags(ctx, postID, tagIDs); err != nil {
		s.logger.Error(ctx, "failed to replace tags", "error", err, "postID", postID)
		return apperror.Internal(err, "failed to attach tags")
	}
	return nil
}

// Event publishing methods

func (s *PostsService) publishPostCreatedEvent(ctx context.Context, post *domain.Post, actorID uuid.UUID) {
	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.PostCreatedTopic,
		Payload: events.PostCreatedEvent{
			PostID:     post.ID,
			ActorID:    actorID,
			Title:      post.Title,
			Slug:       post.Slug,
			OccurredAt: time.Now(),
		},
	})
}

func (s *PostsService) publishPostUpdatedEvent(ctx context.Context, post *domain.Post, actorID uuid.UUID) {
	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.PostUpdatedTopic,
		Payload: events.PostUpdatedEvent{
			PostID:     post.ID,
			ActorID:    actorID,
			Title:      post.Title,
			Slug:       post.Slug,
			OccurredAt: time.Now(),
		},
	})
}

func (s *PostsService) publishPostDeletedEvent(ctx context.Context, post *domain.Post, actorID uuid.UUID) {
	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.PostDeletedTopic,
		Payload: events.PostDeletedEvent{
			PostID:     post.ID,
			ActorID:    actorID,
			OccurredAt: time.Now(),
		},
	})
}
