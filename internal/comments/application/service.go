package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/inkwell-blog/backend/internal/authz"
	"github.com/inkwell-blog/backend/internal/comments/domain"
	"github.com/inkwell-blog/backend/internal/comments/ports"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/eventbus"
	"github.com/inkwell-blog/backend/internal/platform/events"
	"github.com/inkwell-blog/backend/internal/platform/logger"
)

// Error definitions for service operations
var (
	ErrCommentNotFound = apperror.NotFound(
		apperror.BusinessCodeCommentNotFound,
		"comment not found",
	)

	ErrPostNotFound = apperror.NotFound(
		apperror.BusinessCodePostNotFound,
		"post not found",
	)
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// commentableTypePosts is the ownership registry key for posts. It is the
// only commentable kind wired today.
const commentableTypePosts = "posts"

// CommentsService handles comment business logic
type CommentsService struct {
	repo       ports.CommentRepository
	posts      ports.PostChecker
	authorizer ports.Authorizer
	eventBus   *eventbus.Bus
	logger     logger.Logger
	sanitizer  *bluemonday.Policy
}

// NewCommentsService creates a new comments service
func NewCommentsService(
	repo ports.CommentRepository,
	posts ports.PostChecker,
	authorizer ports.Authorizer,
	eventBus *eventbus.Bus,
	logger logger.Logger,
) *CommentsService {
	// Comments render as plain text; strip all markup
	sanitizer := bluemonday.StrictPolicy()

	return &CommentsService{
		repo:       repo,
		posts:      posts,
		authorizer: authorizer,
		eventBus:   eventBus,
		logger:     logger,
		sanitizer:  sanitizer,
	}
}

// AddToPost creates a comment under a post. Any authenticated user can
// comment; the post-scoped route is the only way to create a comment, so
// the service pins the target itself and never trusts client input for it.
func (s *CommentsService) AddToPost(ctx context.Context, actor authz.Actor, postID uuid.UUID, content string) (*ports.CommentDetail, error) {
	exists, err := s.posts.PostExists(ctx, postID)
	if err != nil {
		s.logger.Error(ctx, "failed to check post existence", "error", err, "postID", postID)
		return nil, apperror.Internal(err, "failed to validate post")
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	sanitized := s.sanitizer.Sanitize(content)
	comment, err := domain.NewComment(sanitized, actor.ID, commentableTypePosts, postID)
	if err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		s.logger.Error(ctx, "failed to create comment", "error", err, "postID", postID)
		return nil, apperror.Internal(err, "failed to create comment")
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.CommentCreatedTopic,
		Payload: events.CommentCreatedEvent{
			CommentID:  comment.ID,
			PostID:     postID,
			ActorID:    actor.ID,
			OccurredAt: time.Now(),
		},
	})

	return s.getDetailByID(ctx, comment.ID)
}

// GetComment retrieves a single comment
func (s *CommentsService) GetComment(ctx context.Context, id uuid.UUID) (*ports.CommentDetail, error) {
	return s.getDetailByID(ctx, id)
}

// ListComments returns comments across all targets, newest first
func (s *CommentsService) ListComments(ctx context.Context, limit, offset int) ([]*ports.CommentDetail, error) {
	limit, offset = clampPage(limit, offset)

	details, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list comments", "error", err)
		return nil, apperror.Internal(err, "failed to list comments")
	}
	return details, nil
}

// ListForPost returns the comments under one post, oldest first
func (s *CommentsService) ListForPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*ports.CommentDetail, error) {
	limit, offset = clampPage(limit, offset)

	exists, err := s.posts.PostExists(ctx, postID)
	if err != nil {
		s.logger.Error(ctx, "failed to check post existence", "error", err, "postID", postID)
		return nil, apperror.Internal(err, "failed to validate post")
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	details, err := s.repo.ListForTarget(ctx, commentableTypePosts, postID, limit, offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list comments for post", "error", err, "postID", postID)
		return nil, apperror.Internal(err, "failed to list comments")
	}
	return details, nil
}

// ListMyComments returns the acting user's own comments, newest first
func (s *CommentsService) ListMyComments(ctx context.Context, actor authz.Actor, limit, offset int) ([]*ports.CommentDetail, error) {
	limit, offset = clampPage(limit, offset)

	details, err := s.repo.ListByUser(ctx, actor.ID, limit, offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list comments by user", "error", err, "userID", actor.ID)
		return nil, apperror.Internal(err, "failed to list comments")
	}
	return details, nil
}

// UpdateComment edits a comment's content. Only the comment's author and
// admins may edit; owning the commented post is not enough.
func (s *CommentsService) UpdateComment(ctx context.Context, actor authz.Actor, id uuid.UUID, content string) (*ports.CommentDetail, error) {
	comment, err := s.getCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionUpdate, commentRef(comment),
		"not authorized to update this comment"); err != nil {
		return nil, err
	}

	sanitized := s.sanitizer.Sanitize(content)
	if err := comment.UpdateContent(sanitized); err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.repo.Update(ctx, comment); err != nil {
		s.logger.Error(ctx, "failed to update comment", "error", err, "commentID", id)
		return nil, apperror.Internal(err, "failed to update comment")
	}

	return s.getDetailByID(ctx, id)
}

// DeleteComment removes a comment. The comment's author, the owner of the
// commented post, and admins may delete.
func (s *CommentsService) DeleteComment(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	comment, err := s.getCommentByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, actor, authz.ActionDelete, commentRef(comment),
		"not authorized to delete this comment"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "failed to delete comment", "error", err, "commentID", id)
		return apperror.Internal(err, "failed to delete comment")
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.CommentDeletedTopic,
		Payload: events.CommentDeletedEvent{
			CommentID:  id,
			ActorID:    actor.ID,
			OccurredAt: time.Now(),
		},
	})
	return nil
}

// Private helper methods

func commentRef(c *domain.Comment) authz.Ref {
	return authz.CommentRef(c.ID, c.UserID, c.CommentableType, c.CommentableID)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *CommentsService) authorize(ctx context.Context, actor authz.Actor, action authz.Action, ref authz.Ref, deniedMsg string) error {
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

func (s *CommentsService) getCommentByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Error(ctx, "failed to find comment", "error", err, "commentID", id)
		return nil, apperror.Internal(err, "failed to retrieve comment")
	}
	return comment, nil
}

func (s *CommentsService) getDetailByID(ctx context.Context, id uuid.UUID) (*ports.CommentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Error(ctx, "failed to load comment detail", "error", err, "commentID", id)
		return nil, apperror.Internal(err, "failed to retrieve comment")
	}
	return detail, nil
}
