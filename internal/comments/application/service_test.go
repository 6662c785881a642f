package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/backend/internal/authz"
	"github.com/inkwell-blog/backend/internal/comments/application"
	"github.com/inkwell-blog/backend/internal/comments/domain"
	"github.com/inkwell-blog/backend/internal/comments/ports"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/eventbus"
	"github.com/inkwell-blog/backend/internal/platform/ownership"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

// fakeCommentRepo is an in-memory CommentRepository. Insertion order stands
// in for created_at ordering.
type fakeCommentRepo struct {
	comments map[uuid.UUID]*domain.Comment
	order    []uuid.UUID
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]*domain.Comment)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	cp := *comment
	r.comments[comment.ID] = &cp
	r.order = append(r.order, comment.ID)
	return nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, ports.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) detail(c *domain.Comment) *ports.CommentDetail {
	return &ports.CommentDetail{
		ID:              c.ID,
		Content:         c.Content,
		UserID:          c.UserID,
		CommentableType: c.CommentableType,
		CommentableID:   c.CommentableID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (r *fakeCommentRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*ports.CommentDetail, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, ports.ErrCommentNotFound
	}
	return r.detail(c), nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return ports.ErrCommentNotFound
	}
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.comments[id]; !ok {
		return ports.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) List(ctx context.Context, limit, offset int) ([]*ports.CommentDetail, error) {
	out := make([]*ports.CommentDetail, 0, len(r.comments))
	for _, c := range r.comments {
		out = append(out, r.detail(c))
	}
	return out, nil
}

func (r *fakeCommentRepo) ListForTarget(ctx context.Context, commentableType string, commentableID uuid.UUID, limit, offset int) ([]*ports.CommentDetail, error) {
	var out []*ports.CommentDetail
	for _, id := range r.order {
		c, ok := r.comments[id]
		if !ok {
			continue
		}
		if c.CommentableType == commentableType && c.CommentableID == commentableID {
			out = append(out, r.detail(c))
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCommentRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ports.CommentDetail, error) {
	var out []*ports.CommentDetail
	for _, c := range r.comments {
		if c.UserID == userID {
			out = append(out, r.detail(c))
		}
	}
	return out, nil
}

// fakePostChecker knows a fixed post -> owner mapping and doubles as the
// ownership checker registered for "posts"
type fakePostChecker struct {
	owners map[uuid.UUID]uuid.UUID
}

func (c fakePostChecker) PostExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := c.owners[id]
	return ok, nil
}

func (c fakePostChecker) CheckOwnership(ctx context.Context, userID uuid.UUID, resourceID uuid.UUID) (bool, error) {
	return c.owners[resourceID] == userID, nil
}

type fixture struct {
	service   *application.CommentsService
	repo      *fakeCommentRepo
	postID    uuid.UUID
	postOwner authz.Actor
	commenter authz.Actor
	stranger  authz.Actor
	admin     authz.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	postOwner := authz.Actor{ID: uuid.New()}
	postID := uuid.New()
	checker := fakePostChecker{owners: map[uuid.UUID]uuid.UUID{postID: postOwner.ID}}

	registry := ownership.NewRegistry()
	registry.RegisterChecker("posts", checker)
	engine := authz.NewEngine(registry)

	repo := newFakeCommentRepo()
	service := application.NewCommentsService(repo, checker, engine, eventbus.NewBus(nopLogger{}), nopLogger{})

	return &fixture{
		service:   service,
		repo:      repo,
		postID:    postID,
		postOwner: postOwner,
		commenter: authz.Actor{ID: uuid.New()},
		stranger:  authz.Actor{ID: uuid.New()},
		admin:     authz.Actor{ID: uuid.New(), Admin: true},
	}
}

func (f *fixture) addComment(t *testing.T, content string) *ports.CommentDetail {
	t.Helper()
	detail, err := f.service.AddToPost(context.Background(), f.commenter, f.postID, content)
	require.NoError(t, err)
	return detail
}

func assertAppError(t *testing.T, err error, code apperror.ErrorCode, bizCode apperror.BusinessCode) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, bizCode, appErr.BusinessCode)
}

func TestAddToPost(t *testing.T) {
	ctx := context.Background()

	t.Run("any authenticated user can comment", func(t *testing.T) {
		f := newFixture(t)
		detail := f.addComment(t, "nice post")
		assert.Equal(t, f.commenter.ID, detail.UserID)
		assert.Equal(t, "posts", detail.CommentableType)
		assert.Equal(t, f.postID, detail.CommentableID)
	})

	t.Run("markup is stripped", func(t *testing.T) {
		f := newFixture(t)
		detail := f.addComment(t, "<b>bold</b> words")
		assert.Equal(t, "bold words", detail.Content)
	})

	t.Run("missing post yields not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.AddToPost(ctx, f.commenter, uuid.New(), "hello")
		assert.ErrorIs(t, err, application.ErrPostNotFound)
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.AddToPost(ctx, f.commenter, f.postID, "")
		assertAppError(t, err, apperror.CodeValidationFailed, apperror.BusinessCodeInvalidFormat)
	})
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("author can edit", func(t *testing.T) {
		f := newFixture(t)
		created := f.addComment(t, "original")
		detail, err := f.service.UpdateComment(ctx, f.commenter, created.ID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", detail.Content)
	})

	t.Run("post owner cannot edit someone else's comment", func(t *testing.T) {
		f := newFixture(t)
		created := f.addComment(t, "original")
		_, err := f.service.UpdateComment(ctx, f.postOwner, created.ID, "moderated")
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("admin can edit", func(t *testing.T) {
		f := newFixture(t)
		created := f.addComment(t, "original")
		_, err := f.service.UpdateComment(ctx, f.admin, created.ID, "moderated")
		require.NoError(t, err)
	})

	t.Run("missing comment yields not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateComment(ctx, f.commenter, uuid.New(), "edited")
		assert.ErrorIs(t, err, application.ErrCommentNotFound)
	})
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("author can delete", func(t *testing.T) {
		f := newFixture(t)
		created := f.addComment(t, "mine")
		require.NoError(t, f.service.DeleteComment(ctx, f.commenter, created.ID))
	})

	t.Run("post owner can delete comments under their post", func(t *testing.T) {
		f := newFixture(t)
		created := f.addComment(t, "on their post")
		require.NoError(t, f.service.DeleteComment(ctx, f.postOwner, created.ID))
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		f := newFixture(t)
		created := f.addComment(t, "protected")
		err := f.service.DeleteComment(ctx, f.stranger, created.ID)
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("admin can delete", func(t *testing.T) {
		f := newFixture(t)
		created := f.addComment(t, "moderated")
		require.NoError(t, f.service.DeleteComment(ctx, f.admin, created.ID))
	})

	t.Run("missing comment yields not found", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.DeleteComment(ctx, f.commenter, uuid.New())
		assert.ErrorIs(t, err, application.ErrCommentNotFound)
	})
}

func TestListForPost(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the post's comments", func(t *testing.T) {
		f := newFixture(t)
		f.addComment(t, "first")
		f.addComment(t, "second")

		details, err := f.service.ListForPost(ctx, f.postID, 0, 0)
		require.NoError(t, err)
		assert.Len(t, details, 2)
	})

	t.Run("missing post yields not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.ListForPost(ctx, uuid.New(), 0, 0)
		assert.ErrorIs(t, err, application.ErrPostNotFound)
	})

	t.Run("pages through the thread oldest first", func(t *testing.T) {
		f := newFixture(t)
		f.addComment(t, "first")
		f.addComment(t, "second")
		f.addComment(t, "third")

		details, err := f.service.ListForPost(ctx, f.postID, 2, 0)
		require.NoError(t, err)
		require.Len(t, details, 2)
		assert.Equal(t, "first", details[0].Content)
		assert.Equal(t, "second", details[1].Content)

		details, err = f.service.ListForPost(ctx, f.postID, 2, 2)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "third", details[0].Content)
	})
}

func TestListMyComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addComment(t, "mine")

	_, err := f.service.AddToPost(ctx, f.stranger, f.postID, "theirs")
	require.NoError(t, err)

	details, err := f.service.ListMyComments(ctx, f.commenter, 0, 0)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "mine", details[0].Content)
}
