package application_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/backend/internal/authz"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/eventbus"
	"github.com/inkwell-blog/backend/internal/platform/ownership"
	"github.com/inkwell-blog/backend/internal/posts/application"
	"github.com/inkwell-blog/backend/internal/posts/domain"
	"github.com/inkwell-blog/backend/internal/posts/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

// fakePostRepo is an in-memory PostRepository
type fakePostRepo struct {
	posts        map[uuid.UUID]*domain.Post
	postTags     map[uuid.UUID][]uuid.UUID
	tagNames     map[uuid.UUID]string
	postComments map[uuid.UUID][]ports.CommentInfo
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:        make(map[uuid.UUID]*domain.Post),
		postTags:     make(map[uuid.UUID][]uuid.UUID),
		tagNames:     make(map[uuid.UUID]string),
		postComments: make(map[uuid.UUID][]ports.CommentInfo),
	}
}

func (r *fakePostRepo) Create(ctx context.Context, post *domain.Post) error {
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return ports.ErrSlugAlreadyExists
		}
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) detail(p *domain.Post) *ports.PostDetail {
	tags := make([]ports.TagInfo, 0, len(r.postTags[p.ID]))
	for _, tagID := range r.postTags[p.ID] {
		tags = append(tags, ports.TagInfo{ID: tagID, Name: r.tagNames[tagID]})
	}
	return &ports.PostDetail{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Status:      p.Status,
		AuthorID:    p.AuthorID,
		CategoryID:  p.CategoryID,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *fakePostRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*ports.PostDetail, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	detail := r.detail(p)
	detail.Comments = r.postComments[p.ID]
	return detail, nil
}

func (r *fakePostRepo) FindDetailBySlug(ctx context.Context, slug string) (*ports.PostDetail, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			detail := r.detail(p)
			detail.Comments = r.postComments[p.ID]
			return detail, nil
		}
	}
	return nil, ports.ErrPostNotFound
}

func (r *fakePostRepo) Update(ctx context.Context, post *domain.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return ports.ErrPostNotFound
	}
	for _, p := range r.posts {
		if p.ID != post.ID && p.Slug == post.Slug {
			return ports.ErrSlugAlreadyExists
		}
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.posts[id]; !ok {
		return ports.ErrPostNotFound
	}
	delete(r.posts, id)
	delete(r.postTags, id)
	return nil
}

func (r *fakePostRepo) Search(ctx context.Context, filter ports.SearchFilter) ([]*ports.PostDetail, error) {
	var out []*ports.PostDetail
	for _, p := range r.posts {
		if filter.Title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Title)) {
			continue
		}
		out = append(out, r.detail(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePostRepo) Count(ctx context.Context, filter ports.SearchFilter) (int, error) {
	details, _ := r.Search(ctx, filter)
	return len(details), nil
}

func (r *fakePostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*ports.PostDetail, error) {
	var out []*ports.PostDetail
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, r.detail(p))
		}
	}
	return out, nil
}

func (r *fakePostRepo) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			if excludeID != nil && p.ID == *excludeID {
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) GetPostAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	p, ok := r.posts[postID]
	if !ok {
		return uuid.Nil, ports.ErrPostNotFound
	}
	return p.AuthorID, nil
}

func (r *fakePostRepo) ReplaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	r.postTags[postID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

// fakeCategoryChecker knows a fixed set of category ids
type fakeCategoryChecker struct {
	existing map[uuid.UUID]bool
}

func (c fakeCategoryChecker) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.existing[id], nil
}

// fakeTagChecker knows a fixed set of tag ids
type fakeTagChecker struct {
	existing map[uuid.UUID]bool
}

func (c fakeTagChecker) MissingTags(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var missing []uuid.UUID
	for _, id := range ids {
		if !c.existing[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type fixture struct {
	service    *application.PostsService
	repo       *fakePostRepo
	categoryID uuid.UUID
	tagID      uuid.UUID
	author     authz.Actor
	other      authz.Actor
	admin      authz.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakePostRepo()
	categoryID := uuid.New()
	tagID := uuid.New()
	repo.tagNames[tagID] = "golang"

	engine := authz.NewEngine(ownership.NewRegistry())
	bus := eventbus.NewBus(nopLogger{})

	service := application.NewPostsService(
		repo,
		fakeCategoryChecker{existing: map[uuid.UUID]bool{categoryID: true}},
		fakeTagChecker{existing: map[uuid.UUID]bool{tagID: true}},
		engine,
		bus,
		nopLogger{},
	)

	return &fixture{
		service:    service,
		repo:       repo,
		categoryID: categoryID,
		tagID:      tagID,
		author:     authz.Actor{ID: uuid.New()},
		other:      authz.Actor{ID: uuid.New()},
		admin:      authz.Actor{ID: uuid.New(), Admin: true},
	}
}

func (f *fixture) createPost(t *testing.T, title string) *ports.PostDetail {
	t.Helper()
	detail, err := f.service.CreatePost(context.Background(), f.author, application.CreatePostParams{
		Title:       title,
		Description: "body",
		CategoryID:  f.categoryID,
		Status:      domain.PostStatusPublished,
	})
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

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("author becomes the acting user", func(t *testing.T) {
		f := newFixture(t)
		detail, err := f.service.CreatePost(ctx, f.author, application.CreatePostParams{
			Title:       "Hello World",
			Description: "body",
			CategoryID:  f.categoryID,
			Status:      domain.PostStatusDraft,
			TagIDs:      []uuid.UUID{f.tagID},
		})
		require.NoError(t, err)
		assert.Equal(t, f.author.ID, detail.AuthorID)
		assert.Equal(t, "hello-world", detail.Slug)
		require.Len(t, detail.Tags, 1)
		assert.Equal(t, f.tagID, detail.Tags[0].ID)
	})

	t.Run("description is sanitized", func(t *testing.T) {
		f := newFixture(t)
		detail, err := f.service.CreatePost(ctx, f.author, application.CreatePostParams{
			Title:       "Scripted",
			Description: `<p>fine</p><script>alert("x")</script>`,
			CategoryID:  f.categoryID,
			Status:      domain.PostStatusDraft,
		})
		require.NoError(t, err)
		assert.NotContains(t, detail.Description, "<script>")
		assert.Contains(t, detail.Description, "<p>fine</p>")
	})

	t.Run("colliding title conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.createPost(t, "Same Title")
		_, err := f.service.CreatePost(ctx, f.other, application.CreatePostParams{
			Title:       "Same Title",
			Description: "body",
			CategoryID:  f.categoryID,
			Status:      domain.PostStatusDraft,
		})
		assert.ErrorIs(t, err, application.ErrSlugAlreadyExists)
	})

	t.Run("missing category is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreatePost(ctx, f.author, application.CreatePostParams{
			Title:       "Title",
			Description: "body",
			CategoryID:  uuid.New(),
			Status:      domain.PostStatusDraft,
		})
		assert.ErrorIs(t, err, application.ErrCategoryNotFound)
	})

	t.Run("missing tag is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreatePost(ctx, f.author, application.CreatePostParams{
			Title:       "Title",
			Description: "body",
			CategoryID:  f.categoryID,
			Status:      domain.PostStatusDraft,
			TagIDs:      []uuid.UUID{uuid.New()},
		})
		assert.ErrorIs(t, err, application.ErrTagNotFound)
	})
}

func TestGetPostBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Readable Post")
		detail, err := f.service.GetPostBySlug(ctx, f.other, created.Slug)
		require.NoError(t, err)
		assert.Equal(t, created.ID, detail.ID)
	})

	t.Run("missing slug yields not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.GetPostBySlug(ctx, f.other, "nope")
		assert.ErrorIs(t, err, application.ErrPostNotFound)
	})

	t.Run("comments come back with the post", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Discussed Post")
		f.repo.postComments[created.ID] = []ports.CommentInfo{
			{ID: uuid.New(), Content: "first", UserID: f.other.ID, UserName: "reader"},
			{ID: uuid.New(), Content: "second", UserID: f.admin.ID, UserName: "moderator"},
		}

		detail, err := f.service.GetPostBySlug(ctx, f.other, created.Slug)
		require.NoError(t, err)
		require.Len(t, detail.Comments, 2)
		assert.Equal(t, "first", detail.Comments[0].Content)
		assert.Equal(t, "reader", detail.Comments[0].UserName)
		assert.Equal(t, "moderator", detail.Comments[1].UserName)
	})
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	strPtr := func(s string) *string { return &s }

	t.Run("owner can update and slug follows title", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Original")
		detail, err := f.service.UpdatePost(ctx, f.author, created.ID, application.UpdatePostParams{
			Title: strPtr("Renamed Post"),
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed-post", detail.Slug)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Original")
		_, err := f.service.UpdatePost(ctx, f.other, created.ID, application.UpdatePostParams{
			Title: strPtr("Hijacked"),
		})
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("admin can update any post", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Original")
		_, err := f.service.UpdatePost(ctx, f.admin, created.ID, application.UpdatePostParams{
			Title: strPtr("Moderated"),
		})
		require.NoError(t, err)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Original")
		_, err := f.service.UpdatePost(ctx, f.author, created.ID, application.UpdatePostParams{})
		assert.ErrorIs(t, err, application.ErrEmptyUpdate)
	})

	t.Run("missing post yields not found before authorization", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdatePost(ctx, f.other, uuid.New(), application.UpdatePostParams{
			Title: strPtr("Anything"),
		})
		assert.ErrorIs(t, err, application.ErrPostNotFound)
	})

	t.Run("retitling onto an existing slug conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.createPost(t, "Taken Title")
		created := f.createPost(t, "Other Title")
		_, err := f.service.UpdatePost(ctx, f.author, created.ID, application.UpdatePostParams{
			Title: strPtr("Taken Title"),
		})
		assert.ErrorIs(t, err, application.ErrSlugAlreadyExists)
	})

	t.Run("explicit empty tag list detaches tags", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Tagged")
		_, err := f.service.AttachTags(ctx, f.author, created.ID, []uuid.UUID{f.tagID})
		require.NoError(t, err)

		empty := []uuid.UUID{}
		detail, err := f.service.UpdatePost(ctx, f.author, created.ID, application.UpdatePostParams{
			TagIDs: &empty,
		})
		require.NoError(t, err)
		assert.Empty(t, detail.Tags)
	})
}

func TestAttachTags(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the tag set", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Tagged Post")
		detail, err := f.service.AttachTags(ctx, f.author, created.ID, []uuid.UUID{f.tagID})
		require.NoError(t, err)
		require.Len(t, detail.Tags, 1)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Tagged Post")
		_, err := f.service.AttachTags(ctx, f.other, created.ID, []uuid.UUID{f.tagID})
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("unknown tag is rejected", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Tagged Post")
		_, err := f.service.AttachTags(ctx, f.author, created.ID, []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, application.ErrTagNotFound)
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Doomed")
		require.NoError(t, f.service.DeletePost(ctx, f.author, created.ID))
		_, err := f.repo.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, ports.ErrPostNotFound)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Doomed")
		err := f.service.DeletePost(ctx, f.other, created.ID)
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("admin can delete any post", func(t *testing.T) {
		f := newFixture(t)
		created := f.createPost(t, "Doomed")
		require.NoError(t, f.service.DeletePost(ctx, f.admin, created.ID))
	})

	t.Run("missing post yields not found", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.DeletePost(ctx, f.author, uuid.New())
		assert.ErrorIs(t, err, application.ErrPostNotFound)
	})
}

func TestSearchPosts(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	f.createPost(t, "Go Concurrency Patterns")
	f.createPost(t, "Cooking With Gas")

	details, count, err := f.service.SearchPosts(ctx, ports.SearchFilter{Title: "concurrency"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, details, 1)
	assert.Equal(t, "Go Concurrency Patterns", details[0].Title)
}

func TestListMyPosts(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	f.createPost(t, "Mine")
	_, err := f.service.CreatePost(ctx, f.other, application.CreatePostParams{
		Title:       "Theirs",
		Description: "body",
		CategoryID:  f.categoryID,
		Status:      domain.PostStatusPublished,
	})
	require.NoError(t, err)

	details, err := f.service.ListMyPosts(ctx, f.author, 0, 0)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Mine", details[0].Title)
}

func TestPostsOwnershipChecker(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createPost(t, "Owned")

	checker := application.NewPostsOwnershipChecker(f.repo, nopLogger{})

	owns, err := checker.CheckOwnership(ctx, f.author.ID, created.ID)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = checker.CheckOwnership(ctx, f.other.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, owns)

	owns, err = checker.CheckOwnership(ctx, f.author.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, owns, "missing post is not owned by anyone")
}
