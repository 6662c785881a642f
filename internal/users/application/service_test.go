package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/backend/internal/authz"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/ownership"
	"github.com/inkwell-blog/backend/internal/users/application"
	"github.com/inkwell-blog/backend/internal/users/domain"
	"github.com/inkwell-blog/backend/internal/users/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return ports.ErrEmailTaken
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ports.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return ports.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return ports.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			if excludeID != nil && u.ID == *excludeID {
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

// fakeHasher prefixes instead of hashing so tests can observe re-hashing
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (fakeHasher) Compare(hashed, plaintext string) bool { return hashed == "hashed:"+plaintext }

type fixture struct {
	service *application.UserService
	repo    *fakeUserRepo
	admin   *domain.User
	author  *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeUserRepo()
	engine := authz.NewEngine(ownership.NewRegistry())
	service := application.NewUserService(repo, fakeHasher{}, engine, nopLogger{})

	admin, err := domain.NewUser("admin", "admin@example.com", "hashed:secret1", domain.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), admin))

	author, err := domain.NewUser("author", "author@example.com", "hashed:secret1", domain.RoleAuthor)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), author))

	return &fixture{service: service, repo: repo, admin: admin, author: author}
}

func actorFor(u *domain.User) authz.Actor {
	return authz.Actor{ID: u.ID, Admin: u.IsAdmin()}
}

func assertAppError(t *testing.T, err error, code apperror.ErrorCode, bizCode apperror.BusinessCode) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, bizCode, appErr.BusinessCode)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin can create a user", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.service.CreateUser(ctx, actorFor(f.admin), application.CreateUserParams{
			Name:     "sita",
			Email:    "sita@example.com",
			Password: "secret1",
			Role:     domain.RoleAuthor,
		})
		require.NoError(t, err)
		assert.Equal(t, "sita", user.Name)
		assert.Equal(t, "hashed:secret1", user.PasswordHash)

		stored, err := f.repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "sita@example.com", stored.Email)
	})

	t.Run("author cannot create a user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreateUser(ctx, actorFor(f.author), application.CreateUserParams{
			Name:     "sita",
			Email:    "sita@example.com",
			Password: "secret1",
			Role:     domain.RoleAuthor,
		})
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreateUser(ctx, actorFor(f.admin), application.CreateUserParams{
			Name:     "sita",
			Email:    f.author.Email,
			Password: "secret1",
			Role:     domain.RoleAuthor,
		})
		assert.ErrorIs(t, err, application.ErrEmailTaken)
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreateUser(ctx, actorFor(f.admin), application.CreateUserParams{
			Name:     "sita",
			Email:    "sita@example.com",
			Password: "123",
			Role:     domain.RoleAuthor,
		})
		assertAppError(t, err, apperror.CodeValidationFailed, apperror.BusinessCodeInvalidFormat)
	})

	t.Run("invalid role is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreateUser(ctx, actorFor(f.admin), application.CreateUserParams{
			Name:     "sita",
			Email:    "sita@example.com",
			Password: "secret1",
			Role:     domain.Role("editor"),
		})
		assertAppError(t, err, apperror.CodeValidationFailed, apperror.BusinessCodeInvalidRole)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("user can view self", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.service.GetUser(ctx, actorFor(f.author), f.author.ID)
		require.NoError(t, err)
		assert.Equal(t, f.author.Email, user.Email)
	})

	t.Run("user cannot view another user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.GetUser(ctx, actorFor(f.author), f.admin.ID)
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("admin can view anyone", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.GetUser(ctx, actorFor(f.admin), f.author.ID)
		require.NoError(t, err)
	})

	t.Run("missing user yields not found before authorization", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.GetUser(ctx, actorFor(f.author), uuid.New())
		assert.ErrorIs(t, err, application.ErrUserNotFound)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	strPtr := func(s string) *string { return &s }

	t.Run("empty update is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateUser(ctx, actorFor(f.author), f.author.ID, application.UpdateUserParams{})
		assert.ErrorIs(t, err, application.ErrEmptyUpdate)
	})

	t.Run("user can update own name", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.service.UpdateUser(ctx, actorFor(f.author), f.author.ID, application.UpdateUserParams{
			Name: strPtr("renamed"),
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", user.Name)
	})

	t.Run("password change is re-hashed", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.service.UpdateUser(ctx, actorFor(f.author), f.author.ID, application.UpdateUserParams{
			Password: strPtr("newsecret"),
		})
		require.NoError(t, err)
		assert.Equal(t, "hashed:newsecret", user.PasswordHash)
	})

	t.Run("email change to taken address conflicts", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateUser(ctx, actorFor(f.author), f.author.ID, application.UpdateUserParams{
			Email: strPtr(f.admin.Email),
		})
		assert.ErrorIs(t, err, application.ErrEmailTaken)
	})

	t.Run("resubmitting own email is not a conflict", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.service.UpdateUser(ctx, actorFor(f.author), f.author.ID, application.UpdateUserParams{
			Email: strPtr(f.author.Email),
		})
		require.NoError(t, err)
		assert.Equal(t, f.author.Email, user.Email)
	})

	t.Run("user cannot update another user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateUser(ctx, actorFor(f.author), f.admin.ID, application.UpdateUserParams{
			Name: strPtr("hijack"),
		})
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin can promote an author", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.service.UpdateUserRole(ctx, actorFor(f.admin), f.author.ID, domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateUserRole(ctx, actorFor(f.admin), f.admin.ID, domain.RoleAuthor)
		assert.ErrorIs(t, err, application.ErrSelfRoleChange)
	})

	t.Run("author cannot change roles", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateUserRole(ctx, actorFor(f.author), f.admin.ID, domain.RoleAuthor)
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateUserRole(ctx, actorFor(f.admin), uuid.New(), domain.RoleAdmin)
		assert.ErrorIs(t, err, application.ErrUserNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin can delete another user", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.service.DeleteUser(ctx, actorFor(f.admin), f.author.ID))
		_, err := f.repo.FindByID(ctx, f.author.ID)
		assert.ErrorIs(t, err, ports.ErrUserNotFound)
	})

	t.Run("admin cannot delete self", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.DeleteUser(ctx, actorFor(f.admin), f.admin.ID)
		assert.ErrorIs(t, err, application.ErrSelfDelete)
	})

	t.Run("author cannot delete anyone", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.DeleteUser(ctx, actorFor(f.author), f.admin.ID)
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.DeleteUser(ctx, actorFor(f.admin), uuid.New())
		assert.ErrorIs(t, err, application.ErrUserNotFound)
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("admin can list", func(t *testing.T) {
		f := newFixture(t)
		users, err := f.service.ListUsers(ctx, actorFor(f.admin), 0, 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("author cannot list", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.ListUsers(ctx, actorFor(f.author), 0, 0)
		assertAppError(t, err, apperror.CodeForbidden, apperror.BusinessCodePermissionDenied)
	})
}
