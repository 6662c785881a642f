package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/backend/internal/auth/application"
	authdomain "github.com/inkwell-blog/backend/internal/auth/domain"
	"github.com/inkwell-blog/backend/internal/auth/ports"
	usersdomain "github.com/inkwell-blog/backend/internal/users/domain"
	usersports "github.com/inkwell-blog/backend/internal/users/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

// fakeUserRepo is an in-memory users repository
type fakeUserRepo struct {
	users map[uuid.UUID]*usersdomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*usersdomain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *usersdomain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return usersports.ErrEmailTaken
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*usersdomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, usersports.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*usersdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, usersports.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *usersdomain.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]*usersdomain.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// fakeTokenRepo is an in-memory token repository keyed by digest
type fakeTokenRepo struct {
	byDigest map[string]*authdomain.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byDigest: make(map[string]*authdomain.Token)}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *authdomain.Token) error {
	cp := *token
	r.byDigest[token.Digest] = &cp
	return nil
}

func (r *fakeTokenRepo) FindUserIDByDigest(ctx context.Context, digest string) (uuid.UUID, error) {
	t, ok := r.byDigest[digest]
	if !ok {
		return uuid.Nil, ports.ErrTokenNotFound
	}
	return t.UserID, nil
}

func (r *fakeTokenRepo) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	for digest, t := range r.byDigest {
		if t.UserID == userID {
			delete(r.byDigest, digest)
		}
	}
	return nil
}

// fakeHasher prefixes instead of hashing
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (fakeHasher) Compare(hashed, plaintext string) bool { return hashed == "hashed:"+plaintext }

type fixture struct {
	service *application.AuthService
	users   *fakeUserRepo
	tokens  *fakeTokenRepo
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	return &fixture{
		service: application.NewAuthService(users, tokens, fakeHasher{}, nopLogger{}),
		users:   users,
		tokens:  tokens,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("signup creates an author and issues a token", func(t *testing.T) {
		f := newFixture()
		user, token, err := f.service.Register(ctx, application.RegisterParams{
			Name:     "ram",
			Email:    "ram@example.com",
			Password: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, usersdomain.RoleAuthor, user.Role, "signup can never mint an admin")
		assert.NotEmpty(t, token)

		resolved, err := f.service.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.service.Register(ctx, application.RegisterParams{
			Name: "ram", Email: "ram@example.com", Password: "secret1",
		})
		require.NoError(t, err)

		_, _, err = f.service.Register(ctx, application.RegisterParams{
			Name: "shyam", Email: "ram@example.com", Password: "secret2",
		})
		assert.ErrorIs(t, err, application.ErrEmailTaken)
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.service.Register(ctx, application.RegisterParams{
			Name: "ram", Email: "ram@example.com", Password: "123",
		})
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, f *fixture) {
		t.Helper()
		_, _, err := f.service.Register(ctx, application.RegisterParams{
			Name: "ram", Email: "ram@example.com", Password: "secret1",
		})
		require.NoError(t, err)
	}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		f := newFixture()
		register(t, f)

		user, token, err := f.service.Login(ctx, "ram@example.com", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "ram@example.com", user.Email)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		f := newFixture()
		register(t, f)

		_, _, err := f.service.Login(ctx, "ram@example.com", "wrong")
		assert.ErrorIs(t, err, application.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.service.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, application.ErrInvalidCredentials)
	})
}

func TestLogoutRevokesAllTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	user, first, err := f.service.Register(ctx, application.RegisterParams{
		Name: "ram", Email: "ram@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, second, err := f.service.Login(ctx, "ram@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, user.ID))

	_, err = f.service.Authenticate(ctx, first)
	assert.ErrorIs(t, err, application.ErrInvalidToken)
	_, err = f.service.Authenticate(ctx, second)
	assert.ErrorIs(t, err, application.ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty token is unauthorized", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Authenticate(ctx, "")
		assert.ErrorIs(t, err, application.ErrInvalidToken)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, application.ErrInvalidToken)
	})

	t.Run("token of a deleted user is unauthorized", func(t *testing.T) {
		f := newFixture()
		user, token, err := f.service.Register(ctx, application.RegisterParams{
			Name: "ram", Email: "ram@example.com", Password: "secret1",
		})
		require.NoError(t, err)
		require.NoError(t, f.users.Delete(ctx, user.ID))

		_, err = f.service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, application.ErrInvalidToken)
	})
}
