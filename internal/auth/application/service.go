package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	authdomain "github.com/inkwell-blog/backend/internal/auth/domain"
	"github.com/inkwell-blog/backend/internal/auth/ports"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/logger"
	usersdomain "github.com/inkwell-blog/backend/internal/users/domain"
	usersports "github.com/inkwell-blog/backend/internal/users/ports"
)

// Error definitions for service operations
var (
	ErrInvalidCredentials = apperror.Unauthenticated(
		apperror.BusinessCodeInvalidCredentials,
		"invalid email or password",
	)

	ErrInvalidToken = apperror.Unauthenticated(
		apperror.BusinessCodeInvalidToken,
		"invalid or expired token",
	)

	ErrEmailTaken = apperror.Conflict(
		apperror.BusinessCodeEmailTaken,
		"email already registered",
	)
)

// AuthService handles registration, login, and token resolution
type AuthService struct {
	users  usersports.UserRepository
	tokens ports.TokenRepository
	hasher usersports.PasswordHasher
	logger logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users usersports.UserRepository,
	tokens ports.TokenRepository,
	hasher usersports.PasswordHasher,
	logger logger.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

// RegisterParams contains parameters for self-service signup
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// Register creates an author account and issues its first token. Signup can
// never produce an admin; elevation goes through the users module.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*usersdomain.User, string, error) {
	if err := usersdomain.ValidatePassword(params.Password); err != nil {
		return nil, "", apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error(ctx, "failed to hash password", "error", err)
		return nil, "", apperror.Internal(err, "failed to register")
	}

	user, err := usersdomain.NewUser(params.Name, params.Email, hash, usersdomain.RoleAuthor)
	if err != nil {
		return nil, "", apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, usersports.ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		s.logger.Error(ctx, "failed to create user", "error", err)
		return nil, "", apperror.Internal(err, "failed to register")
	}

	plaintext, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info(ctx, "user registered", "userID", user.ID)
	return user, plaintext, nil
}

// Login verifies credentials and issues a fresh token. A missing account and
// a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*usersdomain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, usersports.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error(ctx, "failed to find user by email", "error", err)
		return nil, "", apperror.Internal(err, "failed to log in")
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	plaintext, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info(ctx, "user logged in", "userID", user.ID)
	return user, plaintext, nil
}

// Logout revokes every token the user holds, across all devices
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.DeleteForUser(ctx, userID); err != nil {
		s.logger.Error(ctx, "failed to revoke tokens", "error", err, "userID", userID)
		return apperror.Internal(err, "failed to log out")
	}
	s.logger.Info(ctx, "user logged out", "userID", userID)
	return nil
}

// Authenticate resolves a bearer token to the user holding it. Used by the
// HTTP middleware on every protected request.
func (s *AuthService) Authenticate(ctx context.Context, plaintext string) (*usersdomain.User, error) {
	if plaintext == "" {
		return nil, ErrInvalidToken
	}

	userID, err := s.tokens.FindUserIDByDigest(ctx, authdomain.Digest(plaintext))
	if err != nil {
		if errors.Is(err, ports.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error(ctx, "failed to resolve token", "error", err)
		return nil, apperror.Internal(err, "failed to authenticate")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, usersports.ErrUserNotFound) {
			// Token survived its user; treat it as revoked.
			return nil, ErrInvalidToken
		}
		s.logger.Error(ctx, "failed to load token user", "error", err, "userID", userID)
		return nil, apperror.Internal(err, "failed to authenticate")
	}
	return user, nil
}

// CurrentUser returns the account behind an authenticated actor
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*usersdomain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, usersports.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error(ctx, "failed to load current user", "error", err, "userID", userID)
		return nil, apperror.Internal(err, "failed to load user")
	}
	return user, nil
}

func (s *AuthService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, plaintext, err := authdomain.NewToken(userID)
	if err != nil {
		s.logger.Error(ctx, "failed to mint token", "error", err, "userID", userID)
		return "", apperror.Internal(err, "failed to issue token")
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		s.logger.Error(ctx, "failed to store token", "error", err, "userID", userID)
		return "", apperror.Internal(err, "failed to issue token")
	}
	return plaintext, nil
}
