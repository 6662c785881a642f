package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/authz"
	"github.com/inkwell-blog/backend/internal/platform/apperror"
	"github.com/inkwell-blog/backend/internal/platform/logger"
	"github.com/inkwell-blog/backend/internal/users/domain"
	"github.com/inkwell-blog/backend/internal/users/ports"
)

// Error definitions for service operations
var (
	ErrUserNotFound = apperror.NotFound(
		apperror.BusinessCodeUserNotFound,
		"user not found",
	)

	ErrEmailTaken = apperror.Conflict(
		apperror.BusinessCodeEmailTaken,
		"email already registered",
	)

	ErrSelfRoleChange = apperror.Forbidden(
		apperror.BusinessCodeSelfRoleChange,
		"you cannot change your own role",
	)

	ErrSelfDelete = apperror.Forbidden(
		apperror.BusinessCodeSelfDelete,
		"you cannot delete your own account",
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

// UserService handles user management business logic
type UserService struct {
	repo       ports.UserRepository
	hasher     ports.PasswordHasher
	authorizer ports.Authorizer
	logger     logger.Logger
}

// NewUserService creates a new user service
func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	authorizer ports.Authorizer,
	logger logger.Logger,
) *UserService {
	return &UserService{
		repo:       repo,
		hasher:     hasher,
		authorizer: authorizer,
		logger:     logger,
	}
}

// CreateUserParams contains parameters for creating a new user
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserParams contains the optional fields of a partial user update.
// A nil field means "leave unchanged".
type UpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
}

// ListUsers returns all users, newest first. Restricted to admins.
func (s *UserService) ListUsers(ctx context.Context, actor authz.Actor, limit, offset int) ([]*domain.User, error) {
	if err := s.authorize(ctx, actor, authz.ActionViewAny, authz.ClassRef(authz.ResourceUsers),
		"not authorized to list users"); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list users", "error", err)
		return nil, apperror.Internal(err, "failed to list users")
	}
	return users, nil
}

// CreateUser creates a new account with an explicit role. Restricted to admins;
// self-service signup goes through the auth module instead.
func (s *UserService) CreateUser(ctx context.Context, actor authz.Actor, params CreateUserParams) (*domain.User, error) {
	if err := s.authorize(ctx, actor, authz.ActionCreate, authz.ClassRef(authz.ResourceUsers),
		"not authorized to create users"); err != nil {
		return nil, err
	}

	if !params.Role.IsValid() {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidRole, domain.ErrInvalidRole.Error())
	}
	if err := domain.ValidatePassword(params.Password); err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.ensureEmailAvailable(ctx, params.Email, nil); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error(ctx, "failed to hash password", "error", err)
		return nil, apperror.Internal(err, "failed to create user")
	}

	user, err := domain.NewUser(params.Name, params.Email, hash, params.Role)
	if err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ports.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		s.logger.Error(ctx, "failed to create user", "error", err)
		return nil, apperror.Internal(err, "failed to create user")
	}

	s.logger.Info(ctx, "user created", "userID", user.ID, "role", user.Role, "actorID", actor.ID)
	return user, nil
}

// GetUser retrieves a user by ID. Visible to the user themselves and admins.
func (s *UserService) GetUser(ctx context.Context, actor authz.Actor, id uuid.UUID) (*domain.User, error) {
	user, err := s.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionView, userRef(id),
		"not authorized to view this user"); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial update to a user's profile
func (s *UserService) UpdateUser(ctx context.Context, actor authz.Actor, id uuid.UUID, params UpdateUserParams) (*domain.User, error) {
	user, err := s.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionUpdate, userRef(id),
		"not authorized to update this user"); err != nil {
		return nil, err
	}

	if params.Name == nil && params.Email == nil && params.Password == nil {
		return nil, ErrEmptyUpdate
	}

	if params.Name != nil {
		if err := user.Rename(*params.Name); err != nil {
			return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
		}
	}

	if params.Email != nil && *params.Email != user.Email {
		if err := s.ensureEmailAvailable(ctx, *params.Email, &id); err != nil {
			return nil, err
		}
		if err := user.ChangeEmail(*params.Email); err != nil {
			return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
		}
	}

	if params.Password != nil {
		if err := domain.ValidatePassword(*params.Password); err != nil {
			return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
		}
		hash, err := s.hasher.Hash(*params.Password)
		if err != nil {
			s.logger.Error(ctx, "failed to hash password", "error", err, "userID", id)
			return nil, apperror.Internal(err, "failed to update user")
		}
		if err := user.ChangePassword(hash); err != nil {
			return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ports.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		s.logger.Error(ctx, "failed to update user", "error", err, "userID", id)
		return nil, apperror.Internal(err, "failed to update user")
	}
	return user, nil
}

// UpdateUserRole assigns a new role to another user. Admins only, and never
// against the admin's own account.
func (s *UserService) UpdateUserRole(ctx context.Context, actor authz.Actor, id uuid.UUID, role domain.Role) (*domain.User, error) {
	user, err := s.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Admin && actor.ID == id {
		return nil, ErrSelfRoleChange
	}
	if err := s.authorize(ctx, actor, authz.ActionUpdateRole, userRef(id),
		"not authorized to change user roles"); err != nil {
		return nil, err
	}

	if err := user.ChangeRole(role); err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidRole, err.Error())
	}

	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error(ctx, "failed to update user role", "error", err, "userID", id)
		return nil, apperror.Internal(err, "failed to update user role")
	}

	s.logger.Info(ctx, "user role changed", "userID", id, "role", role, "actorID", actor.ID)
	return user, nil
}

// DeleteUser removes a user. Admins only, and never the admin's own account.
func (s *UserService) DeleteUser(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if _, err := s.getUserByID(ctx, id); err != nil {
		return err
	}

	if actor.Admin && actor.ID == id {
		return ErrSelfDelete
	}
	if err := s.authorize(ctx, actor, authz.ActionDelete, userRef(id),
		"not authorized to delete users"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "failed to delete user", "error", err, "userID", id)
		return apperror.Internal(err, "failed to delete user")
	}

	s.logger.Info(ctx, "user deleted", "userID", id, "actorID", actor.ID)
	return nil
}

// Private helper methods

// userRef builds the authorization reference for a user record. A user record
// is owned by itself, so the id doubles as the owner.
func userRef(id uuid.UUID) authz.Ref {
	return authz.InstanceRef(authz.ResourceUsers, id, id)
}

func (s *UserService) authorize(ctx context.Context, actor authz.Actor, action authz.Action, ref authz.Ref, deniedMsg string) error {
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

// getUserByID fetches a user and handles not-found errors consistently
func (s *UserService) getUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error(ctx, "failed to find user", "error", err, "userID", id)
		return nil, apperror.Internal(err, "failed to retrieve user")
	}
	return user, nil
}

func (s *UserService) ensureEmailAvailable(ctx context.Context, email string, excludeID *uuid.UUID) error {
	if err := domain.ValidateEmail(email); err != nil {
		return apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}
	taken, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		s.logger.Error(ctx, "failed to check email availability", "error", err)
		return apperror.Internal(err, "failed to check email availability")
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}
