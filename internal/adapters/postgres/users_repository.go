package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/backend/internal/platform/postgres"
	"github.com/inkwell-blog/backend/internal/users/domain"
	"github.com/inkwell-blog/backend/internal/users/ports"
)

// UserRepository implements the users.UserRepository interface using PostgreSQL
type UserRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
}

// NewUserRepository creates a new PostgreSQL users repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// WithTx creates a new repository instance that uses the provided transaction
func (r *UserRepository) WithTx(tx pgx.Tx) ports.UserRepository {
	return &UserRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
	}
}

const userColumns = "id, name, email, password_hash, role, created_at, updated_at"

// Create inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query, args, err := r.SB.
		Insert("users").
		Columns("id", "name", "email", "password_hash", "role", "created_at", "updated_at").
		Values(
			pgtype.UUID{Bytes: user.ID, Valid: true},
			user.Name,
			user.Email,
			user.PasswordHash,
			string(user.Role),
			pgtype.Timestamptz{Time: user.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: user.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("UserRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrEmailTaken
		}
		return fmt.Errorf("UserRepository.Create: %w", err)
	}

	return nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query, args, err := r.SB.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("UserRepository.FindByID: build query: %w", err)
	}

	user, err := scanUser(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrUserNotFound
		}
		return nil, fmt.Errorf("UserRepository.FindByID: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query, args, err := r.SB.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("UserRepository.FindByEmail: build query: %w", err)
	}

	user, err := scanUser(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrUserNotFound
		}
		return nil, fmt.Errorf("UserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query, args, err := r.SB.
		Update("users").
		Set("name", user.Name).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("role", string(user.Role)).
		Set("updated_at", pgtype.Timestamptz{Time: user.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: user.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("UserRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrEmailTaken
		}
		return fmt.Errorf("UserRepository.Update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrUserNotFound
	}
	return nil
}

// Delete removes a user from the database
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.SB.
		Delete("users").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("UserRepository.Delete: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("UserRepository.Delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrUserNotFound
	}
	return nil
}

// List retrieves users newest first
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	qb := r.SB.
		Select(userColumns).
		From("users").
		OrderBy("created_at DESC")

	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("UserRepository.List: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.List: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("UserRepository.List: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("UserRepository.List: rows error: %w", err)
	}
	return users, nil
}

// ExistsByEmail checks if an email is taken, optionally excluding one user
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	subQuery := r.SB.Select("1").From("users").Where(sq.Eq{"email": email})
	if excludeID != nil {
		subQuery = subQuery.Where(sq.NotEq{"id": pgtype.UUID{Bytes: *excludeID, Valid: true}})
	}

	subQuerySQL, subQueryArgs, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("UserRepository.ExistsByEmail: build subquery: %w", err)
	}

	query := fmt.Sprintf("SELECT EXISTS(%s)", subQuerySQL)

	var exists bool
	if err := r.DB.QueryRow(ctx, query, subQueryArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("UserRepository.ExistsByEmail: %w", err)
	}
	return exists, nil
}

// scanUser scans a single user from pgx.Row
func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var idBytes pgtype.UUID
	var roleStr string

	err := row.Scan(
		&idBytes,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&roleStr,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ID = idBytes.Bytes
	user.Role = domain.Role(roleStr)
	if !user.Role.IsValid() {
		return nil, fmt.Errorf("scanUser: invalid role %s", roleStr)
	}
	return &user, nil
}

// Compile-time check to ensure UserRepository implements ports.UserRepository
var _ ports.UserRepository = (*UserRepository)(nil)
