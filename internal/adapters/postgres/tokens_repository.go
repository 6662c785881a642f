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

	"github.com/inkwell-blog/backend/internal/auth/domain"
	"github.com/inkwell-blog/backend/internal/auth/ports"
	"github.com/inkwell-blog/backend/internal/platform/postgres"
)

// TokenRepository implements the auth.TokenRepository interface using PostgreSQL
type TokenRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
}

// NewTokenRepository creates a new PostgreSQL tokens repository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// Create stores a token record
func (r *TokenRepository) Create(ctx context.Context, token *domain.Token) error {
	query, args, err := r.SB.
		Insert("personal_access_tokens").
		Columns("id", "user_id", "token_digest", "created_at").
		Values(
			pgtype.UUID{Bytes: token.ID, Valid: true},
			pgtype.UUID{Bytes: token.UserID, Valid: true},
			token.Digest,
			pgtype.Timestamptz{Time: token.CreatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("TokenRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("TokenRepository.Create: %w", err)
	}
	return nil
}

// FindUserIDByDigest resolves a token digest to its user
func (r *TokenRepository) FindUserIDByDigest(ctx context.Context, digest string) (uuid.UUID, error) {
	query, args, err := r.SB.
		Select("user_id").
		From("personal_access_tokens").
		Where(sq.Eq{"token_digest": digest}).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("TokenRepository.FindUserIDByDigest: build query: %w", err)
	}

	var userIDBytes pgtype.UUID
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&userIDBytes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ports.ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("TokenRepository.FindUserIDByDigest: %w", err)
	}
	return userIDBytes.Bytes, nil
}

// DeleteForUser revokes every token the user holds
func (r *TokenRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	query, args, err := r.SB.
		Delete("personal_access_tokens").
		Where(sq.Eq{"user_id": pgtype.UUID{Bytes: userID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("TokenRepository.DeleteForUser: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("TokenRepository.DeleteForUser: %w", err)
	}
	return nil
}

// Compile-time check to ensure TokenRepository implements ports.TokenRepository
var _ ports.TokenRepository = (*TokenRepository)(nil)
